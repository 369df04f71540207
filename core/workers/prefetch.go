// ABOUTME: Prefetch worker warms the response cache for several categories in the background
// ABOUTME: Provides a managed worker pool so category fetches run concurrently without interfering

package workers

import (
	"context"
	"sync"
	"time"

	"newshub-core/core/interfaces"
)

// Job asks the pool to load the first page of one category
type Job struct {
	Category string
	Context  context.Context
	ResultCh chan<- Result
}

// Result reports one finished job
type Result struct {
	Category  string
	Articles  int
	FromCache bool
	Err       error
}

// Prefetcher manages a pool of workers loading category first pages
type Prefetcher struct {
	news       interfaces.NewsService
	logger     interfaces.Logger
	pageSize   int
	jobQueue   chan *Job
	maxWorkers int
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
	mu         sync.Mutex
	running    bool
}

// Config holds configuration for the prefetch pool
type Config struct {
	MaxWorkers int
	QueueSize  int
	// PageSize must match the session page size so warmed pages are the ones it asks for
	PageSize   int
}

// DefaultConfig returns the default pool configuration
func DefaultConfig() Config {
	return Config{
		MaxWorkers: 3,
		QueueSize:  32,
		PageSize:   20,
	}
}

// NewPrefetcher creates a pool that is idle until Start
func NewPrefetcher(news interfaces.NewsService, logger interfaces.Logger, config Config) *Prefetcher {
	defaults := DefaultConfig()
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = defaults.MaxWorkers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.PageSize <= 0 {
		config.PageSize = defaults.PageSize
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}

	return &Prefetcher{
		news:       news,
		logger:     logger,
		pageSize:   config.PageSize,
		maxWorkers: config.MaxWorkers,
		jobQueue:   make(chan *Job, config.QueueSize),
	}
}

// Start launches the workers
func (p *Prefetcher) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}

	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.done = make(chan struct{})
	for i := 0; i < p.maxWorkers; i++ {
		p.wg.Add(1)
		go p.run()
	}

	p.running = true
	return nil
}

// Stop cancels in-flight jobs, waits for the workers to exit and fails
// every job still queued with ErrWorkerNotRunning
func (p *Prefetcher) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return nil
	}

	p.cancel()
	p.wg.Wait()

	for drained := false; !drained; {
		select {
		case job := <-p.jobQueue:
			p.fail(job, ErrWorkerNotRunning)
		default:
			drained = true
		}
	}
	close(p.done)

	p.running = false
	return nil
}

// Submit queues job, waiting at most five seconds for room
func (p *Prefetcher) Submit(job *Job) error {
	done, ok := p.stopped()
	if !ok {
		return ErrWorkerNotRunning
	}

	select {
	case p.jobQueue <- job:
		return nil
	case <-done:
		return ErrWorkerNotRunning
	case <-job.Context.Done():
		return job.Context.Err()
	case <-time.After(5 * time.Second):
		return ErrQueueFull
	}
}

// stopped returns the channel closed by the next Stop, and false when the pool is not running
func (p *Prefetcher) stopped() (<-chan struct{}, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done, p.running
}

// Warm loads the first page of every category and waits for all of them.
// Results come back in the order of categories.
func (p *Prefetcher) Warm(ctx context.Context, categories []string) []Result {
	resultCh := make(chan Result, len(categories))
	results := make([]Result, len(categories))
	index := make(map[string][]int, len(categories))
	done, _ := p.stopped()

	place := func(r Result) {
		slots := index[r.Category]
		results[slots[0]] = r
		index[r.Category] = slots[1:]
	}
	failRest := func(err error) []Result {
		for cat, slots := range index {
			for _, i := range slots {
				results[i] = Result{Category: cat, Err: err}
			}
		}
		return results
	}

	pending := 0
	for i, category := range categories {
		index[category] = append(index[category], i)
		if err := p.Submit(&Job{Category: category, Context: ctx, ResultCh: resultCh}); err != nil {
			results[i] = Result{Category: category, Err: err}
			index[category] = index[category][:len(index[category])-1]
			continue
		}
		pending++
	}

	for ; pending > 0; pending-- {
		select {
		case r := <-resultCh:
			place(r)
		case <-ctx.Done():
			return failRest(ctx.Err())
		case <-done:
			// Stop has already delivered the results of every job it saw
			for ; pending > 0; pending-- {
				select {
				case r := <-resultCh:
					place(r)
				default:
					return failRest(ErrWorkerNotRunning)
				}
			}
			return results
		}
	}
	return results
}

// run is the main loop for each worker
func (p *Prefetcher) run() {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			if p.ctx.Err() != nil {
				p.fail(job, ErrWorkerNotRunning)
				return
			}
			p.process(job)
		case <-p.ctx.Done():
			return
		}
	}
}

// process loads one category, allowing a fresh cached page to satisfy it
func (p *Prefetcher) process(job *Job) {
	ctx, cancel := context.WithCancel(job.Context)
	stop := context.AfterFunc(p.ctx, cancel)
	defer stop()
	defer cancel()

	result := Result{Category: job.Category}
	list, err := p.news.GetList(ctx, interfaces.ListParams{
		Category: job.Category,
		Page:     1,
		PageSize: p.pageSize,
		UseCache: true,
	})
	if err != nil {
		result.Err = err
		p.logger.Warn("Prefetch failed", map[string]interface{}{
			"category": job.Category,
			"error":    err.Error(),
		})
	} else {
		result.Articles = len(list.Articles)
		result.FromCache = list.FromCache
	}

	p.deliver(job, result)
}

func (p *Prefetcher) fail(job *Job, err error) {
	p.deliver(job, Result{Category: job.Category, Err: err})
}

func (p *Prefetcher) deliver(job *Job, result Result) {
	if job.ResultCh == nil {
		return
	}
	select {
	case job.ResultCh <- result:
	case <-job.Context.Done():
	}
}

// Error definitions
var (
	ErrWorkerNotRunning = &WorkerError{Message: "worker pool is not running"}
	ErrQueueFull        = &WorkerError{Message: "job queue is full"}
)

// WorkerError represents a worker-specific error
type WorkerError struct {
	Message string
}

func (e *WorkerError) Error() string {
	return e.Message
}
