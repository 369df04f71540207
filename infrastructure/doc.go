// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package: cache backends, the provider HTTP pipeline and
// the logger.
//
//   - cache/memory: patrickmn/go-cache backend with a janitor sweep
//   - cache/sqlite: durable backend for favorites, history and preferences
//   - cache/redis: shared backend for multi-process setups
//   - http/standard: provider client with timeout, cache-busting and status classification
//   - logger/standard: logrus-backed structured logger
//
// Every cache backend serves both the response cache and the key-value store;
// the two are kept apart by key namespace.
//
// Memory backend:
//
//	backend := memory.NewMemoryCache()
//	err := backend.Set(ctx, "kv:app_theme", []byte(`"dark"`), 0)
//
// Provider client:
//
//	client := standard.NewClient(standard.Options{BaseURL: "https://jsonplaceholder.typicode.com"})
//	resp, err := client.Get(ctx, "/posts", url.Values{"_page": {"1"}})
//	if err != nil {
//	    // err is one of the core/errors transport types
//	}
//	defer resp.Body().Close()
package infrastructure
