// ABOUTME: Decodes provider payloads and maps them onto the canonical Article shape
// ABOUTME: Handles JSON post arrays, the news envelope format and RSS/Atom feeds

package news

import (
	"bytes"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"newshub-core/core/domain"
	coreerrors "newshub-core/core/errors"
	"newshub-core/pkg/utils/html"
	timeutil "newshub-core/pkg/utils/time"

	"github.com/mmcdole/gofeed"
)

const (
	untitled      = "无标题"
	imageTemplate = "https://picsum.photos/400/300?random=%d"
	publishWindow = 7 * 24 * time.Hour
)

var mockAuthors = []string{"张三", "李四", "王五", "赵六", "钱七", "孙八", "周九", "吴十"}

// providerTZ is the zone envelope dates are written in
var providerTZ = time.FixedZone("CST", 8*60*60)

// record is a provider item before it becomes an Article.
// seed is non-zero for items that need synthesized images, author and date.
type record struct {
	providerID string
	title      string
	body       string
	author     string
	url        string
	images     []string
	published  time.Time
	seed       int
}

type rawPost struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type rawEnvelope struct {
	ErrorCode int    `json:"error_code"`
	Reason    string `json:"reason"`
	Result    *struct {
		Stat string           `json:"stat"`
		Data []rawEnvelopeRow `json:"data"`
	} `json:"result"`
}

type rawEnvelopeRow struct {
	UniqueKey  string `json:"uniquekey"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	Category   string `json:"category"`
	AuthorName string `json:"author_name"`
	URL        string `json:"url"`
	Thumbnail1 string `json:"thumbnail_pic_s"`
	Thumbnail2 string `json:"thumbnail_pic_s02"`
	Thumbnail3 string `json:"thumbnail_pic_s03"`
}

// decodeList turns a list response body into records. An empty list is valid;
// anything that is not a recognizable list is a NoDataError.
func decodeList(body []byte, contentType string) ([]record, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, &coreerrors.NoDataError{Reason: "empty response body"}
	}

	switch {
	case trimmed[0] == '[':
		var posts []rawPost
		if err := json.Unmarshal(trimmed, &posts); err != nil {
			return nil, &coreerrors.NoDataError{Reason: err.Error()}
		}
		records := make([]record, 0, len(posts))
		for _, p := range posts {
			records = append(records, postRecord(p))
		}
		return records, nil

	case trimmed[0] == '{':
		var env rawEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, &coreerrors.NoDataError{Reason: err.Error()}
		}
		if env.ErrorCode != 0 {
			return nil, &coreerrors.ExternalAPIError{StatusCode: env.ErrorCode, Message: env.Reason, API: "news"}
		}
		if env.Result == nil {
			return nil, &coreerrors.NoDataError{Reason: "response is not a list"}
		}
		records := make([]record, 0, len(env.Result.Data))
		for _, row := range env.Result.Data {
			records = append(records, envelopeRecord(row))
		}
		return records, nil

	case trimmed[0] == '<' || strings.Contains(contentType, "xml"):
		return decodeFeed(trimmed)
	}

	return nil, &coreerrors.NoDataError{Reason: "unrecognized payload"}
}

// decodeDetail decodes a single post object
func decodeDetail(body []byte) (record, error) {
	var p rawPost
	if err := json.Unmarshal(bytes.TrimSpace(body), &p); err != nil {
		return record{}, &coreerrors.NoDataError{Reason: err.Error()}
	}
	if p.ID == 0 {
		return record{}, &coreerrors.NoDataError{Reason: "post has no id"}
	}
	return postRecord(p), nil
}

func decodeFeed(body []byte) ([]record, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &coreerrors.NoDataError{Reason: err.Error()}
	}

	records := make([]record, 0, len(feed.Items))
	for _, item := range feed.Items {
		rec := record{
			providerID: feedItemID(item),
			title:      item.Title,
			url:        item.Link,
			body:       item.Description,
		}
		if rec.body == "" {
			rec.body = item.Content
		}
		if item.Author != nil {
			rec.author = item.Author.Name
		} else if len(item.Authors) > 0 && item.Authors[0] != nil {
			rec.author = item.Authors[0].Name
		}
		if item.PublishedParsed != nil {
			rec.published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			rec.published = *item.UpdatedParsed
		}
		rec.images = feedItemImages(item)
		records = append(records, rec)
	}
	return records, nil
}

func feedItemID(item *gofeed.Item) string {
	key := item.GUID
	if key == "" {
		key = item.Link
	}
	if key == "" {
		key = item.Title
	}
	h := fnv.New64a()
	h.Write([]byte(key))
	return strconv.FormatUint(h.Sum64(), 16)
}

func feedItemImages(item *gofeed.Item) []string {
	var images []string
	if item.Image != nil && item.Image.URL != "" {
		images = append(images, item.Image.URL)
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			images = append(images, enc.URL)
		}
	}
	if len(images) == 0 {
		if src := html.FirstImage(item.Content); src != "" {
			images = append(images, src)
		} else if src := html.FirstImage(item.Description); src != "" {
			images = append(images, src)
		}
	}
	return images
}

func postRecord(p rawPost) record {
	return record{
		providerID: strconv.Itoa(p.ID),
		title:      p.Title,
		body:       p.Body,
		seed:       p.ID,
	}
}

func envelopeRecord(row rawEnvelopeRow) record {
	rec := record{
		providerID: row.UniqueKey,
		title:      row.Title,
		author:     row.AuthorName,
		url:        row.URL,
		images:     []string{row.Thumbnail1, row.Thumbnail2, row.Thumbnail3},
	}
	rec.published = timeutil.ParseIn(row.Date, providerTZ)
	return rec
}

func (s *Service) toArticles(records []record, category string) []domain.Article {
	articles := make([]domain.Article, 0, len(records))
	for _, rec := range records {
		articles = append(articles, s.toArticle(rec, category))
	}
	return articles
}

func (s *Service) toArticle(rec record, category string) domain.Article {
	if rec.seed != 0 {
		rec = s.synthesize(rec)
	}

	title := strings.TrimSpace(rec.title)
	if title == "" {
		title = untitled
	}
	published := rec.published
	if published.IsZero() {
		published = s.opts.Now()
	}

	return domain.Article{
		ID:          ArticleID(rec.providerID, category),
		Title:       title,
		PublishedAt: published.UTC(),
		Category:    domain.CategoryLabel(category),
		CategoryKey: category,
		AuthorName:  rec.author,
		SourceURL:   rec.url,
		Images:      normalizeImages(rec.images),
		BodyPreview: html.Truncate(html.StripHTML(rec.body), s.opts.PreviewLength),
	}
}

// synthesize fills the fields the post provider lacks. Output depends only on
// the post id and the current time.
func (s *Service) synthesize(rec record) record {
	id := rec.seed
	if id < 0 {
		id = -id
	}

	rec.images = []string{fmt.Sprintf(imageTemplate, id)}
	if id%10 >= 7 {
		rec.images = append(rec.images, fmt.Sprintf(imageTemplate, id+1000))
	}
	if rec.author == "" {
		rec.author = mockAuthors[id%len(mockAuthors)]
	}
	if rec.url == "" {
		rec.url = s.opts.ArticleURLBase + rec.providerID
	}

	offset := time.Duration(id*7919%int(publishWindow/time.Minute)) * time.Minute
	rec.published = s.opts.Now().Add(-offset)
	return rec
}

// normalizeImages drops blanks and duplicates and upgrades http to https
func normalizeImages(images []string) []string {
	out := make([]string, 0, len(images))
	seen := make(map[string]struct{}, len(images))
	for _, img := range images {
		img = strings.TrimSpace(img)
		if img == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(img, "http://"); ok {
			img = "https://" + rest
		} else if strings.HasPrefix(img, "//") {
			img = "https:" + img
		}
		if _, dup := seen[img]; dup {
			continue
		}
		seen[img] = struct{}{}
		out = append(out, img)
	}
	return out
}
