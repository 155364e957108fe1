// Package loader fetches news article URLs and extracts their readable text.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	nurl "net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/newslens/internal/config"
	"github.com/seenimoa/newslens/internal/infra"
	"github.com/seenimoa/newslens/pkg/models"
)

// minTextLength is the shortest extraction considered a real article body.
// Anything under this falls through to the paragraph-scrape fallback.
const minTextLength = 200

// Loader fetches article URLs concurrently and produces one SourceDocument
// per URL. A failed fetch never aborts the batch; it is recorded on the
// document and the remaining URLs proceed.
type Loader struct {
	client      *http.Client
	limiter     *infra.RateLimiter
	feedParser  *gofeed.Parser
	maxChars    int
	concurrency int
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) { l.client = client }
}

// WithMaxDocumentChars caps the extracted text length per document.
func WithMaxDocumentChars(n int) Option {
	return func(l *Loader) { l.maxChars = n }
}

// WithConcurrency sets how many URLs are fetched in parallel.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// New creates a Loader from the loader section of the configuration.
func New(cfg config.LoaderConfig, opts ...Option) *Loader {
	l := &Loader{
		client:      infra.NewHTTPClient(time.Duration(cfg.TimeoutSec) * time.Second),
		limiter:     infra.NewRateLimiter(cfg.RequestsPerSecond, time.Second),
		feedParser:  gofeed.NewParser(),
		maxChars:    cfg.MaxDocumentChars,
		concurrency: cfg.ConcurrentFetches,
	}
	if l.maxChars <= 0 {
		l.maxChars = 6000
	}
	if l.concurrency <= 0 {
		l.concurrency = models.MaxSources
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadAll fetches every URL and returns one document per URL, in the same
// order as the input. Individual failures are recorded on the document.
func (l *Loader) LoadAll(ctx context.Context, urls []string) []models.SourceDocument {
	docs := make([]models.SourceDocument, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			docs[i] = l.Load(gctx, u)
			return nil
		})
	}

	// Workers never return errors; failures live on the documents.
	_ = g.Wait()
	return docs
}

// Load fetches a single URL and extracts its article text.
func (l *Loader) Load(ctx context.Context, rawURL string) models.SourceDocument {
	doc := models.SourceDocument{
		URL:      rawURL,
		Domain:   domainOf(rawURL),
		Status:   models.FetchFailed,
		LoadedAt: time.Now(),
	}

	if err := l.limiter.Wait(ctx); err != nil {
		doc.Error = err.Error()
		return doc
	}

	body, contentType, err := infra.Get(ctx, l.client, rawURL)
	if err != nil {
		doc.Error = err.Error()
		return doc
	}
	defer body.Close()

	raw, err := io.ReadAll(io.LimitReader(body, 10<<20))
	if err != nil {
		doc.Error = fmt.Sprintf("read body: %v", err)
		return doc
	}

	// A URL pointing at an RSS/Atom feed resolves to its newest item.
	if isFeed(contentType, raw) {
		articleURL, err := l.resolveFeedURL(raw)
		if err != nil {
			doc.Error = err.Error()
			return doc
		}
		return l.loadArticle(ctx, doc, articleURL)
	}

	title, text, err := extractText(rawURL, raw)
	if err != nil {
		doc.Error = err.Error()
		return doc
	}

	doc.Title = title
	doc.Text = truncate(text, l.maxChars)
	doc.ContentLength = len(doc.Text)
	doc.Status = models.FetchOK
	doc.Error = ""
	return doc
}

// loadArticle fetches the article a feed pointed at. The document keeps the
// original URL the caller supplied.
func (l *Loader) loadArticle(ctx context.Context, doc models.SourceDocument, articleURL string) models.SourceDocument {
	body, _, err := infra.Get(ctx, l.client, articleURL)
	if err != nil {
		doc.Error = fmt.Sprintf("feed item %s: %v", articleURL, err)
		return doc
	}
	defer body.Close()

	raw, err := io.ReadAll(io.LimitReader(body, 10<<20))
	if err != nil {
		doc.Error = fmt.Sprintf("read feed item: %v", err)
		return doc
	}

	title, text, err := extractText(articleURL, raw)
	if err != nil {
		doc.Error = err.Error()
		return doc
	}

	doc.Title = title
	doc.Text = truncate(text, l.maxChars)
	doc.ContentLength = len(doc.Text)
	doc.Status = models.FetchOK
	doc.Error = ""
	return doc
}

// resolveFeedURL parses a feed payload and returns the link of its first item.
func (l *Loader) resolveFeedURL(raw []byte) (string, error) {
	feed, err := l.feedParser.Parse(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("parse feed: %w", err)
	}
	if len(feed.Items) == 0 {
		return "", fmt.Errorf("feed %q has no items", feed.Title)
	}
	link := strings.TrimSpace(feed.Items[0].Link)
	if link == "" {
		return "", fmt.Errorf("feed %q first item has no link", feed.Title)
	}
	return link, nil
}

// extractText pulls the readable article body out of an HTML page.
// Readability does the heavy lifting; a plain paragraph scrape covers
// pages it cannot make sense of.
func extractText(pageURL string, raw []byte) (title, text string, err error) {
	parsed, _ := nurl.Parse(pageURL)

	article, rerr := readability.FromReader(bytes.NewReader(raw), parsed)
	if rerr == nil {
		title = strings.TrimSpace(article.Title)
		text = normalizeWhitespace(article.TextContent)
		if len(text) >= minTextLength {
			return title, text, nil
		}
	}

	fbTitle, fbText, ferr := scrapeParagraphs(raw)
	if ferr != nil {
		if rerr != nil {
			return "", "", fmt.Errorf("extract content: %w", rerr)
		}
		return "", "", ferr
	}
	if title == "" {
		title = fbTitle
	}
	if len(fbText) > len(text) {
		text = fbText
	}
	if text == "" {
		return "", "", fmt.Errorf("no readable text found")
	}
	return title, text, nil
}

// scrapeParagraphs collects <p> text from a page as a last-resort extractor.
func scrapeParagraphs(raw []byte) (title, text string, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return "", "", fmt.Errorf("parse html: %w", err)
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("script, style, nav, header, footer, aside").Remove()

	var parts []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		if len(t) > 40 {
			parts = append(parts, t)
		}
	})
	return title, normalizeWhitespace(strings.Join(parts, "\n\n")), nil
}

// normalizeWhitespace collapses runs of blank lines and inline whitespace.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// truncate cuts text at the last word boundary before max characters.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if idx := strings.LastIndexAny(cut, " \n"); idx > max/2 {
		cut = cut[:idx]
	}
	return cut
}

// domainOf extracts the registrable host from a URL, without the www prefix.
func domainOf(rawURL string) string {
	parsed, err := nurl.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
}

// isFeed reports whether a response looks like an RSS or Atom feed.
func isFeed(contentType string, raw []byte) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "rss") || strings.Contains(ct, "atom") {
		return true
	}
	if !strings.Contains(ct, "xml") && ct != "" && !strings.Contains(ct, "octet-stream") {
		return false
	}
	head := bytes.ToLower(raw)
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.Contains(head, []byte("<rss")) || bytes.Contains(head, []byte("<feed"))
}
