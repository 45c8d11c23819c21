package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const (
	defaultMaxPages = 8
	maxBodyBytes    = 2 << 20 // per page
	maxHeadings     = 10
)

// ctaPhrases are matched case-insensitively against anchor and button text.
var ctaPhrases = []string{
	"sign up", "get started", "contact", "subscribe", "buy", "try",
	"demo", "download", "learn more", "join", "register", "start free",
}

// Page is a single crawled page record.
type Page struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      int      `json:"status"`
	WordCount   int      `json:"word_count"`
	Headings    []string `json:"headings"`
	Text        string   `json:"-"`
	CTAs        []string `json:"-"`

	InternalLinks int `json:"-"`
	ExternalLinks int `json:"-"`
}

// Result is the ordered output of one crawl. Immutable once returned.
type Result struct {
	RootURL string `json:"root_url"`
	Pages   []Page `json:"pages"`
}

// AggregateText returns page bodies as bounded chunks for prompting.
// The budget is approximated at 4 characters per token.
func (r *Result) AggregateText(maxTokens int) []string {
	budget := maxTokens * 4
	if budget <= 0 {
		return nil
	}

	var chunks []string
	for _, page := range r.Pages {
		text := strings.TrimSpace(page.Text)
		if text == "" {
			continue
		}
		chunk := fmt.Sprintf("## %s (%s)\n%s", page.Title, page.URL, text)
		if len(chunk) > budget {
			chunk = chunk[:budget]
		}
		chunks = append(chunks, chunk)
		budget -= len(chunk)
		if budget <= 0 {
			break
		}
	}
	return chunks
}

// Crawler walks a site breadth-first, same host only.
type Crawler struct {
	httpClient *http.Client
	maxPages   int
	userAgent  string
}

// New creates a crawler that visits at most maxPages pages.
func New(maxPages int) *Crawler {
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &Crawler{
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		maxPages:  maxPages,
		userAgent: "webcrawl-agent/1.0 (+https://github.com/pep299/webcrawl-agent)",
	}
}

// Crawl fetches the root URL and follows same-host links until the page
// budget is spent. A failure on the root page is fatal; failures on
// discovered pages are recorded with their status and skipped.
func (c *Crawler) Crawl(ctx context.Context, rawURL string, progress func(string)) (*Result, error) {
	emit := func(message string) {
		if progress != nil {
			progress(message)
		}
	}

	root, err := url.Parse(rawURL)
	if err != nil || root.Scheme == "" || root.Host == "" {
		return nil, fmt.Errorf("invalid crawl URL %q", rawURL)
	}
	normalize(root)

	result := &Result{RootURL: rawURL}
	visited := map[string]bool{}
	queue := []string{root.String()}

	for len(queue) > 0 && len(result.Pages) < c.maxPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		target := queue[0]
		queue = queue[1:]
		if visited[target] {
			continue
		}
		visited[target] = true

		page, links, err := c.fetchPage(ctx, target, root.Host)
		if err != nil {
			if len(result.Pages) == 0 {
				return nil, fmt.Errorf("fetching %s: %w", target, err)
			}
			continue
		}

		result.Pages = append(result.Pages, *page)
		emit(fmt.Sprintf("Crawled %s (%d/%d)", target, len(result.Pages), c.maxPages))

		for _, link := range links {
			if !visited[link] {
				queue = append(queue, link)
			}
		}
	}

	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("no pages crawled from %s", rawURL)
	}
	return result, nil
}

func (c *Crawler) fetchPage(ctx context.Context, target, rootHost string) (*Page, []string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", target, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, nil, fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "html") {
		return nil, nil, fmt.Errorf("unsupported content type %q", contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("reading body: %w", err)
	}

	pageURL := resp.Request.URL
	page, links := parsePage(body, pageURL, rootHost)
	page.Status = resp.StatusCode
	return page, links, nil
}

// parsePage extracts the page record plus the internal links to enqueue.
func parsePage(body []byte, pageURL *url.URL, rootHost string) (*Page, []string) {
	page := &Page{URL: pageURL.String()}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return page, nil
	}

	page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		page.Description = strings.TrimSpace(desc)
	}

	doc.Find("h1, h2, h3").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		heading := strings.Join(strings.Fields(s.Text()), " ")
		if heading != "" {
			page.Headings = append(page.Headings, heading)
		}
		return len(page.Headings) < maxHeadings
	})

	var internal []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		resolved, err := pageURL.Parse(strings.TrimSpace(href))
		if err != nil || (resolved.Scheme != "http" && resolved.Scheme != "https") {
			return
		}
		normalize(resolved)

		if resolved.Host == rootHost {
			page.InternalLinks++
			internal = append(internal, resolved.String())
		} else {
			page.ExternalLinks++
		}

		if cta := matchCTA(s.Text()); cta != "" {
			page.CTAs = append(page.CTAs, cta)
		}
	})
	doc.Find("button").Each(func(_ int, s *goquery.Selection) {
		if cta := matchCTA(s.Text()); cta != "" {
			page.CTAs = append(page.CTAs, cta)
		}
	})

	page.Text = readableText(body, pageURL, doc)
	page.WordCount = len(strings.Fields(page.Text))
	return page, internal
}

// readableText prefers the readability extraction and falls back to the
// raw body text when the page has no recognizable article content.
func readableText(body []byte, pageURL *url.URL, doc *goquery.Document) string {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return strings.TrimSpace(article.TextContent)
	}
	return strings.Join(strings.Fields(doc.Find("body").Text()), " ")
}

// normalize strips fragments and gives bare-host URLs a "/" path so the
// visited set keys stay stable.
func normalize(u *url.URL) {
	u.Fragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
}

func matchCTA(text string) string {
	cleaned := strings.Join(strings.Fields(text), " ")
	if cleaned == "" || len(cleaned) > 60 {
		return ""
	}
	lower := strings.ToLower(cleaned)
	for _, phrase := range ctaPhrases {
		if strings.Contains(lower, phrase) {
			return cleaned
		}
	}
	return ""
}
