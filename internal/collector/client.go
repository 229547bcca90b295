package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	apiTimeout       = 15 * time.Second
	maxResponseBytes = 4 << 20 // 4MB
)

// APIClient performs the HTTP GET for api-kind sources. Injected so the
// orchestrator is testable without network access.
type APIClient interface {
	Get(ctx context.Context, rawURL string, params map[string]string) (status int, body []byte, err error)
}

// FeedParser fetches and parses an RSS/Atom feed.
type FeedParser interface {
	Parse(ctx context.Context, url string) (*gofeed.Feed, error)
}

// HTTPAPIClient is the production APIClient.
type HTTPAPIClient struct {
	client *http.Client
}

func NewHTTPAPIClient() *HTTPAPIClient {
	return &HTTPAPIClient{client: &http.Client{Timeout: apiTimeout}}
}

func (c *HTTPAPIClient) Get(ctx context.Context, rawURL string, params map[string]string) (int, []byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, nil, fmt.Errorf("parse url %s: %w", rawURL, err)
	}

	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("User-Agent", "FactFeedBot/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// GofeedParser is the production FeedParser.
type GofeedParser struct {
	parser *gofeed.Parser
}

func NewGofeedParser() *GofeedParser {
	p := gofeed.NewParser()
	p.UserAgent = "FactFeedBot/1.0"
	return &GofeedParser{parser: p}
}

func (p *GofeedParser) Parse(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()
	return p.parser.ParseURLWithContext(feedURL, ctx)
}
