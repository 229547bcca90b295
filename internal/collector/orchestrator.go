package collector

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/KartikAmbupe/FactFeedAI/internal/source"
)

// Skip reasons reported per source.
const (
	reasonRateLimited = "rate_limited"
	reasonHTTPError   = "http_error"
	reasonTransport   = "transport_error"
	reasonParse       = "parse_error"
)

// Scraper handles scrape-kind sources, producing drafts directly.
type Scraper interface {
	Scrape(ctx context.Context, src source.Source) ([]Draft, error)
}

// Orchestrator runs one fetch cycle over the catalog: sequential, paced,
// with failures isolated to the source or item that caused them. It holds
// no state between cycles.
type Orchestrator struct {
	catalog source.Catalog
	api     APIClient
	feeds   FeedParser
	scraper Scraper
	logger  *log.Logger

	// seams for tests; New fills in wall clock and real sleep
	sleep func(time.Duration)
	now   func() time.Time
}

func New(catalog source.Catalog, api APIClient, feeds FeedParser, scraper Scraper, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		catalog: catalog,
		api:     api,
		feeds:   feeds,
		scraper: scraper,
		logger:  logger,
		sleep:   time.Sleep,
		now:     time.Now,
	}
}

// FetchAll walks the catalog in order and returns every draft that survived
// normalization, in fetch order, plus a per-source report. Source and item
// failures are logged and absorbed; nothing here aborts the cycle.
func (o *Orchestrator) FetchAll(ctx context.Context) ([]Draft, Report) {
	drafts := make([]Draft, 0, 128)
	report := Report{Results: make([]SourceResult, 0, len(o.catalog))}

	for _, src := range o.catalog {
		// Pacing between sources keeps burst traffic from tripping
		// upstream rate limits.
		o.sleep(jitterDelay())

		res := SourceResult{Source: src.Name, Kind: string(src.Kind)}
		var batch []Draft
		switch src.Kind {
		case source.KindAPI:
			batch = o.fetchAPI(ctx, src, &res)
		case source.KindRSS:
			batch = o.fetchRSS(ctx, src, &res)
		case source.KindScrape:
			batch = o.fetchScrape(ctx, src, &res)
		default:
			o.logger.Printf("skipping %s: unknown kind %q", src.Name, src.Kind)
			res.Skipped = true
			res.Reason = "unknown_kind"
		}

		res.Fetched = len(batch)
		drafts = append(drafts, batch...)
		report.Results = append(report.Results, res)
	}

	o.logger.Printf("fetched %d articles total (%d sources skipped)", len(drafts), report.SkippedSources())
	return drafts, report
}

func (o *Orchestrator) fetchAPI(ctx context.Context, src source.Source, res *SourceResult) []Draft {
	o.logger.Printf("fetching from API: %s", src.URL)

	status, body, err := o.api.Get(ctx, src.URL, src.Params)
	if err != nil {
		o.logger.Printf("API error for %s: %v", src.Name, err)
		res.Skipped = true
		res.Reason = reasonTransport
		return nil
	}
	if status == http.StatusTooManyRequests {
		o.logger.Printf("rate limited, skipping %s (429 Too Many Requests)", src.Name)
		res.Skipped = true
		res.Reason = reasonRateLimited
		return nil
	}
	if status != http.StatusOK {
		o.logger.Printf("API request failed for %s with status code: %d", src.Name, status)
		res.Skipped = true
		res.Reason = reasonHTTPError
		return nil
	}

	var payload struct {
		Articles []json.RawMessage `json:"articles"`
		Results  []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		o.logger.Printf("API response for %s not decodable: %v", src.Name, err)
		res.Skipped = true
		res.Reason = reasonParse
		return nil
	}

	items := payload.Articles
	if len(items) == 0 {
		items = payload.Results
	}

	out := make([]Draft, 0, len(items))
	for _, raw := range items {
		var item map[string]any
		if err := json.Unmarshal(raw, &item); err != nil {
			o.logger.Printf("error processing API item from %s: %v", src.Name, err)
			res.Dropped++
			continue
		}
		out = append(out, normalizeAPIItem(item, src, o.now()))
	}
	return out
}

func (o *Orchestrator) fetchRSS(ctx context.Context, src source.Source, res *SourceResult) []Draft {
	o.logger.Printf("fetching from RSS: %s", src.URL)

	feed, err := o.feeds.Parse(ctx, src.URL)
	if err != nil {
		o.logger.Printf("RSS error for %s: %v", src.Name, err)
		res.Skipped = true
		res.Reason = reasonParse
		return nil
	}

	out := make([]Draft, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		d, err := normalizeFeedItem(feed, item, src, o.now())
		if err != nil {
			o.logger.Printf("error processing RSS entry from %s: %v", src.Name, err)
			res.Dropped++
			continue
		}
		out = append(out, d)
	}
	return out
}

func (o *Orchestrator) fetchScrape(ctx context.Context, src source.Source, res *SourceResult) []Draft {
	if o.scraper == nil {
		o.logger.Printf("skipping %s: no scraper configured", src.Name)
		res.Skipped = true
		res.Reason = "unconfigured"
		return nil
	}

	o.logger.Printf("fetching from page: %s", src.URL)
	batch, err := o.scraper.Scrape(ctx, src)
	if err != nil {
		o.logger.Printf("scrape error for %s: %v", src.Name, err)
		res.Skipped = true
		res.Reason = reasonTransport
		return nil
	}
	return batch
}

// jitterDelay is uniform in [0.5s, 1.5s).
func jitterDelay() time.Duration {
	return 500*time.Millisecond + time.Duration(rand.Int63n(int64(time.Second)))
}
