package scheduler

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/KartikAmbupe/FactFeedAI/internal/collector"
)

type fakeFetcher struct {
	drafts []collector.Draft
	report collector.Report
}

func (f *fakeFetcher) FetchAll(context.Context) ([]collector.Draft, collector.Report) {
	return f.drafts, f.report
}

type fakeGateway struct {
	seen    map[string]struct{}
	lastLen int
	err     error
}

// storeNew mimics the real gateway: count only unseen (title, url, source)
// triples, remember them across calls.
func (g *fakeGateway) StoreNew(_ context.Context, drafts []collector.Draft) (int, error) {
	if g.err != nil {
		return 0, g.err
	}
	if g.seen == nil {
		g.seen = make(map[string]struct{})
	}
	g.lastLen = len(drafts)
	n := 0
	for _, d := range drafts {
		key := d.Title + "|" + d.URL + "|" + d.Source
		if _, ok := g.seen[key]; ok {
			continue
		}
		g.seen[key] = struct{}{}
		n++
	}
	return n, nil
}

func testDrafts() []collector.Draft {
	return []collector.Draft{
		{Title: "A", URL: "https://x/1", Source: "BBC News"},
		{Title: "B", URL: "https://x/2", Source: "CNN"},
	}
}

func TestRunOnceStoresBatchAndReportsCounts(t *testing.T) {
	fetcher := &fakeFetcher{
		drafts: testDrafts(),
		report: collector.Report{Results: []collector.SourceResult{
			{Source: "BBC News", Kind: "rss", Fetched: 1},
			{Source: "CNN", Kind: "rss", Fetched: 1},
		}},
	}
	gateway := &fakeGateway{}
	var buf bytes.Buffer

	s, err := New("@hourly", fetcher, gateway, log.New(&buf, "", 0))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	newCount, report, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce error: %v", err)
	}
	if newCount != 2 {
		t.Fatalf("newCount = %d, want 2", newCount)
	}
	if report.TotalFetched() != 2 {
		t.Fatalf("TotalFetched = %d, want 2", report.TotalFetched())
	}
	if gateway.lastLen != 2 {
		t.Fatalf("gateway received %d drafts, want 2", gateway.lastLen)
	}
}

func TestRunOnceIsIdempotentOnUnchangedUpstream(t *testing.T) {
	fetcher := &fakeFetcher{drafts: testDrafts()}
	gateway := &fakeGateway{}
	s, err := New("@hourly", fetcher, gateway, log.New(&bytes.Buffer{}, "", 0))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	first, _, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("first cycle error: %v", err)
	}
	second, _, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("second cycle error: %v", err)
	}

	if first != 2 || second != 0 {
		t.Fatalf("new counts = (%d, %d), want (2, 0)", first, second)
	}
}

func TestRunOncePropagatesCommitError(t *testing.T) {
	fetcher := &fakeFetcher{drafts: testDrafts()}
	gateway := &fakeGateway{err: errors.New("commit failed")}
	s, err := New("@hourly", fetcher, gateway, log.New(&bytes.Buffer{}, "", 0))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if _, _, err := s.RunOnce(context.Background()); err == nil {
		t.Fatal("commit error should propagate, got nil")
	}
}

func TestRunOnceSkipsStoreOnEmptyBatch(t *testing.T) {
	fetcher := &fakeFetcher{
		report: collector.Report{Results: []collector.SourceResult{
			{Source: "Down", Kind: "api", Skipped: true, Reason: "transport_error"},
		}},
	}
	// A gateway error would fail the test if the store were called.
	gateway := &fakeGateway{err: errors.New("must not be called")}
	var buf bytes.Buffer

	s, err := New("@hourly", fetcher, gateway, log.New(&buf, "", 0))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	newCount, report, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce error: %v", err)
	}
	if newCount != 0 {
		t.Fatalf("newCount = %d, want 0", newCount)
	}
	if report.SkippedSources() != 1 {
		t.Fatalf("SkippedSources = %d, want 1", report.SkippedSources())
	}
	if !strings.Contains(buf.String(), "skipped (transport_error)") {
		t.Fatalf("per-source skip not logged:\n%s", buf.String())
	}
}
