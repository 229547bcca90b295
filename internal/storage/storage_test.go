package storage

import (
	"testing"
	"time"

	"github.com/KartikAmbupe/FactFeedAI/internal/collector"
)

func draft(title, url, src string) collector.Draft {
	return collector.Draft{
		Title:       title,
		URL:         url,
		Source:      src,
		Content:     "body",
		Category:    "general",
		Author:      "Unknown",
		PublishedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestDraftIDDeterministicAndTripleSensitive(t *testing.T) {
	a := draft("Title", "https://x/1", "BBC News")

	if draftID(a) != draftID(a) {
		t.Fatal("draftID not deterministic")
	}

	// Any change to the triple changes the identity.
	b := draft("Other Title", "https://x/1", "BBC News")
	c := draft("Title", "https://x/2", "BBC News")
	d := draft("Title", "https://x/1", "CNN")
	for _, other := range []collector.Draft{b, c, d} {
		if draftID(a) == draftID(other) {
			t.Fatalf("draftID collision between %+v and %+v", a, other)
		}
	}

	// Content differences do not: identity is the triple only.
	e := draft("Title", "https://x/1", "BBC News")
	e.Content = "different body"
	e.Category = "technology"
	if draftID(a) != draftID(e) {
		t.Fatal("draftID should ignore non-identity fields")
	}
}

func TestPrepareBatchCollapsesDuplicates(t *testing.T) {
	first := draft("Same", "https://x/1", "BBC News")
	dup := draft("Same", "https://x/1", "BBC News")
	dup.Content = "later copy"

	rows := prepareBatch([]collector.Draft{first, dup})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row for identical triples, got %d", len(rows))
	}
	// First occurrence wins.
	if rows[0].Content != "body" {
		t.Fatalf("expected first occurrence kept, got %+v", rows[0])
	}
}

func TestPrepareBatchDropsUntitledDrafts(t *testing.T) {
	rows := prepareBatch([]collector.Draft{
		draft("", "https://x/1", "BBC News"),
		draft("   ", "https://x/2", "BBC News"),
		draft("Kept", "https://x/3", "BBC News"),
	})
	if len(rows) != 1 || rows[0].Title != "Kept" {
		t.Fatalf("untitled drafts should be dropped, got %+v", rows)
	}
}

func TestPrepareBatchKeepsDistinctTriples(t *testing.T) {
	rows := prepareBatch([]collector.Draft{
		draft("Same", "https://x/1", "BBC News"),
		draft("Same", "https://x/1", "CNN"), // same story, different outlet
	})
	if len(rows) != 2 {
		t.Fatalf("distinct triples collapsed: %+v", rows)
	}
}

func TestPrepareBatchMapsAllFields(t *testing.T) {
	d := draft("Title", "https://x/1", "BBC News")
	d.Image = "https://x/img.png"
	d.Raw = map[string]any{"rank": "3"}

	rows := prepareBatch([]collector.Draft{d})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.ID == "" || len(row.ID) != 40 {
		t.Fatalf("ID should be a sha1 hex digest, got %q", row.ID)
	}
	if row.Image != d.Image || row.Category != d.Category || row.Author != d.Author {
		t.Fatalf("fields lost in mapping: %+v", row)
	}
	if !row.PublishedAt.Equal(d.PublishedAt) {
		t.Fatalf("PublishedAt = %v, want %v", row.PublishedAt, d.PublishedAt)
	}
	if row.ExtraData["rank"] != "3" {
		t.Fatalf("raw payload not carried: %+v", row.ExtraData)
	}
}
