package collector

import "time"

// Draft is the canonical article record produced by normalization. It lives
// in memory for one fetch cycle only; identity for dedup purposes is the
// (Title, URL, Source) triple.
type Draft struct {
	Title       string
	Content     string
	Source      string
	PublishedAt time.Time
	Category    string
	Author      string
	URL         string
	Image       string
	Raw         map[string]any
}

// SourceResult records how one source fared in a cycle, so callers can tell
// "nothing new" apart from "source failed".
type SourceResult struct {
	Source  string `json:"source"`
	Kind    string `json:"kind"`
	Fetched int    `json:"fetched"`
	Dropped int    `json:"dropped"`
	Skipped bool   `json:"skipped"`
	Reason  string `json:"reason,omitempty"`
}

// Report is the per-source outcome of one FetchAll cycle.
type Report struct {
	Results []SourceResult `json:"results"`
}

func (r Report) TotalFetched() int {
	n := 0
	for _, res := range r.Results {
		n += res.Fetched
	}
	return n
}

func (r Report) SkippedSources() int {
	n := 0
	for _, res := range r.Results {
		if res.Skipped {
			n++
		}
	}
	return n
}
