package collector

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/KartikAmbupe/FactFeedAI/internal/source"
)

const scrapeTimeout = 15 * time.Second

// FrontPageScraper covers outlets that expose neither API nor feed by
// scraping their front page. Selectors target the Hacker News layout,
// the one scrape-kind source in the default catalog.
type FrontPageScraper struct{}

func NewFrontPageScraper() *FrontPageScraper {
	return &FrontPageScraper{}
}

func (s *FrontPageScraper) Scrape(ctx context.Context, src source.Source) ([]Draft, error) {
	base, err := url.Parse(src.URL)
	if err != nil {
		return nil, err
	}

	c := colly.NewCollector(
		colly.AllowedDomains(base.Hostname()),
		colly.UserAgent("FactFeedBot/1.0"),
	)
	c.SetRequestTimeout(scrapeTimeout)

	category := strings.ToLower(src.Category)
	if category == "" {
		category = "general"
	}

	now := time.Now().UTC()
	results := make([]Draft, 0, 30)

	c.OnHTML("tr.athing", func(e *colly.HTMLElement) {
		titleSel := e.DOM.Find("span.titleline > a").First()
		title := strings.TrimSpace(titleSel.Text())
		if title == "" {
			return
		}
		href, ok := titleSel.Attr("href")
		if !ok || href == "" {
			return
		}
		// Self posts link relatively (item?id=...).
		link := e.Request.AbsoluteURL(href)

		rank := strings.TrimSuffix(strings.TrimSpace(e.ChildText("span.rank")), ".")

		results = append(results, Draft{
			Title:       title,
			Content:     "No content available",
			Source:      src.Name,
			PublishedAt: now,
			Category:    category,
			Author:      "Unknown",
			URL:         link,
			Raw: map[string]any{
				"rank": rank,
			},
		})
	})

	if err := c.Visit(src.URL); err != nil {
		return nil, err
	}

	return results, nil
}
