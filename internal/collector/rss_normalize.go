package collector

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/KartikAmbupe/FactFeedAI/internal/source"
)

// normalizeFeedItem maps one feed entry onto a Draft. Title and link carry
// no fallback for this source kind: an entry missing either is an upstream
// defect and is dropped as a normalization error.
func normalizeFeedItem(feed *gofeed.Feed, item *gofeed.Item, src source.Source, now time.Time) (Draft, error) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return Draft{}, fmt.Errorf("feed entry without title (link=%q)", item.Link)
	}
	link := strings.TrimSpace(item.Link)
	if link == "" {
		return Draft{}, fmt.Errorf("feed entry without link (title=%q)", title)
	}

	content := item.Description
	if content == "" {
		content = item.Content
	}

	displayName := feed.Title
	if displayName == "" {
		displayName = src.Name
	}
	if displayName == "" {
		displayName = "RSS Source"
	}

	// RSS entries carry no native category; the descriptor decides.
	category := strings.ToLower(src.Category)
	if category == "" {
		category = "general"
	}

	return Draft{
		Title:       title,
		Content:     content,
		Source:      displayName,
		PublishedAt: feedPublishedAt(item, now),
		Category:    category,
		Author:      feedAuthor(item),
		URL:         link,
		Image:       feedImage(item, content),
	}, nil
}

func feedPublishedAt(item *gofeed.Item, now time.Time) time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC()
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.UTC()
	}
	return now.UTC()
}

// feedAuthor prefers the first structured author name over the plain
// author field.
func feedAuthor(item *gofeed.Item) string {
	author := ""
	if item.Author != nil {
		author = item.Author.Name
	}
	if len(item.Authors) > 0 && item.Authors[0] != nil && item.Authors[0].Name != "" {
		author = item.Authors[0].Name
	}
	if author == "" {
		return "Unknown"
	}
	return author
}

// feedImage resolves an entry image: media:thumbnail, then a media:content
// attachment with an image type, then an image/* enclosure, then the first
// <img src> in the content body.
func feedImage(item *gofeed.Item, content string) string {
	if media, ok := item.Extensions["media"]; ok {
		if ths := media["thumbnail"]; len(ths) > 0 {
			if u := ths[0].Attrs["url"]; u != "" {
				return u
			}
		}
		for _, mc := range media["content"] {
			if strings.Contains(mc.Attrs["type"], "image") {
				if u := mc.Attrs["url"]; u != "" {
					return u
				}
			}
		}
	}

	for _, enc := range item.Enclosures {
		if enc == nil {
			continue
		}
		if strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}

	return scanImgSrc(content)
}

// scanImgSrc extracts the src of the first <img> in an HTML fragment.
func scanImgSrc(content string) string {
	if content == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img[src]").First().Attr("src")
	return src
}
