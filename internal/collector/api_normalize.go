package collector

import (
	"strings"
	"time"

	"github.com/KartikAmbupe/FactFeedAI/internal/source"
)

// The two date layouts upstream APIs use. Which one applies is keyed on
// which field name is present, not auto-detected.
const (
	layoutPublishedAt = "2006-01-02T15:04:05Z"
	layoutPubDate     = "2006-01-02 15:04:05"
)

// normalizeAPIItem maps one decoded JSON item onto a Draft. Every output
// field has full fallback coverage, so the function is total: malformed
// items fail earlier, at JSON decode.
func normalizeAPIItem(item map[string]any, src source.Source, now time.Time) Draft {
	title := pickString(item, "title")
	if title == "" {
		title = "No Title"
	}

	content := pickString(item, "description", "content")
	if content == "" {
		content = "No content available"
	}

	outlet := embeddedSourceName(item)
	displayName := outlet
	if displayName == "" {
		displayName = src.Name
	}
	if displayName == "" {
		displayName = "API Source"
	}

	return Draft{
		Title:       title,
		Content:     content,
		Source:      displayName,
		PublishedAt: apiPublishedAt(item, now),
		Category:    apiCategory(item, src, outlet),
		Author:      apiAuthor(item),
		URL:         pickStringOr(item, "#", "url", "link"),
		Image:       pickString(item, "urlToImage", "image_url", "image"),
		Raw:         item,
	}
}

// apiPublishedAt parses the item timestamp. Absence and parse failure both
// fall back to the ingestion wall clock, never a zero time.
func apiPublishedAt(item map[string]any, now time.Time) time.Time {
	layout := ""
	dateStr := ""
	if _, ok := item["publishedAt"]; ok {
		layout = layoutPublishedAt
		dateStr = pickString(item, "publishedAt")
	} else if _, ok := item["pubDate"]; ok {
		layout = layoutPubDate
		dateStr = pickString(item, "pubDate")
	}
	if dateStr == "" {
		return now.UTC()
	}
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		return now.UTC()
	}
	return t.UTC()
}

// apiAuthor reads the author field; a creator field, list or scalar,
// overrides it.
func apiAuthor(item map[string]any) string {
	author := pickString(item, "author")
	switch v := item["creator"].(type) {
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok && s != "" {
				author = s
			}
		}
	case string:
		if v != "" {
			author = v
		}
	}
	if author == "" {
		return "Unknown"
	}
	return author
}

// apiCategory collapses the item category to a single lower-case token:
// list values take their first element, absence falls back to the
// descriptor, and sources flagged InferCategory derive a category from the
// embedded outlet name when nothing usable was found.
func apiCategory(item map[string]any, src source.Source, outlet string) string {
	category := ""
	switch v := item["category"].(type) {
	case string:
		category = v
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				category = s
			}
		} else {
			category = "general"
		}
	}
	if category == "" {
		category = src.Category
	}

	if src.InferCategory && (category == "" || strings.EqualFold(category, "all")) {
		category = inferOutletCategory(outlet)
	}

	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return "general"
	}
	return category
}

// inferOutletCategory guesses a category by substring match on the outlet
// name, for aggregator feeds that carry no category of their own.
func inferOutletCategory(outlet string) string {
	name := strings.ToLower(outlet)
	switch {
	case strings.Contains(name, "tech"):
		return "technology"
	case strings.Contains(name, "politic"):
		return "politics"
	case strings.Contains(name, "business"):
		return "business"
	default:
		return "general"
	}
}

func embeddedSourceName(item map[string]any) string {
	if s, ok := item["source"].(map[string]any); ok {
		if name, ok := s["name"].(string); ok {
			return name
		}
	}
	return ""
}

// pickString probes keys in priority order and returns the first non-empty
// string value. The key list is the fallback policy, stated once.
func pickString(item map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := item[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func pickStringOr(item map[string]any, def string, keys ...string) string {
	if s := pickString(item, keys...); s != "" {
		return s
	}
	return def
}
