package source

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind selects which fetch path a source goes through.
type Kind string

const (
	KindAPI    Kind = "api"    // JSON REST endpoint
	KindRSS    Kind = "rss"    // RSS/Atom feed
	KindScrape Kind = "scrape" // static HTML front page
)

// Source describes one upstream. Immutable after catalog load; Params only
// ever holds resolved values, secret references are expanded at load time.
type Source struct {
	Kind     Kind              `yaml:"kind"`
	Name     string            `yaml:"name"`
	URL      string            `yaml:"url"`
	Params   map[string]string `yaml:"params,omitempty"`
	Category string            `yaml:"category"`

	// InferCategory enables outlet-name category inference for aggregator
	// APIs that lump many outlets into one feed without a category field.
	InferCategory bool `yaml:"inferCategory,omitempty"`
}

// Catalog is the ordered source list for one process lifetime.
type Catalog []Source

// Default mirrors the original deployment's source list. API sources whose
// key is missing are left out so the fetch cycle never sends empty
// credentials upstream.
func Default(newsAPIKey, newsDataKey string) Catalog {
	cat := Catalog{
		{Kind: KindRSS, Name: "BBC News", URL: "http://feeds.bbci.co.uk/news/rss.xml", Category: "general"},
		{Kind: KindRSS, Name: "CNN", URL: "http://rss.cnn.com/rss/edition.rss", Category: "general"},
		{Kind: KindRSS, Name: "TechCrunch", URL: "https://techcrunch.com/feed/", Category: "technology"},
		{Kind: KindRSS, Name: "Wired", URL: "https://www.wired.com/feed/rss", Category: "technology"},
		{Kind: KindRSS, Name: "NPR", URL: "https://feeds.npr.org/1001/rss.xml", Category: "general"},
		{Kind: KindRSS, Name: "The Guardian - Environment", URL: "https://www.theguardian.com/environment/rss", Category: "environment"},
		{Kind: KindRSS, Name: "NBC Politics", URL: "https://feeds.nbcnews.com/nbcnews/public/politics", Category: "politics"},
		{Kind: KindScrape, Name: "Hacker News", URL: "https://news.ycombinator.com/", Category: "technology"},
	}

	if newsAPIKey != "" {
		cat = append(cat, Source{
			Kind: KindAPI,
			Name: "NewsAPI US",
			URL:  "https://newsapi.org/v2/top-headlines",
			Params: map[string]string{
				"apiKey":   newsAPIKey,
				"country":  "us",
				"pageSize": "100", // max articles per call
			},
			Category:      "all",
			InferCategory: true,
		})
	} else {
		log.Println("source: NEWSAPI_KEY not set, skipping NewsAPI US")
	}

	if newsDataKey != "" {
		for _, c := range []string{"general", "technology", "politics", "business", "top"} {
			cat = append(cat, newsDataSource(newsDataKey, c))
		}
	} else {
		log.Println("source: NEWSDATA_KEY not set, skipping NewsData.io sources")
	}

	return cat
}

func newsDataSource(key, category string) Source {
	return Source{
		Kind: KindAPI,
		Name: "NewsData.io India " + capitalize(category),
		URL:  "https://newsdata.io/api/1/news",
		Params: map[string]string{
			"apikey":   key,
			"country":  "in",
			"language": "en",
			"category": category,
		},
		Category: category,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type catalogFile struct {
	Sources []Source `yaml:"sources"`
}

// Load reads a catalog from a YAML file. Param values may reference secrets
// as ${ENV_NAME}; references are resolved here and a source whose secret
// resolves empty is excluded with a log line rather than fetched without
// credentials.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: read catalog: %w", err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("source: parse catalog: %w", err)
	}
	if len(f.Sources) == 0 {
		return nil, fmt.Errorf("source: catalog %s has no sources", path)
	}

	cat := make(Catalog, 0, len(f.Sources))
	for _, s := range f.Sources {
		if err := validate(s); err != nil {
			return nil, err
		}
		if !resolveParams(&s) {
			log.Printf("source: skipping %s, unresolved secret in params", s.Name)
			continue
		}
		cat = append(cat, s)
	}
	return cat, nil
}

func validate(s Source) error {
	switch s.Kind {
	case KindAPI, KindRSS, KindScrape:
	default:
		return fmt.Errorf("source: %s has unknown kind %q", s.Name, s.Kind)
	}
	if s.Name == "" || s.URL == "" {
		return fmt.Errorf("source: entry missing name or url: %+v", s)
	}
	return nil
}

// resolveParams expands ${ENV} references in place. Returns false when a
// referenced secret resolved to an empty value.
func resolveParams(s *Source) bool {
	for k, v := range s.Params {
		if !strings.Contains(v, "${") {
			continue
		}
		resolved := os.Expand(v, os.Getenv)
		if resolved == "" {
			return false
		}
		s.Params[k] = resolved
	}
	return true
}
