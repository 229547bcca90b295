package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/KartikAmbupe/FactFeedAI/internal/collector"
)

// Article is the persisted form of a draft. ID is a hash of the dedup
// triple so re-ingested items collide instead of duplicating.
type Article struct {
	ID          string            `gorm:"primaryKey;size:40" json:"id"`
	Title       string            `gorm:"size:512;index:idx_articles_dedup" json:"title"`
	URL         string            `gorm:"size:1024;index:idx_articles_dedup" json:"url"`
	Source      string            `gorm:"size:128;index:idx_articles_dedup;index" json:"source"`
	Content     string            `gorm:"type:text" json:"content"`
	Category    string            `gorm:"size:64;index" json:"category"`
	Author      string            `gorm:"size:256" json:"author"`
	Image       string            `gorm:"size:1024" json:"image,omitempty"`
	PublishedAt time.Time         `gorm:"index" json:"publishedAt"`
	ExtraData   datatypes.JSONMap `gorm:"type:jsonb" json:"extraData,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewStore(dsn, redisAddr string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Article{}); err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("warn: redis ping failed: %v", err)
	}

	return &Store{DB: db, Redis: rdb}, nil
}

// dedupKey is the identity triple joined with a separator unlikely to occur
// in titles or URLs.
func dedupKey(d collector.Draft) string {
	return d.Title + "\x1f" + d.URL + "\x1f" + d.Source
}

func draftID(d collector.Draft) string {
	h := sha1.New()
	h.Write([]byte(dedupKey(d)))
	return hex.EncodeToString(h.Sum(nil))
}

// prepareBatch drops untitled drafts and collapses in-batch duplicates of
// the same (title, url, source) triple, keeping the first occurrence.
func prepareBatch(drafts []collector.Draft) []Article {
	rows := make([]Article, 0, len(drafts))
	seen := make(map[string]struct{}, len(drafts))

	for _, d := range drafts {
		if strings.TrimSpace(d.Title) == "" {
			continue
		}
		id := draftID(d)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		rows = append(rows, Article{
			ID:          id,
			Title:       d.Title,
			URL:         d.URL,
			Source:      d.Source,
			Content:     d.Content,
			Category:    d.Category,
			Author:      d.Author,
			Image:       d.Image,
			PublishedAt: d.PublishedAt,
			ExtraData:   datatypes.JSONMap(d.Raw),
		})
	}
	return rows
}

// StoreNew persists the drafts that are not already present, checking the
// (title, url, source) triple, and returns how many were inserted. The
// whole batch commits in one transaction; on failure everything rolls back
// and the error is returned to the caller — this is the one error the
// pipeline does not absorb.
func (s *Store) StoreNew(ctx context.Context, drafts []collector.Draft) (int, error) {
	rows := prepareBatch(drafts)
	if len(rows) == 0 {
		return 0, nil
	}

	newCount := 0
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			var existing int64
			if err := tx.Model(&Article{}).
				Where("title = ? AND url = ? AND source = ?", row.Title, row.URL, row.Source).
				Count(&existing).Error; err != nil {
				return fmt.Errorf("dedup check: %w", err)
			}
			if existing > 0 {
				continue
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("insert article: %w", err)
			}
			newCount++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	// No cache invalidation here: list caches use a short TTL and expire on
	// their own.
	log.Printf("storage: %d new articles persisted (batch of %d)", newCount, len(rows))
	return newCount, nil
}

const listCacheTTL = 5 * time.Minute

// ListArticles returns articles newest first, optionally filtered by
// category and/or source display name, with a short redis cache in front.
func (s *Store) ListArticles(ctx context.Context, category, src string, limit int) ([]Article, error) {
	if limit <= 0 || limit > 1000 {
		limit = 20
	}
	category = strings.ToLower(category)

	cacheKey := fmt.Sprintf("articles:list:%s:%s:%d", category, src, limit)
	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []Article
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var list []Article
	db := s.DB.WithContext(ctx).Model(&Article{})
	if category != "" {
		db = db.Where("category = ?", category)
	}
	if src != "" {
		db = db.Where("source = ?", src)
	}
	if err := db.Order("published_at DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}

	if s.Redis != nil && len(list) > 0 {
		if bs, err := json.Marshal(list); err == nil {
			_ = s.Redis.Set(ctx, cacheKey, bs, listCacheTTL).Err()
		}
	}

	return list, nil
}

// ListCategories returns the distinct categories present in the store.
func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	cacheKey := "articles:categories"
	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []string
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var categories []string
	if err := s.DB.WithContext(ctx).Model(&Article{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}

	if s.Redis != nil && len(categories) > 0 {
		if bs, err := json.Marshal(categories); err == nil {
			_ = s.Redis.Set(ctx, cacheKey, bs, listCacheTTL).Err()
		}
	}

	return categories, nil
}
