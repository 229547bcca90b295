package api

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/KartikAmbupe/FactFeedAI/internal/scheduler"
	"github.com/KartikAmbupe/FactFeedAI/internal/storage"
)

type Server struct {
	store *storage.Store
	sched *scheduler.Scheduler
}

func NewServer(store *storage.Store, sched *scheduler.Scheduler) *Server {
	return &Server{store: store, sched: sched}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/news", s.listNews)
		v1.GET("/categories", s.listCategories)
		v1.POST("/refresh", s.refresh)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listNews(c *gin.Context) {
	category := c.Query("category")
	src := c.Query("source")

	limitStr := c.DefaultQuery("limit", "20")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 20
	}

	items, err := s.store.ListArticles(c.Request.Context(), category, src, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    items,
	})
}

func (s *Server) listCategories(c *gin.Context) {
	categories, err := s.store.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    categories,
	})
}

// refresh kicks off a fetch cycle in the background. The cycle outlives the
// request, so results land in the store and the logs, not the response.
func (s *Server) refresh(c *gin.Context) {
	go func() {
		if _, _, err := s.sched.RunOnce(context.Background()); err != nil {
			log.Printf("manual refresh failed: %v", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"code":    "ok",
		"message": "refresh started",
	})
}
