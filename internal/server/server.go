// Package server exposes the analyzer and the letter composer over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-startup-automation/internal/analyzer"
	"go-startup-automation/internal/letter"
	"go-startup-automation/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kataras/golog"
)

const requestIDHeader = "X-Request-ID"

// ApplicationLister is implemented by the database repository.
type ApplicationLister interface {
	ListApplications(ctx context.Context, limit int) ([]models.Application, error)
}

type Server struct {
	composer *letter.Composer
	apps     ApplicationLister
	log      *golog.Logger
}

func New(composer *letter.Composer, apps ApplicationLister, logger *golog.Logger) *Server {
	if logger == nil {
		logger = golog.Default
	}
	return &Server{composer: composer, apps: apps, log: logger}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Startup job automation API is running!",
			"status":  "healthy",
		})
	})
	r.POST("/classify", s.classify)
	r.POST("/letters", s.compose)
	r.GET("/applications", s.listApplications)
	return r
}

// requestLogger tags each request with an id and logs it once it completes.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()
		s.log.Infof("🌐 %s %s %d %s id=%s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Millisecond), id)
	}
}

type classifyRequest struct {
	Description string `json:"description" binding:"required"`
}

func (s *Server) classify(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, analyzer.Classify(req.Description))
}

type letterRequest struct {
	Listing     models.ListingRecord `json:"listing"`
	Description string               `json:"description"`
}

type letterResponse struct {
	Letter     string              `json:"letter"`
	Classified analyzer.Classified `json:"classified"`
}

func (s *Server) compose(c *gin.Context) {
	var req letterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Listing.Title) == "" && strings.TrimSpace(req.Listing.Company.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "listing.title or listing.company.name is required"})
		return
	}

	classified := analyzer.Classify(req.Description)
	c.JSON(http.StatusOK, letterResponse{
		Letter:     s.composer.Compose(req.Listing, classified),
		Classified: classified,
	})
}

var errNoDatabase = errors.New("application tracking is not configured")

func (s *Server) listApplications(c *gin.Context) {
	if s.apps == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errNoDatabase.Error()})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}

	apps, err := s.apps.ListApplications(c.Request.Context(), limit)
	if err != nil {
		s.log.Errorf("❌ List applications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list applications"})
		return
	}
	if apps == nil {
		apps = []models.Application{}
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}
