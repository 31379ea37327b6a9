// Package gin exposes cleanplate.RecipeService over HTTP using Gin.
package gin

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/AdamMoses-GitHub/cleanplate"
	"github.com/gin-gonic/gin"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// ExtractRequest is the body of POST /api/extract.
type ExtractRequest struct {
	URL   string `json:"url" binding:"required"`
	Debug bool   `json:"debug"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// NewRouter creates a Gin engine serving the extraction API.
//
//	POST /api/extract  extract one recipe
//	GET  /api/health   liveness probe
//
// Gin's mode is left to the caller. A nil logger discards request logs.
func NewRouter(svc cleanplate.RecipeService, logger *slog.Logger, startTime time.Time) *gin.Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))

	api := r.Group("/api")
	api.GET("/health", Health(startTime))
	api.POST("/extract", Extract(svc))
	return r
}

// Extract returns a handler for POST /api/extract.
func Extract(svc cleanplate.RecipeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ExtractRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, cleanplate.WrapError(cleanplate.EINVALID, err, "invalid request body"))
			return
		}

		env, err := svc.Extract(c.Request.Context(), req.URL, req.Debug)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, env)
	}
}

// Health returns a handler for GET /api/health.
func Health(startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:  "healthy",
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: Version,
		})
	}
}

// requestLogger logs one line per request, with the errors handlers
// attached to the context.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(begin),
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			attrs = append(attrs, "err", errs.String())
		}
		logger.Info("request", attrs...)
	}
}
