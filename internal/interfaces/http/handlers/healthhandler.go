package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/lumishop/shopadmin/internal/shared/biztime"
	"github.com/lumishop/shopadmin/internal/shared/logger"
	"github.com/lumishop/shopadmin/internal/shared/version"
)

// HealthCheck is one dependency probed by the health endpoint.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthHandler struct {
	checks  []HealthCheck
	timeout time.Duration
	logger  logger.Interface
}

func NewHealthHandler(logger logger.Interface, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		timeout: 2 * time.Second,
		logger:  logger,
	}
}

// Health handles GET /health. It answers 503 when any dependency check fails.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	// Probes run in parallel; a failing one must not cancel the others.
	results := make([]error, len(h.checks))
	var g errgroup.Group
	for i, check := range h.checks {
		g.Go(func() error {
			results[i] = check.Check(ctx)
			return nil
		})
	}
	_ = g.Wait()

	status := "ok"
	code := http.StatusOK
	components := make(map[string]string, len(h.checks))

	for i, check := range h.checks {
		if err := results[i]; err != nil {
			h.logger.Warnw("health check failed", "component", check.Name, "error", err)
			components[check.Name] = "down"
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		components[check.Name] = "up"
	}

	c.JSON(code, gin.H{
		"status":     status,
		"version":    version.Current(),
		"time":       biztime.NowUTC(),
		"components": components,
	})
}
