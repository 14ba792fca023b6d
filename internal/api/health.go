// Package api provides HTTP handlers for the intake service.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lexintake/lexintake/internal/dbpool"
)

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	pool       *dbpool.Pool
	log        *logrus.Logger
	httpClient *http.Client
	version    string
	startTime  time.Time
	enrichURL  string
}

// NewHealthHandler creates a HealthHandler with the given dependencies.
// enrichURL may be empty when enrichment runs on the built-in fallback only.
func NewHealthHandler(pool *dbpool.Pool, log *logrus.Logger, version, enrichURL string) *HealthHandler {
	return &HealthHandler{
		pool:       pool,
		log:        log,
		httpClient: &http.Client{Timeout: 2 * time.Second},
		version:    version,
		startTime:  time.Now(),
		enrichURL:  enrichURL,
	}
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// healthResponse is the JSON payload returned by the health/liveness endpoint.
type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	Enrichment    string  `json:"enrichment"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Liveness handles GET /api/v1/health and returns status with db, enrichment, and uptime info.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		Database:      "connected",
		Enrichment:    "fallback",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	// Best-effort database ping (non-fatal for liveness).
	if h.pool != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.pool.HealthCheck(ctx); err != nil {
			resp.Database = "disconnected"
		}
	} else {
		resp.Database = "not_configured"
	}

	if h.enrichURL != "" {
		resp.Enrichment = "external"
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /api/v1/ready and checks DB, schema, and the enrichment
// endpoint. In DB-less mode the database checks report "not_configured" and
// do not block readiness.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := map[string]string{
		"database":   "ok",
		"schema":     "ok",
		"enrichment": "ok",
	}
	status := "ready"
	statusCode := http.StatusOK

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if h.pool == nil {
		checks["database"] = "not_configured"
		checks["schema"] = "not_configured"
	} else {
		// Check database connectivity.
		if err := h.pool.HealthCheck(ctx); err != nil {
			h.log.WithError(err).Error("readiness: database health check failed")
			checks["database"] = "error"
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
		}

		// Check schema by querying the firms table.
		if checks["database"] == "ok" {
			if err := h.checkSchema(ctx); err != nil {
				h.log.WithError(err).Error("readiness: schema check failed")
				checks["schema"] = "error"
				status = "not_ready"
				statusCode = http.StatusServiceUnavailable
			}
		} else {
			checks["schema"] = "unknown"
		}
	}

	// Check the enrichment endpoint (best-effort; the pipeline degrades to
	// the deterministic fallback when it is down).
	if err := h.checkEnrichment(); err != nil {
		h.log.WithError(err).Warn("readiness: enrichment check failed")
		checks["enrichment"] = "degraded"
	}

	c.JSON(statusCode, readinessResponse{
		Status: status,
		Checks: checks,
	})
}

// checkSchema verifies the database schema by querying the firms table.
func (h *HealthHandler) checkSchema(ctx context.Context) error {
	var count int
	err := h.pool.QueryRow(ctx, "SELECT COUNT(*) FROM firms").Scan(&count)
	if err != nil {
		return fmt.Errorf("schema check: %w", err)
	}

	return nil
}

// checkEnrichment does a best-effort connectivity check to the enrichment API.
func (h *HealthHandler) checkEnrichment() error {
	if h.enrichURL == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.enrichURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("enrichment request: %w", err)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("enrichment unreachable: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("enrichment returned status %d", resp.StatusCode)
	}

	return nil
}
