package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/lexintake/lexintake/internal/dbpool"
	"github.com/lexintake/lexintake/internal/middleware"
	"github.com/lexintake/lexintake/internal/ratelimit"
	"github.com/lexintake/lexintake/internal/security"
	"github.com/lexintake/lexintake/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Pool        *dbpool.Pool
	Hub         *ws.Hub
	Intakes     IntakeRepository
	Uploads     UploadRepository
	Forms       FormRepository
	Consent     ConsentRepository
	Audit       AuditRepository
	FirmLookup  middleware.FirmLookup
	PublicRate  *ratelimit.Limiter
	AuthedRate  *ratelimit.Limiter
	CORSOrigins []string
	Version     string
	EnrichURL   string
}

// Router-level limits.
const maxBodySize = 10 << 20 // 10 MB

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Firm-Id", "X-Actor-Id"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.PrometheusMiddleware())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
// Submission endpoints resolve the firm from the request itself and are
// rate limited per firm; dashboard endpoints authenticate via API key.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pool, log, deps.Version, deps.EnrichURL)
	intakes := NewIntakeHandler(deps.Intakes, log)
	uploads := NewUploadHandler(deps.Uploads, log)
	forms := NewFormHandler(deps.Forms, log)
	consent := NewConsentHandler(deps.Consent, log)
	audit := NewAuditHandler(deps.Audit, log)

	// Health and readiness are unauthenticated.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// Public intake channels: web forms, the email gateway, and the voice
	// transcription service. No API key; the firm comes from the request.
	public := api.Group("")
	public.Use(middleware.ResolveFirm(log))
	public.Use(middleware.RateLimit(deps.PublicRate, "public"))

	public.POST("/forms/:slug/intakes", intakes.Submit)
	public.POST("/intakes/email", intakes.SubmitEmail)
	public.POST("/intakes/voice", intakes.SubmitVoice)

	// Dashboard routes require API-key authentication.
	bfGuard := security.NewBruteForceGuard(ctx, log)
	authed := api.Group("")
	authed.Use(middleware.BruteForceMiddleware(bfGuard))
	authed.Use(middleware.AuthMiddleware(middleware.NewCachedFirmLookup(ctx, deps.FirmLookup), log, bfGuard))
	authed.Use(middleware.RateLimit(deps.AuthedRate, "dashboard"))

	// Intakes.
	authed.GET("/intakes", intakes.List)
	authed.GET("/intakes/:id", intakes.Get)
	authed.PATCH("/intakes/:id/summary", intakes.UpdateSummary)
	authed.PATCH("/intakes/:id/status", intakes.UpdateStatus)
	authed.GET("/intakes/:id/export", intakes.Export)

	// Uploads.
	authed.POST("/uploads", uploads.Create)
	authed.GET("/uploads", uploads.List)
	authed.GET("/uploads/:id", uploads.Get)

	// Forms.
	authed.POST("/forms", forms.Create)
	authed.GET("/forms", forms.List)
	authed.GET("/forms/:slug", forms.Get)

	// Consent.
	authed.GET("/consent", consent.Get)
	authed.PUT("/consent", consent.Set)

	// Audit.
	authed.GET("/audit", audit.Query)
	authed.GET("/audit/recent", audit.Recent)

	// WebSocket endpoint.
	authed.GET("/ws", wsHandler(ctx, log, deps.Hub, deps.CORSOrigins, deps.FirmLookup))
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
