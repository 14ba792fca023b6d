// Package main is the entry point for the LexIntake server.
//
// It wires configuration, stores (Postgres or in-memory), the intake
// pipeline services, the audit trail, the WebSocket hub, and the HTTP
// router, then runs until SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lexintake/lexintake/internal/api"
	"github.com/lexintake/lexintake/internal/audit"
	"github.com/lexintake/lexintake/internal/config"
	"github.com/lexintake/lexintake/internal/consent"
	"github.com/lexintake/lexintake/internal/crypto"
	"github.com/lexintake/lexintake/internal/db"
	"github.com/lexintake/lexintake/internal/db/migrations"
	"github.com/lexintake/lexintake/internal/dbpool"
	"github.com/lexintake/lexintake/internal/domain"
	"github.com/lexintake/lexintake/internal/enrich"
	"github.com/lexintake/lexintake/internal/middleware"
	"github.com/lexintake/lexintake/internal/ratelimit"
	"github.com/lexintake/lexintake/internal/service"
	"github.com/lexintake/lexintake/internal/sol"
	"github.com/lexintake/lexintake/internal/store"
	"github.com/lexintake/lexintake/internal/ws"
)

const (
	shutdownTimeout = 15 * time.Second
	auditQueueSize  = 1000
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log := newLogger(cfg.LogLevel)
	log.WithFields(logrus.Fields{
		"version":      config.Version,
		"addr":         cfg.Addr(),
		"memory_mode":  cfg.MemoryMode(),
		"jurisdiction": cfg.Jurisdiction,
		"ruleset":      cfg.RuleVersion,
	}).Info("starting lexintake server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.close()

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(ctx, app.routerDeps(cfg))

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
		// No ReadTimeout/WriteTimeout: the /ws endpoint holds hijacked
		// long-lived connections and manages its own deadlines.
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("shutting down")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http server shutdown incomplete")
	}

	app.hub.Shutdown()
	cancel()

	log.Info("shutdown complete")
	return nil
}

// app holds the wired service graph and the handles main needs for
// shutdown.
type app struct {
	log  *logrus.Logger
	pool *dbpool.Pool // nil in memory mode
	hub  *ws.Hub
	sink *audit.FileSink // nil unless AUDIT_LOG_FILE is set

	intakes    *service.IntakeService
	uploads    *service.UploadService
	forms      *service.FormService
	consentSvc *service.ConsentService
	audits     *service.AuditService
	lookup     middleware.FirmLookup
	publicRate *ratelimit.Limiter
	authedRate *ratelimit.Limiter
}

// bootstrap builds every component from configuration and starts the
// background loops (hub, audit worker, notify bridge, limiter cleanup).
func bootstrap(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*app, error) {
	cryptoSvc, err := newCryptoService(cfg)
	if err != nil {
		return nil, err
	}

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	var (
		pool         *dbpool.Pool
		intakeStore  domain.IntakeStore
		uploadStore  domain.UploadStore
		formStore    domain.FormStore
		consentStore consent.Store
		auditQuery   domain.AuditQueryStore
		recorder     audit.Recorder
		lookup       middleware.FirmLookup
	)

	if cfg.MemoryMode() {
		log.Warn("DATABASE_URL not set, using in-memory stores; data is lost on restart")
		memAudit := store.NewMemoryAuditStore()
		intakeStore = store.NewMemoryIntakeStore()
		uploadStore = store.NewMemoryUploadStore()
		formStore = store.NewMemoryFormStore()
		consentStore = consent.NewMemoryStore()
		auditQuery = memAudit
		recorder = memAudit
		lookup = memoryFirmLookup(cfg, log)
	} else {
		pool, err = dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		log.WithField("schema_version", db.SchemaVersion()).Info("database ready")

		base := store.Base{Pool: pool, Log: log, Crypto: cryptoSvc}
		intakeStore = store.NewIntakeStore(base)
		uploadStore = store.NewUploadStore(base)
		formStore = store.NewFormStore(base)
		consentStore = store.NewConsentStore(base)
		pgAudit := store.NewAuditStore(base)
		auditQuery = pgAudit
		recorder = pgAudit
		lookup = store.NewFirmStore(pool)

		// Forward pg_notify change events to the hub so dashboards on
		// other instances see live updates too.
		bridge := db.NewNotifyBridge(log, pool, hub)
		if err := bridge.Start(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("starting notify bridge: %w", err)
		}
	}

	var sink *audit.FileSink
	if cfg.AuditLogFile != "" {
		sink, err = audit.NewFileSink(cfg.AuditLogFile, log)
		if err != nil {
			if pool != nil {
				pool.Close()
			}
			return nil, fmt.Errorf("opening audit log file: %w", err)
		}
	}

	worker := audit.NewWorker(recorder, log, auditQueueSize)
	go worker.Run(ctx)

	trail := audit.NewTrail(audit.NewRing(audit.DefaultRingCapacity), sink, worker, log)

	gate := consent.NewGate(consentStore, log)

	var provider enrich.Provider
	if cfg.EnrichURL != "" {
		provider = enrich.NewHTTPProvider(cfg.EnrichURL)
		log.WithField("url", cfg.EnrichURL).Info("external enrichment provider configured")
	}
	enricher := enrich.NewAdapter(provider, time.Duration(cfg.EnrichTimeoutMS)*time.Millisecond, log)

	calculator := sol.NewCalculator()

	window := time.Duration(cfg.RateWindowSeconds) * time.Second

	return &app{
		log:  log,
		pool: pool,
		hub:  hub,
		sink: sink,
		intakes: service.NewIntakeService(
			intakeStore, formStore, gate, enricher, calculator, trail, hub,
			cfg.Jurisdiction, cfg.RuleVersion, log,
		),
		uploads: service.NewUploadService(
			uploadStore, gate, enricher, calculator, trail,
			cfg.Jurisdiction, cfg.RuleVersion, log,
		),
		forms:      service.NewFormService(formStore, trail, log),
		consentSvc: service.NewConsentService(gate, trail, log),
		audits:     service.NewAuditService(auditQuery, trail),
		lookup:     lookup,
		publicRate: ratelimit.New(ctx, cfg.PublicRateLimit, window),
		authedRate: ratelimit.New(ctx, cfg.DashboardRateLimit, window),
	}, nil
}

func (a *app) routerDeps(cfg *config.Config) *api.RouterDeps {
	return &api.RouterDeps{
		Log:         a.log,
		Pool:        a.pool,
		Hub:         a.hub,
		Intakes:     a.intakes,
		Uploads:     a.uploads,
		Forms:       a.forms,
		Consent:     a.consentSvc,
		Audit:       a.audits,
		FirmLookup:  a.lookup,
		PublicRate:  a.publicRate,
		AuthedRate:  a.authedRate,
		CORSOrigins: cfg.CORSOrigins,
		Version:     config.Version,
		EnrichURL:   cfg.EnrichURL,
	}
}

// close releases resources that outlive the request path. Called after
// the HTTP server has drained.
func (a *app) close() {
	if a.sink != nil {
		if err := a.sink.Close(); err != nil {
			a.log.WithError(err).Warn("closing audit log file")
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

// newCryptoService builds the field-encryption service, or nil when
// encryption at rest is disabled.
func newCryptoService(cfg *config.Config) (*crypto.Service, error) {
	switch cfg.EncryptionProvider {
	case "static":
		p, err := crypto.NewStaticProvider(cfg.EncryptionKey.Value())
		if err != nil {
			return nil, fmt.Errorf("static encryption provider: %w", err)
		}
		return crypto.NewService(p), nil
	case "vault":
		return crypto.NewService(crypto.NewVaultProvider(cfg.VaultAddr, cfg.VaultToken.Value())), nil
	default:
		return nil, nil
	}
}

// memoryFirmLookup seeds an in-memory API key table from configuration.
func memoryFirmLookup(cfg *config.Config, log *logrus.Logger) middleware.FirmLookup {
	firms := store.NewMemoryFirmStore(nil)
	for _, pair := range cfg.MemoryFirmKeys {
		firmID, key, ok := strings.Cut(pair, "=")
		if !ok {
			continue // rejected by config validation already
		}
		firms.AddKey(key, firmID)
	}
	if len(cfg.MemoryFirmKeys) == 0 {
		log.Warn("no MEMORY_FIRM_KEYS configured; dashboard endpoints will reject every API key")
	}
	return firms
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}
