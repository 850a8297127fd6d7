package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"alertdesk/internal/audit"
	"alertdesk/internal/auth"
	"alertdesk/internal/config"
	cronrunner "alertdesk/internal/cron"
	"alertdesk/internal/db"
	"alertdesk/internal/handler"
	"alertdesk/internal/logger"
	gormrepository "alertdesk/internal/repository/gorm"
	"alertdesk/internal/service"
	"alertdesk/internal/stream"

	_ "alertdesk/docs"
)

func main() {
	cfgPath := os.Getenv("AD_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("AD_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	dashboardSvc := &service.DashboardService{Repo: store}

	var hub *stream.Hub
	if cfg.Stream.Enabled {
		hub = stream.NewHub(logger, cfg.Stream.BufferSize)
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(auth.Middleware(cfg.Auth))

	auditClient := initAuditClient(cfg.Audit)
	engine.Use(audit.WriteAuditMiddleware(auditClient, cfg.Audit.Timeout, logger))

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)

	authHandler := &handler.AuthHandler{Repo: store, Logger: logger, Cfg: cfg.Auth}
	authHandler.Register(engine)

	for _, h := range handler.NewReferenceHandlers(store, logger) {
		h.Register(engine)
	}

	alertHandler := &handler.AlertHandler{Repo: store, Logger: logger, Hub: hub}
	alertHandler.Register(engine)

	dashboardHandler := &handler.DashboardHandler{
		Repo:          store,
		Service:       dashboardSvc,
		Logger:        logger,
		Hub:           hub,
		MetricsWindow: cfg.Dashboard.MetricsWindow,
		RecentLimit:   cfg.Dashboard.RecentLimit,
	}
	dashboardHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rollup := &service.StatsRollupService{
		Repo:     store,
		Logger:   logger,
		Lookback: cfg.Dashboard.RollupLookback,
	}
	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		if _, err := cronRunner.Add("stats_rollup", cfg.Cron.StatsRollup, func(ctx context.Context) {
			if err := rollup.RunOnce(ctx); err != nil {
				logger.Warn("cron stats rollup failed", zap.Error(err))
			}
		}); err != nil {
			logger.Warn("cron register stats rollup failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	} else {
		go func() {
			if err := rollup.Run(ctx, 6*time.Hour); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("stats rollup service stopped", zap.Error(err))
			}
		}()
	}

	// Warm the rollup table so the alerts-over-time chart has data on a fresh
	// deployment.
	if err := rollup.RunOnce(ctx); err != nil {
		logger.Warn("initial stats rollup failed (continuing)", zap.Error(err))
	}

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func initAuditClient(cfg config.AuditConfig) *audit.Client {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil
	}
	return &audit.Client{BaseURL: base, APIKey: cfg.APIKey}
}
