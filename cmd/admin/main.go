package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"signally/internal/blob"
	"signally/internal/config"
	cronrunner "signally/internal/cron"
	"signally/internal/db"
	"signally/internal/docstore"
	"signally/internal/handler"
	"signally/internal/identity"
	"signally/internal/livestore"
	"signally/internal/logger"
	"signally/internal/models"
	"signally/internal/notify"
	"signally/internal/service"
	"signally/internal/session"
)

func main() {
	cfgPath := os.Getenv("SIGNALLY_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("SIGNALLY_ENV_ONLY"); envOnlyRaw != "" {
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

	devMode := strings.EqualFold(cfg.App.Env, "dev")

	// Dev runs on the in-memory store; everything else needs postgres.
	var (
		dbConn *db.DB
		docs   docstore.Store
	)
	if devMode && cfg.DB.DSN == "" {
		docs = docstore.NewMemory()
		logger.Info("using in-memory document store")
	} else {
		dbConn, err = db.Open(cfg.DB)
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
		docs = docstore.NewGorm(dbConn.Gorm)
	}

	provider := identity.NewJWT(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	sessions := session.New(provider)
	sessions.BeginTracking()
	defer sessions.Close()

	var registry notify.Registry
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		registry = &notify.RedisRegistry{RDB: rdb, Key: cfg.Redis.TokenKey}
	} else {
		registry = notify.NewMemoryRegistry()
		logger.Info("using in-memory device registry")
	}

	dispatcher := &notify.Client{EndpointURL: cfg.Push.EndpointURL, Timeout: cfg.Push.Timeout}
	sender := &notify.GatewaySender{GatewayURL: cfg.Push.GatewayURL}
	blobClient := &blob.Client{BaseURL: cfg.Blob.BaseURL, Bucket: cfg.Blob.Bucket, Timeout: cfg.Blob.Timeout}

	mutator := service.NewMutator(cfg.App.Env, docs, provider, dispatcher, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	live := livestore.New(docs, logger)
	for _, kind := range models.StreamableKinds() {
		if err := live.Start(ctx, kind); err != nil {
			logger.Fatal("live stream start failed", zap.String("kind", kind), zap.Error(err))
		}
	}
	defer live.StopAll()

	if devMode {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	withAuth := handler.WithAuth(provider)

	healthHandler := &handler.HealthHandler{}
	if dbConn != nil {
		healthHandler.DB = dbConn.Gorm
	}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)

	authHandler := &handler.AuthHandler{
		Session:       provider,
		AdminEmail:    cfg.Auth.AdminEmail,
		AdminPassword: cfg.Auth.AdminPassword,
	}
	authHandler.Register(engine)

	signalHandler := &handler.SignalHandler{Live: live, Mut: mutator, Auth: withAuth}
	signalHandler.Register(engine)
	announcementHandler := &handler.AnnouncementHandler{Live: live, Mut: mutator, Auth: withAuth}
	announcementHandler.Register(engine)
	userHandler := &handler.UserHandler{Live: live, Mut: mutator, Auth: withAuth}
	userHandler.Register(engine)
	notificationHandler := &handler.NotificationHandler{
		Mut:      mutator,
		Registry: registry,
		Sender:   sender,
		Auth:     withAuth,
		Logger:   logger,
	}
	notificationHandler.Register(engine)
	deviceHandler := &handler.DeviceHandler{Registry: registry}
	deviceHandler.Register(engine)
	uploadHandler := &handler.UploadHandler{Blob: blobClient, Auth: withAuth}
	uploadHandler.Register(engine)
	billingHandler := &handler.BillingHandler{
		LivePublishableKey: cfg.Billing.LivePublishableKey,
		TestPublishableKey: cfg.Billing.TestPublishableKey,
		Auth:               withAuth,
	}
	billingHandler.Register(engine)
	streamHandler := &handler.StreamHandler{Live: live, Logger: logger}
	streamHandler.Register(engine)

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		_, err := cronRunner.Add(cfg.Cron.RetentionPurge,
			cronrunner.NotificationPurge(docs, cfg.Retention.NotificationMaxAge, logger))
		if err != nil {
			logger.Warn("cron register retention purge failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	errCh := make(chan error, 1)
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
