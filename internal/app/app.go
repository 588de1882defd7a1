package app

import (
	"context"
	"fmt"
	"log/slog"

	"docflow/internal/cache/redis"
	"docflow/internal/config"
	"docflow/internal/dbs/postgres"
	"docflow/internal/metrics"
	cachedocsrepo "docflow/internal/repositories/cache/docs"
	cachesessionrepo "docflow/internal/repositories/cache/session"
	documentrepo "docflow/internal/repositories/db/document"
	notificationrepo "docflow/internal/repositories/db/notification"
	teamrepo "docflow/internal/repositories/db/team"
	userdocsrepo "docflow/internal/repositories/db/userdocs"
	miniorepo "docflow/internal/repositories/storage/minio"
	lifecycleservice "docflow/internal/services/lifecycle"
	notifyservice "docflow/internal/services/notify"
	reviewservice "docflow/internal/services/review"
	sessionservice "docflow/internal/services/session"
	signatureservice "docflow/internal/services/signature"

	"github.com/prometheus/client_golang/prometheus"
)

type App struct {
	LifecycleService *lifecycleservice.Service
	SignatureService *signatureservice.Service
	ReviewService    *reviewservice.Service
	NotifyService    *notifyservice.Service
	SessionService   *sessionservice.Service
	Registry         *prometheus.Registry
	Metrics          *metrics.Metrics
}

func NewApp(
	ctx context.Context,
	log *slog.Logger,
	dbCfg config.DB,
	cacheCfg config.Cache,
	blobCfg config.Blob,
	adminToken string,
) (*App, error) {
	db, err := postgres.New(ctx, postgres.Config{
		Addr:     dbCfg.Addr,
		Port:     dbCfg.Port,
		User:     dbCfg.User,
		Password: dbCfg.Password,
		DB:       dbCfg.DB,
		SSLMode:  dbCfg.SSLMode})
	if err != nil {
		log.Error("failed connect to db", "err", err)
		return nil, fmt.Errorf("failed connect to db: %w", err)
	}

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Error("failed to migrate db", "err", err)
		return nil, fmt.Errorf("failed to migrate db: %w", err)
	}

	cache, err := redis.New(ctx, redis.Config{Addr: cacheCfg.Addr, Password: cacheCfg.Password, DB: cacheCfg.DB})
	if err != nil {
		log.Error("failed connect to cache", "err", err)
		return nil, fmt.Errorf("failed connect to cache: %w", err)
	}

	blobs, err := miniorepo.NewRepository(ctx, miniorepo.Config{
		Endpoint:  blobCfg.Endpoint,
		AccessKey: blobCfg.AccessKey,
		SecretKey: blobCfg.SecretKey,
		Bucket:    blobCfg.Bucket,
		UseSSL:    blobCfg.UseSSL,
	})
	if err != nil {
		log.Error("failed connect to blob storage", "err", err)
		return nil, fmt.Errorf("failed connect to blob storage: %w", err)
	}

	registry := prometheus.NewRegistry()

	m, err := metrics.New(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	docRepo := documentrepo.NewRepository(db)
	indexRepo := userdocsrepo.NewRepository(db)
	teamRepo := teamrepo.NewRepository(db)
	noteRepo := notificationrepo.NewRepository(db)

	docCacheRepo := cachedocsrepo.New(cache, cacheCfg.DocumentTTL)
	sessionCacheRepo := cachesessionrepo.New(cache)

	notifyService := notifyservice.New(log, noteRepo, cache, m)

	sessionService := sessionservice.New(log, sessionCacheRepo, adminToken)

	lifecycleService := lifecycleservice.New(log, docRepo, indexRepo, teamRepo, blobs, docCacheRepo, notifyService, m, blobCfg.URLTTL)

	signatureService := signatureservice.New(log, docRepo, indexRepo, blobs, docCacheRepo, notifyService, m)

	reviewService := reviewservice.New(log, docRepo, blobs, docCacheRepo, notifyService)

	return &App{
		LifecycleService: lifecycleService,
		SignatureService: signatureService,
		ReviewService:    reviewService,
		NotifyService:    notifyService,
		SessionService:   sessionService,
		Registry:         registry,
		Metrics:          m,
	}, nil
}
