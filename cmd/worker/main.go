package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/adapters/event"
	"github.com/khoahotran/vlog-studio/adapters/media_storage"
	"github.com/khoahotran/vlog-studio/adapters/persistence"
	"github.com/khoahotran/vlog-studio/internal/application/service"
	backupUC "github.com/khoahotran/vlog-studio/internal/application/usecase/backup"
	mediaUC "github.com/khoahotran/vlog-studio/internal/application/usecase/media"
	projectUC "github.com/khoahotran/vlog-studio/internal/application/usecase/project"
	"github.com/khoahotran/vlog-studio/internal/config"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
	"github.com/khoahotran/vlog-studio/pkg/tracing"
)

func main() {
	// Configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting Vlog Studio Worker...")

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "vlog-studio-worker")
	if err != nil {
		appLogger.Fatal("Failed to initialize tracer", err)
	}
	defer tracing.Shutdown(tp, appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Redis", err)
	}
	defer redisClient.Close()

	// Cloudinary Uploader
	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}

	// Repositories
	mediaRepo := persistence.NewPostgresMediaRepo(dbPool, appLogger)
	settingsRepo := persistence.NewPostgresSettingsRepo(dbPool, appLogger)
	projectRepo := persistence.NewCachedProjectRepo(
		persistence.NewPostgresProjectRepo(dbPool, appLogger),
		redisClient,
		cfg.Redis.ProjectTTL,
		appLogger,
	)

	// Worker Use Cases
	processMediaUC := mediaUC.NewProcessMediaUseCase(mediaRepo, uploader, appLogger)
	reconcileUC := projectUC.NewReconcileClipsUseCase(projectRepo, mediaRepo, appLogger)
	backupUseCase := backupUC.NewBackupUseCase(projectRepo, settingsRepo, uploader, appLogger)

	mediaConsumer := event.NewConsumer(cfg, event.TopicMediaEvents, "media-processor-group", appLogger)
	defer mediaConsumer.Close()
	projectConsumer := event.NewConsumer(cfg, event.TopicProjectEvents, "project-reconciler-group", appLogger)
	defer projectConsumer.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		mediaConsumer.Run(ctx, handleMediaEvent(processMediaUC, appLogger))
	}()
	go func() {
		defer wg.Done()
		projectConsumer.Run(ctx, handleProjectEvent(reconcileUC, backupUseCase, appLogger))
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down worker...")
	wg.Wait()
}

func handleMediaEvent(uc *mediaUC.ProcessMediaUseCase, l logger.Logger) event.Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		payload, err := event.DecodeMediaEvent(msg)
		if errors.Is(err, event.ErrMalformedEvent) {
			l.Warn("Skipping malformed media event", zap.String("key", string(msg.Key)))
			return nil
		}
		return uc.Execute(ctx, payload)
	}
}

func handleProjectEvent(uc *projectUC.ReconcileClipsUseCase, backup *backupUC.BackupUseCase, l logger.Logger) event.Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		payload, err := event.DecodeProjectEvent(msg)
		if errors.Is(err, event.ErrMalformedEvent) {
			l.Warn("Skipping malformed project event", zap.String("key", string(msg.Key)))
			return nil
		}
		switch payload.EventType {
		case service.ProjectEventCreated, service.ProjectEventUpdated:
		case service.ProjectEventDeleted:
			_, err := backup.Execute(ctx, payload.OwnerID)
			return err
		default:
			return nil
		}

		changed, err := uc.Execute(ctx, projectUC.ReconcileClipsInput{
			ProjectID: payload.ProjectID,
			OwnerID:   payload.OwnerID,
		})
		if errors.Is(err, apperror.ErrNotFound) {
			l.Debug("Project gone before reconcile", zap.String("project_id", payload.ProjectID))
			return nil
		}
		if err != nil {
			return err
		}
		if changed {
			l.Info("Reconciled project clips", zap.String("project_id", payload.ProjectID))
		}
		_, err = backup.Execute(ctx, payload.OwnerID)
		return err
	}
}
