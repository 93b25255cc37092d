package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	catalogAdapter "github.com/khoahotran/vlog-studio/adapters/catalog"
	"github.com/khoahotran/vlog-studio/adapters/event"
	"github.com/khoahotran/vlog-studio/adapters/ffmpeg"
	httpAdapter "github.com/khoahotran/vlog-studio/adapters/http"
	"github.com/khoahotran/vlog-studio/adapters/llm"
	"github.com/khoahotran/vlog-studio/adapters/media_storage"
	"github.com/khoahotran/vlog-studio/adapters/persistence"
	"github.com/khoahotran/vlog-studio/internal/application/catalog"
	"github.com/khoahotran/vlog-studio/internal/application/service"
	authUC "github.com/khoahotran/vlog-studio/internal/application/usecase/auth"
	mediaUC "github.com/khoahotran/vlog-studio/internal/application/usecase/media"
	projectUC "github.com/khoahotran/vlog-studio/internal/application/usecase/project"
	settingsUC "github.com/khoahotran/vlog-studio/internal/application/usecase/settings"
	"github.com/khoahotran/vlog-studio/internal/config"
	"github.com/khoahotran/vlog-studio/pkg/auth"
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
	appLogger.Info("Starting Vlog Studio API Server...")

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "vlog-studio-api")
	if err != nil {
		appLogger.Fatal("Failed to initialize tracer", err)
	}
	defer tracing.Shutdown(tp, appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Infrastructure
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

	kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot init Kafka", err)
	}
	defer kafkaClient.Close()

	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}
	llmSvc, err := llm.NewOllamaLLMAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM adapter", err)
	}
	stitcher := ffmpeg.NewStitcher(cfg, appLogger)

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool, appLogger)
	mediaRepo := persistence.NewPostgresMediaRepo(dbPool, appLogger)
	settingsRepo := persistence.NewPostgresSettingsRepo(dbPool, appLogger)
	projectRepo := persistence.NewCachedProjectRepo(
		persistence.NewPostgresProjectRepo(dbPool, appLogger),
		redisClient,
		cfg.Redis.ProjectTTL,
		appLogger,
	)

	// Media catalog
	sources := catalog.MultiSource{}
	if cfg.Catalog.Root != "" {
		sources = append(sources, catalogAdapter.NewFSScanner(cfg.Catalog.Root, appLogger))
	}
	sources = append(sources, catalogAdapter.NewDBSource(mediaRepo))
	mediaCatalog := catalog.New(sources, appLogger)

	if cfg.Catalog.Root != "" && cfg.Catalog.Watch {
		watcher, err := catalogAdapter.NewWatcher(cfg.Catalog.Root, mediaCatalog, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to create catalog watcher", err)
		}
		if err := watcher.Start(ctx); err != nil {
			appLogger.Fatal("Failed to start catalog watcher", err)
		}
		defer watcher.Close()
	}

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	sessions := service.ContextSessionProvider{}

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	signUpUseCase := authUC.NewSignUpUseCase(userRepo, appLogger)
	listCatalogUseCase := mediaUC.NewListCatalogUseCase(mediaCatalog, sessions)
	uploadMediaUseCase := mediaUC.NewUploadMediaUseCase(mediaRepo, uploader, kafkaClient, mediaCatalog, sessions, appLogger)
	settingsUseCase := settingsUC.NewSettingsUseCase(settingsRepo, sessions, appLogger)
	projectUseCases := httpAdapter.ProjectUseCases{
		FromRange:     projectUC.NewAssembleFromRangeUseCase(mediaCatalog, projectRepo, sessions, kafkaClient, appLogger),
		FromSelection: projectUC.NewAssembleFromSelectionUseCase(projectRepo, sessions, kafkaClient, appLogger),
		Save:          projectUC.NewSaveProjectUseCase(projectRepo, sessions, kafkaClient, appLogger),
		Update:        projectUC.NewUpdateProjectUseCase(projectRepo, sessions, kafkaClient, appLogger),
		RemoveClip:    projectUC.NewRemoveClipUseCase(projectRepo, sessions, kafkaClient, appLogger),
		Delete:        projectUC.NewDeleteProjectUseCase(projectRepo, sessions, kafkaClient, appLogger),
		List:          projectUC.NewListProjectsUseCase(projectRepo, sessions),
		Get:           projectUC.NewGetProjectUseCase(projectRepo, sessions),
		Narration:     projectUC.NewGenerateNarrationUseCase(llmSvc, projectRepo, sessions, kafkaClient, appLogger),
		Export:        projectUC.NewExportProjectUseCase(stitcher, uploader, mediaRepo, cfg.Catalog.Root, projectRepo, sessions, kafkaClient, appLogger),
	}

	// HTTP
	router := httpAdapter.NewRouter(httpAdapter.Handlers{
		Auth:     httpAdapter.NewAuthHandler(loginUseCase, signUpUseCase, appLogger),
		Media:    httpAdapter.NewMediaHandler(listCatalogUseCase, uploadMediaUseCase, appLogger),
		Project:  httpAdapter.NewProjectHandler(projectUseCases, appLogger),
		Settings: httpAdapter.NewSettingsHandler(settingsUseCase),
	}, jwtSvc, appLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}
