package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"eventify_backend/internal/auth"
	"eventify_backend/internal/config"
	"eventify_backend/internal/handlers"
	"eventify_backend/internal/imaging"
	"eventify_backend/internal/logger"
	"eventify_backend/internal/middleware"
	"eventify_backend/internal/models"
	"eventify_backend/internal/repositories"
	"eventify_backend/internal/routes"
	"eventify_backend/internal/services"
	"eventify_backend/internal/validator"
	"eventify_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	auth.Init(cfg.JWT.Secret, cfg.JWT.TTL)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := gormDB.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.Event{},
		&models.TicketType{},
		&models.Translation{},
	); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := Seed(gormDB, cfg); err != nil {
		logger.Fatal("Seeding failed", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter wires repositories, the image pipeline, services, and
// handlers into a ready *gin.Engine, and starts the ingestion workers.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	eventRepo := repositories.NewEventRepository(gormDB)
	userRepo := repositories.NewUserRepository(gormDB)
	roleRepo := repositories.NewRoleRepository(gormDB)
	translationRepo := repositories.NewTranslationRepository(gormDB)

	// Image pipeline.
	fetcher := imaging.NewFetcher(time.Duration(cfg.Images.FetchTimeout)*time.Second, cfg.Images.MaxFetchBytes)
	originalsDir := filepath.Join(cfg.Images.UploadDir, "images")
	store := imaging.NewStore(originalsDir, cfg.Server.PublicURL)
	ingestor := imaging.NewIngestor(eventRepo, fetcher, store, cfg.Server.PublicURL)
	resizer := imaging.NewResizer(originalsDir, cfg.Images.CacheDir, cfg.Images.JPEGQuality, imaging.NewDecoders())

	ingestWorker := workers.NewIngestWorker(ingestor.Ingest, cfg.Images.QueueSize, cfg.Images.Workers)
	ingestWorker.Start(context.Background())
	logger.Info("Ingest workers started", "workers", cfg.Images.Workers, "queue_size", cfg.Images.QueueSize)

	serviceContainer := &services.ServiceContainer{
		AuthService:        services.NewAuthService(userRepo, roleRepo),
		EventService:       services.NewEventService(eventRepo, userRepo, ingestWorker, ingestor),
		UserService:        services.NewUserService(userRepo, roleRepo),
		TranslationService: services.NewTranslationService(translationRepo),
	}

	base := handlers.NewBaseHandler(validator.New())
	appHandlers := &handlers.AppHandlers{
		AuthHandler:        handlers.NewAuthHandler(base, serviceContainer.AuthService),
		EventHandler:       handlers.NewEventHandler(base, serviceContainer.EventService),
		UserHandler:        handlers.NewUserHandler(base, serviceContainer.UserService, serviceContainer.AuthService),
		TranslationHandler: handlers.NewTranslationHandler(base, serviceContainer.TranslationService),
		ImageHandler:       handlers.NewImageHandler(base, resizer),
		UploadHandler:      handlers.NewUploadHandler(base, cfg.Images.UploadDir),
	}

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	return ginRouter
}
