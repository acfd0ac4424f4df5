package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/redpen-labs/redpen-api/internal/config"
	"github.com/redpen-labs/redpen-api/internal/database"
	"github.com/redpen-labs/redpen-api/internal/handler"
	"github.com/redpen-labs/redpen-api/internal/middleware"
	"github.com/redpen-labs/redpen-api/internal/models"
	"github.com/redpen-labs/redpen-api/internal/repository"
	"github.com/redpen-labs/redpen-api/internal/router"
	"github.com/redpen-labs/redpen-api/internal/service"
	"github.com/redpen-labs/redpen-api/pkg/ai"
	cloud "github.com/redpen-labs/redpen-api/pkg/cloudinary"
	"github.com/redpen-labs/redpen-api/pkg/gdocs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.School{},
		&models.Teacher{},
		&models.TeacherProfile{},
		&models.Essay{},
		&models.GradePrediction{},
		&models.InlineComment{},
		&models.EndComment{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	analyzer, err := ai.NewOpenAIAnalyzer(ai.OpenAIConfig{
		APIKey:    cfg.OpenAIAPIKey,
		Model:     cfg.OpenAIModel,
		MaxTokens: cfg.OpenAIMaxTokens,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("failed to create analyzer: %v", err)
	}

	var uploader service.FileUploader
	if cfg.CloudinaryCloudName != "" {
		cloudService, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		uploader = cloudService
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	schoolRepo := repository.NewSchoolRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	essayRepo := repository.NewEssayRepository(db)
	analysisRepo := repository.NewAnalysisRepository(db)

	events := service.NewNATSEventPublisher(natsConn, "redpen.essay.completed", logger)

	analysisService := service.NewAnalysisService(essayRepo, analysisRepo, teacherRepo, schoolRepo, analyzer, events, validate, logger)
	essayService := service.NewEssayService(essayRepo, logger)
	directoryService := service.NewDirectoryService(schoolRepo, teacherRepo, redisClient, cfg.DirectoryCacheTTL, logger)
	importService := service.NewImportService(gdocs.NewClient(), uploader, validate, logger)

	analyzeHandler := handler.NewAnalyzeHandler(analysisService, logger)
	essayHandler := handler.NewEssayHandler(essayService, logger)
	directoryHandler := handler.NewDirectoryHandler(directoryService, logger)
	importHandler := handler.NewImportHandler(importService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AnalyzeHandler:   analyzeHandler,
		EssayHandler:     essayHandler,
		DirectoryHandler: directoryHandler,
		ImportHandler:    importHandler,
		JWTMiddleware:    middleware.JWTProtected(cfg.JWTSecret),
		AnalyzeRateLimit: middleware.RateLimit("analyze", cfg.AnalyzeRateLimit, cfg.AnalyzeRateWindow),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
