package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"yield-service/internal/config"
	"yield-service/internal/database/minio"
	"yield-service/internal/database/postgres"
	"yield-service/internal/database/redis"
	"yield-service/internal/event"
	"yield-service/internal/handlers"
	"yield-service/internal/repository"
	"yield-service/internal/services"

	"github.com/gofiber/fiber/v3"
)

func setupLogging() (*os.File, error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic: %v\n", r)
		}
	}()

	logDir := filepath.Join("/yield", "log", "yield_service")
	fmt.Println("Log directory:", logDir)
	err := os.MkdirAll(logDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	slog.SetDefault(slog.New(slog.NewTextHandler(file, nil)))

	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.New()
	log.Printf("Connecting to PostgreSQL with: host=%s, port=%s, user=%s, dbname=%s",
		cfg.PostgresCfg.Host, cfg.PostgresCfg.Port, cfg.PostgresCfg.Username, cfg.PostgresCfg.DBname)

	// Repositories hold the *sqlx.DB they are built with, so a failed
	// connect is fatal instead of retried in the background.
	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		log.Fatalf("Error connecting to PostgreSQL: %v", err)
	}
	defer db.Close()

	minioClient, err := minio.NewMinioClient(cfg.MinioCfg)
	if err != nil {
		log.Fatalf("Error connecting to MinIO: %v", err)
	}

	redisClient, err := redis.NewRedisClient(cfg.RedisCfg.Host, cfg.RedisCfg.Port, cfg.RedisCfg.Password, cfg.RedisCfg.DB)
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	// Decision events are best-effort: a missing broker degrades to
	// log-only instead of blocking order moderation.
	var publisher *event.DecisionPublisher
	rabbitConn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		log.Printf("error connect to RabbitMQ, decision events disabled: %s", err)
	} else {
		defer rabbitConn.Close()
		publisher = event.NewDecisionPublisher(rabbitConn)
	}

	// repositories
	monthRepository := repository.NewMonthRepository(db)
	orderRepository := repository.NewOrderRepository(db)
	indicatorRepository := repository.NewIndicatorRepository(db)
	userRepository := repository.NewUserRepository(db)
	sessionRepository := repository.NewSessionRepository(redisClient.GetClient())

	// services
	computeClient := services.NewComputeClient(cfg.ComputeCfg)
	catalogService := services.NewCatalogService(monthRepository, minioClient)
	sessionService := services.NewSessionService(userRepository, sessionRepository)
	orderService := services.NewOrderService(
		orderRepository,
		indicatorRepository,
		monthRepository,
		computeClient,
		publisher,
		services.ComputeMode(cfg.ComputeMode),
	)

	// handlers
	mw := handlers.NewMiddleware(sessionService, cfg.ComputeToken)
	monthHandler := handlers.NewMonthHandler(catalogService)
	orderHandler := handlers.NewOrderHandler(orderService, sessionService)
	computeHandler := handlers.NewComputeHandler(orderService, mw)
	authHandler := handlers.NewAuthHandler(sessionService)

	app := fiber.New()
	app.Use(mw.ResolveActor)

	app.Get("/checkhealth", func(c fiber.Ctx) error {
		health := fiber.Map{"status": "healthy"}
		if publisher != nil {
			health["publisher"] = publisher.GetStats()
		}
		return c.Status(fiber.StatusOK).JSON(health)
	})

	authHandler.Register(app)
	monthHandler.Register(app)
	orderHandler.Register(app)
	computeHandler.Register(app)

	log.Printf("Starting yield-service on port %s (compute mode %s)", cfg.Port, cfg.ComputeMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
