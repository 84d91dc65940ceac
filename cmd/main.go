package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	boardhttp "lostfound-board/internal/board/adapter/http"
	"lostfound-board/internal/board/adapter/matchapi"
	"lostfound-board/internal/board/adapter/persistence"
	"lostfound-board/internal/board/adapter/persistence/mongodb"
	"lostfound-board/internal/board/adapter/security"
	"lostfound-board/internal/board/config"
	"lostfound-board/internal/board/domain/client"
	"lostfound-board/internal/board/usecase"
	"lostfound-board/internal/shared/eventbus"
	"lostfound-board/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.NewLogger()
	appLogger.Info("Configuration loaded")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDBURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Errorf("Failed to disconnect MongoDB: %v", err)
		}
	}()
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	appLogger.Info("MongoDB connection established")

	redisClient := config.NewRedisClient(&cfg.Redis)
	defer func() {
		if err := redisClient.Close(); err != nil {
			appLogger.Errorf("Failed to close Redis client: %v", err)
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// The journal is an audit surface; the board runs without it.
		appLogger.Warnf("Redis unavailable, change journal disabled: %v", err)
	}

	// Core wiring: store, bus, hub, journal, usecases.
	store := mongodb.NewStore(mongoClient.Database(cfg.DatabaseName), appLogger)
	bus := eventbus.NewEventBus(appLogger)
	hub := usecase.NewRealtimeHub(bus, appLogger)
	persistence.NewRedisChangeJournal(redisClient, bus, cfg.Redis.StreamMaxLength, appLogger)

	executor := usecase.NewQueryExecutor(store, appLogger)
	scorer := usecase.NewLocalMatcher()

	var matcher client.MatcherClient
	if cfg.Matcher.BaseURL != "" {
		matcher = matchapi.NewClient(cfg.Matcher, appLogger)
		appLogger.Info("Remote matcher enabled")
	} else {
		appLogger.Info("Remote matcher disabled, using local scoring only")
	}

	matches := usecase.NewMatchService(matcher, executor, scorer, appLogger)
	items := usecase.NewItemUsecase(store, executor, matches, bus, appLogger)
	conversations := usecase.NewConversationResolver(store, executor, bus, appLogger)
	chat := usecase.NewChatSync(store, executor, hub, bus, cfg.Realtime.ClientSendChannelBuffer, appLogger)

	tokens, err := security.NewTokenService(cfg.JWTSecretKey, cfg.JWTIssuer)
	if err != nil {
		log.Fatalf("Failed to initialize token service: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "Lost and Found Board",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: boardhttp.NewErrorHandler(appLogger),
	})

	authMiddleware := boardhttp.NewAuthMiddleware(tokens)
	app.Use(recover.New())
	app.Use(authMiddleware.CORS())
	app.Use(authMiddleware.RequestID())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		healthCtx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Ping(healthCtx, nil); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "UNHEALTHY",
				"error":  err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"status":    "HEALTHY",
			"timestamp": time.Now().UTC(),
		})
	})

	boardhttp.NewBoardHandler(items, conversations, chat, appLogger).
		RegisterRoutes(app, authMiddleware.RequireAuth())
	boardhttp.NewWebSocketHandler(chat, appLogger).
		RegisterRoutes(app, cfg.Realtime.WebSocketPath, authMiddleware.RequireAuth())

	serverAddr := ":" + cfg.Port
	appLogger.Infof("Starting HTTP server on %s", serverAddr)

	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			log.Fatalf("Server startup failed: %v", err)
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}
		appLogger.Info("HTTP server stopped")
	}
}
