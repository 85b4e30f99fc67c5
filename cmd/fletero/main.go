package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/fletero/fletero/internal/pkg/config"
	"github.com/fletero/fletero/internal/pkg/database"
	"github.com/fletero/fletero/internal/pkg/logger"
	natspkg "github.com/fletero/fletero/internal/pkg/nats"
	"github.com/fletero/fletero/internal/pkg/server"
	"github.com/fletero/fletero/internal/pkg/websocket"
	"github.com/fletero/fletero/services/notify"
	tripsGateway "github.com/fletero/fletero/services/trips/gateway"
	tripsHandler "github.com/fletero/fletero/services/trips/handler"
	tripsRepository "github.com/fletero/fletero/services/trips/repository"
	tripsUsecase "github.com/fletero/fletero/services/trips/usecase"
	usersHandler "github.com/fletero/fletero/services/users/handler"
	usersRepository "github.com/fletero/fletero/services/users/repository"
	usersUsecase "github.com/fletero/fletero/services/users/usecase"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	configs := config.InitConfig(configPath)

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(configs.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Close()
	logger.SetGlobalLogger(zapLogger)

	// Components shut down in registration order once the HTTP server
	// has drained.
	shutdown := server.NewShutdownManager(zapLogger)

	// Initialize PostgreSQL database connection
	postgresClient, err := database.NewPostgresClient(configs.Database)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}

	if configs.Database.Migrate {
		if err := postgresClient.RunMigrations(context.Background()); err != nil {
			logger.Fatal("Failed to run migrations", logger.Err(err))
		}
	}

	// Initialize Redis client
	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", logger.Err(err))
	}

	// Initialize NATS client
	natsClient, err := natspkg.NewClient(configs.NATS.URL)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", logger.Err(err))
	}

	// Initialize repositories
	tripRepo := tripsRepository.NewTripRepository(configs, postgresClient.GetDB())
	userRepo := usersRepository.NewUserRepository(configs, postgresClient.GetDB())
	presenceRepo := usersRepository.NewPresenceRepository(redisClient)

	// Initialize gateways
	tripGW := tripsGateway.NewTripGW(natsClient)

	// Initialize usecases
	tripUC := tripsUsecase.NewTripUC(configs, tripRepo, tripGW)
	userUC := usersUsecase.NewUserUC(configs, userRepo, presenceRepo)

	// Initialize websocket hub and the notify pipeline
	hub := websocket.NewHub(configs.JWT, presenceRepo)
	dispatcher := notify.NewDispatcher(configs.Notify)
	consumer := notify.NewConsumer(natsClient, dispatcher, hub)
	if err := consumer.Start(); err != nil {
		logger.Fatal("Failed to start notify consumer", logger.Err(err))
	}

	// Stop the event pipeline before closing the connections it uses.
	shutdown.Register(func(context.Context) error {
		consumer.Stop()
		return nil
	})
	shutdown.Register(func(context.Context) error {
		natsClient.Close()
		return nil
	})
	shutdown.Register(func(context.Context) error {
		return redisClient.Close()
	})
	shutdown.Register(func(context.Context) error {
		return postgresClient.Close()
	})

	// Initialize Echo router
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(logger.EchoMiddleware(zapLogger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": configs.App.Version,
		})
	})
	e.GET("/ws", hub.HandleConnection)

	tripsHandler.NewHandler(tripUC, configs).RegisterRoutes(e)
	usersHandler.NewHandler(userUC, configs).RegisterRoutes(e)

	// Start server with graceful shutdown
	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port)
	if err := srv.Start(); err != nil {
		logger.Fatal("Server exited with error", logger.Err(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := shutdown.Shutdown(shutdownCtx); err != nil {
		logger.Error("Component shutdown finished with errors", logger.Err(err))
	}
}
