package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rosterd/rosterd/internal/config"
	"github.com/rosterd/rosterd/internal/postgres"
	"github.com/rosterd/rosterd/internal/registry"
)

// AppState holds all application services
type AppState struct {
	Logger      *zap.Logger
	Config      *config.Config
	Conn        *postgres.Conn
	Store       *registry.PostgresStore
	UserService registry.UserService
}

func main() {
	// Load .env before config so env overrides pick it up
	_ = godotenv.Load()

	// Load configuration
	config.Load()

	// Initialize logger with config
	logger := initLogger()

	// Initialize application state
	as := newAppState(logger)

	// Create the schema eagerly when the database is reachable at boot.
	// A failure here is not fatal: the connection handle is lazy, so a later
	// request retries both the connection and the migration.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := as.Store.CreateTables(ctx); err != nil {
		logger.Warn("schema setup deferred until the database is reachable", zap.Error(err))
	}
	cancel()

	// Create HTTP server
	router := setupRouter(as)

	addr := fmt.Sprintf("%s:%d", config.Http().Host, config.Http().Port)

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Setup graceful shutdown
	done := setupSignalHandler(as, server, logger)

	logger.Info("Starting rosterd server", zap.String("address", addr))

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	<-done
	logger.Info("Server shutdown complete")
}

// newAppState creates and initializes the application state
func newAppState(logger *zap.Logger) *AppState {
	pgConfig := config.Postgres()

	logger.Info("Database configuration",
		zap.String("host", pgConfig.Host),
		zap.Int("port", pgConfig.Port),
		zap.String("database", pgConfig.Database),
		zap.String("user", pgConfig.User))

	conn := postgres.NewConn(pgConfig.DSN(), pgConfig.MaxOpenConnections)
	store := registry.NewPostgresStore(conn)
	userService := registry.NewService(store, logger)

	return &AppState{
		Logger:      logger,
		Config:      config.Get(),
		Conn:        conn,
		Store:       store,
		UserService: userService,
	}
}

func initLogger() *zap.Logger {
	logConfig := config.Logger()

	var config zap.Config
	if logConfig.Format == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	// Set log level
	switch logConfig.Level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	return logger
}

func setupRouter(as *AppState) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Add CORS middleware
	router.Use(cors.Default())

	// Add logging middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Health endpoint
	router.GET("/health", func(c *gin.Context) {
		ctx := c.Request.Context()

		if err := as.Conn.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"timestamp": time.Now().Format(time.RFC3339),
				"error":     err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"services": gin.H{
				"database": "healthy",
			},
		})
	})

	// User API
	api := router.Group("/api")
	api.GET("", func(c *gin.Context) {
		c.String(http.StatusOK, "API is running...")
	})

	handlers := registry.NewHandlers(as.UserService, as.Logger)
	handlers.RegisterRoutes(api)

	return router
}

func setupSignalHandler(as *AppState, server *http.Server, logger *zap.Logger) chan struct{} {
	done := make(chan struct{}, 1)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signalCh

		logger.Info("Shutting down server...")

		// Create context with timeout for graceful shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Shutdown server
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Error during server shutdown", zap.Error(err))
		}

		// Close database handle
		if err := as.Conn.Close(); err != nil {
			logger.Error("Error closing database handle", zap.Error(err))
		}

		done <- struct{}{}
	}()

	return done
}
