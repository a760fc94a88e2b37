package app

import (
	"database/sql"
	"fmt"
	"time"

	"remote-admin-svc/app/clients"
	"remote-admin-svc/app/handlers"
	"remote-admin-svc/app/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	postgresdriver "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

// App represents the application
type App struct {
	Config  *Config
	Logger  zerolog.Logger
	Storage clients.StorageAdapter
	Sweeper *services.Sweeper
	Router  *gin.Engine
}

// Bootstrap initializes the application
func Bootstrap(logger zerolog.Logger) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	factory := services.NewStorageFactory()
	store, err := factory.CreateStore(cfg.StorageDriver, cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if cfg.StorageDriver == "postgres" {
		if err := runMigrations(cfg.ConnString()); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Initialize services
	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTExpirationSec)
	authService := services.NewAuthService(store)
	commandService := services.NewCommandService(store)
	ingestService := services.NewIngestService(store, authService, services.SubstringFilter(cfg.BannedWords))
	activityService := services.NewActivityService(store)
	chatService := services.NewChatService(store)
	serverService := services.NewServerService(store)
	sweeper := services.NewSweeper(store, cfg.SweepInterval, cfg.QueueRetention, logger)

	// Initialize HTTP handlers
	agentHandler := handlers.NewAgentHandler(authService, commandService, ingestService)
	commandHandler := handlers.NewCommandHandler(commandService)
	serverHandler := handlers.NewServerHandler(serverService)
	activityHandler := handlers.NewActivityHandler(activityService, chatService)

	// Setup HTTP router
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	setupRoutes(router, store, jwtService, agentHandler, commandHandler, serverHandler, activityHandler)

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Storage: store,
		Sweeper: sweeper,
		Router:  router,
	}

	return app, nil
}

// runMigrations runs database migrations using golang-migrate
func runMigrations(connString string) error {
	// golang-migrate expects a database/sql driver, so use the pgx stdlib adapter
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer db.Close()

	driver, err := postgresdriver.WithInstance(db, &postgresdriver.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://storage/postgres/migrations", "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// requestLogger logs one structured line per request.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// setupRoutes configures HTTP routes
func setupRoutes(
	router *gin.Engine,
	store clients.StorageAdapter,
	jwtService *services.JWTService,
	agentHandler *handlers.AgentHandler,
	commandHandler *handlers.CommandHandler,
	serverHandler *handlers.ServerHandler,
	activityHandler *handlers.ActivityHandler,
) {
	// Health endpoints
	healthHandler := handlers.NewHealthHandler(store)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	api := router.Group("/api")

	// Game-server endpoints (API key auth)
	agent := api.Group("/remote-admin")
	{
		agent.POST("/poll", agentHandler.Poll)
		agent.POST("/activity", agentHandler.PushActivity)
	}

	// Operator endpoints (JWT auth, workspace scoped)
	workspace := api.Group("/workspace/:id/remote-admin")
	workspace.Use(handlers.OperatorAuth(jwtService))
	{
		workspace.GET("/servers", serverHandler.List)
		workspace.POST("/servers", serverHandler.Create)
		workspace.PATCH("/servers", serverHandler.Update)
		workspace.DELETE("/servers", serverHandler.Delete)

		workspace.POST("/commands", commandHandler.Enqueue)
		workspace.GET("/queue", commandHandler.ListQueue)

		workspace.GET("/activity", activityHandler.Feed)
		workspace.GET("/chat", activityHandler.ListChat)
		workspace.POST("/chat/moderate", activityHandler.ModerateChat)
	}
}
