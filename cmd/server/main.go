// @title           CineGrok API
// @version         1.0.0
// @description     Filmmaker directory: profiles, onboarding wizard, browse and search, and producer collaboration tracking.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"cinegrok-backend/internal/ai"
	"cinegrok-backend/internal/browse"
	"cinegrok-backend/internal/config"
	"cinegrok-backend/internal/database"
	"cinegrok-backend/internal/drafts"
	"cinegrok-backend/internal/handlers"
	"cinegrok-backend/internal/ingest"
	"cinegrok-backend/internal/middleware"
	"cinegrok-backend/internal/render"
	"cinegrok-backend/internal/services"
	"cinegrok-backend/internal/supabase"
	"cinegrok-backend/internal/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopmentConfig().Build()
	}
	return zap.NewProductionConfig().Build()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	ctx := context.Background()

	// Supabase clients
	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create Supabase client: %w", err)
	}
	directory := supabase.NewDirectoryClient(supabaseClient)
	authClient := supabase.NewAuthClient(supabaseClient)

	var photoStorage handlers.PhotoStorage
	if cfg.SupabaseServiceRoleKey != "" {
		storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, cfg.SupabaseStorageBucket)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
		photoStorage = storageClient
	} else {
		logger.Warn("SUPABASE_SERVICE_ROLE_KEY not set, photo uploads are disabled")
	}

	// Direct database connection; without it profile, interest and
	// analytics routes answer "database not available".
	var dbClient *supabase.DatabaseClient
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, migrations skipped and database features disabled")
	} else {
		dbClient, err = supabase.NewDatabaseClient(cfg.DatabaseURL)
		if err != nil {
			logger.Warn("failed to connect to database", zap.Error(err))
		} else {
			defer dbClient.Close()
			migrator := database.NewMigratorWithDB(dbClient.DB(), logger)
			if err := migrator.Run(ctx); err != nil {
				logger.Warn("migrations failed", zap.Error(err))
			}
		}
	}

	// Wizard drafts
	var draftStore drafts.Store
	var redisPing handlers.Pinger
	if cfg.RedisURL != "" {
		redisStore, err := drafts.NewRedisStoreFromURL(ctx, cfg.RedisURL, cfg.DraftTTL)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer redisStore.Close()
		draftStore = redisStore
		redisPing = handlers.PingFunc(redisStore.Ping)
	} else {
		logger.Info("REDIS_URL not set, wizard drafts are kept in memory")
		draftStore = drafts.NewMemoryStore()
	}

	// Click telemetry
	publisher, err := telemetry.NewPublisher(cfg.RabbitMQURL, cfg.ClickExchange, logger)
	if err != nil {
		return fmt.Errorf("failed to create click publisher: %w", err)
	}
	defer publisher.Close()

	var sinks []telemetry.Sink
	if dbClient != nil {
		sinks = append(sinks, dbClient)
	}
	if publisher.Enabled() {
		sinks = append(sinks, publisher)
	}
	tracker := telemetry.NewTracker(logger, cfg.ClickTimeout, sinks...)
	defer tracker.Wait()

	// Embeddings
	var embedder ai.Embedder
	if cfg.OllamaBaseURL != "" {
		aiClient, err := ai.NewClient(cfg.OllamaBaseURL, cfg.OllamaEmbedModel, cfg.OllamaTimeout, logger)
		if err != nil {
			return fmt.Errorf("failed to create embedding client: %w", err)
		}
		embedder = aiClient
	} else {
		logger.Info("OLLAMA_BASE_URL not set, vector search is disabled")
	}

	// Services that need the database
	var (
		profiles     handlers.ProfileReader
		publisherSvc handlers.ProfilePublisher
		ingester     handlers.Ingester
		processor    handlers.Processor
		clickCounter handlers.ClickCounter
		interests    handlers.InterestStore
		accounts     handlers.AccountStore
		dbPing       handlers.Pinger
	)
	if dbClient != nil {
		profileService := services.NewProfileService(dbClient, embedder, logger)
		legacyIngester, err := ingest.New(profileService, logger)
		if err != nil {
			return fmt.Errorf("failed to create ingester: %w", err)
		}
		profiles = profileService
		publisherSvc = profileService
		processor = profileService
		ingester = legacyIngester
		clickCounter = dbClient
		interests = dbClient
		accounts = dbClient
		dbPing = dbClient.DB()
	}

	gate, err := render.ParseGatePolicy(cfg.ProducerGate)
	if err != nil {
		return err
	}
	renderer := render.NewRenderer(gate, cfg.LoginURL)
	logger.Info("producer view gate", zap.String("policy", string(renderer.Policy())))
	browseService := browse.NewService(directory, "/api/v1/filmmakers")

	// Handlers
	filmmakersHandler := handlers.NewFilmmakersHandler(browseService, profiles, renderer, accounts, clickCounter, tracker, logger)
	searchHandler := handlers.NewSearchHandler(directory, embedder)
	ingestHandler := handlers.NewIngestHandler(ingester, processor)
	interestsHandler := handlers.NewInterestsHandler(interests)
	uploadHandler := handlers.NewUploadHandler(photoStorage)
	authHandler := handlers.NewAuthHandler(authClient, accounts, logger)
	wizardHandler := handlers.NewWizardHandler(draftStore, publisherSvc, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.ErrorLogger(logger))
	router.Use(middleware.Metrics())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", handlers.HealthHandler)
	router.GET("/ready", handlers.ReadinessHandler(map[string]handlers.Pinger{
		"database": dbPing,
		"redis":    redisPing,
	}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.AuthMiddleware(cfg)
	optionalAuth := middleware.OptionalAuth(cfg)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/filmmakers", filmmakersHandler.List)
		v1.GET("/filmmakers/:id", optionalAuth, filmmakersHandler.Get)
		v1.GET("/filmmakers/:id/stats", filmmakersHandler.Stats)
		v1.GET("/filmmakers/:id/analytics", requireAuth, filmmakersHandler.Analytics)
		v1.POST("/filmmakers/:id/clicks", optionalAuth, filmmakersHandler.Click)
		v1.GET("/search", searchHandler.Search)

		protected := v1.Group("")
		protected.Use(requireAuth)
		{
			protected.GET("/profile", filmmakersHandler.Mine)
			protected.POST("/ingest", ingestHandler.Ingest)
			protected.POST("/process-ai", ingestHandler.ProcessAI)

			protected.GET("/collaboration-interests", interestsHandler.List)
			protected.POST("/collaboration-interests", interestsHandler.Express)
			protected.PATCH("/collaboration-interests", interestsHandler.Update)
			protected.DELETE("/collaboration-interests", interestsHandler.Delete)

			wizard := protected.Group("/wizard")
			wizard.GET("", wizardHandler.Get)
			wizard.DELETE("", wizardHandler.Discard)
			wizard.POST("/step", wizardHandler.SetStep)
			wizard.POST("/next", wizardHandler.Next)
			wizard.POST("/back", wizardHandler.Back)
			wizard.POST("/goto", wizardHandler.GoTo)
			wizard.POST("/fields", wizardHandler.Fields)
			wizard.POST("/roles", wizardHandler.Roles)
			wizard.POST("/custom-roles", wizardHandler.CustomRoles)
			wizard.POST("/films", wizardHandler.Films)
			wizard.POST("/publish", wizardHandler.Publish)
		}
	}

	// Paths kept for the existing web client
	api := router.Group("/api")
	{
		api.DELETE("/interested-profiles", requireAuth, interestsHandler.Delete)
		api.POST("/storage/upload", requireAuth, uploadHandler.Upload)

		auth := api.Group("/auth")
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", requireAuth, authHandler.Logout)
		auth.GET("/me", requireAuth, authHandler.Me)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case sig := <-shutdownChan:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("error shutting down HTTP server", zap.Error(err))
	}
	return nil
}
