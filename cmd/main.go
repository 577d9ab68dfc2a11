package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"org-knowledge-platform/internal/ai"
	"org-knowledge-platform/internal/config"
	"org-knowledge-platform/internal/logger"
	"org-knowledge-platform/internal/telemetry"
	"org-knowledge-platform/middleware"
	"org-knowledge-platform/routes"
	"org-knowledge-platform/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Tracing
	shutdownTracer, err := telemetry.InitTracer(cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Warn("Tracing disabled", "error", err)
	} else {
		defer shutdownTracer()
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Fatal("Failed to initialize metrics:", err)
	}

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	// Connect to Redis
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()

	// AI providers
	ctx := context.Background()
	embedder, err := ai.NewGeminiEmbedder(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize embedder:", err)
	}
	defer embedder.Close()

	generator, err := ai.NewGeminiClient(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize Gemini client:", err)
	}
	defer generator.Close()

	// Core services
	index := services.NewMongoVectorIndex(mongoClient, cfg.DBName, cfg.VectorDimension)
	metaStore := services.NewMongoMetadataStore(mongoClient, cfg.DBName)
	chunker := services.NewChunkerFromConfig(cfg)
	content := services.NewContentManager(index, metaStore, embedder, chunker, metrics)

	cache := services.NewAnswerCache(rdb, time.Duration(cfg.AnswerCacheTTLSeconds)*time.Second)
	orchestrator := services.NewRetrievalOrchestrator(cfg, index, embedder, generator, cache, metrics)

	backup := services.NewBackupService(index, metaStore, cfg.BackupDir)
	scheduler := services.NewScheduler()
	if err := scheduler.ScheduleBackup(cfg.BackupCron, backup); err != nil {
		logger.Warn("Backup scheduling failed", "error", err, "cron", cfg.BackupCron)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Asynq client for async ingestion
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer asynqClient.Close()

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.RequestIDMiddleware())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg)
	roleMiddleware := middleware.NewRoleMiddleware()

	// Setup routes
	routes.SetupDocumentRoutes(router, content, asynqClient, authMiddleware, roleMiddleware)
	routes.SetupQueryRoutes(router, orchestrator, authMiddleware)
	routes.SetupAdminRoutes(router, content, backup, authMiddleware, roleMiddleware)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
