package main

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"org-knowledge-platform/internal/ai"
	"org-knowledge-platform/internal/config"
	"org-knowledge-platform/internal/logger"
	"org-knowledge-platform/internal/queue"
	"org-knowledge-platform/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

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

	// Embedding provider
	embedder, err := ai.NewGeminiEmbedder(context.Background(), cfg)
	if err != nil {
		log.Fatal("Failed to initialize embedder:", err)
	}
	defer embedder.Close()

	// Ingestion pipeline
	index := services.NewMongoVectorIndex(mongoClient, cfg.DBName, cfg.VectorDimension)
	metaStore := services.NewMongoMetadataStore(mongoClient, cfg.DBName)
	chunker := services.NewChunkerFromConfig(cfg)
	content := services.NewContentManager(index, metaStore, embedder, chunker, nil)

	// Redis options for Asynq
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	// Create Asynq server
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.WorkerConcur,
			Queues: map[string]int{
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("Task failed", "type", task.Type(), "error", err)
			}),
		},
	)

	// Create task processor
	processor := queue.NewTaskProcessor(content)

	// Create mux and register handlers
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskIngestDocument, processor.HandleIngestDocument)

	logger.Info("Starting ingest worker",
		"concurrency", cfg.WorkerConcur,
		"redis", redisOpt.Addr)

	// Start the server
	if err := server.Run(mux); err != nil {
		log.Fatal("Failed to start worker:", err)
	}
}
