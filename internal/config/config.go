package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI     string
	DBName       string
	JWTSecret    string
	JWTExpiresIn string
	GeminiAPIKey string
	Port         string
	GinMode      string
	CORSOrigins  []string

	// Chunking
	ChunkSize    int
	ChunkOverlap int
	MinChunkSize int

	// Retrieval
	TopK                int
	SimilarityThreshold float64
	MaxContextLength    int
	MinConfidence       float64
	DefaultLanguage     string

	// Embeddings
	EmbeddingModel  string
	VectorDimension int

	// Generation
	GenerationModel string
	Temperature     float64
	MaxOutputTokens int

	// Rate limiting toward the Gemini API
	GeminiRPS   float64
	GeminiBurst int

	// Redis Configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Answer cache
	AnswerCacheTTLSeconds int

	// Backup Configuration
	BackupDir  string
	BackupCron string

	// Ingest
	MaxFileSize  int64
	SidecarDir   string
	WorkerConcur int

	// Telemetry
	OTLPEndpoint string
	ServiceName  string
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017/org_knowledge"),
		DBName:       getEnv("DB_NAME", "org_knowledge"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTExpiresIn: getEnv("JWT_EXPIRES_IN", "24h"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		Port:         getEnv("PORT", "8080"),
		GinMode:      getEnv("GIN_MODE", "debug"),
		CORSOrigins:  strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		ChunkSize:    getEnvInt("CHUNK_SIZE", 500),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 50),
		MinChunkSize: getEnvInt("MIN_CHUNK_SIZE", 100),

		TopK:                getEnvInt("TOP_K", 5),
		SimilarityThreshold: getEnvFloat64("SIMILARITY_THRESHOLD", 0.7),
		MaxContextLength:    getEnvInt("MAX_CONTEXT_LENGTH", 2000),
		// Disabled by default: any non-empty retrieval proceeds to
		// generation unless an operator raises the floor.
		MinConfidence: getEnvFloat64("MIN_CONFIDENCE", 0),
		DefaultLanguage:     getEnv("DEFAULT_LANGUAGE", "ar"),

		EmbeddingModel:  getEnv("EMBEDDING_MODEL", "text-embedding-004"),
		VectorDimension: getEnvInt("VECTOR_DIM", 768),

		GenerationModel: getEnv("GENERATION_MODEL", "gemini-2.0-flash"),
		Temperature:     getEnvFloat64("GENERATION_TEMPERATURE", 0.1),
		MaxOutputTokens: getEnvInt("GENERATION_MAX_TOKENS", 1000),

		GeminiRPS:   getEnvFloat64("GEMINI_RPS", 5),
		GeminiBurst: getEnvInt("GEMINI_BURST", 10),

		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AnswerCacheTTLSeconds: getEnvInt("ANSWER_CACHE_TTL", 300),

		BackupDir:  getEnv("BACKUP_DIR", "./backups"),
		BackupCron: getEnv("BACKUP_CRON", "0 3 * * *"),

		MaxFileSize:  getEnvInt64("MAX_FILE_SIZE", 20971520), // 20MB
		SidecarDir:   getEnv("SIDECAR_DIR", "./storage/metadata"),
		WorkerConcur: getEnvInt("WORKER_CONCURRENCY", 5),

		OTLPEndpoint: getEnv("OTLP_ENDPOINT", "localhost:4317"),
		ServiceName:  getEnv("SERVICE_NAME", "org-knowledge-platform"),
	}

	// Validate required fields
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required - set it in .env file")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required - set it in .env file")
	}

	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP must be smaller than CHUNK_SIZE")
	}

	if cfg.MinChunkSize > cfg.ChunkSize {
		return nil, fmt.Errorf("MIN_CHUNK_SIZE must not exceed CHUNK_SIZE")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
