package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL  string
	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string
	JWTSecret    string

	EmbedProvider string // "openai" or "gemini"
	OpenAIAPIKey  string
	GeminiAPIKey  string
	EmbedModel    string
	EmbedDim      int

	// Pipeline tuning knobs; passed into ingest.Config so the pipeline
	// itself never reads the environment.
	TokenBudget   int
	OverlapBudget int
	BatchSize     int
	IngestWorkers int

	Port string
}

// LoadConfig loads the environment variables and returns the config.
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		BucketName:   getEnv("BUCKET_NAME", "manuals"),
		JWTSecret:    getEnv("JWT_SECRET", ""),

		EmbedProvider: getEnv("EMBED_PROVIDER", "openai"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		EmbedModel:    getEnv("EMBED_MODEL", "text-embedding-ada-002"),
		EmbedDim:      getEnvInt("EMBED_DIM", 1536),

		TokenBudget:   getEnvInt("CHUNK_TOKEN_BUDGET", 512),
		OverlapBudget: getEnvInt("CHUNK_OVERLAP_BUDGET", 100),
		BatchSize:     getEnvInt("CHUNK_BATCH_SIZE", 10),
		IngestWorkers: getEnvInt("INGEST_WORKERS", 2),

		Port: getEnv("PORT", "8080"),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}
