package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	AI        AIConfig
	Pipeline  PipelineConfig
	Retrieval RetrievalConfig
	Storage   StorageConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AIConfig struct {
	OpenAIAPIKey     string
	CompletionModel  string
	EmbeddingModel   string
	AssemblyAIAPIKey string
	MaxConcurrent    int
	RequestTimeout   time.Duration
	MaxAttempts      int
}

type PipelineConfig struct {
	ChunkWindow       int
	ChunkOverlap      int
	PromptTokenBudget int
	StageTimeout      time.Duration
	WorkerPoolSize    int
}

type RetrievalConfig struct {
	TopK      int
	Threshold float64
}

type StorageConfig struct {
	// Backend selects the vector index implementation, "memory" or "badger".
	Backend    string
	BadgerPath string
}

func Load() (*Config, error) {
	// Missing .env is fine, the environment may already be populated.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "meeting_intelligence"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		AI: AIConfig{
			OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
			CompletionModel:  getEnv("OPENAI_COMPLETION_MODEL", "gpt-4o-mini"),
			EmbeddingModel:   getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			AssemblyAIAPIKey: getEnv("ASSEMBLYAI_API_KEY", ""),
			MaxConcurrent:    getEnvAsInt("AI_MAX_CONCURRENT", 4),
			RequestTimeout:   getEnvAsDuration("AI_REQUEST_TIMEOUT", 60*time.Second),
			MaxAttempts:      getEnvAsInt("AI_MAX_ATTEMPTS", 3),
		},
		Pipeline: PipelineConfig{
			ChunkWindow:       getEnvAsInt("CHUNK_WINDOW", 200),
			ChunkOverlap:      getEnvAsInt("CHUNK_OVERLAP", 40),
			PromptTokenBudget: getEnvAsInt("PROMPT_TOKEN_BUDGET", 6000),
			StageTimeout:      getEnvAsDuration("STAGE_TIMEOUT", 90*time.Second),
			WorkerPoolSize:    getEnvAsInt("WORKER_POOL_SIZE", 8),
		},
		Retrieval: RetrievalConfig{
			TopK:      getEnvAsInt("RETRIEVAL_TOP_K", 5),
			Threshold: getEnvAsFloat("RETRIEVAL_THRESHOLD", 0.25),
		},
		Storage: StorageConfig{
			Backend:    getEnv("VECTOR_BACKEND", "memory"),
			BadgerPath: getEnv("BADGER_PATH", "./data/index"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.AI.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.Pipeline.ChunkOverlap >= c.Pipeline.ChunkWindow {
		return fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_WINDOW (%d)",
			c.Pipeline.ChunkOverlap, c.Pipeline.ChunkWindow)
	}
	if c.Retrieval.Threshold < 0 || c.Retrieval.Threshold > 1 {
		return fmt.Errorf("RETRIEVAL_THRESHOLD must be in [0,1], got %f", c.Retrieval.Threshold)
	}
	return nil
}

// DSN builds the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
