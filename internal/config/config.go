package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds every configuration parameter of the application.
type Config struct {
	DatabaseURL    string        `env:"DATABASE_URL,required"`
	ServerPort     string        `env:"SERVER_PORT" envDefault:"8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"json"`
	Debug          bool          `env:"APP_DEBUG" envDefault:"false"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Credits granted to a freshly registered account.
	StartingCredits int           `env:"STARTING_CREDITS" envDefault:"100"`
	TokenTTL        time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"720h"`

	OpenAI   OpenAIConfig
	RabbitMQ RabbitMQConfig
	Redis    RedisConfig
	Minio    MinioConfig
}

// OpenAIConfig configures the chat-completions provider.
type OpenAIConfig struct {
	APIKey       string        `env:"OPENAI_API_KEY,required"`
	Organization string        `env:"OPENAI_ORGANIZATION"`
	BaseURL      string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	Model        string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	MaxTokens    int           `env:"OPENAI_MAX_TOKENS" envDefault:"2000"`
	Temperature  float64       `env:"OPENAI_TEMPERATURE" envDefault:"0.7"`
	Timeout      time.Duration `env:"OPENAI_TIMEOUT" envDefault:"60s"`
}

// RabbitMQConfig configures the generation job queue.
type RabbitMQConfig struct {
	URL          string        `env:"RABBITMQ_URL,required"`
	QueueName    string        `env:"RABBITMQ_QUEUE_NAME" envDefault:"generation_jobs"`
	MaxAttempts  int           `env:"RABBITMQ_MAX_ATTEMPTS" envDefault:"3"`
	RetryBackoff time.Duration `env:"RABBITMQ_RETRY_BACKOFF" envDefault:"30s"`
	// Number of jobs a worker process handles in parallel.
	WorkerConcurrency int `env:"WORKER_CONCURRENCY" envDefault:"5"`
}

// RedisConfig configures the stats cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	StatsTTL time.Duration `env:"REDIS_STATS_TTL" envDefault:"60s"`
}

// MinioConfig configures the output archive. An empty Endpoint disables it.
type MinioConfig struct {
	Endpoint        string `env:"MINIO_ENDPOINT"`
	AccessKeyID     string `env:"MINIO_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY"`
	UseSSL          bool   `env:"MINIO_USE_SSL"`
	BucketName      string `env:"MINIO_BUCKET_NAME" envDefault:"generations"`
	Region          string `env:"MINIO_REGION" envDefault:"us-east-1"`
}

// Enabled reports whether the archive should be wired.
func (m MinioConfig) Enabled() bool {
	return m.Endpoint != ""
}

// Enabled reports whether the stats cache should be wired.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// LoadConfig reads configuration from the environment.
// A .env file in the working directory is loaded first when present.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration from environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.RabbitMQ.MaxAttempts < 1 {
		return fmt.Errorf("RABBITMQ_MAX_ATTEMPTS must be at least 1, got %d", c.RabbitMQ.MaxAttempts)
	}
	if c.RabbitMQ.WorkerConcurrency < 1 {
		return fmt.Errorf("WORKER_CONCURRENCY must be at least 1, got %d", c.RabbitMQ.WorkerConcurrency)
	}
	if c.StartingCredits < 0 {
		return fmt.Errorf("STARTING_CREDITS must not be negative, got %d", c.StartingCredits)
	}
	if c.Minio.Enabled() && (c.Minio.AccessKeyID == "" || c.Minio.SecretAccessKey == "") {
		return fmt.Errorf("MINIO_ACCESS_KEY_ID and MINIO_SECRET_ACCESS_KEY must be set when MINIO_ENDPOINT is configured")
	}
	return nil
}
