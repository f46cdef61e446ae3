package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	PostgresDSN string `env:"POSTGRES_DSN,required"`
	APIPort     int    `env:"API_PORT" envDefault:"8000"`
	HealthPort  int    `env:"HEALTH_PORT" envDefault:"8080"`

	// Database pool
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS" envDefault:"10"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS" envDefault:"2"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"5m"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"30s"`

	// Sentiment models
	UsePrimaryModel   bool          `env:"USE_PRIMARY_MODEL" envDefault:"true"`
	FallbackToLexicon bool          `env:"FALLBACK_TO_LEXICON" envDefault:"true"`
	ModelProvider     string        `env:"MODEL_PROVIDER" envDefault:"http"`
	RussianModelID    string        `env:"RUSSIAN_MODEL_ID" envDefault:"DeepPavlov/rubert-base-cased-sentiment"`
	EnglishModelID    string        `env:"ENGLISH_MODEL_ID" envDefault:"cardiffnlp/twitter-roberta-base-sentiment"`
	InferenceBaseURL  string        `env:"INFERENCE_BASE_URL"`
	InferenceTimeout  time.Duration `env:"INFERENCE_TIMEOUT" envDefault:"30s"`
	InferenceRPS      float64       `env:"INFERENCE_RPS" envDefault:"5"`
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY"`
	OpenAIModel       string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	// Batch worker
	WorkerPollInterval time.Duration `env:"WORKER_POLL_INTERVAL" envDefault:"5s"`
	BatchMaxAttempts   int           `env:"BATCH_MAX_ATTEMPTS" envDefault:"3"`
	BatchRetryDelay    time.Duration `env:"BATCH_RETRY_DELAY" envDefault:"60s"`

	// API
	MaxReviewLength int `env:"MAX_REVIEW_LENGTH" envDefault:"10000"`
	ListPageLimit   int `env:"LIST_PAGE_LIMIT" envDefault:"50"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
