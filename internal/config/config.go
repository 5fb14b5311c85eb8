package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	Env      string
	LogLevel string
	HTTPAddr string

	DB      DBConfig
	Redis   RedisConfig
	Session SessionConfig
	LLM     LLMConfig
	Limits  LimitsConfig
}

type DBConfig struct {
	Driver string
	DSN    string
}

type RedisConfig struct {
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
}

type SessionConfig struct {
	CookieName string
	MaxAge     time.Duration
	CacheTTL   time.Duration
	Secure     bool
}

type LLMConfig struct {
	Provider      string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	GeminiAPIKey  string
	GeminiModel   string
	Temperature   float32
	MaxTokens     int
	Timeout       time.Duration
}

type LimitsConfig struct {
	RequestsPerSecond int
	Burst             int
	LoginWindow       time.Duration
	LoginMax          int
	AIWindow          time.Duration
	AIMax             int
}

// Load reads the process environment, after merging the files listed in
// envFiles into it. Without envFiles an optional .env is merged; named files
// must exist. Variables already set in the environment win over file values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	env := strings.ToLower(GetEnvAsString("APP_ENV", EnvDevelopment))

	cfg := &Config{
		Env:      env,
		LogLevel: GetEnvAsString("LOG_LEVEL", ""),
		HTTPAddr: GetEnvAsString("HTTP_ADDR", ":8080"),
		DB: DBConfig{
			Driver: strings.ToLower(GetEnvAsString("DB_DRIVER", DriverPostgres)),
			DSN:    GetEnvAsString("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			URL:      GetEnvAsString("REDIS_URL", ""),
			Host:     GetEnvAsString("REDIS_HOST", "localhost"),
			Port:     GetEnvAsString("REDIS_PORT", "6379"),
			Password: GetEnvAsString("REDIS_PASSWORD", ""),
			DB:       GetEnvAsInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			CookieName: GetEnvAsString("SESSION_COOKIE_NAME", "sid"),
			MaxAge:     GetEnvAsDuration("SESSION_MAX_AGE", 7*24*time.Hour),
			CacheTTL:   GetEnvAsDuration("SESSION_CACHE_TTL", 5*time.Minute),
			Secure:     GetEnvAsBool("SESSION_COOKIE_SECURE", env == EnvProduction),
		},
		LLM: LLMConfig{
			Provider:      strings.ToLower(GetEnvAsString("LLM_PROVIDER", ProviderOpenAI)),
			OpenAIAPIKey:  GetEnvAsString("OPENAI_API_KEY", ""),
			OpenAIModel:   GetEnvAsString("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL: GetEnvAsString("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			GeminiAPIKey:  GetEnvAsString("GEMINI_API_KEY", ""),
			GeminiModel:   GetEnvAsString("GEMINI_MODEL", "gemini-2.0-flash"),
			Temperature:   GetEnvAsFloat("LLM_TEMPERATURE", 0.7),
			MaxTokens:     GetEnvAsInt("LLM_MAX_TOKENS", 1500),
			Timeout:       GetEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		},
		Limits: LimitsConfig{
			RequestsPerSecond: GetEnvAsInt("RATE_LIMIT_RPS", 50),
			Burst:             GetEnvAsInt("RATE_LIMIT_BURST", 100),
			LoginWindow:       GetEnvAsDuration("LOGIN_RATE_WINDOW", 15*time.Minute),
			LoginMax:          GetEnvAsInt("LOGIN_RATE_MAX", 10),
			AIWindow:          GetEnvAsDuration("AI_RATE_WINDOW", time.Minute),
			AIMax:             GetEnvAsInt("AI_RATE_MAX", 10),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLM.Provider)
	}
	if c.Session.MaxAge <= 0 {
		return errors.New("SESSION_MAX_AGE must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}
