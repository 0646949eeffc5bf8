// Package config loads runtime settings from .env, an optional YAML file
// and the process environment, in that order of precedence (last wins).
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           string   `yaml:"port"`
	AppEnv         string   `yaml:"app_env"`
	DevAuth        bool     `yaml:"dev_auth"`
	JWTSecret      string   `yaml:"-"`
	FallbackFile   string   `yaml:"fallback_file"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	Database DatabaseConfig `yaml:"database"`
	Google   GoogleConfig   `yaml:"google"`
	AI       AIConfig       `yaml:"ai"`
	Limits   LimitConfig    `yaml:"rate_limit"`
}

type DatabaseConfig struct {
	Driver      string        `yaml:"driver"`
	DSN         string        `yaml:"-"`
	PingTimeout time.Duration `yaml:"ping_timeout"`
	ReadyCache  time.Duration `yaml:"ready_cache"`
}

type GoogleConfig struct {
	WebClientID       string `yaml:"web_client_id"`
	ExtensionClientID string `yaml:"extension_client_id"`
}

type AIConfig struct {
	Provider      string `yaml:"provider"`
	OpenAIKey     string `yaml:"-"`
	OpenAIModel   string `yaml:"openai_model"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	GeminiKey     string `yaml:"-"`
	GeminiModel   string `yaml:"gemini_model"`
}

type LimitConfig struct {
	RedisURL string        `yaml:"-"`
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// Load reads the configuration and exits the process when a required value
// is missing. A missing JWT secret is the only fatal condition.
func Load() *Config {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeYAML(path); err != nil {
			log.Fatalf("Error parsing %s: %v", path, err)
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	return cfg
}

func defaults() *Config {
	return &Config{
		Port:         "5000",
		AppEnv:       "development",
		FallbackFile: "mock_jobs.json",
		Database: DatabaseConfig{
			Driver:      "postgres",
			PingTimeout: 2 * time.Second,
			ReadyCache:  5 * time.Second,
		},
		AI: AIConfig{
			Provider:    "openai",
			OpenAIModel: "gpt-4o-mini",
			GeminiModel: "gemini-2.5-flash",
		},
		Limits: LimitConfig{
			Requests: 30,
			Window:   time.Minute,
		},
	}
}

func (c *Config) mergeYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: Could not read %s: %v", path, err)
		return nil
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.AppEnv = getEnv("APP_ENV", c.AppEnv)
	c.DevAuth = getBool("DEV_AUTH", c.DevAuth)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.FallbackFile = getEnv("FALLBACK_FILE", c.FallbackFile)

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.DSN = getEnv("DATABASE_URL", c.Database.DSN)
	c.Database.PingTimeout = getDuration("DB_PING_TIMEOUT", c.Database.PingTimeout)
	c.Database.ReadyCache = getDuration("DB_READY_CACHE", c.Database.ReadyCache)

	c.Google.WebClientID = getEnv("GOOGLE_CLIENT_ID_WEB", c.Google.WebClientID)
	c.Google.ExtensionClientID = getEnv("GOOGLE_CLIENT_ID_EXTENSION", c.Google.ExtensionClientID)

	c.AI.Provider = strings.ToLower(getEnv("AI_PROVIDER", c.AI.Provider))
	c.AI.OpenAIKey = getEnv("OPENAI_API_KEY", c.AI.OpenAIKey)
	c.AI.OpenAIModel = getEnv("OPENAI_MODEL", c.AI.OpenAIModel)
	c.AI.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", c.AI.OpenAIBaseURL)
	c.AI.GeminiKey = getEnv("GEMINI_API_KEY", c.AI.GeminiKey)
	c.AI.GeminiModel = getEnv("GEMINI_MODEL", c.AI.GeminiModel)

	c.Limits.RedisURL = getEnv("REDIS_URL", c.Limits.RedisURL)
	c.Limits.Requests = getInt("AI_RATE_LIMIT", c.Limits.Requests)
	c.Limits.Window = getDuration("AI_RATE_WINDOW", c.Limits.Window)

	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{getEnv("FRONTEND_URL", "http://localhost:5173")}
		if ext := os.Getenv("EXTENSION_ORIGIN"); ext != "" {
			c.AllowedOrigins = append(c.AllowedOrigins, ext)
		}
	}
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errMissing("JWT_SECRET")
	}
	return nil
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.AppEnv)
	return env == "production" || env == "prod"
}

// DevAuthEnabled gates the development identity shortcuts. They are never
// honoured in production, whatever DEV_AUTH says.
func (c *Config) DevAuthEnabled() bool {
	return c.DevAuth && !c.IsProduction()
}

// EnvCheck reports which optional integrations have credentials configured.
// Values are never exposed, only their presence.
func (c *Config) EnvCheck() map[string]bool {
	return map[string]bool{
		"DATABASE_URL":         c.Database.DSN != "",
		"JWT_SECRET":           c.JWTSecret != "",
		"GOOGLE_CLIENT_ID_WEB": c.Google.WebClientID != "",
		"OPENAI_API_KEY":       c.AI.OpenAIKey != "",
		"GEMINI_API_KEY":       c.AI.GeminiKey != "",
		"REDIS_URL":            c.Limits.RedisURL != "",
	}
}

type missingError string

func (e missingError) Error() string { return string(e) + " is required" }

func errMissing(key string) error { return missingError(key) }

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
