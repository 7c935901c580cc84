package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const devJWTSecret = "dev-secret-change-in-production"

// Store drivers accepted in STORE_DRIVER.
const (
	StoreMySQL  = "mysql"
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

var ErrDevSecretInProduction = errors.New("JWT_SECRET must be set in production environment")

type Config struct {
	Port      string
	Env       string
	APIPrefix string

	StoreDriver   string
	DatabaseDSN   string
	MongoURL      string
	MongoDatabase string

	JWTSecret string
	JWTExpiry time.Duration

	CORSOrigins []string

	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string
	LLMTimeout time.Duration
}

// fileConfig mirrors Config for the optional YAML file named by CONFIG_FILE.
// Zero values leave the defaults in place.
type fileConfig struct {
	Port      string `yaml:"port"`
	Env       string `yaml:"env"`
	APIPrefix string `yaml:"api_prefix"`
	Store     struct {
		Driver        string `yaml:"driver"`
		DSN           string `yaml:"dsn"`
		MongoURL      string `yaml:"mongo_url"`
		MongoDatabase string `yaml:"mongo_database"`
	} `yaml:"store"`
	JWT struct {
		Secret      string `yaml:"secret"`
		ExpiryHours int    `yaml:"expiry_hours"`
	} `yaml:"jwt"`
	CORSOrigins []string `yaml:"cors_origins"`
	LLM         struct {
		APIKey         string `yaml:"api_key"`
		BaseURL        string `yaml:"base_url"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"llm"`
}

// Defaults returns the development configuration.
func Defaults() Config {
	return Config{
		Port:          "8080",
		Env:           "development",
		APIPrefix:     "/api",
		StoreDriver:   StoreMySQL,
		DatabaseDSN:   "root:password@tcp(127.0.0.1:3306)/itinera?parseTime=true",
		MongoURL:      "mongodb://127.0.0.1:27017",
		MongoDatabase: "itinera",
		JWTSecret:     devJWTSecret,
		JWTExpiry:     720 * time.Hour,
		CORSOrigins:   []string{"*"},
		LLMModel:      "gpt-4o",
		LLMTimeout:    90 * time.Second,
	}
}

// Load builds the configuration from defaults, the optional CONFIG_FILE and
// environment variables, in that order of precedence (lowest first).
func Load() (Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fc, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		fc.apply(&cfg)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects configurations that must not reach a running server.
func (c Config) Validate() error {
	if c.Env == "production" && c.JWTSecret == devJWTSecret {
		return ErrDevSecretInProduction
	}
	switch c.StoreDriver {
	case StoreMySQL, StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JWTExpiry <= 0 {
		return errors.New("JWT expiry must be positive")
	}
	if c.LLMTimeout <= 0 {
		return errors.New("LLM timeout must be positive")
	}
	return nil
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fc, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("failed to parse config file: %w", err)
	}

	return fc, nil
}

func (fc fileConfig) apply(cfg *Config) {
	setString(&cfg.Port, fc.Port)
	setString(&cfg.Env, fc.Env)
	setString(&cfg.APIPrefix, fc.APIPrefix)
	setString(&cfg.StoreDriver, fc.Store.Driver)
	setString(&cfg.DatabaseDSN, fc.Store.DSN)
	setString(&cfg.MongoURL, fc.Store.MongoURL)
	setString(&cfg.MongoDatabase, fc.Store.MongoDatabase)
	setString(&cfg.JWTSecret, fc.JWT.Secret)
	if fc.JWT.ExpiryHours > 0 {
		cfg.JWTExpiry = time.Duration(fc.JWT.ExpiryHours) * time.Hour
	}
	if len(fc.CORSOrigins) > 0 {
		cfg.CORSOrigins = fc.CORSOrigins
	}
	setString(&cfg.LLMAPIKey, fc.LLM.APIKey)
	setString(&cfg.LLMBaseURL, fc.LLM.BaseURL)
	setString(&cfg.LLMModel, fc.LLM.Model)
	if fc.LLM.TimeoutSeconds > 0 {
		cfg.LLMTimeout = time.Duration(fc.LLM.TimeoutSeconds) * time.Second
	}
}

func applyEnv(cfg *Config) error {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.APIPrefix = getEnv("API_PREFIX", cfg.APIPrefix)
	cfg.StoreDriver = getEnv("STORE_DRIVER", cfg.StoreDriver)
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", cfg.DatabaseDSN)
	cfg.MongoURL = getEnv("MONGO_URL", cfg.MongoURL)
	cfg.MongoDatabase = getEnv("DB_NAME", cfg.MongoDatabase)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.LLMAPIKey = getEnv("LLM_API_KEY", getEnv("OPENAI_API_KEY", cfg.LLMAPIKey))
	cfg.LLMBaseURL = getEnv("LLM_BASE_URL", cfg.LLMBaseURL)
	cfg.LLMModel = getEnv("LLM_MODEL", cfg.LLMModel)

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	hours, err := getEnvInt("JWT_EXPIRATION_HOURS")
	if err != nil {
		return err
	}
	if hours > 0 {
		cfg.JWTExpiry = time.Duration(hours) * time.Hour
	}

	secs, err := getEnvInt("LLM_TIMEOUT_SECONDS")
	if err != nil {
		return err
	}
	if secs > 0 {
		cfg.LLMTimeout = time.Duration(secs) * time.Second
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt returns 0 when the variable is unset.
func getEnvInt(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
