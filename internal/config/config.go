package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/subosito/gotenv"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

type Config struct {
	LogLevel string

	Storage     string
	PostgresDSN string
	RedisAddr   string
	StorageKey  string

	Currency currency.Unit
	Locale   language.Tag
}

// Load reads the configuration from the environment. Variables from an
// optional .env file in the working directory are applied first without
// overriding ones already set.
func Load() (Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("gotenv.Load: %w", err)
	}

	return FromEnv()
}

// FromEnv reads the configuration from environment variables only.
func FromEnv() (Config, error) {
	cfg := Config{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Storage:     strings.ToLower(getEnv("CART_STORAGE", StorageMemory)),
		PostgresDSN: getEnv("CART_POSTGRES_DSN", ""),
		RedisAddr:   getEnv("CART_REDIS_ADDR", ""),
		StorageKey:  getEnv("CART_STORAGE_KEY", "@cart:products"),
	}

	code := getEnv("CART_CURRENCY", "BRL")
	unit, err := currency.ParseISO(code)
	if err != nil {
		return Config{}, fmt.Errorf("currency[%s] is not valid: %w", code, err)
	}
	cfg.Currency = unit

	locale := getEnv("CART_LOCALE", "pt-BR")
	tag, err := language.Parse(locale)
	if err != nil {
		return Config{}, fmt.Errorf("locale[%s] is not valid: %w", locale, err)
	}
	cfg.Locale = tag

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("CART_POSTGRES_DSN is empty")
		}
	case StorageRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("CART_REDIS_ADDR is empty")
		}
	default:
		return fmt.Errorf("storage[%s] is not supported", c.Storage)
	}

	if c.StorageKey == "" {
		return fmt.Errorf("CART_STORAGE_KEY is empty")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
