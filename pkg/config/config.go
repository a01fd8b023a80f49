package config

import (
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

type Postgres struct {
	Host string
	Port int
	User string
	Pass string
	DB   string

	MigrationsDir string
}

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort int

	Postgres  Postgres
	RedisAddr string

	// Pricing rates are process configuration, injected into the pricing
	// calculator so tests can vary them per case.
	ShippingFlat decimal.Decimal
	TaxRate      decimal.Decimal
}

func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTPPort: getEnvInt("HTTP_PORT", 8080),
		Postgres: Postgres{
			Host:          getEnv("POSTGRES_HOST", "localhost"),
			Port:          getEnvInt("POSTGRES_PORT", 5432),
			User:          getEnv("POSTGRES_USER", "storefront"),
			Pass:          getEnv("POSTGRES_PASSWORD", "storefront"),
			DB:            getEnv("POSTGRES_DB", "storefront_db"),
			MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		},
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		ShippingFlat: getEnvDecimal("SHIPPING_FLAT", "10.00"),
		TaxRate:      getEnvDecimal("TAX_RATE", "0.08"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvDecimal(key, def string) decimal.Decimal {
	v := os.Getenv(key)
	if v == "" {
		v = def
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.RequireFromString(def)
	}

	return d
}
