package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port               string
	DatabaseURL        string
	RabbitURL          string
	PaymentProviderURL string
	PaymentTimeout     time.Duration
	Currency           string
}

// Load reads configuration from the environment, with an optional .env file.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RabbitURL:          os.Getenv("RABBITMQ_URL"),
		PaymentProviderURL: getEnv("PAYMENT_PROVIDER_URL", "http://localhost:9090"),
		PaymentTimeout:     getDuration("PAYMENT_TIMEOUT", 10*time.Second),
		Currency:           getEnv("PAYMENT_CURRENCY", "usd"),
	}

	if cfg.DatabaseURL == "" {
		logrus.Fatal("DATABASE_URL not set")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logrus.Warnf("invalid %s %q, using default %s", key, v, def)
		return def
	}
	return d
}
