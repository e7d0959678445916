package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// Config carries every externally provided setting. It is loaded once in
// main and injected into constructors; no package reads the environment on
// its own.
type Config struct {
	Port         string
	PostgresURL  string
	KafkaBrokers []string
	OTLPEndpoint string

	JWT      JWT
	Razorpay Razorpay
	FTP      FTP
}

type JWT struct {
	Secret string
	Expiry time.Duration
}

type Razorpay struct {
	BaseURL   string
	KeyID     string
	KeySecret string
}

// FTP describes the remote image host. Host may be empty, in which case
// image upload is disabled.
type FTP struct {
	Host      string
	Port      int
	User      string
	Password  string
	UploadDir string
	PublicURL string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:         getenv("PORT", "8080"),
		PostgresURL:  os.Getenv("POSTGRES_URL"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		JWT: JWT{
			Secret: os.Getenv("JWT_SECRET"),
			Expiry: 24 * time.Hour,
		},
		Razorpay: Razorpay{
			BaseURL:   getenv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
			KeyID:     os.Getenv("RAZORPAY_KEY_ID"),
			KeySecret: os.Getenv("RAZORPAY_SECRET"),
		},
		FTP: FTP{
			Host:      os.Getenv("FTP_HOST"),
			Port:      21,
			User:      os.Getenv("FTP_USER"),
			Password:  os.Getenv("FTP_PASS"),
			UploadDir: getenv("FTP_UPLOAD_DIR", "assets"),
			PublicURL: os.Getenv("FTP_PUBLIC_URL"),
		},
	}

	if cfg.PostgresURL == "" {
		return nil, fmt.Errorf("POSTGRES_URL environment variable is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if cfg.Razorpay.KeyID == "" || cfg.Razorpay.KeySecret == "" {
		return nil, fmt.Errorf("RAZORPAY_KEY_ID and RAZORPAY_SECRET environment variables are required")
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if expiry := os.Getenv("JWT_EXPIRE"); expiry != "" {
		d, err := time.ParseDuration(expiry)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRE: %w", err)
		}
		cfg.JWT.Expiry = d
	}

	if port := os.Getenv("FTP_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid FTP_PORT: %w", err)
		}
		cfg.FTP.Port = p
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
