package app

import (
	"os"
	"strconv"

	"go-hrms/internal/mail"
)

type Config struct {
	AppPort string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	RedisAddr   string
	KafkaBroker string

	JWTSecret string

	StorageDir     string
	StorageBaseURL string
	StorageSecret  string

	SMTP        mail.SMTPConfig
	CompanyName string
}

func LoadConfig() Config {
	return Config{
		AppPort: getEnv("APP_PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "hrms"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBroker: getEnv("KAFKA_BROKER", "localhost:9092"),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret"),

		StorageDir:     getEnv("STORAGE_DIR", "./data/files"),
		StorageBaseURL: getEnv("STORAGE_BASE_URL", "http://localhost:8080"),
		StorageSecret:  getEnv("STORAGE_SECRET", "dev-storage-secret"),

		SMTP: mail.SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "no-reply@hrms.local"),
		},
		CompanyName: getEnv("COMPANY_NAME", "HRMS"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
