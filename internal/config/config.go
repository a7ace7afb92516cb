package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	CORSOrigins []string

	// AuditBackend selects where audit entries go: "postgres" or "dynamodb".
	AuditBackend   string
	AuditTable     string
	AWSRegion      string
	DynamoEndpoint string

	// NotificationTemplates is an optional YAML file overriding the embedded templates.
	NotificationTemplates string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:                os.Getenv("DB_HOST"),
		DBUser:                os.Getenv("DB_USER"),
		DBPassword:            os.Getenv("DB_PASSWORD"),
		DBName:                os.Getenv("DB_NAME"),
		DBPort:                getenvDefault("DB_PORT", "5432"),
		AppPort:               getenvDefault("APP_PORT", "8080"),
		AppEnv:                os.Getenv("APP_ENV"),
		CORSOrigins:           splitList(os.Getenv("CORS_ORIGINS")),
		AuditBackend:          strings.ToLower(getenvDefault("AUDIT_BACKEND", "postgres")),
		AuditTable:            getenvDefault("AUDIT_TABLE", "audit_logs"),
		AWSRegion:             getenvDefault("AWS_REGION", "us-east-1"),
		DynamoEndpoint:        os.Getenv("DYNAMODB_ENDPOINT"),
		NotificationTemplates: os.Getenv("NOTIFICATION_TEMPLATES"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
