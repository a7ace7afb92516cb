package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5433")
		t.Setenv("APP_PORT", "9090")
		t.Setenv("APP_ENV", "test")
		t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://shop.example.com")
		t.Setenv("AUDIT_BACKEND", "DynamoDB")
		t.Setenv("AUDIT_TABLE", "audit_events")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5433", cfg.DBPort)
		assert.Equal(t, "9090", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, []string{"http://localhost:3000", "https://shop.example.com"}, cfg.CORSOrigins)
		assert.Equal(t, "dynamodb", cfg.AuditBackend)
		assert.Equal(t, "audit_events", cfg.AuditTable)
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_PORT", "")
		t.Setenv("APP_PORT", "")
		t.Setenv("CORS_ORIGINS", "")
		t.Setenv("AUDIT_BACKEND", "")
		t.Setenv("AUDIT_TABLE", "")
		t.Setenv("AWS_REGION", "")

		cfg := LoadConfig()

		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.Nil(t, cfg.CORSOrigins)
		assert.Equal(t, "postgres", cfg.AuditBackend)
		assert.Equal(t, "audit_logs", cfg.AuditTable)
		assert.Equal(t, "us-east-1", cfg.AWSRegion)
	})
}
