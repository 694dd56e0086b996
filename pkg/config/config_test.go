package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://shop.example.com,https://admin.example.com")
	t.Setenv("REQUEST_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.Server.AllowOrigins)
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 5, cfg.Jobs.LowStockThreshold)
	assert.False(t, cfg.Redis.Enabled)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			JWT:      JWTConfig{SecretKey: "0123456789abcdef"},
			Database: DatabaseConfig{Driver: "postgres", Password: "secret"},
		}
	}

	t.Run("ok", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := base()
		cfg.JWT.SecretKey = ""
		assert.EqualError(t, cfg.Validate(), "missing jwt secret")
	})

	t.Run("postgres without password", func(t *testing.T) {
		cfg := base()
		cfg.Database.Password = ""
		assert.EqualError(t, cfg.Validate(), "missing database password")
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := base()
		cfg.Database.Driver = "oracle"
		assert.Error(t, cfg.Validate())
	})

	t.Run("weak admin password", func(t *testing.T) {
		cfg := base()
		cfg.Admin = AdminConfig{Email: "admin@example.com", Password: "123"}
		assert.Error(t, cfg.Validate())
	})
}

func TestPostgresDSN(t *testing.T) {
	dsn := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "shop", SSLMode: "disable"}.PostgresDSN()
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=shop sslmode=disable TimeZone=UTC", dsn)
}
