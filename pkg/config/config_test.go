package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mihigojordan/Abysphere-sub003/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverMemory, cfg.DB.Driver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "access_token", cfg.JWT.CookieName)
	assert.Equal(t, 3, cfg.Returns.MaxConflictRetries)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_EnvSobrescribe(t *testing.T) {
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("RETURNS_MAX_CONFLICT_RETRIES", "5")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 5, cfg.Returns.MaxConflictRetries)
}

func TestLoad_DriverDesconocido_RetornaError(t *testing.T) {
	t.Setenv("DB_DRIVER", "mongo")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_ProductionSinSecret_RetornaError(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "stock", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/stock?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://override"
	assert.Equal(t, "postgres://override", c.ConnectionString())
}
