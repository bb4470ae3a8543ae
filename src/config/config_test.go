package config_test

import (
	"testing"
	"time"

	"finboard/src/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("reads the base settings", func(t *testing.T) {
		cfg, err := config.LoadConfig("../../settings", "")
		require.NoError(t, err)

		assert.Equal(t, config.API, cfg.Service.Type)
		assert.Equal(t, "8000", cfg.Service.Port)
		assert.Equal(t, "finboard", cfg.Databases.SQL.Database)
		assert.Equal(t, 30*time.Second, cfg.ExternalClients.Yahoo.CacheTTL)
		assert.Equal(t, 5*time.Minute, cfg.News.CacheTTL)
		assert.Equal(t, 4, cfg.News.Workers)
		assert.Len(t, cfg.News.Feeds, 5)
		assert.Equal(t, time.Hour, cfg.Calendar.CacheTTL)
	})

	t.Run("merges the environment overlay", func(t *testing.T) {
		cfg, err := config.LoadConfig("../../settings", "TESTING")
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Service.LogLevel)
		assert.Equal(t, "finboard_test", cfg.Databases.SQL.Database)
		assert.Equal(t, "localhost", cfg.Databases.SQL.Host)
		assert.Equal(t, time.Minute, cfg.News.CacheTTL)
	})

	t.Run("environment variables win", func(t *testing.T) {
		t.Setenv("FINBOARD_SERVICE_PORT", "9090")

		cfg, err := config.LoadConfig("../../settings", "")
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Service.Port)
	})

	t.Run("missing directory fails", func(t *testing.T) {
		_, err := config.LoadConfig("./does-not-exist", "")
		assert.Error(t, err)
	})
}

func TestSQLConfigDSN(t *testing.T) {
	cfg := config.SQLConfig{Host: "db", Port: "5432", Username: "u", Password: "p", Database: "d"}
	assert.Equal(t, "host=db user=u password=p dbname=d port=5432 sslmode=disable", cfg.DSN())

	cfg.ConnectionString = "postgres://x"
	assert.Equal(t, "postgres://x", cfg.DSN())
}
