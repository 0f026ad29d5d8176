package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8081/api", c.UsersURL)
	assert.Equal(t, "http://localhost:8083/api", c.OrdersURL)
	assert.Equal(t, "watchstore.db", c.DBPath)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, "text", c.LogFormat)
	assert.Equal(t, "http://localhost:8081/api/auth/refresh", c.RefreshURL())
}

func TestLoad_NoArgsGivesDefaults(t *testing.T) {
	cfg, err := load(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, cfg)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"users_url":       "http://json-users",
		"orders_url":      "http://json-orders",
		"request_timeout": "30s",
	})

	cfg, err := load([]string{"-c", path, "-o", "http://flag-orders", "-l", "debug"})
	require.NoError(t, err)

	assert.Equal(t, "http://json-users", cfg.UsersURL, "json over defaults")
	assert.Equal(t, "http://flag-orders", cfg.OrdersURL, "flags over json")
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "http://localhost:8082/api", cfg.CatalogURL, "untouched default")
}
