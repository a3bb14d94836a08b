package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "storefront-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.ShopAPI.Timeout)
	assert.Equal(t, int64(1000), cfg.Shipping.StandardFee)
	assert.Equal(t, int64(2500), cfg.Shipping.ExpressFee)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 5*time.Second, cfg.Notification.DismissAfter)
	assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("STOREFRONT_APP_PORT", "9090")
	t.Setenv("STOREFRONT_SHOPAPI_BASE_URL", "https://api.example.com")
	t.Setenv("STOREFRONT_SHIPPING_EXPRESS_FEE", "3000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "https://api.example.com", cfg.ShopAPI.BaseURL)
	assert.Equal(t, int64(3000), cfg.Shipping.ExpressFee)
}

func TestLoad_InvalidSessionBackend(t *testing.T) {
	t.Setenv("STOREFRONT_SESSION_BACKEND", "memcached")

	_, err := Load()
	assert.ErrorContains(t, err, "session.backend")
}

func TestLoad_ProductionRequiresShopAPIBaseURL(t *testing.T) {
	t.Setenv("STOREFRONT_APP_ENV", "production")

	_, err := Load()
	assert.ErrorContains(t, err, "shopapi.base_url")
}

func TestAppConfig_Addr(t *testing.T) {
	cfg := AppConfig{Port: "8080"}
	assert.Equal(t, ":8080", cfg.Addr())
}
