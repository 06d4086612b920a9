package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"kafka:9092", "kafka2:9092"}, CSV(" kafka:9092, ,kafka2:9092 "))
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "x")
	t.Setenv("TEST_FLOAT", "8.5")
	t.Setenv("TEST_DURATION", "90s")
	t.Setenv("TEST_BOOL", "true")

	assert.Equal(t, 42, EnvIntDefault("TEST_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("TEST_BAD_INT", 1))
	assert.Equal(t, 8.5, EnvFloatDefault("TEST_FLOAT", 0))
	assert.Equal(t, 90*time.Second, EnvDurationDefault("TEST_DURATION", time.Second))
	assert.True(t, EnvBoolDefault("TEST_BOOL", false))
	assert.False(t, EnvBoolDefault("TEST_MISSING_BOOL", false))
	assert.Equal(t, "fallback", EnvDefault("TEST_MISSING_KEY", "fallback"))
}

func TestLoadPricingDefaults(t *testing.T) {
	t.Setenv("DEFAULT_TAX_RATE", "")
	t.Setenv("DEFAULT_SHIPPING_FEE", "")
	t.Setenv("DEFAULT_FREE_SHIPPING_THRESHOLD", "")
	t.Setenv("KAFKA_BROKERS", "a:1,b:2")

	cfg := Load()
	require.Equal(t, 18.0, cfg.Pricing.TaxRate)
	require.Equal(t, 100.0, cfg.Pricing.ShippingFee)
	require.Equal(t, 500.0, cfg.Pricing.FreeShippingThreshold)
	require.Equal(t, []string{"a:1", "b:2"}, cfg.KafkaBrokers)
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
}
