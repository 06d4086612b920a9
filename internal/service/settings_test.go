package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Skotchmaster/clothing_shop/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_DefaultsOnFirstRead(t *testing.T) {
	e := newEnv(t)
	st, err := e.settings.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Clothing Shop", st.StoreName)
	assert.Equal(t, 18.0, st.TaxRate)
	assert.Equal(t, int64(1), st.Version)
	assert.False(t, st.MaintenanceMode)

	policy, err := e.settings.PricingPolicy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 500.0, policy.FreeShippingThreshold)
}

func TestSettings_CacheHitAndInvalidate(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.settings.Get(ctx)
	require.NoError(t, err)
	require.Len(t, e.cache.data, 1)

	// a write behind the cache is not visible until invalidation
	require.NoError(t, e.repo.DB.Exec("UPDATE settings SET store_name = ?", "Direct").Error)
	st, err := e.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Clothing Shop", st.StoreName)

	updated, err := e.settings.Update(ctx, transport.SettingsRequest{MaintenanceMode: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "Direct", updated.StoreName)
	assert.Empty(t, e.cache.data)

	on, err := e.settings.MaintenanceMode(ctx)
	require.NoError(t, err)
	assert.True(t, on)
}

func TestSettings_CacheFailureFallsBackToDB(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.cache.err = errors.New("redis down")

	st, err := e.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Clothing Shop", st.StoreName)

	_, err = e.settings.Update(ctx, transport.SettingsRequest{StoreName: ptr("New")})
	require.NoError(t, err)
}

func TestSettings_VersionConflict(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	st, err := e.settings.Update(ctx, transport.SettingsRequest{Version: ptr(int64(1)), TaxRate: ptr(10.0)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.Version)
	assert.Equal(t, 10.0, st.TaxRate)

	_, err = e.settings.Update(ctx, transport.SettingsRequest{Version: ptr(int64(1)), TaxRate: ptr(12.0)})
	require.ErrorIs(t, err, ErrConflict)

	st, err = e.settings.Update(ctx, transport.SettingsRequest{ShippingFee: ptr(10.0)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.Version, "every write bumps the version")
}

func TestSettings_Validation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	bad := []transport.SettingsRequest{
		{TaxRate: ptr(101.0)},
		{ShippingFee: ptr(-1.0)},
		{FreeShippingThreshold: ptr(-5.0)},
		{Currency: ptr("RUPEE")},
		{StoreName: ptr(" ")},
	}
	for _, req := range bad {
		_, err := e.settings.Update(ctx, req)
		assert.ErrorIs(t, err, ErrValidation)
	}

	st, err := e.settings.Update(ctx, transport.SettingsRequest{Currency: ptr("usd")})
	require.NoError(t, err)
	assert.Equal(t, "USD", st.Currency)
}
