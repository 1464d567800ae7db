package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/lucroclaro/backend/src/database"
	"github.com/username/lucroclaro/backend/src/logger"
	"github.com/username/lucroclaro/backend/src/models"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	logger.InitLogger("error")
	database.InitDB(filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(func() { database.DB.Close() })
}

func TestSettingsServiceDefaults(t *testing.T) {
	setupTestDB(t)
	service := NewSettingsService()

	settings, err := service.Get()
	require.NoError(t, err)
	assert.InDelta(t, 5.31, settings.PlatformFeePct, 1e-9)
	assert.Empty(t, settings.GatewayFeeOverrides)
	assert.InDelta(t, 0.0, settings.DefaultAdSpend, 1e-9)
	assert.True(t, settings.SyncEnabled)
}

func TestSettingsServiceUpdateRoundTrip(t *testing.T) {
	setupTestDB(t)
	service := NewSettingsService()

	stored, err := service.Update(models.Settings{
		PlatformFeePct:      4.0,
		GatewayFeeOverrides: map[string]float64{"mercadopago": 6.5},
		DefaultAdSpend:      1500,
		SyncEnabled:         false,
	})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, stored.PlatformFeePct, 1e-9)

	loaded, err := service.Get()
	require.NoError(t, err)
	assert.InDelta(t, 4.0, loaded.PlatformFeePct, 1e-9)
	assert.InDelta(t, 6.5, loaded.GatewayFeeOverrides["mercadopago"], 1e-9)
	assert.InDelta(t, 1500.0, loaded.DefaultAdSpend, 1e-9)
	assert.False(t, loaded.SyncEnabled)

	// Second update replaces, not duplicates.
	_, err = service.Update(models.Settings{PlatformFeePct: 7.0, SyncEnabled: true})
	require.NoError(t, err)
	loaded, err = service.Get()
	require.NoError(t, err)
	assert.InDelta(t, 7.0, loaded.PlatformFeePct, 1e-9)
	assert.Empty(t, loaded.GatewayFeeOverrides)
}

func TestSettingsServiceValidation(t *testing.T) {
	setupTestDB(t)
	service := NewSettingsService()

	tests := []struct {
		name     string
		settings models.Settings
	}{
		{name: "negative platform fee", settings: models.Settings{PlatformFeePct: -1}},
		{name: "platform fee over 100", settings: models.Settings{PlatformFeePct: 101}},
		{name: "negative ad spend", settings: models.Settings{DefaultAdSpend: -10}},
		{name: "override over 100", settings: models.Settings{GatewayFeeOverrides: map[string]float64{"x": 120}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Update(tt.settings)
			assert.ErrorIs(t, err, ErrInvalidSettings)
		})
	}
}
