package services

import (
	"database/sql"
	"fmt"

	"github.com/username/lucroclaro/backend/src/config"
	"github.com/username/lucroclaro/backend/src/database"
	"github.com/username/lucroclaro/backend/src/logger"
	"github.com/username/lucroclaro/backend/src/models"
)

type settingsServiceImpl struct{}

func NewSettingsService() SettingsService {
	return &settingsServiceImpl{}
}

// Get returns the persisted settings, or the configured defaults when the
// store never saved any.
func (s *settingsServiceImpl) Get() (models.Settings, error) {
	var (
		platformFeePct float64
		overridesJSON  string
		defaultAdSpend float64
		syncEnabled    bool
	)
	err := database.DB.QueryRow(
		`SELECT platform_fee_pct, gateway_fee_overrides, default_ad_spend, sync_enabled FROM settings WHERE id = 1`,
	).Scan(&platformFeePct, &overridesJSON, &defaultAdSpend, &syncEnabled)
	if err == sql.ErrNoRows {
		return defaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("error querying settings: %w", err)
	}

	overrides := map[string]float64{}
	if err := json.Unmarshal([]byte(overridesJSON), &overrides); err != nil {
		logger.L.Warn("Stored gateway fee overrides are not valid JSON, ignoring", "error", err)
		overrides = map[string]float64{}
	}

	return models.Settings{
		PlatformFeePct:      platformFeePct,
		GatewayFeeOverrides: overrides,
		DefaultAdSpend:      defaultAdSpend,
		SyncEnabled:         syncEnabled,
	}, nil
}

// Update validates and persists the settings, returning the stored value.
func (s *settingsServiceImpl) Update(settings models.Settings) (models.Settings, error) {
	if settings.PlatformFeePct < 0 || settings.PlatformFeePct > 100 {
		return models.Settings{}, fmt.Errorf("%w: platform fee percentage must be between 0 and 100", ErrInvalidSettings)
	}
	if settings.DefaultAdSpend < 0 {
		return models.Settings{}, fmt.Errorf("%w: default ad spend must not be negative", ErrInvalidSettings)
	}
	for gateway, pct := range settings.GatewayFeeOverrides {
		if pct < 0 || pct > 100 {
			return models.Settings{}, fmt.Errorf("%w: fee percentage for gateway %q must be between 0 and 100", ErrInvalidSettings, gateway)
		}
	}

	if settings.GatewayFeeOverrides == nil {
		settings.GatewayFeeOverrides = map[string]float64{}
	}
	overridesJSON, err := json.Marshal(settings.GatewayFeeOverrides)
	if err != nil {
		return models.Settings{}, fmt.Errorf("error encoding gateway fee overrides: %w", err)
	}

	_, err = database.DB.Exec(`
		INSERT INTO settings (id, platform_fee_pct, gateway_fee_overrides, default_ad_spend, sync_enabled, updated_at)
		VALUES (1, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			platform_fee_pct = excluded.platform_fee_pct,
			gateway_fee_overrides = excluded.gateway_fee_overrides,
			default_ad_spend = excluded.default_ad_spend,
			sync_enabled = excluded.sync_enabled,
			updated_at = CURRENT_TIMESTAMP`,
		settings.PlatformFeePct, string(overridesJSON), settings.DefaultAdSpend, settings.SyncEnabled)
	if err != nil {
		return models.Settings{}, fmt.Errorf("error persisting settings: %w", err)
	}

	logger.L.Info("Settings updated", "platformFeePct", settings.PlatformFeePct, "syncEnabled", settings.SyncEnabled)
	return settings, nil
}

func defaultSettings() models.Settings {
	platformFeePct := 5.31
	if config.Cfg != nil {
		platformFeePct = config.Cfg.DefaultPlatformFeePct
	}
	return models.Settings{
		PlatformFeePct:      platformFeePct,
		GatewayFeeOverrides: map[string]float64{},
		DefaultAdSpend:      0,
		SyncEnabled:         true,
	}
}
