package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/username/lucroclaro/backend/src/logger"
	"github.com/username/lucroclaro/backend/src/models"
	"github.com/username/lucroclaro/backend/src/services"
	"github.com/username/lucroclaro/backend/src/utils"
)

// SettingsHandler exposes the store-level fee configuration.
type SettingsHandler struct {
	settingsService services.SettingsService
	syncService     services.SyncService
}

func NewSettingsHandler(settingsService services.SettingsService, syncService services.SyncService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, syncService: syncService}
}

func (h *SettingsHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.Get()
	if err != nil {
		logger.L.Error("Error retrieving settings", "error", err)
		utils.SendJSONError(w, "Error retrieving settings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(settings); err != nil {
		logger.L.Error("Error encoding settings response", "error", err)
	}
}

func (h *SettingsHandler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		utils.SendJSONError(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	stored, err := h.settingsService.Update(settings)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSettings) {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.L.Error("Error updating settings", "error", err)
		utils.SendJSONError(w, "Error updating settings", http.StatusInternalServerError)
		return
	}

	// Fee knobs changed, so cached aggregates may be stale.
	h.syncService.InvalidateCache()
	logger.L.Info("Settings updated",
		"platformFeePct", stored.PlatformFeePct,
		"gatewayOverrides", len(stored.GatewayFeeOverrides),
		"defaultAdSpend", stored.DefaultAdSpend,
		"syncEnabled", stored.SyncEnabled)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stored); err != nil {
		logger.L.Error("Error encoding settings response", "error", err)
	}
}
