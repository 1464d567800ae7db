package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/username/lucroclaro/backend/src/logger"
	"github.com/username/lucroclaro/backend/src/models"
	"github.com/username/lucroclaro/backend/src/processors"
	"github.com/username/lucroclaro/backend/src/services"
	"github.com/username/lucroclaro/backend/src/utils"
	"github.com/username/lucroclaro/backend/src/validation"
)

const maxBreakdownBodyBytes = 1 << 20 // 1 MiB

// BreakdownHandler validates a single raw order payload and returns its
// diagnostic financial breakdown without persisting anything.
type BreakdownHandler struct {
	processor       processors.BreakdownProcessor
	settingsService services.SettingsService
}

func NewBreakdownHandler(processor processors.BreakdownProcessor, settingsService services.SettingsService) *BreakdownHandler {
	return &BreakdownHandler{processor: processor, settingsService: settingsService}
}

func (h *BreakdownHandler) HandleOrderBreakdown(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBreakdownBodyBytes))
	if err != nil {
		utils.SendJSONError(w, "Error reading request body", http.StatusBadRequest)
		return
	}

	result := validation.SafeParseOrder(body)
	if !result.Success {
		logger.L.Warn("Breakdown request rejected by validation", "errorCount", len(result.Errors))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		if encErr := json.NewEncoder(w).Encode(map[string]any{
			"error":  "order validation failed",
			"fields": result.Errors,
		}); encErr != nil {
			logger.L.Error("Error encoding validation errors", "error", encErr)
		}
		return
	}

	settings, err := h.settingsService.Get()
	if err != nil {
		logger.L.Error("Error loading settings for breakdown", "error", err)
		utils.SendJSONError(w, "Error loading settings", http.StatusInternalServerError)
		return
	}

	cfg := models.FeeConfig{
		PlatformFeePct:      settings.PlatformFeePct,
		GatewayFeeOverrides: settings.GatewayFeeOverrides,
	}
	breakdown := h.processor.Process(result.Order, cfg)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(breakdown); err != nil {
		logger.L.Error("Error encoding breakdown response", "error", err)
	}
}
