package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/username/lucroclaro/backend/src/logger"
	"github.com/username/lucroclaro/backend/src/services"
	"github.com/username/lucroclaro/backend/src/utils"
)

// SyncHandler triggers an on-demand synchronization run against the store API.
type SyncHandler struct {
	syncService services.SyncService
}

func NewSyncHandler(syncService services.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

func (h *SyncHandler) HandleTriggerSync(w http.ResponseWriter, r *http.Request) {
	logger.L.Info("Manual sync triggered", "remoteAddr", r.RemoteAddr)

	result, err := h.syncService.SyncOrders(r.Context())
	if err != nil {
		logger.L.Error("Sync run failed", "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Sync failed: %v", err), http.StatusBadGateway)
		return
	}

	logger.L.Info("Sync run finished",
		"fetched", result.Fetched,
		"synced", result.Synced,
		"failed", result.Failed,
		"duration", result.Duration)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error encoding sync result", "error", err)
	}
}
