package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/username/lucroclaro/backend/src/logger"
	"github.com/username/lucroclaro/backend/src/models"
	"github.com/username/lucroclaro/backend/src/services"
	"github.com/username/lucroclaro/backend/src/utils"
)

// SalesHandler serves the persisted, reconciled sales and the dashboard
// aggregates derived from them.
type SalesHandler struct {
	syncService services.SyncService
}

func NewSalesHandler(syncService services.SyncService) *SalesHandler {
	return &SalesHandler{syncService: syncService}
}

func (h *SalesHandler) HandleGetSales(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")

	sales, err := h.syncService.GetSales(startDate, endDate)
	if err != nil {
		logger.L.Error("Error retrieving sales", "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error retrieving sales: %v", err), http.StatusInternalServerError)
		return
	}
	if sales == nil {
		sales = []models.Sale{}
	}

	writeJSONWithETag(w, r, sales)
}

func (h *SalesHandler) HandleGetDashboardMetrics(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")

	metrics, err := h.syncService.GetDashboardMetrics(startDate, endDate)
	if err != nil {
		logger.L.Error("Error computing dashboard metrics", "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error computing dashboard metrics: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSONWithETag(w, r, metrics)
}

func (h *SalesHandler) HandleGetChartData(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")
	groupBy := r.URL.Query().Get("group_by")
	switch groupBy {
	case "", "day":
		groupBy = "day"
	case "week", "month":
	default:
		utils.SendJSONError(w, "group_by must be one of: day, week, month", http.StatusBadRequest)
		return
	}

	points, err := h.syncService.GetChartData(startDate, endDate, groupBy)
	if err != nil {
		logger.L.Error("Error computing chart data", "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error computing chart data: %v", err), http.StatusInternalServerError)
		return
	}
	if points == nil {
		points = []models.ChartPoint{}
	}

	writeJSONWithETag(w, r, points)
}

// writeJSONWithETag encodes the payload with an ETag so dashboard clients
// can revalidate with If-None-Match instead of re-downloading.
func writeJSONWithETag(w http.ResponseWriter, r *http.Request, payload any) {
	currentETag, etagErr := utils.GenerateETag(payload)
	if etagErr != nil {
		logger.L.Error("Failed to generate ETag", "error", etagErr)
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("%q", currentETag)
		w.Header().Set("ETag", quotedETag)
		for _, clientETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(clientETag) == quotedETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.L.Error("Error encoding JSON response", "error", err)
	}
}
