package services

import (
	"context"
	"errors"

	"github.com/username/lucroclaro/backend/src/models"
)

var (
	ErrOrderFetchFailed = errors.New("fetching orders from marketplace failed")
	ErrInvalidSettings  = errors.New("invalid settings")
)

// OrderError records why one order of a batch could not be reconciled.
// Failures stay local: the rest of the batch is always processed.
type OrderError struct {
	OrderID int64  `json:"order_id,omitempty"`
	Reason  string `json:"reason"`
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	Fetched  int          `json:"fetched"`
	Synced   int          `json:"synced"`
	Failed   int          `json:"failed"`
	Errors   []OrderError `json:"errors,omitempty"`
	Duration string       `json:"duration"`
}

// SyncService owns the fetch -> validate -> transform -> persist pipeline
// and the read side over the persisted sales.
type SyncService interface {
	SyncOrders(ctx context.Context) (*SyncResult, error)
	GetSales(startDate, endDate string) ([]models.Sale, error)
	GetDashboardMetrics(startDate, endDate string) (models.DashboardMetrics, error)
	GetChartData(startDate, endDate, groupBy string) ([]models.ChartPoint, error)
	InvalidateCache()
}

// SettingsService persists the store-level fee configuration.
type SettingsService interface {
	Get() (models.Settings, error)
	Update(settings models.Settings) (models.Settings, error)
}

// EmailService delivers the post-sync summary.
type EmailService interface {
	SendSyncReport(result *SyncResult) error
}
