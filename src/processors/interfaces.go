package processors

import (
	"github.com/username/lucroclaro/backend/src/models"
)

// SaleTransformer converts validated orders into canonical Sale records.
type SaleTransformer interface {
	Transform(order *models.Order, cfg models.FeeConfig) models.Sale
	TransformBatch(orders []*models.Order, cfg models.FeeConfig) []models.Sale
}

// AdSpendAllocator distributes an aggregate advertising spend across a batch
// of orders proportionally to revenue.
type AdSpendAllocator interface {
	Allocate(orders []*models.Order, totalAdSpend float64) map[int64]float64
}

// BreakdownProcessor produces the diagnostic financial breakdown of an order.
type BreakdownProcessor interface {
	Process(order *models.Order, cfg models.FeeConfig) models.FinancialBreakdown
}

// MetricsProcessor aggregates sales into dashboard metrics and chart series.
type MetricsProcessor interface {
	Calculate(sales []models.Sale) models.DashboardMetrics
	ChartSeries(sales []models.Sale, groupBy string) []models.ChartPoint
}
