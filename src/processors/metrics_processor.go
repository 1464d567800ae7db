package processors

import (
	"fmt"
	"sort"
	"time"

	"github.com/username/lucroclaro/backend/src/models"
)

type metricsProcessorImpl struct{}

func NewMetricsProcessor() MetricsProcessor {
	return &metricsProcessorImpl{}
}

// Calculate aggregates a set of sales into the dashboard totals.
func (m *metricsProcessorImpl) Calculate(sales []models.Sale) models.DashboardMetrics {
	var breakdown models.CostBreakdown
	totalRevenue := 0.0
	for _, sale := range sales {
		totalRevenue += sale.GrossRevenue
		breakdown.PlatformFees += sale.PlatformFee
		breakdown.PaymentFees += sale.PaymentFee
		breakdown.ShippingCosts += sale.ShippingCost
		breakdown.ProductCosts += sale.ProductCost
		breakdown.AdvertisingCosts += sale.AdvertisingCost
	}

	totalCosts := breakdown.PlatformFees + breakdown.PaymentFees +
		breakdown.ShippingCosts + breakdown.ProductCosts + breakdown.AdvertisingCosts
	netProfit := totalRevenue - totalCosts

	profitMargin := 0.0
	if totalRevenue > 0 {
		profitMargin = netProfit / totalRevenue * 100
	}

	metrics := models.DashboardMetrics{
		TotalRevenue:  totalRevenue,
		TotalCosts:    totalCosts,
		NetProfit:     netProfit,
		ProfitMargin:  profitMargin,
		CostBreakdown: breakdown,
		TotalOrders:   len(sales),
	}
	if len(sales) > 0 {
		metrics.AverageOrderValue = totalRevenue / float64(len(sales))
		metrics.AverageProfit = netProfit / float64(len(sales))
	}
	return metrics
}

// ChartSeries buckets sales into a sorted revenue/cost/profit time series.
// groupBy is one of "day", "week" (week starting Sunday) or "month".
func (m *metricsProcessorImpl) ChartSeries(sales []models.Sale, groupBy string) []models.ChartPoint {
	type bucket struct {
		revenue float64
		costs   float64
	}
	grouped := make(map[string]bucket)

	for _, sale := range sales {
		date, err := parseSaleDate(sale.Date)
		if err != nil {
			continue
		}

		var key string
		switch groupBy {
		case "week":
			weekStart := date.AddDate(0, 0, -int(date.Weekday()))
			key = weekStart.Format("2006-01-02")
		case "month":
			key = fmt.Sprintf("%04d-%02d", date.Year(), int(date.Month()))
		default:
			key = date.Format("2006-01-02")
		}

		entry := grouped[key]
		entry.revenue += sale.GrossRevenue
		entry.costs += sale.TotalCosts()
		grouped[key] = entry
	}

	points := make([]models.ChartPoint, 0, len(grouped))
	for key, entry := range grouped {
		points = append(points, models.ChartPoint{
			Date:    key,
			Revenue: entry.revenue,
			Costs:   entry.costs,
			Profit:  entry.revenue - entry.costs,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// saleDateLayouts covers the timestamp shapes the marketplace emits.
var saleDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseSaleDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range saleDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}
