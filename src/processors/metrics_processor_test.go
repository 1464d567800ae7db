package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/username/lucroclaro/backend/src/models"
)

func TestCalculate(t *testing.T) {
	processor := NewMetricsProcessor()

	t.Run("totals and averages", func(t *testing.T) {
		sales := []models.Sale{
			{GrossRevenue: 1000, PlatformFee: 53.10, PaymentFee: 49.90, ShippingCost: 100, ProductCost: 400, AdvertisingCost: 25},
			{GrossRevenue: 500, PlatformFee: 26.55, PaymentFee: 24.95, ShippingCost: 0, ProductCost: 150, AdvertisingCost: 12.5},
		}
		metrics := processor.Calculate(sales)

		assert.InDelta(t, 1500.0, metrics.TotalRevenue, 1e-9)
		assert.InDelta(t, 842.0, metrics.TotalCosts, 1e-9)
		assert.InDelta(t, 658.0, metrics.NetProfit, 1e-9)
		assert.InDelta(t, 658.0/1500.0*100, metrics.ProfitMargin, 1e-9)
		assert.Equal(t, 2, metrics.TotalOrders)
		assert.InDelta(t, 750.0, metrics.AverageOrderValue, 1e-9)
		assert.InDelta(t, 329.0, metrics.AverageProfit, 1e-9)

		assert.InDelta(t, 79.65, metrics.CostBreakdown.PlatformFees, 1e-9)
		assert.InDelta(t, 74.85, metrics.CostBreakdown.PaymentFees, 1e-9)
		assert.InDelta(t, 100.0, metrics.CostBreakdown.ShippingCosts, 1e-9)
		assert.InDelta(t, 550.0, metrics.CostBreakdown.ProductCosts, 1e-9)
		assert.InDelta(t, 37.5, metrics.CostBreakdown.AdvertisingCosts, 1e-9)
	})

	t.Run("empty input", func(t *testing.T) {
		metrics := processor.Calculate(nil)
		assert.Equal(t, 0, metrics.TotalOrders)
		assert.InDelta(t, 0.0, metrics.ProfitMargin, 1e-9)
		assert.InDelta(t, 0.0, metrics.AverageOrderValue, 1e-9)
	})

	t.Run("zero revenue keeps margin at zero", func(t *testing.T) {
		metrics := processor.Calculate([]models.Sale{{GrossRevenue: 0, ProductCost: 100}})
		assert.InDelta(t, 0.0, metrics.ProfitMargin, 1e-9)
		assert.InDelta(t, -100.0, metrics.NetProfit, 1e-9)
	})
}

func TestChartSeries(t *testing.T) {
	processor := NewMetricsProcessor()

	sales := []models.Sale{
		{Date: "2024-03-15T10:30:00+0000", GrossRevenue: 100, ProductCost: 40},
		{Date: "2024-03-15T18:00:00+0000", GrossRevenue: 50, ProductCost: 10},
		{Date: "2024-03-16T09:00:00+0000", GrossRevenue: 200, ProductCost: 80},
		{Date: "2024-04-01", GrossRevenue: 300, ProductCost: 100},
	}

	t.Run("daily buckets sorted", func(t *testing.T) {
		points := processor.ChartSeries(sales, "day")
		assert.Len(t, points, 3)
		assert.Equal(t, "2024-03-15", points[0].Date)
		assert.InDelta(t, 150.0, points[0].Revenue, 1e-9)
		assert.InDelta(t, 50.0, points[0].Costs, 1e-9)
		assert.InDelta(t, 100.0, points[0].Profit, 1e-9)
		assert.Equal(t, "2024-03-16", points[1].Date)
		assert.Equal(t, "2024-04-01", points[2].Date)
	})

	t.Run("weekly buckets start on Sunday", func(t *testing.T) {
		points := processor.ChartSeries(sales, "week")
		// 2024-03-15 is a Friday, 2024-03-16 a Saturday; both land in the
		// week starting Sunday 2024-03-10. 2024-04-01 is a Monday, week of
		// 2024-03-31.
		assert.Len(t, points, 2)
		assert.Equal(t, "2024-03-10", points[0].Date)
		assert.InDelta(t, 350.0, points[0].Revenue, 1e-9)
		assert.Equal(t, "2024-03-31", points[1].Date)
	})

	t.Run("monthly buckets", func(t *testing.T) {
		points := processor.ChartSeries(sales, "month")
		assert.Len(t, points, 2)
		assert.Equal(t, "2024-03", points[0].Date)
		assert.InDelta(t, 350.0, points[0].Revenue, 1e-9)
		assert.Equal(t, "2024-04", points[1].Date)
		assert.InDelta(t, 300.0, points[1].Revenue, 1e-9)
	})

	t.Run("unparseable dates skipped", func(t *testing.T) {
		points := processor.ChartSeries([]models.Sale{{Date: "soon", GrossRevenue: 10}}, "day")
		assert.Empty(t, points)
	})
}

func TestParseSaleDate(t *testing.T) {
	for _, value := range []string{
		"2024-03-15T10:30:00+00:00",
		"2024-03-15T10:30:00-0300",
		"2024-03-15 10:30:00",
		"2024-03-15",
	} {
		parsed, err := parseSaleDate(value)
		assert.NoError(t, err, value)
		assert.Equal(t, 15, parsed.Day())
	}

	_, err := parseSaleDate("15/03/2024")
	assert.Error(t, err)
}
