package models

// DashboardMetrics aggregates a set of sales for the dashboard.
type DashboardMetrics struct {
	TotalRevenue      float64       `json:"totalRevenue"`
	TotalCosts        float64       `json:"totalCosts"`
	NetProfit         float64       `json:"netProfit"`
	ProfitMargin      float64       `json:"profitMargin"`
	CostBreakdown     CostBreakdown `json:"costBreakdown"`
	TotalOrders       int           `json:"totalOrders"`
	AverageOrderValue float64       `json:"averageOrderValue"`
	AverageProfit     float64       `json:"averageProfit"`
}

// CostBreakdown sums each cost category across a set of sales.
type CostBreakdown struct {
	PlatformFees     float64 `json:"platformFees"`
	PaymentFees      float64 `json:"paymentFees"`
	ShippingCosts    float64 `json:"shippingCosts"`
	ProductCosts     float64 `json:"productCosts"`
	AdvertisingCosts float64 `json:"advertisingCosts"`
}

// ChartPoint is one bucket of the revenue/cost/profit time series.
type ChartPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Costs   float64 `json:"costs"`
	Profit  float64 `json:"profit"`
}
