package models

// Sale is the canonical, reconciled view of an order: gross revenue broken
// down into the five cost categories plus the derived net figures. It is
// produced once by the sale transformer and never mutated afterwards;
// re-syncing an order produces a fresh Sale that replaces the stored row.
type Sale struct {
	ID          string `json:"id"` // generated, the only non-deterministic field
	OrderID     int64  `json:"order_id"`
	OrderNumber int64  `json:"orderNumber"`
	Date        string `json:"date"`

	CustomerName string `json:"customerName"`

	GrossRevenue    float64 `json:"grossRevenue"`
	PlatformFee     float64 `json:"platformFee"`
	PaymentFee      float64 `json:"paymentFee"`
	ShippingCost    float64 `json:"shippingCost"`
	ProductCost     float64 `json:"productCost"`
	AdvertisingCost float64 `json:"advertisingCost"`
	NetRevenue      float64 `json:"netRevenue"`
	NetMargin       float64 `json:"netMargin"` // percentage of gross revenue

	PaymentMethod  string `json:"paymentMethod"`
	ShippingMethod string `json:"shippingMethod"`
	Currency       string `json:"currency"`
	Status         string `json:"status"` // paid | pending | cancelled

	Products []SaleProduct `json:"products"`
}

// SaleProduct is a normalized order line: price and cost coerced to numbers,
// line total precomputed.
type SaleProduct struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	SKU      string  `json:"sku"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Cost     float64 `json:"cost"`
	Total    float64 `json:"total"`
}

// TotalCosts returns the sum of the five cost categories.
func (s Sale) TotalCosts() float64 {
	return s.PlatformFee + s.PaymentFee + s.ShippingCost + s.ProductCost + s.AdvertisingCost
}
