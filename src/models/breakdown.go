package models

// FinancialBreakdown is the diagnostic view of an order's money flow, with
// finer granularity than the Sale record. Reconciliation tooling uses it to
// audit how each fee was resolved; nothing persists it.
type FinancialBreakdown struct {
	GrossRevenue float64            `json:"grossRevenue"`
	Subtotal     float64            `json:"subtotal"`
	Shipping     ShippingBreakdown  `json:"shipping"`
	Discounts    DiscountBreakdown  `json:"discounts"`
	PlatformFee  float64            `json:"platformFee"`
	PaymentFee   float64            `json:"paymentFee"`
	ProductCost  float64            `json:"productCost"`
	Payments     []PaymentFeeDetail `json:"payments,omitempty"`
}

// ShippingBreakdown separates what the customer was charged from what the
// store actually paid the carrier.
type ShippingBreakdown struct {
	Customer float64 `json:"customer"`
	Owner    float64 `json:"owner"`
	Delta    float64 `json:"delta"` // customer - owner
}

type DiscountBreakdown struct {
	Total   float64 `json:"total"`
	Coupon  float64 `json:"coupon"`
	Gateway float64 `json:"gateway"`
}

// PaymentFeeDetail is the per-settlement fee detail of one payment record.
type PaymentFeeDetail struct {
	ID                int64   `json:"id"`
	Status            string  `json:"status"`
	Gateway           string  `json:"gateway"`
	Method            string  `json:"method"`
	GatewayFee        float64 `json:"gatewayFee"`
	InstallmentsCost  float64 `json:"installmentsCost"`
	TransactionAmount float64 `json:"transactionAmount"`
	NetAmount         float64 `json:"netAmount"`
}
