package models

// Order is the validated, normalized form of a Tienda Nube order payload.
// Monetary fields keep the raw JSON value (usually a string, sometimes a
// number or a small object, sometimes absent) because the upstream API is not
// consistent about types; the processors package owns the coercion to float64.
type Order struct {
	ID            int64  `json:"id"`
	Number        int64  `json:"number"`
	Token         string `json:"token"`
	StoreID       string `json:"store_id"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
	Status        string `json:"status"`         // open | closed | cancelled
	PaymentStatus string `json:"payment_status"` // pending | authorized | paid | voided | refunded | abandoned
	Currency      string `json:"currency"`

	Total           any `json:"total"`
	Subtotal        any `json:"subtotal"`
	Discount        any `json:"discount"`
	DiscountCoupon  any `json:"discount_coupon,omitempty"`
	DiscountGateway any `json:"discount_gateway,omitempty"`

	Shipping             any    `json:"shipping"`
	ShippingOption       string `json:"shipping_option"`
	ShippingCostCustomer any    `json:"shipping_cost_customer,omitempty"`
	ShippingCostOwner    any    `json:"shipping_cost_owner,omitempty"`
	ShippingCostStore    any    `json:"shipping_cost_store,omitempty"`

	Gateway     string `json:"gateway"`
	GatewayName string `json:"gateway_name"`

	Customer Customer       `json:"customer"`
	Products []OrderProduct `json:"products"`
	Payments []Payment      `json:"payments,omitempty"`

	// Extra is the open-ended key/value bag some stores populate with
	// gateway- or app-specific data. Scanned as a commission fallback.
	Extra map[string]any `json:"extra,omitempty"`

	// Raw holds the full decoded payload so fee extraction can probe
	// non-canonical keys (tiendanube_fee, store_commission, ...) that are
	// not part of the documented schema.
	Raw map[string]any `json:"-"`
}

// Customer is the order's buyer as reported by the marketplace.
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// OrderProduct is one line item of an order.
type OrderProduct struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
	Price     any    `json:"price"`
	Cost      any    `json:"cost,omitempty"`
}

// Payment is one settlement attempt tied to an order. A single order can
// carry several of these (split payments, retried captures).
type Payment struct {
	ID            int64  `json:"id"`
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
	Gateway       string `json:"gateway"`

	GatewayFee        any `json:"gateway_fee,omitempty"`
	InstallmentsCost  any `json:"installments_cost,omitempty"`
	TransactionAmount any `json:"transaction_amount,omitempty"`
	NetAmount         any `json:"net_amount,omitempty"`

	// Raw keeps the record's full decoded map; some gateways report fees
	// under keys the schema does not name (discount_gateway, fee).
	Raw map[string]any `json:"-"`
}
