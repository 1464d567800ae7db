package models

// FeeConfig carries the user-configured knobs the sale transformer needs for
// a single order. Percentages are fractions of gross revenue expressed 0-100.
type FeeConfig struct {
	// PlatformFeePct overrides the built-in Tienda Nube commission
	// percentage. Zero means "use the default".
	PlatformFeePct float64

	// GatewayFeeOverrides maps gateway name -> fee percentage, overriding
	// the built-in table. Keys are matched after normalization.
	GatewayFeeOverrides map[string]float64

	// AdvertisingCost is this order's share of the aggregate ad spend.
	AdvertisingCost float64

	// RealShippingCost, when set, is the carrier cost fetched from the
	// fulfillment sub-resource and wins over every shipping field on the
	// order itself.
	RealShippingCost *float64
}

// Settings is the persisted store-level configuration behind FeeConfig.
type Settings struct {
	PlatformFeePct      float64            `json:"platformFeePct"`
	GatewayFeeOverrides map[string]float64 `json:"gatewayFeeOverrides"`
	DefaultAdSpend      float64            `json:"defaultAdSpend"` // aggregate, allocated per sync batch
	SyncEnabled         bool               `json:"syncEnabled"`
}
