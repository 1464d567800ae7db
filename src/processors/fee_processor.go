package processors

import (
	"regexp"
	"strings"

	"github.com/username/lucroclaro/backend/src/logger"
	"github.com/username/lucroclaro/backend/src/models"
)

// DefaultPlatformFeePct is the Tienda Nube commission applied when the order
// carries no explicit commission field and the store configured no override.
// 5.31% observed on real settlement data.
const DefaultPlatformFeePct = 5.31

// defaultGatewayFeePct is used when the gateway is entirely unrecognized.
const defaultGatewayFeePct = 3.5

type gatewayFee struct {
	name string // stored pre-normalized
	pct  float64
}

// defaultGatewayFees maps known payment gateways to their fee percentage.
// Matched by normalized substring, first hit wins, so ordering matters.
// Pago Nube's figure includes installment financing (cuotas sin interés),
// which is why it is so much higher than the card processors.
var defaultGatewayFees = []gatewayFee{
	{"mercadopago", 4.99},
	{"mercadopagotransparent", 4.99},
	{"mobbex", 3.99},
	{"payway", 3.5},
	{"todopago", 4.5},
	{"payu", 3.99},
	{"decidir", 3.5},
	{"pagonube", 11.18},
	{"transferencia", 0},
	{"efectivo", 0},
	{"banktransfer", 0},
	{"cash", 0},
	{"manual", 0},
}

// platformFeeDirectKeys are the non-canonical payload keys stores and apps
// use to report the marketplace commission, tried in priority order.
var platformFeeDirectKeys = []string{
	"tiendanube_fee",
	"tiendanube_commission",
	"store_commission",
	"platform_fee",
}

// commissionPattern matches commission-like keys in the extra bag. Spanish
// and Portuguese spellings both appear depending on the store's market.
var commissionPattern = regexp.MustCompile(`(?i)(commission|comision|tienda)`)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]`)

func normalizeGatewayName(name string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(name), "")
}

// extractPlatformFee resolves the marketplace commission: direct keys on the
// raw payload first, then a commission-like key anywhere in the extra bag,
// finally the percentage fallback. The fallback is computed against gross
// revenue, not subtotal.
func extractPlatformFee(order *models.Order, grossRevenue, fallbackPct float64) float64 {
	for _, key := range platformFeeDirectKeys {
		if raw, ok := order.Raw[key]; ok {
			if n, ok := toNumber(raw); ok {
				return n
			}
		}
	}

	if n, ok := findNumericByPattern(order.Extra, commissionPattern, 0, maxSearchDepth); ok {
		return n
	}

	return grossRevenue * fallbackPct / 100
}

// sumPaymentFees totals the gateway fees itemized on the order's payment
// records. For each record every explicit fee field present is summed
// (gateway_fee, installments_cost, discount_gateway, fee); only when none is
// present does the implicit transaction_amount - net_amount delta count.
// Returns false when no record carried usable data, signalling the caller to
// fall back to the percentage estimate.
func sumPaymentFees(payments []models.Payment) (float64, bool) {
	if len(payments) == 0 {
		return 0, false
	}

	total := 0.0
	hasDetailedData := false

	for _, payment := range payments {
		paymentTotal := 0.0
		hasExplicitFees := false

		if n, ok := toNumber(payment.GatewayFee); ok {
			paymentTotal += n
			hasExplicitFees = true
		}
		if n, ok := toNumber(payment.InstallmentsCost); ok {
			paymentTotal += n
			hasExplicitFees = true
		}
		if n, ok := toNumber(payment.Raw["discount_gateway"]); ok {
			paymentTotal += n
			hasExplicitFees = true
		}
		if n, ok := toNumber(payment.Raw["fee"]); ok {
			paymentTotal += n
			hasExplicitFees = true
		}

		if !hasExplicitFees {
			transactionAmount, okTx := toNumber(payment.TransactionAmount)
			netAmount, okNet := toNumber(payment.NetAmount)
			if okTx && okNet && transactionAmount > netAmount {
				paymentTotal += transactionAmount - netAmount
				hasExplicitFees = true
			}
		}

		if hasExplicitFees {
			hasDetailedData = true
		}
		total += paymentTotal
	}

	if hasDetailedData || total > 0 {
		return total, true
	}
	return 0, false
}

// gatewayFeePct returns the fee percentage for a gateway: user override
// first, then the built-in table by normalized substring match, then the
// generic default.
func gatewayFeePct(gateway string, overrides map[string]float64) float64 {
	normalized := normalizeGatewayName(gateway)

	for key, pct := range overrides {
		if normalizeGatewayName(key) == normalized {
			return pct
		}
	}

	for _, entry := range defaultGatewayFees {
		if strings.Contains(normalized, entry.name) {
			return entry.pct
		}
	}

	if logger.L != nil {
		logger.L.Warn("Unknown payment gateway, using default fee", "gateway", gateway, "defaultPct", defaultGatewayFeePct)
	}
	return defaultGatewayFeePct
}

// extractPaymentFee resolves the gateway fee for a whole order: itemized
// payment records when usable, percentage of gross revenue otherwise.
func extractPaymentFee(order *models.Order, grossRevenue float64, overrides map[string]float64) float64 {
	if fee, ok := sumPaymentFees(order.Payments); ok {
		return fee
	}
	return grossRevenue * gatewayFeePct(order.Gateway, overrides) / 100
}

// extractShippingCost picks the single shipping figure to charge against the
// sale: externally sourced real cost > owner cost > store cost > generic
// shipping field > 0. Candidates are never summed.
func extractShippingCost(order *models.Order, realShippingCost *float64) float64 {
	if realShippingCost != nil {
		return *realShippingCost
	}
	for _, candidate := range []any{order.ShippingCostOwner, order.ShippingCostStore, order.Shipping} {
		if n, ok := toNumber(candidate); ok {
			return n
		}
	}
	return 0
}

// extractProductCost sums unit cost times quantity over the order lines.
// Missing cost data counts as zero; that understates the true margin, a
// known data-quality limitation of the upstream catalog.
func extractProductCost(products []models.OrderProduct) float64 {
	total := 0.0
	for _, product := range products {
		cost, _ := toNumber(product.Cost)
		total += cost * float64(product.Quantity)
	}
	return total
}
