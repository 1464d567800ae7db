package processors

import (
	"github.com/username/lucroclaro/backend/src/models"
)

type breakdownProcessorImpl struct{}

func NewBreakdownProcessor() BreakdownProcessor {
	return &breakdownProcessorImpl{}
}

// Process derives the diagnostic breakdown of an order: subtotal, both
// shipping legs, discount components and per-payment fee detail. Same fee
// resolution as the sale transformer, finer granularity, nothing persisted.
func (b *breakdownProcessorImpl) Process(order *models.Order, cfg models.FeeConfig) models.FinancialBreakdown {
	grossRevenue, _ := toNumber(order.Total)
	subtotal, _ := toNumber(order.Subtotal)
	discountTotal, _ := toNumber(order.Discount)
	discountCoupon, _ := toNumber(order.DiscountCoupon)
	discountGateway, _ := toNumber(order.DiscountGateway)

	shippingCustomer, _ := toNumber(order.ShippingCostCustomer)
	shippingOwner, okOwner := toNumber(order.ShippingCostOwner)
	if !okOwner {
		// Without an owner figure the customer charge is the best estimate
		// of what the store paid.
		shippingOwner = shippingCustomer
	}

	platformFeePct := cfg.PlatformFeePct
	if platformFeePct == 0 {
		platformFeePct = DefaultPlatformFeePct
	}

	details := make([]models.PaymentFeeDetail, 0, len(order.Payments))
	for _, payment := range order.Payments {
		gatewayFee, _ := toNumber(payment.GatewayFee)
		installmentsCost, _ := toNumber(payment.InstallmentsCost)
		transactionAmount, _ := toNumber(payment.TransactionAmount)
		netAmount, _ := toNumber(payment.NetAmount)
		details = append(details, models.PaymentFeeDetail{
			ID:                payment.ID,
			Status:            payment.Status,
			Gateway:           payment.Gateway,
			Method:            payment.PaymentMethod,
			GatewayFee:        gatewayFee,
			InstallmentsCost:  installmentsCost,
			TransactionAmount: transactionAmount,
			NetAmount:         netAmount,
		})
	}

	return models.FinancialBreakdown{
		GrossRevenue: grossRevenue,
		Subtotal:     subtotal,
		Shipping: models.ShippingBreakdown{
			Customer: shippingCustomer,
			Owner:    shippingOwner,
			Delta:    shippingCustomer - shippingOwner,
		},
		Discounts: models.DiscountBreakdown{
			Total:   discountTotal,
			Coupon:  discountCoupon,
			Gateway: discountGateway,
		},
		PlatformFee: extractPlatformFee(order, grossRevenue, platformFeePct),
		PaymentFee:  extractPaymentFee(order, grossRevenue, cfg.GatewayFeeOverrides),
		ProductCost: extractProductCost(order.Products),
		Payments:    details,
	}
}
