package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/username/lucroclaro/backend/src/models"
)

func TestBreakdownProcess(t *testing.T) {
	processor := NewBreakdownProcessor()

	t.Run("full order", func(t *testing.T) {
		order := &models.Order{
			Total:                "1000.00",
			Subtotal:             "900,00",
			Discount:             "50",
			DiscountCoupon:       "30",
			DiscountGateway:      "20",
			ShippingCostCustomer: "150",
			ShippingCostOwner:    "120",
			Gateway:              "mercadopago",
			Products: []models.OrderProduct{
				{Cost: "100", Quantity: 3},
			},
			Payments: []models.Payment{
				{
					ID:                9,
					Status:            "paid",
					Gateway:           "mercadopago",
					PaymentMethod:     "credit_card",
					GatewayFee:        "49,90",
					InstallmentsCost:  "10",
					TransactionAmount: "1000",
					NetAmount:         "940.10",
					Raw:               map[string]any{},
				},
			},
			Raw: map[string]any{},
		}

		b := processor.Process(order, models.FeeConfig{})

		assert.InDelta(t, 1000.0, b.GrossRevenue, 1e-9)
		assert.InDelta(t, 900.0, b.Subtotal, 1e-9)
		assert.InDelta(t, 150.0, b.Shipping.Customer, 1e-9)
		assert.InDelta(t, 120.0, b.Shipping.Owner, 1e-9)
		assert.InDelta(t, 30.0, b.Shipping.Delta, 1e-9)
		assert.InDelta(t, 50.0, b.Discounts.Total, 1e-9)
		assert.InDelta(t, 30.0, b.Discounts.Coupon, 1e-9)
		assert.InDelta(t, 20.0, b.Discounts.Gateway, 1e-9)
		assert.InDelta(t, 53.10, b.PlatformFee, 1e-9) // default 5.31% of gross
		assert.InDelta(t, 59.90, b.PaymentFee, 1e-9)  // 49.90 + 10 itemized
		assert.InDelta(t, 300.0, b.ProductCost, 1e-9)

		assert.Len(t, b.Payments, 1)
		detail := b.Payments[0]
		assert.Equal(t, int64(9), detail.ID)
		assert.Equal(t, "credit_card", detail.Method)
		assert.InDelta(t, 49.90, detail.GatewayFee, 1e-9)
		assert.InDelta(t, 10.0, detail.InstallmentsCost, 1e-9)
		assert.InDelta(t, 940.10, detail.NetAmount, 1e-9)
	})

	t.Run("owner shipping falls back to customer charge", func(t *testing.T) {
		order := &models.Order{
			Total:                "500",
			ShippingCostCustomer: "80",
			Raw:                  map[string]any{},
		}
		b := processor.Process(order, models.FeeConfig{})
		assert.InDelta(t, 80.0, b.Shipping.Customer, 1e-9)
		assert.InDelta(t, 80.0, b.Shipping.Owner, 1e-9)
		assert.InDelta(t, 0.0, b.Shipping.Delta, 1e-9)
	})

	t.Run("minimal order", func(t *testing.T) {
		order := &models.Order{Total: "0", Gateway: "efectivo", Raw: map[string]any{}}
		b := processor.Process(order, models.FeeConfig{})
		assert.InDelta(t, 0.0, b.GrossRevenue, 1e-9)
		assert.InDelta(t, 0.0, b.PaymentFee, 1e-9)
		assert.Empty(t, b.Payments)
	})
}
