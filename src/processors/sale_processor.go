package processors

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/username/lucroclaro/backend/src/models"
)

type saleTransformerImpl struct{}

func NewSaleTransformer() SaleTransformer {
	return &saleTransformerImpl{}
}

// Transform reconciles one validated order into a Sale. Pure apart from the
// generated Sale ID: the same order and config always produce the same
// financial figures.
func (p *saleTransformerImpl) Transform(order *models.Order, cfg models.FeeConfig) models.Sale {
	grossRevenue, _ := toNumber(order.Total)

	shippingCost := extractShippingCost(order, cfg.RealShippingCost)
	productCost := extractProductCost(order.Products)

	platformFeePct := cfg.PlatformFeePct
	if platformFeePct == 0 {
		platformFeePct = DefaultPlatformFeePct
	}
	platformFee := extractPlatformFee(order, grossRevenue, platformFeePct)
	paymentFee := extractPaymentFee(order, grossRevenue, cfg.GatewayFeeOverrides)
	advertisingCost := cfg.AdvertisingCost

	totalCosts := platformFee + paymentFee + shippingCost + productCost + advertisingCost
	netRevenue := grossRevenue - totalCosts

	netMargin := 0.0
	if grossRevenue > 0 {
		netMargin = netRevenue / grossRevenue * 100
	}

	products := make([]models.SaleProduct, 0, len(order.Products))
	for _, product := range order.Products {
		products = append(products, transformProduct(product))
	}

	paymentMethod := order.GatewayName
	if paymentMethod == "" {
		paymentMethod = order.Gateway
	}

	return models.Sale{
		ID:           uuid.NewString(),
		OrderID:      order.ID,
		OrderNumber:  order.Number,
		Date:         order.CreatedAt,
		CustomerName: order.Customer.Name,

		GrossRevenue:    grossRevenue,
		PlatformFee:     platformFee,
		PaymentFee:      paymentFee,
		ShippingCost:    shippingCost,
		ProductCost:     productCost,
		AdvertisingCost: advertisingCost,
		NetRevenue:      netRevenue,
		NetMargin:       netMargin,

		PaymentMethod:  paymentMethod,
		ShippingMethod: order.ShippingOption,
		Currency:       order.Currency,
		Status:         mapSaleStatus(order.PaymentStatus, order.Status),

		Products: products,
	}
}

// TransformBatch maps Transform over a batch. Orders are independent, so a
// per-order failure mode does not exist here; validation happened upstream.
func (p *saleTransformerImpl) TransformBatch(orders []*models.Order, cfg models.FeeConfig) []models.Sale {
	sales := make([]models.Sale, 0, len(orders))
	for _, order := range orders {
		sales = append(sales, p.Transform(order, cfg))
	}
	return sales
}

// mapSaleStatus collapses the order status / payment status pair into the
// tri-state Sale status. A cancelled order wins over any payment status.
func mapSaleStatus(paymentStatus, orderStatus string) string {
	if orderStatus == "cancelled" {
		return "cancelled"
	}
	switch paymentStatus {
	case "paid", "authorized":
		return "paid"
	case "voided", "refunded":
		return "cancelled"
	default:
		return "pending"
	}
}

func transformProduct(product models.OrderProduct) models.SaleProduct {
	price, _ := toNumber(product.Price)
	cost, _ := toNumber(product.Cost)
	return models.SaleProduct{
		ID:       strconv.FormatInt(product.ProductID, 10),
		Name:     product.Name,
		SKU:      product.SKU,
		Quantity: product.Quantity,
		Price:    price,
		Cost:     cost,
		Total:    price * float64(product.Quantity),
	}
}
