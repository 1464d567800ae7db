package processors

import (
	"github.com/username/lucroclaro/backend/src/models"
)

type adSpendAllocatorImpl struct{}

func NewAdSpendAllocator() AdSpendAllocator {
	return &adSpendAllocatorImpl{}
}

// Allocate distributes totalAdSpend across the batch proportionally to each
// order's revenue share. Two passes: sum revenue first, then compute shares.
// Returns an empty map when the batch is empty, the spend is zero, or total
// revenue is zero, so no division by zero ever happens.
func (a *adSpendAllocatorImpl) Allocate(orders []*models.Order, totalAdSpend float64) map[int64]float64 {
	shares := make(map[int64]float64)
	if len(orders) == 0 || totalAdSpend == 0 {
		return shares
	}

	totalRevenue := 0.0
	for _, order := range orders {
		revenue, _ := toNumber(order.Total)
		totalRevenue += revenue
	}
	if totalRevenue == 0 {
		return shares
	}

	for _, order := range orders {
		revenue, _ := toNumber(order.Total)
		shares[order.ID] = totalAdSpend * (revenue / totalRevenue)
	}
	return shares
}
