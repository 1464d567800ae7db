package services

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"github.com/username/lucroclaro/backend/src/database"
	"github.com/username/lucroclaro/backend/src/logger"
	"github.com/username/lucroclaro/backend/src/models"
	"github.com/username/lucroclaro/backend/src/processors"
	"github.com/username/lucroclaro/backend/src/tiendanube"
	"github.com/username/lucroclaro/backend/src/validation"
)

const (
	ckDashboardMetrics = "res_dashboard_metrics_%s_%s"
	ckChartData        = "res_chart_data_%s_%s_%s"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SyncOptions tunes how the pipeline talks to the marketplace.
type SyncOptions struct {
	PageSize int
	MaxPages int
	// FetchFulfillments enables the per-order fulfillment lookup for real
	// shipping costs. One extra API call per order, so off by default.
	FetchFulfillments bool
}

type syncServiceImpl struct {
	client          *tiendanube.Client
	transformer     processors.SaleTransformer
	allocator       processors.AdSpendAllocator
	metricsProc     processors.MetricsProcessor
	settingsService SettingsService
	emailService    EmailService
	reportCache     *cache.Cache
	opts            SyncOptions
}

func NewSyncService(
	client *tiendanube.Client,
	transformer processors.SaleTransformer,
	allocator processors.AdSpendAllocator,
	metricsProc processors.MetricsProcessor,
	settingsService SettingsService,
	emailService EmailService,
	reportCache *cache.Cache,
	opts SyncOptions,
) SyncService {
	if opts.PageSize <= 0 {
		opts.PageSize = 200
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 100
	}
	return &syncServiceImpl{
		client:          client,
		transformer:     transformer,
		allocator:       allocator,
		metricsProc:     metricsProc,
		settingsService: settingsService,
		emailService:    emailService,
		reportCache:     reportCache,
		opts:            opts,
	}
}

// SyncOrders runs the full reconciliation pipeline: fetch every order from
// the marketplace, validate and normalize each one, allocate the configured
// ad spend across the batch, transform to Sales and upsert them. A malformed
// order is counted and reported, never fatal.
func (s *syncServiceImpl) SyncOrders(ctx context.Context) (*SyncResult, error) {
	overallStartTime := time.Now()
	logger.L.Info("SyncOrders START")

	settings, err := s.settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings for sync: %w", err)
	}

	rawOrders, err := s.client.FetchAllOrders(ctx, s.opts.PageSize, s.opts.MaxPages)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}

	result := &SyncResult{Fetched: len(rawOrders)}

	// Validation pass first: the ad-spend allocator needs the whole batch's
	// revenue before any single order can be transformed.
	orders := make([]*models.Order, 0, len(rawOrders))
	for _, raw := range rawOrders {
		parsed := validation.SafeParseOrder(raw)
		if !parsed.Success {
			result.Failed++
			result.Errors = append(result.Errors, OrderError{Reason: (&validation.ValidationError{Errors: parsed.Errors}).Error()})
			logger.L.Warn("Skipping order that failed validation", "errors", parsed.Errors)
			continue
		}
		orders = append(orders, parsed.Order)
	}

	adShares := s.allocator.Allocate(orders, settings.DefaultAdSpend)

	for _, order := range orders {
		cfg := models.FeeConfig{
			PlatformFeePct:      settings.PlatformFeePct,
			GatewayFeeOverrides: settings.GatewayFeeOverrides,
			AdvertisingCost:     adShares[order.ID],
		}

		if s.opts.FetchFulfillments {
			realCost, err := s.client.FetchShippingCost(ctx, order.ID)
			if err != nil {
				logger.L.Warn("Could not fetch fulfillment shipping cost, falling back to order fields",
					"orderID", order.ID, "error", err)
			} else if realCost != nil {
				cfg.RealShippingCost = realCost
			}
		}

		sale := s.transformer.Transform(order, cfg)
		if err := s.upsertSale(sale); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, OrderError{OrderID: order.ID, Reason: err.Error()})
			logger.L.Error("Failed to persist sale", "orderID", order.ID, "error", err)
			continue
		}
		result.Synced++
	}

	s.InvalidateCache()

	result.Duration = time.Since(overallStartTime).String()
	logger.L.Info("SyncOrders END",
		"fetched", result.Fetched, "synced", result.Synced, "failed", result.Failed, "duration", result.Duration)

	if s.emailService != nil {
		if err := s.emailService.SendSyncReport(result); err != nil {
			logger.L.Warn("Failed to send sync report email", "error", err)
		}
	}

	return result, nil
}

// upsertSale inserts the reconciled sale, replacing any earlier record of
// the same order. Re-syncing therefore converges on the latest computation.
func (s *syncServiceImpl) upsertSale(sale models.Sale) error {
	productsJSON, err := json.Marshal(sale.Products)
	if err != nil {
		return fmt.Errorf("error encoding products for order %d: %w", sale.OrderID, err)
	}

	_, err = database.DB.Exec(`
		INSERT INTO sales (id, order_id, order_number, date, customer_name,
			gross_revenue, platform_fee, payment_fee, shipping_cost, product_cost,
			advertising_cost, net_revenue, net_margin, payment_method, shipping_method,
			currency, status, products, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(order_id) DO UPDATE SET
			order_number = excluded.order_number,
			date = excluded.date,
			customer_name = excluded.customer_name,
			gross_revenue = excluded.gross_revenue,
			platform_fee = excluded.platform_fee,
			payment_fee = excluded.payment_fee,
			shipping_cost = excluded.shipping_cost,
			product_cost = excluded.product_cost,
			advertising_cost = excluded.advertising_cost,
			net_revenue = excluded.net_revenue,
			net_margin = excluded.net_margin,
			payment_method = excluded.payment_method,
			shipping_method = excluded.shipping_method,
			currency = excluded.currency,
			status = excluded.status,
			products = excluded.products,
			synced_at = CURRENT_TIMESTAMP`,
		sale.ID, sale.OrderID, sale.OrderNumber, sale.Date, sale.CustomerName,
		sale.GrossRevenue, sale.PlatformFee, sale.PaymentFee, sale.ShippingCost, sale.ProductCost,
		sale.AdvertisingCost, sale.NetRevenue, sale.NetMargin, sale.PaymentMethod, sale.ShippingMethod,
		sale.Currency, sale.Status, string(productsJSON))
	if err != nil {
		return fmt.Errorf("error inserting sale (order %d): %w", sale.OrderID, err)
	}
	return nil
}

// GetSales returns persisted sales, optionally bounded by ISO date strings.
func (s *syncServiceImpl) GetSales(startDate, endDate string) ([]models.Sale, error) {
	query := `SELECT id, order_id, order_number, date, customer_name,
		gross_revenue, platform_fee, payment_fee, shipping_cost, product_cost,
		advertising_cost, net_revenue, net_margin, payment_method, shipping_method,
		currency, status, products FROM sales`
	var args []any
	switch {
	case startDate != "" && endDate != "":
		query += ` WHERE date >= ? AND date <= ?`
		args = append(args, startDate, endDate)
	case startDate != "":
		query += ` WHERE date >= ?`
		args = append(args, startDate)
	case endDate != "":
		query += ` WHERE date <= ?`
		args = append(args, endDate)
	}
	query += ` ORDER BY date DESC, order_number DESC`

	rows, err := database.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying sales: %w", err)
	}
	defer rows.Close()

	var sales []models.Sale
	for rows.Next() {
		var sale models.Sale
		var productsJSON string
		scanErr := rows.Scan(&sale.ID, &sale.OrderID, &sale.OrderNumber, &sale.Date, &sale.CustomerName,
			&sale.GrossRevenue, &sale.PlatformFee, &sale.PaymentFee, &sale.ShippingCost, &sale.ProductCost,
			&sale.AdvertisingCost, &sale.NetRevenue, &sale.NetMargin, &sale.PaymentMethod, &sale.ShippingMethod,
			&sale.Currency, &sale.Status, &productsJSON)
		if scanErr != nil {
			return nil, fmt.Errorf("error scanning sale row: %w", scanErr)
		}
		if productsJSON != "" {
			if err := json.Unmarshal([]byte(productsJSON), &sale.Products); err != nil {
				logger.L.Warn("Stored sale products are not valid JSON", "saleID", sale.ID, "error", err)
			}
		}
		sales = append(sales, sale)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over sale rows: %w", err)
	}
	return sales, nil
}

func (s *syncServiceImpl) GetDashboardMetrics(startDate, endDate string) (models.DashboardMetrics, error) {
	cacheKey := fmt.Sprintf(ckDashboardMetrics, startDate, endDate)
	if cached, found := s.reportCache.Get(cacheKey); found {
		logger.L.Debug("Cache hit for dashboard metrics", "start", startDate, "end", endDate)
		return cached.(models.DashboardMetrics), nil
	}

	sales, err := s.GetSales(startDate, endDate)
	if err != nil {
		return models.DashboardMetrics{}, err
	}
	metrics := s.metricsProc.Calculate(sales)
	s.reportCache.Set(cacheKey, metrics, DefaultCacheExpiration)
	return metrics, nil
}

func (s *syncServiceImpl) GetChartData(startDate, endDate, groupBy string) ([]models.ChartPoint, error) {
	cacheKey := fmt.Sprintf(ckChartData, startDate, endDate, groupBy)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.([]models.ChartPoint), nil
	}

	sales, err := s.GetSales(startDate, endDate)
	if err != nil {
		return nil, err
	}
	points := s.metricsProc.ChartSeries(sales, groupBy)
	s.reportCache.Set(cacheKey, points, DefaultCacheExpiration)
	return points, nil
}

// InvalidateCache drops every cached report; the next request recomputes
// from the database.
func (s *syncServiceImpl) InvalidateCache() {
	s.reportCache.Flush()
	logger.L.Info("Invalidated report caches")
}
