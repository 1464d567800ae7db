package validation

import (
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/username/lucroclaro/backend/src/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var allowedStatuses = map[string]bool{
	"open": true, "closed": true, "cancelled": true,
}

var allowedPaymentStatuses = map[string]bool{
	"pending": true, "authorized": true, "paid": true,
	"voided": true, "refunded": true, "abandoned": true,
}

// FieldError describes one validation failure on the raw payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates the field errors of a rejected order.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "order validation failed: " + strings.Join(parts, "; ")
}

// Result is the non-throwing validation outcome. Batch callers use this form
// so one malformed order never aborts the rest of the batch.
type Result struct {
	Success bool
	Order   *models.Order
	Errors  []FieldError
}

// ValidateOrder parses and normalizes a raw order payload, returning an
// error when the required shape is missing. Use SafeParseOrder in batch
// pipelines.
func ValidateOrder(data []byte) (*models.Order, error) {
	result := SafeParseOrder(data)
	if !result.Success {
		return nil, &ValidationError{Errors: result.Errors}
	}
	return result.Order, nil
}

// SafeParseOrder validates the required shape of a raw order (numeric id and
// order number, customer with a name, gateway, products as an array) and
// normalizes everything else defensively: unknown enum values fall back to
// their defaults, missing financial strings default to "0", and missing
// token/gateway_name/currency receive sensible values. The pass is total:
// any payload that clears the shape checks produces a fully populated Order.
func SafeParseOrder(data []byte) Result {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Result{Errors: []FieldError{{Field: "(root)", Message: "payload is not a JSON object: " + err.Error()}}}
	}

	var errs []FieldError

	id, ok := asInt64(raw["id"])
	if !ok {
		errs = append(errs, FieldError{Field: "id", Message: "required numeric field missing or invalid"})
	}
	number, ok := asInt64(raw["number"])
	if !ok {
		errs = append(errs, FieldError{Field: "number", Message: "required numeric field missing or invalid"})
	}

	gateway, ok := asString(raw["gateway"])
	if !ok {
		errs = append(errs, FieldError{Field: "gateway", Message: "required string field missing"})
	}

	createdAt, ok := asString(raw["created_at"])
	if !ok {
		errs = append(errs, FieldError{Field: "created_at", Message: "required string field missing"})
	}

	customer, customerErrs := parseCustomer(raw["customer"])
	errs = append(errs, customerErrs...)

	products, productErrs := parseProducts(raw["products"])
	errs = append(errs, productErrs...)

	if len(errs) > 0 {
		return Result{Errors: errs}
	}

	order := &models.Order{
		ID:        id,
		Number:    number,
		Token:     stringOr(raw["token"], ""),
		StoreID:   normalizeStoreID(raw["store_id"]),
		CreatedAt: createdAt,
		UpdatedAt: stringOr(raw["updated_at"], createdAt),

		Status:        normalizeEnum(raw["status"], allowedStatuses, "open"),
		PaymentStatus: normalizeEnum(raw["payment_status"], allowedPaymentStatuses, "pending"),
		Currency:      stringOr(raw["currency"], "ARS"),

		Total:           valueOr(raw["total"], "0"),
		Subtotal:        valueOr(raw["subtotal"], valueOr(raw["total"], "0")),
		Discount:        valueOr(raw["discount"], "0"),
		DiscountCoupon:  raw["discount_coupon"],
		DiscountGateway: raw["discount_gateway"],

		Shipping:             valueOr(raw["shipping"], "0"),
		ShippingOption:       stringOr(raw["shipping_option"], ""),
		ShippingCostCustomer: raw["shipping_cost_customer"],
		ShippingCostOwner:    raw["shipping_cost_owner"],
		ShippingCostStore:    raw["shipping_cost_store"],

		Gateway:     gateway,
		GatewayName: stringOr(raw["gateway_name"], gateway),

		Customer: customer,
		Products: products,
		Payments: parsePayments(raw["payments"]),

		Raw: raw,
	}

	if extra, ok := raw["extra"].(map[string]any); ok {
		order.Extra = extra
	}

	return Result{Success: true, Order: order}
}

func parseCustomer(value any) (models.Customer, []FieldError) {
	obj, ok := value.(map[string]any)
	if !ok {
		return models.Customer{}, []FieldError{{Field: "customer", Message: "required object missing"}}
	}
	name, ok := asString(obj["name"])
	if !ok || name == "" {
		return models.Customer{}, []FieldError{{Field: "customer.name", Message: "required string field missing"}}
	}
	id, _ := asInt64(obj["id"])
	email, _ := asString(obj["email"])
	return models.Customer{ID: id, Name: name, Email: email}, nil
}

func parseProducts(value any) ([]models.OrderProduct, []FieldError) {
	if value == nil {
		// Absent is tolerated; downstream cost extraction treats it as an
		// order with no cost data.
		return []models.OrderProduct{}, nil
	}
	list, ok := value.([]any)
	if !ok {
		return nil, []FieldError{{Field: "products", Message: "must be an array"}}
	}

	products := make([]models.OrderProduct, 0, len(list))
	for i, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, []FieldError{{Field: fmt.Sprintf("products[%d]", i), Message: "must be an object"}}
		}
		id, _ := asInt64(obj["id"])
		productID, _ := asInt64(obj["product_id"])
		name, _ := asString(obj["name"])
		sku, _ := asString(obj["sku"])
		quantity, ok := asInt64(obj["quantity"])
		if !ok {
			return nil, []FieldError{{Field: fmt.Sprintf("products[%d].quantity", i), Message: "required numeric field missing or invalid"}}
		}
		products = append(products, models.OrderProduct{
			ID:        id,
			ProductID: productID,
			Name:      name,
			SKU:       sku,
			Quantity:  int(quantity),
			Price:     obj["price"],
			Cost:      obj["cost"],
		})
	}
	return products, nil
}

// parsePayments extracts payment records leniently. Only fee-bearing fields
// matter for the financial computation, so a structurally odd record is
// skipped rather than failing the whole order.
func parsePayments(value any) []models.Payment {
	list, ok := value.([]any)
	if !ok {
		return nil
	}
	payments := make([]models.Payment, 0, len(list))
	for _, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id, _ := asInt64(obj["id"])
		gateway, _ := asString(obj["gateway"])
		method, _ := asString(obj["payment_method"])
		payments = append(payments, models.Payment{
			ID:                id,
			Status:            normalizeEnum(obj["status"], allowedPaymentStatuses, "pending"),
			PaymentMethod:     method,
			Gateway:           gateway,
			GatewayFee:        obj["gateway_fee"],
			InstallmentsCost:  obj["installments_cost"],
			TransactionAmount: obj["transaction_amount"],
			NetAmount:         obj["net_amount"],
			Raw:               obj,
		})
	}
	return payments
}

func normalizeEnum(value any, allowed map[string]bool, fallback string) string {
	s, ok := asString(value)
	if !ok {
		return fallback
	}
	s = strings.ToLower(s)
	if allowed[s] {
		return s
	}
	return fallback
}

// normalizeStoreID tolerates the API reporting store_id as number or string.
func normalizeStoreID(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}

func asString(value any) (string, bool) {
	s, ok := value.(string)
	return s, ok
}

func asInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

func stringOr(value any, fallback string) string {
	if s, ok := asString(value); ok && s != "" {
		return s
	}
	return fallback
}

func valueOr(value any, fallback any) any {
	if value == nil {
		return fallback
	}
	return value
}
