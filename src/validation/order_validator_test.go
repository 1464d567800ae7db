package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalOrderJSON = `{
	"id": 12345,
	"number": 1001,
	"gateway": "mercadopago",
	"created_at": "2024-03-15T10:30:00+0000",
	"customer": {"id": 7, "name": "Ana García", "email": "ana@example.com"}
}`

func TestSafeParseOrderMinimal(t *testing.T) {
	result := SafeParseOrder([]byte(minimalOrderJSON))
	require.True(t, result.Success, "errors: %v", result.Errors)
	order := result.Order

	assert.Equal(t, int64(12345), order.ID)
	assert.Equal(t, int64(1001), order.Number)
	assert.Equal(t, "mercadopago", order.Gateway)
	assert.Equal(t, "Ana García", order.Customer.Name)

	// Normalization defaults.
	assert.Equal(t, "0", order.Total)
	assert.Equal(t, "0", order.Subtotal)
	assert.Equal(t, "0", order.Shipping)
	assert.Equal(t, "", order.Token)
	assert.Equal(t, "mercadopago", order.GatewayName)
	assert.Equal(t, "ARS", order.Currency)
	assert.Equal(t, "open", order.Status)
	assert.Equal(t, "pending", order.PaymentStatus)
	assert.Equal(t, "2024-03-15T10:30:00+0000", order.UpdatedAt)
	assert.NotNil(t, order.Products)
	assert.Empty(t, order.Products)
	assert.NotNil(t, order.Raw)
}

func TestSafeParseOrderSubtotalFallsBackToTotal(t *testing.T) {
	result := SafeParseOrder([]byte(`{
		"id": 1, "number": 1, "gateway": "manual",
		"created_at": "2024-01-01", "total": "500.00",
		"customer": {"name": "B"}
	}`))
	require.True(t, result.Success)
	assert.Equal(t, "500.00", result.Order.Total)
	assert.Equal(t, "500.00", result.Order.Subtotal)
}

func TestSafeParseOrderEnumNormalization(t *testing.T) {
	tests := []struct {
		name              string
		status            string
		paymentStatus     string
		wantStatus        string
		wantPaymentStatus string
	}{
		{name: "valid values kept", status: "closed", paymentStatus: "paid", wantStatus: "closed", wantPaymentStatus: "paid"},
		{name: "uppercase lowered", status: "CANCELLED", paymentStatus: "REFUNDED", wantStatus: "cancelled", wantPaymentStatus: "refunded"},
		{name: "unknown values fall back", status: "archived", paymentStatus: "processing", wantStatus: "open", wantPaymentStatus: "pending"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := `{
				"id": 1, "number": 1, "gateway": "g", "created_at": "2024-01-01",
				"customer": {"name": "C"},
				"status": "` + tt.status + `", "payment_status": "` + tt.paymentStatus + `"
			}`
			result := SafeParseOrder([]byte(payload))
			require.True(t, result.Success)
			assert.Equal(t, tt.wantStatus, result.Order.Status)
			assert.Equal(t, tt.wantPaymentStatus, result.Order.PaymentStatus)
		})
	}
}

func TestSafeParseOrderStoreIDCoercion(t *testing.T) {
	result := SafeParseOrder([]byte(`{
		"id": 1, "number": 1, "gateway": "g", "created_at": "2024-01-01",
		"customer": {"name": "C"}, "store_id": 987654
	}`))
	require.True(t, result.Success)
	assert.Equal(t, "987654", result.Order.StoreID)
}

func TestSafeParseOrderRequiredFields(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantField string
	}{
		{name: "missing id", payload: `{"number": 1, "gateway": "g", "created_at": "x", "customer": {"name": "C"}}`, wantField: "id"},
		{name: "string id rejected", payload: `{"id": "12345", "number": 1, "gateway": "g", "created_at": "x", "customer": {"name": "C"}}`, wantField: "id"},
		{name: "missing number", payload: `{"id": 1, "gateway": "g", "created_at": "x", "customer": {"name": "C"}}`, wantField: "number"},
		{name: "missing gateway", payload: `{"id": 1, "number": 1, "created_at": "x", "customer": {"name": "C"}}`, wantField: "gateway"},
		{name: "missing created_at", payload: `{"id": 1, "number": 1, "gateway": "g", "customer": {"name": "C"}}`, wantField: "created_at"},
		{name: "missing customer", payload: `{"id": 1, "number": 1, "gateway": "g", "created_at": "x"}`, wantField: "customer"},
		{name: "empty customer name", payload: `{"id": 1, "number": 1, "gateway": "g", "created_at": "x", "customer": {"name": ""}}`, wantField: "customer.name"},
		{name: "products not an array", payload: `{"id": 1, "number": 1, "gateway": "g", "created_at": "x", "customer": {"name": "C"}, "products": "none"}`, wantField: "products"},
		{name: "product missing quantity", payload: `{"id": 1, "number": 1, "gateway": "g", "created_at": "x", "customer": {"name": "C"}, "products": [{"id": 2}]}`, wantField: "products[0].quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SafeParseOrder([]byte(tt.payload))
			require.False(t, result.Success)
			fields := make([]string, 0, len(result.Errors))
			for _, fe := range result.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestSafeParseOrderInvalidJSON(t *testing.T) {
	result := SafeParseOrder([]byte("not json"))
	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "(root)", result.Errors[0].Field)

	result = SafeParseOrder([]byte(`[1, 2, 3]`))
	assert.False(t, result.Success)
}

func TestSafeParseOrderProductsAndPayments(t *testing.T) {
	result := SafeParseOrder([]byte(`{
		"id": 1, "number": 1, "gateway": "mercadopago", "created_at": "2024-01-01",
		"customer": {"name": "C"},
		"products": [
			{"id": 10, "product_id": 55, "name": "Remera", "sku": "REM-01", "quantity": 2, "price": "450.00", "cost": "200,00"}
		],
		"payments": [
			{"id": 3, "status": "PAID", "gateway": "mercadopago", "payment_method": "credit_card",
			 "gateway_fee": "49,90", "transaction_amount": "1000", "net_amount": "950.10"},
			"not an object"
		]
	}`))
	require.True(t, result.Success, "errors: %v", result.Errors)
	order := result.Order

	require.Len(t, order.Products, 1)
	p := order.Products[0]
	assert.Equal(t, int64(55), p.ProductID)
	assert.Equal(t, 2, p.Quantity)
	assert.Equal(t, "450.00", p.Price) // kept raw, coerced later
	assert.Equal(t, "200,00", p.Cost)

	// Odd payment entries are skipped, not fatal.
	require.Len(t, order.Payments, 1)
	payment := order.Payments[0]
	assert.Equal(t, "paid", payment.Status)
	assert.Equal(t, "49,90", payment.GatewayFee)
	assert.Equal(t, "1000", payment.Raw["transaction_amount"])
}

func TestSafeParseOrderKeepsRawAndExtra(t *testing.T) {
	result := SafeParseOrder([]byte(`{
		"id": 1, "number": 1, "gateway": "g", "created_at": "2024-01-01",
		"customer": {"name": "C"},
		"tiendanube_fee": "53,10",
		"extra": {"campaign": "abc", "comision": 10}
	}`))
	require.True(t, result.Success)
	assert.Equal(t, "53,10", result.Order.Raw["tiendanube_fee"])
	assert.Equal(t, "abc", result.Order.Extra["campaign"])
}

func TestValidateOrder(t *testing.T) {
	order, err := ValidateOrder([]byte(minimalOrderJSON))
	require.NoError(t, err)
	assert.Equal(t, int64(12345), order.ID)

	_, err = ValidateOrder([]byte(`{"number": 1}`))
	require.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.NotEmpty(t, vErr.Errors)
	assert.Contains(t, err.Error(), "order validation failed")
}
