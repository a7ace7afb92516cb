package payment

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestSelector_Strategy(t *testing.T) {
	sel := DefaultSelector()

	t.Run("CaseInsensitiveLookup", func(t *testing.T) {
		s, err := sel.Strategy("credit_card")
		require.NoError(t, err)
		assert.Equal(t, MethodCreditCard, s.Method())
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := sel.Strategy("  ")
		assert.ErrorIs(t, err, ErrMethodRequired)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := sel.Strategy("BITCOIN")
		assert.ErrorIs(t, err, ErrUnsupportedMethod)
		assert.EqualError(t, err, "unsupported payment method: BITCOIN")
	})
}

func TestSelector_Execute(t *testing.T) {
	ctx := context.Background()
	sel := DefaultSelector()

	tests := []struct {
		name       string
		req        Request
		wantStatus string
		wantMsg    string
	}{
		{
			name:       "CreditCard",
			req:        Request{OrderNumber: "ORD-1", Method: "CREDIT_CARD", Total: amount("99.5")},
			wantStatus: StatusPaid,
			wantMsg:    "Credit Card payment processed successfully for order ORD-1. Amount: $99.50",
		},
		{
			name:       "BankTransfer",
			req:        Request{OrderNumber: "ORD-2", Method: "bank_transfer", Total: amount("10")},
			wantStatus: StatusPendingVerification,
			wantMsg:    "Bank Transfer initiated for order ORD-2. Please transfer $10.00 to Account: 1234567890. Payment pending verification.",
		},
		{
			name:       "CashOnDelivery",
			req:        Request{OrderNumber: "ORD-3", Method: "CASH_ON_DELIVERY", Total: amount("5"), ShippingAddress: "1 Main St"},
			wantStatus: StatusPendingCollection,
			wantMsg:    "Cash on Delivery confirmed for order ORD-3. Amount to be collected: $5.00 upon delivery.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := sel.Execute(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantMsg, res.Message)
			assert.NotEmpty(t, res.Instructions)
		})
	}

	t.Run("CashOnDeliveryWithoutAddress", func(t *testing.T) {
		_, err := sel.Execute(ctx, Request{OrderNumber: "ORD-4", Method: MethodCashOnDelivery, Total: amount("5")})
		assert.ErrorIs(t, err, ErrInvalidPaymentDetails)
		assert.EqualError(t, err, "invalid payment details for CASH_ON_DELIVERY")
	})

	t.Run("MissingTotal", func(t *testing.T) {
		_, err := sel.Execute(ctx, Request{OrderNumber: "ORD-5", Method: MethodCreditCard})
		assert.ErrorIs(t, err, ErrInvalidPaymentDetails)
	})

	t.Run("InstructionsCarryAddress", func(t *testing.T) {
		res, err := sel.Execute(ctx, Request{OrderNumber: "ORD-6", Method: MethodCashOnDelivery, Total: amount("5"), ShippingAddress: "1 Main St"})
		require.NoError(t, err)
		assert.Contains(t, res.Instructions[0], "1 Main St")
	})
}

func TestSelector_Registry(t *testing.T) {
	sel := DefaultSelector()

	assert.True(t, sel.Supported("cash_on_delivery"))
	assert.False(t, sel.Supported("PAYPAL"))
	assert.Equal(t, []string{MethodBankTransfer, MethodCashOnDelivery, MethodCreditCard}, sel.Methods())
}
