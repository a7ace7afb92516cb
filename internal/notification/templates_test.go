package notification

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() OrderEvent {
	return OrderEvent{
		OrderID: 5, OrderNumber: "ORDAB12CD34", CustomerID: 9,
		CustomerEmail: "jane@example.com", CustomerPhone: "+15550100",
		Status: "PENDING", TotalAmount: decimal.RequireFromString("120.5"),
	}
}

func TestTemplates_Render(t *testing.T) {
	tmpl := DefaultTemplates()
	o := sampleOrder()

	tests := []struct {
		channel, event, want string
	}{
		{ChannelEmail, EventOrderCreated, "Your order ORDAB12CD34 has been created successfully. Total: $120.50"},
		{ChannelEmail, "ORDER_DELIVERED", "Your order ORDAB12CD34 has been delivered. Thank you for your purchase!"},
		{ChannelEmail, "ORDER_DISPATCHED", "Order ORDAB12CD34 status updated: ORDER_DISPATCHED"},
		{ChannelSMS, "ORDER_SHIPPED", "Order ORDAB12CD34 shipped! Track your delivery."},
		{ChannelSMS, "ORDER_DISPATCHED", "Order ORDAB12CD34 - ORDER_DISPATCHED"},
		{ChannelAudit, EventOrderApproved, "Order ORDAB12CD34 - ORDER_APPROVED. Amount: $120.50, Status: PENDING"},
	}

	for _, tt := range tests {
		t.Run(tt.channel+"/"+tt.event, func(t *testing.T) {
			got, err := tmpl.Render(tt.channel, tt.event, orderView{OrderEvent: o, Event: tt.event})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("WarrantyRejected", func(t *testing.T) {
		w := WarrantyEvent{WarrantyNumber: "WRN1", ClaimNotes: "cracked\n\nREJECTION REASON: misuse"}
		got, err := tmpl.Render(ChannelWarrantyEmail, EventWarrantyClaimRejected, warrantyView{WarrantyEvent: w})
		require.NoError(t, err)
		assert.Equal(t, "Your warranty claim WRN1 has been rejected. Reason: cracked\n\nREJECTION REASON: misuse", got)
	})

	t.Run("WarrantyExpiryFormatting", func(t *testing.T) {
		w := WarrantyEvent{WarrantyNumber: "WRN1", PartName: "Oil Filter", ExpiryDate: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)}
		got, err := tmpl.Render(ChannelWarrantySMS, EventWarrantyCreated, warrantyView{WarrantyEvent: w})
		require.NoError(t, err)
		assert.Equal(t, "Warranty WRN1 created for Oil Filter. Valid until 2025-02-28", got)
	})

	t.Run("UnknownChannel", func(t *testing.T) {
		_, err := tmpl.Render("PIGEON", EventOrderCreated, o)
		assert.Error(t, err)
	})
}

func TestLoadTemplates(t *testing.T) {
	t.Run("EmptyPathUsesEmbedded", func(t *testing.T) {
		tmpl, err := LoadTemplates("")
		require.NoError(t, err)
		assert.Contains(t, tmpl.byChannel, ChannelEmail)
	})

	t.Run("Override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "templates.yaml")
		require.NoError(t, os.WriteFile(path, []byte("sms_notification:\n  default: \"hi {{.OrderNumber}}\"\n"), 0o600))

		tmpl, err := LoadTemplates(path)
		require.NoError(t, err)

		got, err := tmpl.Render(ChannelSMS, EventOrderCreated, sampleOrder())
		require.NoError(t, err)
		assert.Equal(t, "hi ORDAB12CD34", got)
	})

	t.Run("BadTemplate", func(t *testing.T) {
		_, err := ParseTemplates([]byte("SMS_NOTIFICATION:\n  DEFAULT: \"{{.Broken\"\n"))
		assert.Error(t, err)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadTemplates(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
