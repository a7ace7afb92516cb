package notification

import (
	"context"
	"testing"

	"spareparts-be/internal/audit"
	"spareparts-be/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type captureSender struct {
	sent []Message
}

func (s *captureSender) Send(_ context.Context, msg Message) error {
	s.sent = append(s.sent, msg)
	return nil
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Save(ctx context.Context, e audit.Entry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockAuditRepository) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]audit.Entry, error) {
	args := m.Called(ctx, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.Entry), args.Error(1)
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	t.Cleanup(logger.Replace(zap.New(core)))
	return logs
}

func TestOrderDispatcher_Created(t *testing.T) {
	ctx := context.Background()
	logs := observeLogs(t)
	sender := &captureSender{}
	auditRepo := new(MockAuditRepository)

	auditRepo.On("Save", ctx, mock.MatchedBy(func(e audit.Entry) bool {
		return e.Action == EventOrderCreated &&
			e.EntityType == audit.EntityOrder &&
			e.EntityID == 5 &&
			e.UserID != nil && *e.UserID == 9 &&
			e.NewValue == "Order ORDAB12CD34 - ORDER_CREATED. Amount: $120.50, Status: PENDING"
	})).Return(nil)

	o := sampleOrder()
	o.Items = []OrderItemEvent{
		{PartNumber: "BP-1", PartName: "Brake Pad", Quantity: 2, StockRemaining: 4, ReorderLevel: 10},
		{PartNumber: "OF-2", PartName: "Oil Filter", Quantity: 1, StockRemaining: 80, ReorderLevel: 10},
	}

	d := NewOrderDispatcher(DefaultTemplates(), sender, auditRepo)
	assert.Equal(t, []string{ChannelEmail, ChannelSMS, ChannelAudit, ChannelInventoryAlert}, d.Names())

	d.Notify(ctx, o, EventOrderCreated)

	require.Len(t, sender.sent, 2)
	assert.Equal(t, Message{
		Channel: ChannelEmail,
		To:      "jane@example.com",
		Subject: "Order ORDAB12CD34 - ORDER_CREATED",
		Body:    "Your order ORDAB12CD34 has been created successfully. Total: $120.50",
	}, sender.sent[0])
	assert.Equal(t, "+15550100", sender.sent[1].To)
	auditRepo.AssertExpectations(t)

	alerts := logs.FilterMessage("inventory alert: restock required").All()
	require.Len(t, alerts, 1)
	assert.Equal(t, "BP-1", alerts[0].ContextMap()["part_number"])
}

func TestOrderDispatcher_NoPhoneSkipsSMS(t *testing.T) {
	ctx := context.Background()
	logs := observeLogs(t)
	sender := &captureSender{}
	auditRepo := new(MockAuditRepository)
	auditRepo.On("Save", ctx, mock.Anything).Return(nil)

	o := sampleOrder()
	o.CustomerPhone = ""

	d := NewOrderDispatcher(DefaultTemplates(), sender, auditRepo)
	d.Notify(ctx, o, "ORDER_SHIPPED")

	require.Len(t, sender.sent, 1)
	assert.Equal(t, ChannelEmail, sender.sent[0].Channel)
	assert.Equal(t, 1, logs.FilterMessage("SMS not sent: customer phone number not available").Len())
	assert.Equal(t, uint64(1), d.Stats()[ChannelSMS+".delivered"])
}

func TestInventoryAlert_IgnoresOtherEvents(t *testing.T) {
	logs := observeLogs(t)
	o := sampleOrder()
	o.Items = []OrderItemEvent{{PartNumber: "BP-1", StockRemaining: 0, ReorderLevel: 10}}

	require.NoError(t, NewInventoryAlertChannel().Handle(context.Background(), o, EventOrderApproved))
	assert.Zero(t, logs.Len())
}

func TestWarrantyDispatcher(t *testing.T) {
	ctx := context.Background()
	sender := &captureSender{}

	d := NewWarrantyDispatcher(DefaultTemplates(), sender)
	d.Notify(ctx, WarrantyEvent{
		WarrantyNumber: "WRN00AA11BB", CustomerEmail: "a@b.c", CustomerPhone: "123",
	}, EventWarrantyClaimApproved)

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "Warranty WRN00AA11BB - WARRANTY_CLAIM_APPROVED", sender.sent[0].Subject)
	assert.Equal(t, "Great news! Your warranty claim WRN00AA11BB has been approved. A replacement will be sent to you.", sender.sent[0].Body)
	assert.Equal(t, "Warranty claim WRN00AA11BB APPROVED! Replacement coming.", sender.sent[1].Body)
}

func TestLogSender(t *testing.T) {
	logs := observeLogs(t)

	require.NoError(t, LogSender{}.Send(context.Background(), Message{Channel: ChannelSMS, To: "123", Body: "hi"}))

	entries := logs.FilterMessage("notification sent").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "123", entries[0].ContextMap()["to"])
}
