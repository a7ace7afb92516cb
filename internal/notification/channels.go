package notification

import (
	"context"
	"time"

	"spareparts-be/internal/audit"
	"spareparts-be/internal/logger"

	"go.uber.org/zap"
)

const (
	ChannelEmail          = "EMAIL_NOTIFICATION"
	ChannelSMS            = "SMS_NOTIFICATION"
	ChannelAudit          = "AUDIT_LOG"
	ChannelInventoryAlert = "INVENTORY_ALERT"

	ChannelWarrantyEmail = "WARRANTY_EMAIL_NOTIFICATION"
	ChannelWarrantySMS   = "WARRANTY_SMS_NOTIFICATION"

	emailSubject         = "EMAIL_SUBJECT"
	warrantyEmailSubject = "WARRANTY_EMAIL_SUBJECT"
)

type Message struct {
	Channel string
	To      string
	Subject string
	Body    string
}

// Sender delivers a rendered message to its recipient.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the structured log instead of a provider.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	logger.FromCtx(ctx).Info("notification sent",
		zap.String("channel", msg.Channel),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}

type orderView struct {
	OrderEvent
	Event string
}

type warrantyView struct {
	WarrantyEvent
	Event string
}

// --- order channels ---

type emailChannel struct {
	templates *Templates
	sender    Sender
}

func NewEmailChannel(templates *Templates, sender Sender) Handler[OrderEvent] {
	return &emailChannel{templates: templates, sender: sender}
}

func (c *emailChannel) Name() string { return ChannelEmail }

func (c *emailChannel) Handle(ctx context.Context, o OrderEvent, event string) error {
	view := orderView{OrderEvent: o, Event: event}

	subject, err := c.templates.Render(emailSubject, event, view)
	if err != nil {
		return err
	}
	body, err := c.templates.Render(ChannelEmail, event, view)
	if err != nil {
		return err
	}

	return c.sender.Send(ctx, Message{Channel: ChannelEmail, To: o.CustomerEmail, Subject: subject, Body: body})
}

type smsChannel struct {
	templates *Templates
	sender    Sender
}

func NewSMSChannel(templates *Templates, sender Sender) Handler[OrderEvent] {
	return &smsChannel{templates: templates, sender: sender}
}

func (c *smsChannel) Name() string { return ChannelSMS }

func (c *smsChannel) Handle(ctx context.Context, o OrderEvent, event string) error {
	if o.CustomerPhone == "" {
		logger.FromCtx(ctx).Warn("SMS not sent: customer phone number not available",
			zap.String("order_number", o.OrderNumber),
		)
		return nil
	}

	body, err := c.templates.Render(ChannelSMS, event, orderView{OrderEvent: o, Event: event})
	if err != nil {
		return err
	}
	return c.sender.Send(ctx, Message{Channel: ChannelSMS, To: o.CustomerPhone, Body: body})
}

type auditChannel struct {
	templates *Templates
	repo      audit.Repository
	now       func() time.Time
}

func NewAuditChannel(templates *Templates, repo audit.Repository) Handler[OrderEvent] {
	return &auditChannel{templates: templates, repo: repo, now: time.Now}
}

func (c *auditChannel) Name() string { return ChannelAudit }

func (c *auditChannel) Handle(ctx context.Context, o OrderEvent, event string) error {
	details, err := c.templates.Render(ChannelAudit, event, orderView{OrderEvent: o, Event: event})
	if err != nil {
		return err
	}

	entry := audit.Entry{
		Action:     event,
		EntityType: audit.EntityOrder,
		EntityID:   o.OrderID,
		NewValue:   details,
		CreatedAt:  c.now(),
	}
	if o.CustomerID != 0 {
		customerID := o.CustomerID
		entry.UserID = &customerID
	}

	return c.repo.Save(ctx, entry)
}

type inventoryAlertChannel struct{}

func NewInventoryAlertChannel() Handler[OrderEvent] {
	return inventoryAlertChannel{}
}

func (inventoryAlertChannel) Name() string { return ChannelInventoryAlert }

// Handle flags parts that dropped to their reorder level with this order.
func (inventoryAlertChannel) Handle(ctx context.Context, o OrderEvent, event string) error {
	if event != EventOrderCreated {
		return nil
	}

	log := logger.FromCtx(ctx)
	for _, item := range o.Items {
		if item.StockRemaining > item.ReorderLevel {
			continue
		}
		log.Warn("inventory alert: restock required",
			zap.String("order_number", o.OrderNumber),
			zap.String("part_number", item.PartNumber),
			zap.String("part_name", item.PartName),
			zap.Int("stock", item.StockRemaining),
			zap.Int("reorder_level", item.ReorderLevel),
		)
	}
	return nil
}

// --- warranty channels ---

type warrantyEmailChannel struct {
	templates *Templates
	sender    Sender
}

func NewWarrantyEmailChannel(templates *Templates, sender Sender) Handler[WarrantyEvent] {
	return &warrantyEmailChannel{templates: templates, sender: sender}
}

func (c *warrantyEmailChannel) Name() string { return ChannelWarrantyEmail }

func (c *warrantyEmailChannel) Handle(ctx context.Context, w WarrantyEvent, event string) error {
	view := warrantyView{WarrantyEvent: w, Event: event}

	subject, err := c.templates.Render(warrantyEmailSubject, event, view)
	if err != nil {
		return err
	}
	body, err := c.templates.Render(ChannelWarrantyEmail, event, view)
	if err != nil {
		return err
	}

	return c.sender.Send(ctx, Message{Channel: ChannelWarrantyEmail, To: w.CustomerEmail, Subject: subject, Body: body})
}

type warrantySMSChannel struct {
	templates *Templates
	sender    Sender
}

func NewWarrantySMSChannel(templates *Templates, sender Sender) Handler[WarrantyEvent] {
	return &warrantySMSChannel{templates: templates, sender: sender}
}

func (c *warrantySMSChannel) Name() string { return ChannelWarrantySMS }

func (c *warrantySMSChannel) Handle(ctx context.Context, w WarrantyEvent, event string) error {
	if w.CustomerPhone == "" {
		logger.FromCtx(ctx).Warn("warranty SMS not sent: customer phone number not available",
			zap.String("warranty_number", w.WarrantyNumber),
		)
		return nil
	}

	body, err := c.templates.Render(ChannelWarrantySMS, event, warrantyView{WarrantyEvent: w, Event: event})
	if err != nil {
		return err
	}
	return c.sender.Send(ctx, Message{Channel: ChannelWarrantySMS, To: w.CustomerPhone, Body: body})
}

// NewOrderDispatcher registers the order channels in their canonical order.
func NewOrderDispatcher(templates *Templates, sender Sender, auditRepo audit.Repository) *Dispatcher[OrderEvent] {
	return NewDispatcher[OrderEvent](
		NewEmailChannel(templates, sender),
		NewSMSChannel(templates, sender),
		NewAuditChannel(templates, auditRepo),
		NewInventoryAlertChannel(),
	)
}

func NewWarrantyDispatcher(templates *Templates, sender Sender) *Dispatcher[WarrantyEvent] {
	return NewDispatcher[WarrantyEvent](
		NewWarrantyEmailChannel(templates, sender),
		NewWarrantySMSChannel(templates, sender),
	)
}
