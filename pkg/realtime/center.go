package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/example/posbridge/pkg/backend"
	"github.com/example/posbridge/pkg/repository"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Bookkeeper persists the parts of notification state that outlive the
// session: seen order ids, acknowledged notification ids, and the operator
// sound preference.
type Bookkeeper interface {
	MarkOrderSeen(ctx context.Context, tenant, orderID string) error
	OrderSeen(ctx context.Context, tenant, orderID string) (bool, error)
	MarkNotificationRead(ctx context.Context, tenant string, ids ...string) error
	NotificationRead(ctx context.Context, tenant, id string) (bool, error)
	SoundEnabled(ctx context.Context, operator string) (bool, error)
	SetSoundEnabled(ctx context.Context, operator string, enabled bool) error
}

// Auditor appends delivered events to the audit trail.
type Auditor interface {
	RecordEvent(ctx context.Context, rec *repository.EventRecord) error
}

// Broadcaster fans a notification out to connected dashboard clients.
type Broadcaster interface {
	Broadcast(v interface{})
}

// Center holds the session's notification list and applies id-based
// de-duplication across both transports. Delivery is at-least-once upstream;
// the Center makes alerts exactly-once for the operator.
type Center struct {
	tenant string
	books  Bookkeeper
	audit  Auditor
	hub    Broadcaster
	logger *zap.Logger

	mu            sync.RWMutex
	notifications []Notification
}

func NewCenter(tenant string, books Bookkeeper, audit Auditor, hub Broadcaster, logger *zap.Logger) *Center {
	return &Center{
		tenant: tenant,
		books:  books,
		audit:  audit,
		hub:    hub,
		logger: logger,
	}
}

// NotifyOrder raises a notification for the order unless it was already
// alerted or acknowledged. Returns the notification when one was raised.
func (c *Center) NotifyOrder(ctx context.Context, order backend.Order, transport string) *Notification {
	seen, err := c.books.OrderSeen(ctx, c.tenant, order.ID)
	if err != nil {
		c.logger.Warn("failed to check seen set", zap.String("order_id", order.ID), zap.Error(err))
	}
	if seen {
		return nil
	}
	read, err := c.books.NotificationRead(ctx, c.tenant, order.ID)
	if err != nil {
		c.logger.Warn("failed to check read set", zap.String("order_id", order.ID), zap.Error(err))
	}
	if read {
		return nil
	}

	if err := c.books.MarkOrderSeen(ctx, c.tenant, order.ID); err != nil {
		c.logger.Warn("failed to mark order seen", zap.String("order_id", order.ID), zap.Error(err))
	}

	sound, err := c.books.SoundEnabled(ctx, c.tenant)
	if err != nil {
		c.logger.Warn("failed to read sound preference", zap.Error(err))
		sound = false
	}

	n := Notification{
		ID:            uuid.NewString(),
		OrderID:       order.ID,
		OrderIdentify: order.Identify,
		CustomerName:  order.CustomerName,
		Total:         order.Total,
		CreatedAt:     order.CreatedAt,
		Timestamp:     time.Now().Unix(),
		Sound:         sound,
	}

	c.mu.Lock()
	c.notifications = append([]Notification{n}, c.notifications...)
	c.mu.Unlock()

	if c.audit != nil {
		rec := &repository.EventRecord{
			Tenant:    c.tenant,
			Event:     EventOrderCreated,
			Transport: transport,
			OrderID:   order.ID,
			Payload:   bson.M{"identify": order.Identify, "total": order.Total},
		}
		if err := c.audit.RecordEvent(ctx, rec); err != nil {
			c.logger.Warn("failed to audit event", zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	if c.hub != nil {
		c.hub.Broadcast(n)
	}

	c.logger.Info("order notification raised",
		zap.String("order_id", order.ID),
		zap.String("transport", transport))

	return &n
}

// List returns notifications newest first.
func (c *Center) List() []Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Notification(nil), c.notifications...)
}

// Ack marks one notification read and removes it.
func (c *Center) Ack(ctx context.Context, id string) bool {
	c.mu.Lock()
	var orderID string
	for i, n := range c.notifications {
		if n.ID == id {
			orderID = n.OrderID
			c.notifications = append(c.notifications[:i], c.notifications[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	if orderID == "" {
		return false
	}
	if err := c.books.MarkNotificationRead(ctx, c.tenant, orderID); err != nil {
		c.logger.Warn("failed to persist read id", zap.String("order_id", orderID), zap.Error(err))
	}
	return true
}

// ClearAll marks everything read and empties the list.
func (c *Center) ClearAll(ctx context.Context) {
	c.mu.Lock()
	ids := make([]string, len(c.notifications))
	for i, n := range c.notifications {
		ids[i] = n.OrderID
	}
	c.notifications = nil
	c.mu.Unlock()

	if len(ids) == 0 {
		return
	}
	if err := c.books.MarkNotificationRead(ctx, c.tenant, ids...); err != nil {
		c.logger.Warn("failed to persist read ids", zap.Error(err))
	}
}

func (c *Center) SoundEnabled(ctx context.Context) (bool, error) {
	return c.books.SoundEnabled(ctx, c.tenant)
}

func (c *Center) SetSoundEnabled(ctx context.Context, enabled bool) error {
	return c.books.SetSoundEnabled(ctx, c.tenant, enabled)
}
