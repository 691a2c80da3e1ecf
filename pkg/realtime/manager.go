package realtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/example/posbridge/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// State of the notification channel for the tenant session.
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateDegraded
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateDegraded:
		return "degraded"
	default:
		return "disconnected"
	}
}

// Availability probe for the push transport; *PushSource satisfies it.
type availabler interface {
	Available() bool
}

// Manager owns the notification channel lifecycle: it prefers push, degrades
// to polling while push is down, and retries push with bounded exponential
// backoff. It is an injected object with an explicit Start/Stop lifecycle.
type Manager struct {
	push   Source
	poll   Source
	center *Center
	audit  Auditor
	hub    Broadcaster
	logger *zap.Logger

	reconnectInitial time.Duration
	reconnectMax     time.Duration

	mu        sync.RWMutex
	state     State
	connected bool // push established at least once since the last outage
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewManager(push, poll Source, center *Center, audit Auditor, hub Broadcaster, reconnectInitial, reconnectMax time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		push:             push,
		poll:             poll,
		center:           center,
		audit:            audit,
		hub:              hub,
		logger:           logger,
		reconnectInitial: reconnectInitial,
		reconnectMax:     reconnectMax,
		state:            StateDisconnected,
	}
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	changed := m.state != s
	m.state = s
	m.mu.Unlock()
	if changed {
		m.logger.Info("notification channel state changed", zap.Stringer("state", s))
	}
}

// Start launches the supervision loop. Safe to call once.
func (m *Manager) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.run(runCtx)
	}()
}

// Stop tears the channel down: subscription released, tickers stopped. It
// blocks until the supervision loop has exited.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
	m.setState(StateDisconnected)
}

func (m *Manager) run(ctx context.Context) {
	// Push never becoming viable is not an error; the channel simply runs
	// degraded on polling for the whole session.
	if a, ok := m.push.(availabler); m.push == nil || (ok && !a.Available()) {
		m.setState(StateDegraded)
		_ = m.poll.Run(ctx, m)
		return
	}

	delay := m.reconnectInitial
	for {
		err := m.push.Run(ctx, m)
		if ctx.Err() != nil {
			return
		}

		// A connect-then-drop restarts the backoff ladder; repeated failed
		// attempts keep climbing it, capped below.
		m.mu.Lock()
		if m.connected {
			delay = m.reconnectInitial
			m.connected = false
		}
		m.mu.Unlock()

		if err != nil && !errors.Is(err, ErrPushUnavailable) {
			m.logger.Warn("push transport failed, degrading to polling",
				zap.Duration("retry_in", delay),
				zap.Error(err))
		}

		// Degraded window: poll until the next reconnect attempt.
		m.setState(StateDegraded)
		pollCtx, cancel := context.WithTimeout(ctx, delay)
		_ = m.poll.Run(pollCtx, m)
		cancel()
		if ctx.Err() != nil {
			return
		}

		delay *= 2
		if delay > m.reconnectMax {
			delay = m.reconnectMax
		}
	}
}

// SourceConnected implements Handler.
func (m *Manager) SourceConnected(name string) {
	if name == TransportPush {
		m.setState(StateConnected)
		m.mu.Lock()
		m.connected = true
		m.mu.Unlock()
	}
}

// HandleEvent implements Handler. Order creations raise notifications;
// updates and metrics are audited and forwarded to dashboard clients.
func (m *Manager) HandleEvent(ctx context.Context, ev Event, transport string) {
	switch e := ev.(type) {
	case OrderCreated:
		m.center.NotifyOrder(ctx, e.Order, transport)

	case OrderUpdated:
		m.auditEvent(ctx, ev.EventName(), transport, e.Order.ID, bson.M{"status": e.Order.Status})
		m.forward(ev)

	case OrderStatusUpdated:
		m.auditEvent(ctx, ev.EventName(), transport, e.OrderID, bson.M{"status": e.Status})
		m.forward(ev)

	case MetricsUpdated:
		m.forward(ev)
	}
}

func (m *Manager) auditEvent(ctx context.Context, event, transport, orderID string, payload bson.M) {
	if m.audit == nil {
		return
	}
	rec := &repository.EventRecord{
		Tenant:    m.center.tenant,
		Event:     event,
		Transport: transport,
		OrderID:   orderID,
		Payload:   payload,
	}
	if err := m.audit.RecordEvent(ctx, rec); err != nil {
		m.logger.Warn("failed to audit event", zap.String("event", event), zap.Error(err))
	}
}

func (m *Manager) forward(ev Event) {
	if m.hub == nil {
		return
	}
	m.hub.Broadcast(map[string]interface{}{
		"event": ev.EventName(),
		"data":  ev,
	})
}
