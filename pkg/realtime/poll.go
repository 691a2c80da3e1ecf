package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/example/posbridge/pkg/backend"
	"go.uber.org/zap"
)

// OrderLister is the slice of the backend client the poll source needs.
type OrderLister interface {
	ListOrders(ctx context.Context, params backend.ListOrdersParams) ([]backend.Order, error)
}

// PollSource detects new orders by listing recent orders on a fixed cadence
// and diffing against the ids it has already emitted. Poll failures are
// logged and retried on the next tick; they never clear anything.
type PollSource struct {
	lister   OrderLister
	interval time.Duration
	limit    int
	logger   *zap.Logger

	mu      sync.Mutex
	emitted map[string]struct{}
}

func NewPollSource(lister OrderLister, interval time.Duration, logger *zap.Logger) *PollSource {
	return &PollSource{
		lister:   lister,
		interval: interval,
		limit:    50,
		logger:   logger,
		emitted:  make(map[string]struct{}),
	}
}

func (p *PollSource) Name() string { return TransportPoll }

func (p *PollSource) Run(ctx context.Context, h Handler) error {
	h.SourceConnected(p.Name())

	// First pass immediately so a degraded channel alerts without waiting a
	// full interval.
	p.poll(ctx, h)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.poll(ctx, h)
		}
	}
}

func (p *PollSource) poll(ctx context.Context, h Handler) {
	orders, err := p.lister.ListOrders(ctx, backend.ListOrdersParams{Limit: p.limit})
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Warn("order poll failed", zap.Error(err))
		return
	}

	for _, order := range orders {
		if p.alreadyEmitted(order.ID) {
			continue
		}
		h.HandleEvent(ctx, OrderCreated{Order: order}, TransportPoll)
	}
}

func (p *PollSource) alreadyEmitted(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.emitted[id]; ok {
		return true
	}
	p.emitted[id] = struct{}{}
	return false
}
