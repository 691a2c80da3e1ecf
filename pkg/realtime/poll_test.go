package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/posbridge/pkg/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockLister struct {
	m      sync.Mutex
	orders []backend.Order
	err    error
}

func (l *mockLister) ListOrders(context.Context, backend.ListOrdersParams) ([]backend.Order, error) {
	l.m.Lock()
	defer l.m.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	return append([]backend.Order(nil), l.orders...), nil
}

func (l *mockLister) set(orders []backend.Order, err error) {
	l.m.Lock()
	defer l.m.Unlock()
	l.orders = orders
	l.err = err
}

type recordingHandler struct {
	m         sync.Mutex
	events    []Event
	connected []string
}

func (h *recordingHandler) SourceConnected(name string) {
	h.m.Lock()
	defer h.m.Unlock()
	h.connected = append(h.connected, name)
}

func (h *recordingHandler) HandleEvent(_ context.Context, ev Event, _ string) {
	h.m.Lock()
	defer h.m.Unlock()
	h.events = append(h.events, ev)
}

func (h *recordingHandler) orderIDs() []string {
	h.m.Lock()
	defer h.m.Unlock()
	var ids []string
	for _, ev := range h.events {
		if created, ok := ev.(OrderCreated); ok {
			ids = append(ids, created.Order.ID)
		}
	}
	return ids
}

func TestPollEmitsOnlyUnseenOrders(t *testing.T) {
	lister := &mockLister{orders: []backend.Order{order("A"), order("B")}}
	p := NewPollSource(lister, time.Hour, zap.NewNop())
	h := &recordingHandler{}

	p.poll(context.Background(), h)
	require.Equal(t, []string{"A", "B"}, h.orderIDs())

	// Next cycle sees one new order; exactly one event is raised, not three.
	lister.set([]backend.Order{order("A"), order("B"), order("C")}, nil)
	p.poll(context.Background(), h)
	assert.Equal(t, []string{"A", "B", "C"}, h.orderIDs())
}

func TestPollErrorIsRetriedNextCycle(t *testing.T) {
	lister := &mockLister{orders: []backend.Order{order("A")}}
	p := NewPollSource(lister, time.Hour, zap.NewNop())
	h := &recordingHandler{}

	p.poll(context.Background(), h)
	require.Equal(t, []string{"A"}, h.orderIDs())

	// A failing cycle emits nothing and clears nothing.
	lister.set(nil, errors.New("backend unreachable"))
	p.poll(context.Background(), h)
	assert.Equal(t, []string{"A"}, h.orderIDs())

	// Recovery picks up where it left off.
	lister.set([]backend.Order{order("A"), order("B")}, nil)
	p.poll(context.Background(), h)
	assert.Equal(t, []string{"A", "B"}, h.orderIDs())
}

func TestPollRunStopsOnCancel(t *testing.T) {
	lister := &mockLister{}
	p := NewPollSource(lister, 5*time.Millisecond, zap.NewNop())
	h := &recordingHandler{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- p.Run(ctx, h)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poll source did not stop on cancel")
	}
}
