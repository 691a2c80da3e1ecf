package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/example/posbridge/pkg/backend"
	"github.com/example/posbridge/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSubmitter struct {
	m    sync.Mutex
	last *backend.CreateOrderRequest
	err  error
}

func (s *mockSubmitter) CreateOrder(_ context.Context, req backend.CreateOrderRequest) (*backend.Order, error) {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.last = &req
	return &backend.Order{ID: "o1", Identify: "ORD-1", Total: 64}, nil
}

type mockJournal struct {
	m       sync.Mutex
	records []*models.OrderRecord
}

func (j *mockJournal) Append(rec *models.OrderRecord) error {
	j.m.Lock()
	defer j.m.Unlock()
	j.records = append(j.records, rec)
	return nil
}

func newTestService(sub *mockSubmitter, j Journal) *Service {
	return NewService(NewMemoryStore(), sub, j, "tenant-1", zap.NewNop())
}

func addPizza(t *testing.T, s *Service, sessionID string) {
	t.Helper()
	_, err := s.AddItem(context.Background(), sessionID, Selection{
		ProductID:       "p1",
		ProductIdentify: "pizza",
		BasePrice:       32,
	})
	require.NoError(t, err)
}

func TestFinalizeTableOrderPayload(t *testing.T) {
	sub := &mockSubmitter{}
	journal := &mockJournal{}
	s := newTestService(sub, journal)

	addPizza(t, s, "s1")
	addPizza(t, s, "s1")

	order, err := s.Finalize(context.Background(), "s1", FinalizeParams{
		PaymentMethodID: "pm-1",
		ServiceType:     models.ServiceTable,
		TableID:         "t-12",
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", order.Identify)

	require.NotNil(t, sub.last)
	assert.Equal(t, "tenant-1", sub.last.Token)
	assert.Equal(t, "pm-1", sub.last.PaymentMethodID)
	assert.Equal(t, "t-12", sub.last.Table)
	assert.Empty(t, sub.last.DeliveryAddress)
	require.Len(t, sub.last.Products, 1)
	assert.Equal(t, backend.OrderProduct{Identify: "pizza", Qty: 2, Price: 32}, sub.last.Products[0])

	// Cart is cleared on success.
	draft, err := s.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, draft.Empty())

	// Journal captured the submission.
	require.Len(t, journal.records, 1)
	assert.Equal(t, 64.0, journal.records[0].Total)
}

func TestFinalizeDeliveryRequiresAddress(t *testing.T) {
	s := newTestService(&mockSubmitter{}, nil)
	addPizza(t, s, "s1")

	_, err := s.Finalize(context.Background(), "s1", FinalizeParams{
		PaymentMethodID: "pm-1",
		ServiceType:     models.ServiceDelivery,
	})
	assert.ErrorIs(t, err, ErrNoAddress)

	order, err := s.Finalize(context.Background(), "s1", FinalizeParams{
		PaymentMethodID: "pm-1",
		ServiceType:     models.ServiceDelivery,
		DeliveryAddress: "Main St 1",
	})
	require.NoError(t, err)
	assert.NotNil(t, order)
}

func TestFinalizeValidation(t *testing.T) {
	s := newTestService(&mockSubmitter{}, nil)

	_, err := s.Finalize(context.Background(), "empty", FinalizeParams{
		PaymentMethodID: "pm-1",
		ServiceType:     models.ServiceCounter,
	})
	assert.ErrorIs(t, err, ErrEmptyCart)

	addPizza(t, s, "s1")

	_, err = s.Finalize(context.Background(), "s1", FinalizeParams{ServiceType: models.ServiceCounter})
	assert.ErrorIs(t, err, ErrNoPaymentMethod)

	_, err = s.Finalize(context.Background(), "s1", FinalizeParams{PaymentMethodID: "pm-1"})
	assert.ErrorIs(t, err, ErrNoServiceType)

	_, err = s.Finalize(context.Background(), "s1", FinalizeParams{PaymentMethodID: "pm-1", ServiceType: models.ServiceTable})
	assert.ErrorIs(t, err, ErrNoTable)

	_, err = s.Finalize(context.Background(), "s1", FinalizeParams{PaymentMethodID: "pm-1", ServiceType: "drive-in"})
	assert.ErrorIs(t, err, ErrUnknownService)
}

func TestFinalizeFailureKeepsCart(t *testing.T) {
	sub := &mockSubmitter{err: errors.New("backend down")}
	s := newTestService(sub, nil)
	addPizza(t, s, "s1")

	_, err := s.Finalize(context.Background(), "s1", FinalizeParams{
		PaymentMethodID: "pm-1",
		ServiceType:     models.ServiceCounter,
	})
	require.Error(t, err)

	// The operator can retry without rebuilding the order.
	draft, err := s.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, draft.Lines, 1)
	assert.Equal(t, 1, draft.Lines[0].Quantity)
}
