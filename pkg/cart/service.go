package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/posbridge/pkg/backend"
	"github.com/example/posbridge/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart       = errors.New("cart: no items in cart")
	ErrNoPaymentMethod = errors.New("cart: payment method is required")
	ErrNoServiceType   = errors.New("cart: service type is required")
	ErrNoTable         = errors.New("cart: table is required for table service")
	ErrNoAddress       = errors.New("cart: delivery address is required")
	ErrUnknownService  = errors.New("cart: unknown service type")
)

// OrderSubmitter sends the finalize payload to the platform backend.
type OrderSubmitter interface {
	CreateOrder(ctx context.Context, req backend.CreateOrderRequest) (*backend.Order, error)
}

// Journal records finalized orders locally.
type Journal interface {
	Append(rec *models.OrderRecord) error
}

// Service composes draft orders for POS sessions and finalizes them against
// the backend.
type Service struct {
	store     Store
	submitter OrderSubmitter
	journal   Journal
	tenant    string
	logger    *zap.Logger
}

func NewService(store Store, submitter OrderSubmitter, journal Journal, tenant string, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		submitter: submitter,
		journal:   journal,
		tenant:    tenant,
		logger:    logger,
	}
}

func (s *Service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	return s.store.Get(ctx, sessionID)
}

func (s *Service) AddItem(ctx context.Context, sessionID string, sel Selection) (*Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart.AddItem(sel)
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Service) IncrementItem(ctx context.Context, sessionID, key string) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) bool { return c.IncrementItem(key) })
}

func (s *Service) DecrementItem(ctx context.Context, sessionID, key string) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) bool { return c.DecrementItem(key) })
}

func (s *Service) RemoveItem(ctx context.Context, sessionID, key string) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) bool { return c.RemoveItem(key) })
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

func (s *Service) mutate(ctx context.Context, sessionID string, fn func(*Cart) bool) (*Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !fn(cart) {
		return nil, fmt.Errorf("cart: line not found")
	}
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// FinalizeParams carries the checkout choices made on the POS screen.
type FinalizeParams struct {
	PaymentMethodID string
	ServiceType     string
	TableID         string
	DeliveryAddress string
	Comment         string
}

func (p FinalizeParams) validate() error {
	if p.PaymentMethodID == "" {
		return ErrNoPaymentMethod
	}
	switch p.ServiceType {
	case "":
		return ErrNoServiceType
	case models.ServiceTable:
		if p.TableID == "" {
			return ErrNoTable
		}
	case models.ServiceDelivery:
		if p.DeliveryAddress == "" {
			return ErrNoAddress
		}
	case models.ServiceCounter, models.ServicePickup:
	default:
		return ErrUnknownService
	}
	return nil
}

// Finalize validates the draft, submits it, and clears the cart only on
// success so the operator can retry a failed submit without rebuilding it.
func (s *Service) Finalize(ctx context.Context, sessionID string, params FinalizeParams) (*backend.Order, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.Empty() {
		return nil, ErrEmptyCart
	}
	if err := params.validate(); err != nil {
		return nil, err
	}

	req := backend.CreateOrderRequest{
		Token:           s.tenant,
		ServiceType:     params.ServiceType,
		PaymentMethodID: params.PaymentMethodID,
		Comment:         params.Comment,
		Products:        make([]backend.OrderProduct, 0, len(cart.Lines)),
	}
	switch params.ServiceType {
	case models.ServiceTable:
		req.Table = params.TableID
	case models.ServiceDelivery:
		req.DeliveryAddress = params.DeliveryAddress
	}
	for _, line := range cart.Lines {
		req.Products = append(req.Products, backend.OrderProduct{
			Identify: line.ProductIdentify,
			Qty:      line.Quantity,
			Price:    line.UnitPrice,
		})
	}

	order, err := s.submitter.CreateOrder(ctx, req)
	if err != nil {
		// Cart stays intact for retry.
		return nil, err
	}

	if s.journal != nil {
		if err := s.journal.Append(s.record(cart, order, params)); err != nil {
			s.logger.Warn("failed to journal finalized order",
				zap.String("order_id", order.ID),
				zap.Error(err))
		}
	}

	if err := s.store.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("failed to clear cart after finalize",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}

	return order, nil
}

func (s *Service) record(cart *Cart, order *backend.Order, params FinalizeParams) *models.OrderRecord {
	totals := cart.ComputeTotals()
	rec := &models.OrderRecord{
		ID:              uuid.NewString(),
		OrderIdentify:   order.Identify,
		Tenant:          s.tenant,
		ServiceType:     params.ServiceType,
		PaymentMethodID: params.PaymentMethodID,
		TableID:         params.TableID,
		DeliveryAddress: params.DeliveryAddress,
		Subtotal:        totals.Subtotal,
		Taxes:           totals.Taxes,
		Discounts:       totals.Discounts,
		Total:           totals.Total,
	}
	for _, line := range cart.Lines {
		rec.Items = append(rec.Items, models.OrderRecordItem{
			OrderRecordID: rec.ID,
			Identify:      line.ProductIdentify,
			VariationID:   line.VariationID,
			Optionals:     line.OptionalsSignature,
			Quantity:      line.Quantity,
			Price:         line.UnitPrice,
		})
	}
	return rec
}
