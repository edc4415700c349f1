package orders

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/mercadia/mercadia-backend/internal/cart"
	"github.com/mercadia/mercadia-backend/internal/checkout"
	"github.com/mercadia/mercadia-backend/pkg/db/models"
	"github.com/mercadia/mercadia-backend/pkg/enums"
	pkgerrors "github.com/mercadia/mercadia-backend/pkg/errors"
	"github.com/mercadia/mercadia-backend/pkg/logger"
	"github.com/mercadia/mercadia-backend/pkg/metrics"
	"github.com/mercadia/mercadia-backend/pkg/money"
	"github.com/mercadia/mercadia-backend/pkg/pagination"
	"github.com/mercadia/mercadia-backend/pkg/platform"
)

const deliveryETADays = 7

// Service creates and lists customer orders.
type Service interface {
	// Create quotes the payload and persists the order, its items, a payment
	// stub and a delivery stub. Only the order and item writes are fatal;
	// the stubs are best-effort.
	Create(ctx context.Context, userID uuid.UUID, input checkout.QuoteInput) (*models.Order, error)
	Get(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, userID uuid.UUID, page pagination.Params) ([]models.Order, error)
}

type service struct {
	repo     Repository
	quoter   checkout.Service
	cartRep  cart.Repository
	rpc      platform.Functions
	logg     *logger.Logger
	metrics  *metrics.CheckoutMetrics
	now      func() time.Time
	tracking func() (string, error)
}

// NewService builds the order service.
func NewService(
	repo Repository,
	quoter checkout.Service,
	cartRep cart.Repository,
	rpc platform.Functions,
	logg *logger.Logger,
	m *metrics.CheckoutMetrics,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if quoter == nil {
		return nil, fmt.Errorf("checkout service required")
	}
	return &service{
		repo:     repo,
		quoter:   quoter,
		cartRep:  cartRep,
		rpc:      rpc,
		logg:     logg,
		metrics:  m,
		now:      time.Now,
		tracking: newTrackingNumber,
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input checkout.QuoteInput) (*models.Order, error) {
	quote, err := s.quoter.Quote(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	total := quote.Summary.TotalAmount
	if override, err := money.Resolve(input.TotalAmount, input.TotalAmountCents); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	} else if override != nil {
		total = money.FloorZero(money.RoundCents(*override))
	}

	method := enums.PaymentMethodCard
	if parsed, err := enums.ParsePaymentMethod(quote.PaymentMethod); err == nil {
		method = parsed
	}

	order := &models.Order{
		UserID:            userID,
		OrderNumber:       newOrderNumber(s.now()),
		Status:            enums.OrderStatusPending,
		Subtotal:          quote.Summary.Subtotal,
		DiscountAmount:    quote.Summary.DiscountAmount,
		ShippingAmount:    quote.Summary.ShippingAmount,
		TaxAmount:         quote.Summary.TaxAmount,
		TotalAmount:       total,
		CouponCode:        input.CouponCode,
		ShippingAddressID: quote.ShippingAddressID,
		BillingAddressID:  quote.BillingAddressID,
	}

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	items := make([]models.OrderItem, 0, len(quote.Items))
	for _, line := range quote.Items {
		items = append(items, models.OrderItem{
			OrderID:     created.ID,
			ProductID:   line.ProductID,
			VariantID:   line.VariantID,
			ProductName: line.ProductName,
			SKU:         line.SKU,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  line.LineTotal,
		})
	}
	if err := s.repo.CreateItems(ctx, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
	}
	created.Items = items

	// Payment and delivery stubs plus housekeeping never fail the request;
	// the order already exists.
	var sideEffects error
	sideEffects = multierr.Append(sideEffects, s.createPaymentStub(ctx, created, method, total))
	sideEffects = multierr.Append(sideEffects, s.createDeliveryStub(ctx, created))
	if quote.FromCart && s.cartRep != nil {
		sideEffects = multierr.Append(sideEffects, s.cartRep.DeleteItemsByUser(ctx, nil, userID))
	}
	if sideEffects != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "order_id", created.ID.String()), fmt.Sprintf("order side effects incomplete: %v", sideEffects))
	}

	s.metrics.IncOrder(method.String())
	s.metrics.ObserveOrderTotal(total.InexactFloat64())

	return created, nil
}

// createPaymentStub writes the pending payment. Cash-on-delivery payments are
// flipped to paid immediately so the platform triggers run the commission
// calculation up front.
func (s *service) createPaymentStub(ctx context.Context, order *models.Order, method enums.PaymentMethod, total money.Amount) error {
	payment := &models.Payment{
		OrderID: order.ID,
		Method:  method,
		Status:  enums.PaymentStatusPending,
		Amount:  total,
	}
	createdPayment, err := s.repo.CreatePayment(ctx, payment)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	order.Payments = []models.Payment{*createdPayment}

	if method != enums.PaymentMethodCashOnDelivery {
		return nil
	}
	if err := s.repo.MarkPaymentPaid(ctx, createdPayment.ID); err != nil {
		return fmt.Errorf("mark payment paid: %w", err)
	}
	order.Payments[0].Status = enums.PaymentStatusPaid
	if s.rpc != nil {
		if err := s.rpc.CalculateOrderCommissions(ctx, order.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) createDeliveryStub(ctx context.Context, order *models.Order) error {
	number, err := s.tracking()
	if err != nil {
		return fmt.Errorf("tracking number: %w", err)
	}
	delivery := &models.Delivery{
		OrderID:        order.ID,
		Status:         enums.DeliveryStatusPending,
		TrackingNumber: number,
		EstimatedAt:    s.now().AddDate(0, 0, deliveryETADays),
	}
	if err := s.repo.CreateDelivery(ctx, delivery); err != nil {
		return fmt.Errorf("create delivery: %w", err)
	}
	order.Deliveries = []models.Delivery{*delivery}
	return nil
}

func (s *service) Get(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, page pagination.Params) ([]models.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

func newOrderNumber(now time.Time) string {
	suffix := make([]byte, 3)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102150405"), hex.EncodeToString(suffix))
}

func newTrackingNumber() (string, error) {
	raw := make([]byte, 8)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return "TRK-" + hex.EncodeToString(raw), nil
}
