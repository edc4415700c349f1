package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mercadia/mercadia-backend/internal/checkout"
	"github.com/mercadia/mercadia-backend/pkg/db/models"
	"github.com/mercadia/mercadia-backend/pkg/enums"
	pkgerrors "github.com/mercadia/mercadia-backend/pkg/errors"
	"github.com/mercadia/mercadia-backend/pkg/pagination"
)

type stubOrderRepo struct {
	orders     []*models.Order
	items      [][]models.OrderItem
	payments   []*models.Payment
	paidIDs    []uuid.UUID
	deliveries []*models.Delivery

	paymentErr  error
	deliveryErr error
}

func (s *stubOrderRepo) CreateOrder(_ context.Context, order *models.Order) (*models.Order, error) {
	order.ID = uuid.New()
	s.orders = append(s.orders, order)
	return order, nil
}

func (s *stubOrderRepo) CreateItems(_ context.Context, items []models.OrderItem) error {
	s.items = append(s.items, items)
	return nil
}

func (s *stubOrderRepo) CreatePayment(_ context.Context, payment *models.Payment) (*models.Payment, error) {
	if s.paymentErr != nil {
		return nil, s.paymentErr
	}
	payment.ID = uuid.New()
	s.payments = append(s.payments, payment)
	return payment, nil
}

func (s *stubOrderRepo) MarkPaymentPaid(_ context.Context, paymentID uuid.UUID) error {
	s.paidIDs = append(s.paidIDs, paymentID)
	return nil
}

func (s *stubOrderRepo) CreateDelivery(_ context.Context, delivery *models.Delivery) error {
	if s.deliveryErr != nil {
		return s.deliveryErr
	}
	s.deliveries = append(s.deliveries, delivery)
	return nil
}

func (s *stubOrderRepo) FindByID(_ context.Context, _, _ uuid.UUID) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) ListByUser(_ context.Context, _ uuid.UUID, _ pagination.Params) ([]models.Order, error) {
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

type stubQuoter struct {
	quote *checkout.Quote
	err   error
}

func (s *stubQuoter) Quote(_ context.Context, _ uuid.UUID, _ checkout.QuoteInput) (*checkout.Quote, error) {
	return s.quote, s.err
}

type stubCommissionRPC struct {
	commissioned []uuid.UUID
}

func (s *stubCommissionRPC) IncrementCouponUsage(_ context.Context, _ uuid.UUID) error { return nil }

func (s *stubCommissionRPC) CheapestDeliveryOption(_ context.Context, _ uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubCommissionRPC) CalculateOrderCommissions(_ context.Context, orderID uuid.UUID) error {
	s.commissioned = append(s.commissioned, orderID)
	return nil
}

func sampleQuote(method string) *checkout.Quote {
	return &checkout.Quote{
		Items: []checkout.QuotedItem{
			{
				ProductID:   uuid.New(),
				ProductName: "Desk Lamp",
				SKU:         "LAMP-1",
				Quantity:    2,
				UnitPrice:   decimal.RequireFromString("20"),
				LineTotal:   decimal.RequireFromString("40"),
			},
		},
		Summary: checkout.Summary{
			Subtotal:       decimal.RequireFromString("40"),
			DiscountAmount: decimal.Zero,
			ShippingAmount: decimal.RequireFromString("5"),
			TaxAmount:      decimal.Zero,
			TotalAmount:    decimal.RequireFromString("45"),
		},
		PaymentMethod: method,
	}
}

func TestCreatePersistsOrderItemsPaymentDelivery(t *testing.T) {
	repo := &stubOrderRepo{}
	svc, err := NewService(repo, &stubQuoter{quote: sampleQuote("card")}, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	order, err := svc.Create(context.Background(), uuid.New(), checkout.QuoteInput{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if order.OrderNumber == "" {
		t.Fatal("expected a synthesized order number")
	}
	if got := order.TotalAmount.String(); got != "45" {
		t.Fatalf("expected total 45, got %s", got)
	}
	if len(repo.items) != 1 || len(repo.items[0]) != 1 {
		t.Fatalf("expected one order item batch, got %+v", repo.items)
	}
	if len(repo.payments) != 1 || repo.payments[0].Status != enums.PaymentStatusPending {
		t.Fatalf("expected a pending payment stub, got %+v", repo.payments)
	}
	if len(repo.paidIDs) != 0 {
		t.Fatal("card payment should stay pending")
	}
	if len(repo.deliveries) != 1 {
		t.Fatalf("expected a delivery stub, got %d", len(repo.deliveries))
	}
	d := repo.deliveries[0]
	if d.TrackingNumber == "" {
		t.Fatal("expected a synthesized tracking number")
	}
	if !d.EstimatedAt.After(order.CreatedAt) {
		t.Fatal("expected a future delivery estimate")
	}
}

func TestCreateCashOnDeliveryFlipsPaymentToPaid(t *testing.T) {
	repo := &stubOrderRepo{}
	rpc := &stubCommissionRPC{}
	svc, _ := NewService(repo, &stubQuoter{quote: sampleQuote("cash_on_delivery")}, nil, rpc, nil, nil)

	order, err := svc.Create(context.Background(), uuid.New(), checkout.QuoteInput{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(repo.paidIDs) != 1 || repo.paidIDs[0] != repo.payments[0].ID {
		t.Fatal("expected the payment stub to be marked paid")
	}
	if len(rpc.commissioned) != 1 || rpc.commissioned[0] != order.ID {
		t.Fatal("expected the commission calculation to run")
	}
	if order.Payments[0].Status != enums.PaymentStatusPaid {
		t.Fatalf("expected a paid payment on the response, got %s", order.Payments[0].Status)
	}
}

func TestCreateSurvivesPaymentAndDeliveryFailure(t *testing.T) {
	repo := &stubOrderRepo{
		paymentErr:  errors.New("payments table locked"),
		deliveryErr: errors.New("deliveries table locked"),
	}
	svc, _ := NewService(repo, &stubQuoter{quote: sampleQuote("card")}, nil, nil, nil, nil)

	order, err := svc.Create(context.Background(), uuid.New(), checkout.QuoteInput{})
	if err != nil {
		t.Fatalf("expected order creation to succeed, got %v", err)
	}
	if order == nil || len(repo.orders) != 1 {
		t.Fatal("expected the order row to persist")
	}
}

func TestCreateTotalOverrideFromCents(t *testing.T) {
	repo := &stubOrderRepo{}
	svc, _ := NewService(repo, &stubQuoter{quote: sampleQuote("card")}, nil, nil, nil, nil)

	cents := int64(15000)
	order, err := svc.Create(context.Background(), uuid.New(), checkout.QuoteInput{
		TotalAmountCents: &cents,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := order.TotalAmount.String(); got != "150" {
		t.Fatalf("expected total 150, got %s", got)
	}
}

func TestCreatePropagatesQuoteErrors(t *testing.T) {
	quoteErr := pkgerrors.New(pkgerrors.CodeValidation, "No items to checkout")
	svc, _ := NewService(&stubOrderRepo{}, &stubQuoter{err: quoteErr}, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), uuid.New(), checkout.QuoteInput{})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected the quote error to propagate, got %v", err)
	}
}

func TestGetUnknownOrderReturnsNotFound(t *testing.T) {
	svc, _ := NewService(&stubOrderRepo{}, &stubQuoter{quote: sampleQuote("card")}, nil, nil, nil, nil)

	_, err := svc.Get(context.Background(), uuid.New(), uuid.New())
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected a not-found error, got %v", err)
	}
}
