package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mealmate525/ecommerce-bakend/internal/domain"
	"github.com/mealmate525/ecommerce-bakend/internal/gateway/razorpay"
	"github.com/mealmate525/ecommerce-bakend/internal/repository/order_repo/memory"
)

type fakeGateway struct {
	linkReqs      []razorpay.PaymentLinkRequest
	fetchIDs      []string
	link          *razorpay.PaymentLink
	paymentStatus string
	err           error
}

func (g *fakeGateway) CreatePaymentLink(ctx context.Context, req razorpay.PaymentLinkRequest) (*razorpay.PaymentLink, error) {
	g.linkReqs = append(g.linkReqs, req)
	if g.err != nil {
		return nil, g.err
	}
	if g.link != nil {
		return g.link, nil
	}
	return &razorpay.PaymentLink{ID: "plink_1", ShortURL: "https://rzp.io/i/1"}, nil
}

func (g *fakeGateway) FetchPayment(ctx context.Context, paymentID string) (*razorpay.Payment, error) {
	g.fetchIDs = append(g.fetchIDs, paymentID)
	if g.err != nil {
		return nil, g.err
	}
	return &razorpay.Payment{ID: paymentID, Status: g.paymentStatus}, nil
}

func (g *fakeGateway) calls() int { return len(g.linkReqs) + len(g.fetchIDs) }

type fakePublisher struct {
	events []*domain.PaymentConfirmedEvent
	err    error
}

func (p *fakePublisher) PublishPaymentConfirmed(ctx context.Context, e *domain.PaymentConfirmedEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func pendingOrder(id int64, total float64) *domain.Order {
	return &domain.Order{
		ID:                   id,
		User:                 domain.User{ID: 7, FirstName: "Asha", Email: "asha@example.com"},
		TotalDiscountedPrice: total,
		OrderStatus:          domain.OrderStatusPending,
	}
}

type fixture struct {
	svc     PaymentService
	repo    *memory.OrderRepository
	gateway *fakeGateway
	events  *fakePublisher
}

func newFixture(orders ...*domain.Order) *fixture {
	f := &fixture{
		repo:    memory.NewOrderRepository(orders...),
		gateway: &fakeGateway{},
		events:  &fakePublisher{},
	}
	f.svc = NewPaymentService(
		Config{Currency: "INR", CallbackBaseURL: "http://localhost:3000/payments/"},
		f.repo, f.gateway, f.events, zap.NewNop(),
	)
	return f
}

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		price float64
		want  int64
	}{
		{199.99, 19999},
		{0.01, 1},
		{0.1, 10},
		{1.005, 101},
		{19.9, 1990},
		{1234.56, 123456},
		{100, 10000},
		{0.29, 29},
		{4.35, 435},
		{1.15, 115},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToMinorUnits(tt.price), "price %v", tt.price)
	}
}

func TestIssuePaymentLink(t *testing.T) {
	f := newFixture(pendingOrder(42, 199.99))
	f.gateway.link = &razorpay.PaymentLink{ID: "plink_42", ShortURL: "https://rzp.io/i/42"}

	res, err := f.svc.IssuePaymentLink(context.Background(), 42, "Bearer token")
	require.NoError(t, err)
	assert.Equal(t, "plink_42", res.PaymentLinkID)
	assert.Equal(t, "https://rzp.io/i/42", res.PaymentLinkURL)

	require.Len(t, f.gateway.linkReqs, 1)
	req := f.gateway.linkReqs[0]
	assert.Equal(t, int64(19999), req.Amount)
	assert.Equal(t, "INR", req.Currency)
	assert.Equal(t, razorpay.Customer{Name: "Asha", Email: "asha@example.com"}, req.Customer)
	assert.Equal(t, razorpay.Notify{SMS: true, Email: true}, req.Notify)
	assert.Equal(t, "http://localhost:3000/payments/42", req.CallbackURL)
	assert.Equal(t, "get", req.CallbackMethod)

	o, err := f.repo.GetOrderByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, o.OrderStatus)
	assert.Equal(t, 0, f.repo.Saves())
}

func TestIssuePaymentLink_OrderNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.IssuePaymentLink(context.Background(), 404, "Bearer token")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.Equal(t, 0, f.gateway.calls())
}

func TestIssuePaymentLink_GatewayFailure(t *testing.T) {
	f := newFixture(pendingOrder(1, 10))
	f.gateway.err = &razorpay.Error{Kind: razorpay.ErrorKindAuthentication, StatusCode: 401, Description: "Authentication failed"}

	_, err := f.svc.IssuePaymentLink(context.Background(), 1, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGatewayFailure)

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "authentication", gwErr.Kind)
	assert.Equal(t, "Authentication failed", gwErr.Message)
	assert.Len(t, f.gateway.linkReqs, 1, "no retry on failure")
}

func TestIssuePaymentLink_UnclassifiedGatewayFailure(t *testing.T) {
	f := newFixture(pendingOrder(1, 10))
	f.gateway.err = errors.New("socket closed")

	_, err := f.svc.IssuePaymentLink(context.Background(), 1, "")
	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "unknown", gwErr.Kind)
	assert.Equal(t, "socket closed", gwErr.Message)
}

func TestConfirmPayment_Captured(t *testing.T) {
	f := newFixture(pendingOrder(42, 199.99))
	f.gateway.paymentStatus = "captured"

	res, err := f.svc.ConfirmPayment(context.Background(), "pay_123", 42)
	require.NoError(t, err)
	assert.Equal(t, &ConfirmationResponse{Message: OrderPlacedMessage, Status: true}, res)

	o, err := f.repo.GetOrderByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPlaced, o.OrderStatus)
	assert.Equal(t, domain.PaymentStatusCompleted, o.PaymentDetails.Status)
	assert.Equal(t, "pay_123", o.PaymentDetails.PaymentID)
	assert.Equal(t, []string{"pay_123"}, f.gateway.fetchIDs)

	require.Len(t, f.events.events, 1)
	ev := f.events.events[0]
	assert.Equal(t, int64(42), ev.OrderID)
	assert.Equal(t, int64(7), ev.UserID)
	assert.Equal(t, "pay_123", ev.PaymentID)
	assert.Equal(t, "COMPLETED", ev.PaymentStatus)
	assert.Equal(t, "PLACED", ev.OrderStatus)
	assert.NotEmpty(t, ev.EventID)
}

func TestConfirmPayment_NotCapturedLeavesOrderUnchanged(t *testing.T) {
	for _, status := range []string{"failed", "pending", "authorized", "refunded", "Captured", "CAPTURED", ""} {
		t.Run(status, func(t *testing.T) {
			f := newFixture(pendingOrder(5, 10))
			before, err := f.repo.GetOrderByID(context.Background(), 5)
			require.NoError(t, err)
			f.gateway.paymentStatus = status

			res, err := f.svc.ConfirmPayment(context.Background(), "pay_5", 5)
			require.NoError(t, err)
			assert.True(t, res.Status)
			assert.Equal(t, OrderPlacedMessage, res.Message)

			after, err := f.repo.GetOrderByID(context.Background(), 5)
			require.NoError(t, err)
			assert.Equal(t, before, after)
			assert.Equal(t, 0, f.repo.Saves())
			assert.Empty(t, f.events.events)
		})
	}
}

func TestConfirmPayment_OrderNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ConfirmPayment(context.Background(), "pay_1", 404)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.Equal(t, 0, f.gateway.calls())
}

func TestConfirmPayment_GatewayFailure(t *testing.T) {
	f := newFixture(pendingOrder(1, 10))
	f.gateway.err = &razorpay.Error{Kind: razorpay.ErrorKindTransport, Description: "dial tcp: i/o timeout"}

	_, err := f.svc.ConfirmPayment(context.Background(), "pay_1", 1)
	assert.ErrorIs(t, err, ErrGatewayFailure)
	assert.Equal(t, 0, f.repo.Saves())
}

func TestConfirmPayment_RepeatedCaptureIsStateIdempotent(t *testing.T) {
	f := newFixture(pendingOrder(9, 50))
	f.gateway.paymentStatus = "captured"

	_, err := f.svc.ConfirmPayment(context.Background(), "pay_9", 9)
	require.NoError(t, err)
	once, err := f.repo.GetOrderByID(context.Background(), 9)
	require.NoError(t, err)

	_, err = f.svc.ConfirmPayment(context.Background(), "pay_9", 9)
	require.NoError(t, err)
	twice, err := f.repo.GetOrderByID(context.Background(), 9)
	require.NoError(t, err)

	assert.Equal(t, 2, f.repo.Saves(), "each confirmation writes")
	assert.Equal(t, once.OrderStatus, twice.OrderStatus)
	assert.Equal(t, once.PaymentDetails, twice.PaymentDetails)
	assert.Equal(t, once.TotalDiscountedPrice, twice.TotalDiscountedPrice)
	assert.Equal(t, once.User, twice.User)
}

func TestConfirmPayment_PublishFailureDoesNotFailConfirmation(t *testing.T) {
	f := newFixture(pendingOrder(3, 10))
	f.gateway.paymentStatus = "captured"
	f.events.err = errors.New("broker down")

	res, err := f.svc.ConfirmPayment(context.Background(), "pay_3", 3)
	require.NoError(t, err)
	assert.True(t, res.Status)

	o, err := f.repo.GetOrderByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPlaced, o.OrderStatus)
}

type failingSaveRepo struct {
	*memory.OrderRepository
}

func (r failingSaveRepo) SaveOrder(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	return nil, errors.New("disk full")
}

func TestConfirmPayment_SaveFailure(t *testing.T) {
	gw := &fakeGateway{paymentStatus: "captured"}
	svc := NewPaymentService(Config{Currency: "INR"}, failingSaveRepo{memory.NewOrderRepository(pendingOrder(1, 10))}, gw, nil, zap.NewNop())

	_, err := svc.ConfirmPayment(context.Background(), "pay_1", 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrGatewayFailure)
	assert.NotErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestPaymentFlow_EndToEnd(t *testing.T) {
	f := newFixture(pendingOrder(42, 199.99))
	f.gateway.link = &razorpay.PaymentLink{ID: "plink_42", ShortURL: "https://rzp.io/i/42"}

	link, err := f.svc.IssuePaymentLink(context.Background(), 42, "Bearer token")
	require.NoError(t, err)
	assert.Equal(t, "plink_42", link.PaymentLinkID)
	assert.Equal(t, int64(19999), f.gateway.linkReqs[0].Amount)
	assert.Equal(t, "INR", f.gateway.linkReqs[0].Currency)

	f.gateway.paymentStatus = "captured"
	ack, err := f.svc.ConfirmPayment(context.Background(), "pay_42", 42)
	require.NoError(t, err)
	assert.True(t, ack.Status)

	o, err := f.repo.GetOrderByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPlaced, o.OrderStatus)
	assert.Equal(t, domain.PaymentStatusCompleted, o.PaymentDetails.Status)
	assert.Equal(t, "pay_42", o.PaymentDetails.PaymentID)
}
