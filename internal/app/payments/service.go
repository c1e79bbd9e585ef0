package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mealmate525/ecommerce-bakend/internal/auth"
	"github.com/mealmate525/ecommerce-bakend/internal/domain"
	"github.com/mealmate525/ecommerce-bakend/internal/gateway/razorpay"
	"github.com/mealmate525/ecommerce-bakend/internal/repository/order_repo"
	"github.com/mealmate525/ecommerce-bakend/internal/util"
)

type Gateway interface {
	CreatePaymentLink(ctx context.Context, req razorpay.PaymentLinkRequest) (*razorpay.PaymentLink, error)
	FetchPayment(ctx context.Context, paymentID string) (*razorpay.Payment, error)
}

type EventPublisher interface {
	PublishPaymentConfirmed(ctx context.Context, event *domain.PaymentConfirmedEvent) error
}

type Config struct {
	Currency        string
	CallbackBaseURL string
}

type PaymentService interface {
	IssuePaymentLink(ctx context.Context, orderID int64, callerIdentity string) (*PaymentLinkResponse, error)
	ConfirmPayment(ctx context.Context, paymentID string, orderID int64) (*ConfirmationResponse, error)
}

type paymentService struct {
	cfg       Config
	orderRepo order_repo.OrderRepository
	gateway   Gateway
	events    EventPublisher
	logger    *zap.Logger
}

// NewPaymentService wires the payment flows. events may be nil, in which case
// no payment events are published.
func NewPaymentService(
	cfg Config,
	orderRepo order_repo.OrderRepository,
	gateway Gateway,
	events EventPublisher,
	logger *zap.Logger,
) PaymentService {
	return &paymentService{
		cfg:       cfg,
		orderRepo: orderRepo,
		gateway:   gateway,
		events:    events,
		logger:    logger,
	}
}

func (s *paymentService) IssuePaymentLink(ctx context.Context, orderID int64, callerIdentity string) (*PaymentLinkResponse, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	req := razorpay.PaymentLinkRequest{
		Amount:   ToMinorUnits(order.TotalDiscountedPrice),
		Currency: s.cfg.Currency,
		Customer: razorpay.Customer{
			Name:  order.User.FirstName,
			Email: order.User.Email,
		},
		Notify:         razorpay.Notify{SMS: true, Email: true},
		CallbackURL:    s.callbackURL(orderID),
		CallbackMethod: razorpay.CallbackMethodGet,
	}

	link, err := s.gateway.CreatePaymentLink(ctx, req)
	if err != nil {
		gwErr := newGatewayError("create payment link", err)
		s.logger.Error("Failed to create payment link",
			zap.Int64("order_id", orderID),
			zap.String("gateway_error_kind", gwErr.Kind),
			zap.Error(err))
		return nil, gwErr
	}

	s.logger.Info("Payment link created",
		zap.Int64("order_id", orderID),
		zap.String("caller", auth.Subject(callerIdentity)),
		zap.String("payment_link_id", link.ID),
		zap.Int64("amount", req.Amount),
		zap.String("currency", req.Currency))

	return &PaymentLinkResponse{
		PaymentLinkID:  link.ID,
		PaymentLinkURL: link.ShortURL,
	}, nil
}

// ConfirmPayment acknowledges success whenever the gateway could be queried,
// whatever the payment status. Only a captured payment changes the order.
func (s *paymentService) ConfirmPayment(ctx context.Context, paymentID string, orderID int64) (*ConfirmationResponse, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	payment, err := s.gateway.FetchPayment(ctx, paymentID)
	if err != nil {
		gwErr := newGatewayError("fetch payment", err)
		s.logger.Error("Failed to fetch payment",
			zap.Int64("order_id", orderID),
			zap.String("payment_id", paymentID),
			zap.String("gateway_error_kind", gwErr.Kind),
			zap.Error(err))
		return nil, gwErr
	}

	if payment.Status == razorpay.PaymentStatusCaptured {
		order.MarkPaymentCompleted(paymentID)
		saved, err := s.orderRepo.SaveOrder(ctx, order)
		if err != nil {
			s.logger.Error("Failed to save order after captured payment",
				zap.Int64("order_id", orderID),
				zap.String("payment_id", paymentID),
				zap.Error(err))
			return nil, fmt.Errorf("failed to save order %d: %w", orderID, err)
		}
		s.logger.Info("Payment captured, order placed",
			zap.Int64("order_id", orderID),
			zap.String("payment_id", paymentID))
		s.publishConfirmed(ctx, saved)
	} else {
		s.logger.Warn("Payment not captured, order left unchanged",
			zap.Int64("order_id", orderID),
			zap.String("payment_id", paymentID),
			zap.String("gateway_status", payment.Status))
	}

	return &ConfirmationResponse{
		Message: OrderPlacedMessage,
		Status:  true,
	}, nil
}

func (s *paymentService) findOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			s.logger.Info("Order not found", zap.Int64("order_id", orderID))
			return nil, domain.ErrOrderNotFound
		}
		s.logger.Error("Failed to get order from repository", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, fmt.Errorf("failed to get order %d: %w", orderID, err)
	}
	return order, nil
}

func (s *paymentService) publishConfirmed(ctx context.Context, order *domain.Order) {
	if s.events == nil {
		return
	}
	event := &domain.PaymentConfirmedEvent{
		EventID:       util.NewEventID(),
		OrderID:       order.ID,
		UserID:        order.User.ID,
		PaymentID:     order.PaymentDetails.PaymentID,
		PaymentStatus: string(order.PaymentDetails.Status),
		OrderStatus:   string(order.OrderStatus),
		Timestamp:     time.Now().UTC(),
	}
	if err := s.events.PublishPaymentConfirmed(ctx, event); err != nil {
		s.logger.Error("Failed to publish payment confirmed event",
			zap.Int64("order_id", order.ID),
			zap.String("event_id", event.EventID),
			zap.Error(err))
	}
}

func (s *paymentService) callbackURL(orderID int64) string {
	return strings.TrimRight(s.cfg.CallbackBaseURL, "/") + "/" + strconv.FormatInt(orderID, 10)
}

// ToMinorUnits converts a price with at most two decimals into integer minor
// currency units, rounding half away from zero.
func ToMinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
}
