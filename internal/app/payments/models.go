package payments

import (
	"errors"
	"fmt"

	"github.com/mealmate525/ecommerce-bakend/internal/gateway/razorpay"
)

const OrderPlacedMessage = "Your order has been placed successfully"

type PaymentLinkResponse struct {
	PaymentLinkID  string `json:"payment_link_id"`
	PaymentLinkURL string `json:"payment_link_url"`
}

type ConfirmationResponse struct {
	Message string `json:"message"`
	Status  bool   `json:"status"`
}

var ErrGatewayFailure = errors.New("payment gateway failure")

// GatewayError is the single error kind callers see for any gateway failure.
// Kind keeps the gateway's own classification for logs; the underlying error is not retained.
type GatewayError struct {
	Op      string
	Kind    string
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s failed: %s", e.Op, e.Message)
}

func (e *GatewayError) Unwrap() error { return ErrGatewayFailure }

func newGatewayError(op string, err error) *GatewayError {
	gwErr := &GatewayError{Op: op, Kind: "unknown", Message: err.Error()}
	var rzErr *razorpay.Error
	if errors.As(err, &rzErr) {
		gwErr.Kind = string(rzErr.Kind)
		gwErr.Message = rzErr.Description
	}
	return gwErr
}
