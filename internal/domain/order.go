package domain

import (
	"errors"
	"time"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "PENDING"
	OrderStatusPlaced  OrderStatus = "PLACED"
)

type PaymentStatus string

const (
	PaymentStatusUnset     PaymentStatus = ""
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
)

type User struct {
	ID        int64
	FirstName string
	Email     string
}

// PaymentDetails is embedded in the order row; PaymentMethod is carried through untouched.
type PaymentDetails struct {
	PaymentMethod string
	PaymentID     string
	Status        PaymentStatus
}

type Order struct {
	ID                   int64
	User                 User
	TotalDiscountedPrice float64
	PaymentDetails       PaymentDetails
	OrderStatus          OrderStatus
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// MarkPaymentCompleted records a captured gateway payment and places the order.
// Calling it again with the same payment ID leaves the order in the same state.
func (o *Order) MarkPaymentCompleted(paymentID string) {
	o.PaymentDetails.PaymentID = paymentID
	o.PaymentDetails.Status = PaymentStatusCompleted
	o.OrderStatus = OrderStatusPlaced
	o.UpdatedAt = time.Now()
}

func (o *Order) IsPaid() bool {
	return o.PaymentDetails.Status == PaymentStatusCompleted
}
