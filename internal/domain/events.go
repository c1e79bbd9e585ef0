package domain

import "time"

// PaymentConfirmedEvent is published after a captured payment has been stored on the order.
type PaymentConfirmedEvent struct {
	EventID       string    `json:"event_id"`
	OrderID       int64     `json:"order_id"`
	UserID        int64     `json:"user_id"`
	PaymentID     string    `json:"payment_id"`
	PaymentStatus string    `json:"payment_status"`
	OrderStatus   string    `json:"order_status"`
	Timestamp     time.Time `json:"timestamp"`
}
