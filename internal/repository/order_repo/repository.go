package order_repo

import (
	"context"

	"github.com/mealmate525/ecommerce-bakend/internal/domain"
)

// OrderRepository is the order store this service reads from and writes back to.
// GetOrderByID returns domain.ErrOrderNotFound for unknown IDs. SaveOrder
// overwrites every mutable column of the order (last writer wins).
type OrderRepository interface {
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	SaveOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
}
