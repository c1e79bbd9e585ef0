package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mealmate525/ecommerce-bakend/internal/domain"
	"github.com/mealmate525/ecommerce-bakend/internal/repository/order_repo"
)

// OrderRepository keeps copies of orders so callers never share state with the store.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[int64]domain.Order
	saves  int
}

var _ order_repo.OrderRepository = (*OrderRepository)(nil)

func NewOrderRepository(seed ...*domain.Order) *OrderRepository {
	r := &OrderRepository{orders: make(map[int64]domain.Order, len(seed))}
	for _, o := range seed {
		r.orders[o.ID] = *o
	}
	return r
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &o, nil
}

func (r *OrderRepository) SaveOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}
	r.orders[order.ID] = *order
	r.saves++
	saved := *order
	return &saved, nil
}

// Saves reports how many times SaveOrder has been called.
func (r *OrderRepository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}
