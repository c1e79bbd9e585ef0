package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mealmate525/ecommerce-bakend/internal/domain"
	"github.com/mealmate525/ecommerce-bakend/internal/repository/order_repo"
)

type pgOrderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewOrderRepository(db *sql.DB, l *zap.Logger) order_repo.OrderRepository {
	return &pgOrderRepository{db: db, logger: l}
}

const selectOrderQuery = `
	SELECT o.id, o.total_discounted_price, o.order_status,
	       o.payment_method, o.payment_id, o.payment_status,
	       o.created_at, o.updated_at,
	       u.id, u.first_name, u.email
	FROM orders o
	JOIN users u ON u.id = o.user_id
	WHERE o.id = $1`

func (r *pgOrderRepository) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	order := &domain.Order{}
	err := r.db.QueryRowContext(ctx, selectOrderQuery, id).Scan(
		&order.ID,
		&order.TotalDiscountedPrice,
		&order.OrderStatus,
		&order.PaymentDetails.PaymentMethod,
		&order.PaymentDetails.PaymentID,
		&order.PaymentDetails.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.User.ID,
		&order.User.FirstName,
		&order.User.Email,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		r.logger.Error("Failed to get order by ID", zap.Int64("order_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get order by ID %d: %w", id, err)
	}
	return order, nil
}

const saveOrderQuery = `
	INSERT INTO orders (id, user_id, total_discounted_price, order_status, payment_method, payment_id, payment_status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO UPDATE SET
		user_id = EXCLUDED.user_id,
		total_discounted_price = EXCLUDED.total_discounted_price,
		order_status = EXCLUDED.order_status,
		payment_method = EXCLUDED.payment_method,
		payment_id = EXCLUDED.payment_id,
		payment_status = EXCLUDED.payment_status,
		updated_at = EXCLUDED.updated_at
	RETURNING created_at, updated_at`

func (r *pgOrderRepository) SaveOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}

	saved := *order
	err := r.db.QueryRowContext(ctx, saveOrderQuery,
		order.ID,
		order.User.ID,
		order.TotalDiscountedPrice,
		string(order.OrderStatus),
		order.PaymentDetails.PaymentMethod,
		order.PaymentDetails.PaymentID,
		string(order.PaymentDetails.Status),
		order.CreatedAt,
		order.UpdatedAt,
	).Scan(&saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to save order", zap.Int64("order_id", order.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to save order %d: %w", order.ID, err)
	}
	r.logger.Debug("Order saved successfully",
		zap.Int64("order_id", order.ID),
		zap.String("order_status", string(order.OrderStatus)),
		zap.String("payment_status", string(order.PaymentDetails.Status)))
	return &saved, nil
}
