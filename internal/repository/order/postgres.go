package order

import (
	"context"
	"errors"
	"io"
	"log"

	"reshambazaar/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) CreateFromCart(ctx context.Context, in CreateFromCartInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Locking the cart lines serializes concurrent checkouts for the same user:
	// the second one proceeds only after this commit and then sees no lines.
	// The inner join drops lines whose product vanished.
	rows, err := tx.Query(ctx, `
SELECT cl.product_id::text, p.name, p.price_cents, cl.quantity
FROM cart_lines cl
JOIN products p ON p.id = cl.product_id
WHERE cl.user_id = $1
ORDER BY cl.added_at ASC
FOR UPDATE OF cl
`, in.UserID)
	if err != nil {
		return nil, err
	}

	var lines []domain.OrderLine
	var subtotal int64
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ProductID, &line.ProductName, &line.UnitPriceCents, &line.Quantity); err != nil {
			rows.Close()
			return nil, err
		}
		subtotal += line.UnitPriceCents * int64(line.Quantity)
		lines = append(lines, line)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	result := domain.ApplyCoupon(in.Coupon, subtotal, in.Now)
	var couponCode *string
	if result.Valid && in.Coupon != nil {
		couponCode = &in.Coupon.Code
	}

	order := domain.Order{
		ID:              in.OrderID,
		UserID:          in.UserID,
		SubtotalCents:   subtotal,
		DiscountCents:   result.DiscountCents,
		TotalCents:      result.FinalTotalCents,
		CouponCode:      couponCode,
		Status:          domain.OrderPending,
		ShippingAddress: in.ShippingAddress,
		Lines:           lines,
	}

	if err := tx.QueryRow(ctx, `
INSERT INTO orders (id, user_id, subtotal_cents, discount_cents, total_cents, coupon_code, status, shipping_address)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_at
`, order.ID, order.UserID, order.SubtotalCents, order.DiscountCents, order.TotalCents,
		order.CouponCode, order.Status, order.ShippingAddress,
	).Scan(&order.CreatedAt); err != nil {
		return nil, err
	}

	consumed := make([]string, 0, len(lines))
	for i, line := range lines {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_lines (order_id, position, product_id, product_name, unit_price_cents, quantity)
VALUES ($1, $2, $3, $4, $5, $6)
`, order.ID, i, line.ProductID, line.ProductName, line.UnitPriceCents, line.Quantity); err != nil {
			return nil, err
		}
		consumed = append(consumed, line.ProductID)
	}

	// Delete only the lines that made it into the snapshot; orphaned lines
	// stay untouched.
	if _, err := tx.Exec(ctx, `
DELETE FROM cart_lines
WHERE user_id = $1 AND product_id::text = ANY($2)
`, in.UserID, consumed); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	r.logger.Printf("order repo: created order id=%s user=%s total_cents=%d lines=%d",
		order.ID, order.UserID, order.TotalCents, len(order.Lines))
	return &order, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, created_at, subtotal_cents, discount_cents, total_cents, coupon_code, status, shipping_address
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	index := make(map[string]int)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}

	lineRows, err := r.pool.Query(ctx, `
SELECT ol.order_id::text, ol.product_id::text, ol.product_name, ol.unit_price_cents, ol.quantity
FROM order_lines ol
JOIN orders o ON o.id = ol.order_id
WHERE o.user_id = $1
ORDER BY ol.order_id, ol.position ASC
`, userID)
	if err != nil {
		return nil, err
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var orderID string
		var line domain.OrderLine
		if err := lineRows.Scan(&orderID, &line.ProductID, &line.ProductName, &line.UnitPriceCents, &line.Quantity); err != nil {
			return nil, err
		}
		if i, ok := index[orderID]; ok {
			orders[i].Lines = append(orders[i].Lines, line)
		}
	}
	if err := lineRows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id::text, user_id::text, created_at, subtotal_cents, discount_cents, total_cents, coupon_code, status, shipping_address
FROM orders
WHERE id::text = $1
`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT product_id::text, product_name, unit_price_cents, quantity
FROM order_lines
WHERE order_id::text = $1
ORDER BY position ASC
`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ProductID, &line.ProductName, &line.UnitPriceCents, &line.Quantity); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET status = $3
WHERE id::text = $1 AND status = $2
`, id, from, to)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	r.logger.Printf("order repo: status id=%s %s -> %s", id, from, to)
	return nil
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.CreatedAt,
		&o.SubtotalCents,
		&o.DiscountCents,
		&o.TotalCents,
		&o.CouponCode,
		&o.Status,
		&o.ShippingAddress,
	)
	return o, err
}
