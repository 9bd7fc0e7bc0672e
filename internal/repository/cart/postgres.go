package cart

import (
	"context"
	"errors"

	"reshambazaar/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Upsert(ctx context.Context, userID, productID string, quantity int) error {
	const q = `
INSERT INTO cart_lines (user_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, product_id)
DO UPDATE SET quantity = cart_lines.quantity + excluded.quantity
`
	_, err := r.pool.Exec(ctx, q, userID, productID, quantity)
	return mapConflict(err)
}

func (r *postgresRepo) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	const q = `
UPDATE cart_lines
SET quantity = $3
WHERE user_id = $1 AND product_id::text = $2
`
	cmd, err := r.pool.Exec(ctx, q, userID, productID, quantity)
	if err != nil {
		return mapConflict(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, userID, productID string) error {
	const q = `
DELETE FROM cart_lines
WHERE user_id = $1 AND product_id::text = $2
`
	_, err := r.pool.Exec(ctx, q, userID, productID)
	return err
}

func (r *postgresRepo) Clear(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE user_id = $1`, userID)
	return err
}

func (r *postgresRepo) Snapshot(ctx context.Context, userID string) ([]domain.CartItem, error) {
	const q = `
SELECT cl.product_id::text, p.name, p.price_cents, cl.quantity
FROM cart_lines cl
JOIN products p ON p.id = cl.product_id
WHERE cl.user_id = $1
ORDER BY cl.added_at ASC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var it domain.CartItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.UnitPriceCents, &it.Quantity); err != nil {
			return nil, err
		}
		it.LineTotalCents = it.UnitPriceCents * int64(it.Quantity)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *postgresRepo) Count(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
SELECT COALESCE(SUM(quantity), 0)
FROM cart_lines
WHERE user_id = $1
`, userID).Scan(&count)
	return count, err
}

// mapConflict converts unique-violation errors into domain.ErrConflict so
// callers can retry naturally idempotent mutations.
func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrConflict
	}
	return err
}
