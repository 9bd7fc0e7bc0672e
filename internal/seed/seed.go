package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Name        string
	Description string
	PriceCents  int64
	Stock       int
}

type couponSeed struct {
	Code             string
	Kind             string
	Amount           int64
	ExpiresInDays    int
	MinOrderCents    *int64
	MaxDiscountCents *int64
}

func cents(v int64) *int64 { return &v }

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{Name: "Banarasi Silk Saree", Description: "Handwoven silk with zari border", PriceCents: 549900, Stock: 12},
		{Name: "Chanderi Cotton Dupatta", Description: "Lightweight festive dupatta", PriceCents: 129900, Stock: 40},
		{Name: "Raw Silk Kurta", Description: "Unstitched raw silk fabric, 2.5m", PriceCents: 219900, Stock: 25},
	}
	for _, p := range products {
		if _, err := pool.Exec(ctx, `
INSERT INTO products (name, description, price_cents, stock)
SELECT $1, $2, $3, $4
WHERE NOT EXISTS (SELECT 1 FROM products WHERE name = $1)
`, p.Name, p.Description, p.PriceCents, p.Stock); err != nil {
			return fmt.Errorf("seed product %q: %w", p.Name, err)
		}
	}

	coupons := []couponSeed{
		{Code: "WELCOME10", Kind: "percent", Amount: 10, ExpiresInDays: 365, MinOrderCents: cents(50000), MaxDiscountCents: cents(150000)},
		{Code: "FLAT500", Kind: "fixed", Amount: 50000, ExpiresInDays: 90, MinOrderCents: cents(200000)},
	}
	for _, c := range coupons {
		expires := time.Now().AddDate(0, 0, c.ExpiresInDays)
		if _, err := pool.Exec(ctx, `
INSERT INTO coupons (code, kind, amount, expires_at, active, min_order_cents, max_discount_cents)
VALUES ($1, $2, $3, $4, TRUE, $5, $6)
ON CONFLICT (code) DO NOTHING
`, c.Code, c.Kind, c.Amount, expires, c.MinOrderCents, c.MaxDiscountCents); err != nil {
			return fmt.Errorf("seed coupon %q: %w", c.Code, err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin-password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if _, err := pool.Exec(ctx, `
INSERT INTO users (email, password_hash, name, is_admin)
VALUES ('admin@reshambazaar.local', $1, 'Admin', TRUE)
ON CONFLICT (email) DO NOTHING
`, string(hash)); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	return nil
}
