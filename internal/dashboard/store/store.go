package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/innledger/internal/dashboard"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Each query takes an optional [from, to) range on its timestamp column as $1, $2.
const (
	roomRevenueQuery = `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM room_bookings
		WHERE payment_status = 'paid'
			AND ($1::timestamptz IS NULL OR created_at >= $1)
			AND ($2::timestamptz IS NULL OR created_at < $2)`

	hallRevenueQuery = `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM hall_bookings
		WHERE payment_status = 'paid'
			AND ($1::timestamptz IS NULL OR created_at >= $1)
			AND ($2::timestamptz IS NULL OR created_at < $2)`

	posRevenueQuery = `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE status = 'completed'
			AND ($1::timestamptz IS NULL OR COALESCE(paid_at, created_at) >= $1)
			AND ($2::timestamptz IS NULL OR COALESCE(paid_at, created_at) < $2)`

	expensesQuery = `
		SELECT COALESCE(SUM(e.debit_amount), 0)
		FROM account_entries e
		JOIN account_categories c ON c.id = e.category_id
		WHERE c.type = 'expense'
			AND ($1::timestamptz IS NULL OR e.created_at >= $1)
			AND ($2::timestamptz IS NULL OR e.created_at < $2)`
)

func (s *Store) RoomRevenue(ctx context.Context, p dashboard.Period) (decimal.Decimal, error) {
	return s.sum(ctx, "room revenue", roomRevenueQuery, p)
}

func (s *Store) HallRevenue(ctx context.Context, p dashboard.Period) (decimal.Decimal, error) {
	return s.sum(ctx, "hall revenue", hallRevenueQuery, p)
}

func (s *Store) POSRevenue(ctx context.Context, p dashboard.Period) (decimal.Decimal, error) {
	return s.sum(ctx, "pos revenue", posRevenueQuery, p)
}

func (s *Store) Expenses(ctx context.Context, p dashboard.Period) (decimal.Decimal, error) {
	return s.sum(ctx, "expenses", expensesQuery, p)
}

func (s *Store) sum(ctx context.Context, what, query string, p dashboard.Period) (decimal.Decimal, error) {
	var total decimal.Decimal

	if err := s.db.QueryRowContext(ctx, query, bound(p.From), bound(p.To)).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing %s: %w", what, err)
	}

	return total, nil
}

func bound(t time.Time) any {
	if t.IsZero() {
		return nil
	}

	return t
}
