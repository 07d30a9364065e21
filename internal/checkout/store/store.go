package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/innledger/internal/checkout"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const orderColumns = `id, order_number, customer_name, room_number, total_amount,
	COALESCE(payment_method, ''), status, paid_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (*checkout.Order, error) {
	var (
		o      checkout.Order
		room   sql.NullString
		paidAt sql.NullTime
	)

	if err := s.Scan(&o.ID, &o.Number, &o.CustomerName, &room, &o.Total, &o.PaymentMethod, &o.Status, &paidAt); err != nil {
		return nil, err
	}

	if room.Valid {
		o.RoomNumber = &room.String
	}

	if paidAt.Valid {
		o.PaidAt = &paidAt.Time
	}

	return &o, nil
}

func (s *Store) SettleOrder(ctx context.Context, orderID uuid.UUID, method string, paidAt time.Time) (*checkout.Order, error) {
	query := `
		UPDATE orders
		SET status = 'completed', payment_method = $2, paid_at = $3
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + orderColumns

	o, err := scanOrder(s.db.QueryRowContext(ctx, query, orderID, method, paidAt))
	if err == nil {
		return o, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("updating order: %w", err)
	}

	return nil, s.notSettleable(ctx, "orders", orderID)
}

func (s *Store) CloseGymCheckin(ctx context.Context, checkinID uuid.UUID, fee decimal.Decimal, method string, at time.Time) (*checkout.GymCheckin, error) {
	query := `
		UPDATE gym_member_checkins
		SET status = 'completed', fee = $2, payment_method = NULLIF($3, ''), checkout_time = $4
		WHERE id = $1 AND status = 'active'
		RETURNING id, member_name, fee, COALESCE(payment_method, ''), checkout_time
	`

	var c checkout.GymCheckin

	err := s.db.QueryRowContext(ctx, query, checkinID, fee, method, at).
		Scan(&c.ID, &c.MemberName, &c.Fee, &c.PaymentMethod, &c.CheckoutTime)
	if err == nil {
		return &c, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("updating gym check-in: %w", err)
	}

	return nil, s.notSettleable(ctx, "gym_member_checkins", checkinID)
}

func (s *Store) CloseGameSession(ctx context.Context, sessionID uuid.UUID, method string, at time.Time) (*checkout.GameSession, error) {
	query := `
		UPDATE game_sessions
		SET status = 'completed', payment_method = $2, ended_at = $3
		WHERE id = $1 AND status = 'active'
		RETURNING id, session_number, customer_name, game_name, total_amount, COALESCE(payment_method, ''), ended_at
	`

	var g checkout.GameSession

	err := s.db.QueryRowContext(ctx, query, sessionID, method, at).
		Scan(&g.ID, &g.Number, &g.CustomerName, &g.GameName, &g.Total, &g.PaymentMethod, &g.EndedAt)
	if err == nil {
		return &g, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("updating game session: %w", err)
	}

	return nil, s.notSettleable(ctx, "game_sessions", sessionID)
}

// notSettleable explains why a guarded status update matched no row.
func (s *Store) notSettleable(ctx context.Context, table string, id uuid.UUID) error {
	var status string

	err := s.db.QueryRowContext(ctx, `SELECT status FROM `+table+` WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return checkout.ErrNotFound
	}

	if err != nil {
		return fmt.Errorf("checking %s status: %w", table, err)
	}

	return fmt.Errorf("%w: status is %s", checkout.ErrAlreadySettled, status)
}

func (s *Store) InsertSupplierPayment(ctx context.Context, p *checkout.SupplierPayment) (bool, error) {
	query := `
		INSERT INTO supplier_payments (
			supplier_name, description, amount, payment_method, reference_number, bank_reference, paid_at
		)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
		ON CONFLICT (bank_reference) DO NOTHING
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.SupplierName,
		p.Description,
		p.Amount,
		p.PaymentMethod,
		p.ReferenceNumber,
		p.BankReference,
		p.PaidAt,
	).Scan(&p.ID, &p.CreatedAt)
	if err == nil {
		return true, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("inserting supplier payment: %w", err)
	}

	existing := `
		SELECT id, supplier_name, description, amount, payment_method, reference_number,
			COALESCE(bank_reference, ''), paid_at, created_at
		FROM supplier_payments
		WHERE bank_reference = $1
	`

	if err := s.db.QueryRowContext(ctx, existing, p.BankReference).Scan(
		&p.ID, &p.SupplierName, &p.Description, &p.Amount, &p.PaymentMethod, &p.ReferenceNumber,
		&p.BankReference, &p.PaidAt, &p.CreatedAt,
	); err != nil {
		return false, fmt.Errorf("loading existing supplier payment: %w", err)
	}

	return false, nil
}

// AddHallBookingToOrder appends the booking as an order line and re-totals the
// order in one transaction.
func (s *Store) AddHallBookingToOrder(ctx context.Context, orderID, hallBookingID uuid.UUID) (*checkout.Order, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	var status string

	err = dbTx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, checkout.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("locking order: %w", err)
	}

	if status != "pending" {
		return nil, fmt.Errorf("%w: order status is %s", checkout.ErrAlreadySettled, status)
	}

	var (
		number, hall string
		amount       decimal.Decimal
	)

	err = dbTx.QueryRowContext(ctx,
		`SELECT booking_number, hall_name, total_amount FROM hall_bookings WHERE id = $1`, hallBookingID,
	).Scan(&number, &hall, &amount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, checkout.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("loading hall booking: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, description, quantity, unit_price, line_total, hall_booking_id)
		VALUES ($1, $2, 1, $3, $3, $4)
	`

	description := fmt.Sprintf("Hall booking %s - %s", number, hall)
	if _, err := dbTx.ExecContext(ctx, itemQuery, orderID, description, amount, hallBookingID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, checkout.ErrAlreadyAttached
		}

		return nil, fmt.Errorf("inserting order item: %w", err)
	}

	totalQuery := `
		UPDATE orders
		SET total_amount = total_amount + $2
		WHERE id = $1
		RETURNING ` + orderColumns

	o, err := scanOrder(dbTx.QueryRowContext(ctx, totalQuery, orderID, amount))
	if err != nil {
		return nil, fmt.Errorf("updating order total: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return o, nil
}
