package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/innledger/internal/ledger"
	"github.com/MrJamesThe3rd/innledger/internal/payment"
)

// Every source query selects the same columns in this order:
// id, reference, name, amount, method, status, date, description, room_number.
const (
	roomBookingsQuery = `
		SELECT id::text, booking_number, guest_name, total_amount, payment_method,
			payment_status, created_at, 'Room ' || room_number, room_number
		FROM room_bookings
		WHERE payment_status = 'paid'
		ORDER BY created_at DESC`

	hallBookingsQuery = `
		SELECT id::text, booking_number, customer_name, total_amount, payment_method,
			payment_status, created_at, hall_name, NULL::text
		FROM hall_bookings
		WHERE payment_status = 'paid'
		ORDER BY created_at DESC`

	ordersQuery = `
		SELECT id::text, order_number, customer_name, total_amount, COALESCE(payment_method, ''),
			status, COALESCE(paid_at, created_at), 'POS order ' || order_number, room_number
		FROM orders
		WHERE status = 'completed'
		ORDER BY created_at DESC
		LIMIT $1`

	gameSessionsQuery = `
		SELECT id::text, session_number, customer_name, total_amount, COALESCE(payment_method, ''),
			status, COALESCE(ended_at, created_at), game_name, NULL::text
		FROM game_sessions
		WHERE status = 'completed'
		ORDER BY created_at DESC
		LIMIT $1`

	// Check-ins are listed for visibility only; their fee is never reported here.
	gymCheckinsQuery = `
		SELECT id::text, '', member_name, 0::numeric, COALESCE(payment_method, ''),
			status, checkin_time, 'Gym check-in', NULL::text
		FROM gym_member_checkins
		WHERE status IN ('active', 'completed')
		ORDER BY checkin_time DESC
		LIMIT $1`

	trainerBookingsQuery = `
		SELECT id::text, booking_number, member_name, amount, payment_method,
			status, created_at, 'Training with ' || trainer_name, NULL::text
		FROM gym_trainer_bookings
		WHERE status IN ('confirmed', 'completed')
		ORDER BY created_at DESC
		LIMIT $1`

	gameBookingsQuery = `
		SELECT id::text, booking_number, customer_name, amount, payment_method,
			status, created_at, game_name, NULL::text
		FROM game_bookings
		WHERE status IN ('confirmed', 'paid')
		ORDER BY created_at DESC
		LIMIT $1`
)

// Source reads one domain table into payment views.
type Source struct {
	db      *sql.DB
	name    string
	prefix  string
	typ     ledger.SourceType
	query   string
	limited bool
	limit   int
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) Fetch(ctx context.Context) ([]payment.View, error) {
	var args []any
	if s.limited {
		args = append(args, s.limit)
	}

	rows, err := s.db.QueryContext(ctx, s.query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", s.name, err)
	}
	defer rows.Close()

	var views []payment.View

	for rows.Next() {
		var (
			v      payment.View
			id     string
			status string
			room   sql.NullString
		)

		if err := rows.Scan(
			&id, &v.Reference, &v.GuestName, &v.Amount, &v.Method,
			&status, &v.Date, &v.Description, &room,
		); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", s.name, err)
		}

		v.ID = s.prefix + "-" + id
		v.TransactionID = id
		v.Type = s.typ
		v.Status = payment.NormalizeStatus(status)

		if room.Valid {
			v.RoomNumber = &room.String
		}

		views = append(views, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", s.name, err)
	}

	return views, nil
}

// Sources returns the seven payment sources. Room and hall bookings are read in
// full, every other table is capped at limit rows.
func Sources(db *sql.DB, limit int) []payment.Source {
	return []payment.Source{
		&Source{db: db, name: "room_bookings", prefix: "room", typ: ledger.SourceRoomBooking, query: roomBookingsQuery},
		&Source{db: db, name: "hall_bookings", prefix: "hall", typ: ledger.SourceHallBooking, query: hallBookingsQuery},
		&Source{db: db, name: "orders", prefix: "pos", typ: ledger.SourcePOSOrder, query: ordersQuery, limited: true, limit: limit},
		&Source{db: db, name: "game_sessions", prefix: "game", typ: ledger.SourceGameSession, query: gameSessionsQuery, limited: true, limit: limit},
		&Source{db: db, name: "gym_member_checkins", prefix: "gym", typ: ledger.SourceGymSession, query: gymCheckinsQuery, limited: true, limit: limit},
		&Source{db: db, name: "gym_trainer_bookings", prefix: "trainer", typ: ledger.SourceTrainerBooking, query: trainerBookingsQuery, limited: true, limit: limit},
		&Source{db: db, name: "game_bookings", prefix: "gamebooking", typ: ledger.SourceGameBooking, query: gameBookingsQuery, limited: true, limit: limit},
	}
}
