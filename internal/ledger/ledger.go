package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SourceType is the domain event that produced a payment.
type SourceType string

const (
	SourceRoomBooking     SourceType = "room_booking"
	SourceHallBooking     SourceType = "hall_booking"
	SourcePOSOrder        SourceType = "pos_order"
	SourceSupplierPayment SourceType = "supplier_payment"
	SourceGymSession      SourceType = "gym_session"
	SourceGameSession     SourceType = "game_session"
	SourceGameBooking     SourceType = "game_booking"
	SourceTrainerBooking  SourceType = "trainer_booking"
)

// SourceTypes lists every known source type in a stable order.
var SourceTypes = []SourceType{
	SourceRoomBooking,
	SourceHallBooking,
	SourcePOSOrder,
	SourceSupplierPayment,
	SourceGymSession,
	SourceGameSession,
	SourceGameBooking,
	SourceTrainerBooking,
}

func (s SourceType) Valid() bool {
	_, ok := sourceLabels[s]
	return ok
}

// IsExpense reports whether payments of this source leave the hotel.
func (s SourceType) IsExpense() bool {
	return s == SourceSupplierPayment
}

// Label is the human readable name stored as the entry sub-category.
func (s SourceType) Label() string {
	if l, ok := sourceLabels[s]; ok {
		return l
	}

	return string(s)
}

var sourceLabels = map[SourceType]string{
	SourceRoomBooking:     "Room Booking",
	SourceHallBooking:     "Hall Booking",
	SourcePOSOrder:        "POS Order",
	SourceSupplierPayment: "Supplier Payment",
	SourceGymSession:      "Gym Session",
	SourceGameSession:     "Game Session",
	SourceGameBooking:     "Game Booking",
	SourceTrainerBooking:  "Trainer Booking",
}

// CategoryType classifies a chart-of-accounts row.
type CategoryType string

const (
	CategoryRevenue CategoryType = "revenue"
	CategoryExpense CategoryType = "expense"
)

// Category is a chart-of-accounts row.
type Category struct {
	ID   uuid.UUID
	Code string
	Name string
	Type CategoryType
}

// Status is the lifecycle state of an entry. Entries are posted on creation.
type Status string

const StatusPosted Status = "posted"

// PaymentRecord is the transient description of a confirmed domain payment.
type PaymentRecord struct {
	Amount          decimal.Decimal
	Description     string
	SourceType      SourceType
	SourceID        string
	ReferenceNumber string
	PaymentMethod   string
	GuestName       string

	// OccurredAt is when the money moved. The entry is dated on its calendar day
	// in the hotel zone; zero means now.
	OccurredAt time.Time
}

// Entry is a single journal line against an account category.
type Entry struct {
	ID              uuid.UUID
	EntryDate       time.Time
	Description     string
	ReferenceNumber string
	CategoryID      uuid.UUID
	CategoryCode    string // Loaded via JOIN
	SubCategory     string
	Amount          decimal.Decimal
	DebitAmount     decimal.Decimal
	CreditAmount    decimal.Decimal
	Status          Status
	SourceType      SourceType
	SourceID        string
	Notes           string
	CreatedAt       time.Time
}

// Posting is the outcome of a successful Post. Created is false when an entry
// for the same source already existed and was returned instead.
type Posting struct {
	Entry   *Entry
	Created bool
}
