package checkout

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/innledger/internal/ledger"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadySettled  = errors.New("already settled")
	ErrAlreadyAttached = errors.New("hall booking already attached to an order")
	ErrInvalidInput    = errors.New("invalid input")
)

type Order struct {
	ID            uuid.UUID
	Number        string
	CustomerName  string
	RoomNumber    *string
	Total         decimal.Decimal
	PaymentMethod string
	Status        string
	PaidAt        *time.Time
}

type GymCheckin struct {
	ID            uuid.UUID
	MemberName    string
	Fee           decimal.Decimal
	PaymentMethod string
	CheckoutTime  time.Time
}

type GameSession struct {
	ID            uuid.UUID
	Number        string
	CustomerName  string
	GameName      string
	Total         decimal.Decimal
	PaymentMethod string
	EndedAt       time.Time
}

type SupplierPayment struct {
	ID              uuid.UUID
	SupplierName    string
	Description     string
	Amount          decimal.Decimal
	PaymentMethod   string
	ReferenceNumber string
	BankReference   string
	PaidAt          time.Time
	CreatedAt       time.Time
}

type SupplierPaymentParams struct {
	SupplierName    string
	Description     string
	Amount          decimal.Decimal
	PaymentMethod   string
	ReferenceNumber string

	// BankReference identifies the originating bank statement line. Recording the
	// same bank reference twice returns the first payment.
	BankReference string
	PaidAt        time.Time
}

// Result reports a completed domain write and the outcome of its ledger posting.
// PostingErr is set when the payment was recorded but could not be posted; the
// posting can be retried safely.
type Result struct {
	Reference  string
	Amount     decimal.Decimal
	Posting    *ledger.Posting
	PostingErr error
}

// Settled is the payload of the payment.settled event.
type Settled struct {
	SourceType   ledger.SourceType `json:"source_type"`
	SourceID     string            `json:"source_id"`
	Reference    string            `json:"reference"`
	Amount       decimal.Decimal   `json:"amount"`
	Method       string            `json:"method"`
	Posted       bool              `json:"posted"`
	PostingError string            `json:"posting_error,omitempty"`
}

// HallBookingAdded is the payload of the order.hall_booking_added event.
type HallBookingAdded struct {
	OrderID       uuid.UUID       `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	HallBookingID uuid.UUID       `json:"hall_booking_id"`
	OrderTotal    decimal.Decimal `json:"order_total"`
}
