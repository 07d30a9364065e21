package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/innledger/internal/ledger"
)

type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusUnknown   Status = "unknown"
)

// NormalizeStatus folds the status vocabulary of the individual source tables into
// a single display status.
func NormalizeStatus(raw string) Status {
	switch raw {
	case "paid", "confirmed", "completed":
		return StatusCompleted
	case "active", "pending":
		return StatusPending
	default:
		return StatusUnknown
	}
}

// View is one row of the unified payment feed. It is rebuilt on every read.
type View struct {
	ID            string            `json:"id"`
	TransactionID string            `json:"transaction_id"`
	GuestName     string            `json:"guest_name"`
	Amount        decimal.Decimal   `json:"amount"`
	Method        string            `json:"method"`
	Type          ledger.SourceType `json:"type"`
	Status        Status            `json:"status"`
	Date          time.Time         `json:"date"`
	Description   string            `json:"description"`
	Reference     string            `json:"reference"`
	RoomNumber    *string           `json:"room_number,omitempty"`
}

//go:generate mockgen -source=payment.go -destination=source_mock.go -package=payment
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]View, error)
}

// Failure records a source that contributed no rows because its query failed.
type Failure struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

type Result struct {
	Payments []View    `json:"payments"`
	Failures []Failure `json:"failures,omitempty"`
}
