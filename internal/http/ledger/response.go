package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/innledger/internal/ledger"
)

// EntryResponse is the wire form of a ledger entry. Money is rendered with two
// decimal places.
type EntryResponse struct {
	ID              uuid.UUID         `json:"id"`
	EntryDate       string            `json:"entry_date"`
	Description     string            `json:"description"`
	ReferenceNumber string            `json:"reference_number"`
	CategoryCode    string            `json:"account_code"`
	SubCategory     string            `json:"sub_category"`
	Amount          string            `json:"amount"`
	DebitAmount     string            `json:"debit_amount"`
	CreditAmount    string            `json:"credit_amount"`
	Status          ledger.Status     `json:"status"`
	SourceType      ledger.SourceType `json:"source_type"`
	SourceID        string            `json:"source_id"`
	Notes           string            `json:"notes,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

type categoryResponse struct {
	ID   uuid.UUID           `json:"id"`
	Code string              `json:"account_code"`
	Name string              `json:"name"`
	Type ledger.CategoryType `json:"type"`
}

func ToEntryResponse(e *ledger.Entry) EntryResponse {
	return EntryResponse{
		ID:              e.ID,
		EntryDate:       e.EntryDate.Format(time.DateOnly),
		Description:     e.Description,
		ReferenceNumber: e.ReferenceNumber,
		CategoryCode:    e.CategoryCode,
		SubCategory:     e.SubCategory,
		Amount:          e.Amount.StringFixed(2),
		DebitAmount:     e.DebitAmount.StringFixed(2),
		CreditAmount:    e.CreditAmount.StringFixed(2),
		Status:          e.Status,
		SourceType:      e.SourceType,
		SourceID:        e.SourceID,
		Notes:           e.Notes,
		CreatedAt:       e.CreatedAt,
	}
}

func ToEntryResponseList(entries []*ledger.Entry) []EntryResponse {
	resp := make([]EntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = ToEntryResponse(e)
	}

	return resp
}
