package ledger

import (
	"fmt"
	"strings"
	"time"
)

// BuildEntry turns a payment into an unsaved journal entry against cat.
//
// Expenses (supplier payments) carry a negative amount and sit on the debit side,
// everything else is revenue with a positive amount on the credit side. The sign of
// rec.Amount is ignored, only its magnitude is used. Amounts are rounded to cents,
// the precision the ledger stores.
func BuildEntry(rec PaymentRecord, cat Category, entryDate time.Time) (*Entry, error) {
	if !rec.SourceType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnmappedSource, rec.SourceType)
	}

	if strings.TrimSpace(rec.SourceID) == "" {
		return nil, fmt.Errorf("%w: source id is required", ErrInvalidPayment)
	}

	amount := rec.Amount.Round(2)
	if amount.IsZero() {
		return nil, fmt.Errorf("%w: amount %s rounds to zero", ErrInvalidPayment, rec.Amount)
	}

	isExpense := rec.SourceType.IsExpense()

	wantType := CategoryRevenue
	if isExpense {
		wantType = CategoryExpense
	}

	if cat.Type != wantType {
		return nil, fmt.Errorf("%w: category %s is %s, %s needs %s",
			ErrInvalidPayment, cat.Code, cat.Type, rec.SourceType, wantType)
	}

	magnitude := amount.Abs()

	entry := &Entry{
		EntryDate:       time.Date(entryDate.Year(), entryDate.Month(), entryDate.Day(), 0, 0, 0, 0, time.UTC),
		Description:     rec.Description,
		ReferenceNumber: rec.ReferenceNumber,
		CategoryID:      cat.ID,
		CategoryCode:    cat.Code,
		SubCategory:     rec.SourceType.Label(),
		Status:          StatusPosted,
		SourceType:      rec.SourceType,
		SourceID:        rec.SourceID,
		Notes:           buildNotes(rec),
	}

	if isExpense {
		entry.Amount = magnitude.Neg()
		entry.DebitAmount = magnitude
	} else {
		entry.Amount = magnitude
		entry.CreditAmount = magnitude
	}

	return entry, nil
}

func buildNotes(rec PaymentRecord) string {
	notes := "Payment method: " + rec.PaymentMethod
	if rec.GuestName != "" {
		notes += " | Guest: " + rec.GuestName
	}

	return notes
}
