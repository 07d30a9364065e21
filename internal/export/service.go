package export

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/MrJamesThe3rd/innledger/internal/ledger"
)

type Lister interface {
	List(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Entry, error)
}

// Service exports ledger entries for the accountant.
type Service struct {
	entries Lister
}

func NewService(entries Lister) *Service {
	return &Service{entries: entries}
}

// row is one line of the CSV report.
type row struct {
	Date         string `csv:"entry_date"`
	Reference    string `csv:"reference_number"`
	Description  string `csv:"description"`
	CategoryCode string `csv:"account_code"`
	SubCategory  string `csv:"sub_category"`
	Debit        string `csv:"debit"`
	Credit       string `csv:"credit"`
	Amount       string `csv:"amount"`
	SourceType   string `csv:"source_type"`
	SourceID     string `csv:"source_id"`
	Status       string `csv:"status"`
	Notes        string `csv:"notes"`
}

func toRow(e *ledger.Entry) *row {
	return &row{
		Date:         e.EntryDate.Format(time.DateOnly),
		Reference:    e.ReferenceNumber,
		Description:  e.Description,
		CategoryCode: e.CategoryCode,
		SubCategory:  e.SubCategory,
		Debit:        e.DebitAmount.StringFixed(2),
		Credit:       e.CreditAmount.StringFixed(2),
		Amount:       e.Amount.StringFixed(2),
		SourceType:   string(e.SourceType),
		SourceID:     e.SourceID,
		Status:       string(e.Status),
		Notes:        e.Notes,
	}
}

// Entries lists the entries matching filter, oldest first.
func (s *Service) Entries(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Entry, error) {
	entries, err := s.entries.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	// The ledger lists newest first; reports read chronologically.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	return entries, nil
}

// Export writes the entries matching filter to w as CSV and returns them.
func (s *Service) Export(ctx context.Context, filter ledger.ListFilter, w io.Writer) ([]*ledger.Entry, error) {
	entries, err := s.Entries(ctx, filter)
	if err != nil {
		return nil, err
	}

	if err := WriteCSV(w, entries); err != nil {
		return nil, err
	}

	return entries, nil
}

func WriteCSV(w io.Writer, entries []*ledger.Entry) error {
	rows := make([]*row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, toRow(e))
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	return nil
}

// GenerateSummary renders one line per entry, e.g.
// "* 2024-01-15 | Coffee beans | -500.00 | EXP-003".
func (s *Service) GenerateSummary(entries []*ledger.Entry) string {
	var sb strings.Builder

	for _, e := range entries {
		fmt.Fprintf(&sb, "* %s | %s | %s | %s\n",
			e.EntryDate.Format(time.DateOnly),
			e.Description,
			e.Amount.StringFixed(2),
			e.CategoryCode,
		)
	}

	return sb.String()
}
