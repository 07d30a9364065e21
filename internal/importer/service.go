package importer

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/innledger/internal/checkout"
)

const paymentMethod = "bank_transfer"

// Recorder records a supplier payment and posts it to the ledger.
type Recorder interface {
	RecordSupplierPayment(ctx context.Context, params checkout.SupplierPaymentParams) (*checkout.Result, error)
}

// Matcher maps a raw bank description to a known supplier name. An empty name
// means no mapping exists.
type Matcher interface {
	Suggest(ctx context.Context, rawDescription string) (string, error)
}

type Service struct {
	parsers  map[Bank]Parser
	recorder Recorder
	matcher  Matcher
}

func NewService(recorder Recorder, matcher Matcher, parsers map[Bank]Parser) *Service {
	return &Service{
		parsers:  parsers,
		recorder: recorder,
		matcher:  matcher,
	}
}

// Recorded is a statement line that reached the supplier payments table.
type Recorded struct {
	Line          Line
	BankReference string
	SupplierName  string
	Result        *checkout.Result
}

type Failed struct {
	Line  Line
	Error string
}

// Report summarises one statement import. Credits are skipped: money entering
// the account is revenue already posted by its own source.
type Report struct {
	Lines    int
	Skipped  int
	Recorded []Recorded
	Failed   []Failed
}

func (s *Service) Parse(bank Bank, r io.Reader) ([]Line, error) {
	parser, ok := s.parsers[bank]
	if !ok {
		return nil, fmt.Errorf("unknown bank: %s", bank)
	}

	return parser.Parse(r)
}

// Import records every debit line of the statement as a supplier payment.
// Each line gets a bank reference derived from its content, so importing the
// same statement twice records nothing new.
func (s *Service) Import(ctx context.Context, bank Bank, r io.Reader) (*Report, error) {
	lines, err := s.Parse(bank, r)
	if err != nil {
		return nil, fmt.Errorf("parsing statement: %w", err)
	}

	report := &Report{Lines: len(lines)}
	seen := make(map[string]int)

	for _, line := range lines {
		if line.Direction != Debit {
			report.Skipped++
			continue
		}

		key := lineKey(line)
		seen[key]++
		ref := BankReference(bank, line, seen[key])

		supplier := s.supplierName(ctx, line.Description)

		res, err := s.recorder.RecordSupplierPayment(ctx, checkout.SupplierPaymentParams{
			SupplierName:  supplier,
			Description:   line.Description,
			Amount:        line.Amount,
			PaymentMethod: paymentMethod,
			BankReference: ref,
			PaidAt:        line.Date,
		})
		if err != nil {
			slog.Warn("failed to record statement line", "bank_reference", ref, "error", err)
			report.Failed = append(report.Failed, Failed{Line: line, Error: err.Error()})

			continue
		}

		report.Recorded = append(report.Recorded, Recorded{
			Line:          line,
			BankReference: ref,
			SupplierName:  supplier,
			Result:        res,
		})
	}

	slog.Info("statement imported",
		"bank", bank,
		"lines", report.Lines,
		"recorded", len(report.Recorded),
		"failed", len(report.Failed),
		"skipped", report.Skipped,
	)

	return report, nil
}

func (s *Service) supplierName(ctx context.Context, description string) string {
	if s.matcher == nil {
		return description
	}

	name, err := s.matcher.Suggest(ctx, description)
	if err != nil {
		slog.Warn("supplier lookup failed", "description", description, "error", err)
		return description
	}

	if name == "" {
		return description
	}

	return name
}

func lineKey(l Line) string {
	return strings.Join([]string{
		l.Date.Format(time.DateOnly),
		l.Description,
		l.Amount.StringFixed(2),
	}, "|")
}

// BankReference identifies the n-th (1-based) occurrence of an identical line
// within a statement.
func BankReference(bank Bank, l Line, n int) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d", lineKey(l), n)

	return fmt.Sprintf("%s-%016x", bank, h.Sum64())
}
