package cgd

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/innledger/internal/encoding"
	"github.com/MrJamesThe3rd/innledger/internal/importer"
)

const dateLayout = "02-01-2006"

// Parser reads Caixa Geral de Depósitos CSV exports. The format (account,
// statement or card) is picked by matching header names.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]importer.Line, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	prof, cols, headerIdx, ok := detectProfile(rows)
	if !ok {
		return nil, fmt.Errorf("no matching CGD format found: expected columns for conta, extrato, or cartão")
	}

	slog.Debug("parsing bank statement", "bank", importer.BankCGD, "format", prof.name, "charset", charset)

	return parseRows(prof, cols, rows[headerIdx+1:], headerIdx+1)
}

type colIndex map[string]int

func detectProfile(rows [][]string) (profile, colIndex, int, bool) {
	for rowIdx, row := range rows {
		cols := make(colIndex, len(row))

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for _, p := range profiles {
			if hasAll(cols, p.requiredCols()) {
				return p, cols, rowIdx, true
			}
		}
	}

	return profile{}, nil, 0, false
}

func hasAll(cols colIndex, names []string) bool {
	for _, name := range names {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows skips rows without a date (footers, totals) and rows without a
// non-zero amount. firstRow is the 0-based file index of rows[0].
func parseRows(p profile, cols colIndex, rows [][]string, firstRow int) ([]importer.Line, error) {
	var lines []importer.Line

	for i, row := range rows {
		date, err := time.Parse(dateLayout, cell(row, cols[p.dateCol]))
		if err != nil {
			continue
		}

		desc := cell(row, cols[p.descCol])
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", firstRow+i+1)
		}

		amount, dir, ok := p.amount(cols, row)
		if !ok {
			continue
		}

		lines = append(lines, importer.Line{
			Date:        date,
			Description: desc,
			Amount:      amount,
			Direction:   dir,
		})
	}

	return lines, nil
}

func (p profile) amount(cols colIndex, row []string) (decimal.Decimal, importer.Direction, bool) {
	if p.mode == amountSigned {
		v, ok := nonZero(cell(row, cols[p.amountCol]))
		if !ok {
			return decimal.Zero, "", false
		}

		if v.IsNegative() {
			return v.Neg(), importer.Debit, true
		}

		return v, importer.Credit, true
	}

	if v, ok := nonZero(cell(row, cols[p.debitCol])); ok {
		return v.Abs(), importer.Debit, true
	}

	if v, ok := nonZero(cell(row, cols[p.creditCol])); ok {
		return v.Abs(), importer.Credit, true
	}

	return decimal.Zero, "", false
}

func nonZero(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}

	v, err := parseEuropeanAmount(s)
	if err != nil || v.IsZero() {
		return decimal.Zero, false
	}

	return v, true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
