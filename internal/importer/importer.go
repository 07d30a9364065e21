package importer

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

type Bank string

const (
	BankCGD Bank = "cgd"
)

type Direction string

const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

// Line is one movement of a bank statement. Amount is always positive; Direction
// says whether money left (Debit) or entered (Credit) the account.
type Line struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Direction   Direction
}

type Parser interface {
	Parse(r io.Reader) ([]Line, error)
}
