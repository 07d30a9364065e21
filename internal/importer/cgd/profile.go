package cgd

type amountMode int

const (
	// amountSigned is one signed column, e.g. "Montante" = "-10,00".
	amountSigned amountMode = iota
	// amountSplit is a pair of "Débito"/"Crédito" columns.
	amountSplit
)

// profile describes the column layout of one CGD export format.
type profile struct {
	name      string
	dateCol   string
	descCol   string
	mode      amountMode
	amountCol string
	debitCol  string
	creditCol string
}

func (p profile) requiredCols() []string {
	if p.mode == amountSplit {
		return []string{p.dateCol, p.descCol, p.debitCol, p.creditCol}
	}

	return []string{p.dateCol, p.descCol, p.amountCol}
}

// Tried in order; the card export shares column names with the others, so it goes first.
var profiles = []profile{
	{name: "cartão", dateCol: "Data", descCol: "Descrição", mode: amountSplit, debitCol: "Débito", creditCol: "Crédito"},
	{name: "extrato", dateCol: "Data mov.", descCol: "Descrição", mode: amountSigned, amountCol: "Movimento"},
	{name: "conta", dateCol: "Data mov.", descCol: "Descrição", mode: amountSigned, amountCol: "Montante"},
}
