package ledger

import "fmt"

const (
	CodeRoomRevenue       = "REV-001"
	CodePOSRevenue        = "REV-002"
	CodeHallRevenue       = "REV-003"
	CodeOtherRevenue      = "REV-004"
	CodeRecreationRevenue = "REV-005"
	CodeSupplierExpense   = "EXP-003"
)

var categoryCodes = map[SourceType]string{
	SourceRoomBooking:     CodeRoomRevenue,
	SourcePOSOrder:        CodePOSRevenue,
	SourceHallBooking:     CodeHallRevenue,
	SourceGymSession:      CodeRecreationRevenue,
	SourceGameSession:     CodeRecreationRevenue,
	SourceGameBooking:     CodeRecreationRevenue,
	SourceTrainerBooking:  CodeRecreationRevenue,
	SourceSupplierPayment: CodeSupplierExpense,
}

// CategoryCode returns the account code a source type posts to.
// Unknown source types are an error; nothing falls back to CodeOtherRevenue.
func CategoryCode(source SourceType) (string, error) {
	code, ok := categoryCodes[source]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnmappedSource, source)
	}

	return code, nil
}
