package emissions

import (
	"github.com/shopspring/decimal"
)

// ComputeEntry builds the Entry for one recovery event.
//
// The weight is checked first, then the refrigerant. GWP is copied from the
// table and CO2eKg = WeightKg * GWP with no rounding. No side effects.
func ComputeEntry(table *ReferenceTable, date Date, refrigerant Refrigerant, weightKg decimal.Decimal) (Entry, error) {
	if weightKg.IsNegative() {
		return Entry{}, &InvalidWeightError{WeightKg: weightKg}
	}
	gwp, ok := table.Lookup(refrigerant)
	if !ok {
		return Entry{}, &InvalidRefrigerantError{Refrigerant: refrigerant}
	}
	return Entry{
		Date:        date,
		Refrigerant: refrigerant,
		WeightKg:    weightKg,
		GWP:         gwp,
		CO2eKg:      weightKg.Mul(decimal.NewFromInt(gwp)),
	}, nil
}
