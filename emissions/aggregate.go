/*
aggregate.go - Dashboard aggregation over the entry log

PURPOSE:
  Derives totals and per-refrigerant groupings from the log. The view is
  ephemeral: it is recomputed from the stored entries on every request
  and never persisted.

SEMANTICS:
  total_weight_kg = sum(entry.WeightKg)
  total_co2e_kg   = sum(entry.CO2eKg)      (stored values, never recomputed)
  total_credits   = total_co2e_kg / 1000   (one credit = one tonne CO2e)
  co2e_by_type    = refrigerant -> sum(CO2eKg)
  weight_by_type  = refrigerant -> sum(WeightKg)

  Decimal addition is exact, so totals do not depend on entry order.
*/
package emissions

import (
	"sort"

	"github.com/shopspring/decimal"
)

// NoDataMessage is shown in place of the dashboard when the log is empty.
const NoDataMessage = "No data available yet. Please add entries from the Data Entry page."

// kgPerCredit is the CO2e mass represented by one carbon credit.
var kgPerCredit = decimal.NewFromInt(1000)

// AggregateView is the dashboard summary of a log.
type AggregateView struct {
	EntryCount    int
	TotalWeightKg decimal.Decimal
	TotalCO2eKg   decimal.Decimal
	TotalCredits  decimal.Decimal
	CO2eByType    map[Refrigerant]decimal.Decimal
	WeightByType  map[Refrigerant]decimal.Decimal
}

// TypeBreakdown is one row of the per-refrigerant breakdown.
type TypeBreakdown struct {
	Refrigerant Refrigerant
	WeightKg    decimal.Decimal
	CO2eKg      decimal.Decimal
	// WeightShare is the percentage (0-100) of total recovered weight.
	WeightShare decimal.Decimal
}

// Aggregate sums the given entries. An empty log yields zero totals and
// empty groupings. Pure and idempotent.
func Aggregate(entries []Entry) AggregateView {
	v := AggregateView{
		EntryCount:    len(entries),
		TotalWeightKg: decimal.Zero,
		TotalCO2eKg:   decimal.Zero,
		CO2eByType:    make(map[Refrigerant]decimal.Decimal),
		WeightByType:  make(map[Refrigerant]decimal.Decimal),
	}
	for _, e := range entries {
		v.TotalWeightKg = v.TotalWeightKg.Add(e.WeightKg)
		v.TotalCO2eKg = v.TotalCO2eKg.Add(e.CO2eKg)
		v.CO2eByType[e.Refrigerant] = v.CO2eByType[e.Refrigerant].Add(e.CO2eKg)
		v.WeightByType[e.Refrigerant] = v.WeightByType[e.Refrigerant].Add(e.WeightKg)
	}
	v.TotalCredits = Credits(v.TotalCO2eKg)
	return v
}

// Credits converts kg CO2e to carbon credits.
func Credits(co2eKg decimal.Decimal) decimal.Decimal {
	return co2eKg.Div(kgPerCredit)
}

// IsEmpty reports whether the view was built from an empty log.
func (v AggregateView) IsEmpty() bool { return v.EntryCount == 0 }

// Breakdown returns one row per refrigerant seen in the log, sorted by name.
func (v AggregateView) Breakdown() []TypeBreakdown {
	keys := make([]Refrigerant, 0, len(v.WeightByType))
	for r := range v.WeightByType {
		keys = append(keys, r)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	hundred := decimal.NewFromInt(100)
	rows := make([]TypeBreakdown, 0, len(keys))
	for _, r := range keys {
		w := v.WeightByType[r]
		share := decimal.Zero
		if v.TotalWeightKg.IsPositive() {
			share = w.Div(v.TotalWeightKg).Mul(hundred)
		}
		rows = append(rows, TypeBreakdown{
			Refrigerant: r,
			WeightKg:    w,
			CO2eKg:      v.CO2eByType[r],
			WeightShare: share,
		})
	}
	return rows
}
