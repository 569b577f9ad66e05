package emissions

import (
	"fmt"
)

// =============================================================================
// REFERENCE TABLE - Refrigerant -> GWP, fixed at deployment time
// =============================================================================

// Built-in refrigerant designations.
const (
	R134a   Refrigerant = "R-134a"
	R410A   Refrigerant = "R-410A"
	R404A   Refrigerant = "R-404A"
	R22     Refrigerant = "R-22"
	R1234yf Refrigerant = "R-1234yf"
	R290    Refrigerant = "R-290"
)

// Factor pairs a refrigerant with its 100-year global warming potential.
type Factor struct {
	Refrigerant Refrigerant
	GWP         int64
}

// DefaultFactors is the built-in GWP table, in display order.
var DefaultFactors = []Factor{
	{R134a, 1430},
	{R410A, 2088},
	{R404A, 3922},
	{R22, 1810},
	{R1234yf, 1},
	{R290, 3},
}

// ReferenceTable is an immutable refrigerant -> GWP mapping. It remembers the
// order factors were declared in so option lists render predictably.
type ReferenceTable struct {
	order []Refrigerant
	gwp   map[Refrigerant]int64
}

// NewReferenceTable builds a table from factors. Every GWP must be positive
// and every refrigerant must appear once.
func NewReferenceTable(factors []Factor) (*ReferenceTable, error) {
	if len(factors) == 0 {
		return nil, fmt.Errorf("reference table: no factors")
	}
	t := &ReferenceTable{
		order: make([]Refrigerant, 0, len(factors)),
		gwp:   make(map[Refrigerant]int64, len(factors)),
	}
	for _, f := range factors {
		if f.Refrigerant == "" {
			return nil, fmt.Errorf("reference table: empty refrigerant name")
		}
		if f.GWP <= 0 {
			return nil, fmt.Errorf("reference table: %s: gwp must be positive, got %d", f.Refrigerant, f.GWP)
		}
		if _, dup := t.gwp[f.Refrigerant]; dup {
			return nil, fmt.Errorf("reference table: duplicate refrigerant %s", f.Refrigerant)
		}
		t.order = append(t.order, f.Refrigerant)
		t.gwp[f.Refrigerant] = f.GWP
	}
	return t, nil
}

// DefaultReferenceTable returns the built-in table.
func DefaultReferenceTable() *ReferenceTable {
	t, err := NewReferenceTable(DefaultFactors)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the GWP for r.
func (t *ReferenceTable) Lookup(r Refrigerant) (int64, bool) {
	gwp, ok := t.gwp[r]
	return gwp, ok
}

// Contains reports whether r is a known refrigerant.
func (t *ReferenceTable) Contains(r Refrigerant) bool {
	_, ok := t.gwp[r]
	return ok
}

// Refrigerants returns the known refrigerants in declaration order.
func (t *ReferenceTable) Refrigerants() []Refrigerant {
	out := make([]Refrigerant, len(t.order))
	copy(out, t.order)
	return out
}

// Factors returns a copy of the table contents in declaration order.
func (t *ReferenceTable) Factors() []Factor {
	out := make([]Factor, len(t.order))
	for i, r := range t.order {
		out[i] = Factor{Refrigerant: r, GWP: t.gwp[r]}
	}
	return out
}

func (t *ReferenceTable) Len() int { return len(t.order) }
