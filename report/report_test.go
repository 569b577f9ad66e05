package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/recovery-ledger/emissions"
)

func entry(t *testing.T, r emissions.Refrigerant, weight string) emissions.Entry {
	t.Helper()
	e, err := emissions.ComputeEntry(emissions.DefaultReferenceTable(),
		emissions.NewDate(2024, time.March, 4), r, decimal.RequireFromString(weight))
	require.NoError(t, err)
	return e
}

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		in     string
		places int32
		want   string
	}{
		{"0", 2, "0.00"},
		{"2.088", 2, "2.09"},
		{"14300", 2, "14,300.00"},
		{"1234567.891", 2, "1,234,567.89"},
		{"999.995", 2, "1,000.00"},
		{"-12345.5", 1, "-12,345.5"},
		{"42", 0, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDecimal(decimal.RequireFromString(tt.in), tt.places))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "25.0%", FormatPercent(decimal.NewFromInt(25)))
	assert.Equal(t, "33.3%", FormatPercent(decimal.RequireFromString("33.33333")))
}

func TestDashboard_Empty(t *testing.T) {
	// GIVEN: An empty log
	// WHEN: Rendering the dashboard
	// THEN: Only the no-data message is shown

	var buf bytes.Buffer
	require.NoError(t, Dashboard(&buf, emissions.Aggregate(nil), nil))

	out := buf.String()
	assert.Contains(t, out, emissions.NoDataMessage)
	assert.NotContains(t, out, LabelTotalWeight)
}

func TestDashboard_WithEntries(t *testing.T) {
	// GIVEN: 1 kg R-410A and 3 kg R-134a
	// WHEN: Rendering the dashboard
	// THEN: Totals, chart, shares and entries all appear

	entries := []emissions.Entry{
		entry(t, emissions.R410A, "1"),
		entry(t, emissions.R134a, "3"),
	}
	var buf bytes.Buffer
	require.NoError(t, Dashboard(&buf, emissions.Aggregate(entries), entries))

	out := buf.String()
	for _, want := range []string{
		LabelTotalWeight, LabelTotalCO2e, LabelCredits,
		"4.00",      // total weight
		"6,378.00",  // 2088 + 4290
		"6.38",      // credits
		"25.0%",     // R-410A share
		"75.0%",     // R-134a share
		"2024-03-04",
		"CO2e by Refrigerant Type",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, emissions.NoDataMessage)
}

func TestBarChart_ScalesToLargest(t *testing.T) {
	view := emissions.Aggregate([]emissions.Entry{
		entry(t, emissions.R404A, "1"),    // 3922
		entry(t, emissions.R1234yf, "10"), // 10, tiny but non-zero
		entry(t, emissions.R290, "0"),     // zero
	})

	lines := strings.Split(BarChart(view.Breakdown()), "\n")
	require.Len(t, lines, 3)

	cells := map[string]int{}
	for _, l := range lines {
		cells[strings.Fields(l)[0]] = strings.Count(l, barGlyph)
	}
	assert.Equal(t, barWidth, cells["R-404A"])
	assert.Equal(t, 1, cells["R-1234yf"])
	assert.Equal(t, 0, cells["R-290"])
}

func TestEntries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Entries(&buf, nil))
	assert.Contains(t, buf.String(), emissions.NoDataMessage)

	buf.Reset()
	require.NoError(t, Entries(&buf, []emissions.Entry{entry(t, emissions.R22, "2.5")}))
	out := buf.String()
	assert.Contains(t, out, "Weight (kg)")
	assert.Contains(t, out, "R-22")
	assert.Contains(t, out, "1810")
	assert.Contains(t, out, "4,525.00")
}

func TestRefrigerants(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Refrigerants(&buf, emissions.DefaultReferenceTable()))

	out := buf.String()
	assert.Contains(t, out, "3,922")
	assert.Less(t, strings.Index(out, "R-134a"), strings.Index(out, "R-290"), "selection order kept")
}
