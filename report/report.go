/*
Package report renders the ledger for a terminal.

PURPOSE:
  The CLI counterpart of the Dashboard page. It shows the same numbers the
  HTTP dashboard returns, laid out with Lip Gloss:

    - three headline metrics (total weight, CO2e avoided, credits)
    - a horizontal bar chart of CO2e by refrigerant
    - the share of recovered weight per refrigerant
    - every logged entry, in log order

  An empty log renders emissions.NoDataMessage and nothing else.

USAGE:
  view, entries, err := ledger.Dashboard(ctx)
  report.Dashboard(os.Stdout, view, entries)

SEE ALSO:
  - emissions/aggregate.go: AggregateView
  - api/handlers.go: the JSON rendition of the same view
*/
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/warp/recovery-ledger/emissions"
)

// Metric labels shown in the headline row.
const (
	LabelTotalWeight = "Total Refrigerant (kg)"
	LabelTotalCO2e   = "CO2e Avoided (kg)"
	LabelCredits     = "Carbon Credits Earned"
)

const (
	barWidth   = 40
	barGlyph   = "█"
	metricWide = 26
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33")).
			MarginTop(1)

	metricStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(metricWide)

	metricValueStyle = lipgloss.NewStyle().Bold(true)

	barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	tableBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// =============================================================================
// DASHBOARD
// =============================================================================

// Dashboard writes the full dashboard for view and its entries to w.
func Dashboard(w io.Writer, view emissions.AggregateView, entries []emissions.Entry) error {
	if view.IsEmpty() {
		_, err := fmt.Fprintln(w, warnStyle.Render(emissions.NoDataMessage))
		return err
	}

	sections := []string{
		titleStyle.Render("Refrigerant Recovery Dashboard"),
		Metrics(view),
		sectionStyle.Render("CO2e by Refrigerant Type"),
		BarChart(view.Breakdown()),
		sectionStyle.Render("Weight Distribution by Refrigerant"),
		WeightShares(view.Breakdown()),
		sectionStyle.Render("All Entries"),
		EntriesTable(entries),
	}
	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, sections...))
	return err
}

// Metrics renders the three headline figures side by side.
func Metrics(view emissions.AggregateView) string {
	box := func(label string, value decimal.Decimal) string {
		return metricStyle.Render(label + "\n" + metricValueStyle.Render(FormatDecimal(value, 2)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		box(LabelTotalWeight, view.TotalWeightKg),
		box(LabelTotalCO2e, view.TotalCO2eKg),
		box(LabelCredits, view.TotalCredits),
	)
}

// BarChart draws one bar per refrigerant, scaled to the largest CO2e value.
// Any non-zero value gets at least one cell.
func BarChart(rows []emissions.TypeBreakdown) string {
	labelWidth := 0
	top := decimal.Zero
	for _, r := range rows {
		labelWidth = max(labelWidth, len(r.Refrigerant))
		if r.CO2eKg.GreaterThan(top) {
			top = r.CO2eKg
		}
	}

	var b strings.Builder
	for i, r := range rows {
		cells := 0
		if top.IsPositive() {
			cells = int(r.CO2eKg.Div(top).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
			if cells == 0 && r.CO2eKg.IsPositive() {
				cells = 1
			}
		}
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%-*s %s %s",
			labelWidth, r.Refrigerant,
			barStyle.Render(strings.Repeat(barGlyph, cells)),
			FormatDecimal(r.CO2eKg, 2))
	}
	return b.String()
}

// WeightShares lists each refrigerant's share of recovered weight.
func WeightShares(rows []emissions.TypeBreakdown) string {
	t := newTable("Refrigerant", "Weight (kg)", "Share")
	for _, r := range rows {
		t.Row(r.Refrigerant.String(), FormatDecimal(r.WeightKg, 2), FormatPercent(r.WeightShare))
	}
	return t.String()
}

// =============================================================================
// TABLES
// =============================================================================

// EntriesTable renders the raw log with the persisted column names.
func EntriesTable(entries []emissions.Entry) string {
	t := newTable("Date", "Refrigerant", "Weight (kg)", "GWP", "CO2e (kg)")
	for _, e := range entries {
		t.Row(
			e.Date.String(),
			e.Refrigerant.String(),
			e.WeightKg.String(),
			fmt.Sprintf("%d", e.GWP),
			FormatDecimal(e.CO2eKg, 2),
		)
	}
	return t.String()
}

// Entries writes the raw log table, or the no-data message when empty.
func Entries(w io.Writer, entries []emissions.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, warnStyle.Render(emissions.NoDataMessage))
		return err
	}
	_, err := fmt.Fprintln(w, EntriesTable(entries))
	return err
}

// Refrigerants writes the reference table in selection order.
func Refrigerants(w io.Writer, ref *emissions.ReferenceTable) error {
	t := newTable("Refrigerant", "GWP")
	for _, f := range ref.Factors() {
		t.Row(f.Refrigerant.String(), printer.Sprintf("%d", f.GWP))
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorder).
		Headers(headers...)
}
