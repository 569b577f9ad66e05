package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/recovery-ledger/emissions"
)

// Amounts go out as bare JSON numbers carrying the exact decimal value, so
// totals of any magnitude encode without float rounding or overflow.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// =============================================================================
// REFERENCE TABLE DTOs
// =============================================================================

// RefrigerantDTO is one selectable refrigerant.
type RefrigerantDTO struct {
	Refrigerant string `json:"refrigerant"`
	GWP         int64  `json:"gwp"`
}

// =============================================================================
// ENTRY DTOs
// =============================================================================

// EntryDTO is the API representation of a log entry.
type EntryDTO struct {
	Date        string          `json:"date"`
	Refrigerant string          `json:"refrigerant"`
	WeightKg    decimal.Decimal `json:"weight_kg"`
	GWP         int64           `json:"gwp"`
	CO2eKg      decimal.Decimal `json:"co2e_kg"`
}

// CreateEntryRequest is the body of POST /api/entries. Date defaults to
// today when omitted.
type CreateEntryRequest struct {
	Date        string           `json:"date"`
	Refrigerant string           `json:"refrigerant"`
	WeightKg    *decimal.Decimal `json:"weight_kg"`
}

// CreateEntryResponse confirms a saved entry.
type CreateEntryResponse struct {
	Entry   EntryDTO `json:"entry"`
	Message string   `json:"message"`
}

// =============================================================================
// DASHBOARD DTOs
// =============================================================================

// DashboardDTO is the aggregate view plus the raw log.
type DashboardDTO struct {
	Empty         bool            `json:"empty"`
	Message       string          `json:"message,omitempty"`
	EntryCount    int             `json:"entry_count"`
	TotalWeightKg decimal.Decimal `json:"total_weight_kg"`
	TotalCO2eKg   decimal.Decimal `json:"total_co2e_kg"`
	TotalCredits  decimal.Decimal `json:"total_credits"`
	ByRefrigerant []BreakdownDTO  `json:"by_refrigerant"`
	Entries       []EntryDTO      `json:"entries"`
}

// BreakdownDTO is one refrigerant's slice of the dashboard.
type BreakdownDTO struct {
	Refrigerant string          `json:"refrigerant"`
	WeightKg    decimal.Decimal `json:"weight_kg"`
	CO2eKg      decimal.Decimal `json:"co2e_kg"`
	WeightShare decimal.Decimal `json:"weight_share_pct"`
}

// =============================================================================
// SCENARIO DTOs
// =============================================================================

// ScenarioDTO describes a demo data set.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Entries     int    `json:"entries"`
}

// LoadScenarioRequest is the body of POST /api/scenarios/load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// LoadScenarioResponse reports how many entries a scenario appended.
type LoadScenarioResponse struct {
	Status   string `json:"status"`
	Scenario string `json:"scenario"`
	Appended int    `json:"appended"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toEntryDTO(e emissions.Entry) EntryDTO {
	return EntryDTO{
		Date:        e.Date.String(),
		Refrigerant: e.Refrigerant.String(),
		WeightKg:    e.WeightKg,
		GWP:         e.GWP,
		CO2eKg:      e.CO2eKg,
	}
}

func toEntryDTOs(entries []emissions.Entry) []EntryDTO {
	out := make([]EntryDTO, len(entries))
	for i, e := range entries {
		out[i] = toEntryDTO(e)
	}
	return out
}

// NewDashboardDTO converts the aggregate view and its log for JSON output.
func NewDashboardDTO(view emissions.AggregateView, entries []emissions.Entry) DashboardDTO {
	dto := DashboardDTO{
		Empty:         view.IsEmpty(),
		EntryCount:    view.EntryCount,
		TotalWeightKg: view.TotalWeightKg,
		TotalCO2eKg:   view.TotalCO2eKg,
		TotalCredits:  view.TotalCredits,
		ByRefrigerant: []BreakdownDTO{},
		Entries:       toEntryDTOs(entries),
	}
	if dto.Empty {
		dto.Message = emissions.NoDataMessage
		return dto
	}

	for _, row := range view.Breakdown() {
		dto.ByRefrigerant = append(dto.ByRefrigerant, BreakdownDTO{
			Refrigerant: row.Refrigerant.String(),
			WeightKg:    row.WeightKg,
			CO2eKg:      row.CO2eKg,
			WeightShare: row.WeightShare.Round(2),
		})
	}
	return dto
}
