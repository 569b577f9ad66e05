/*
scenarios.go - Demo data sets for the recovery ledger

PURPOSE:

	Provides named batches of realistic recovery entries for demos and
	manual testing. Loading a scenario records each entry through the
	Ledger, so entries are validated and priced exactly as Data Entry
	would price them.

AVAILABLE SCENARIOS:

	single-recovery:  One 10 kg R-134a recovery (14,300 kg CO2e)
	service-month:    A month of mixed service calls across every refrigerant
	r22-phaseout:     Legacy R-22 systems decommissioned over a quarter
	low-gwp-fleet:    R-1234yf and R-290 recoveries with negligible CO2e

HOW SCENARIOS WORK:
 1. Look up the scenario by ID
 2. Record each entry in order via Ledger.Record
 3. Stop at the first failure; entries already appended stay appended

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "service-month"}

USAGE VIA CLI:

	recovery scenarios load service-month

NOTE:

	The log is append-only, so scenarios never reset existing data.
	Loading the same scenario twice records its entries twice.

SEE ALSO:
  - handlers.go: ListScenarios, LoadScenario handlers
  - cli/scenarios.go: CLI counterpart
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/recovery-ledger/emissions"
)

// ErrUnknownScenario is returned for an ID not in the scenario list.
var ErrUnknownScenario = errors.New("unknown scenario")

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenarioEntry struct {
	date        emissions.Date
	refrigerant emissions.Refrigerant
	weightKg    string
}

type scenario struct {
	ScenarioDTO
	entries []scenarioEntry
}

func day(year int, month time.Month, d int) emissions.Date {
	return emissions.NewDate(year, month, d)
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "single-recovery",
			Name:        "Single Recovery",
			Description: "One 10 kg R-134a recovery",
		},
		entries: []scenarioEntry{
			{day(2024, time.January, 1), emissions.R134a, "10"},
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "service-month",
			Name:        "Service Month",
			Description: "A month of mixed service calls across every refrigerant",
		},
		entries: []scenarioEntry{
			{day(2024, time.May, 2), emissions.R410A, "4.2"},
			{day(2024, time.May, 3), emissions.R134a, "1.8"},
			{day(2024, time.May, 7), emissions.R404A, "12.5"},
			{day(2024, time.May, 9), emissions.R22, "6"},
			{day(2024, time.May, 14), emissions.R1234yf, "0.9"},
			{day(2024, time.May, 16), emissions.R410A, "3.1"},
			{day(2024, time.May, 21), emissions.R290, "0.35"},
			{day(2024, time.May, 23), emissions.R134a, "2.25"},
			{day(2024, time.May, 28), emissions.R404A, "8"},
			{day(2024, time.May, 30), emissions.R410A, "5.5"},
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "r22-phaseout",
			Name:        "R-22 Phase-out",
			Description: "Legacy R-22 systems decommissioned over a quarter",
		},
		entries: []scenarioEntry{
			{day(2024, time.January, 15), emissions.R22, "22"},
			{day(2024, time.February, 12), emissions.R22, "18.5"},
			{day(2024, time.February, 26), emissions.R22, "9.75"},
			{day(2024, time.March, 18), emissions.R22, "31"},
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "low-gwp-fleet",
			Name:        "Low-GWP Fleet",
			Description: "Vehicle and display-case recoveries with negligible CO2e",
		},
		entries: []scenarioEntry{
			{day(2024, time.August, 5), emissions.R1234yf, "0.6"},
			{day(2024, time.August, 5), emissions.R1234yf, "0.55"},
			{day(2024, time.August, 12), emissions.R290, "0.15"},
			{day(2024, time.August, 19), emissions.R1234yf, "0.7"},
			{day(2024, time.August, 26), emissions.R290, "0.2"},
		},
	},
}

// Scenarios lists the available demo data sets.
func Scenarios() []ScenarioDTO {
	out := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		out[i] = s.ScenarioDTO
		out[i].Entries = len(s.entries)
	}
	return out
}

// LoadScenario records every entry of the scenario with the given ID and
// returns how many were appended.
func LoadScenario(ctx context.Context, ledger *emissions.Ledger, id string) (int, error) {
	for _, s := range scenarios {
		if s.ID != id {
			continue
		}
		for i, e := range s.entries {
			weight, err := decimal.NewFromString(e.weightKg)
			if err != nil {
				return i, fmt.Errorf("scenario %s entry %d: %w", id, i, err)
			}
			if _, err := ledger.Record(ctx, e.date, e.refrigerant, weight); err != nil {
				return i, fmt.Errorf("scenario %s entry %d: %w", id, i, err)
			}
		}
		return len(s.entries), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownScenario, id)
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns all available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Scenarios())
}

// LoadScenario appends a predefined scenario to the log.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body", err)
		return
	}

	n, err := LoadScenario(r.Context(), h.Ledger, req.ScenarioID)
	switch {
	case errors.Is(err, ErrUnknownScenario):
		writeError(w, http.StatusBadRequest, "unknown_scenario", "Unknown scenario", err)
		return
	case err != nil:
		h.log.Error().Err(err).Str("scenario", req.ScenarioID).Int("appended", n).Msg("scenario load failed")
		writeError(w, statusFor(err), emissions.RejectReason(err), fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.log.Info().Str("scenario", req.ScenarioID).Int("appended", n).Msg("scenario loaded")
	writeJSON(w, http.StatusOK, LoadScenarioResponse{
		Status:   "loaded",
		Scenario: req.ScenarioID,
		Appended: n,
	})
}
