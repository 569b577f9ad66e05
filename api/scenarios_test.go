/*
scenarios_test.go - Tests for demo data sets

PURPOSE:
	Checks that each scenario records valid entries through the Ledger,
	that loading is append-only, and that the HTTP handlers map unknown
	IDs and store failures to the right status.
*/
package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/recovery-ledger/emissions"
	"github.com/warp/recovery-ledger/emissions/store"
)

func TestScenarios_AllLoad(t *testing.T) {
	// GIVEN: Every defined scenario
	// WHEN: Loading each into a fresh ledger
	// THEN: All entries are accepted and the counts match the listing

	for _, sc := range Scenarios() {
		t.Run(sc.ID, func(t *testing.T) {
			mem := store.NewMemory()
			ledger := emissions.NewLedger(mem, nil)

			n, err := LoadScenario(context.Background(), ledger, sc.ID)
			require.NoError(t, err)
			assert.Equal(t, sc.Entries, n)
			assert.Equal(t, sc.Entries, mem.Len())
			assert.Positive(t, n)
		})
	}
}

func TestScenario_SingleRecovery(t *testing.T) {
	ledger := emissions.NewLedger(store.NewMemory(), nil)

	_, err := LoadScenario(context.Background(), ledger, "single-recovery")
	require.NoError(t, err)

	view, _, err := ledger.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "14300", view.TotalCO2eKg.String())
	assert.Equal(t, "14.3", view.TotalCredits.String())
}

func TestScenario_AppendOnly(t *testing.T) {
	// GIVEN: A log with one manual entry
	// WHEN: Loading a scenario twice
	// THEN: The manual entry survives and the scenario is recorded twice

	mem := store.NewMemory()
	ledger := emissions.NewLedger(mem, nil)
	ctx := context.Background()

	_, err := ledger.Record(ctx, emissions.NewDate(2023, time.December, 31), emissions.R22, decimal.NewFromInt(1))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := LoadScenario(ctx, ledger, "r22-phaseout")
		require.NoError(t, err)
	}

	entries, err := ledger.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 9)
	assert.Equal(t, emissions.NewDate(2023, time.December, 31), entries[0].Date)
}

func TestLoadScenario_Unknown(t *testing.T) {
	ledger := emissions.NewLedger(store.NewMemory(), nil)

	_, err := LoadScenario(context.Background(), ledger, "nope")
	assert.ErrorIs(t, err, ErrUnknownScenario)
}

func TestScenarioHandlers(t *testing.T) {
	s := setupTestServer(t)

	resp := s.do(t, http.MethodGet, "/api/scenarios", "")
	require.Equal(t, http.StatusOK, resp.Code)
	list := decode[[]ScenarioDTO](t, resp)
	require.Len(t, list, 4)
	assert.Equal(t, "single-recovery", list[0].ID)
	assert.Equal(t, 1, list[0].Entries)

	resp = s.do(t, http.MethodPost, "/api/scenarios/load", `{"scenario_id":"service-month"}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	got := decode[LoadScenarioResponse](t, resp)
	assert.Equal(t, "loaded", got.Status)
	assert.Equal(t, 10, got.Appended)
	assert.Equal(t, 10, s.mem.Len())
}

func TestScenarioHandlers_Errors(t *testing.T) {
	s := setupTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/scenarios/load", `{"scenario_id":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "unknown_scenario", decode[ErrorResponse](t, resp).Code)

	resp = s.do(t, http.MethodPost, "/api/scenarios/load", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	s.mem.FailAppends(errors.New("disk full"))
	resp = s.do(t, http.MethodPost, "/api/scenarios/load", `{"scenario_id":"single-recovery"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "persistence_error", decode[ErrorResponse](t, resp).Code)
}
