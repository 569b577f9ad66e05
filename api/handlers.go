/*
handlers.go - HTTP API handlers for the recovery ledger

PURPOSE:
  Exposes the Data Entry and Dashboard surfaces as a JSON API. Handles
  HTTP request/response and JSON serialization, and delegates everything
  else to emissions.Ledger.

ENDPOINTS:
  Reference:
    GET    /api/refrigerants        Selectable refrigerants with GWP

  Entries:
    POST   /api/entries             Record a recovery (Data Entry)
    GET    /api/entries             Raw log in insertion order

  Dashboard:
    GET    /api/dashboard           Totals, breakdown and entries

  Scenarios:
    GET    /api/scenarios           List demo data sets
    POST   /api/scenarios/load      Append a demo data set

ARCHITECTURE:
  Handler holds the Ledger and a logger. It keeps no state of its own:
  every read reloads the log through the Ledger.

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input shape (body, date)
  3. Call the Ledger (which validates refrigerant and weight)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON {error, code, details} with status:
  - 400: invalid_body, invalid_date, invalid_refrigerant, invalid_weight
  - 500: persistence_error, internal_error

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo data sets
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/warp/recovery-ledger/emissions"
)

// Error codes that are not ledger rejection reasons.
const (
	CodeInvalidBody = "invalid_body"
	CodeInvalidDate = "invalid_date"
)

// Handler serves the ledger over HTTP.
type Handler struct {
	Ledger *emissions.Ledger
	log    zerolog.Logger
}

// NewHandler creates a handler for the given ledger.
func NewHandler(ledger *emissions.Ledger, log zerolog.Logger) *Handler {
	return &Handler{
		Ledger: ledger,
		log:    log,
	}
}

// =============================================================================
// REFERENCE HANDLERS
// =============================================================================

// ListRefrigerants returns the reference table in selection order.
func (h *Handler) ListRefrigerants(w http.ResponseWriter, r *http.Request) {
	factors := h.Ledger.Table().Factors()
	out := make([]RefrigerantDTO, len(factors))
	for i, f := range factors {
		out[i] = RefrigerantDTO{Refrigerant: f.Refrigerant.String(), GWP: f.GWP}
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// ENTRY HANDLERS
// =============================================================================

// CreateEntry records one recovery event.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidBody, "Invalid request body", err)
		return
	}

	date := emissions.Today()
	if req.Date != "" {
		d, err := emissions.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeInvalidDate, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		date = d
	}

	if req.WeightKg == nil {
		writeError(w, http.StatusBadRequest, "invalid_weight", "weight_kg is required", nil)
		return
	}

	entry, err := h.Ledger.Record(r.Context(), date, emissions.Refrigerant(req.Refrigerant), *req.WeightKg)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreateEntryResponse{
		Entry:   toEntryDTO(entry),
		Message: entry.SavedMessage(),
	})
}

// ListEntries returns the raw log.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Ledger.Entries(r.Context())
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTOs(entries))
}

// =============================================================================
// DASHBOARD HANDLERS
// =============================================================================

// GetDashboard returns the aggregate view. An empty log is not an error:
// the response carries empty=true and the no-data message.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	view, entries, err := h.Ledger.Dashboard(r.Context())
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewDashboardDTO(view, entries))
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) writeLedgerError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := emissions.RejectReason(err)

	msg := "Failed to access the recovery log"
	switch {
	case errors.Is(err, emissions.ErrInvalidRefrigerant):
		msg = "Unknown refrigerant"
	case errors.Is(err, emissions.ErrInvalidWeight):
		msg = "Weight must be zero or greater"
	}

	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("code", code).Msg("ledger request failed")
	}
	writeError(w, status, code, msg, err)
}

func statusFor(err error) int {
	if emissions.IsClientError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeJSON encodes before writing the header so an encoding failure can
// still be reported as a 500.
func writeJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to encode response","code":"internal_error"}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, code, message string, err error) {
	resp := ErrorResponse{Error: message, Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
