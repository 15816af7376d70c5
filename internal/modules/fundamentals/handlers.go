package fundamentals

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Deriver backfills price-derived figures a fundamentals feed may omit.
// Implemented by the marketdata snapshot builder.
type Deriver interface {
	Derived(ticker string) (high52w, volatility *float64)
}

// Handlers provides HTTP handlers for fundamental data upserts.
type Handlers struct {
	repo    *Repository
	deriver Deriver
	log     zerolog.Logger
}

// NewHandlers creates a new fundamentals handlers instance.
func NewHandlers(repo *Repository, deriver Deriver, log zerolog.Logger) *Handlers {
	return &Handlers{
		repo:    repo,
		deriver: deriver,
		log:     log.With().Str("module", "fundamentals_handlers").Logger(),
	}
}

// RegisterRoutes mounts the fundamentals routes on a router.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Post("/", h.HandleUpsert)
}

// UpsertRequest carries one security's raw field values as delivered by the
// sheet-sync collaborator. Values are strings on the wire; sentinel values
// ("N/A", "--", ...) become nil at this boundary.
type UpsertRequest struct {
	Ticker string            `json:"ticker"`
	Fields map[string]string `json:"fields"`
}

// HandleUpsert handles POST /api/fundamentals.
func (h *Handlers) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Ticker == "" {
		h.writeError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	rec := RecordFromFields(req.Ticker, req.Fields)

	// Backfill price-derived figures the feed left empty.
	if rec.High52Week == nil || rec.Volatility == nil {
		high, vol := h.deriver.Derived(rec.Ticker)
		if rec.High52Week == nil {
			rec.High52Week = high
		}
		if rec.Volatility == nil {
			rec.Volatility = vol
		}
	}

	if err := h.repo.Upsert(rec); err != nil {
		h.log.Error().Err(err).Str("ticker", rec.Ticker).Msg("Failed to upsert fundamentals")
		h.writeError(w, http.StatusInternalServerError, "Failed to save fundamentals")
		return
	}

	h.writeJSON(w, http.StatusOK, rec)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
