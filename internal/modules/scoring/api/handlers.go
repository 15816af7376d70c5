package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/pkaradimas/factordash/internal/modules/scoring"
	"github.com/pkaradimas/factordash/internal/modules/universe"
)

// Handlers provides HTTP handlers for the scoring module.
type Handlers struct {
	service        *scoring.Service
	securities     *universe.SecurityRepository
	weights        *scoring.WeightRepository
	defaultProfile string
	defaultColumn  string
	log            zerolog.Logger
}

// HandlersConfig wires the scoring handlers.
type HandlersConfig struct {
	Service        *scoring.Service
	Securities     *universe.SecurityRepository
	Weights        *scoring.WeightRepository
	DefaultProfile string
	DefaultColumn  string
	Log            zerolog.Logger
}

// NewHandlers creates a new scoring handlers instance.
func NewHandlers(cfg HandlersConfig) *Handlers {
	return &Handlers{
		service:        cfg.Service,
		securities:     cfg.Securities,
		weights:        cfg.Weights,
		defaultProfile: cfg.DefaultProfile,
		defaultColumn:  cfg.DefaultColumn,
		log:            cfg.Log.With().Str("module", "scoring_handlers").Logger(),
	}
}

// RegisterRoutes mounts the scoring routes on a router.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Post("/run", h.HandleRun)
	r.Get("/profiles/{name}", h.HandleGetProfile)
}

// RunRequest selects what to score. Tickers overrides universe selection;
// otherwise Limit/Offset page through the active universe, and no paging
// means the whole universe. Empty profile or column falls back to the
// configured defaults.
type RunRequest struct {
	Profile         string   `json:"profile,omitempty"`
	BenchmarkColumn string   `json:"benchmark_column,omitempty"`
	Tickers         []string `json:"tickers,omitempty"`
	Limit           int      `json:"limit,omitempty"`
	Offset          int      `json:"offset,omitempty"`
}

// HandleRun handles POST /api/scoring/run.
func (h *Handlers) HandleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Profile == "" {
		req.Profile = h.defaultProfile
	}
	if req.BenchmarkColumn == "" {
		req.BenchmarkColumn = h.defaultColumn
	}

	tickers := req.Tickers
	if len(tickers) == 0 {
		securities, err := h.selectUniverse(req.Limit, req.Offset)
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to load universe")
			h.writeError(w, http.StatusInternalServerError, "Failed to load universe")
			return
		}
		for _, sec := range securities {
			tickers = append(tickers, sec.Ticker)
		}
	}

	result, err := h.service.Run(scoring.RunParams{
		Tickers:         tickers,
		Profile:         req.Profile,
		BenchmarkColumn: req.BenchmarkColumn,
	})
	if err != nil {
		if errors.Is(err, scoring.ErrProfileNotFound) || errors.Is(err, scoring.ErrUnknownBenchmarkColumn) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Scoring run failed")
		h.writeError(w, http.StatusInternalServerError, "Scoring run failed")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// HandleGetProfile handles GET /api/scoring/profiles/{name}.
func (h *Handlers) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	profile, err := h.weights.Get(name)
	if err != nil {
		if errors.Is(err, scoring.ErrProfileNotFound) {
			h.writeError(w, http.StatusNotFound, "No such weight profile")
			return
		}
		h.log.Error().Err(err).Str("profile", name).Msg("Failed to load weight profile")
		h.writeError(w, http.StatusInternalServerError, "Failed to load weight profile")
		return
	}

	h.writeJSON(w, http.StatusOK, profile)
}

func (h *Handlers) selectUniverse(limit, offset int) ([]universe.Security, error) {
	if limit > 0 {
		return h.securities.GetPage(limit, offset)
	}
	return h.securities.GetAllActive()
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
