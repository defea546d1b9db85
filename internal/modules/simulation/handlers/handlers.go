// Package handlers provides HTTP handlers for the holding-period simulator.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/estatelab/wardnavi/internal/domain"
	"github.com/estatelab/wardnavi/internal/modules/estimator"
	"github.com/estatelab/wardnavi/internal/modules/listings"
	"github.com/estatelab/wardnavi/internal/modules/simulation"
	"github.com/estatelab/wardnavi/internal/utils"
)

// DatasetChecker verifies historical records exist for a ward before an
// evaluation is allowed to run.
type DatasetChecker interface {
	RequireDataset(ward domain.Ward) error
}

// Handler handles simulation HTTP requests
type Handler struct {
	sim      *simulation.Simulator
	est      estimator.Estimator // trained model; nil when the artifact failed to load
	datasets DatasetChecker
	log      zerolog.Logger
}

// NewHandler creates a new simulation handler. est may be nil when the
// estimator artifact is unavailable; the simulator then runs in the explicit
// fallback mode.
func NewHandler(sim *simulation.Simulator, est estimator.Estimator, datasets DatasetChecker, log zerolog.Logger) *Handler {
	return &Handler{
		sim:      sim,
		est:      est,
		datasets: datasets,
		log:      log.With().Str("handler", "simulation").Logger(),
	}
}

// simulateRequest is the JSON body of POST /api/simulate
type simulateRequest struct {
	Ward               string  `json:"ward"`
	FloorArea          float64 `json:"floor_area"`
	BuildingAge        int     `json:"building_age"`
	WalkMinutes        int     `json:"walk_minutes"`
	PurchasePriceMan   float64 `json:"purchase_price_man"`
	InitialMonthlyRent float64 `json:"initial_monthly_rent"`
	InflationRate      float64 `json:"inflation_rate"`
	DepreciationRate   float64 `json:"depreciation_rate"`
}

// HandleSimulate handles POST /api/simulate
func (h *Handler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	var request simulateRequest

	// Parse request body
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ward, err := domain.ParseWard(request.Ward)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	spec := simulation.PropertySpec{
		Ward:        ward,
		FloorArea:   request.FloorArea,
		BuildingAge: request.BuildingAge,
		WalkMinutes: request.WalkMinutes,
	}
	assumptions := simulation.Assumptions{
		PurchasePriceMan:   request.PurchasePriceMan,
		InitialMonthlyRent: request.InitialMonthlyRent,
		InflationRate:      request.InflationRate,
		DepreciationRate:   request.DepreciationRate,
	}

	// Validate at the boundary so input mistakes are 400s, not evaluation
	// failures.
	if err := spec.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := assumptions.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The ward must have historical records backing the estimator.
	if err := h.datasets.RequireDataset(ward); err != nil {
		var missing *listings.MissingDatasetError
		if errors.As(err, &missing) {
			h.writeError(w, http.StatusUnprocessableEntity, missing.Error())
			return
		}
		h.writeError(w, http.StatusInternalServerError, "Dataset check failed: "+err.Error())
		return
	}

	// Pick the trained model, or the explicit degraded-mode curve when no
	// artifact is loaded. The two are never blended.
	est := h.est
	estimatorMode := "trained"
	if est == nil {
		est = estimator.NewGrowthCurve(assumptions.PurchasePriceMan, float64(spec.BuildingAge))
		estimatorMode = "fallback"
	}

	startTime := time.Now()
	result, err := h.sim.Run(spec, assumptions, est)
	elapsed := time.Since(startTime)

	if err != nil {
		var predErr *estimator.PredictionError
		if errors.As(err, &predErr) {
			h.writeError(w, http.StatusBadGateway, predErr.Error())
			return
		}
		h.writeError(w, http.StatusInternalServerError, "Simulation failed: "+err.Error())
		return
	}

	h.log.Info().
		Str("ward", string(ward)).
		Int("best_exit_year", result.BestExit.Year).
		Str("estimator", estimatorMode).
		Dur("elapsed", elapsed).
		Msg("Holding-period simulation completed")

	response := map[string]interface{}{
		"evaluation_id": uuid.New().String(),
		"result":        result,
		"summary": map[string]interface{}{
			"best_exit_year":       result.BestExit.Year,
			"best_exit_return_man": utils.RoundMan(result.BestExit.TotalReturn),
			"best_exit_price_man":  utils.RoundMan(result.BestExit.PredictedPrice),
			"net_rent_growth":      utils.FormatGrowthDelta(request.InflationRate - request.DepreciationRate),
			"break_even_year":      result.BreakEvenYear, // null when the run never breaks even
			"estimator":            estimatorMode,
		},
		"metadata": map[string]interface{}{
			"timestamp":  time.Now().Format(time.RFC3339),
			"elapsed_ms": elapsed.Milliseconds(),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// Helper methods

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
