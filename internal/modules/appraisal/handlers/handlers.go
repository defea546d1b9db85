// Package handlers provides HTTP handlers for point appraisals.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/estatelab/wardnavi/internal/domain"
	"github.com/estatelab/wardnavi/internal/modules/appraisal"
	"github.com/estatelab/wardnavi/internal/modules/estimator"
	"github.com/estatelab/wardnavi/internal/modules/listings"
	"github.com/estatelab/wardnavi/internal/utils"
)

// DatasetChecker verifies historical records exist for a ward before an
// appraisal is allowed to run.
type DatasetChecker interface {
	RequireDataset(ward domain.Ward) error
}

// Handler handles appraisal HTTP requests
type Handler struct {
	svc      *appraisal.Service // nil when the estimator artifact failed to load
	datasets DatasetChecker
	log      zerolog.Logger
}

// NewHandler creates a new appraisal handler. svc may be nil when the
// estimator artifact is unavailable; appraisals are then rejected with 503
// because there is no degraded mode for point appraisals.
func NewHandler(svc *appraisal.Service, datasets DatasetChecker, log zerolog.Logger) *Handler {
	return &Handler{
		svc:      svc,
		datasets: datasets,
		log:      log.With().Str("handler", "appraisal").Logger(),
	}
}

// appraiseRequest is the JSON body of POST /api/appraise
type appraiseRequest struct {
	Ward        string  `json:"ward"`
	Town        string  `json:"town"`
	FloorArea   float64 `json:"floor_area"`
	WalkMinutes int     `json:"walk_minutes"`
	VintageYear int     `json:"vintage_year"`
	Brand       bool    `json:"brand"`
}

// HandleAppraise handles POST /api/appraise
func (h *Handler) HandleAppraise(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		h.writeError(w, http.StatusServiceUnavailable, estimator.ErrMissingArtifact.Error())
		return
	}

	var request appraiseRequest

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

	input := appraisal.Input{
		Ward:        ward,
		Town:        request.Town,
		FloorArea:   request.FloorArea,
		WalkMinutes: request.WalkMinutes,
		VintageYear: request.VintageYear,
		Brand:       request.Brand,
	}
	if err := input.Validate(); err != nil {
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

	startTime := time.Now()
	result, err := h.svc.Appraise(input)
	elapsed := time.Since(startTime)

	if err != nil {
		var predErr *estimator.PredictionError
		if errors.As(err, &predErr) {
			h.writeError(w, http.StatusBadGateway, predErr.Error())
			return
		}
		h.writeError(w, http.StatusInternalServerError, "Appraisal failed: "+err.Error())
		return
	}

	h.log.Info().
		Str("ward", string(ward)).
		Float64("price_base_man", result.PriceBaseMan).
		Str("trend", result.Trend).
		Dur("elapsed", elapsed).
		Msg("Appraisal completed")

	response := map[string]interface{}{
		"evaluation_id": uuid.New().String(),
		"result":        result,
		"summary": map[string]interface{}{
			"price_base_man":      utils.RoundMan(result.PriceBaseMan),
			"price_at_offset_man": utils.RoundMan(result.PriceAtOffsetMan),
			"annual_rent_man":     utils.RoundMan(result.AnnualRentMan),
			"yield":               utils.FormatYield(result.YieldRate),
			"brand_range_man":     []int{utils.RoundMan(result.BrandLowMan), utils.RoundMan(result.BrandHighMan)},
			"trend":               result.Trend,
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
