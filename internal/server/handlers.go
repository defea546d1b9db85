// Package server provides the HTTP server and routing for WardNavi.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/estatelab/wardnavi/internal/domain"
	"github.com/estatelab/wardnavi/internal/modules/listings"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": "wardnavi",
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleWards returns the 23 supported wards with their reference data and
// how many historical records back each one.
func (s *Server) handleWards(w http.ResponseWriter, r *http.Request) {
	type wardInfo struct {
		Ward         domain.Ward `json:"ward"`
		JapaneseName string      `json:"japanese_name"`
		RentFactor   float64     `json:"rent_factor"`
		Profile      string      `json:"profile"`
		Records      int         `json:"records"`
	}

	wards := make([]wardInfo, 0, len(domain.AllWards))
	for _, ward := range domain.AllWards {
		count, err := s.listingsRepo.CountByWard(ward)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "Failed to count records: "+err.Error())
			return
		}
		wards = append(wards, wardInfo{
			Ward:         ward,
			JapaneseName: ward.JapaneseName(),
			RentFactor:   ward.RentFactor(),
			Profile:      ward.Profile(),
			Records:      count,
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"wards": wards,
	})
}

// handleWardStats returns price statistics over one ward's stored records
func (s *Server) handleWardStats(w http.ResponseWriter, r *http.Request) {
	ward, err := domain.ParseWard(chi.URLParam(r, "ward"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := s.listingsRepo.Stats(ward)
	if err != nil {
		var missing *listings.MissingDatasetError
		if errors.As(err, &missing) {
			s.writeError(w, http.StatusUnprocessableEntity, missing.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, "Failed to compute stats: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, stats)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
