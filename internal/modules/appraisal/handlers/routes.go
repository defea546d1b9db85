package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all appraisal routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/appraise", h.HandleAppraise)
}
