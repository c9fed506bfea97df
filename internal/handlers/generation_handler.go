package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/flashdeck/backend/internal/middleware"
	"github.com/flashdeck/backend/internal/models"
	"github.com/flashdeck/backend/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// GenerationRateLimit is the number of generation requests one user may send per minute
const GenerationRateLimit = 10

// GenerationService is the interface that wraps methods for pair generation business logic.
type GenerationService interface {
	// Method Generate asks the LLM for pairs and records the generation.
	//
	// Returns services.ErrQuotaExceeded when the monthly quota is used up and
	// services.ErrGenerationFailed when the provider call or its reply is invalid.
	Generate(ctx context.Context, userID string, req *models.GenerateRequest) (*models.GenerationResponse, error)
	// Method GetQuota returns the generation quota of the user for the current month.
	GetQuota(ctx context.Context, userID string) (*models.Quota, error)
}

// GenerationHandler handles generation-related HTTP requests
type GenerationHandler struct {
	BaseHandler
	generationService GenerationService
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(generationService GenerationService, logger *zap.Logger) *GenerationHandler {
	return &GenerationHandler{
		BaseHandler:       BaseHandler{logger: logger},
		generationService: generationService,
	}
}

// RegisterRoutes registers all generation handler routes
func (h *GenerationHandler) RegisterRoutes(r chi.Router, auth RouteAuth) {
	perUser := httprate.Limit(GenerationRateLimit, time.Minute, httprate.WithKeyFuncs(sessionKey))

	r.With(auth.Required, perUser).Post("/api/generations", h.Generate)
	r.With(auth.Required).Get("/api/users/me/quota", h.GetQuota)
}

// sessionKey keys rate limits by the signed-in user, falling back to the client IP
func sessionKey(r *http.Request) (string, error) {
	if id, ok := middleware.GetUserID(r.Context()); ok {
		return "user:" + id, nil
	}
	return httprate.KeyByIP(r)
}

// Generate handles POST /api/generations
// @Summary Generate pairs
// @Description Generates exactly "count" pairs with the LLM. With deck_id the pairs are added to the deck.
// @Tags generation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.GenerateRequest true "Generation request"
// @Success 200 {object} models.GenerationResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /generations [post]
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := validation.DecodeJSON(r.Body, &req); err != nil {
		h.respondDecodeError(w, err)
		return
	}

	resp, err := h.generationService.Generate(r.Context(), userID(r), &req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// GetQuota handles GET /api/users/me/quota
// @Summary Get my generation quota
// @Tags generation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Quota
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me/quota [get]
func (h *GenerationHandler) GetQuota(w http.ResponseWriter, r *http.Request) {
	quota, err := h.generationService.GetQuota(r.Context(), userID(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, quota)
}
