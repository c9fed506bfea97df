package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/flashdeck/backend/internal/models"
	"github.com/flashdeck/backend/internal/pagination"
	"github.com/flashdeck/backend/internal/services"
	"github.com/flashdeck/backend/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// DemoWriteRateLimit is the number of demo results one IP may submit per minute
const DemoWriteRateLimit = 30

// ChallengeService is the interface that wraps methods for challenge business logic.
type ChallengeService interface {
	// Method SubmitResult stores a challenge result of the user on a visible deck.
	SubmitResult(ctx context.Context, userID string, req *models.CreateChallengeResultRequest) (*models.ChallengeResult, error)
	// Method Leaderboard returns the best result of each user on a deck the user may view.
	//
	// Hidden and missing decks both return services.ErrDeckNotFound.
	Leaderboard(ctx context.Context, userID, deckID string, limit int) ([]models.LeaderboardEntry, error)
	// Method SubmitDemoResult stores an anonymous demo result.
	SubmitDemoResult(ctx context.Context, req *models.CreateDemoResultRequest) (*models.ChallengeDemoResult, error)
	// Method DemoLeaderboard returns the top demo results.
	DemoLeaderboard(ctx context.Context) ([]models.DemoLeaderboardEntry, error)
}

// ChallengeHandler handles challenge-related HTTP requests
type ChallengeHandler struct {
	BaseHandler
	challengeService ChallengeService
}

// NewChallengeHandler creates a new challenge handler
func NewChallengeHandler(challengeService ChallengeService, logger *zap.Logger) *ChallengeHandler {
	return &ChallengeHandler{
		BaseHandler:      BaseHandler{logger: logger},
		challengeService: challengeService,
	}
}

// RegisterRoutes registers all challenge handler routes
func (h *ChallengeHandler) RegisterRoutes(r chi.Router, auth RouteAuth) {
	r.Route("/api/challenge", func(r chi.Router) {
		r.With(auth.Optional).Get("/decks/{deckId}/top", h.Leaderboard)
		r.With(auth.Required).Post("/results", h.SubmitResult)
		r.Get("/demo/leaderboard", h.DemoLeaderboard)
		r.With(httprate.LimitByIP(DemoWriteRateLimit, time.Minute)).Post("/demo/results", h.SubmitDemoResult)
	})
}

// leaderboardResponse is the body of leaderboard listings
type leaderboardResponse[T any] struct {
	Items []T `json:"items"`
}

// createdResponse is the body of a created challenge result
type createdResponse struct {
	ID string `json:"id"`
}

// Leaderboard handles GET /api/challenge/decks/{deckId}/top
// @Summary Deck leaderboard
// @Description Best result of each user, ordered by time then mistakes
// @Tags challenge
// @Produce json
// @Param deckId path string true "Deck ID"
// @Param limit query int false "Number of entries (max 50)" default(10)
// @Success 200 {object} leaderboardResponse[models.LeaderboardEntry]
// @Failure 404 {object} models.ErrorResponse
// @Router /challenge/decks/{deckId}/top [get]
func (h *ChallengeHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := pagination.ParseInt(r.URL.Query().Get("limit"), services.DefaultLeaderboardLimit, 1, services.MaxLeaderboardLimit)

	entries, err := h.challengeService.Leaderboard(r.Context(), userID(r), chi.URLParam(r, "deckId"), limit)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, leaderboardResponse[models.LeaderboardEntry]{Items: entries})
}

// SubmitResult handles POST /api/challenge/results
// @Summary Submit a challenge result
// @Tags challenge
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateChallengeResultRequest true "Result"
// @Success 201 {object} createdResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /challenge/results [post]
func (h *ChallengeHandler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	var req models.CreateChallengeResultRequest
	if err := validation.DecodeJSON(r.Body, &req); err != nil {
		h.respondDecodeError(w, err)
		return
	}

	result, err := h.challengeService.SubmitResult(r.Context(), userID(r), &req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, createdResponse{ID: result.ID})
}

// DemoLeaderboard handles GET /api/challenge/demo/leaderboard
// @Summary Demo leaderboard
// @Description Top 30 anonymous demo results, ordered by time then mistakes
// @Tags challenge
// @Produce json
// @Success 200 {object} leaderboardResponse[models.DemoLeaderboardEntry]
// @Router /challenge/demo/leaderboard [get]
func (h *ChallengeHandler) DemoLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.challengeService.DemoLeaderboard(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, leaderboardResponse[models.DemoLeaderboardEntry]{Items: entries})
}

// SubmitDemoResult handles POST /api/challenge/demo/results
// @Summary Submit a demo result
// @Tags challenge
// @Accept json
// @Produce json
// @Param request body models.CreateDemoResultRequest true "Result"
// @Success 201 {object} successResponse
// @Failure 422 {object} models.ErrorResponse
// @Failure 429 {string} string "Too many requests"
// @Router /challenge/demo/results [post]
func (h *ChallengeHandler) SubmitDemoResult(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDemoResultRequest
	if err := validation.DecodeJSON(r.Body, &req); err != nil {
		h.respondDecodeError(w, err)
		return
	}

	if _, err := h.challengeService.SubmitDemoResult(r.Context(), &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, successResponse{Success: true})
}
