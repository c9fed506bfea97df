package handlers

import (
	"context"
	"net/http"

	"github.com/flashdeck/backend/internal/models"
	"github.com/flashdeck/backend/internal/pagination"
	"github.com/flashdeck/backend/internal/validation"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DeckService is the interface that wraps methods for deck business logic.
type DeckService interface {
	// Method ListMine returns a page of decks owned by the user, newest first.
	ListMine(ctx context.Context, userID string, params pagination.Params) (*models.DeckPage, error)
	// Method ListPublic returns a page of public decks, newest first.
	ListPublic(ctx context.Context, params pagination.Params) (*models.DeckPage, error)
	// Method Get returns a deck the requester may view.
	//
	// "userID" is empty for anonymous requests. Hidden and missing decks both return services.ErrDeckNotFound.
	Get(ctx context.Context, userID, deckID string) (*models.Deck, error)
	// Method Create creates a deck owned by the user.
	Create(ctx context.Context, userID string, req *models.CreateDeckRequest) (*models.Deck, error)
	// Method Update changes the deck if the user owns it.
	Update(ctx context.Context, userID, deckID string, req *models.UpdateDeckRequest) (*models.Deck, error)
	// Method Delete removes the deck and its pairs if the user owns it.
	Delete(ctx context.Context, userID, deckID string) error
	// Method GetLanguages returns all languages decks can use.
	GetLanguages(ctx context.Context) ([]models.Language, error)
}

// DeckHandler handles deck-related HTTP requests
type DeckHandler struct {
	BaseHandler
	deckService DeckService
}

// NewDeckHandler creates a new deck handler
func NewDeckHandler(deckService DeckService, logger *zap.Logger) *DeckHandler {
	return &DeckHandler{
		BaseHandler: BaseHandler{logger: logger},
		deckService: deckService,
	}
}

// RegisterRoutes registers all deck handler routes
func (h *DeckHandler) RegisterRoutes(r chi.Router, auth RouteAuth) {
	r.With(auth.Required).Get("/api/decks", h.ListMine)
	r.With(auth.Required).Post("/api/decks", h.Create)
	r.Get("/api/decks/public", h.ListPublic)
	r.With(auth.Optional).Get("/api/decks/{deckId}", h.Get)
	r.With(auth.Required).Patch("/api/decks/{deckId}", h.Update)
	r.With(auth.Required).Delete("/api/decks/{deckId}", h.Delete)
	r.Get("/api/languages", h.GetLanguages)
}

// ListMine handles GET /api/decks
// @Summary List my decks
// @Description Get a page of decks owned by the signed-in user
// @Tags decks
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size (max 100)" default(20)
// @Success 200 {object} models.DeckPage
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /decks [get]
func (h *DeckHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	params := pagination.Parse(r.URL.Query(), pagination.DefaultPageSize, pagination.MaxPageSize)

	page, err := h.deckService.ListMine(r.Context(), userID(r), params)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, page)
}

// ListPublic handles GET /api/decks/public
// @Summary List public decks
// @Tags decks
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size (max 100)" default(20)
// @Success 200 {object} models.DeckPage
// @Failure 500 {object} models.ErrorResponse
// @Router /decks/public [get]
func (h *DeckHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	params := pagination.Parse(r.URL.Query(), pagination.DefaultPageSize, pagination.MaxPageSize)

	page, err := h.deckService.ListPublic(r.Context(), params)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, page)
}

// Get handles GET /api/decks/{deckId}
// @Summary Get a deck
// @Description Owners see any of their decks, everyone else only public and unlisted ones
// @Tags decks
// @Produce json
// @Param deckId path string true "Deck ID"
// @Success 200 {object} models.Deck
// @Failure 404 {object} models.ErrorResponse
// @Router /decks/{deckId} [get]
func (h *DeckHandler) Get(w http.ResponseWriter, r *http.Request) {
	deck, err := h.deckService.Get(r.Context(), userID(r), chi.URLParam(r, "deckId"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, deck)
}

// Create handles POST /api/decks
// @Summary Create a deck
// @Tags decks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateDeckRequest true "Deck"
// @Success 201 {object} models.Deck
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /decks [post]
func (h *DeckHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDeckRequest
	if err := validation.DecodeJSON(r.Body, &req); err != nil {
		h.respondDecodeError(w, err)
		return
	}

	deck, err := h.deckService.Create(r.Context(), userID(r), &req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, deck)
}

// Update handles PATCH /api/decks/{deckId}
// @Summary Update a deck
// @Tags decks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param deckId path string true "Deck ID"
// @Param request body models.UpdateDeckRequest true "Changed fields"
// @Success 200 {object} models.Deck
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /decks/{deckId} [patch]
func (h *DeckHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateDeckRequest
	if err := validation.DecodeJSON(r.Body, &req); err != nil {
		h.respondDecodeError(w, err)
		return
	}

	deck, err := h.deckService.Update(r.Context(), userID(r), chi.URLParam(r, "deckId"), &req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, deck)
}

// Delete handles DELETE /api/decks/{deckId}
// @Summary Delete a deck
// @Tags decks
// @Security BearerAuth
// @Param deckId path string true "Deck ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /decks/{deckId} [delete]
func (h *DeckHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.deckService.Delete(r.Context(), userID(r), chi.URLParam(r, "deckId")); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetLanguages handles GET /api/languages
// @Summary List languages
// @Tags decks
// @Produce json
// @Success 200 {array} models.Language
// @Router /languages [get]
func (h *DeckHandler) GetLanguages(w http.ResponseWriter, r *http.Request) {
	languages, err := h.deckService.GetLanguages(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, languages)
}
