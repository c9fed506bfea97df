package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/flashdeck/backend/internal/models"
	"github.com/flashdeck/backend/internal/pagination"
	"github.com/flashdeck/backend/internal/validation"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	// MaxImportFileSize is the largest accepted import file in bytes
	MaxImportFileSize = 5 << 20

	multipartOverhead = 64 << 10
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// PairService is the interface that wraps methods for pair business logic.
type PairService interface {
	// Method List returns a page of pairs of a deck the user may view.
	//
	// Hidden and missing decks both return services.ErrDeckNotFound.
	List(ctx context.Context, userID, deckID string, params pagination.Params) (*models.PairPage, error)
	// Method Create adds pairs to a deck owned by the user.
	Create(ctx context.Context, userID, deckID string, inputs []models.PairInput) ([]models.Pair, error)
	// Method Update changes a pair of a deck owned by the user.
	Update(ctx context.Context, userID, deckID, pairID string, req *models.UpdatePairRequest) (*models.Pair, error)
	// Method Delete removes a pair of a deck owned by the user.
	Delete(ctx context.Context, userID, deckID, pairID string) error
}

// TransferService is the interface that wraps methods for pair import and export.
type TransferService interface {
	// Method Import reads pairs from a .csv or .xlsx file into a deck owned by the user.
	Import(ctx context.Context, userID, deckID, filename string, data []byte) (*models.ImportReport, error)
	// Method Export renders the pairs of a visible deck as an .xlsx workbook.
	//
	// Returns the suggested file name and the workbook bytes.
	Export(ctx context.Context, userID, deckID string) (string, []byte, error)
}

// PairHandler handles pair-related HTTP requests
type PairHandler struct {
	BaseHandler
	pairService     PairService
	transferService TransferService
}

// NewPairHandler creates a new pair handler
func NewPairHandler(pairService PairService, transferService TransferService, logger *zap.Logger) *PairHandler {
	return &PairHandler{
		BaseHandler:     BaseHandler{logger: logger},
		pairService:     pairService,
		transferService: transferService,
	}
}

// RegisterRoutes registers all pair handler routes
func (h *PairHandler) RegisterRoutes(r chi.Router, auth RouteAuth) {
	r.With(auth.Optional).Get("/api/decks/{deckId}/pairs", h.List)
	r.With(auth.Required).Post("/api/decks/{deckId}/pairs", h.Create)
	r.With(auth.Required).Post("/api/decks/{deckId}/pairs/import", h.Import)
	r.With(auth.Required).Patch("/api/decks/{deckId}/pairs/{pairId}", h.Update)
	r.With(auth.Required).Delete("/api/decks/{deckId}/pairs/{pairId}", h.Delete)
	r.With(auth.Optional).Get("/api/decks/{deckId}/export", h.Export)
}

// pairsResponse is the body of a pair creation
type pairsResponse struct {
	Items []models.Pair `json:"items"`
}

// List handles GET /api/decks/{deckId}/pairs
// @Summary List pairs of a deck
// @Description Pairs in creation order. "limit" is accepted as an alias of "page_size".
// @Tags pairs
// @Produce json
// @Param deckId path string true "Deck ID"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size (max 100)" default(20)
// @Success 200 {object} models.PairPage
// @Failure 404 {object} models.ErrorResponse
// @Router /decks/{deckId}/pairs [get]
func (h *PairHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.Parse(r.URL.Query(), pagination.DefaultPageSize, pagination.MaxPageSize)

	page, err := h.pairService.List(r.Context(), userID(r), chi.URLParam(r, "deckId"), params)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, page)
}

// Create handles POST /api/decks/{deckId}/pairs
// @Summary Add pairs to a deck
// @Tags pairs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param deckId path string true "Deck ID"
// @Param request body models.CreatePairsRequest true "Pairs (1 to 100)"
// @Success 201 {object} pairsResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /decks/{deckId}/pairs [post]
func (h *PairHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePairsRequest
	if err := validation.DecodeJSON(r.Body, &req); err != nil {
		h.respondDecodeError(w, err)
		return
	}

	pairs, err := h.pairService.Create(r.Context(), userID(r), chi.URLParam(r, "deckId"), req.Pairs)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, pairsResponse{Items: pairs})
}

// Update handles PATCH /api/decks/{deckId}/pairs/{pairId}
// @Summary Update a pair
// @Tags pairs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param deckId path string true "Deck ID"
// @Param pairId path string true "Pair ID"
// @Param request body models.UpdatePairRequest true "Changed fields"
// @Success 200 {object} models.Pair
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /decks/{deckId}/pairs/{pairId} [patch]
func (h *PairHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePairRequest
	if err := validation.DecodeJSON(r.Body, &req); err != nil {
		h.respondDecodeError(w, err)
		return
	}

	pair, err := h.pairService.Update(r.Context(), userID(r), chi.URLParam(r, "deckId"), chi.URLParam(r, "pairId"), &req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, pair)
}

// Delete handles DELETE /api/decks/{deckId}/pairs/{pairId}
// @Summary Delete a pair
// @Tags pairs
// @Security BearerAuth
// @Param deckId path string true "Deck ID"
// @Param pairId path string true "Pair ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /decks/{deckId}/pairs/{pairId} [delete]
func (h *PairHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.pairService.Delete(r.Context(), userID(r), chi.URLParam(r, "deckId"), chi.URLParam(r, "pairId")); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Import handles POST /api/decks/{deckId}/pairs/import
// @Summary Import pairs from a file
// @Description Columns: term_a, term_b, type (optional), register (optional). A header row is detected.
// @Tags pairs
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param deckId path string true "Deck ID"
// @Param file formData file true ".csv or .xlsx file"
// @Success 200 {object} models.ImportReport
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 413 {object} models.ErrorResponse
// @Router /decks/{deckId}/pairs/import [post]
func (h *PairHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxImportFileSize+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondAPIError(w, http.StatusRequestEntityTooLarge, models.CodeBadRequest, msgFileTooLarge, nil)
			return
		}
		h.respondAPIError(w, http.StatusBadRequest, models.CodeBadRequest, msgFileRequired, nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImportFileSize+1))
	if err != nil {
		h.respondAPIError(w, http.StatusBadRequest, models.CodeBadRequest, msgInvalidFile, nil)
		return
	}
	if len(data) > MaxImportFileSize {
		h.respondAPIError(w, http.StatusRequestEntityTooLarge, models.CodeBadRequest, msgFileTooLarge, nil)
		return
	}

	report, err := h.transferService.Import(r.Context(), userID(r), chi.URLParam(r, "deckId"), header.Filename, data)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, report)
}

// Export handles GET /api/decks/{deckId}/export
// @Summary Export pairs as a spreadsheet
// @Tags pairs
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param deckId path string true "Deck ID"
// @Success 200 {file} file
// @Failure 404 {object} models.ErrorResponse
// @Router /decks/{deckId}/export [get]
func (h *PairHandler) Export(w http.ResponseWriter, r *http.Request) {
	filename, data, err := h.transferService.Export(r.Context(), userID(r), chi.URLParam(r, "deckId"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write export", zap.Error(err))
	}
}
