package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flashdeck/backend/internal/middleware"
	"github.com/flashdeck/backend/internal/models"
	"github.com/flashdeck/backend/internal/services"
	"github.com/flashdeck/backend/internal/validation"
	"go.uber.org/zap"
)

// User-facing messages
const (
	msgInternal      = "Wystąpił nieoczekiwany błąd. Spróbuj ponownie później."
	msgMalformedBody = "Nieprawidłowy format żądania."
	msgValidation    = "Nieprawidłowe dane wejściowe."
	msgDeckNotFound  = "Nie znaleziono talii."
	msgPairNotFound  = "Nie znaleziono pary."
	msgLanguage      = "Nieznany język."
	msgQuotaExceeded = "Wykorzystano miesięczny limit generowania."
	msgGeneration    = "Nie udało się wygenerować par. Spróbuj ponownie."
	msgUnsupported   = "Obsługiwane są tylko pliki .csv i .xlsx."
	msgInvalidFile   = "Nie udało się odczytać pliku."
	msgUnauthorized  = "Wymagane zalogowanie."
	msgFileRequired  = "Wymagany jest plik."
	msgFileTooLarge  = "Plik jest zbyt duży."
)

// RouteAuth carries the session middlewares routes are wrapped with
type RouteAuth struct {
	// Required rejects anonymous requests
	Required func(http.Handler) http.Handler
	// Optional attaches the session when present
	Optional func(http.Handler) http.Handler
}

// BaseHandler provides response helpers shared by all handlers
type BaseHandler struct {
	logger *zap.Logger
}

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends a plain {"error": message} response used by auth endpoints
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// respondAPIError sends the {"error": {code, message, details}} envelope
func (h *BaseHandler) respondAPIError(w http.ResponseWriter, status int, code, message string, details []models.FieldError) {
	h.respondJSON(w, status, models.ErrorResponse{Error: models.APIError{
		Code:    code,
		Message: message,
		Details: details,
	}})
}

// respondDecodeError reports a body that could not be decoded or failed validation
func (h *BaseHandler) respondDecodeError(w http.ResponseWriter, err error) {
	if details, ok := validation.Details(err); ok {
		h.respondAPIError(w, http.StatusUnprocessableEntity, models.CodeValidation, msgValidation, details)
		return
	}
	h.respondAPIError(w, http.StatusBadRequest, models.CodeBadRequest, msgMalformedBody, nil)
}

// respondServiceError maps service errors to responses. Unknown errors are logged and hidden.
func (h *BaseHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrDeckNotFound):
		h.respondAPIError(w, http.StatusNotFound, models.CodeNotFound, msgDeckNotFound, nil)
	case errors.Is(err, services.ErrPairNotFound):
		h.respondAPIError(w, http.StatusNotFound, models.CodeNotFound, msgPairNotFound, nil)
	case errors.Is(err, services.ErrLanguageNotFound):
		h.respondAPIError(w, http.StatusUnprocessableEntity, models.CodeValidation, msgLanguage, nil)
	case errors.Is(err, services.ErrQuotaExceeded):
		h.respondAPIError(w, http.StatusTooManyRequests, models.CodeQuotaExceeded, msgQuotaExceeded, nil)
	case errors.Is(err, services.ErrUnsupportedFile):
		h.respondAPIError(w, http.StatusBadRequest, models.CodeBadRequest, msgUnsupported, nil)
	case errors.Is(err, services.ErrInvalidFile):
		h.respondAPIError(w, http.StatusBadRequest, models.CodeBadRequest, msgInvalidFile, nil)
	case errors.Is(err, services.ErrGenerationFailed):
		h.logger.Error("generation failed", zap.String("request_id", middleware.GetRequestID(r.Context())), zap.Error(err))
		h.respondAPIError(w, http.StatusBadGateway, models.CodeInternal, msgGeneration, nil)
	default:
		h.logger.Error("request failed",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		h.respondAPIError(w, http.StatusInternalServerError, models.CodeInternal, msgInternal, nil)
	}
}

// userID returns the session user id or "" for anonymous requests
func userID(r *http.Request) string {
	id, _ := middleware.GetUserID(r.Context())
	return id
}
