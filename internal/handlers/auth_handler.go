package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/flashdeck/backend/internal/middleware"
	"github.com/flashdeck/backend/internal/models"
	"github.com/flashdeck/backend/internal/services"
	"github.com/flashdeck/backend/internal/validation"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	// RefreshTokenCookie is the name of the cookie carrying the refresh token
	RefreshTokenCookie = "refresh_token"

	loginErrorPath          = "/auth/login"
	msgInvalidCredentials   = "Nieprawidłowy adres e-mail lub hasło."
	msgEmailTaken           = "Konto z tym adresem e-mail już istnieje."
	msgForgotSent           = "Jeśli konto istnieje, wysłaliśmy wiadomość z linkiem do zmiany hasła."
	msgSignoutFailed        = "Nie udało się wylogować. Spróbuj ponownie."
	msgRefreshTokenRequired = "Brak tokenu odświeżania."
	msgSessionExpired       = "Sesja wygasła. Zaloguj się ponownie."
)

// AuthService is the interface that wraps methods for authentication business logic.
type AuthService interface {
	// Method Signup creates an account and starts a session.
	//
	// If the email is already registered, services.ErrEmailTaken is returned together with "nil" value.
	Signup(ctx context.Context, req *models.SignupRequest) (*services.AuthResult, error)
	// Method Login checks credentials and starts a session.
	//
	// Unknown emails and wrong passwords both return services.ErrInvalidCredentials.
	Login(ctx context.Context, req *models.LoginRequest) (*services.AuthResult, error)
	// Method ForgotPassword stores a recovery code and queues the recovery email.
	//
	// Unknown emails are not an error.
	ForgotPassword(ctx context.Context, email string) error
	// Method ExchangeCode consumes a one-time code and starts a session.
	//
	// Missing, used and expired codes return services.ErrInvalidCode.
	ExchangeCode(ctx context.Context, code string) (*services.AuthResult, error)
	// Method Refresh rotates a refresh token.
	//
	// Invalid tokens return services.ErrInvalidRefreshToken.
	Refresh(ctx context.Context, refreshToken string) (*services.AuthResult, error)
	// Method Signout deletes the refresh token of a session.
	Signout(ctx context.Context, refreshToken string) error
	// Method ResetPassword sets a new password for the user.
	ResetPassword(ctx context.Context, userID, password string) error
}

// CookieConfig controls the session cookies
type CookieConfig struct {
	AccessMaxAge  time.Duration
	RefreshMaxAge time.Duration
	Secure        bool
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService AuthService
	cookies     CookieConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, cookies CookieConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{logger: logger},
		authService: authService,
		cookies:     cookies,
	}
}

// RegisterRoutes registers all auth handler routes
func (h *AuthHandler) RegisterRoutes(r chi.Router, auth RouteAuth) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/signup", h.Signup)
		r.Post("/forgot", h.Forgot)
		r.Get("/callback", h.Callback)
		r.Post("/signout", h.Signout)
		r.Post("/refresh", h.Refresh)
		r.With(auth.Required).Post("/reset-password", h.ResetPassword)
	})
}

// userResponse is the body of successful session responses
type userResponse struct {
	User *models.SessionUser `json:"user"`
}

// successResponse is the body of operations without a result
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Login handles POST /api/auth/login
// @Summary Login user
// @Description Authenticate with email and password. Session tokens are set as HTTP-only cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} userResponse
// @Failure 400 {object} map[string]string "Invalid body or credentials"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.decodeAuthBody(w, r, &req) {
		return
	}

	result, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.respondError(w, http.StatusBadRequest, msgInvalidCredentials)
			return
		}
		h.logger.Error("failed to login user", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	h.setTokenCookies(w, result.AccessToken, result.RefreshToken)
	h.respondJSON(w, http.StatusOK, userResponse{User: &result.User})
}

// Signup handles POST /api/auth/signup
// @Summary Register a new user
// @Description Create an account with email and password. Session tokens are set as HTTP-only cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.SignupRequest true "Credentials"
// @Success 201 {object} userResponse
// @Failure 400 {object} map[string]string "Invalid body or email taken"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !h.decodeAuthBody(w, r, &req) {
		return
	}

	result, err := h.authService.Signup(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			h.respondError(w, http.StatusBadRequest, msgEmailTaken)
			return
		}
		h.logger.Error("failed to register user", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	h.setTokenCookies(w, result.AccessToken, result.RefreshToken)
	h.respondJSON(w, http.StatusCreated, userResponse{User: &result.User})
}

// Forgot handles POST /api/auth/forgot
// @Summary Request password reset
// @Description Sends a password reset link. The response is the same whether or not the account exists.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.ForgotPasswordRequest true "Email"
// @Success 200 {object} successResponse
// @Failure 400 {object} map[string]string "Invalid body"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/forgot [post]
func (h *AuthHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if !h.decodeAuthBody(w, r, &req) {
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		h.logger.Error("failed to start password reset", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	h.respondJSON(w, http.StatusOK, successResponse{Success: true, Message: msgForgotSent})
}

// Callback handles GET /api/auth/callback
// @Summary Exchange one-time code
// @Description Exchanges a one-time code for a session and redirects to "next" (same-site paths only).
// @Tags auth
// @Param code query string true "One-time code"
// @Param next query string false "Relative redirect path"
// @Success 302
// @Router /auth/callback [get]
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	result, err := h.authService.ExchangeCode(r.Context(), query.Get("code"))
	if err != nil {
		reason := "invalid_code"
		if !errors.Is(err, services.ErrInvalidCode) {
			h.logger.Error("failed to exchange code", zap.Error(err))
			reason = "server_error"
		}
		http.Redirect(w, r, loginErrorPath+"?error="+reason, http.StatusFound)
		return
	}

	h.setTokenCookies(w, result.AccessToken, result.RefreshToken)
	http.Redirect(w, r, safeRedirectPath(query.Get("next")), http.StatusFound)
}

// Signout handles POST /api/auth/signout
// @Summary Sign out
// @Description Deletes the refresh token and clears session cookies.
// @Tags auth
// @Produce json
// @Success 200 {object} successResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/signout [post]
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	var refreshToken string
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil {
		refreshToken = cookie.Value
	}

	if err := h.authService.Signout(r.Context(), refreshToken); err != nil {
		h.logger.Error("failed to sign out", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, msgSignoutFailed)
		return
	}

	h.clearTokenCookies(w)
	h.respondJSON(w, http.StatusOK, successResponse{Success: true})
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh handles POST /api/auth/refresh
// @Summary Refresh session
// @Description Rotates the refresh token. Token can be provided in the body or as a cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest false "Refresh token (optional if using cookie)"
// @Success 200 {object} userResponse
// @Failure 400 {object} map[string]string "Refresh token required"
// @Failure 401 {object} map[string]string "Invalid refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var refreshToken string
	var req RefreshRequest

	if err := validation.DecodeJSON(r.Body, &req); err == nil && req.RefreshToken != "" {
		refreshToken = req.RefreshToken
	} else if cookie, err := r.Cookie(RefreshTokenCookie); err == nil && cookie.Value != "" {
		refreshToken = cookie.Value
	} else {
		h.respondError(w, http.StatusBadRequest, msgRefreshTokenRequired)
		return
	}

	result, err := h.authService.Refresh(r.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRefreshToken) {
			h.clearTokenCookies(w)
			h.respondError(w, http.StatusUnauthorized, msgSessionExpired)
			return
		}
		h.logger.Error("failed to refresh tokens", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	h.setTokenCookies(w, result.AccessToken, result.RefreshToken)
	h.respondJSON(w, http.StatusOK, userResponse{User: &result.User})
}

// ResetPassword handles POST /api/auth/reset-password
// @Summary Set a new password
// @Description Sets a new password for the signed-in user, usually after following a recovery link.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ResetPasswordRequest true "New password"
// @Success 200 {object} successResponse
// @Failure 400 {object} map[string]string "Invalid body"
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.respondAPIError(w, http.StatusUnauthorized, models.CodeUnauthorized, msgUnauthorized, nil)
		return
	}

	var req models.ResetPasswordRequest
	if !h.decodeAuthBody(w, r, &req) {
		return
	}

	if err := h.authService.ResetPassword(r.Context(), id, req.Password); err != nil {
		h.logger.Error("failed to reset password", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	h.respondJSON(w, http.StatusOK, successResponse{Success: true})
}

// decodeAuthBody decodes and validates the body, answering 400 with the first problem on failure
func (h *AuthHandler) decodeAuthBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := validation.DecodeJSON(r.Body, dst)
	if err == nil {
		return true
	}

	if details, ok := validation.Details(err); ok && len(details) > 0 {
		h.respondError(w, http.StatusBadRequest, details[0].Message)
		return false
	}
	h.respondError(w, http.StatusBadRequest, msgMalformedBody)
	return false
}

// setTokenCookies sets access and refresh tokens as HTTP-only cookies
func (h *AuthHandler) setTokenCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(h.cookies.AccessMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(h.cookies.RefreshMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearTokenCookies expires both session cookies
func (h *AuthHandler) clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{middleware.AccessTokenCookie, RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.cookies.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// safeRedirectPath returns next when it is a same-site absolute path, otherwise "/"
func safeRedirectPath(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.ContainsAny(next, "\\\r\n") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}
