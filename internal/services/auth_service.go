package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/flashdeck/backend/internal/auth"
	"github.com/flashdeck/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	// RecoveryCodeTTL is the lifetime of a password recovery code
	RecoveryCodeTTL = 30 * time.Minute
	// ResetPasswordPath is where a recovered session continues
	ResetPasswordPath = "/auth/reset-password"
	recoveryCodeBytes = 32
)

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user, its ID and CreatedAt are filled.
	//
	// If the email is already registered, an error wrapping models.ErrAlreadyExists is returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByEmail retrieves a user by email.
	//
	// If user with such email does not exist, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Method UpdatePassword replaces the password hash of a user.
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// UserTokenRepository is the interface that wraps methods for UserToken table data access
type UserTokenRepository interface {
	// Method Create inserts a new refresh token into the database.
	Create(ctx context.Context, userToken *models.UserToken) error
	// Method GetByToken retrieves an unexpired refresh token.
	//
	// If the token does not exist or has expired, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByToken(ctx context.Context, token string) (*models.UserToken, error)
	// Method UpdateToken replaces the old refresh token of a user with a new one.
	//
	// "expiresAt" parameter is the expiry of the new token.
	UpdateToken(ctx context.Context, oldToken, newToken, userID string, expiresAt time.Time) error
	// Method DeleteByToken deletes a refresh token. Deleting an unknown token is not an error.
	DeleteByToken(ctx context.Context, token string) error
}

// AuthCodeRepository is the interface that wraps methods for AuthCode table data access
type AuthCodeRepository interface {
	// Method Create stores a one-time code.
	Create(ctx context.Context, code *models.AuthCode) error
	// Method Consume marks an unused, unexpired code as used and returns it.
	//
	// Unknown, used and expired codes are reported with an error wrapping models.ErrNotFound.
	Consume(ctx context.Context, code string, now time.Time) (*models.AuthCode, error)
}

// PasswordResetEnqueuer is the interface that wraps queueing of password reset emails
type PasswordResetEnqueuer interface {
	// Method EnqueuePasswordReset schedules delivery of the reset link to the email address.
	EnqueuePasswordReset(ctx context.Context, email, link string) error
}

// AuthResult is a started session
type AuthResult struct {
	User         models.SessionUser
	AccessToken  string
	RefreshToken string
}

// authService implements AuthService
type authService struct {
	userRepo       UserRepository
	userTokenRepo  UserTokenRepository
	authCodeRepo   AuthCodeRepository
	enqueuer       PasswordResetEnqueuer
	tokenGenerator *auth.TokenGenerator
	appURL         string
	logger         *zap.Logger
	now            func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo UserRepository,
	userTokenRepo UserTokenRepository,
	authCodeRepo AuthCodeRepository,
	enqueuer PasswordResetEnqueuer,
	tokenGenerator *auth.TokenGenerator,
	appURL string,
	logger *zap.Logger,
) *authService {
	return &authService{
		userRepo:       userRepo,
		userTokenRepo:  userTokenRepo,
		authCodeRepo:   authCodeRepo,
		enqueuer:       enqueuer,
		tokenGenerator: tokenGenerator,
		appURL:         strings.TrimRight(appURL, "/"),
		logger:         logger,
		now:            time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a new user account and starts a session
func (s *authService) Signup(ctx context.Context, req *models.SignupRequest) (*AuthResult, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        normalizeEmail(req.Email),
		PasswordHash: string(passwordHash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return s.startSession(ctx, user)
}

// Login authenticates a user by email and password
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.startSession(ctx, user)
}

// ForgotPassword stores a recovery code and queues the email with the recovery link.
// Unknown emails succeed silently so the response does not reveal registered accounts.
// Failures after the account lookup are logged and not returned for the same reason.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	authCode := &models.AuthCode{
		Code:      code,
		UserID:    user.ID,
		Purpose:   models.AuthCodePurposeRecovery,
		ExpiresAt: s.now().Add(RecoveryCodeTTL),
	}
	if err := s.authCodeRepo.Create(ctx, authCode); err != nil {
		s.logger.Error("failed to store recovery code", zap.String("user_id", user.ID), zap.Error(err))
		return nil
	}

	if err := s.enqueuer.EnqueuePasswordReset(ctx, user.Email, s.recoveryLink(code)); err != nil {
		s.logger.Error("failed to enqueue password reset email", zap.String("user_id", user.ID), zap.Error(err))
	}
	return nil
}

func (s *authService) recoveryLink(code string) string {
	q := url.Values{}
	q.Set("code", code)
	q.Set("next", ResetPasswordPath)
	return s.appURL + "/api/auth/callback?" + q.Encode()
}

// ExchangeCode consumes a one-time code and starts a session for its user
func (s *authService) ExchangeCode(ctx context.Context, code string) (*AuthResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInvalidCode
	}

	authCode, err := s.authCodeRepo.Consume(ctx, code, s.now())
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, authCode.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, err
	}

	return s.startSession(ctx, user)
}

// Refresh rotates a refresh token and issues a new access token
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if err := s.tokenGenerator.ValidateRefreshToken(refreshToken); err != nil {
		if delErr := s.userTokenRepo.DeleteByToken(ctx, refreshToken); delErr != nil {
			s.logger.Warn("failed to delete invalid refresh token", zap.Error(delErr))
		}
		return nil, ErrInvalidRefreshToken
	}

	userToken, err := s.userTokenRepo.GetByToken(ctx, refreshToken)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userToken.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}

	accessToken, newRefreshToken, err := s.tokenGenerator.GenerateTokens(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(s.tokenGenerator.RefreshTokenExpiry())
	if err := s.userTokenRepo.UpdateToken(ctx, refreshToken, newRefreshToken, user.ID, expiresAt); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         models.SessionUser{ID: user.ID, Email: user.Email},
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Signout deletes the refresh token of the session
func (s *authService) Signout(ctx context.Context, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil
	}
	return s.userTokenRepo.DeleteByToken(ctx, refreshToken)
}

// ResetPassword sets a new password for the user
func (s *authService) ResetPassword(ctx context.Context, userID, password string) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(passwordHash)); err != nil {
		return err
	}

	s.logger.Info("password reset", zap.String("user_id", userID))
	return nil
}

// startSession generates access and refresh tokens and saves the refresh token
func (s *authService) startSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	accessToken, refreshToken, err := s.tokenGenerator.GenerateTokens(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	userToken := &models.UserToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: s.now().Add(s.tokenGenerator.RefreshTokenExpiry()),
	}
	if err := s.userTokenRepo.Create(ctx, userToken); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &AuthResult{
		User:         models.SessionUser{ID: user.ID, Email: user.Email},
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// generateCode returns a random hex encoded one-time code
func generateCode() (string, error) {
	b := make([]byte, recoveryCodeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return hex.EncodeToString(b), nil
}
