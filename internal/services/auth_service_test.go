package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/flashdeck/backend/internal/auth"
	"github.com/flashdeck/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	user         *models.User
	err          error
	createErr    error
	created      *models.User
	lookedUp     string
	passwordHash string
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = testUserID
	m.created = user
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.lookedUp = email
	return m.get()
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.get()
}

func (m *mockUserRepository) get() (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.user == nil {
		return nil, fmt.Errorf("user: %w", models.ErrNotFound)
	}
	return m.user, nil
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.err != nil {
		return m.err
	}
	m.passwordHash = passwordHash
	return nil
}

// mockUserTokenRepository is a mock implementation of UserTokenRepository
type mockUserTokenRepository struct {
	token          *models.UserToken
	err            error
	updateTokenErr error
	created        *models.UserToken
	deleted        []string
	rotatedTo      string
}

func (m *mockUserTokenRepository) Create(ctx context.Context, userToken *models.UserToken) error {
	if m.err != nil {
		return m.err
	}
	m.created = userToken
	return nil
}

func (m *mockUserTokenRepository) GetByToken(ctx context.Context, token string) (*models.UserToken, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.token == nil {
		return nil, fmt.Errorf("user token: %w", models.ErrNotFound)
	}
	return m.token, nil
}

func (m *mockUserTokenRepository) UpdateToken(ctx context.Context, oldToken, newToken, userID string, expiresAt time.Time) error {
	if m.updateTokenErr != nil {
		return m.updateTokenErr
	}
	m.rotatedTo = newToken
	return nil
}

func (m *mockUserTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, token)
	return nil
}

// mockAuthCodeRepository is a mock implementation of AuthCodeRepository
type mockAuthCodeRepository struct {
	code    *models.AuthCode
	err     error
	created *models.AuthCode
}

func (m *mockAuthCodeRepository) Create(ctx context.Context, code *models.AuthCode) error {
	if m.err != nil {
		return m.err
	}
	m.created = code
	return nil
}

func (m *mockAuthCodeRepository) Consume(ctx context.Context, code string, now time.Time) (*models.AuthCode, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.code == nil || m.code.Code != code || !m.code.ExpiresAt.After(now) {
		return nil, fmt.Errorf("auth code: %w", models.ErrNotFound)
	}
	return m.code, nil
}

// mockEnqueuer is a mock implementation of PasswordResetEnqueuer
type mockEnqueuer struct {
	err   error
	email string
	link  string
}

func (m *mockEnqueuer) EnqueuePasswordReset(ctx context.Context, email, link string) error {
	m.email, m.link = email, link
	return m.err
}

var testAuthNow = time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)

func newTestAuthService(userRepo *mockUserRepository, tokenRepo *mockUserTokenRepository, codeRepo *mockAuthCodeRepository, enqueuer *mockEnqueuer) *authService {
	tokenGen := auth.NewTokenGenerator("test-secret", time.Hour, 24*time.Hour)
	svc := NewAuthService(userRepo, tokenRepo, codeRepo, enqueuer, tokenGen, "https://flashdeck.example/", zap.NewNop())
	svc.now = func() time.Time { return testAuthNow }
	return svc
}

func hashedUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{ID: testUserID, Email: "ania@example.com", PasswordHash: string(hash)}
}

func TestNewAuthService(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{}, &mockUserTokenRepository{}, &mockAuthCodeRepository{}, &mockEnqueuer{})

	assert.NotNil(t, svc)
	assert.Equal(t, "https://flashdeck.example", svc.appURL)
}

func TestAuthService_Signup(t *testing.T) {
	tests := []struct {
		name          string
		userRepo      *mockUserRepository
		tokenRepo     *mockUserTokenRepository
		expectedError error
	}{
		{
			name:      "success",
			userRepo:  &mockUserRepository{},
			tokenRepo: &mockUserTokenRepository{},
		},
		{
			name:          "email taken",
			userRepo:      &mockUserRepository{createErr: fmt.Errorf("user: %w", models.ErrAlreadyExists)},
			tokenRepo:     &mockUserTokenRepository{},
			expectedError: ErrEmailTaken,
		},
		{
			name:          "token store failure",
			userRepo:      &mockUserRepository{},
			tokenRepo:     &mockUserTokenRepository{err: errors.New("insert failed")},
			expectedError: errors.New("failed to save refresh token: insert failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuthService(tt.userRepo, tt.tokenRepo, &mockAuthCodeRepository{}, &mockEnqueuer{})

			result, err := svc.Signup(context.Background(), &models.SignupRequest{Email: " Ania@Example.COM ", Password: "sekretne-haslo"})
			if tt.expectedError != nil {
				assert.Nil(t, result)
				if errors.Is(tt.expectedError, ErrEmailTaken) {
					assert.ErrorIs(t, err, ErrEmailTaken)
				} else {
					assert.EqualError(t, err, tt.expectedError.Error())
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, models.SessionUser{ID: testUserID, Email: "ania@example.com"}, result.User)
			assert.NotEmpty(t, result.AccessToken)
			assert.Equal(t, result.RefreshToken, tt.tokenRepo.created.Token)
			assert.Equal(t, testAuthNow.Add(24*time.Hour), tt.tokenRepo.created.ExpiresAt)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(tt.userRepo.created.PasswordHash), []byte("sekretne-haslo")))
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	user := hashedUser(t, "sekretne-haslo")

	tests := []struct {
		name          string
		userRepo      *mockUserRepository
		password      string
		expectedError error
	}{
		{
			name:     "success",
			userRepo: &mockUserRepository{user: user},
			password: "sekretne-haslo",
		},
		{
			name:          "wrong password",
			userRepo:      &mockUserRepository{user: user},
			password:      "zle-haslo",
			expectedError: ErrInvalidCredentials,
		},
		{
			name:          "unknown email",
			userRepo:      &mockUserRepository{},
			password:      "sekretne-haslo",
			expectedError: ErrInvalidCredentials,
		},
		{
			name:          "database error",
			userRepo:      &mockUserRepository{err: errors.New("connection reset")},
			password:      "sekretne-haslo",
			expectedError: errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuthService(tt.userRepo, &mockUserTokenRepository{}, &mockAuthCodeRepository{}, &mockEnqueuer{})

			result, err := svc.Login(context.Background(), &models.LoginRequest{Email: "ANIA@example.com", Password: tt.password})
			assert.Equal(t, "ania@example.com", tt.userRepo.lookedUp)
			if tt.expectedError != nil {
				assert.Nil(t, result)
				assert.EqualError(t, err, tt.expectedError.Error())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, testUserID, result.User.ID)
		})
	}
}

func TestAuthService_ForgotPassword(t *testing.T) {
	t.Run("known email queues recovery link", func(t *testing.T) {
		codeRepo := &mockAuthCodeRepository{}
		enqueuer := &mockEnqueuer{}
		svc := newTestAuthService(&mockUserRepository{user: hashedUser(t, "x")}, &mockUserTokenRepository{}, codeRepo, enqueuer)

		require.NoError(t, svc.ForgotPassword(context.Background(), "ania@example.com"))

		require.NotNil(t, codeRepo.created)
		assert.Len(t, codeRepo.created.Code, 64)
		assert.Equal(t, models.AuthCodePurposeRecovery, codeRepo.created.Purpose)
		assert.Equal(t, testAuthNow.Add(30*time.Minute), codeRepo.created.ExpiresAt)

		assert.Equal(t, "ania@example.com", enqueuer.email)
		link, err := url.Parse(enqueuer.link)
		require.NoError(t, err)
		assert.Equal(t, "flashdeck.example", link.Host)
		assert.Equal(t, "/api/auth/callback", link.Path)
		assert.Equal(t, codeRepo.created.Code, link.Query().Get("code"))
		assert.Equal(t, "/auth/reset-password", link.Query().Get("next"))
	})

	t.Run("unknown email succeeds without side effects", func(t *testing.T) {
		codeRepo := &mockAuthCodeRepository{}
		enqueuer := &mockEnqueuer{}
		svc := newTestAuthService(&mockUserRepository{}, &mockUserTokenRepository{}, codeRepo, enqueuer)

		require.NoError(t, svc.ForgotPassword(context.Background(), "nobody@example.com"))
		assert.Nil(t, codeRepo.created)
		assert.Empty(t, enqueuer.link)
	})

	t.Run("queue failure is not reported", func(t *testing.T) {
		svc := newTestAuthService(&mockUserRepository{user: hashedUser(t, "x")}, &mockUserTokenRepository{}, &mockAuthCodeRepository{}, &mockEnqueuer{err: errors.New("redis down")})

		assert.NoError(t, svc.ForgotPassword(context.Background(), "ania@example.com"))
	})

	t.Run("code store failure is not reported", func(t *testing.T) {
		enqueuer := &mockEnqueuer{}
		svc := newTestAuthService(&mockUserRepository{user: hashedUser(t, "x")}, &mockUserTokenRepository{}, &mockAuthCodeRepository{err: errors.New("insert failed")}, enqueuer)

		assert.NoError(t, svc.ForgotPassword(context.Background(), "ania@example.com"))
		assert.Empty(t, enqueuer.link)
	})

	t.Run("lookup failure is reported for every email", func(t *testing.T) {
		svc := newTestAuthService(&mockUserRepository{err: errors.New("db down")}, &mockUserTokenRepository{}, &mockAuthCodeRepository{}, &mockEnqueuer{})

		assert.EqualError(t, svc.ForgotPassword(context.Background(), "ania@example.com"), "db down")
	})
}

func TestAuthService_ExchangeCode(t *testing.T) {
	validCode := &models.AuthCode{
		Code:      "abc123",
		UserID:    testUserID,
		Purpose:   models.AuthCodePurposeRecovery,
		ExpiresAt: testAuthNow.Add(10 * time.Minute),
	}
	expiredCode := *validCode
	expiredCode.ExpiresAt = testAuthNow.Add(-time.Minute)

	tests := []struct {
		name          string
		code          string
		codeRepo      *mockAuthCodeRepository
		userRepo      *mockUserRepository
		expectedError error
	}{
		{
			name:     "success",
			code:     "abc123",
			codeRepo: &mockAuthCodeRepository{code: validCode},
			userRepo: &mockUserRepository{user: hashedUser(t, "x")},
		},
		{
			name:          "empty code",
			code:          "  ",
			codeRepo:      &mockAuthCodeRepository{code: validCode},
			userRepo:      &mockUserRepository{user: hashedUser(t, "x")},
			expectedError: ErrInvalidCode,
		},
		{
			name:          "unknown code",
			code:          "zzz",
			codeRepo:      &mockAuthCodeRepository{code: validCode},
			userRepo:      &mockUserRepository{user: hashedUser(t, "x")},
			expectedError: ErrInvalidCode,
		},
		{
			name:          "expired code",
			code:          "abc123",
			codeRepo:      &mockAuthCodeRepository{code: &expiredCode},
			userRepo:      &mockUserRepository{user: hashedUser(t, "x")},
			expectedError: ErrInvalidCode,
		},
		{
			name:          "deleted user",
			code:          "abc123",
			codeRepo:      &mockAuthCodeRepository{code: validCode},
			userRepo:      &mockUserRepository{},
			expectedError: ErrInvalidCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuthService(tt.userRepo, &mockUserTokenRepository{}, tt.codeRepo, &mockEnqueuer{})

			result, err := svc.ExchangeCode(context.Background(), tt.code)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ania@example.com", result.User.Email)
			assert.NotEmpty(t, result.RefreshToken)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	tokenGen := auth.NewTokenGenerator("test-secret", time.Hour, 24*time.Hour)
	_, refreshToken, err := tokenGen.GenerateTokens(testUserID, "ania@example.com")
	require.NoError(t, err)

	t.Run("success rotates token", func(t *testing.T) {
		tokenRepo := &mockUserTokenRepository{token: &models.UserToken{UserID: testUserID, Token: refreshToken}}
		svc := newTestAuthService(&mockUserRepository{user: hashedUser(t, "x")}, tokenRepo, &mockAuthCodeRepository{}, &mockEnqueuer{})

		result, err := svc.Refresh(context.Background(), refreshToken)
		require.NoError(t, err)
		assert.NotEqual(t, refreshToken, result.RefreshToken)
		assert.Equal(t, result.RefreshToken, tokenRepo.rotatedTo)
	})

	t.Run("malformed token is deleted", func(t *testing.T) {
		tokenRepo := &mockUserTokenRepository{}
		svc := newTestAuthService(&mockUserRepository{}, tokenRepo, &mockAuthCodeRepository{}, &mockEnqueuer{})

		_, err := svc.Refresh(context.Background(), "garbage")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
		assert.Equal(t, []string{"garbage"}, tokenRepo.deleted)
	})

	t.Run("token not stored", func(t *testing.T) {
		svc := newTestAuthService(&mockUserRepository{user: hashedUser(t, "x")}, &mockUserTokenRepository{}, &mockAuthCodeRepository{}, &mockEnqueuer{})

		_, err := svc.Refresh(context.Background(), refreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("rotation failure", func(t *testing.T) {
		tokenRepo := &mockUserTokenRepository{
			token:          &models.UserToken{UserID: testUserID, Token: refreshToken},
			updateTokenErr: errors.New("update failed"),
		}
		svc := newTestAuthService(&mockUserRepository{user: hashedUser(t, "x")}, tokenRepo, &mockAuthCodeRepository{}, &mockEnqueuer{})

		_, err := svc.Refresh(context.Background(), refreshToken)
		assert.EqualError(t, err, "update failed")
	})
}

func TestAuthService_Signout(t *testing.T) {
	tokenRepo := &mockUserTokenRepository{}
	svc := newTestAuthService(&mockUserRepository{}, tokenRepo, &mockAuthCodeRepository{}, &mockEnqueuer{})

	require.NoError(t, svc.Signout(context.Background(), ""))
	assert.Empty(t, tokenRepo.deleted)

	require.NoError(t, svc.Signout(context.Background(), "refresh"))
	assert.Equal(t, []string{"refresh"}, tokenRepo.deleted)

	failing := newTestAuthService(&mockUserRepository{}, &mockUserTokenRepository{err: errors.New("delete failed")}, &mockAuthCodeRepository{}, &mockEnqueuer{})
	assert.Error(t, failing.Signout(context.Background(), "refresh"))
}

func TestAuthService_ResetPassword(t *testing.T) {
	userRepo := &mockUserRepository{}
	svc := newTestAuthService(userRepo, &mockUserTokenRepository{}, &mockAuthCodeRepository{}, &mockEnqueuer{})

	require.NoError(t, svc.ResetPassword(context.Background(), testUserID, "nowe-haslo-123"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(userRepo.passwordHash), []byte("nowe-haslo-123")))
}
