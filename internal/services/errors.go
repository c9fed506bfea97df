package services

import "errors"

// Errors returned by services. Handlers map them to HTTP responses with errors.Is.
var (
	ErrDeckNotFound        = errors.New("deck not found")
	ErrPairNotFound        = errors.New("pair not found")
	ErrLanguageNotFound    = errors.New("language not found")
	ErrQuotaExceeded       = errors.New("generation quota exceeded")
	ErrGenerationFailed    = errors.New("generation failed")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidCode         = errors.New("invalid or expired code")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUnsupportedFile     = errors.New("unsupported file type")
	ErrInvalidFile         = errors.New("invalid file")
)
