package models

import "time"

// User represents a registered user
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserToken represents a refresh token for a user
type UserToken struct {
	ID        int       `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthCodePurpose is what a one-time code can be exchanged for
type AuthCodePurpose string

const AuthCodePurposeRecovery AuthCodePurpose = "recovery"

// AuthCode is a one-time code exchanged for a session in the auth callback
type AuthCode struct {
	Code      string          `json:"-"`
	UserID    string          `json:"user_id"`
	Purpose   AuthCodePurpose `json:"purpose"`
	ExpiresAt time.Time       `json:"expires_at"`
	UsedAt    *time.Time      `json:"used_at,omitempty"`
}

// SessionUser is the user part of auth responses
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest represents a registration request
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// ForgotPasswordRequest represents a password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest sets a new password for the signed in user
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Language is a language decks can be built for
type Language struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}
