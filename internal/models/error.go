package models

import "errors"

// Error codes of the API error envelope
const (
	CodeNotFound      = "NOT_FOUND"
	CodeInternal      = "INTERNAL_ERROR"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeValidation    = "VALIDATION_ERROR"
	CodeForbidden     = "FORBIDDEN"
	CodeQuotaExceeded = "QUOTA_EXCEEDED"
	CodeBadRequest    = "BAD_REQUEST"
)

// FieldError is a validation failure of a single input field
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// APIError is the body of the error envelope
type APIError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

// ErrorResponse is the error envelope {error: {code, message, details?}}
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ErrNotFound is returned by repositories when no row matches
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned by repositories when a unique constraint is violated
var ErrAlreadyExists = errors.New("already exists")
