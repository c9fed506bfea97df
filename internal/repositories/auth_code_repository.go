package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/flashdeck/backend/internal/models"
)

// authCodeRepository implements AuthCodeRepository
type authCodeRepository struct {
	db *sql.DB
}

// NewAuthCodeRepository creates a new auth code repository
func NewAuthCodeRepository(db *sql.DB) *authCodeRepository {
	return &authCodeRepository{
		db: db,
	}
}

// Create stores a one-time code
func (r *authCodeRepository) Create(ctx context.Context, code *models.AuthCode) error {
	query := `
		INSERT INTO auth_codes (code, user_id, purpose, expires_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.ExecContext(ctx, query, code.Code, code.UserID, code.Purpose, code.ExpiresAt); err != nil {
		return fmt.Errorf("failed to create auth code: %w", err)
	}

	return nil
}

// Consume marks an unused, unexpired code as used and returns it.
// Unknown, used and expired codes are reported as not found.
func (r *authCodeRepository) Consume(ctx context.Context, code string, now time.Time) (*models.AuthCode, error) {
	query := `
		UPDATE auth_codes
		SET used_at = $2
		WHERE code = $1 AND used_at IS NULL AND expires_at > $2
		RETURNING user_id, purpose, expires_at
	`

	authCode := &models.AuthCode{Code: code, UsedAt: &now}
	err := r.db.QueryRowContext(ctx, query, code, now).Scan(
		&authCode.UserID,
		&authCode.Purpose,
		&authCode.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("auth code: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume auth code: %w", err)
	}

	return authCode, nil
}

// DeleteExpired deletes codes expired or used before the given time
func (r *authCodeRepository) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM auth_codes WHERE expires_at <= $1 OR used_at <= $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired auth codes: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}
