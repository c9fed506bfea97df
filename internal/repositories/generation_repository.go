package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/flashdeck/backend/internal/models"
)

// generationRepository implements GenerationRepository
type generationRepository struct {
	db *sql.DB
}

// NewGenerationRepository creates a new generation repository
func NewGenerationRepository(db *sql.DB) *generationRepository {
	return &generationRepository{
		db: db,
	}
}

// Create records a generation, consuming one unit of the user's quota
func (r *generationRepository) Create(ctx context.Context, generation *models.Generation) error {
	query := `
		INSERT INTO generations (user_id, deck_id, topic, count, model)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		generation.UserID,
		generation.DeckID,
		generation.Topic,
		generation.Count,
		generation.Model,
	).Scan(&generation.ID, &generation.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create generation: %w", err)
	}

	return nil
}

// CountInPeriod counts the user's generations created in [from, to)
func (r *generationRepository) CountInPeriod(ctx context.Context, userID string, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM generations
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count generations: %w", err)
	}

	return count, nil
}

// GetMonthlyLimit returns the user's individual monthly limit and whether one is set
func (r *generationRepository) GetMonthlyLimit(ctx context.Context, userID string) (int, bool, error) {
	query := `SELECT monthly_limit FROM generation_quotas WHERE user_id = $1`

	var limit int
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&limit)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get monthly limit: %w", err)
	}

	return limit, true, nil
}
