package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/flashdeck/backend/internal/models"
)

// demoRepository implements DemoRepository
type demoRepository struct {
	db *sql.DB
}

// NewDemoRepository creates a new demo result repository
func NewDemoRepository(db *sql.DB) *demoRepository {
	return &demoRepository{
		db: db,
	}
}

// Create inserts an anonymous demo result
func (r *demoRepository) Create(ctx context.Context, result *models.ChallengeDemoResult) error {
	query := `
		INSERT INTO challenge_demo_results (guest_id, guest_name, total_time_ms, incorrect)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		result.GuestID,
		result.GuestName,
		result.TotalTimeMs,
		result.Incorrect,
	).Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create demo result: %w", err)
	}

	return nil
}

// Top returns the best demo results ordered by total time, then incorrect answers
func (r *demoRepository) Top(ctx context.Context, limit int) ([]models.DemoLeaderboardEntry, error) {
	query := `
		SELECT id, guest_id, guest_name, total_time_ms, incorrect, created_at
		FROM challenge_demo_results
		ORDER BY total_time_ms ASC, incorrect ASC, created_at ASC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query demo leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]models.DemoLeaderboardEntry, 0)
	for rows.Next() {
		var entry models.DemoLeaderboardEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.GuestID,
			&entry.GuestName,
			&entry.TotalTimeMs,
			&entry.Incorrect,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan demo result: %w", err)
		}
		entry.Rank = len(entries) + 1
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating demo leaderboard: %w", err)
	}

	return entries, nil
}
