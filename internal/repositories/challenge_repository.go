package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/flashdeck/backend/internal/models"
	"github.com/lib/pq"
)

// challengeRepository implements ChallengeRepository
type challengeRepository struct {
	db *sql.DB
}

// NewChallengeRepository creates a new challenge repository
func NewChallengeRepository(db *sql.DB) *challengeRepository {
	return &challengeRepository{
		db: db,
	}
}

// Create inserts a challenge result and fills its id and created_at
func (r *challengeRepository) Create(ctx context.Context, result *models.ChallengeResult) error {
	query := `
		INSERT INTO challenge_results (user_id, deck_id, total_time_ms, correct, incorrect, round_times_ms, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	roundTimes := make(pq.Int64Array, 0, len(result.RoundTimesMs))
	for _, ms := range result.RoundTimesMs {
		roundTimes = append(roundTimes, int64(ms))
	}

	err := r.db.QueryRowContext(ctx, query,
		result.UserID,
		result.DeckID,
		result.TotalTimeMs,
		result.Correct,
		result.Incorrect,
		roundTimes,
		result.Version,
	).Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create challenge result: %w", err)
	}

	return nil
}

// TopByDeck returns the best result of each user on a deck ranked by total time,
// then incorrect answers, then submission time
func (r *challengeRepository) TopByDeck(ctx context.Context, deckID string, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT user_id, total_time_ms, correct, incorrect, created_at
		FROM (
			SELECT DISTINCT ON (user_id) user_id, total_time_ms, correct, incorrect, created_at
			FROM challenge_results
			WHERE deck_id = $1
			ORDER BY user_id, total_time_ms ASC, incorrect ASC, created_at ASC
		) best
		ORDER BY total_time_ms ASC, incorrect ASC, created_at ASC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, deckID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]models.LeaderboardEntry, 0)
	for rows.Next() {
		var entry models.LeaderboardEntry
		if err := rows.Scan(
			&entry.UserID,
			&entry.TotalTimeMs,
			&entry.Correct,
			&entry.Incorrect,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entry.Rank = len(entries) + 1
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard: %w", err)
	}

	return entries, nil
}
