package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/flashdeck/backend/internal/models"
)

// pairRepository implements PairRepository
type pairRepository struct {
	db *sql.DB
}

// NewPairRepository creates a new pair repository
func NewPairRepository(db *sql.DB) *pairRepository {
	return &pairRepository{
		db: db,
	}
}

const pairColumns = `id, deck_id, term_a, term_b, type, register, created_at`

func scanPair(row rowScanner) (*models.Pair, error) {
	pair := &models.Pair{}
	if err := row.Scan(
		&pair.ID,
		&pair.DeckID,
		&pair.TermA,
		&pair.TermB,
		&pair.Type,
		&pair.Register,
		&pair.CreatedAt,
	); err != nil {
		return nil, err
	}
	return pair, nil
}

// ListByDeck retrieves a page of pairs ordered by created_at, then id, and the total count.
// A limit of 0 returns every pair.
func (r *pairRepository) ListByDeck(ctx context.Context, deckID string, limit, offset int) ([]models.Pair, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pairs WHERE deck_id = $1`, deckID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count pairs: %w", err)
	}

	query := `SELECT ` + pairColumns + ` FROM pairs WHERE deck_id = $1 ORDER BY created_at ASC, id ASC`
	args := []any{deckID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query pairs: %w", err)
	}
	defer rows.Close()

	pairs := make([]models.Pair, 0)
	for rows.Next() {
		pair, err := scanPair(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan pair: %w", err)
		}
		pairs = append(pairs, *pair)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating pairs: %w", err)
	}

	return pairs, total, nil
}

// CreateBatch inserts pairs into a deck in one transaction and returns the stored rows in input order
func (r *pairRepository) CreateBatch(ctx context.Context, deckID string, inputs []models.PairInput) ([]models.Pair, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pairs (deck_id, term_a, term_b, type, register)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+pairColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	pairs := make([]models.Pair, 0, len(inputs))
	for _, in := range inputs {
		pair, err := scanPair(stmt.QueryRowContext(ctx, deckID, in.TermA, in.TermB, in.Type, in.Register))
		if err != nil {
			return nil, fmt.Errorf("failed to insert pair: %w", err)
		}
		pairs = append(pairs, *pair)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE decks SET updated_at = now() WHERE id = $1`, deckID); err != nil {
		return nil, fmt.Errorf("failed to touch deck: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return pairs, nil
}

// GetByID retrieves a pair of a deck
func (r *pairRepository) GetByID(ctx context.Context, deckID, pairID string) (*models.Pair, error) {
	query := `SELECT ` + pairColumns + ` FROM pairs WHERE id = $1 AND deck_id = $2`

	pair, err := scanPair(r.db.QueryRowContext(ctx, query, pairID, deckID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pair %s: %w", pairID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pair by id: %w", err)
	}

	return pair, nil
}

// Update stores the terms, type and register of a pair
func (r *pairRepository) Update(ctx context.Context, pair *models.Pair) error {
	query := `
		UPDATE pairs
		SET term_a = $1, term_b = $2, type = $3, register = $4
		WHERE id = $5 AND deck_id = $6
	`

	result, err := r.db.ExecContext(ctx, query, pair.TermA, pair.TermB, pair.Type, pair.Register, pair.ID, pair.DeckID)
	if err != nil {
		return fmt.Errorf("failed to update pair: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("pair %s: %w", pair.ID, models.ErrNotFound)
	}

	return nil
}

// Delete removes a pair of a deck
func (r *pairRepository) Delete(ctx context.Context, deckID, pairID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM pairs WHERE id = $1 AND deck_id = $2`, pairID, deckID)
	if err != nil {
		return fmt.Errorf("failed to delete pair: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("pair %s: %w", pairID, models.ErrNotFound)
	}

	return nil
}
