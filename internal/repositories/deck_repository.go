package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/flashdeck/backend/internal/models"
)

// deckRepository implements DeckRepository
type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new deck repository
func NewDeckRepository(db *sql.DB) *deckRepository {
	return &deckRepository{
		db: db,
	}
}

const deckColumns = `id, owner_user_id, title, description, slug, lang_a, lang_b, visibility, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeck(row rowScanner) (*models.Deck, error) {
	deck := &models.Deck{}
	err := row.Scan(
		&deck.ID,
		&deck.OwnerUserID,
		&deck.Title,
		&deck.Description,
		&deck.Slug,
		&deck.LangA,
		&deck.LangB,
		&deck.Visibility,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return deck, nil
}

// Create inserts a new deck and fills its generated id and timestamps
func (r *deckRepository) Create(ctx context.Context, deck *models.Deck) error {
	query := `
		INSERT INTO decks (owner_user_id, title, description, slug, lang_a, lang_b, visibility)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		deck.OwnerUserID,
		deck.Title,
		deck.Description,
		deck.Slug,
		deck.LangA,
		deck.LangB,
		deck.Visibility,
	).Scan(&deck.ID, &deck.CreatedAt, &deck.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create deck: %w", err)
	}

	return nil
}

// GetByID retrieves a deck by id
func (r *deckRepository) GetByID(ctx context.Context, id string) (*models.Deck, error) {
	query := `SELECT ` + deckColumns + ` FROM decks WHERE id = $1`

	deck, err := scanDeck(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("deck %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck by id: %w", err)
	}

	return deck, nil
}

// ListByOwner retrieves a page of the owner's decks, newest first, and the total count
func (r *deckRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]models.Deck, int, error) {
	return r.list(ctx, `owner_user_id = $1`, ownerID, limit, offset)
}

// ListPublic retrieves a page of public decks, newest first, and the total count
func (r *deckRepository) ListPublic(ctx context.Context, limit, offset int) ([]models.Deck, int, error) {
	return r.list(ctx, `visibility = $1`, string(models.VisibilityPublic), limit, offset)
}

func (r *deckRepository) list(ctx context.Context, where string, arg any, limit, offset int) ([]models.Deck, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM decks WHERE `+where, arg).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count decks: %w", err)
	}

	query := `SELECT ` + deckColumns + ` FROM decks WHERE ` + where + `
		ORDER BY created_at DESC, id ASC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, arg, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query decks: %w", err)
	}
	defer rows.Close()

	decks := make([]models.Deck, 0)
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan deck: %w", err)
		}
		decks = append(decks, *deck)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating decks: %w", err)
	}

	return decks, total, nil
}

// Update stores title, description, slug and visibility of a deck and refreshes updated_at
func (r *deckRepository) Update(ctx context.Context, deck *models.Deck) error {
	query := `
		UPDATE decks
		SET title = $1, description = $2, slug = $3, visibility = $4, updated_at = now()
		WHERE id = $5
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		deck.Title,
		deck.Description,
		deck.Slug,
		deck.Visibility,
		deck.ID,
	).Scan(&deck.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("deck %s: %w", deck.ID, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update deck: %w", err)
	}

	return nil
}

// Delete removes a deck with its pairs and results
func (r *deckRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("deck %s: %w", id, models.ErrNotFound)
	}

	return nil
}
