package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/flashdeck/backend/internal/models"
)

// languageRepository implements LanguageRepository
type languageRepository struct {
	db *sql.DB
}

// NewLanguageRepository creates a new language repository
func NewLanguageRepository(db *sql.DB) *languageRepository {
	return &languageRepository{
		db: db,
	}
}

// GetAll retrieves all languages ordered by id
func (r *languageRepository) GetAll(ctx context.Context) ([]models.Language, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, code, name FROM languages ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query languages: %w", err)
	}
	defer rows.Close()

	languages := make([]models.Language, 0)
	for rows.Next() {
		var language models.Language
		if err := rows.Scan(&language.ID, &language.Code, &language.Name); err != nil {
			return nil, fmt.Errorf("failed to scan language: %w", err)
		}
		languages = append(languages, language)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating languages: %w", err)
	}

	return languages, nil
}

// GetByID retrieves a language by id
func (r *languageRepository) GetByID(ctx context.Context, id int) (*models.Language, error) {
	language := &models.Language{}
	err := r.db.QueryRowContext(ctx, `SELECT id, code, name FROM languages WHERE id = $1`, id).
		Scan(&language.ID, &language.Code, &language.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("language %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get language by id: %w", err)
	}

	return language, nil
}
