package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/flashdeck/backend/internal/models"
	"github.com/flashdeck/backend/internal/pagination"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// DeckGetter is the interface that wraps the deck lookup shared by every deck scoped service
type DeckGetter interface {
	// Method GetByID retrieves a deck by ID.
	//
	// "id" parameter is the deck UUID.
	//
	// If the deck does not exist, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByID(ctx context.Context, id string) (*models.Deck, error)
}

// DeckRepository is the interface that wraps methods for Deck table data access
type DeckRepository interface {
	DeckGetter
	// Method Create inserts a new deck and fills its ID and timestamps.
	Create(ctx context.Context, deck *models.Deck) error
	// Method ListByOwner retrieves a page of the owner's decks together with their total count.
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]models.Deck, int, error)
	// Method ListPublic retrieves a page of public decks together with their total count.
	// Unlisted and private decks are never returned.
	ListPublic(ctx context.Context, limit, offset int) ([]models.Deck, int, error)
	// Method Update stores title, description, slug and visibility of a deck.
	Update(ctx context.Context, deck *models.Deck) error
	// Method Delete removes a deck by ID.
	Delete(ctx context.Context, id string) error
}

// LanguageRepository is the interface that wraps methods for Language table data access
type LanguageRepository interface {
	// Method GetAll retrieves all languages.
	GetAll(ctx context.Context) ([]models.Language, error)
	// Method GetByID retrieves a language by ID.
	//
	// If the language does not exist, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Language, error)
}

// deckService implements DeckService
type deckService struct {
	deckRepo     DeckRepository
	languageRepo LanguageRepository
	logger       *zap.Logger
}

// NewDeckService creates a new deck service
func NewDeckService(deckRepo DeckRepository, languageRepo LanguageRepository, logger *zap.Logger) *deckService {
	return &deckService{
		deckRepo:     deckRepo,
		languageRepo: languageRepo,
		logger:       logger,
	}
}

// loadVisibleDeck returns the deck if userID may read it. Missing and hidden decks
// are both reported as ErrDeckNotFound.
func loadVisibleDeck(ctx context.Context, repo DeckGetter, deckID, userID string) (*models.Deck, error) {
	deck, err := loadDeck(ctx, repo, deckID)
	if err != nil {
		return nil, err
	}
	if !deck.CanView(userID) {
		return nil, ErrDeckNotFound
	}
	return deck, nil
}

// loadOwnedDeck returns the deck if userID owns it. Decks of other users are reported as ErrDeckNotFound.
func loadOwnedDeck(ctx context.Context, repo DeckGetter, deckID, userID string) (*models.Deck, error) {
	deck, err := loadDeck(ctx, repo, deckID)
	if err != nil {
		return nil, err
	}
	if !deck.IsOwner(userID) {
		return nil, ErrDeckNotFound
	}
	return deck, nil
}

func loadDeck(ctx context.Context, repo DeckGetter, deckID string) (*models.Deck, error) {
	if _, err := uuid.Parse(deckID); err != nil {
		return nil, ErrDeckNotFound
	}
	deck, err := repo.GetByID(ctx, deckID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrDeckNotFound
	}
	if err != nil {
		return nil, err
	}
	return deck, nil
}

// deckSlug derives the URL slug of a deck title
func deckSlug(title string) string {
	s := slug.Make(title)
	if s == "" {
		return "deck"
	}
	return s
}

// ListMine returns a page of the user's decks
func (s *deckService) ListMine(ctx context.Context, userID string, params pagination.Params) (*models.DeckPage, error) {
	decks, total, err := s.deckRepo.ListByOwner(ctx, userID, params.PageSize, params.Offset())
	if err != nil {
		return nil, err
	}
	return &models.DeckPage{Items: decks, Page: params.Page, PageSize: params.PageSize, Total: total}, nil
}

// ListPublic returns a page of public decks
func (s *deckService) ListPublic(ctx context.Context, params pagination.Params) (*models.DeckPage, error) {
	decks, total, err := s.deckRepo.ListPublic(ctx, params.PageSize, params.Offset())
	if err != nil {
		return nil, err
	}
	return &models.DeckPage{Items: decks, Page: params.Page, PageSize: params.PageSize, Total: total}, nil
}

// Get returns a deck visible to the user
func (s *deckService) Get(ctx context.Context, userID, deckID string) (*models.Deck, error) {
	return loadVisibleDeck(ctx, s.deckRepo, deckID, userID)
}

// Create creates a deck owned by the user
func (s *deckService) Create(ctx context.Context, userID string, req *models.CreateDeckRequest) (*models.Deck, error) {
	for _, id := range []int{req.LangA, req.LangB} {
		if _, err := s.languageRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, fmt.Errorf("%w: %d", ErrLanguageNotFound, id)
			}
			return nil, err
		}
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}

	title := strings.TrimSpace(req.Title)
	deck := &models.Deck{
		OwnerUserID: userID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Slug:        deckSlug(title),
		LangA:       req.LangA,
		LangB:       req.LangB,
		Visibility:  visibility,
	}
	if err := s.deckRepo.Create(ctx, deck); err != nil {
		return nil, err
	}

	s.logger.Info("deck created", zap.String("deck_id", deck.ID), zap.String("user_id", userID))
	return deck, nil
}

// Update applies a partial update to a deck owned by the user
func (s *deckService) Update(ctx context.Context, userID, deckID string, req *models.UpdateDeckRequest) (*models.Deck, error) {
	deck, err := loadOwnedDeck(ctx, s.deckRepo, deckID, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		deck.Title = strings.TrimSpace(*req.Title)
		deck.Slug = deckSlug(deck.Title)
	}
	if req.Description != nil {
		deck.Description = strings.TrimSpace(*req.Description)
	}
	if req.Visibility != nil {
		deck.Visibility = *req.Visibility
	}

	if err := s.deckRepo.Update(ctx, deck); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, err
	}
	return deck, nil
}

// Delete deletes a deck owned by the user
func (s *deckService) Delete(ctx context.Context, userID, deckID string) error {
	if _, err := loadOwnedDeck(ctx, s.deckRepo, deckID, userID); err != nil {
		return err
	}
	if err := s.deckRepo.Delete(ctx, deckID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ErrDeckNotFound
		}
		return err
	}

	s.logger.Info("deck deleted", zap.String("deck_id", deckID), zap.String("user_id", userID))
	return nil
}

// GetLanguages returns all languages
func (s *deckService) GetLanguages(ctx context.Context) ([]models.Language, error) {
	return s.languageRepo.GetAll(ctx)
}
