package services

import (
	"context"
	"errors"
	"strings"

	"github.com/flashdeck/backend/internal/models"
	"github.com/flashdeck/backend/internal/pagination"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PairRepository is the interface that wraps methods for Pair table data access
type PairRepository interface {
	// Method ListByDeck retrieves a page of the deck's pairs ordered by created_at and id together with their total count.
	//
	// "limit" equal to 0 returns all pairs of the deck.
	ListByDeck(ctx context.Context, deckID string, limit, offset int) ([]models.Pair, int, error)
	// Method CreateBatch inserts pairs into a deck in one transaction.
	//
	// Returns the stored pairs in input order.
	CreateBatch(ctx context.Context, deckID string, inputs []models.PairInput) ([]models.Pair, error)
	// Method GetByID retrieves a pair of a deck.
	//
	// If the pair does not exist in the deck, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByID(ctx context.Context, deckID, pairID string) (*models.Pair, error)
	// Method Update stores terms, type and register of a pair.
	Update(ctx context.Context, pair *models.Pair) error
	// Method Delete removes a pair of a deck.
	Delete(ctx context.Context, deckID, pairID string) error
}

// pairService implements PairService
type pairService struct {
	deckRepo DeckGetter
	pairRepo PairRepository
	logger   *zap.Logger
}

// NewPairService creates a new pair service
func NewPairService(deckRepo DeckGetter, pairRepo PairRepository, logger *zap.Logger) *pairService {
	return &pairService{
		deckRepo: deckRepo,
		pairRepo: pairRepo,
		logger:   logger,
	}
}

// List returns a page of pairs of a deck visible to the user
func (s *pairService) List(ctx context.Context, userID, deckID string, params pagination.Params) (*models.PairPage, error) {
	if _, err := loadVisibleDeck(ctx, s.deckRepo, deckID, userID); err != nil {
		return nil, err
	}

	pairs, total, err := s.pairRepo.ListByDeck(ctx, deckID, params.PageSize, params.Offset())
	if err != nil {
		return nil, err
	}
	if pairs == nil {
		pairs = []models.Pair{}
	}

	return &models.PairPage{Items: pairs, Page: params.Page, PageSize: params.PageSize, Total: total}, nil
}

// Create adds pairs to a deck owned by the user
func (s *pairService) Create(ctx context.Context, userID, deckID string, inputs []models.PairInput) ([]models.Pair, error) {
	if _, err := loadOwnedDeck(ctx, s.deckRepo, deckID, userID); err != nil {
		return nil, err
	}

	pairs, err := s.pairRepo.CreateBatch(ctx, deckID, normalizeInputs(inputs))
	if err != nil {
		return nil, err
	}

	s.logger.Info("pairs created", zap.String("deck_id", deckID), zap.Int("count", len(pairs)))
	return pairs, nil
}

// Update applies a partial update to a pair of a deck owned by the user
func (s *pairService) Update(ctx context.Context, userID, deckID, pairID string, req *models.UpdatePairRequest) (*models.Pair, error) {
	if _, err := loadOwnedDeck(ctx, s.deckRepo, deckID, userID); err != nil {
		return nil, err
	}
	pair, err := s.loadPair(ctx, deckID, pairID)
	if err != nil {
		return nil, err
	}

	if req.TermA != nil {
		pair.TermA = strings.TrimSpace(*req.TermA)
	}
	if req.TermB != nil {
		pair.TermB = strings.TrimSpace(*req.TermB)
	}
	if req.Type != nil {
		pair.Type = *req.Type
	}
	if req.Register != nil {
		pair.Register = *req.Register
	}

	if err := s.pairRepo.Update(ctx, pair); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrPairNotFound
		}
		return nil, err
	}
	return pair, nil
}

// Delete removes a pair of a deck owned by the user
func (s *pairService) Delete(ctx context.Context, userID, deckID, pairID string) error {
	if _, err := loadOwnedDeck(ctx, s.deckRepo, deckID, userID); err != nil {
		return err
	}
	if _, err := uuid.Parse(pairID); err != nil {
		return ErrPairNotFound
	}

	if err := s.pairRepo.Delete(ctx, deckID, pairID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ErrPairNotFound
		}
		return err
	}
	return nil
}

func (s *pairService) loadPair(ctx context.Context, deckID, pairID string) (*models.Pair, error) {
	if _, err := uuid.Parse(pairID); err != nil {
		return nil, ErrPairNotFound
	}
	pair, err := s.pairRepo.GetByID(ctx, deckID, pairID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrPairNotFound
	}
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func normalizeInputs(inputs []models.PairInput) []models.PairInput {
	out := make([]models.PairInput, len(inputs))
	for i, in := range inputs {
		in.TermA = strings.TrimSpace(in.TermA)
		in.TermB = strings.TrimSpace(in.TermB)
		out[i] = in
	}
	return out
}
