package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flashdeck/backend/internal/generation"
	"github.com/flashdeck/backend/internal/models"
	"go.uber.org/zap"
)

// GenerationRepository is the interface that wraps methods for Generation and GenerationQuota tables data access
type GenerationRepository interface {
	// Method Create records a generation and fills its ID and created_at.
	//
	// Every stored generation consumes one unit of the user's monthly quota.
	Create(ctx context.Context, generation *models.Generation) error
	// Method CountInPeriod counts the user's generations created in [from, to).
	CountInPeriod(ctx context.Context, userID string, from, to time.Time) (int, error)
	// Method GetMonthlyLimit retrieves the user's individual monthly limit.
	//
	// The boolean is false when the user has no individual limit.
	GetMonthlyLimit(ctx context.Context, userID string) (int, bool, error)
}

// PairGenerator is the interface that wraps the LLM pair generation
type PairGenerator interface {
	// Method Generate returns exactly req.Count validated pairs.
	Generate(ctx context.Context, req generation.Request) ([]models.PairInput, error)
	// Method Model returns the model identifier used for generation.
	Model() string
}

// generationService implements GenerationService
type generationService struct {
	generationRepo GenerationRepository
	languageRepo   LanguageRepository
	deckRepo       DeckGetter
	pairRepo       PairRepository
	generator      PairGenerator
	defaultLimit   int
	logger         *zap.Logger
	now            func() time.Time
}

// NewGenerationService creates a new generation service.
// defaultLimit applies to users without an individual monthly limit.
func NewGenerationService(
	generationRepo GenerationRepository,
	languageRepo LanguageRepository,
	deckRepo DeckGetter,
	pairRepo PairRepository,
	generator PairGenerator,
	defaultLimit int,
	logger *zap.Logger,
) *generationService {
	return &generationService{
		generationRepo: generationRepo,
		languageRepo:   languageRepo,
		deckRepo:       deckRepo,
		pairRepo:       pairRepo,
		generator:      generator,
		defaultLimit:   defaultLimit,
		logger:         logger,
		now:            time.Now,
	}
}

// monthBounds returns the start of the UTC month containing t and the start of the next one
func monthBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// GetQuota returns the user's generation quota for the current month
func (s *generationService) GetQuota(ctx context.Context, userID string) (*models.Quota, error) {
	start, end := monthBounds(s.now())

	limit, ok, err := s.generationRepo.GetMonthlyLimit(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		limit = s.defaultLimit
	}

	used, err := s.generationRepo.CountInPeriod(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	return &models.Quota{
		Limit:       limit,
		Used:        used,
		Remaining:   max(limit-used, 0),
		PeriodStart: start,
		PeriodEnd:   end,
	}, nil
}

// Generate asks the LLM for pairs and records the generation.
// With a deck id the pairs are also added to that deck, which the user must own.
// The generation is recorded only after the pairs are stored, so a failed insert consumes no quota.
func (s *generationService) Generate(ctx context.Context, userID string, req *models.GenerateRequest) (*models.GenerationResponse, error) {
	quota, err := s.GetQuota(ctx, userID)
	if err != nil {
		return nil, err
	}
	if quota.Remaining <= 0 {
		return nil, ErrQuotaExceeded
	}

	langA, err := s.language(ctx, req.LangA)
	if err != nil {
		return nil, err
	}
	langB, err := s.language(ctx, req.LangB)
	if err != nil {
		return nil, err
	}

	var deckID *string
	if req.DeckID != "" {
		if _, err := loadOwnedDeck(ctx, s.deckRepo, req.DeckID, userID); err != nil {
			return nil, err
		}
		deckID = &req.DeckID
	}

	topic := strings.TrimSpace(req.Topic)
	pairs, err := s.generator.Generate(ctx, generation.Request{
		LangA:    langA.Name,
		LangB:    langB.Name,
		Topic:    topic,
		Count:    req.Count,
		Type:     req.Type,
		Register: req.Register,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	resp := &models.GenerationResponse{
		Pairs:  pairs,
		Model:  s.generator.Model(),
		DeckID: deckID,
	}

	if deckID != nil {
		created, err := s.pairRepo.CreateBatch(ctx, *deckID, normalizeInputs(pairs))
		if err != nil {
			return nil, err
		}
		resp.Inserted = len(created)
	}

	record := &models.Generation{
		UserID: userID,
		DeckID: deckID,
		Topic:  topic,
		Count:  req.Count,
		Model:  resp.Model,
	}
	if err := s.generationRepo.Create(ctx, record); err != nil {
		s.logger.Error("failed to record generation",
			zap.String("user_id", userID),
			zap.Int("inserted", resp.Inserted),
			zap.Error(err),
		)
		return nil, err
	}
	resp.ID = record.ID

	s.logger.Info("pairs generated",
		zap.String("generation_id", record.ID),
		zap.String("user_id", userID),
		zap.Int("count", len(pairs)),
		zap.Int("inserted", resp.Inserted),
	)
	return resp, nil
}

func (s *generationService) language(ctx context.Context, id int) (*models.Language, error) {
	lang, err := s.languageRepo.GetByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrLanguageNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return lang, nil
}
