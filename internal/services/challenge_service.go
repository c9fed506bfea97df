package services

import (
	"context"
	"strings"

	"github.com/flashdeck/backend/internal/models"
	"go.uber.org/zap"
)

const (
	// DefaultLeaderboardLimit is the deck leaderboard size when none is requested
	DefaultLeaderboardLimit = 10
	// MaxLeaderboardLimit caps the deck leaderboard size
	MaxLeaderboardLimit = 50
	// DemoLeaderboardLimit is the fixed size of the demo leaderboard
	DemoLeaderboardLimit = 30
)

// ChallengeRepository is the interface that wraps methods for ChallengeResult table data access
type ChallengeRepository interface {
	// Method Create inserts a challenge result and fills its ID and created_at.
	Create(ctx context.Context, result *models.ChallengeResult) error
	// Method TopByDeck retrieves the best result of each user on a deck.
	//
	// Results are ordered by total time, then incorrect answers, then submission time and carry 1-based ranks.
	TopByDeck(ctx context.Context, deckID string, limit int) ([]models.LeaderboardEntry, error)
}

// DemoRepository is the interface that wraps methods for ChallengeDemoResult table data access
type DemoRepository interface {
	// Method Create inserts a demo result and fills its ID and created_at.
	Create(ctx context.Context, result *models.ChallengeDemoResult) error
	// Method Top retrieves the best demo results ordered by total time, then incorrect answers, then submission time.
	Top(ctx context.Context, limit int) ([]models.DemoLeaderboardEntry, error)
}

// challengeService implements ChallengeService
type challengeService struct {
	deckRepo      DeckGetter
	challengeRepo ChallengeRepository
	demoRepo      DemoRepository
	logger        *zap.Logger
}

// NewChallengeService creates a new challenge service
func NewChallengeService(deckRepo DeckGetter, challengeRepo ChallengeRepository, demoRepo DemoRepository, logger *zap.Logger) *challengeService {
	return &challengeService{
		deckRepo:      deckRepo,
		challengeRepo: challengeRepo,
		demoRepo:      demoRepo,
		logger:        logger,
	}
}

// SubmitResult stores the user's result of a challenge on a visible deck
func (s *challengeService) SubmitResult(ctx context.Context, userID string, req *models.CreateChallengeResultRequest) (*models.ChallengeResult, error) {
	if _, err := loadVisibleDeck(ctx, s.deckRepo, req.DeckID, userID); err != nil {
		return nil, err
	}

	result := &models.ChallengeResult{
		UserID:       userID,
		DeckID:       req.DeckID,
		TotalTimeMs:  *req.TotalTimeMs,
		Correct:      *req.Correct,
		Incorrect:    *req.Incorrect,
		RoundTimesMs: req.RoundTimesMs,
	}
	if v := strings.TrimSpace(req.Version); v != "" {
		result.Version = &v
	}
	if result.RoundTimesMs == nil {
		result.RoundTimesMs = []int{}
	}

	if err := s.challengeRepo.Create(ctx, result); err != nil {
		return nil, err
	}

	s.logger.Info("challenge result stored",
		zap.String("result_id", result.ID),
		zap.String("deck_id", result.DeckID),
		zap.Int("total_time_ms", result.TotalTimeMs),
	)
	return result, nil
}

// Leaderboard returns the top results of a deck visible to the user
func (s *challengeService) Leaderboard(ctx context.Context, userID, deckID string, limit int) ([]models.LeaderboardEntry, error) {
	if _, err := loadVisibleDeck(ctx, s.deckRepo, deckID, userID); err != nil {
		return nil, err
	}

	entries, err := s.challengeRepo.TopByDeck(ctx, deckID, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	return entries, nil
}

// SubmitDemoResult stores a guest's demo challenge result
func (s *challengeService) SubmitDemoResult(ctx context.Context, req *models.CreateDemoResultRequest) (*models.ChallengeDemoResult, error) {
	result := &models.ChallengeDemoResult{
		GuestID:     req.GuestID,
		GuestName:   strings.TrimSpace(req.GuestName),
		TotalTimeMs: *req.TotalTimeMs,
		Incorrect:   *req.Incorrect,
	}

	if err := s.demoRepo.Create(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// DemoLeaderboard returns the top demo results
func (s *challengeService) DemoLeaderboard(ctx context.Context) ([]models.DemoLeaderboardEntry, error) {
	entries, err := s.demoRepo.Top(ctx, DemoLeaderboardLimit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.DemoLeaderboardEntry{}
	}
	return entries, nil
}
