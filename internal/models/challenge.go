package models

import "time"

// ChallengeResult is a timed quiz result of an authenticated user on a deck
type ChallengeResult struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	DeckID       string    `json:"deck_id"`
	TotalTimeMs  int       `json:"total_time_ms"`
	Correct      int       `json:"correct"`
	Incorrect    int       `json:"incorrect"`
	RoundTimesMs []int     `json:"round_times_ms"`
	Version      *string   `json:"version,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateChallengeResultRequest represents a challenge result submission
type CreateChallengeResultRequest struct {
	DeckID       string `json:"deck_id" validate:"required,uuid"`
	TotalTimeMs  *int   `json:"total_time_ms" validate:"required,min=0,max=3600000"`
	Correct      *int   `json:"correct" validate:"required,min=0,max=50"`
	Incorrect    *int   `json:"incorrect" validate:"required,min=0,max=50"`
	RoundTimesMs []int  `json:"round_times_ms" validate:"omitempty,max=10,dive,min=0,max=3600000"`
	Version      string `json:"version" validate:"omitempty,max=32"`
}

// LeaderboardEntry is a ranked best result of one user on a deck
type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	UserID      string    `json:"user_id"`
	TotalTimeMs int       `json:"total_time_ms"`
	Correct     int       `json:"correct"`
	Incorrect   int       `json:"incorrect"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChallengeDemoResult is an anonymous result of the demo challenge
type ChallengeDemoResult struct {
	ID          string    `json:"id"`
	GuestID     string    `json:"guest_id"`
	GuestName   string    `json:"guest_name"`
	TotalTimeMs int       `json:"total_time_ms"`
	Incorrect   int       `json:"incorrect"`
	CreatedAt   time.Time `json:"created_at"`
}

// DemoLeaderboardEntry is a ranked demo result
type DemoLeaderboardEntry struct {
	Rank int `json:"rank"`
	ChallengeDemoResult
}

// CreateDemoResultRequest represents an anonymous demo result submission
type CreateDemoResultRequest struct {
	GuestID     string `json:"guest_id" validate:"required,uuid"`
	GuestName   string `json:"guest_name" validate:"required,notblank,max=100"`
	TotalTimeMs *int   `json:"total_time_ms" validate:"required,min=0"`
	Incorrect   *int   `json:"incorrect" validate:"required,min=0"`
}
