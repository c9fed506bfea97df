package models

import "time"

// GenerateRequest represents a request to generate pairs with the LLM
type GenerateRequest struct {
	LangA    int      `json:"lang_a" validate:"required,gt=0"`
	LangB    int      `json:"lang_b" validate:"required,gt=0,nefield=LangA"`
	Topic    string   `json:"topic" validate:"required,notblank,max=200"`
	Count    int      `json:"count" validate:"required,min=1,max=50"`
	Type     PairType `json:"type" validate:"omitempty,oneof=words phrases mini-phrases"`
	Register Register `json:"register" validate:"omitempty,oneof=neutral informal formal"`
	DeckID   string   `json:"deck_id" validate:"omitempty,uuid"`
}

// Generation is a recorded generation request. Each row consumes one unit of quota.
type Generation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	DeckID    *string   `json:"deck_id,omitempty"`
	Topic     string    `json:"topic"`
	Count     int       `json:"count"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerationResponse is the result of a generation
type GenerationResponse struct {
	ID       string      `json:"id"`
	Pairs    []PairInput `json:"pairs"`
	Model    string      `json:"model"`
	DeckID   *string     `json:"deck_id,omitempty"`
	Inserted int         `json:"inserted"`
}

// Quota is the generation quota of a user for the current period
type Quota struct {
	Limit       int       `json:"limit"`
	Used        int       `json:"used"`
	Remaining   int       `json:"remaining"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
}
