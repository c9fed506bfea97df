package models

import "time"

// PairType classifies the length of a term
type PairType string

const (
	PairTypeWords       PairType = "words"
	PairTypePhrases     PairType = "phrases"
	PairTypeMiniPhrases PairType = "mini-phrases"
)

// PairTypes lists every pair type
var PairTypes = []PairType{PairTypeWords, PairTypePhrases, PairTypeMiniPhrases}

// Register is the formality level of a pair
type Register string

const (
	RegisterNeutral  Register = "neutral"
	RegisterInformal Register = "informal"
	RegisterFormal   Register = "formal"
)

// Registers lists every register
var Registers = []Register{RegisterNeutral, RegisterInformal, RegisterFormal}

// MaxTermLength is the maximum length of term_a and term_b in characters
const MaxTermLength = 64

// Pair is a single term-to-term translation unit
type Pair struct {
	ID        string    `json:"id"`
	DeckID    string    `json:"deck_id"`
	TermA     string    `json:"term_a"`
	TermB     string    `json:"term_b"`
	Type      PairType  `json:"type"`
	Register  Register  `json:"register"`
	CreatedAt time.Time `json:"created_at"`
}

// PairPage is a page of pairs of one deck
type PairPage struct {
	Items    []Pair `json:"items"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Total    int    `json:"total"`
}

// PairInput is the content of a pair to create. It is also the item shape of generated pairs.
type PairInput struct {
	TermA    string   `json:"term_a" validate:"required,notblank,max=64"`
	TermB    string   `json:"term_b" validate:"required,notblank,max=64"`
	Type     PairType `json:"type" validate:"required,oneof=words phrases mini-phrases"`
	Register Register `json:"register" validate:"required,oneof=neutral informal formal"`
}

// CreatePairsRequest represents a request to add pairs to a deck
type CreatePairsRequest struct {
	Pairs []PairInput `json:"pairs" validate:"required,min=1,max=100,dive"`
}

// UpdatePairRequest represents a partial pair update. Nil fields are left unchanged.
type UpdatePairRequest struct {
	TermA    *string   `json:"term_a" validate:"omitempty,notblank,max=64"`
	TermB    *string   `json:"term_b" validate:"omitempty,notblank,max=64"`
	Type     *PairType `json:"type" validate:"omitempty,oneof=words phrases mini-phrases"`
	Register *Register `json:"register" validate:"omitempty,oneof=neutral informal formal"`
}

// ImportReport summarises a pair import
type ImportReport struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError describes a rejected row of an imported file
type ImportError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}
