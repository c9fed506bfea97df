package models

import "time"

// Visibility controls who can read a deck
type Visibility string

const (
	VisibilityPrivate  Visibility = "private"
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
)

// Deck represents a named collection of term pairs for one language pair
type Deck struct {
	ID          string     `json:"id"`
	OwnerUserID string     `json:"owner_user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Slug        string     `json:"slug"`
	LangA       int        `json:"lang_a"`
	LangB       int        `json:"lang_b"`
	Visibility  Visibility `json:"visibility"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CanView reports whether the requester may read the deck.
// An empty userID is an anonymous requester.
func (d *Deck) CanView(userID string) bool {
	if userID != "" && d.OwnerUserID == userID {
		return true
	}
	return d.Visibility == VisibilityPublic || d.Visibility == VisibilityUnlisted
}

// IsOwner reports whether the user owns the deck
func (d *Deck) IsOwner(userID string) bool {
	return userID != "" && d.OwnerUserID == userID
}

// DeckPage is a page of decks
type DeckPage struct {
	Items    []Deck `json:"items"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Total    int    `json:"total"`
}

// CreateDeckRequest represents a request to create a deck
type CreateDeckRequest struct {
	Title       string     `json:"title" validate:"required,notblank,max=120"`
	Description string     `json:"description" validate:"max=500"`
	LangA       int        `json:"lang_a" validate:"required,gt=0"`
	LangB       int        `json:"lang_b" validate:"required,gt=0,nefield=LangA"`
	Visibility  Visibility `json:"visibility" validate:"omitempty,oneof=private public unlisted"`
}

// UpdateDeckRequest represents a partial deck update. Nil fields are left unchanged.
type UpdateDeckRequest struct {
	Title       *string     `json:"title" validate:"omitempty,notblank,max=120"`
	Description *string     `json:"description" validate:"omitempty,max=500"`
	Visibility  *Visibility `json:"visibility" validate:"omitempty,oneof=private public unlisted"`
}
