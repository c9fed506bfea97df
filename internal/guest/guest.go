// Package guest manages the anonymous identity used for demo challenges
package guest

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Storage keys of the identity
const (
	KeyID   = "guest.id"
	KeyName = "guest.name"
)

// PlaceholderName is returned when no persistent storage is available
const PlaceholderName = "Gość"

var adjectives = []string{
	"Szybki", "Sprytny", "Dzielny", "Wesoły", "Cichy", "Mądry", "Odważny", "Zwinny", "Bystry", "Czujny",
}

var nouns = []string{
	"Lis", "Wilk", "Orzeł", "Jeż", "Bóbr", "Kot", "Sokół", "Żubr", "Borsuk", "Kruk",
}

// Identity is an anonymous participant
type Identity struct {
	ID   string `json:"guest_id" yaml:"guest_id"`
	Name string `json:"guest_name" yaml:"guest_name"`
}

// Service reads and updates the guest identity in its storage
type Service struct {
	storage Storage
}

// NewService creates a guest service. A nil storage behaves like NoopStorage.
func NewService(storage Storage) *Service {
	if storage == nil {
		storage = NoopStorage{}
	}
	return &Service{storage: storage}
}

// Identity returns the stored identity, creating and persisting missing parts on first access
func (s *Service) Identity() (Identity, error) {
	if !s.storage.Persistent() {
		return Identity{Name: PlaceholderName}, nil
	}

	id, ok, err := s.storage.Get(KeyID)
	if err != nil {
		return Identity{}, err
	}
	if !ok || id == "" {
		id = uuid.NewString()
		if err := s.storage.Set(KeyID, id); err != nil {
			return Identity{}, err
		}
	}

	name, ok, err := s.storage.Get(KeyName)
	if err != nil {
		return Identity{}, err
	}
	if !ok || name == "" {
		name = RandomName()
		if err := s.storage.Set(KeyName, name); err != nil {
			return Identity{}, err
		}
	}

	return Identity{ID: id, Name: name}, nil
}

// UpdateName overwrites the stored name
func (s *Service) UpdateName(name string) error {
	if !s.storage.Persistent() {
		return nil
	}
	return s.storage.Set(KeyName, name)
}

// RegenerateName stores and returns a new random name. The id is unchanged.
func (s *Service) RegenerateName() (string, error) {
	if !s.storage.Persistent() {
		return PlaceholderName, nil
	}
	name := RandomName()
	if err := s.storage.Set(KeyName, name); err != nil {
		return "", err
	}
	return name, nil
}

// RandomName builds an adjective, a noun and a two-digit number, e.g. "SprytnyLis42"
func RandomName() string {
	return fmt.Sprintf("%s%s%d",
		adjectives[rand.IntN(len(adjectives))],
		nouns[rand.IntN(len(nouns))],
		10+rand.IntN(90),
	)
}
