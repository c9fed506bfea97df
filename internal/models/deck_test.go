package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeck_CanView(t *testing.T) {
	const owner = "owner-id"

	tests := []struct {
		name       string
		visibility Visibility
		userID     string
		expected   bool
	}{
		{name: "private owner", visibility: VisibilityPrivate, userID: owner, expected: true},
		{name: "private other user", visibility: VisibilityPrivate, userID: "other", expected: false},
		{name: "private anonymous", visibility: VisibilityPrivate, userID: "", expected: false},
		{name: "public anonymous", visibility: VisibilityPublic, userID: "", expected: true},
		{name: "public other user", visibility: VisibilityPublic, userID: "other", expected: true},
		{name: "unlisted anonymous", visibility: VisibilityUnlisted, userID: "", expected: true},
		{name: "unlisted owner", visibility: VisibilityUnlisted, userID: owner, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deck := &Deck{OwnerUserID: owner, Visibility: tt.visibility}
			assert.Equal(t, tt.expected, deck.CanView(tt.userID))
		})
	}
}

func TestDeck_IsOwner(t *testing.T) {
	deck := &Deck{OwnerUserID: "owner-id"}

	assert.True(t, deck.IsOwner("owner-id"))
	assert.False(t, deck.IsOwner("other"))
	assert.False(t, deck.IsOwner(""))
	assert.False(t, (&Deck{}).IsOwner(""))
}
