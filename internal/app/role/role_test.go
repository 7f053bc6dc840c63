package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	assert.True(t, Valid(City))
	assert.True(t, Valid(Company))
	assert.False(t, Valid("ADMIN"))
	assert.False(t, Valid(""))
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		name      string
		r         Role
		superuser bool
		action    Action
		want      bool
	}{
		{"city creates tender", City, false, ActionTenderCreate, true},
		{"company cannot create tender", Company, false, ActionTenderCreate, false},
		{"company cannot update tender", Company, false, ActionTenderUpdate, false},
		{"company cannot delete tender", Company, false, ActionTenderDelete, false},
		{"company creates bid", Company, false, ActionBidCreate, true},
		{"city creates bid", City, false, ActionBidCreate, true},
		{"city selects winner", City, false, ActionSelectWinner, true},
		{"company cannot select winner", Company, false, ActionSelectWinner, false},
		{"superuser overrides any check", Company, true, ActionSelectWinner, true},
		{"unknown role denied", Role("OTHER"), false, ActionTenderCreate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.r, tt.superuser, tt.action))
		})
	}
}
