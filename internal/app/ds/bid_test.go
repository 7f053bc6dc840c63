package ds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBidStatusOf(t *testing.T) {
	tests := []struct {
		name            string
		isWinner        bool
		tenderHasWinner bool
		want            BidStatus
	}{
		{"winner is accepted", true, true, BidAccepted},
		{"loser is rejected when tender has winner", false, true, BidRejected},
		{"pending while no winner selected", false, false, BidPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BidStatusOf(Bid{IsWinner: tt.isWinner}, tt.tenderHasWinner)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBidStatusAmong(t *testing.T) {
	bids := []Bid{
		{ID: 1, TenderID: 10, IsWinner: false},
		{ID: 2, TenderID: 10, IsWinner: true},
		{ID: 3, TenderID: 10, IsWinner: false},
		{ID: 4, TenderID: 20, IsWinner: false},
	}

	assert.Equal(t, BidRejected, BidStatusAmong(bids[0], bids))
	assert.Equal(t, BidAccepted, BidStatusAmong(bids[1], bids))
	assert.Equal(t, BidRejected, BidStatusAmong(bids[2], bids))
	// Победитель другого тендера не влияет на статус
	assert.Equal(t, BidPending, BidStatusAmong(bids[3], bids))
}

func TestValidTenderCategory(t *testing.T) {
	assert.True(t, ValidTenderCategory(CategoryConstruction))
	assert.True(t, ValidTenderCategory(CategoryEnvironment))
	assert.False(t, ValidTenderCategory("GARDENING"))
	assert.False(t, ValidTenderCategory(""))
}

func TestValidTenderStatus(t *testing.T) {
	assert.True(t, ValidTenderStatus(TenderOpen))
	assert.True(t, ValidTenderStatus(TenderClosed))
	assert.True(t, ValidTenderStatus(TenderAwarded))
	assert.False(t, ValidTenderStatus("DRAFT"))
}
