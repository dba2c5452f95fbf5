package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"open to in_review", StatusOpen, StatusInReview, true},
		{"open to closed", StatusOpen, StatusClosed, true},
		{"in_review to closed", StatusInReview, StatusClosed, true},
		{"in_review to open", StatusInReview, StatusOpen, false},
		{"closed to open", StatusClosed, StatusOpen, false},
		{"closed to in_review", StatusClosed, StatusInReview, false},
		{"same status", StatusOpen, StatusOpen, false},
		{"unknown target", StatusOpen, Status("archived"), false},
		{"unknown source", Status("archived"), StatusClosed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusOpen.IsValid())
	assert.True(t, StatusInReview.IsValid())
	assert.True(t, StatusClosed.IsValid())
	assert.False(t, Status("archived").IsValid())
	assert.False(t, Status("").IsValid())
}
