// Package domain defines tumor board entities and errors.
package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/medrecordhq/medrecord/internal/errors"
)

// Status is the review state of a tumor board case. Cases only move forward:
// open, then in_review, then closed.
type Status string

const (
	StatusOpen     Status = "open"
	StatusInReview Status = "in_review"
	StatusClosed   Status = "closed"
)

// statusRank orders statuses along the case lifecycle.
var statusRank = map[Status]int{
	StatusOpen:     0,
	StatusInReview: 1,
	StatusClosed:   2,
}

// IsValid reports whether s is a known status value.
func (s Status) IsValid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransitionTo reports whether the case may move from s to next.
// Only strictly forward moves are allowed; a closed case never reopens.
func (s Status) CanTransitionTo(next Status) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// BoardCase represents a tumor board review case for a patient
type BoardCase struct {
	ID           uuid.UUID
	HospitalID   uuid.UUID
	PatientID    uuid.UUID
	Title        string
	Summary      string
	Status       Status
	ScheduledFor time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateBoardCaseInput represents the input for creating a board case
type CreateBoardCaseInput struct {
	PatientID    uuid.UUID `json:"patient_id"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	ScheduledFor time.Time `json:"scheduled_for"`
}

// UpdateBoardCaseInput represents the input for updating a board case.
// The status is changed through the dedicated transition operation, never here.
type UpdateBoardCaseInput struct {
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	ScheduledFor time.Time `json:"scheduled_for"`
}

// TransitionBoardCaseInput represents the input for a status transition
type TransitionBoardCaseInput struct {
	Status Status `json:"status"`
}

var (
	// ErrBoardCaseNotFound is returned when a board case does not exist or
	// belongs to another hospital
	ErrBoardCaseNotFound = apperrors.Wrap(apperrors.ErrNotFound, "board case not found")

	// ErrInvalidStatusTransition is returned when a status change would move
	// a case backward or to an unknown status
	ErrInvalidStatusTransition = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid status transition")
)
