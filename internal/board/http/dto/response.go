// Package dto provides data transfer objects for the tumor board HTTP layer.
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/medrecordhq/medrecord/internal/board/domain"
)

// BoardCaseResponse represents the API response for a tumor board case
type BoardCaseResponse struct {
	ID           uuid.UUID     `json:"id"`
	HospitalID   uuid.UUID     `json:"hospital_id"`
	PatientID    uuid.UUID     `json:"patient_id"`
	Title        string        `json:"title"`
	Summary      string        `json:"summary,omitempty"`
	Status       domain.Status `json:"status"`
	ScheduledFor time.Time     `json:"scheduled_for"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// BoardCaseListResponse represents the API response for a board case listing
type BoardCaseListResponse struct {
	BoardCases []BoardCaseResponse `json:"board_cases"`
}

// ToBoardCaseResponse converts a domain BoardCase model to a BoardCaseResponse DTO
func ToBoardCaseResponse(boardCase *domain.BoardCase) BoardCaseResponse {
	return BoardCaseResponse{
		ID:           boardCase.ID,
		HospitalID:   boardCase.HospitalID,
		PatientID:    boardCase.PatientID,
		Title:        boardCase.Title,
		Summary:      boardCase.Summary,
		Status:       boardCase.Status,
		ScheduledFor: boardCase.ScheduledFor,
		CreatedAt:    boardCase.CreatedAt,
		UpdatedAt:    boardCase.UpdatedAt,
	}
}

// ToBoardCaseListResponse converts domain board cases to the list response DTO
func ToBoardCaseListResponse(boardCases []*domain.BoardCase) BoardCaseListResponse {
	responses := make([]BoardCaseResponse, 0, len(boardCases))
	for _, boardCase := range boardCases {
		responses = append(responses, ToBoardCaseResponse(boardCase))
	}
	return BoardCaseListResponse{BoardCases: responses}
}
