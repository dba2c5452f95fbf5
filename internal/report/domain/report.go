// Package domain defines report domain models: uploaded report files and
// AI-generated report documents.
//
// Both kinds of report belong to a patient and, transitively, to the owning
// hospital. File bytes live in a blob bucket; the database holds metadata
// only. AI reports are stored documents, the system performs no inference.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/medrecordhq/medrecord/internal/errors"
)

// Report represents an uploaded report file's metadata. The file bytes are
// addressed by StorageKey in the configured blob bucket.
type Report struct {
	ID          uuid.UUID
	HospitalID  uuid.UUID
	PatientID   uuid.UUID
	Filename    string
	ContentType string
	Size        int64
	StorageKey  string
	CreatedAt   time.Time
}

// AIReport represents a stored AI-generated report document.
type AIReport struct {
	ID         uuid.UUID
	HospitalID uuid.UUID
	PatientID  uuid.UUID
	Summary    string
	Findings   string
	ModelName  string
	CreatedAt  time.Time
}

// CreateAIReportInput contains the parameters for storing an AI report.
type CreateAIReportInput struct {
	Summary   string `json:"summary"`
	Findings  string `json:"findings"`
	ModelName string `json:"model_name"`
}

// Report errors.
var (
	// ErrReportNotFound indicates the report does not exist or belongs to a
	// different hospital.
	ErrReportNotFound = errors.Wrap(errors.ErrNotFound, "report not found")

	// ErrAIReportNotFound indicates the AI report does not exist or belongs
	// to a different hospital.
	ErrAIReportNotFound = errors.Wrap(errors.ErrNotFound, "ai report not found")
)
