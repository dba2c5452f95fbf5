// Package domain defines patient domain models.
//
// Patients always belong to exactly one hospital. Every query is scoped by
// the owning hospital id, so one hospital can never observe another's
// patients, not even their existence.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/medrecordhq/medrecord/internal/errors"
)

// Patient represents a patient record owned by a hospital.
type Patient struct {
	ID             uuid.UUID
	HospitalID     uuid.UUID
	Name           string
	Age            int
	Gender         string
	Diagnosis      string
	MedicalHistory string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreatePatientInput contains the parameters for creating a patient record.
type CreatePatientInput struct {
	Name           string `json:"name"`
	Age            int    `json:"age"`
	Gender         string `json:"gender"`
	Diagnosis      string `json:"diagnosis"`
	MedicalHistory string `json:"medical_history"`
}

// UpdatePatientInput contains the parameters for updating a patient record.
type UpdatePatientInput struct {
	Name           string `json:"name"`
	Age            int    `json:"age"`
	Gender         string `json:"gender"`
	Diagnosis      string `json:"diagnosis"`
	MedicalHistory string `json:"medical_history"`
}

// ErrPatientNotFound indicates the patient does not exist or belongs to a
// different hospital. Both cases look identical to the caller.
var ErrPatientNotFound = errors.Wrap(errors.ErrNotFound, "patient not found")
