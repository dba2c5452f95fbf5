// Package dto provides data transfer objects for the patient HTTP layer.
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/medrecordhq/medrecord/internal/patient/domain"
)

// PatientResponse represents the API response for a patient record
type PatientResponse struct {
	ID             uuid.UUID `json:"id"`
	HospitalID     uuid.UUID `json:"hospital_id"`
	Name           string    `json:"name"`
	Age            int       `json:"age"`
	Gender         string    `json:"gender,omitempty"`
	Diagnosis      string    `json:"diagnosis,omitempty"`
	MedicalHistory string    `json:"medical_history,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PatientListResponse represents the API response for a patient listing
type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
}

// ToPatientResponse converts a domain Patient model to a PatientResponse DTO
func ToPatientResponse(patient *domain.Patient) PatientResponse {
	return PatientResponse{
		ID:             patient.ID,
		HospitalID:     patient.HospitalID,
		Name:           patient.Name,
		Age:            patient.Age,
		Gender:         patient.Gender,
		Diagnosis:      patient.Diagnosis,
		MedicalHistory: patient.MedicalHistory,
		CreatedAt:      patient.CreatedAt,
		UpdatedAt:      patient.UpdatedAt,
	}
}

// ToPatientListResponse converts domain patients to the list response DTO
func ToPatientListResponse(patients []*domain.Patient) PatientListResponse {
	responses := make([]PatientResponse, 0, len(patients))
	for _, patient := range patients {
		responses = append(responses, ToPatientResponse(patient))
	}
	return PatientListResponse{Patients: responses}
}
