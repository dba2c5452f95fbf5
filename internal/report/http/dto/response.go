// Package dto provides data transfer objects for the report HTTP layer.
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/medrecordhq/medrecord/internal/report/domain"
)

// ReportResponse represents the API response for an uploaded report's metadata.
// The storage key is internal and never exposed.
type ReportResponse struct {
	ID          uuid.UUID `json:"id"`
	HospitalID  uuid.UUID `json:"hospital_id"`
	PatientID   uuid.UUID `json:"patient_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReportListResponse represents the API response for a report listing
type ReportListResponse struct {
	Reports []ReportResponse `json:"reports"`
}

// AIReportResponse represents the API response for an AI report document
type AIReportResponse struct {
	ID         uuid.UUID `json:"id"`
	HospitalID uuid.UUID `json:"hospital_id"`
	PatientID  uuid.UUID `json:"patient_id"`
	Summary    string    `json:"summary"`
	Findings   string    `json:"findings,omitempty"`
	ModelName  string    `json:"model_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// AIReportListResponse represents the API response for an AI report listing
type AIReportListResponse struct {
	AIReports []AIReportResponse `json:"ai_reports"`
}

// ToReportResponse converts a domain Report model to a ReportResponse DTO
func ToReportResponse(report *domain.Report) ReportResponse {
	return ReportResponse{
		ID:          report.ID,
		HospitalID:  report.HospitalID,
		PatientID:   report.PatientID,
		Filename:    report.Filename,
		ContentType: report.ContentType,
		Size:        report.Size,
		CreatedAt:   report.CreatedAt,
	}
}

// ToReportListResponse converts domain reports to the list response DTO
func ToReportListResponse(reports []*domain.Report) ReportListResponse {
	responses := make([]ReportResponse, 0, len(reports))
	for _, report := range reports {
		responses = append(responses, ToReportResponse(report))
	}
	return ReportListResponse{Reports: responses}
}

// ToAIReportResponse converts a domain AIReport model to an AIReportResponse DTO
func ToAIReportResponse(report *domain.AIReport) AIReportResponse {
	return AIReportResponse{
		ID:         report.ID,
		HospitalID: report.HospitalID,
		PatientID:  report.PatientID,
		Summary:    report.Summary,
		Findings:   report.Findings,
		ModelName:  report.ModelName,
		CreatedAt:  report.CreatedAt,
	}
}

// ToAIReportListResponse converts domain AI reports to the list response DTO
func ToAIReportListResponse(reports []*domain.AIReport) AIReportListResponse {
	responses := make([]AIReportResponse, 0, len(reports))
	for _, report := range reports {
		responses = append(responses, ToAIReportResponse(report))
	}
	return AIReportListResponse{AIReports: responses}
}
