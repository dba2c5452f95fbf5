package domain

import (
	"time"

	"github.com/google/uuid"
)

// Operation names an identity-bearing action for activity logging.
type Operation string

const (
	HospitalRegisterOperation Operation = "hospital.register"
	HospitalLoginOperation    Operation = "hospital.login"
	PatientCreateOperation    Operation = "patient.create"
	PatientUpdateOperation    Operation = "patient.update"
	PatientDeleteOperation    Operation = "patient.delete"
	ReportUploadOperation     Operation = "report.upload"
	ReportDownloadOperation   Operation = "report.download"
	AIReportCreateOperation   Operation = "ai_report.create"
	BoardCaseCreateOperation  Operation = "board_case.create"
	BoardCaseUpdateOperation  Operation = "board_case.update"
	BoardCaseStatusOperation  Operation = "board_case.status"
)

// ActivityLog records an identity-bearing operation for compliance and auditing.
// Keyed by the resolved hospital identity, the operation name, and the request path.
type ActivityLog struct {
	ID         uuid.UUID
	RequestID  uuid.UUID
	HospitalID uuid.UUID
	Operation  Operation
	Path       string
	Metadata   map[string]any
	CreatedAt  time.Time
}
