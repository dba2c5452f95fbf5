package dto

import (
	"time"

	"github.com/google/uuid"
)

// HospitalResponse represents the API response for a hospital account.
// The password hash is deliberately absent from this type.
type HospitalResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse represents the API response for a successful login
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ActivityLogResponse represents the API response for a single activity log entry
type ActivityLogResponse struct {
	ID         uuid.UUID      `json:"id"`
	RequestID  uuid.UUID      `json:"request_id"`
	HospitalID uuid.UUID      `json:"hospital_id"`
	Operation  string         `json:"operation"`
	Path       string         `json:"path"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ActivityLogListResponse represents the API response for an activity log listing
type ActivityLogListResponse struct {
	ActivityLogs []ActivityLogResponse `json:"activity_logs"`
}
