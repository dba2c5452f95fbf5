package dto

import (
	authDomain "github.com/medrecordhq/medrecord/internal/auth/domain"
)

// ToRegisterHospitalInput converts a RegisterHospitalRequest DTO to a use case input
func ToRegisterHospitalInput(req RegisterHospitalRequest) *authDomain.RegisterHospitalInput {
	return &authDomain.RegisterHospitalInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
	}
}

// ToHospitalResponse converts a domain Hospital model to a HospitalResponse DTO
// This enforces the boundary between internal domain models and external API contracts
func ToHospitalResponse(hospital *authDomain.Hospital) HospitalResponse {
	return HospitalResponse{
		ID:        hospital.ID,
		Email:     hospital.Email,
		Name:      hospital.Name,
		Address:   hospital.Address,
		Phone:     hospital.Phone,
		CreatedAt: hospital.CreatedAt,
		UpdatedAt: hospital.UpdatedAt,
	}
}

// ToLoginResponse converts an AuthenticateOutput to a LoginResponse DTO
func ToLoginResponse(output *authDomain.AuthenticateOutput) LoginResponse {
	return LoginResponse{
		Token:     output.Token,
		ExpiresAt: output.ExpiresAt,
	}
}

// MapActivityLogsToListResponse converts domain activity logs to the list response DTO
func MapActivityLogsToListResponse(logs []*authDomain.ActivityLog) ActivityLogListResponse {
	responses := make([]ActivityLogResponse, 0, len(logs))
	for _, log := range logs {
		responses = append(responses, ActivityLogResponse{
			ID:         log.ID,
			RequestID:  log.RequestID,
			HospitalID: log.HospitalID,
			Operation:  string(log.Operation),
			Path:       log.Path,
			Metadata:   log.Metadata,
			CreatedAt:  log.CreatedAt,
		})
	}
	return ActivityLogListResponse{ActivityLogs: responses}
}
