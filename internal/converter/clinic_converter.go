package converter

import (
	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/domain/entity"
)

// ClinicToResponse converts a Clinic entity to ClinicResponse DTO
func ClinicToResponse(clinic *entity.Clinic) *dto.ClinicResponse {
	if clinic == nil {
		return nil
	}

	return &dto.ClinicResponse{
		ID:              clinic.ID,
		Name:            clinic.Name,
		Email:           clinic.Email,
		Phone:           clinic.Phone,
		Address:         clinic.Address,
		City:            clinic.City,
		Latitude:        clinic.Latitude,
		Longitude:       clinic.Longitude,
		ConsultationFee: clinic.ConsultationFee,
		OpeningHours:    clinic.OpeningHours,
		PrimaryVetID:    clinic.PrimaryVetID,
		CreatedAt:       clinic.CreatedAt,
		UpdatedAt:       clinic.UpdatedAt,
	}
}

// ClinicsToResponses converts a slice of Clinic entities to slice of ClinicResponse DTOs
func ClinicsToResponses(clinics []entity.Clinic) []dto.ClinicResponse {
	responses := make([]dto.ClinicResponse, len(clinics))
	for i := range clinics {
		responses[i] = *ClinicToResponse(&clinics[i])
	}
	return responses
}

// StaffToResponse converts a ClinicStaff entity to StaffResponse DTO
func StaffToResponse(staff *entity.ClinicStaff) *dto.StaffResponse {
	if staff == nil {
		return nil
	}

	return &dto.StaffResponse{
		ID:          staff.ID,
		ClinicID:    staff.ClinicID,
		FullName:    staff.FullName,
		Email:       staff.Email,
		Phone:       staff.Phone,
		Role:        string(staff.Role),
		AccessLevel: string(staff.AccessLevel),
		CreatedAt:   staff.CreatedAt,
		UpdatedAt:   staff.UpdatedAt,
	}
}

func StaffListToResponses(staff []entity.ClinicStaff) []dto.StaffResponse {
	responses := make([]dto.StaffResponse, len(staff))
	for i := range staff {
		responses[i] = *StaffToResponse(&staff[i])
	}
	return responses
}
