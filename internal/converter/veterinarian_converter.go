package converter

import (
	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/domain/entity"
)

// VeterinarianToResponse converts a Veterinarian entity to VeterinarianResponse DTO
func VeterinarianToResponse(vet *entity.Veterinarian) *dto.VeterinarianResponse {
	if vet == nil {
		return nil
	}

	return &dto.VeterinarianResponse{
		ID:                    vet.ID,
		FullName:              vet.FullName,
		Email:                 vet.Email,
		Phone:                 vet.Phone,
		LicenseNumber:         vet.LicenseNumber,
		Specialization:        vet.Specialization,
		AccessLevel:           string(vet.AccessLevel),
		Status:                string(vet.Status),
		CurrentActiveClinicID: vet.CurrentActiveClinicID,
		OwnedClinicIDs:        vet.OwnedClinicIDs(),
		CreatedAt:             vet.CreatedAt,
		UpdatedAt:             vet.UpdatedAt,
	}
}

// VeterinariansToResponses converts a slice of Veterinarian entities to slice of VeterinarianResponse DTOs
func VeterinariansToResponses(vets []entity.Veterinarian) []dto.VeterinarianResponse {
	responses := make([]dto.VeterinarianResponse, len(vets))
	for i := range vets {
		responses[i] = *VeterinarianToResponse(&vets[i])
	}
	return responses
}
