package converter

import (
	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// PetToResponse converts a Pet entity to PetResponse DTO
func PetToResponse(pet *entity.Pet) *dto.PetResponse {
	if pet == nil {
		return nil
	}

	response := &dto.PetResponse{
		ID:                 pet.ID,
		OwnerID:            pet.OwnerID,
		Name:               pet.Name,
		Species:            pet.Species,
		Breed:              pet.Breed,
		Sex:                pet.Sex,
		Weight:             pet.Weight,
		Microchip:          pet.Microchip,
		Notes:              pet.Notes,
		RegisteredClinicID: pet.RegisteredClinicID,
		RegistrationStatus: string(pet.RegistrationStatus),
		RejectionReason:    pet.RejectionReason,
		IsDeleted:          pet.IsDeleted,
		CreatedAt:          pet.CreatedAt,
		UpdatedAt:          pet.UpdatedAt,
	}

	if pet.BirthDate != nil {
		birthDate := pet.BirthDate.Format(dateLayout)
		response.BirthDate = &birthDate
	}

	return response
}

// PetsToResponses converts a slice of Pet entities to slice of PetResponse DTOs
func PetsToResponses(pets []entity.Pet) []dto.PetResponse {
	responses := make([]dto.PetResponse, len(pets))
	for i := range pets {
		responses[i] = *PetToResponse(&pets[i])
	}
	return responses
}
