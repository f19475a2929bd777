package converter

import (
	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/domain/entity"
)

// OwnerToResponse converts an Owner entity to OwnerResponse DTO. The password hash is never copied.
func OwnerToResponse(owner *entity.Owner) *dto.OwnerResponse {
	if owner == nil {
		return nil
	}

	return &dto.OwnerResponse{
		ID:        owner.ID,
		FullName:  owner.FullName,
		Email:     owner.Email,
		Phone:     owner.Phone,
		Address:   owner.Address,
		Latitude:  owner.Latitude,
		Longitude: owner.Longitude,
		CreatedAt: owner.CreatedAt,
		UpdatedAt: owner.UpdatedAt,
	}
}
