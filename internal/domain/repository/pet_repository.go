package repository

import (
	"vetcare-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PetRepository interface {
	Create(db *gorm.DB, pet *entity.Pet) error
	// FindByID also returns soft-deleted pets.
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Pet, error)
	FindByOwner(db *gorm.DB, ownerID uuid.UUID) ([]entity.Pet, error)
	FindByClinic(db *gorm.DB, clinicID uuid.UUID, status entity.RegistrationStatus) ([]entity.Pet, error)
	Update(db *gorm.DB, pet *entity.Pet) error
}
