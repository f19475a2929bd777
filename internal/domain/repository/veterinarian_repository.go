package repository

import (
	"vetcare-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VeterinarianRepository interface {
	Create(db *gorm.DB, vet *entity.Veterinarian) error
	// FindByID loads the vet with its owned clinics.
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Veterinarian, error)
	FindByEmail(db *gorm.DB, email string) (*entity.Veterinarian, error)
	FindByLicenseNumber(db *gorm.DB, licenseNumber string) (*entity.Veterinarian, error)
	// FindByClinic returns the clinic's primary vet and its members.
	FindByClinic(db *gorm.DB, clinicID uuid.UUID) ([]entity.Veterinarian, error)
	Update(db *gorm.DB, vet *entity.Veterinarian) error
}

type ClinicMembershipRepository interface {
	Create(db *gorm.DB, membership *entity.ClinicMembership) error
	Exists(db *gorm.DB, clinicID, vetID uuid.UUID) (bool, error)
	FindClinicIDsByVet(db *gorm.DB, vetID uuid.UUID) ([]uuid.UUID, error)
}
