package repository

import (
	"errors"

	"vetcare-backend/internal/domain/entity"
	domainRepo "vetcare-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type petRepository struct{}

func NewPetRepository() domainRepo.PetRepository {
	return &petRepository{}
}

func (r *petRepository) Create(db *gorm.DB, pet *entity.Pet) error {
	return db.Create(pet).Error
}

func (r *petRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Pet, error) {
	var pet entity.Pet
	err := db.Where("id = ?", id).First(&pet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pet, nil
}

func (r *petRepository) FindByOwner(db *gorm.DB, ownerID uuid.UUID) ([]entity.Pet, error) {
	var pets []entity.Pet
	err := db.Where("owner_id = ? AND is_deleted = ?", ownerID, false).
		Order("created_at DESC").
		Find(&pets).Error
	if err != nil {
		return nil, err
	}
	return pets, nil
}

// FindByClinic lists pets registered with the clinic; an empty status matches every status.
func (r *petRepository) FindByClinic(db *gorm.DB, clinicID uuid.UUID, status entity.RegistrationStatus) ([]entity.Pet, error) {
	var pets []entity.Pet
	query := db.Where("registered_clinic_id = ? AND is_deleted = ?", clinicID, false)
	if status != entity.RegistrationNone {
		query = query.Where("registration_status = ?", status)
	}
	err := query.Order("updated_at DESC").Find(&pets).Error
	if err != nil {
		return nil, err
	}
	return pets, nil
}

func (r *petRepository) Update(db *gorm.DB, pet *entity.Pet) error {
	return db.Save(pet).Error
}
