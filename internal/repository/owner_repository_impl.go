package repository

import (
	"errors"

	"vetcare-backend/internal/domain/entity"
	domainRepo "vetcare-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ownerRepository struct{}

func NewOwnerRepository() domainRepo.OwnerRepository {
	return &ownerRepository{}
}

func (r *ownerRepository) Create(db *gorm.DB, owner *entity.Owner) error {
	return db.Create(owner).Error
}

func (r *ownerRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Owner, error) {
	var owner entity.Owner
	err := db.Where("id = ?", id).First(&owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &owner, nil
}

func (r *ownerRepository) FindByEmail(db *gorm.DB, email string) (*entity.Owner, error) {
	var owner entity.Owner
	err := db.Where("LOWER(email) = LOWER(?)", email).First(&owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &owner, nil
}

func (r *ownerRepository) Update(db *gorm.DB, owner *entity.Owner) error {
	return db.Save(owner).Error
}
