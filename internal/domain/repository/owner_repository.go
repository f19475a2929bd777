package repository

import (
	"vetcare-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OwnerRepository interface {
	Create(db *gorm.DB, owner *entity.Owner) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Owner, error)
	FindByEmail(db *gorm.DB, email string) (*entity.Owner, error)
	Update(db *gorm.DB, owner *entity.Owner) error
}
