package repository

import (
	"vetcare-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClinicFilter struct {
	City   string
	Search string
	Limit  int
	Offset int
}

type ClinicRepository interface {
	Create(db *gorm.DB, clinic *entity.Clinic) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Clinic, error)
	FindAll(db *gorm.DB, filter ClinicFilter) ([]entity.Clinic, int64, error)
	FindWithLocation(db *gorm.DB) ([]entity.Clinic, error)
	FindByIDs(db *gorm.DB, ids []uuid.UUID) ([]entity.Clinic, error)
	Update(db *gorm.DB, clinic *entity.Clinic) error
}

type ClinicStaffRepository interface {
	Create(db *gorm.DB, staff *entity.ClinicStaff) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.ClinicStaff, error)
	FindByEmail(db *gorm.DB, email string) (*entity.ClinicStaff, error)
	FindByClinic(db *gorm.DB, clinicID uuid.UUID) ([]entity.ClinicStaff, error)
	Update(db *gorm.DB, staff *entity.ClinicStaff) error
}
