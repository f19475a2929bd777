package repository

import (
	"vetcare-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MedicalRecordRepository interface {
	Create(db *gorm.DB, record *entity.MedicalRecord) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.MedicalRecord, error)
	// FindByPet excludes soft-deleted records; visibleOnly further limits to owner-visible ones.
	FindByPet(db *gorm.DB, petID uuid.UUID, visibleOnly bool) ([]entity.MedicalRecord, error)
	Update(db *gorm.DB, record *entity.MedicalRecord) error
	Delete(db *gorm.DB, id uuid.UUID) error
}

type PrescriptionRepository interface {
	Create(db *gorm.DB, prescription *entity.Prescription) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Prescription, error)
	FindByPet(db *gorm.DB, petID uuid.UUID) ([]entity.Prescription, error)
	Update(db *gorm.DB, prescription *entity.Prescription) error
	Delete(db *gorm.DB, id uuid.UUID) error
}
