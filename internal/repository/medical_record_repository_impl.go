package repository

import (
	"errors"

	"vetcare-backend/internal/domain/entity"
	domainRepo "vetcare-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type medicalRecordRepository struct{}

func NewMedicalRecordRepository() domainRepo.MedicalRecordRepository {
	return &medicalRecordRepository{}
}

func (r *medicalRecordRepository) Create(db *gorm.DB, record *entity.MedicalRecord) error {
	return db.Create(record).Error
}

func (r *medicalRecordRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.MedicalRecord, error) {
	var record entity.MedicalRecord
	err := db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *medicalRecordRepository) FindByPet(db *gorm.DB, petID uuid.UUID, visibleOnly bool) ([]entity.MedicalRecord, error) {
	var records []entity.MedicalRecord
	query := db.Where("pet_id = ? AND is_deleted = ?", petID, false)
	if visibleOnly {
		query = query.Where("visible_to_owner = ?", true)
	}
	err := query.Order("visit_date DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *medicalRecordRepository) Update(db *gorm.DB, record *entity.MedicalRecord) error {
	return db.Save(record).Error
}

func (r *medicalRecordRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Where("id = ?", id).Delete(&entity.MedicalRecord{}).Error
}

type prescriptionRepository struct{}

func NewPrescriptionRepository() domainRepo.PrescriptionRepository {
	return &prescriptionRepository{}
}

func (r *prescriptionRepository) Create(db *gorm.DB, prescription *entity.Prescription) error {
	return db.Create(prescription).Error
}

func (r *prescriptionRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Prescription, error) {
	var prescription entity.Prescription
	err := db.Where("id = ?", id).First(&prescription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prescription, nil
}

func (r *prescriptionRepository) FindByPet(db *gorm.DB, petID uuid.UUID) ([]entity.Prescription, error) {
	var prescriptions []entity.Prescription
	err := db.Where("pet_id = ? AND is_deleted = ?", petID, false).
		Order("issued_date DESC").
		Find(&prescriptions).Error
	if err != nil {
		return nil, err
	}
	return prescriptions, nil
}

func (r *prescriptionRepository) Update(db *gorm.DB, prescription *entity.Prescription) error {
	return db.Save(prescription).Error
}

func (r *prescriptionRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Where("id = ?", id).Delete(&entity.Prescription{}).Error
}
