package repository

import (
	"errors"

	"vetcare-backend/internal/domain/entity"
	domainRepo "vetcare-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type clinicRepository struct{}

func NewClinicRepository() domainRepo.ClinicRepository {
	return &clinicRepository{}
}

func (r *clinicRepository) Create(db *gorm.DB, clinic *entity.Clinic) error {
	return db.Create(clinic).Error
}

func (r *clinicRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Clinic, error) {
	var clinic entity.Clinic
	err := db.Where("id = ?", id).First(&clinic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &clinic, nil
}

// FindAll returns non-deleted clinics matching the filter and the total match count.
func (r *clinicRepository) FindAll(db *gorm.DB, filter domainRepo.ClinicFilter) ([]entity.Clinic, int64, error) {
	query := db.Model(&entity.Clinic{}).Where("is_deleted = ?", false)
	if filter.City != "" {
		query = query.Where("city ILIKE ?", filter.City)
	}
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var clinics []entity.Clinic
	if err := query.Order("name ASC").Find(&clinics).Error; err != nil {
		return nil, 0, err
	}
	return clinics, total, nil
}

func (r *clinicRepository) FindWithLocation(db *gorm.DB) ([]entity.Clinic, error) {
	var clinics []entity.Clinic
	err := db.Where("is_deleted = ? AND latitude IS NOT NULL AND longitude IS NOT NULL", false).
		Find(&clinics).Error
	if err != nil {
		return nil, err
	}
	return clinics, nil
}

func (r *clinicRepository) FindByIDs(db *gorm.DB, ids []uuid.UUID) ([]entity.Clinic, error) {
	var clinics []entity.Clinic
	if len(ids) == 0 {
		return clinics, nil
	}
	err := db.Where("id IN ? AND is_deleted = ?", ids, false).Order("name ASC").Find(&clinics).Error
	if err != nil {
		return nil, err
	}
	return clinics, nil
}

func (r *clinicRepository) Update(db *gorm.DB, clinic *entity.Clinic) error {
	return db.Save(clinic).Error
}

type clinicStaffRepository struct{}

func NewClinicStaffRepository() domainRepo.ClinicStaffRepository {
	return &clinicStaffRepository{}
}

func (r *clinicStaffRepository) Create(db *gorm.DB, staff *entity.ClinicStaff) error {
	return db.Create(staff).Error
}

func (r *clinicStaffRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.ClinicStaff, error) {
	var staff entity.ClinicStaff
	err := db.Where("id = ?", id).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

func (r *clinicStaffRepository) FindByEmail(db *gorm.DB, email string) (*entity.ClinicStaff, error) {
	var staff entity.ClinicStaff
	err := db.Where("LOWER(email) = LOWER(?)", email).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

func (r *clinicStaffRepository) FindByClinic(db *gorm.DB, clinicID uuid.UUID) ([]entity.ClinicStaff, error) {
	var staff []entity.ClinicStaff
	err := db.Where("clinic_id = ? AND is_deleted = ?", clinicID, false).
		Order("full_name ASC").
		Find(&staff).Error
	if err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *clinicStaffRepository) Update(db *gorm.DB, staff *entity.ClinicStaff) error {
	return db.Save(staff).Error
}
