package repository

import (
	"errors"

	"vetcare-backend/internal/domain/entity"
	domainRepo "vetcare-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type veterinarianRepository struct{}

func NewVeterinarianRepository() domainRepo.VeterinarianRepository {
	return &veterinarianRepository{}
}

func (r *veterinarianRepository) Create(db *gorm.DB, vet *entity.Veterinarian) error {
	return db.Omit(clause.Associations).Create(vet).Error
}

func (r *veterinarianRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Veterinarian, error) {
	return r.findOne(db.Preload("OwnedClinics", "is_deleted = ?", false).Where("id = ?", id))
}

func (r *veterinarianRepository) FindByEmail(db *gorm.DB, email string) (*entity.Veterinarian, error) {
	return r.findOne(db.Where("LOWER(email) = LOWER(?)", email))
}

func (r *veterinarianRepository) FindByLicenseNumber(db *gorm.DB, licenseNumber string) (*entity.Veterinarian, error) {
	return r.findOne(db.Where("license_number = ?", licenseNumber))
}

func (r *veterinarianRepository) findOne(query *gorm.DB) (*entity.Veterinarian, error) {
	var vet entity.Veterinarian
	err := query.First(&vet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vet, nil
}

func (r *veterinarianRepository) FindByClinic(db *gorm.DB, clinicID uuid.UUID) ([]entity.Veterinarian, error) {
	var vets []entity.Veterinarian
	members := db.Model(&entity.ClinicMembership{}).Select("veterinarian_id").Where("clinic_id = ?", clinicID)
	primary := db.Model(&entity.Clinic{}).Select("primary_vet_id").Where("id = ?", clinicID)
	err := db.Where("id IN (?) OR id IN (?)", members, primary).
		Where("status <> ?", entity.VetStatusDeleted).
		Order("full_name ASC").
		Find(&vets).Error
	if err != nil {
		return nil, err
	}
	return vets, nil
}

func (r *veterinarianRepository) Update(db *gorm.DB, vet *entity.Veterinarian) error {
	return db.Omit(clause.Associations).Save(vet).Error
}

type clinicMembershipRepository struct{}

func NewClinicMembershipRepository() domainRepo.ClinicMembershipRepository {
	return &clinicMembershipRepository{}
}

func (r *clinicMembershipRepository) Create(db *gorm.DB, membership *entity.ClinicMembership) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(membership).Error
}

func (r *clinicMembershipRepository) Exists(db *gorm.DB, clinicID, vetID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&entity.ClinicMembership{}).
		Where("clinic_id = ? AND veterinarian_id = ?", clinicID, vetID).
		Count(&count).Error
	return count > 0, err
}

func (r *clinicMembershipRepository) FindClinicIDsByVet(db *gorm.DB, vetID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.Model(&entity.ClinicMembership{}).
		Where("veterinarian_id = ?", vetID).
		Pluck("clinic_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
