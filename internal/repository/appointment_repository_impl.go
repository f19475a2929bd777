package repository

import (
	"errors"
	"time"

	"vetcare-backend/internal/domain/entity"
	domainRepo "vetcare-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit(clause.Associations).Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Pet").Preload("Veterinarian").Preload("Clinic").
		Where("id = ?", id).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByOwner(db *gorm.DB, ownerID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Pet").Preload("Veterinarian").Preload("Clinic").
		Where("owner_id = ?", ownerID).
		Order("date_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByVeterinarian(db *gorm.DB, vetID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Pet").Preload("Clinic").
		Where("veterinarian_id = ?", vetID).
		Order("date_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByClinic(db *gorm.DB, clinicID uuid.UUID, status entity.AppointmentStatus) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.Preload("Pet").Preload("Veterinarian").Where("clinic_id = ?", clinicID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("date_time ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindActiveBySlot(db *gorm.DB, vetID uuid.UUID, at time.Time, excludeID *uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	query := db.Where("veterinarian_id = ? AND date_time = ? AND status IN ?", vetID, at, entity.NonTerminalAppointmentStatuses)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	err := query.First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit(clause.Associations).Save(appointment).Error
}
