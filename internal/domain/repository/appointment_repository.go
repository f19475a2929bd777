package repository

import (
	"time"

	"vetcare-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByOwner(db *gorm.DB, ownerID uuid.UUID) ([]entity.Appointment, error)
	FindByVeterinarian(db *gorm.DB, vetID uuid.UUID) ([]entity.Appointment, error)
	FindByClinic(db *gorm.DB, clinicID uuid.UUID, status entity.AppointmentStatus) ([]entity.Appointment, error)
	// FindActiveBySlot returns a non-terminal appointment holding (vetID, at), ignoring excludeID.
	FindActiveBySlot(db *gorm.DB, vetID uuid.UUID, at time.Time, excludeID *uuid.UUID) (*entity.Appointment, error)
	Update(db *gorm.DB, appointment *entity.Appointment) error
}
