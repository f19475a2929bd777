package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type PrescriptionType string

const (
	PrescriptionMedication  PrescriptionType = "medication"
	PrescriptionVaccination PrescriptionType = "vaccination"
)

var ErrDueDateRequired = errors.New("due date is required for vaccinations")

type Prescription struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PetID           uuid.UUID        `gorm:"type:uuid;not null;index" json:"pet_id"`
	VeterinarianID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"veterinarian_id"`
	ClinicID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"clinic_id"`
	MedicalRecordID *uuid.UUID       `gorm:"type:uuid;index" json:"medical_record_id,omitempty"`
	Type            PrescriptionType `gorm:"type:varchar(20);not null" json:"type"`
	Name            string           `gorm:"type:varchar(255);not null" json:"name"`
	Dosage          string           `gorm:"type:varchar(100)" json:"dosage"`
	Frequency       string           `gorm:"type:varchar(100)" json:"frequency"`
	Duration        string           `gorm:"type:varchar(100)" json:"duration"`
	Instructions    string           `gorm:"type:text" json:"instructions"`
	IssuedDate      time.Time        `gorm:"not null" json:"issued_date"`
	DueDate         *time.Time       `json:"due_date,omitempty"`
	Attachments     Attachments      `gorm:"type:jsonb;not null;default:'[]'" json:"attachments"`
	IsDeleted       bool             `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt       *time.Time       `json:"deleted_at,omitempty"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

// Validate checks invariants that span fields
func (p *Prescription) Validate() error {
	if p.Type == PrescriptionVaccination && p.DueDate == nil {
		return ErrDueDateRequired
	}
	return nil
}

func (p *Prescription) SoftDelete(now time.Time) {
	p.IsDeleted = true
	p.DeletedAt = &now
}
