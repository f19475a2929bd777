package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MedicalRecord struct {
	ID             uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PetID          uuid.UUID           `gorm:"type:uuid;not null;index" json:"pet_id"`
	VeterinarianID uuid.UUID           `gorm:"type:uuid;not null;index" json:"veterinarian_id"`
	ClinicID       uuid.UUID           `gorm:"type:uuid;not null;index" json:"clinic_id"`
	AppointmentID  *uuid.UUID          `gorm:"type:uuid" json:"appointment_id,omitempty"`
	VisitDate      time.Time           `gorm:"not null" json:"visit_date"`
	ChiefComplaint string              `gorm:"type:text" json:"chief_complaint"`
	Diagnosis      string              `gorm:"type:text;not null" json:"diagnosis"`
	Treatment      string              `gorm:"type:text" json:"treatment"`
	Notes          string              `gorm:"type:text" json:"notes"`
	Weight         decimal.NullDecimal `gorm:"type:numeric(6,2)" json:"weight"`
	VisibleToOwner bool                `gorm:"not null;default:true" json:"visible_to_owner"`
	Attachments    Attachments         `gorm:"type:jsonb;not null;default:'[]'" json:"attachments"`
	IsDeleted      bool                `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt      *time.Time          `json:"deleted_at,omitempty"`
	CreatedAt      time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MedicalRecord) TableName() string {
	return "medical_records"
}

func (m *MedicalRecord) SoftDelete(now time.Time) {
	m.IsDeleted = true
	m.DeletedAt = &now
}
