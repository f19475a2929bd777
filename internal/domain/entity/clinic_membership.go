package entity

import (
	"time"

	"github.com/google/uuid"
)

// ClinicMembership links a non-primary veterinarian to a clinic it works at
type ClinicMembership struct {
	ClinicID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"clinic_id"`
	VeterinarianID uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"veterinarian_id"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ClinicMembership) TableName() string {
	return "clinic_memberships"
}
