package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegistrationStatus is the state of a pet's registration with a clinic.
// The empty value means the pet was never registered.
type RegistrationStatus string

const (
	RegistrationNone     RegistrationStatus = ""
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

type Pet struct {
	ID                 uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OwnerID            uuid.UUID           `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name               string              `gorm:"type:varchar(100);not null" json:"name"`
	Species            string              `gorm:"type:varchar(50);not null" json:"species"`
	Breed              string              `gorm:"type:varchar(100)" json:"breed"`
	Sex                string              `gorm:"type:varchar(10)" json:"sex"`
	BirthDate          *time.Time          `gorm:"type:date" json:"birth_date,omitempty"`
	Weight             decimal.NullDecimal `gorm:"type:numeric(6,2)" json:"weight"`
	Microchip          string              `gorm:"type:varchar(50)" json:"microchip"`
	Notes              string              `gorm:"type:text" json:"notes"`
	RegisteredClinicID *uuid.UUID          `gorm:"type:uuid;index" json:"registered_clinic_id,omitempty"`
	RegistrationStatus RegistrationStatus  `gorm:"type:varchar(20);not null;default:'';index" json:"registration_status"`
	RejectionReason    string              `gorm:"type:text" json:"rejection_reason,omitempty"`
	IsDeleted          bool                `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt          *time.Time          `json:"deleted_at,omitempty"`
	CreatedAt          time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Pet) TableName() string {
	return "pets"
}

func (p *Pet) IsPending() bool {
	return p.RegistrationStatus == RegistrationPending
}

// RequestRegistration submits the pet to a clinic. Only unregistered pets may be submitted.
func (p *Pet) RequestRegistration(clinicID uuid.UUID) error {
	if p.RegistrationStatus != RegistrationNone {
		return ErrInvalidTransition
	}
	p.RegisteredClinicID = &clinicID
	p.RegistrationStatus = RegistrationPending
	p.RejectionReason = ""
	return nil
}

func (p *Pet) Approve() error {
	if !p.IsPending() {
		return ErrInvalidTransition
	}
	p.RegistrationStatus = RegistrationApproved
	return nil
}

func (p *Pet) Reject(reason string) error {
	if !p.IsPending() {
		return ErrInvalidTransition
	}
	p.RegistrationStatus = RegistrationRejected
	p.RejectionReason = reason
	return nil
}

func (p *Pet) SoftDelete(now time.Time) {
	p.IsDeleted = true
	p.DeletedAt = &now
}
