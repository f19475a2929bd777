package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentBooked      AppointmentStatus = "booked"
	AppointmentConfirmed   AppointmentStatus = "confirmed"
	AppointmentRescheduled AppointmentStatus = "rescheduled"
	AppointmentCanceled    AppointmentStatus = "canceled"
	AppointmentCompleted   AppointmentStatus = "completed"
)

// NonTerminalAppointmentStatuses hold a vet's time slot.
var NonTerminalAppointmentStatuses = []AppointmentStatus{
	AppointmentBooked,
	AppointmentConfirmed,
	AppointmentRescheduled,
}

func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentCanceled || s == AppointmentCompleted
}

// Appointment is a booked visit. No two non-terminal appointments share (veterinarian_id, date_time).
type Appointment struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PetID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"pet_id"`
	OwnerID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"owner_id"`
	ClinicID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"clinic_id"`
	VeterinarianID uuid.UUID         `gorm:"type:uuid;not null" json:"veterinarian_id"`
	DateTime       time.Time         `gorm:"not null" json:"date_time"`
	Reason         string            `gorm:"type:text" json:"reason"`
	Notes          string            `gorm:"type:text" json:"notes"`
	Fee            decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0" json:"fee"`
	Status         AppointmentStatus `gorm:"type:varchar(20);not null;default:'booked';index" json:"status"`
	CancelReason   string            `gorm:"type:text" json:"cancel_reason,omitempty"`
	CanceledBy     *uuid.UUID        `gorm:"type:uuid" json:"canceled_by,omitempty"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Pet          *Pet          `gorm:"foreignKey:PetID" json:"pet,omitempty"`
	Veterinarian *Veterinarian `gorm:"foreignKey:VeterinarianID" json:"veterinarian,omitempty"`
	Clinic       *Clinic       `gorm:"foreignKey:ClinicID" json:"clinic,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// Confirm moves a booked or rescheduled appointment to confirmed
func (a *Appointment) Confirm() error {
	if a.Status != AppointmentBooked && a.Status != AppointmentRescheduled {
		return ErrInvalidTransition
	}
	a.Status = AppointmentConfirmed
	return nil
}

// Reschedule moves any non-terminal appointment to a new time
func (a *Appointment) Reschedule(at time.Time) error {
	if a.Status.IsTerminal() {
		return ErrInvalidTransition
	}
	a.DateTime = at
	a.Status = AppointmentRescheduled
	return nil
}

// Cancel frees the slot of a non-terminal appointment
func (a *Appointment) Cancel(reason string, by uuid.UUID) error {
	if a.Status.IsTerminal() {
		return ErrInvalidTransition
	}
	a.Status = AppointmentCanceled
	a.CancelReason = reason
	a.CanceledBy = &by
	return nil
}

func (a *Appointment) Complete() error {
	if a.Status.IsTerminal() {
		return ErrInvalidTransition
	}
	a.Status = AppointmentCompleted
	return nil
}
