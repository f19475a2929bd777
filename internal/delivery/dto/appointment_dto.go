package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type BookAppointmentRequest struct {
	PetID          string    `json:"pet_id" validate:"required,uuid"`
	ClinicID       string    `json:"clinic_id" validate:"required,uuid"`
	VeterinarianID string    `json:"veterinarian_id" validate:"required,uuid"`
	DateTime       time.Time `json:"date_time" validate:"required"`
	Reason         string    `json:"reason" validate:"omitempty,max=1000"`
	Notes          string    `json:"notes"`
}

type RescheduleAppointmentRequest struct {
	DateTime time.Time `json:"date_time" validate:"required"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

// Response DTOs

type AppointmentResponse struct {
	ID               uuid.UUID       `json:"id"`
	PetID            uuid.UUID       `json:"pet_id"`
	OwnerID          uuid.UUID       `json:"owner_id"`
	ClinicID         uuid.UUID       `json:"clinic_id"`
	VeterinarianID   uuid.UUID       `json:"veterinarian_id"`
	DateTime         time.Time       `json:"date_time"`
	Reason           string          `json:"reason"`
	Notes            string          `json:"notes"`
	Fee              decimal.Decimal `json:"fee"`
	Status           string          `json:"status"`
	CancelReason     string          `json:"cancel_reason,omitempty"`
	CanceledBy       *uuid.UUID      `json:"canceled_by,omitempty"`
	PetName          string          `json:"pet_name,omitempty"`
	ClinicName       string          `json:"clinic_name,omitempty"`
	VeterinarianName string          `json:"veterinarian_name,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
