package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreatePetRequest struct {
	Name      string           `json:"name" validate:"required,min=1,max=100"`
	Species   string           `json:"species" validate:"required,max=50"`
	Breed     string           `json:"breed" validate:"omitempty,max=100"`
	Sex       string           `json:"sex" validate:"omitempty,oneof=male female unknown"`
	BirthDate string           `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Weight    *decimal.Decimal `json:"weight"`
	Microchip string           `json:"microchip" validate:"omitempty,max=50"`
	Notes     string           `json:"notes"`
}

type UpdatePetRequest struct {
	Name      *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Species   *string          `json:"species" validate:"omitempty,max=50"`
	Breed     *string          `json:"breed" validate:"omitempty,max=100"`
	Sex       *string          `json:"sex" validate:"omitempty,oneof=male female unknown"`
	BirthDate *string          `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Weight    *decimal.Decimal `json:"weight"`
	Microchip *string          `json:"microchip" validate:"omitempty,max=50"`
	Notes     *string          `json:"notes"`
}

type RegisterPetClinicRequest struct {
	ClinicID string `json:"clinic_id" validate:"required,uuid"`
}

type RejectPetRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

// Response DTOs

type PetResponse struct {
	ID                 uuid.UUID           `json:"id"`
	OwnerID            uuid.UUID           `json:"owner_id"`
	Name               string              `json:"name"`
	Species            string              `json:"species"`
	Breed              string              `json:"breed"`
	Sex                string              `json:"sex"`
	BirthDate          *string             `json:"birth_date,omitempty"`
	Weight             decimal.NullDecimal `json:"weight"`
	Microchip          string              `json:"microchip"`
	Notes              string              `json:"notes"`
	RegisteredClinicID *uuid.UUID          `json:"registered_clinic_id,omitempty"`
	RegistrationStatus string              `json:"registration_status"`
	RejectionReason    string              `json:"rejection_reason,omitempty"`
	IsDeleted          bool                `json:"is_deleted"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}
