package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type RegisterVeterinarianRequest struct {
	FullName       string `json:"full_name" validate:"required,min=2,max=255"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	Phone          string `json:"phone" validate:"omitempty,min=6,max=30"`
	LicenseNumber  string `json:"license_number" validate:"required,max=100"`
	Specialization string `json:"specialization" validate:"omitempty,max=255"`
}

type UpdateVeterinarianRequest struct {
	FullName       *string `json:"full_name" validate:"omitempty,min=2,max=255"`
	Phone          *string `json:"phone" validate:"omitempty,min=6,max=30"`
	Specialization *string `json:"specialization" validate:"omitempty,max=255"`
}

type SwitchActiveClinicRequest struct {
	ClinicID string `json:"clinic_id" validate:"required,uuid"`
}

type UpdateAccessLevelRequest struct {
	AccessLevel string `json:"access_level" validate:"required,oneof=full_access normal_access"`
}

type UpdateVetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active deactivated deleted"`
}

// Response DTOs

type VeterinarianResponse struct {
	ID                    uuid.UUID   `json:"id"`
	FullName              string      `json:"full_name"`
	Email                 string      `json:"email"`
	Phone                 string      `json:"phone"`
	LicenseNumber         string      `json:"license_number"`
	Specialization        string      `json:"specialization"`
	AccessLevel           string      `json:"access_level"`
	Status                string      `json:"status"`
	CurrentActiveClinicID *uuid.UUID  `json:"current_active_clinic_id,omitempty"`
	OwnedClinicIDs        []uuid.UUID `json:"owned_clinic_ids,omitempty"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}
