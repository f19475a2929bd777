package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateClinicRequest struct {
	Name            string           `json:"name" validate:"required,min=2,max=255"`
	Email           string           `json:"email" validate:"omitempty,email"`
	Phone           string           `json:"phone" validate:"omitempty,min=6,max=30"`
	Address         string           `json:"address" validate:"required"`
	City            string           `json:"city" validate:"omitempty,max=100"`
	Latitude        *float64         `json:"latitude" validate:"omitempty,latitude"`
	Longitude       *float64         `json:"longitude" validate:"omitempty,longitude"`
	ConsultationFee *decimal.Decimal `json:"consultation_fee"`
	OpeningHours    string           `json:"opening_hours"`
}

type UpdateClinicRequest struct {
	Name            *string          `json:"name" validate:"omitempty,min=2,max=255"`
	Email           *string          `json:"email" validate:"omitempty,email"`
	Phone           *string          `json:"phone" validate:"omitempty,min=6,max=30"`
	Address         *string          `json:"address" validate:"omitempty,min=1"`
	City            *string          `json:"city" validate:"omitempty,max=100"`
	Latitude        *float64         `json:"latitude" validate:"omitempty,latitude"`
	Longitude       *float64         `json:"longitude" validate:"omitempty,longitude"`
	ConsultationFee *decimal.Decimal `json:"consultation_fee"`
	OpeningHours    *string          `json:"opening_hours"`
}

type ListClinicsRequest struct {
	City   string
	Search string
	Page   int
	Limit  int
}

type NearbyClinicsRequest struct {
	Latitude  float64 `validate:"latitude"`
	Longitude float64 `validate:"longitude"`
	RadiusKm  float64 `validate:"gt=0,lte=500"`
	Limit     int     `validate:"gte=1,lte=100"`
}

// CreateStaffRequest provisions either a veterinarian sub-account or a
// non-veterinary staff member, selected by StaffType.
type CreateStaffRequest struct {
	StaffType      string `json:"staff_type" validate:"required,oneof=veterinarian staff"`
	FullName       string `json:"full_name" validate:"required,min=2,max=255"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"omitempty,min=6,max=30"`
	Role           string `json:"role" validate:"required"`
	Password       string `json:"password" validate:"required_if=StaffType veterinarian,omitempty,min=6"`
	LicenseNumber  string `json:"license_number" validate:"required_if=StaffType veterinarian,omitempty,max=100"`
	Specialization string `json:"specialization" validate:"omitempty,max=255"`
	AccessLevel    string `json:"access_level" validate:"omitempty,oneof=full_access normal_access"`
}

type UpdateStaffRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,min=6,max=30"`
	Role     *string `json:"role" validate:"omitempty,oneof=receptionist assistant technician nurse practice_manager"`
}

// Response DTOs

type ClinicResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Address         string          `json:"address"`
	City            string          `json:"city"`
	Latitude        *float64        `json:"latitude,omitempty"`
	Longitude       *float64        `json:"longitude,omitempty"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
	OpeningHours    string          `json:"opening_hours"`
	PrimaryVetID    uuid.UUID       `json:"primary_vet_id"`
	DistanceKm      *float64        `json:"distance_km,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type ClinicListResponse struct {
	Clinics []ClinicResponse `json:"clinics"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}

type StaffResponse struct {
	ID          uuid.UUID `json:"id"`
	ClinicID    uuid.UUID `json:"clinic_id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Role        string    `json:"role"`
	AccessLevel string    `json:"access_level"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateStaffResponse carries exactly one of Veterinarian or Staff.
type CreateStaffResponse struct {
	StaffType    string                `json:"staff_type"`
	Veterinarian *VeterinarianResponse `json:"veterinarian,omitempty"`
	Staff        *StaffResponse        `json:"staff,omitempty"`
}

type ClinicStaffListResponse struct {
	Veterinarians []VeterinarianResponse `json:"veterinarians"`
	Staff         []StaffResponse        `json:"staff"`
}
