package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type RegisterOwnerRequest struct {
	FullName  string   `json:"full_name" validate:"required,min=2,max=255"`
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"required,min=6"`
	Phone     string   `json:"phone" validate:"omitempty,min=6,max=30"`
	Address   string   `json:"address" validate:"omitempty"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

type UpdateOwnerRequest struct {
	FullName  *string  `json:"full_name" validate:"omitempty,min=2,max=255"`
	Phone     *string  `json:"phone" validate:"omitempty,min=6,max=30"`
	Address   *string  `json:"address"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// Response DTOs

type OwnerResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
