package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePrescriptionRequest struct {
	PetID           string     `json:"pet_id" validate:"required,uuid"`
	MedicalRecordID string     `json:"medical_record_id" validate:"omitempty,uuid"`
	Type            string     `json:"type" validate:"required,oneof=medication vaccination"`
	Name            string     `json:"name" validate:"required,max=255"`
	Dosage          string     `json:"dosage" validate:"omitempty,max=100"`
	Frequency       string     `json:"frequency" validate:"omitempty,max=100"`
	Duration        string     `json:"duration" validate:"omitempty,max=100"`
	Instructions    string     `json:"instructions"`
	IssuedDate      *time.Time `json:"issued_date"`
	DueDate         *time.Time `json:"due_date" validate:"required_if=Type vaccination"`
}

type UpdatePrescriptionRequest struct {
	Name         *string    `json:"name" validate:"omitempty,min=1,max=255"`
	Dosage       *string    `json:"dosage" validate:"omitempty,max=100"`
	Frequency    *string    `json:"frequency" validate:"omitempty,max=100"`
	Duration     *string    `json:"duration" validate:"omitempty,max=100"`
	Instructions *string    `json:"instructions"`
	IssuedDate   *time.Time `json:"issued_date"`
	DueDate      *time.Time `json:"due_date"`
}

// Response DTOs

type PrescriptionResponse struct {
	ID              uuid.UUID            `json:"id"`
	PetID           uuid.UUID            `json:"pet_id"`
	VeterinarianID  uuid.UUID            `json:"veterinarian_id"`
	ClinicID        uuid.UUID            `json:"clinic_id"`
	MedicalRecordID *uuid.UUID           `json:"medical_record_id,omitempty"`
	Type            string               `json:"type"`
	Name            string               `json:"name"`
	Dosage          string               `json:"dosage"`
	Frequency       string               `json:"frequency"`
	Duration        string               `json:"duration"`
	Instructions    string               `json:"instructions"`
	IssuedDate      time.Time            `json:"issued_date"`
	DueDate         *time.Time           `json:"due_date,omitempty"`
	Attachments     []AttachmentResponse `json:"attachments"`
	IsDeleted       bool                 `json:"is_deleted"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// PrescriptionPDF is a rendered prescription ready to stream.
type PrescriptionPDF struct {
	FileName string
	Content  []byte
}
