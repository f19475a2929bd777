package dto

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateMedicalRecordRequest struct {
	PetID          string           `json:"pet_id" validate:"required,uuid"`
	AppointmentID  string           `json:"appointment_id" validate:"omitempty,uuid"`
	VisitDate      *time.Time       `json:"visit_date"`
	ChiefComplaint string           `json:"chief_complaint"`
	Diagnosis      string           `json:"diagnosis" validate:"required"`
	Treatment      string           `json:"treatment"`
	Notes          string           `json:"notes"`
	Weight         *decimal.Decimal `json:"weight"`
	VisibleToOwner *bool            `json:"visible_to_owner"`
}

type UpdateMedicalRecordRequest struct {
	VisitDate      *time.Time       `json:"visit_date"`
	ChiefComplaint *string          `json:"chief_complaint"`
	Diagnosis      *string          `json:"diagnosis" validate:"omitempty,min=1"`
	Treatment      *string          `json:"treatment"`
	Notes          *string          `json:"notes"`
	Weight         *decimal.Decimal `json:"weight"`
}

type UpdateVisibilityRequest struct {
	VisibleToOwner *bool `json:"visible_to_owner" validate:"required"`
}

// UploadAttachmentRequest is filled from a multipart form; File is closed by the handler.
type UploadAttachmentRequest struct {
	FileName    string
	ContentType string
	Size        int64
	File        io.Reader
}

// Response DTOs

type MedicalRecordResponse struct {
	ID             uuid.UUID            `json:"id"`
	PetID          uuid.UUID            `json:"pet_id"`
	VeterinarianID uuid.UUID            `json:"veterinarian_id"`
	ClinicID       uuid.UUID            `json:"clinic_id"`
	AppointmentID  *uuid.UUID           `json:"appointment_id,omitempty"`
	VisitDate      time.Time            `json:"visit_date"`
	ChiefComplaint string               `json:"chief_complaint"`
	Diagnosis      string               `json:"diagnosis"`
	Treatment      string               `json:"treatment"`
	Notes          string               `json:"notes"`
	Weight         decimal.NullDecimal  `json:"weight"`
	VisibleToOwner bool                 `json:"visible_to_owner"`
	Attachments    []AttachmentResponse `json:"attachments"`
	IsDeleted      bool                 `json:"is_deleted"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

type AttachmentResponse struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type AttachmentURLResponse struct {
	Attachment AttachmentResponse `json:"attachment"`
	URL        string             `json:"url"`
}
