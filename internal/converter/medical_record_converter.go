package converter

import (
	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/domain/entity"
)

// AttachmentToResponse hides the object key; downloads go through presigned URLs.
func AttachmentToResponse(attachment entity.Attachment) dto.AttachmentResponse {
	return dto.AttachmentResponse{
		ID:          attachment.ID,
		FileName:    attachment.FileName,
		ContentType: attachment.ContentType,
		Size:        attachment.Size,
		UploadedAt:  attachment.UploadedAt,
	}
}

func AttachmentsToResponses(attachments entity.Attachments) []dto.AttachmentResponse {
	responses := make([]dto.AttachmentResponse, len(attachments))
	for i, attachment := range attachments {
		responses[i] = AttachmentToResponse(attachment)
	}
	return responses
}

// MedicalRecordToResponse converts a MedicalRecord entity to MedicalRecordResponse DTO
func MedicalRecordToResponse(record *entity.MedicalRecord) *dto.MedicalRecordResponse {
	if record == nil {
		return nil
	}

	return &dto.MedicalRecordResponse{
		ID:             record.ID,
		PetID:          record.PetID,
		VeterinarianID: record.VeterinarianID,
		ClinicID:       record.ClinicID,
		AppointmentID:  record.AppointmentID,
		VisitDate:      record.VisitDate,
		ChiefComplaint: record.ChiefComplaint,
		Diagnosis:      record.Diagnosis,
		Treatment:      record.Treatment,
		Notes:          record.Notes,
		Weight:         record.Weight,
		VisibleToOwner: record.VisibleToOwner,
		Attachments:    AttachmentsToResponses(record.Attachments),
		IsDeleted:      record.IsDeleted,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}

// MedicalRecordsToResponses converts a slice of MedicalRecord entities to slice of MedicalRecordResponse DTOs
func MedicalRecordsToResponses(records []entity.MedicalRecord) []dto.MedicalRecordResponse {
	responses := make([]dto.MedicalRecordResponse, len(records))
	for i := range records {
		responses[i] = *MedicalRecordToResponse(&records[i])
	}
	return responses
}

// PrescriptionToResponse converts a Prescription entity to PrescriptionResponse DTO
func PrescriptionToResponse(prescription *entity.Prescription) *dto.PrescriptionResponse {
	if prescription == nil {
		return nil
	}

	return &dto.PrescriptionResponse{
		ID:              prescription.ID,
		PetID:           prescription.PetID,
		VeterinarianID:  prescription.VeterinarianID,
		ClinicID:        prescription.ClinicID,
		MedicalRecordID: prescription.MedicalRecordID,
		Type:            string(prescription.Type),
		Name:            prescription.Name,
		Dosage:          prescription.Dosage,
		Frequency:       prescription.Frequency,
		Duration:        prescription.Duration,
		Instructions:    prescription.Instructions,
		IssuedDate:      prescription.IssuedDate,
		DueDate:         prescription.DueDate,
		Attachments:     AttachmentsToResponses(prescription.Attachments),
		IsDeleted:       prescription.IsDeleted,
		CreatedAt:       prescription.CreatedAt,
		UpdatedAt:       prescription.UpdatedAt,
	}
}

func PrescriptionsToResponses(prescriptions []entity.Prescription) []dto.PrescriptionResponse {
	responses := make([]dto.PrescriptionResponse, len(prescriptions))
	for i := range prescriptions {
		responses[i] = *PrescriptionToResponse(&prescriptions[i])
	}
	return responses
}
