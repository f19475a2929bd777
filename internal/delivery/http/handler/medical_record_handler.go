package handler

import (
	"net/http"

	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/usecase"
	"vetcare-backend/pkg/response"
	"vetcare-backend/pkg/validator"
)

// maxUploadSize bounds a single attachment upload.
const maxUploadSize = 10 << 20

type MedicalRecordHandler struct {
	recordUsecase usecase.MedicalRecordUsecase
	validator     *validator.CustomValidator
}

func NewMedicalRecordHandler(recordUsecase usecase.MedicalRecordUsecase, validator *validator.CustomValidator) *MedicalRecordHandler {
	return &MedicalRecordHandler{
		recordUsecase: recordUsecase,
		validator:     validator,
	}
}

func (h *MedicalRecordHandler) CreateMedicalRecord(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	var req dto.CreateMedicalRecordRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	record, err := h.recordUsecase.CreateMedicalRecord(r.Context(), principal, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Medical record created successfully", "medical_record", record)
}

func (h *MedicalRecordHandler) GetPetMedicalRecords(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	petID, ok := pathUUID(w, r, "petId", "pet")
	if !ok {
		return
	}

	records, err := h.recordUsecase.GetPetMedicalRecords(r.Context(), principal, petID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Medical records retrieved successfully", "medical_records", records)
}

func (h *MedicalRecordHandler) GetMedicalRecord(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	recordID, ok := pathUUID(w, r, "id", "medical record")
	if !ok {
		return
	}

	record, err := h.recordUsecase.GetMedicalRecord(r.Context(), principal, recordID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Medical record retrieved successfully", "medical_record", record)
}

func (h *MedicalRecordHandler) UpdateMedicalRecord(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	recordID, ok := pathUUID(w, r, "id", "medical record")
	if !ok {
		return
	}

	var req dto.UpdateMedicalRecordRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	record, err := h.recordUsecase.UpdateMedicalRecord(r.Context(), principal, recordID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Medical record updated successfully", "medical_record", record)
}

func (h *MedicalRecordHandler) UpdateVisibility(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	recordID, ok := pathUUID(w, r, "id", "medical record")
	if !ok {
		return
	}

	var req dto.UpdateVisibilityRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	record, err := h.recordUsecase.UpdateVisibility(r.Context(), principal, recordID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Visibility updated successfully", "medical_record", record)
}

// DeleteMedicalRecord soft deletes unless ?hard=true
func (h *MedicalRecordHandler) DeleteMedicalRecord(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	recordID, ok := pathUUID(w, r, "id", "medical record")
	if !ok {
		return
	}

	if err := h.recordUsecase.DeleteMedicalRecord(r.Context(), principal, recordID, queryBool(r, "hard")); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Medical record deleted successfully", "", nil)
}

// UploadAttachment reads the multipart field "file".
func (h *MedicalRecordHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	recordID, ok := pathUUID(w, r, "id", "medical record")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form", nil)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "file is required", nil)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment, err := h.recordUsecase.UploadAttachment(r.Context(), principal, recordID, &dto.UploadAttachmentRequest{
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		File:        file,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Attachment uploaded successfully", "attachment", attachment)
}

func (h *MedicalRecordHandler) GetAttachment(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	recordID, ok := pathUUID(w, r, "id", "medical record")
	if !ok {
		return
	}
	attachmentID, ok := pathUUID(w, r, "attachmentId", "attachment")
	if !ok {
		return
	}

	attachment, err := h.recordUsecase.GetAttachmentURL(r.Context(), principal, recordID, attachmentID.String())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Attachment retrieved successfully", "attachment", attachment)
}
