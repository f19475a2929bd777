package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/usecase"
	"vetcare-backend/pkg/response"
	"vetcare-backend/pkg/validator"
)

type PrescriptionHandler struct {
	prescriptionUsecase usecase.PrescriptionUsecase
	validator           *validator.CustomValidator
}

func NewPrescriptionHandler(prescriptionUsecase usecase.PrescriptionUsecase, validator *validator.CustomValidator) *PrescriptionHandler {
	return &PrescriptionHandler{
		prescriptionUsecase: prescriptionUsecase,
		validator:           validator,
	}
}

func (h *PrescriptionHandler) CreatePrescription(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	var req dto.CreatePrescriptionRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	prescription, err := h.prescriptionUsecase.CreatePrescription(r.Context(), principal, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Prescription created successfully", "prescription", prescription)
}

func (h *PrescriptionHandler) GetPetPrescriptions(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	petID, ok := pathUUID(w, r, "petId", "pet")
	if !ok {
		return
	}

	prescriptions, err := h.prescriptionUsecase.GetPetPrescriptions(r.Context(), principal, petID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Prescriptions retrieved successfully", "prescriptions", prescriptions)
}

func (h *PrescriptionHandler) GetPrescription(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	prescriptionID, ok := pathUUID(w, r, "id", "prescription")
	if !ok {
		return
	}

	prescription, err := h.prescriptionUsecase.GetPrescription(r.Context(), principal, prescriptionID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Prescription retrieved successfully", "prescription", prescription)
}

func (h *PrescriptionHandler) UpdatePrescription(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	prescriptionID, ok := pathUUID(w, r, "id", "prescription")
	if !ok {
		return
	}

	var req dto.UpdatePrescriptionRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	prescription, err := h.prescriptionUsecase.UpdatePrescription(r.Context(), principal, prescriptionID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Prescription updated successfully", "prescription", prescription)
}

// DeletePrescription soft deletes unless ?hard=true
func (h *PrescriptionHandler) DeletePrescription(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	prescriptionID, ok := pathUUID(w, r, "id", "prescription")
	if !ok {
		return
	}

	if err := h.prescriptionUsecase.DeletePrescription(r.Context(), principal, prescriptionID, queryBool(r, "hard")); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Prescription deleted successfully", "", nil)
}

// DownloadPDF streams the rendered prescription as application/pdf.
func (h *PrescriptionHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	prescriptionID, ok := pathUUID(w, r, "id", "prescription")
	if !ok {
		return
	}

	pdf, err := h.prescriptionUsecase.RenderPrescriptionPDF(r.Context(), principal, prescriptionID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pdf.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf.Content)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf.Content)
}
