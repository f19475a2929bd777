package handler

import (
	"net/http"

	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/usecase"
	"vetcare-backend/pkg/response"
	"vetcare-backend/pkg/validator"
)

type VeterinarianHandler struct {
	vetUsecase usecase.VeterinarianUsecase
	validator  *validator.CustomValidator
}

func NewVeterinarianHandler(vetUsecase usecase.VeterinarianUsecase, validator *validator.CustomValidator) *VeterinarianHandler {
	return &VeterinarianHandler{
		vetUsecase: vetUsecase,
		validator:  validator,
	}
}

func (h *VeterinarianHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	vet, err := h.vetUsecase.GetProfile(r.Context(), principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Profile retrieved successfully", "veterinarian", vet)
}

func (h *VeterinarianHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	var req dto.UpdateVeterinarianRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	vet, err := h.vetUsecase.UpdateProfile(r.Context(), principal, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", "veterinarian", vet)
}

func (h *VeterinarianHandler) SwitchActiveClinic(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	var req dto.SwitchActiveClinicRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	vet, err := h.vetUsecase.SwitchActiveClinic(r.Context(), principal, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Active clinic switched successfully", "veterinarian", vet)
}

func (h *VeterinarianHandler) GetMyClinics(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	clinics, err := h.vetUsecase.GetMyClinics(r.Context(), principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Clinics retrieved successfully", "clinics", clinics)
}

func (h *VeterinarianHandler) GetVeterinarian(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	vetID, ok := pathUUID(w, r, "id", "veterinarian")
	if !ok {
		return
	}

	vet, err := h.vetUsecase.GetVeterinarian(r.Context(), principal, vetID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Veterinarian retrieved successfully", "veterinarian", vet)
}

func (h *VeterinarianHandler) UpdateAccessLevel(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	vetID, ok := pathUUID(w, r, "id", "veterinarian")
	if !ok {
		return
	}

	var req dto.UpdateAccessLevelRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	vet, err := h.vetUsecase.UpdateAccessLevel(r.Context(), principal, vetID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Access level updated successfully", "veterinarian", vet)
}

func (h *VeterinarianHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	vetID, ok := pathUUID(w, r, "id", "veterinarian")
	if !ok {
		return
	}

	var req dto.UpdateVetStatusRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	vet, err := h.vetUsecase.UpdateStatus(r.Context(), principal, vetID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Status updated successfully", "veterinarian", vet)
}
