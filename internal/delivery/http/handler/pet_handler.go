package handler

import (
	"net/http"

	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/usecase"
	"vetcare-backend/pkg/response"
	"vetcare-backend/pkg/validator"
)

type PetHandler struct {
	petUsecase usecase.PetUsecase
	validator  *validator.CustomValidator
}

func NewPetHandler(petUsecase usecase.PetUsecase, validator *validator.CustomValidator) *PetHandler {
	return &PetHandler{
		petUsecase: petUsecase,
		validator:  validator,
	}
}

func (h *PetHandler) CreatePet(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	var req dto.CreatePetRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	pet, err := h.petUsecase.CreatePet(r.Context(), principal, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Pet created successfully", "pet", pet)
}

func (h *PetHandler) GetMyPets(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	pets, err := h.petUsecase.GetMyPets(r.Context(), principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Pets retrieved successfully", "pets", pets)
}

func (h *PetHandler) GetPet(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	petID, ok := pathUUID(w, r, "id", "pet")
	if !ok {
		return
	}

	pet, err := h.petUsecase.GetPet(r.Context(), principal, petID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Pet retrieved successfully", "pet", pet)
}

func (h *PetHandler) UpdatePet(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	petID, ok := pathUUID(w, r, "id", "pet")
	if !ok {
		return
	}

	var req dto.UpdatePetRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	pet, err := h.petUsecase.UpdatePet(r.Context(), principal, petID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Pet updated successfully", "pet", pet)
}

func (h *PetHandler) DeletePet(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	petID, ok := pathUUID(w, r, "id", "pet")
	if !ok {
		return
	}

	if err := h.petUsecase.DeletePet(r.Context(), principal, petID); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Pet deleted successfully", "", nil)
}

func (h *PetHandler) RegisterClinic(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	petID, ok := pathUUID(w, r, "id", "pet")
	if !ok {
		return
	}

	var req dto.RegisterPetClinicRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	pet, err := h.petUsecase.RegisterClinic(r.Context(), principal, petID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Clinic registration submitted", "pet", pet)
}

func (h *PetHandler) ApprovePet(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	petID, ok := pathUUID(w, r, "id", "pet")
	if !ok {
		return
	}

	pet, err := h.petUsecase.ApprovePet(r.Context(), principal, petID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Pet registration approved", "pet", pet)
}

func (h *PetHandler) RejectPet(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	petID, ok := pathUUID(w, r, "id", "pet")
	if !ok {
		return
	}

	var req dto.RejectPetRequest
	if !decodeAndValidate(w, r, h.validator, &req, true) {
		return
	}

	pet, err := h.petUsecase.RejectPet(r.Context(), principal, petID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Pet registration rejected", "pet", pet)
}
