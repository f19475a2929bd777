package handler

import (
	"net/http"

	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/usecase"
	"vetcare-backend/pkg/response"
	"vetcare-backend/pkg/validator"
)

type OwnerHandler struct {
	ownerUsecase usecase.OwnerUsecase
	validator    *validator.CustomValidator
}

func NewOwnerHandler(ownerUsecase usecase.OwnerUsecase, validator *validator.CustomValidator) *OwnerHandler {
	return &OwnerHandler{
		ownerUsecase: ownerUsecase,
		validator:    validator,
	}
}

func (h *OwnerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	owner, err := h.ownerUsecase.GetProfile(r.Context(), principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Profile retrieved successfully", "owner", owner)
}

func (h *OwnerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	var req dto.UpdateOwnerRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	owner, err := h.ownerUsecase.UpdateProfile(r.Context(), principal, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", "owner", owner)
}

// DeleteAccount soft deletes the owner and signs them out everywhere.
func (h *OwnerHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	if err := h.ownerUsecase.DeleteAccount(r.Context(), principal); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Account deleted successfully", "", nil)
}
