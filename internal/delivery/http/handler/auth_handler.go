package handler

import (
	"net/http"

	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/delivery/http/middleware"
	"vetcare-backend/internal/usecase"
	"vetcare-backend/pkg/response"
	"vetcare-backend/pkg/validator"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
	}
}

// RegisterOwner handles pet owner registration
func (h *AuthHandler) RegisterOwner(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterOwnerRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	owner, err := h.authUsecase.RegisterOwner(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Owner registered successfully", "owner", owner)
}

// RegisterVeterinarian handles primary veterinarian registration
func (h *AuthHandler) RegisterVeterinarian(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterVeterinarianRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	vet, err := h.authUsecase.RegisterVeterinarian(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Veterinarian registered successfully", "veterinarian", vet)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	tokens, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Login successful", "tokens", tokens)
}

// Logout revokes the access token in use and, when provided, the refresh token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	tokenID, ok := middleware.GetTokenIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.LogoutRequest
	if !decodeAndValidate(w, r, h.validator, &req, true) {
		return
	}

	if err := h.authUsecase.Logout(r.Context(), principal, tokenID, req.RefreshToken); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Logout successful", "", nil)
}

func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	tokens, err := h.authUsecase.RefreshToken(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Token refreshed successfully", "tokens", tokens)
}

func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	user, err := h.authUsecase.GetCurrentUser(r.Context(), principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", "user", user)
}
