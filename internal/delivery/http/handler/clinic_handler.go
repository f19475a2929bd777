package handler

import (
	"net/http"

	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/usecase"
	"vetcare-backend/pkg/response"
	"vetcare-backend/pkg/validator"
)

const (
	defaultNearbyRadiusKm = 10
	defaultNearbyLimit    = 20
)

type ClinicHandler struct {
	clinicUsecase usecase.ClinicUsecase
	validator     *validator.CustomValidator
}

func NewClinicHandler(clinicUsecase usecase.ClinicUsecase, validator *validator.CustomValidator) *ClinicHandler {
	return &ClinicHandler{
		clinicUsecase: clinicUsecase,
		validator:     validator,
	}
}

func (h *ClinicHandler) CreateClinic(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	var req dto.CreateClinicRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	clinic, err := h.clinicUsecase.CreateClinic(r.Context(), principal, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Clinic created successfully", "clinic", clinic)
}

// GetAllClinics supports ?city=, ?search=, ?page= and ?limit=
func (h *ClinicHandler) GetAllClinics(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	page, err := queryInt(r, "page", 1)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid page", nil)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid limit", nil)
		return
	}

	query := r.URL.Query()
	result, err := h.clinicUsecase.GetAllClinics(r.Context(), principal, &dto.ListClinicsRequest{
		City:   query.Get("city"),
		Search: query.Get("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Clinics retrieved successfully", "clinics", result.Clinics,
		pageMeta(result.Page, result.Limit, result.Total))
}

// GetNearbyClinics expects ?lat= and ?lng=, with optional ?radius_km= and ?limit=
func (h *ClinicHandler) GetNearbyClinics(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("lat") == "" || r.URL.Query().Get("lng") == "" {
		response.Error(w, http.StatusBadRequest, "lat and lng are required", nil)
		return
	}

	var req dto.NearbyClinicsRequest
	var err error
	if req.Latitude, err = queryFloat(r, "lat", 0); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid lat", nil)
		return
	}
	if req.Longitude, err = queryFloat(r, "lng", 0); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid lng", nil)
		return
	}
	if req.RadiusKm, err = queryFloat(r, "radius_km", defaultNearbyRadiusKm); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid radius_km", nil)
		return
	}
	if req.Limit, err = queryInt(r, "limit", defaultNearbyLimit); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid limit", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	clinics, err := h.clinicUsecase.GetNearbyClinics(r.Context(), principal, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Clinics retrieved successfully", "clinics", clinics)
}

func (h *ClinicHandler) GetClinic(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	clinicID, ok := pathUUID(w, r, "id", "clinic")
	if !ok {
		return
	}

	clinic, err := h.clinicUsecase.GetClinic(r.Context(), principal, clinicID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Clinic retrieved successfully", "clinic", clinic)
}

func (h *ClinicHandler) UpdateClinic(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	clinicID, ok := pathUUID(w, r, "id", "clinic")
	if !ok {
		return
	}

	var req dto.UpdateClinicRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	clinic, err := h.clinicUsecase.UpdateClinic(r.Context(), principal, clinicID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Clinic updated successfully", "clinic", clinic)
}

func (h *ClinicHandler) DeleteClinic(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	clinicID, ok := pathUUID(w, r, "id", "clinic")
	if !ok {
		return
	}

	if err := h.clinicUsecase.DeleteClinic(r.Context(), principal, clinicID); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Clinic deleted successfully", "", nil)
}

func (h *ClinicHandler) GetStaff(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	clinicID, ok := pathUUID(w, r, "id", "clinic")
	if !ok {
		return
	}

	staff, err := h.clinicUsecase.GetStaff(r.Context(), principal, clinicID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Staff retrieved successfully", "staff", staff)
}

func (h *ClinicHandler) AddStaff(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	clinicID, ok := pathUUID(w, r, "id", "clinic")
	if !ok {
		return
	}

	var req dto.CreateStaffRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	staff, err := h.clinicUsecase.AddStaff(r.Context(), principal, clinicID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Staff added successfully", "staff", staff)
}

func (h *ClinicHandler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	clinicID, ok := pathUUID(w, r, "id", "clinic")
	if !ok {
		return
	}
	staffID, ok := pathUUID(w, r, "staffId", "staff")
	if !ok {
		return
	}

	var req dto.UpdateStaffRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	staff, err := h.clinicUsecase.UpdateStaff(r.Context(), principal, clinicID, staffID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Staff updated successfully", "staff", staff)
}

func (h *ClinicHandler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	clinicID, ok := pathUUID(w, r, "id", "clinic")
	if !ok {
		return
	}
	staffID, ok := pathUUID(w, r, "staffId", "staff")
	if !ok {
		return
	}

	if err := h.clinicUsecase.DeleteStaff(r.Context(), principal, clinicID, staffID); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Staff deleted successfully", "", nil)
}

// GetClinicPets lists pets registered with the clinic, filtered by ?status=
func (h *ClinicHandler) GetClinicPets(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	clinicID, ok := pathUUID(w, r, "id", "clinic")
	if !ok {
		return
	}

	pets, err := h.clinicUsecase.GetClinicPets(r.Context(), principal, clinicID, r.URL.Query().Get("status"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Pets retrieved successfully", "pets", pets)
}

func (h *ClinicHandler) GetClinicAppointments(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	clinicID, ok := pathUUID(w, r, "id", "clinic")
	if !ok {
		return
	}

	appointments, err := h.clinicUsecase.GetClinicAppointments(r.Context(), principal, clinicID, r.URL.Query().Get("status"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", "appointments", appointments)
}
