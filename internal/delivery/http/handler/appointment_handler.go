package handler

import (
	"context"
	"net/http"

	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/domain/entity"
	"vetcare-backend/internal/usecase"
	"vetcare-backend/pkg/response"
	"vetcare-backend/pkg/validator"

	"github.com/google/uuid"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	var req dto.BookAppointmentRequest
	if !decodeAndValidate(w, r, h.validator, &req, false) {
		return
	}

	appointment, err := h.appointmentUsecase.BookAppointment(r.Context(), principal, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", "appointment", appointment)
}

func (h *AppointmentHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	appointments, err := h.appointmentUsecase.GetMyAppointments(r.Context(), principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", "appointments", appointments)
}

func (h *AppointmentHandler) GetVetAppointments(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	appointments, err := h.appointmentUsecase.GetVetAppointments(r.Context(), principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", "appointments", appointments)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), principal, appointmentID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", "appointment", appointment)
}

func (h *AppointmentHandler) ConfirmAppointment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Appointment confirmed", func(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.AppointmentResponse, error) {
		return h.appointmentUsecase.ConfirmAppointment(ctx, principal, id)
	})
}

func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CancelAppointmentRequest
	h.transitionWithBody(w, r, &req, true, "Appointment canceled", func(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.AppointmentResponse, error) {
		return h.appointmentUsecase.CancelAppointment(ctx, principal, id, &req)
	})
}

func (h *AppointmentHandler) RescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.RescheduleAppointmentRequest
	h.transitionWithBody(w, r, &req, false, "Appointment rescheduled", func(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.AppointmentResponse, error) {
		return h.appointmentUsecase.RescheduleAppointment(ctx, principal, id, &req)
	})
}

func (h *AppointmentHandler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Appointment completed", func(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.AppointmentResponse, error) {
		return h.appointmentUsecase.CompleteAppointment(ctx, principal, id)
	})
}

type appointmentAction func(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.AppointmentResponse, error)

func (h *AppointmentHandler) transitionWithBody(w http.ResponseWriter, r *http.Request, req interface{}, optional bool, message string, action appointmentAction) {
	if _, ok := currentPrincipal(w, r); !ok {
		return
	}
	if _, ok := pathUUID(w, r, "id", "appointment"); !ok {
		return
	}
	if !decodeAndValidate(w, r, h.validator, req, optional) {
		return
	}
	h.transition(w, r, message, action)
}

func (h *AppointmentHandler) transition(w http.ResponseWriter, r *http.Request, message string, action appointmentAction) {
	principal, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := action(r.Context(), principal, appointmentID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, message, "appointment", appointment)
}
