package converter

import (
	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// Names are filled from relations when they are preloaded.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:             appointment.ID,
		PetID:          appointment.PetID,
		OwnerID:        appointment.OwnerID,
		ClinicID:       appointment.ClinicID,
		VeterinarianID: appointment.VeterinarianID,
		DateTime:       appointment.DateTime,
		Reason:         appointment.Reason,
		Notes:          appointment.Notes,
		Fee:            appointment.Fee,
		Status:         string(appointment.Status),
		CancelReason:   appointment.CancelReason,
		CanceledBy:     appointment.CanceledBy,
		CreatedAt:      appointment.CreatedAt,
		UpdatedAt:      appointment.UpdatedAt,
	}

	if appointment.Pet != nil {
		response.PetName = appointment.Pet.Name
	}
	if appointment.Clinic != nil {
		response.ClinicName = appointment.Clinic.Name
	}
	if appointment.Veterinarian != nil {
		response.VeterinarianName = appointment.Veterinarian.FullName
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
