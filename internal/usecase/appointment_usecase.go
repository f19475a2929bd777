package usecase

import (
	"context"
	"errors"
	"time"

	"vetcare-backend/internal/converter"
	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/domain/entity"
	"vetcare-backend/internal/domain/repository"
	"vetcare-backend/internal/service"
	"vetcare-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const appointmentSlotIndex = "ux_appointments_vet_slot"

var (
	ErrAppointmentNotFound  = apperror.NotFound("appointment")
	ErrSlotConflict         = apperror.Conflict("the veterinarian already has an appointment at this time")
	ErrAppointmentInPast    = apperror.Validation("date_time must be in the future")
	ErrVetNotAffiliated     = apperror.Validation("veterinarian does not practice at this clinic")
	ErrVetUnavailable       = apperror.Validation("veterinarian is not accepting appointments")
	ErrInvalidAppointmentOp = apperror.Conflict("appointment cannot change from its current status")
)

type appointmentEvent struct {
	AppointmentID  uuid.UUID `json:"appointment_id"`
	PetID          uuid.UUID `json:"pet_id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	ClinicID       uuid.UUID `json:"clinic_id"`
	VeterinarianID uuid.UUID `json:"veterinarian_id"`
	DateTime       time.Time `json:"date_time"`
	Status         string    `json:"status"`
}

type AppointmentUsecase interface {
	BookAppointment(ctx context.Context, principal *entity.Principal, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	GetMyAppointments(ctx context.Context, principal *entity.Principal) ([]dto.AppointmentResponse, error)
	GetVetAppointments(ctx context.Context, principal *entity.Principal) ([]dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.AppointmentResponse, error)
	ConfirmAppointment(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error)
	RescheduleAppointment(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	CompleteAppointment(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	petRepo         repository.PetRepository
	clinicRepo      repository.ClinicRepository
	vetRepo         repository.VeterinarianRepository
	membershipRepo  repository.ClinicMembershipRepository
	authz           service.Authorizer
	auditService    service.AuditService
	publisher       service.EventPublisher
	slotLocker      service.SlotLocker
	metrics         *service.Metrics
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	petRepo repository.PetRepository,
	clinicRepo repository.ClinicRepository,
	vetRepo repository.VeterinarianRepository,
	membershipRepo repository.ClinicMembershipRepository,
	authz service.Authorizer,
	auditService service.AuditService,
	publisher service.EventPublisher,
	slotLocker service.SlotLocker,
	metrics *service.Metrics,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		petRepo:         petRepo,
		clinicRepo:      clinicRepo,
		vetRepo:         vetRepo,
		membershipRepo:  membershipRepo,
		authz:           authz,
		auditService:    auditService,
		publisher:       publisher,
		slotLocker:      slotLocker,
		metrics:         metrics,
	}
}

// BookAppointment reserves a vet's slot. The slot lock and pre-check give a clear conflict
// error; the partial unique index on (veterinarian_id, date_time) is the final guard.
func (u *appointmentUsecase) BookAppointment(ctx context.Context, principal *entity.Principal, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	if err := authorize(u.authz, principal, service.ResourceAppointment, service.ActionBook); err != nil {
		return nil, err
	}

	petID, err := parseID(req.PetID)
	if err != nil {
		return nil, err
	}
	clinicID, err := parseID(req.ClinicID)
	if err != nil {
		return nil, err
	}
	vetID, err := parseID(req.VeterinarianID)
	if err != nil {
		return nil, err
	}
	if !req.DateTime.After(time.Now()) {
		return nil, ErrAppointmentInPast
	}
	at := req.DateTime.UTC()

	release, err := u.lockSlot(ctx, vetID, at)
	if err != nil {
		return nil, err
	}
	defer release()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	pet, err := u.petRepo.FindByID(tx, petID)
	if err != nil {
		u.log.Warnf("Failed to find pet: %+v", err)
		return nil, apperror.Internal(err)
	}
	if pet == nil || pet.IsDeleted {
		return nil, ErrPetNotFound
	}
	if !principal.IsSelf(pet.OwnerID) {
		return nil, ErrForbidden
	}

	clinic, err := findActiveClinic(tx, u.log, u.clinicRepo, clinicID)
	if err != nil {
		return nil, err
	}

	vet, err := u.vetRepo.FindByID(tx, vetID)
	if err != nil {
		u.log.Warnf("Failed to find veterinarian: %+v", err)
		return nil, apperror.Internal(err)
	}
	if vet == nil || vet.Status == entity.VetStatusDeleted {
		return nil, ErrVeterinarianNotFound
	}
	if !vet.IsActive() {
		return nil, ErrVetUnavailable
	}
	affiliated, err := isAffiliated(tx, u.log, u.membershipRepo, clinic, vet.ID)
	if err != nil {
		return nil, err
	}
	if !affiliated {
		return nil, ErrVetNotAffiliated
	}

	if err := u.ensureSlotFree(tx, vet.ID, at, nil); err != nil {
		return nil, err
	}

	appointment := &entity.Appointment{
		PetID:          pet.ID,
		OwnerID:        pet.OwnerID,
		ClinicID:       clinic.ID,
		VeterinarianID: vet.ID,
		DateTime:       at,
		Reason:         req.Reason,
		Notes:          req.Notes,
		Fee:            clinic.ConsultationFee,
		Status:         entity.AppointmentBooked,
	}
	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if isDuplicateKeyError(err, appointmentSlotIndex) {
			u.metrics.SlotConflicts.Inc()
			return nil, ErrSlotConflict
		}
		if isForeignKeyError(err, "appointments_veterinarian_id_fkey") {
			return nil, ErrVeterinarianNotFound
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, apperror.Internal(err)
	}
	appointment.Pet = pet
	appointment.Clinic = clinic
	appointment.Veterinarian = vet

	response := converter.AppointmentToResponse(appointment)
	if err := u.auditService.LogCreate(ctx, tx, principal, &clinic.ID, entity.AuditActionAppointmentBook, "appointment", appointment.ID.String(), response); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		if isDuplicateKeyError(err, appointmentSlotIndex) {
			u.metrics.SlotConflicts.Inc()
			return nil, ErrSlotConflict
		}
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}

	u.metrics.AppointmentsBooked.Inc()
	publishEvent(ctx, u.log, u.publisher, service.EventAppointmentBooked, toAppointmentEvent(appointment))
	return response, nil
}

func (u *appointmentUsecase) GetMyAppointments(ctx context.Context, principal *entity.Principal) ([]dto.AppointmentResponse, error) {
	if !principal.IsOwner() {
		return nil, ErrForbidden
	}

	appointments, err := u.appointmentRepo.FindByOwner(u.db.WithContext(ctx), principal.ID)
	if err != nil {
		u.log.Warnf("Failed to find owner appointments: %+v", err)
		return nil, apperror.Internal(err)
	}
	return converter.AppointmentsToResponses(appointments), nil
}

func (u *appointmentUsecase) GetVetAppointments(ctx context.Context, principal *entity.Principal) ([]dto.AppointmentResponse, error) {
	if !principal.IsVet() {
		return nil, ErrForbidden
	}

	appointments, err := u.appointmentRepo.FindByVeterinarian(u.db.WithContext(ctx), principal.ID)
	if err != nil {
		u.log.Warnf("Failed to find veterinarian appointments: %+v", err)
		return nil, apperror.Internal(err)
	}
	return converter.AppointmentsToResponses(appointments), nil
}

// GetAppointment is visible to the pet owner, the assigned vet and vets acting for the clinic.
func (u *appointmentUsecase) GetAppointment(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.AppointmentResponse, error) {
	if err := authorize(u.authz, principal, service.ResourceAppointment, service.ActionRead); err != nil {
		return nil, err
	}

	appointment, err := u.findAppointment(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if !principal.IsSelf(appointment.OwnerID) && !isAssignedVet(principal, appointment) && !principal.CanActForClinic(appointment.ClinicID) {
		return nil, ErrForbidden
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) ConfirmAppointment(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, principal, id, service.ActionConfirm, entity.AuditActionAppointmentConfirm, service.EventAppointmentConfirmed,
		func(a *entity.Appointment) bool {
			return isAssignedVet(principal, a) || principal.CanActForClinic(a.ClinicID)
		},
		func(tx *gorm.DB, a *entity.Appointment) error {
			return a.Confirm()
		})
}

func (u *appointmentUsecase) CancelAppointment(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, principal, id, service.ActionCancel, entity.AuditActionAppointmentCancel, service.EventAppointmentCanceled,
		func(a *entity.Appointment) bool {
			return principal.IsSelf(a.OwnerID) || isAssignedVet(principal, a)
		},
		func(tx *gorm.DB, a *entity.Appointment) error {
			return a.Cancel(req.Reason, principal.ID)
		})
}

// RescheduleAppointment conflict-checks the new slot, excluding the appointment itself.
func (u *appointmentUsecase) RescheduleAppointment(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	if !req.DateTime.After(time.Now()) {
		return nil, ErrAppointmentInPast
	}
	at := req.DateTime.UTC()

	// The lock is held until transition commits.
	release := func() {}
	defer func() { release() }()

	return u.transition(ctx, principal, id, service.ActionReschedule, entity.AuditActionAppointmentMove, service.EventAppointmentRescheduled,
		func(a *entity.Appointment) bool {
			return principal.IsSelf(a.OwnerID) || isAssignedVet(principal, a)
		},
		func(tx *gorm.DB, a *entity.Appointment) error {
			if a.Status.IsTerminal() {
				return entity.ErrInvalidTransition
			}
			unlock, err := u.lockSlot(ctx, a.VeterinarianID, at)
			if err != nil {
				return err
			}
			release = unlock
			if err := u.ensureSlotFree(tx, a.VeterinarianID, at, &a.ID); err != nil {
				return err
			}
			return a.Reschedule(at)
		})
}

func (u *appointmentUsecase) CompleteAppointment(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, principal, id, service.ActionComplete, entity.AuditActionAppointmentComplete, service.EventAppointmentCompleted,
		func(a *entity.Appointment) bool {
			return isAssignedVet(principal, a)
		},
		func(tx *gorm.DB, a *entity.Appointment) error {
			return a.Complete()
		})
}

// transition loads the appointment, checks the caller with allowed, applies change and
// records the result. Errors from change other than an invalid transition pass through.
func (u *appointmentUsecase) transition(
	ctx context.Context,
	principal *entity.Principal,
	id uuid.UUID,
	capability, auditAction, event string,
	allowed func(*entity.Appointment) bool,
	change func(*gorm.DB, *entity.Appointment) error,
) (*dto.AppointmentResponse, error) {
	if err := authorize(u.authz, principal, service.ResourceAppointment, capability); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.findAppointment(tx, id)
	if err != nil {
		return nil, err
	}
	if !allowed(appointment) {
		return nil, ErrForbidden
	}

	before := converter.AppointmentToResponse(appointment)
	if err := change(tx, appointment); err != nil {
		if errors.Is(err, entity.ErrInvalidTransition) {
			return nil, ErrInvalidAppointmentOp
		}
		return nil, err
	}

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		if isDuplicateKeyError(err, appointmentSlotIndex) {
			u.metrics.SlotConflicts.Inc()
			return nil, ErrSlotConflict
		}
		u.log.Warnf("Failed to update appointment: %+v", err)
		return nil, apperror.Internal(err)
	}

	after := converter.AppointmentToResponse(appointment)
	if err := u.auditService.LogUpdate(ctx, tx, principal, &appointment.ClinicID, auditAction, "appointment", appointment.ID.String(), before, after); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}

	publishEvent(ctx, u.log, u.publisher, event, toAppointmentEvent(appointment))
	return after, nil
}

func (u *appointmentUsecase) lockSlot(ctx context.Context, vetID uuid.UUID, at time.Time) (func(), error) {
	release, err := u.slotLocker.Acquire(ctx, vetID, at)
	if err != nil {
		if errors.Is(err, service.ErrSlotLocked) {
			u.metrics.SlotConflicts.Inc()
			return nil, ErrSlotConflict
		}
		u.log.Warnf("Failed to lock appointment slot: %+v", err)
		return nil, apperror.Internal(err)
	}
	return release, nil
}

func (u *appointmentUsecase) ensureSlotFree(db *gorm.DB, vetID uuid.UUID, at time.Time, excludeID *uuid.UUID) error {
	existing, err := u.appointmentRepo.FindActiveBySlot(db, vetID, at, excludeID)
	if err != nil {
		u.log.Warnf("Failed to check appointment slot: %+v", err)
		return apperror.Internal(err)
	}
	if existing != nil {
		u.metrics.SlotConflicts.Inc()
		return ErrSlotConflict
	}
	return nil
}

func (u *appointmentUsecase) findAppointment(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, apperror.Internal(err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

func isAssignedVet(principal *entity.Principal, appointment *entity.Appointment) bool {
	return principal.IsVet() && principal.ID == appointment.VeterinarianID
}

func toAppointmentEvent(a *entity.Appointment) appointmentEvent {
	return appointmentEvent{
		AppointmentID:  a.ID,
		PetID:          a.PetID,
		OwnerID:        a.OwnerID,
		ClinicID:       a.ClinicID,
		VeterinarianID: a.VeterinarianID,
		DateTime:       a.DateTime,
		Status:         string(a.Status),
	}
}
