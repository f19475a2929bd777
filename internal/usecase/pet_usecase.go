package usecase

import (
	"context"
	"time"

	"vetcare-backend/internal/converter"
	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/domain/entity"
	"vetcare-backend/internal/domain/repository"
	"vetcare-backend/internal/service"
	"vetcare-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPetNotFound         = apperror.NotFound("pet")
	ErrPetDeleted          = apperror.Conflict("pet has been deleted")
	ErrPetAlreadySubmitted = apperror.Conflict("pet is already registered with a clinic")
	ErrPetNotPending       = apperror.Conflict("pet registration is not pending")
	ErrInvalidBirthDate    = apperror.Validation("birth_date must be a past date in YYYY-MM-DD format")
	ErrNegativeWeight      = apperror.Validation("weight must be positive")
)

type petRegistrationEvent struct {
	PetID    uuid.UUID `json:"pet_id"`
	OwnerID  uuid.UUID `json:"owner_id"`
	ClinicID uuid.UUID `json:"clinic_id"`
	Status   string    `json:"status"`
	Reason   string    `json:"reason,omitempty"`
}

type PetUsecase interface {
	CreatePet(ctx context.Context, principal *entity.Principal, req *dto.CreatePetRequest) (*dto.PetResponse, error)
	GetMyPets(ctx context.Context, principal *entity.Principal) ([]dto.PetResponse, error)
	GetPet(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.PetResponse, error)
	UpdatePet(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.UpdatePetRequest) (*dto.PetResponse, error)
	DeletePet(ctx context.Context, principal *entity.Principal, id uuid.UUID) error
	RegisterClinic(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.RegisterPetClinicRequest) (*dto.PetResponse, error)
	ApprovePet(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.PetResponse, error)
	RejectPet(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.RejectPetRequest) (*dto.PetResponse, error)
}

type petUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	petRepo      repository.PetRepository
	clinicRepo   repository.ClinicRepository
	authz        service.Authorizer
	auditService service.AuditService
	publisher    service.EventPublisher
}

func NewPetUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	petRepo repository.PetRepository,
	clinicRepo repository.ClinicRepository,
	authz service.Authorizer,
	auditService service.AuditService,
	publisher service.EventPublisher,
) PetUsecase {
	return &petUsecase{
		db:           db,
		log:          log,
		petRepo:      petRepo,
		clinicRepo:   clinicRepo,
		authz:        authz,
		auditService: auditService,
		publisher:    publisher,
	}
}

func (u *petUsecase) CreatePet(ctx context.Context, principal *entity.Principal, req *dto.CreatePetRequest) (*dto.PetResponse, error) {
	if err := authorize(u.authz, principal, service.ResourcePet, service.ActionCreate); err != nil {
		return nil, err
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}
	weight, err := parseWeight(req.Weight)
	if err != nil {
		return nil, err
	}

	pet := &entity.Pet{
		OwnerID:   principal.ID,
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		Sex:       req.Sex,
		BirthDate: birthDate,
		Weight:    weight,
		Microchip: req.Microchip,
		Notes:     req.Notes,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.petRepo.Create(tx, pet); err != nil {
		u.log.Warnf("Failed to create pet: %+v", err)
		return nil, apperror.Internal(err)
	}

	response := converter.PetToResponse(pet)
	if err := u.auditService.LogCreate(ctx, tx, principal, nil, entity.AuditActionPetCreate, "pet", pet.ID.String(), response); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}

	return response, nil
}

func (u *petUsecase) GetMyPets(ctx context.Context, principal *entity.Principal) ([]dto.PetResponse, error) {
	if !principal.IsOwner() {
		return nil, ErrForbidden
	}

	pets, err := u.petRepo.FindByOwner(u.db.WithContext(ctx), principal.ID)
	if err != nil {
		u.log.Warnf("Failed to find pets: %+v", err)
		return nil, apperror.Internal(err)
	}
	return converter.PetsToResponses(pets), nil
}

// GetPet also returns soft-deleted pets so history stays reachable.
func (u *petUsecase) GetPet(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.PetResponse, error) {
	if err := authorize(u.authz, principal, service.ResourcePet, service.ActionRead); err != nil {
		return nil, err
	}

	pet, err := findAccessiblePet(u.db.WithContext(ctx), u.log, u.petRepo, principal, id)
	if err != nil {
		return nil, err
	}
	return converter.PetToResponse(pet), nil
}

func (u *petUsecase) UpdatePet(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.UpdatePetRequest) (*dto.PetResponse, error) {
	if err := authorize(u.authz, principal, service.ResourcePet, service.ActionUpdate); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	pet, err := u.findOwnPet(tx, principal, id)
	if err != nil {
		return nil, err
	}
	before := converter.PetToResponse(pet)

	if req.Name != nil {
		pet.Name = *req.Name
	}
	if req.Species != nil {
		pet.Species = *req.Species
	}
	if req.Breed != nil {
		pet.Breed = *req.Breed
	}
	if req.Sex != nil {
		pet.Sex = *req.Sex
	}
	if req.BirthDate != nil {
		birthDate, err := parseBirthDate(*req.BirthDate)
		if err != nil {
			return nil, err
		}
		pet.BirthDate = birthDate
	}
	if req.Weight != nil {
		weight, err := parseWeight(req.Weight)
		if err != nil {
			return nil, err
		}
		pet.Weight = weight
	}
	if req.Microchip != nil {
		pet.Microchip = *req.Microchip
	}
	if req.Notes != nil {
		pet.Notes = *req.Notes
	}

	if err := u.petRepo.Update(tx, pet); err != nil {
		u.log.Warnf("Failed to update pet: %+v", err)
		return nil, apperror.Internal(err)
	}

	after := converter.PetToResponse(pet)
	if err := u.auditService.LogUpdate(ctx, tx, principal, pet.RegisteredClinicID, entity.AuditActionPetUpdate, "pet", pet.ID.String(), before, after); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}

	return after, nil
}

func (u *petUsecase) DeletePet(ctx context.Context, principal *entity.Principal, id uuid.UUID) error {
	if err := authorize(u.authz, principal, service.ResourcePet, service.ActionDelete); err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	pet, err := u.findOwnPet(tx, principal, id)
	if err != nil {
		return err
	}
	before := converter.PetToResponse(pet)

	pet.SoftDelete(time.Now())
	if err := u.petRepo.Update(tx, pet); err != nil {
		u.log.Warnf("Failed to delete pet: %+v", err)
		return apperror.Internal(err)
	}

	if err := u.auditService.LogDelete(ctx, tx, principal, pet.RegisteredClinicID, entity.AuditActionPetDelete, "pet", pet.ID.String(), before); err != nil {
		return apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return apperror.Internal(err)
	}
	return nil
}

// RegisterClinic submits an unregistered pet to a clinic for approval.
func (u *petUsecase) RegisterClinic(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.RegisterPetClinicRequest) (*dto.PetResponse, error) {
	if err := authorize(u.authz, principal, service.ResourcePet, service.ActionRegisterClinic); err != nil {
		return nil, err
	}

	clinicID, err := parseID(req.ClinicID)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	pet, err := u.findOwnPet(tx, principal, id)
	if err != nil {
		return nil, err
	}

	if _, err := findActiveClinic(tx, u.log, u.clinicRepo, clinicID); err != nil {
		return nil, err
	}

	before := converter.PetToResponse(pet)
	if err := pet.RequestRegistration(clinicID); err != nil {
		return nil, ErrPetAlreadySubmitted
	}

	if err := u.petRepo.Update(tx, pet); err != nil {
		u.log.Warnf("Failed to register pet with clinic: %+v", err)
		return nil, apperror.Internal(err)
	}

	after := converter.PetToResponse(pet)
	if err := u.auditService.LogUpdate(ctx, tx, principal, &clinicID, entity.AuditActionPetRegisterClinic, "pet", pet.ID.String(), before, after); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}

	publishEvent(ctx, u.log, u.publisher, service.EventPetRegistrationRequest, registrationEvent(pet))
	return after, nil
}

func (u *petUsecase) ApprovePet(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.PetResponse, error) {
	return u.decide(ctx, principal, id, entity.AuditActionPetApprove, service.EventPetApproved, func(pet *entity.Pet) error {
		return pet.Approve()
	})
}

func (u *petUsecase) RejectPet(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.RejectPetRequest) (*dto.PetResponse, error) {
	return u.decide(ctx, principal, id, entity.AuditActionPetReject, service.EventPetRejected, func(pet *entity.Pet) error {
		return pet.Reject(req.Reason)
	})
}

// decide applies a pending-registration transition on behalf of a vet of the
// pet's registered clinic.
func (u *petUsecase) decide(ctx context.Context, principal *entity.Principal, id uuid.UUID, action, event string, transition func(*entity.Pet) error) (*dto.PetResponse, error) {
	if err := authorize(u.authz, principal, service.ResourcePet, service.ActionApprove); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	pet, err := u.petRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find pet: %+v", err)
		return nil, apperror.Internal(err)
	}
	if pet == nil || pet.IsDeleted {
		return nil, ErrPetNotFound
	}
	if pet.RegisteredClinicID == nil || !principal.CanActForClinic(*pet.RegisteredClinicID) {
		return nil, ErrForbidden
	}

	before := converter.PetToResponse(pet)
	if err := transition(pet); err != nil {
		return nil, ErrPetNotPending
	}

	if err := u.petRepo.Update(tx, pet); err != nil {
		u.log.Warnf("Failed to update pet registration: %+v", err)
		return nil, apperror.Internal(err)
	}

	after := converter.PetToResponse(pet)
	if err := u.auditService.LogUpdate(ctx, tx, principal, pet.RegisteredClinicID, action, "pet", pet.ID.String(), before, after); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}

	publishEvent(ctx, u.log, u.publisher, event, registrationEvent(pet))
	return after, nil
}

// findOwnPet returns a live pet of the owner principal.
func (u *petUsecase) findOwnPet(db *gorm.DB, principal *entity.Principal, id uuid.UUID) (*entity.Pet, error) {
	pet, err := u.petRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find pet: %+v", err)
		return nil, apperror.Internal(err)
	}
	if pet == nil {
		return nil, ErrPetNotFound
	}
	if !principal.IsSelf(pet.OwnerID) {
		return nil, ErrForbidden
	}
	if pet.IsDeleted {
		return nil, ErrPetDeleted
	}
	return pet, nil
}

// findAccessiblePet returns the pet when the principal is its owner or a vet acting
// for its registered clinic. Soft-deleted pets are returned.
func findAccessiblePet(db *gorm.DB, log *logrus.Logger, petRepo repository.PetRepository, principal *entity.Principal, id uuid.UUID) (*entity.Pet, error) {
	pet, err := petRepo.FindByID(db, id)
	if err != nil {
		log.Warnf("Failed to find pet: %+v", err)
		return nil, apperror.Internal(err)
	}
	if pet == nil {
		return nil, ErrPetNotFound
	}
	if !canAccessPet(principal, pet) {
		return nil, ErrForbidden
	}
	return pet, nil
}

func canAccessPet(principal *entity.Principal, pet *entity.Pet) bool {
	if principal.IsSelf(pet.OwnerID) {
		return true
	}
	return pet.RegisteredClinicID != nil && principal.CanActForClinic(*pet.RegisteredClinicID)
}

func registrationEvent(pet *entity.Pet) petRegistrationEvent {
	event := petRegistrationEvent{
		PetID:   pet.ID,
		OwnerID: pet.OwnerID,
		Status:  string(pet.RegistrationStatus),
		Reason:  pet.RejectionReason,
	}
	if pet.RegisteredClinicID != nil {
		event.ClinicID = *pet.RegisteredClinicID
	}
	return event
}

func parseBirthDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	birthDate, err := time.Parse("2006-01-02", raw)
	if err != nil || birthDate.After(time.Now()) {
		return nil, ErrInvalidBirthDate
	}
	return &birthDate, nil
}

func parseWeight(weight *decimal.Decimal) (decimal.NullDecimal, error) {
	if weight == nil {
		return decimal.NullDecimal{}, nil
	}
	if !weight.IsPositive() {
		return decimal.NullDecimal{}, ErrNegativeWeight
	}
	return decimal.NewNullDecimal(*weight), nil
}
