package usecase

import (
	"context"

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

var (
	ErrVeterinarianNotFound = apperror.NotFound("veterinarian")
	ErrNotClinicMember      = apperror.Forbidden("veterinarian is not affiliated with this clinic")
	ErrCannotManageSelf     = apperror.Forbidden("you cannot change your own access level or status")
	ErrCannotManagePrimary  = apperror.Forbidden("a primary veterinarian cannot be changed by another veterinarian")
)

type VeterinarianUsecase interface {
	GetProfile(ctx context.Context, principal *entity.Principal) (*dto.VeterinarianResponse, error)
	UpdateProfile(ctx context.Context, principal *entity.Principal, req *dto.UpdateVeterinarianRequest) (*dto.VeterinarianResponse, error)
	SwitchActiveClinic(ctx context.Context, principal *entity.Principal, req *dto.SwitchActiveClinicRequest) (*dto.VeterinarianResponse, error)
	GetMyClinics(ctx context.Context, principal *entity.Principal) ([]dto.ClinicResponse, error)
	GetVeterinarian(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.VeterinarianResponse, error)
	UpdateAccessLevel(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.UpdateAccessLevelRequest) (*dto.VeterinarianResponse, error)
	UpdateStatus(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.UpdateVetStatusRequest) (*dto.VeterinarianResponse, error)
}

type veterinarianUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	vetRepo        repository.VeterinarianRepository
	membershipRepo repository.ClinicMembershipRepository
	clinicRepo     repository.ClinicRepository
	authz          service.Authorizer
	auditService   service.AuditService
	tokens         service.TokenStore
}

func NewVeterinarianUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	vetRepo repository.VeterinarianRepository,
	membershipRepo repository.ClinicMembershipRepository,
	clinicRepo repository.ClinicRepository,
	authz service.Authorizer,
	auditService service.AuditService,
	tokens service.TokenStore,
) VeterinarianUsecase {
	return &veterinarianUsecase{
		db:             db,
		log:            log,
		vetRepo:        vetRepo,
		membershipRepo: membershipRepo,
		clinicRepo:     clinicRepo,
		authz:          authz,
		auditService:   auditService,
		tokens:         tokens,
	}
}

func (u *veterinarianUsecase) GetProfile(ctx context.Context, principal *entity.Principal) (*dto.VeterinarianResponse, error) {
	if !principal.IsVet() {
		return nil, ErrForbidden
	}

	vet, err := u.findVet(u.db.WithContext(ctx), principal.ID)
	if err != nil {
		return nil, err
	}
	return converter.VeterinarianToResponse(vet), nil
}

func (u *veterinarianUsecase) UpdateProfile(ctx context.Context, principal *entity.Principal, req *dto.UpdateVeterinarianRequest) (*dto.VeterinarianResponse, error) {
	if !principal.IsVet() {
		return nil, ErrForbidden
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	vet, err := u.findVet(tx, principal.ID)
	if err != nil {
		return nil, err
	}
	before := converter.VeterinarianToResponse(vet)

	if req.FullName != nil {
		vet.FullName = *req.FullName
	}
	if req.Phone != nil {
		vet.Phone = *req.Phone
	}
	if req.Specialization != nil {
		vet.Specialization = *req.Specialization
	}

	if err := u.vetRepo.Update(tx, vet); err != nil {
		u.log.Warnf("Failed to update veterinarian: %+v", err)
		return nil, apperror.Internal(err)
	}

	after := converter.VeterinarianToResponse(vet)
	if err := u.auditService.LogUpdate(ctx, tx, principal, principal.ClinicID, entity.AuditActionVetUpdate, "veterinarian", vet.ID.String(), before, after); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}

	return after, nil
}

// SwitchActiveClinic moves the vet to one of its member or owned clinics.
func (u *veterinarianUsecase) SwitchActiveClinic(ctx context.Context, principal *entity.Principal, req *dto.SwitchActiveClinicRequest) (*dto.VeterinarianResponse, error) {
	if !principal.IsVet() {
		return nil, ErrForbidden
	}

	clinicID, err := parseID(req.ClinicID)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	clinic, err := findActiveClinic(tx, u.log, u.clinicRepo, clinicID)
	if err != nil {
		return nil, err
	}

	vet, err := u.findVet(tx, principal.ID)
	if err != nil {
		return nil, err
	}

	affiliated, err := isAffiliated(tx, u.log, u.membershipRepo, clinic, vet.ID)
	if err != nil {
		return nil, err
	}
	if !affiliated {
		return nil, ErrNotClinicMember
	}

	before := converter.VeterinarianToResponse(vet)
	vet.CurrentActiveClinicID = &clinic.ID
	if err := u.vetRepo.Update(tx, vet); err != nil {
		u.log.Warnf("Failed to switch active clinic: %+v", err)
		return nil, apperror.Internal(err)
	}

	after := converter.VeterinarianToResponse(vet)
	if err := u.auditService.LogUpdate(ctx, tx, principal, &clinic.ID, entity.AuditActionVetSwitchClinic, "veterinarian", vet.ID.String(), before, after); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}

	return after, nil
}

func (u *veterinarianUsecase) GetMyClinics(ctx context.Context, principal *entity.Principal) ([]dto.ClinicResponse, error) {
	if !principal.IsVet() {
		return nil, ErrForbidden
	}

	db := u.db.WithContext(ctx)
	memberOf, err := u.membershipRepo.FindClinicIDsByVet(db, principal.ID)
	if err != nil {
		u.log.Warnf("Failed to find clinic memberships: %+v", err)
		return nil, apperror.Internal(err)
	}

	ids := append(memberOf, principal.OwnedClinics...)
	clinics, err := u.clinicRepo.FindByIDs(db, ids)
	if err != nil {
		u.log.Warnf("Failed to find clinics: %+v", err)
		return nil, apperror.Internal(err)
	}

	return converter.ClinicsToResponses(clinics), nil
}

func (u *veterinarianUsecase) GetVeterinarian(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.VeterinarianResponse, error) {
	if err := authorize(u.authz, principal, service.ResourceVet, service.ActionRead); err != nil {
		return nil, err
	}

	vet, err := u.findVet(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if vet.Status == entity.VetStatusDeleted {
		return nil, ErrVeterinarianNotFound
	}
	return converter.VeterinarianToResponse(vet), nil
}

func (u *veterinarianUsecase) UpdateAccessLevel(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.UpdateAccessLevelRequest) (*dto.VeterinarianResponse, error) {
	level := entity.AccessLevel(req.AccessLevel)
	if level != entity.AccessLevelFullAccess && level != entity.AccessLevelNormalAccess {
		return nil, apperror.Validation("access_level must be one of: full_access, normal_access")
	}

	return u.manage(ctx, principal, id, entity.AuditActionVetAccessLevel, func(vet *entity.Veterinarian) {
		vet.AccessLevel = level
	})
}

// UpdateStatus revokes the vet's sessions when it leaves the active status.
func (u *veterinarianUsecase) UpdateStatus(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.UpdateVetStatusRequest) (*dto.VeterinarianResponse, error) {
	status := entity.VetStatus(req.Status)
	if !status.Valid() {
		return nil, apperror.Validation("status must be one of: active, deactivated, deleted")
	}

	response, err := u.manage(ctx, principal, id, entity.AuditActionVetStatus, func(vet *entity.Veterinarian) {
		vet.Status = status
	})
	if err != nil {
		return nil, err
	}

	if status != entity.VetStatusActive {
		if err := u.tokens.RevokeAll(ctx, id); err != nil {
			u.log.Warnf("Failed to revoke tokens of veterinarian %s: %+v", id, err)
		}
	}
	return response, nil
}

// manage applies change to a vet that belongs to one of the principal's owned clinics.
func (u *veterinarianUsecase) manage(ctx context.Context, principal *entity.Principal, id uuid.UUID, action string, change func(*entity.Veterinarian)) (*dto.VeterinarianResponse, error) {
	if err := authorize(u.authz, principal, service.ResourceVet, service.ActionManage); err != nil {
		return nil, err
	}
	if principal.ID == id {
		return nil, ErrCannotManageSelf
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	vet, err := u.findVet(tx, id)
	if err != nil {
		return nil, err
	}
	if vet.IsPrimary() {
		return nil, ErrCannotManagePrimary
	}

	clinicID, err := u.sharedOwnedClinic(tx, principal, vet.ID)
	if err != nil {
		return nil, err
	}

	before := converter.VeterinarianToResponse(vet)
	change(vet)

	if err := u.vetRepo.Update(tx, vet); err != nil {
		u.log.Warnf("Failed to update veterinarian: %+v", err)
		return nil, apperror.Internal(err)
	}

	after := converter.VeterinarianToResponse(vet)
	if err := u.auditService.LogUpdate(ctx, tx, principal, &clinicID, action, "veterinarian", vet.ID.String(), before, after); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}

	return after, nil
}

// sharedOwnedClinic returns an owned clinic of the principal the vet is a member of.
func (u *veterinarianUsecase) sharedOwnedClinic(db *gorm.DB, principal *entity.Principal, vetID uuid.UUID) (uuid.UUID, error) {
	memberOf, err := u.membershipRepo.FindClinicIDsByVet(db, vetID)
	if err != nil {
		u.log.Warnf("Failed to find clinic memberships: %+v", err)
		return uuid.Nil, apperror.Internal(err)
	}
	for _, clinicID := range memberOf {
		if principal.OwnsClinic(clinicID) {
			return clinicID, nil
		}
	}
	return uuid.Nil, ErrForbidden
}

func (u *veterinarianUsecase) findVet(db *gorm.DB, id uuid.UUID) (*entity.Veterinarian, error) {
	vet, err := u.vetRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find veterinarian: %+v", err)
		return nil, apperror.Internal(err)
	}
	if vet == nil {
		return nil, ErrVeterinarianNotFound
	}
	return vet, nil
}

// isAffiliated reports whether the vet is the clinic's primary or holds a membership.
func isAffiliated(db *gorm.DB, log *logrus.Logger, membershipRepo repository.ClinicMembershipRepository, clinic *entity.Clinic, vetID uuid.UUID) (bool, error) {
	if clinic.PrimaryVetID == vetID {
		return true, nil
	}
	member, err := membershipRepo.Exists(db, clinic.ID, vetID)
	if err != nil {
		log.Warnf("Failed to check clinic membership: %+v", err)
		return false, apperror.Internal(err)
	}
	return member, nil
}
