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

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrOwnerNotFound = apperror.NotFound("owner")
)

type OwnerUsecase interface {
	GetProfile(ctx context.Context, principal *entity.Principal) (*dto.OwnerResponse, error)
	UpdateProfile(ctx context.Context, principal *entity.Principal, req *dto.UpdateOwnerRequest) (*dto.OwnerResponse, error)
	DeleteAccount(ctx context.Context, principal *entity.Principal) error
}

type ownerUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	ownerRepo    repository.OwnerRepository
	auditService service.AuditService
	tokens       service.TokenStore
}

func NewOwnerUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	ownerRepo repository.OwnerRepository,
	auditService service.AuditService,
	tokens service.TokenStore,
) OwnerUsecase {
	return &ownerUsecase{
		db:           db,
		log:          log,
		ownerRepo:    ownerRepo,
		auditService: auditService,
		tokens:       tokens,
	}
}

func (u *ownerUsecase) GetProfile(ctx context.Context, principal *entity.Principal) (*dto.OwnerResponse, error) {
	owner, err := u.findSelf(u.db.WithContext(ctx), principal)
	if err != nil {
		return nil, err
	}
	return converter.OwnerToResponse(owner), nil
}

func (u *ownerUsecase) UpdateProfile(ctx context.Context, principal *entity.Principal, req *dto.UpdateOwnerRequest) (*dto.OwnerResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	owner, err := u.findSelf(tx, principal)
	if err != nil {
		return nil, err
	}
	before := converter.OwnerToResponse(owner)

	if req.FullName != nil {
		owner.FullName = *req.FullName
	}
	if req.Phone != nil {
		owner.Phone = *req.Phone
	}
	if req.Address != nil {
		owner.Address = *req.Address
	}
	if req.Latitude != nil {
		owner.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		owner.Longitude = req.Longitude
	}

	if err := u.ownerRepo.Update(tx, owner); err != nil {
		u.log.Warnf("Failed to update owner: %+v", err)
		return nil, apperror.Internal(err)
	}

	after := converter.OwnerToResponse(owner)
	if err := u.auditService.LogUpdate(ctx, tx, principal, nil, entity.AuditActionOwnerUpdate, "owner", owner.ID.String(), before, after); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}

	return after, nil
}

// DeleteAccount soft-deletes the owner and revokes every session.
func (u *ownerUsecase) DeleteAccount(ctx context.Context, principal *entity.Principal) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	owner, err := u.findSelf(tx, principal)
	if err != nil {
		return err
	}

	owner.SoftDelete(time.Now())
	if err := u.ownerRepo.Update(tx, owner); err != nil {
		u.log.Warnf("Failed to delete owner: %+v", err)
		return apperror.Internal(err)
	}

	if err := u.auditService.LogDelete(ctx, tx, principal, nil, entity.AuditActionOwnerDelete, "owner", owner.ID.String(), converter.OwnerToResponse(owner)); err != nil {
		return apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return apperror.Internal(err)
	}

	if err := u.tokens.RevokeAll(ctx, owner.ID); err != nil {
		u.log.Warnf("Failed to revoke tokens of deleted owner %s: %+v", owner.ID, err)
	}
	return nil
}

func (u *ownerUsecase) findSelf(db *gorm.DB, principal *entity.Principal) (*entity.Owner, error) {
	if !principal.IsOwner() {
		return nil, ErrForbidden
	}

	owner, err := u.ownerRepo.FindByID(db, principal.ID)
	if err != nil {
		u.log.Warnf("Failed to find owner: %+v", err)
		return nil, apperror.Internal(err)
	}
	if owner == nil || owner.IsDeleted {
		return nil, ErrOwnerNotFound
	}
	return owner, nil
}
