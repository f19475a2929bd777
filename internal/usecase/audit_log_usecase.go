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
	ErrAuditLogNotFound = apperror.NotFound("audit log")
)

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, principal *entity.Principal, clinicID *uuid.UUID, page, limit int) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, principal *entity.Principal, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
	authz        service.Authorizer
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
	authz service.Authorizer,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
		authz:        authz,
	}
}

// GetAllAuditLogs lists entries of the clinics the principal owns, optionally one of them.
func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, principal *entity.Principal, clinicID *uuid.UUID, page, limit int) (*dto.AuditLogListResponse, error) {
	if err := authorize(u.authz, principal, service.ResourceAuditLog, service.ActionRead); err != nil {
		return nil, err
	}

	clinicIDs := principal.OwnedClinics
	if clinicID != nil {
		if !principal.OwnsClinic(*clinicID) {
			return nil, ErrForbidden
		}
		clinicIDs = []uuid.UUID{*clinicID}
	}

	page, limit = normalizePage(page, limit)
	logs, total, err := u.auditLogRepo.FindByClinics(u.db.WithContext(ctx), clinicIDs, limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, apperror.Internal(err)
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, principal *entity.Principal, id int64) (*dto.AuditLogResponse, error) {
	if err := authorize(u.authz, principal, service.ResourceAuditLog, service.ActionRead); err != nil {
		return nil, err
	}

	auditLog, err := u.auditLogRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find audit log: %+v", err)
		return nil, apperror.Internal(err)
	}
	// Entries outside the principal's clinics are reported as missing.
	if auditLog == nil || auditLog.ClinicID == nil || !principal.OwnsClinic(*auditLog.ClinicID) {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}
