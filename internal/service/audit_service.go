package service

import (
	"context"

	"vetcare-backend/internal/domain/entity"
	"vetcare-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditService records mutating actions. Pass the caller's transaction so the entry
// commits or rolls back with the change.
type AuditService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, actor *entity.Principal, clinicID *uuid.UUID, action, entityName, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, tx *gorm.DB, actor *entity.Principal, clinicID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, tx *gorm.DB, actor *entity.Principal, clinicID *uuid.UUID, action, entityName, entityID string, oldValue interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, actor *entity.Principal, clinicID *uuid.UUID, action, entityName, entityID string, newValue interface{}) error {
	return s.write(tx, actor, clinicID, action, entityName, entityID, nil, newValue)
}

func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, actor *entity.Principal, clinicID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	return s.write(tx, actor, clinicID, action, entityName, entityID, oldValue, newValue)
}

func (s *auditService) LogDelete(ctx context.Context, tx *gorm.DB, actor *entity.Principal, clinicID *uuid.UUID, action, entityName, entityID string, oldValue interface{}) error {
	return s.write(tx, actor, clinicID, action, entityName, entityID, oldValue, nil)
}

func (s *auditService) write(tx *gorm.DB, actor *entity.Principal, clinicID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	auditLog := &entity.AuditLog{
		ClinicID: clinicID,
		Action:   action,
		Metadata: entity.JSON{
			"entity":    entityName,
			"entity_id": entityID,
			"old_value": oldValue,
			"new_value": newValue,
		},
	}
	if actor != nil {
		actorID := actor.ID
		auditLog.ActorID = &actorID
		auditLog.ActorType = string(actor.Role)
	}

	if err := s.auditRepo.Create(tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
