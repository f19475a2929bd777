package usecase

import (
	"context"
	"fmt"
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

var (
	ErrMedicalRecordNotFound  = apperror.NotFound("medical record")
	ErrAttachmentNotFound     = apperror.NotFound("attachment")
	ErrRecordHidden           = apperror.Forbidden("this medical record is not shared with the owner")
	ErrPetNotRegistered       = apperror.Validation("pet is not registered with an approved clinic")
	ErrAppointmentPetMismatch = apperror.Validation("appointment does not belong to this pet")
)

type MedicalRecordUsecase interface {
	CreateMedicalRecord(ctx context.Context, principal *entity.Principal, req *dto.CreateMedicalRecordRequest) (*dto.MedicalRecordResponse, error)
	GetPetMedicalRecords(ctx context.Context, principal *entity.Principal, petID uuid.UUID) ([]dto.MedicalRecordResponse, error)
	GetMedicalRecord(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.MedicalRecordResponse, error)
	UpdateMedicalRecord(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.UpdateMedicalRecordRequest) (*dto.MedicalRecordResponse, error)
	UpdateVisibility(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.UpdateVisibilityRequest) (*dto.MedicalRecordResponse, error)
	DeleteMedicalRecord(ctx context.Context, principal *entity.Principal, id uuid.UUID, hard bool) error
	UploadAttachment(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.UploadAttachmentRequest) (*dto.AttachmentResponse, error)
	GetAttachmentURL(ctx context.Context, principal *entity.Principal, id uuid.UUID, attachmentID string) (*dto.AttachmentURLResponse, error)
}

type medicalRecordUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	recordRepo      repository.MedicalRecordRepository
	petRepo         repository.PetRepository
	appointmentRepo repository.AppointmentRepository
	authz           service.Authorizer
	auditService    service.AuditService
	storage         service.AttachmentStorage
}

func NewMedicalRecordUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	recordRepo repository.MedicalRecordRepository,
	petRepo repository.PetRepository,
	appointmentRepo repository.AppointmentRepository,
	authz service.Authorizer,
	auditService service.AuditService,
	storage service.AttachmentStorage,
) MedicalRecordUsecase {
	return &medicalRecordUsecase{
		db:              db,
		log:             log,
		recordRepo:      recordRepo,
		petRepo:         petRepo,
		appointmentRepo: appointmentRepo,
		authz:           authz,
		auditService:    auditService,
		storage:         storage,
	}
}

// CreateMedicalRecord files the record under the appointment's clinic when one is
// given, otherwise under the pet's approved clinic.
func (u *medicalRecordUsecase) CreateMedicalRecord(ctx context.Context, principal *entity.Principal, req *dto.CreateMedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
	if err := authorize(u.authz, principal, service.ResourceMedicalRecord, service.ActionCreate); err != nil {
		return nil, err
	}

	petID, err := parseID(req.PetID)
	if err != nil {
		return nil, err
	}
	weight, err := parseWeight(req.Weight)
	if err != nil {
		return nil, err
	}

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

	var clinicID uuid.UUID
	var appointmentID *uuid.UUID
	if req.AppointmentID != "" {
		id, err := parseID(req.AppointmentID)
		if err != nil {
			return nil, err
		}
		appointment, err := u.appointmentRepo.FindByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find appointment: %+v", err)
			return nil, apperror.Internal(err)
		}
		if appointment == nil {
			return nil, ErrAppointmentNotFound
		}
		if appointment.PetID != pet.ID {
			return nil, ErrAppointmentPetMismatch
		}
		clinicID = appointment.ClinicID
		appointmentID = &appointment.ID
	} else {
		clinicID, err = careClinic(pet)
		if err != nil {
			return nil, err
		}
	}
	if !principal.CanActForClinic(clinicID) {
		return nil, ErrForbidden
	}

	visitDate := time.Now()
	if req.VisitDate != nil {
		visitDate = *req.VisitDate
	}
	visible := true
	if req.VisibleToOwner != nil {
		visible = *req.VisibleToOwner
	}

	record := &entity.MedicalRecord{
		PetID:          pet.ID,
		VeterinarianID: principal.ID,
		ClinicID:       clinicID,
		AppointmentID:  appointmentID,
		VisitDate:      visitDate,
		ChiefComplaint: req.ChiefComplaint,
		Diagnosis:      req.Diagnosis,
		Treatment:      req.Treatment,
		Notes:          req.Notes,
		Weight:         weight,
		VisibleToOwner: visible,
		Attachments:    entity.Attachments{},
	}
	if err := u.recordRepo.Create(tx, record); err != nil {
		u.log.Warnf("Failed to create medical record: %+v", err)
		return nil, apperror.Internal(err)
	}

	response := converter.MedicalRecordToResponse(record)
	if err := u.auditService.LogCreate(ctx, tx, principal, &clinicID, entity.AuditActionRecordCreate, "medical_record", record.ID.String(), response); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}

	return response, nil
}

// GetPetMedicalRecords hides records the vet has not shared when the caller is the owner.
func (u *medicalRecordUsecase) GetPetMedicalRecords(ctx context.Context, principal *entity.Principal, petID uuid.UUID) ([]dto.MedicalRecordResponse, error) {
	if err := authorize(u.authz, principal, service.ResourceMedicalRecord, service.ActionRead); err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)
	if _, err := findAccessiblePet(db, u.log, u.petRepo, principal, petID); err != nil {
		return nil, err
	}

	records, err := u.recordRepo.FindByPet(db, petID, principal.IsOwner())
	if err != nil {
		u.log.Warnf("Failed to find medical records: %+v", err)
		return nil, apperror.Internal(err)
	}
	return converter.MedicalRecordsToResponses(records), nil
}

func (u *medicalRecordUsecase) GetMedicalRecord(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.MedicalRecordResponse, error) {
	if err := authorize(u.authz, principal, service.ResourceMedicalRecord, service.ActionRead); err != nil {
		return nil, err
	}

	record, err := u.findReadable(u.db.WithContext(ctx), principal, id)
	if err != nil {
		return nil, err
	}
	return converter.MedicalRecordToResponse(record), nil
}

func (u *medicalRecordUsecase) UpdateMedicalRecord(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.UpdateMedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
	return u.mutate(ctx, principal, id, service.ActionUpdate, func(record *entity.MedicalRecord) error {
		if req.VisitDate != nil {
			record.VisitDate = *req.VisitDate
		}
		if req.ChiefComplaint != nil {
			record.ChiefComplaint = *req.ChiefComplaint
		}
		if req.Diagnosis != nil {
			record.Diagnosis = *req.Diagnosis
		}
		if req.Treatment != nil {
			record.Treatment = *req.Treatment
		}
		if req.Notes != nil {
			record.Notes = *req.Notes
		}
		if req.Weight != nil {
			weight, err := parseWeight(req.Weight)
			if err != nil {
				return err
			}
			record.Weight = weight
		}
		return nil
	})
}

func (u *medicalRecordUsecase) UpdateVisibility(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.UpdateVisibilityRequest) (*dto.MedicalRecordResponse, error) {
	return u.mutate(ctx, principal, id, service.ActionVisibility, func(record *entity.MedicalRecord) error {
		record.VisibleToOwner = *req.VisibleToOwner
		return nil
	})
}

// DeleteMedicalRecord soft deletes by default. A hard delete also removes the
// stored attachments once the row is gone.
func (u *medicalRecordUsecase) DeleteMedicalRecord(ctx context.Context, principal *entity.Principal, id uuid.UUID, hard bool) error {
	if err := authorize(u.authz, principal, service.ResourceMedicalRecord, service.ActionDelete); err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	record, err := u.findWritable(tx, principal, id, hard)
	if err != nil {
		return err
	}
	before := converter.MedicalRecordToResponse(record)

	if hard {
		if err := u.recordRepo.Delete(tx, record.ID); err != nil {
			u.log.Warnf("Failed to delete medical record: %+v", err)
			return apperror.Internal(err)
		}
	} else {
		record.SoftDelete(time.Now())
		if err := u.recordRepo.Update(tx, record); err != nil {
			u.log.Warnf("Failed to delete medical record: %+v", err)
			return apperror.Internal(err)
		}
	}

	if err := u.auditService.LogDelete(ctx, tx, principal, &record.ClinicID, entity.AuditActionRecordDelete, "medical_record", record.ID.String(), before); err != nil {
		return apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return apperror.Internal(err)
	}

	if hard && len(record.Attachments) > 0 && u.storage.Enabled() {
		if err := u.storage.Delete(ctx, record.Attachments.ObjectKeys()...); err != nil {
			u.log.Warnf("Failed to delete attachments of medical record %s: %+v", record.ID, err)
		}
	}
	return nil
}

// UploadAttachment stores the file first and then records it; the object is removed
// again if the record update or its audit row cannot be committed.
func (u *medicalRecordUsecase) UploadAttachment(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.UploadAttachmentRequest) (*dto.AttachmentResponse, error) {
	if err := authorize(u.authz, principal, service.ResourceMedicalRecord, service.ActionAttach); err != nil {
		return nil, err
	}
	if !u.storage.Enabled() {
		return nil, service.ErrStorageDisabled
	}

	db := u.db.WithContext(ctx)
	record, err := u.findWritable(db, principal, id, false)
	if err != nil {
		return nil, err
	}

	attachmentID := uuid.New().String()
	attachment := entity.Attachment{
		ID:          attachmentID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Size:        req.Size,
		ObjectKey:   fmt.Sprintf("medical-records/%s/%s", record.ID, attachmentID),
		UploadedBy:  principal.ID.String(),
		UploadedAt:  time.Now(),
	}

	if err := u.storage.Upload(ctx, attachment.ObjectKey, req.File, req.Size, req.ContentType); err != nil {
		u.log.Warnf("Failed to upload attachment: %+v", err)
		return nil, apperror.Internal(err)
	}

	response := converter.AttachmentToResponse(attachment)
	if err := u.saveAttachment(ctx, principal, record, attachment, response); err != nil {
		if delErr := u.storage.Delete(ctx, attachment.ObjectKey); delErr != nil {
			u.log.Warnf("Failed to remove orphaned attachment %s: %+v", attachment.ObjectKey, delErr)
		}
		return nil, err
	}
	return &response, nil
}

func (u *medicalRecordUsecase) saveAttachment(ctx context.Context, principal *entity.Principal, record *entity.MedicalRecord, attachment entity.Attachment, response dto.AttachmentResponse) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	record.Attachments = append(record.Attachments, attachment)
	if err := u.recordRepo.Update(tx, record); err != nil {
		u.log.Warnf("Failed to save attachment on medical record: %+v", err)
		return apperror.Internal(err)
	}

	if err := u.auditService.LogCreate(ctx, tx, principal, &record.ClinicID, entity.AuditActionRecordAttach, "medical_record", record.ID.String(), response); err != nil {
		return apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return apperror.Internal(err)
	}
	return nil
}

func (u *medicalRecordUsecase) GetAttachmentURL(ctx context.Context, principal *entity.Principal, id uuid.UUID, attachmentID string) (*dto.AttachmentURLResponse, error) {
	if err := authorize(u.authz, principal, service.ResourceMedicalRecord, service.ActionRead); err != nil {
		return nil, err
	}
	if !u.storage.Enabled() {
		return nil, service.ErrStorageDisabled
	}

	record, err := u.findReadable(u.db.WithContext(ctx), principal, id)
	if err != nil {
		return nil, err
	}

	attachment, ok := record.Attachments.Find(attachmentID)
	if !ok {
		return nil, ErrAttachmentNotFound
	}

	url, err := u.storage.PresignedURL(ctx, attachment.ObjectKey, attachment.FileName)
	if err != nil {
		u.log.Warnf("Failed to presign attachment url: %+v", err)
		return nil, apperror.Internal(err)
	}

	return &dto.AttachmentURLResponse{
		Attachment: converter.AttachmentToResponse(attachment),
		URL:        url,
	}, nil
}

func (u *medicalRecordUsecase) mutate(ctx context.Context, principal *entity.Principal, id uuid.UUID, action string, change func(*entity.MedicalRecord) error) (*dto.MedicalRecordResponse, error) {
	if err := authorize(u.authz, principal, service.ResourceMedicalRecord, action); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	record, err := u.findWritable(tx, principal, id, false)
	if err != nil {
		return nil, err
	}
	before := converter.MedicalRecordToResponse(record)

	if err := change(record); err != nil {
		return nil, err
	}

	if err := u.recordRepo.Update(tx, record); err != nil {
		u.log.Warnf("Failed to update medical record: %+v", err)
		return nil, apperror.Internal(err)
	}

	after := converter.MedicalRecordToResponse(record)
	if err := u.auditService.LogUpdate(ctx, tx, principal, &record.ClinicID, entity.AuditActionRecordUpdate, "medical_record", record.ID.String(), before, after); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}

	return after, nil
}

// findReadable returns a record the principal may see: vets acting for the
// record's clinic or the pet's clinic, and the owner when the record is shared.
// Soft-deleted records stay readable by id.
func (u *medicalRecordUsecase) findReadable(db *gorm.DB, principal *entity.Principal, id uuid.UUID) (*entity.MedicalRecord, error) {
	record, err := u.findRecord(db, id)
	if err != nil {
		return nil, err
	}
	if principal.CanActForClinic(record.ClinicID) {
		return record, nil
	}

	pet, err := findAccessiblePet(db, u.log, u.petRepo, principal, record.PetID)
	if err != nil {
		return nil, err
	}
	if principal.IsSelf(pet.OwnerID) && !record.VisibleToOwner {
		return nil, ErrRecordHidden
	}
	return record, nil
}

// findWritable allows already soft-deleted records only when includeDeleted is set.
func (u *medicalRecordUsecase) findWritable(db *gorm.DB, principal *entity.Principal, id uuid.UUID, includeDeleted bool) (*entity.MedicalRecord, error) {
	record, err := u.recordRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find medical record: %+v", err)
		return nil, apperror.Internal(err)
	}
	if record == nil || (record.IsDeleted && !includeDeleted) {
		return nil, ErrMedicalRecordNotFound
	}
	if !principal.CanActForClinic(record.ClinicID) {
		return nil, ErrForbidden
	}
	return record, nil
}

func (u *medicalRecordUsecase) findRecord(db *gorm.DB, id uuid.UUID) (*entity.MedicalRecord, error) {
	record, err := u.recordRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find medical record: %+v", err)
		return nil, apperror.Internal(err)
	}
	if record == nil {
		return nil, ErrMedicalRecordNotFound
	}
	return record, nil
}

// careClinic is the clinic that treats the pet: its registration must be approved.
func careClinic(pet *entity.Pet) (uuid.UUID, error) {
	if pet.RegisteredClinicID == nil || pet.RegistrationStatus != entity.RegistrationApproved {
		return uuid.Nil, ErrPetNotRegistered
	}
	return *pet.RegisteredClinicID, nil
}
