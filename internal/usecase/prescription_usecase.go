package usecase

import (
	"bytes"
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
	ErrPrescriptionNotFound = apperror.NotFound("prescription")
	ErrDueDateRequired      = apperror.Validation("due_date is required for vaccinations")
	ErrRecordPetMismatch    = apperror.Validation("medical record does not belong to this pet")
)

type PrescriptionUsecase interface {
	CreatePrescription(ctx context.Context, principal *entity.Principal, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error)
	GetPetPrescriptions(ctx context.Context, principal *entity.Principal, petID uuid.UUID) ([]dto.PrescriptionResponse, error)
	GetPrescription(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.PrescriptionResponse, error)
	UpdatePrescription(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.UpdatePrescriptionRequest) (*dto.PrescriptionResponse, error)
	DeletePrescription(ctx context.Context, principal *entity.Principal, id uuid.UUID, hard bool) error
	RenderPrescriptionPDF(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.PrescriptionPDF, error)
}

type prescriptionUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	prescriptionRepo repository.PrescriptionRepository
	recordRepo       repository.MedicalRecordRepository
	petRepo          repository.PetRepository
	vetRepo          repository.VeterinarianRepository
	clinicRepo       repository.ClinicRepository
	authz            service.Authorizer
	auditService     service.AuditService
	renderer         service.PrescriptionRenderer
	storage          service.AttachmentStorage
}

func NewPrescriptionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	prescriptionRepo repository.PrescriptionRepository,
	recordRepo repository.MedicalRecordRepository,
	petRepo repository.PetRepository,
	vetRepo repository.VeterinarianRepository,
	clinicRepo repository.ClinicRepository,
	authz service.Authorizer,
	auditService service.AuditService,
	renderer service.PrescriptionRenderer,
	storage service.AttachmentStorage,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		db:               db,
		log:              log,
		prescriptionRepo: prescriptionRepo,
		recordRepo:       recordRepo,
		petRepo:          petRepo,
		vetRepo:          vetRepo,
		clinicRepo:       clinicRepo,
		authz:            authz,
		auditService:     auditService,
		renderer:         renderer,
		storage:          storage,
	}
}

// CreatePrescription files the prescription under the linked record's clinic, or the
// pet's approved clinic when no record is given.
func (u *prescriptionUsecase) CreatePrescription(ctx context.Context, principal *entity.Principal, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	if err := authorize(u.authz, principal, service.ResourcePrescription, service.ActionCreate); err != nil {
		return nil, err
	}

	petID, err := parseID(req.PetID)
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
	var recordID *uuid.UUID
	if req.MedicalRecordID != "" {
		id, err := parseID(req.MedicalRecordID)
		if err != nil {
			return nil, err
		}
		record, err := u.recordRepo.FindByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find medical record: %+v", err)
			return nil, apperror.Internal(err)
		}
		if record == nil || record.IsDeleted {
			return nil, ErrMedicalRecordNotFound
		}
		if record.PetID != pet.ID {
			return nil, ErrRecordPetMismatch
		}
		clinicID = record.ClinicID
		recordID = &record.ID
	} else {
		clinicID, err = careClinic(pet)
		if err != nil {
			return nil, err
		}
	}
	if !principal.CanActForClinic(clinicID) {
		return nil, ErrForbidden
	}

	issued := time.Now()
	if req.IssuedDate != nil {
		issued = *req.IssuedDate
	}

	prescription := &entity.Prescription{
		PetID:           pet.ID,
		VeterinarianID:  principal.ID,
		ClinicID:        clinicID,
		MedicalRecordID: recordID,
		Type:            entity.PrescriptionType(req.Type),
		Name:            req.Name,
		Dosage:          req.Dosage,
		Frequency:       req.Frequency,
		Duration:        req.Duration,
		Instructions:    req.Instructions,
		IssuedDate:      issued,
		DueDate:         req.DueDate,
		Attachments:     entity.Attachments{},
	}
	if err := prescription.Validate(); err != nil {
		return nil, ErrDueDateRequired
	}

	if err := u.prescriptionRepo.Create(tx, prescription); err != nil {
		u.log.Warnf("Failed to create prescription: %+v", err)
		return nil, apperror.Internal(err)
	}

	response := converter.PrescriptionToResponse(prescription)
	if err := u.auditService.LogCreate(ctx, tx, principal, &clinicID, entity.AuditActionPrescriptionCreate, "prescription", prescription.ID.String(), response); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}

	return response, nil
}

func (u *prescriptionUsecase) GetPetPrescriptions(ctx context.Context, principal *entity.Principal, petID uuid.UUID) ([]dto.PrescriptionResponse, error) {
	if err := authorize(u.authz, principal, service.ResourcePrescription, service.ActionRead); err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)
	if _, err := findAccessiblePet(db, u.log, u.petRepo, principal, petID); err != nil {
		return nil, err
	}

	prescriptions, err := u.prescriptionRepo.FindByPet(db, petID)
	if err != nil {
		u.log.Warnf("Failed to find prescriptions: %+v", err)
		return nil, apperror.Internal(err)
	}
	return converter.PrescriptionsToResponses(prescriptions), nil
}

func (u *prescriptionUsecase) GetPrescription(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.PrescriptionResponse, error) {
	if err := authorize(u.authz, principal, service.ResourcePrescription, service.ActionRead); err != nil {
		return nil, err
	}

	prescription, _, err := u.findReadable(u.db.WithContext(ctx), principal, id)
	if err != nil {
		return nil, err
	}
	return converter.PrescriptionToResponse(prescription), nil
}

func (u *prescriptionUsecase) UpdatePrescription(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.UpdatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	if err := authorize(u.authz, principal, service.ResourcePrescription, service.ActionUpdate); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	prescription, err := u.findWritable(tx, principal, id, false)
	if err != nil {
		return nil, err
	}
	before := converter.PrescriptionToResponse(prescription)

	if req.Name != nil {
		prescription.Name = *req.Name
	}
	if req.Dosage != nil {
		prescription.Dosage = *req.Dosage
	}
	if req.Frequency != nil {
		prescription.Frequency = *req.Frequency
	}
	if req.Duration != nil {
		prescription.Duration = *req.Duration
	}
	if req.Instructions != nil {
		prescription.Instructions = *req.Instructions
	}
	if req.IssuedDate != nil {
		prescription.IssuedDate = *req.IssuedDate
	}
	if req.DueDate != nil {
		prescription.DueDate = req.DueDate
	}
	if err := prescription.Validate(); err != nil {
		return nil, ErrDueDateRequired
	}

	if err := u.prescriptionRepo.Update(tx, prescription); err != nil {
		u.log.Warnf("Failed to update prescription: %+v", err)
		return nil, apperror.Internal(err)
	}

	after := converter.PrescriptionToResponse(prescription)
	if err := u.auditService.LogUpdate(ctx, tx, principal, &prescription.ClinicID, entity.AuditActionPrescriptionUpdate, "prescription", prescription.ID.String(), before, after); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}

	return after, nil
}

// DeletePrescription soft deletes by default. A hard delete also removes the
// stored attachments once the row is gone.
func (u *prescriptionUsecase) DeletePrescription(ctx context.Context, principal *entity.Principal, id uuid.UUID, hard bool) error {
	if err := authorize(u.authz, principal, service.ResourcePrescription, service.ActionDelete); err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	prescription, err := u.findWritable(tx, principal, id, hard)
	if err != nil {
		return err
	}
	before := converter.PrescriptionToResponse(prescription)

	if hard {
		err = u.prescriptionRepo.Delete(tx, prescription.ID)
	} else {
		prescription.SoftDelete(time.Now())
		err = u.prescriptionRepo.Update(tx, prescription)
	}
	if err != nil {
		u.log.Warnf("Failed to delete prescription: %+v", err)
		return apperror.Internal(err)
	}

	if err := u.auditService.LogDelete(ctx, tx, principal, &prescription.ClinicID, entity.AuditActionPrescriptionDelete, "prescription", prescription.ID.String(), before); err != nil {
		return apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return apperror.Internal(err)
	}

	if hard && len(prescription.Attachments) > 0 && u.storage.Enabled() {
		if err := u.storage.Delete(ctx, prescription.Attachments.ObjectKeys()...); err != nil {
			u.log.Warnf("Failed to delete attachments of prescription %s: %+v", prescription.ID, err)
		}
	}
	return nil
}

// RenderPrescriptionPDF renders a printable copy with the clinic and vet letterhead.
func (u *prescriptionUsecase) RenderPrescriptionPDF(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.PrescriptionPDF, error) {
	if err := authorize(u.authz, principal, service.ResourcePrescription, service.ActionRead); err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)
	prescription, pet, err := u.findReadable(db, principal, id)
	if err != nil {
		return nil, err
	}

	vet, err := u.vetRepo.FindByID(db, prescription.VeterinarianID)
	if err != nil {
		u.log.Warnf("Failed to find veterinarian: %+v", err)
		return nil, apperror.Internal(err)
	}
	clinic, err := u.clinicRepo.FindByID(db, prescription.ClinicID)
	if err != nil {
		u.log.Warnf("Failed to find clinic: %+v", err)
		return nil, apperror.Internal(err)
	}

	var buf bytes.Buffer
	err = u.renderer.Render(&buf, service.PrescriptionDocument{
		Prescription: prescription,
		Pet:          pet,
		Veterinarian: vet,
		Clinic:       clinic,
	})
	if err != nil {
		u.log.Warnf("Failed to render prescription pdf: %+v", err)
		return nil, apperror.Internal(err)
	}

	return &dto.PrescriptionPDF{
		FileName: fmt.Sprintf("prescription-%s.pdf", prescription.ID),
		Content:  buf.Bytes(),
	}, nil
}

// findReadable returns a prescription with its pet for vets acting for its
// clinic and for principals that can access the pet. Soft-deleted prescriptions
// stay readable by id.
func (u *prescriptionUsecase) findReadable(db *gorm.DB, principal *entity.Principal, id uuid.UUID) (*entity.Prescription, *entity.Pet, error) {
	prescription, err := u.prescriptionRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find prescription: %+v", err)
		return nil, nil, apperror.Internal(err)
	}
	if prescription == nil {
		return nil, nil, ErrPrescriptionNotFound
	}

	pet, err := u.petRepo.FindByID(db, prescription.PetID)
	if err != nil {
		u.log.Warnf("Failed to find pet: %+v", err)
		return nil, nil, apperror.Internal(err)
	}
	if pet == nil {
		return nil, nil, ErrPetNotFound
	}
	if !principal.CanActForClinic(prescription.ClinicID) && !canAccessPet(principal, pet) {
		return nil, nil, ErrForbidden
	}
	return prescription, pet, nil
}

func (u *prescriptionUsecase) findWritable(db *gorm.DB, principal *entity.Principal, id uuid.UUID, includeDeleted bool) (*entity.Prescription, error) {
	prescription, err := u.prescriptionRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find prescription: %+v", err)
		return nil, apperror.Internal(err)
	}
	if prescription == nil || (prescription.IsDeleted && !includeDeleted) {
		return nil, ErrPrescriptionNotFound
	}
	if !principal.CanActForClinic(prescription.ClinicID) {
		return nil, ErrForbidden
	}
	return prescription, nil
}
