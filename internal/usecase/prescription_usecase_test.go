package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/domain/entity"
	"vetcare-backend/internal/service"
	"vetcare-backend/pkg/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prescriptionFixture struct {
	usecase       PrescriptionUsecase
	prescriptions *fakePrescriptionRepo
	records       *fakeRecordRepo
	pets          *fakePetRepo
	storage       *fakeStorage
	audit         *fakeAuditService
	mock          sqlmock.Sqlmock

	ownerID  uuid.UUID
	clinicID uuid.UUID
	pet      *entity.Pet
}

func newPrescriptionFixture(t *testing.T, storageEnabled bool) *prescriptionFixture {
	t.Helper()
	db, mock := newTestDB(t)
	ownerID := uuid.New()
	clinicID := uuid.New()
	pet := &entity.Pet{
		ID:                 uuid.New(),
		OwnerID:            ownerID,
		Name:               "Milo",
		RegisteredClinicID: &clinicID,
		RegistrationStatus: entity.RegistrationApproved,
	}

	f := &prescriptionFixture{
		prescriptions: newFakePrescriptionRepo(),
		records:       newFakeRecordRepo(),
		pets:          newFakePetRepo(pet),
		storage:       newFakeStorage(storageEnabled),
		audit:         &fakeAuditService{},
		mock:          mock,
		ownerID:       ownerID,
		clinicID:      clinicID,
		pet:           pet,
	}
	f.usecase = NewPrescriptionUsecase(db, newTestLogger(), f.prescriptions, f.records, f.pets, newFakeVetRepo(), newFakeClinicRepo(),
		newTestAuthorizer(t), f.audit, service.NewPrescriptionRenderer(), f.storage)
	return f
}

func (f *prescriptionFixture) addPrescription() *entity.Prescription {
	prescription := &entity.Prescription{
		ID:             uuid.New(),
		PetID:          f.pet.ID,
		VeterinarianID: uuid.New(),
		ClinicID:       f.clinicID,
		Type:           entity.PrescriptionMedication,
		Name:           "Amoxicillin",
		IssuedDate:     time.Now(),
		Attachments:    entity.Attachments{},
	}
	f.prescriptions.prescriptions[prescription.ID] = prescription
	return prescription
}

func (f *prescriptionFixture) vet(level entity.AccessLevel) *entity.Principal {
	return vetPrincipal(uuid.New(), level, &f.clinicID)
}

func (f *prescriptionFixture) foreignVet(level entity.AccessLevel) *entity.Principal {
	other := uuid.New()
	return vetPrincipal(uuid.New(), level, &other)
}

func TestCreatePrescription(t *testing.T) {
	ctx := context.Background()

	t.Run("files under the pet's clinic", func(t *testing.T) {
		f := newPrescriptionFixture(t, false)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()
		vet := f.vet(entity.AccessLevelNormalAccess)

		resp, err := f.usecase.CreatePrescription(ctx, vet, &dto.CreatePrescriptionRequest{
			PetID: f.pet.ID.String(),
			Type:  string(entity.PrescriptionMedication),
			Name:  "Amoxicillin",
		})
		require.NoError(t, err)
		assert.Equal(t, f.clinicID, resp.ClinicID)
		assert.Equal(t, vet.ID, resp.VeterinarianID)
		assert.Equal(t, []string{entity.AuditActionPrescriptionCreate}, f.audit.actions)
	})

	t.Run("vaccination without due date", func(t *testing.T) {
		f := newPrescriptionFixture(t, false)
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.usecase.CreatePrescription(ctx, f.vet(entity.AccessLevelNormalAccess), &dto.CreatePrescriptionRequest{
			PetID: f.pet.ID.String(),
			Type:  string(entity.PrescriptionVaccination),
			Name:  "Rabies",
		})
		assert.True(t, errors.Is(err, ErrDueDateRequired))
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		assert.Empty(t, f.prescriptions.prescriptions)
	})

	t.Run("vaccination with due date", func(t *testing.T) {
		f := newPrescriptionFixture(t, false)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()
		due := time.Now().AddDate(1, 0, 0)

		resp, err := f.usecase.CreatePrescription(ctx, f.vet(entity.AccessLevelNormalAccess), &dto.CreatePrescriptionRequest{
			PetID:   f.pet.ID.String(),
			Type:    string(entity.PrescriptionVaccination),
			Name:    "Rabies",
			DueDate: &due,
		})
		require.NoError(t, err)
		require.NotNil(t, resp.DueDate)
		assert.True(t, due.Equal(*resp.DueDate))
	})

	t.Run("record of another pet", func(t *testing.T) {
		f := newPrescriptionFixture(t, false)
		record := &entity.MedicalRecord{ID: uuid.New(), PetID: uuid.New(), ClinicID: f.clinicID}
		f.records.records[record.ID] = record
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.usecase.CreatePrescription(ctx, f.vet(entity.AccessLevelNormalAccess), &dto.CreatePrescriptionRequest{
			PetID:           f.pet.ID.String(),
			MedicalRecordID: record.ID.String(),
			Type:            string(entity.PrescriptionMedication),
			Name:            "Amoxicillin",
		})
		assert.True(t, errors.Is(err, ErrRecordPetMismatch))
	})

	t.Run("vet of another clinic", func(t *testing.T) {
		f := newPrescriptionFixture(t, false)
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.usecase.CreatePrescription(ctx, f.foreignVet(entity.AccessLevelFullAccess), &dto.CreatePrescriptionRequest{
			PetID: f.pet.ID.String(),
			Type:  string(entity.PrescriptionMedication),
			Name:  "Amoxicillin",
		})
		assert.True(t, errors.Is(err, ErrForbidden))
	})

	t.Run("owners cannot prescribe", func(t *testing.T) {
		f := newPrescriptionFixture(t, false)
		_, err := f.usecase.CreatePrescription(ctx, ownerPrincipal(f.ownerID), &dto.CreatePrescriptionRequest{
			PetID: f.pet.ID.String(),
			Type:  string(entity.PrescriptionMedication),
			Name:  "Amoxicillin",
		})
		assert.True(t, errors.Is(err, ErrForbidden))
	})
}

func TestOwnerReadsOnlyOwnPetPrescriptions(t *testing.T) {
	f := newPrescriptionFixture(t, false)
	prescription := f.addPrescription()
	ctx := context.Background()

	list, err := f.usecase.GetPetPrescriptions(ctx, ownerPrincipal(f.ownerID), f.pet.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, prescription.ID, list[0].ID)

	stranger := ownerPrincipal(uuid.New())
	_, err = f.usecase.GetPetPrescriptions(ctx, stranger, f.pet.ID)
	assert.True(t, errors.Is(err, ErrForbidden))

	_, err = f.usecase.GetPrescription(ctx, stranger, prescription.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = f.usecase.GetPrescription(ctx, ownerPrincipal(f.ownerID), uuid.New())
	assert.True(t, errors.Is(err, ErrPrescriptionNotFound))
}

func TestUpdatePrescription(t *testing.T) {
	ctx := context.Background()

	t.Run("vet of the clinic", func(t *testing.T) {
		f := newPrescriptionFixture(t, false)
		prescription := f.addPrescription()
		dosage := "250mg"
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		resp, err := f.usecase.UpdatePrescription(ctx, f.vet(entity.AccessLevelNormalAccess), prescription.ID, &dto.UpdatePrescriptionRequest{Dosage: &dosage})
		require.NoError(t, err)
		assert.Equal(t, "250mg", resp.Dosage)
		assert.Equal(t, []string{entity.AuditActionPrescriptionUpdate}, f.audit.actions)
	})

	t.Run("vet of another clinic", func(t *testing.T) {
		f := newPrescriptionFixture(t, false)
		prescription := f.addPrescription()
		dosage := "250mg"
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.usecase.UpdatePrescription(ctx, f.foreignVet(entity.AccessLevelFullAccess), prescription.ID, &dto.UpdatePrescriptionRequest{Dosage: &dosage})
		assert.True(t, errors.Is(err, ErrForbidden))
		assert.Empty(t, f.prescriptions.prescriptions[prescription.ID].Dosage)
	})
}

func TestDeletePrescription(t *testing.T) {
	ctx := context.Background()

	t.Run("soft delete leaves the prescription fetchable by id", func(t *testing.T) {
		f := newPrescriptionFixture(t, false)
		prescription := f.addPrescription()
		vet := f.vet(entity.AccessLevelFullAccess)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		require.NoError(t, f.usecase.DeletePrescription(ctx, vet, prescription.ID, false))
		assert.True(t, f.prescriptions.prescriptions[prescription.ID].IsDeleted)

		resp, err := f.usecase.GetPrescription(ctx, vet, prescription.ID)
		require.NoError(t, err)
		assert.True(t, resp.IsDeleted)

		resp, err = f.usecase.GetPrescription(ctx, ownerPrincipal(f.ownerID), prescription.ID)
		require.NoError(t, err)
		assert.Equal(t, prescription.ID, resp.ID)

		list, err := f.usecase.GetPetPrescriptions(ctx, vet, f.pet.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("hard delete removes attachments", func(t *testing.T) {
		f := newPrescriptionFixture(t, true)
		prescription := f.addPrescription()
		prescription.Attachments = entity.Attachments{{ID: "a1", ObjectKey: "prescriptions/x/a1"}}
		f.storage.objects["prescriptions/x/a1"] = true
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		require.NoError(t, f.usecase.DeletePrescription(ctx, f.vet(entity.AccessLevelFullAccess), prescription.ID, true))
		assert.NotContains(t, f.prescriptions.prescriptions, prescription.ID)
		assert.Empty(t, f.storage.objects)
		assert.Equal(t, []string{entity.AuditActionPrescriptionDelete}, f.audit.actions)
	})

	t.Run("vet of another clinic", func(t *testing.T) {
		f := newPrescriptionFixture(t, true)
		prescription := f.addPrescription()
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		err := f.usecase.DeletePrescription(ctx, f.foreignVet(entity.AccessLevelPrimary), prescription.ID, true)
		assert.True(t, errors.Is(err, ErrForbidden))
		assert.Contains(t, f.prescriptions.prescriptions, prescription.ID)
	})

	t.Run("normal access cannot delete", func(t *testing.T) {
		f := newPrescriptionFixture(t, false)
		prescription := f.addPrescription()

		err := f.usecase.DeletePrescription(ctx, f.vet(entity.AccessLevelNormalAccess), prescription.ID, false)
		assert.True(t, errors.Is(err, ErrForbidden))
		assert.False(t, f.prescriptions.prescriptions[prescription.ID].IsDeleted)
	})
}
