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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appointmentFixture struct {
	usecase      AppointmentUsecase
	appointments *fakeAppointmentRepo
	pets         *fakePetRepo
	clinics      *fakeClinicRepo
	vets         *fakeVetRepo
	members      *fakeMembershipRepo
	audit        *fakeAuditService
	publisher    *fakePublisher
	locks        *fakeSlotLocker
	metrics      *service.Metrics
	mock         sqlmock.Sqlmock

	ownerID uuid.UUID
	pet     *entity.Pet
	clinic  *entity.Clinic
	vet     *entity.Veterinarian
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()
	db, mock := newTestDB(t)

	ownerID := uuid.New()
	vet := &entity.Veterinarian{ID: uuid.New(), FullName: "Dr. Who", AccessLevel: entity.AccessLevelNormalAccess, Status: entity.VetStatusActive}
	clinic := &entity.Clinic{ID: uuid.New(), Name: "Paws", PrimaryVetID: uuid.New(), ConsultationFee: decimal.RequireFromString("150000.00")}
	pet := &entity.Pet{ID: uuid.New(), OwnerID: ownerID, Name: "Milo", Species: "cat"}

	f := &appointmentFixture{
		appointments: newFakeAppointmentRepo(),
		pets:         newFakePetRepo(pet),
		clinics:      newFakeClinicRepo(clinic),
		vets:         newFakeVetRepo(vet),
		members:      newFakeMembershipRepo(),
		audit:        &fakeAuditService{},
		publisher:    &fakePublisher{},
		locks:        newFakeSlotLocker(),
		metrics:      service.NewMetrics(prometheus.NewRegistry()),
		mock:         mock,
		ownerID:      ownerID,
		pet:          pet,
		clinic:       clinic,
		vet:          vet,
	}
	f.members.members[membershipKey{clinic.ID, vet.ID}] = true
	f.usecase = NewAppointmentUsecase(db, newTestLogger(), f.appointments, f.pets, f.clinics, f.vets, f.members,
		newTestAuthorizer(t), f.audit, f.publisher, f.locks, f.metrics)
	return f
}

type fakeSlotLocker struct {
	held     map[string]bool
	acquired int
}

func newFakeSlotLocker() *fakeSlotLocker {
	return &fakeSlotLocker{held: make(map[string]bool)}
}

func (l *fakeSlotLocker) Acquire(ctx context.Context, vetID uuid.UUID, at time.Time) (func(), error) {
	key := service.SlotLockKey(vetID, at)
	if l.held[key] {
		return nil, service.ErrSlotLocked
	}
	l.held[key] = true
	l.acquired++
	return func() { delete(l.held, key) }, nil
}

func (f *appointmentFixture) bookRequest(at time.Time) *dto.BookAppointmentRequest {
	return &dto.BookAppointmentRequest{
		PetID:          f.pet.ID.String(),
		ClinicID:       f.clinic.ID.String(),
		VeterinarianID: f.vet.ID.String(),
		DateTime:       at,
		Reason:         "checkup",
	}
}

func (f *appointmentFixture) existing(status entity.AppointmentStatus, at time.Time) *entity.Appointment {
	a := &entity.Appointment{
		ID:             uuid.New(),
		PetID:          f.pet.ID,
		OwnerID:        f.ownerID,
		ClinicID:       f.clinic.ID,
		VeterinarianID: f.vet.ID,
		DateTime:       at,
		Status:         status,
	}
	f.appointments.appointments[a.ID] = a
	return a
}

func TestBookAppointment(t *testing.T) {
	f := newAppointmentFixture(t)
	at := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.usecase.BookAppointment(context.Background(), ownerPrincipal(f.ownerID), f.bookRequest(at))
	require.NoError(t, err)
	assert.Equal(t, "booked", resp.Status)
	assert.Equal(t, f.ownerID, resp.OwnerID)
	assert.True(t, f.clinic.ConsultationFee.Equal(resp.Fee))
	assert.Equal(t, "Milo", resp.PetName)
	assert.Equal(t, "Dr. Who", resp.VeterinarianName)
	assert.Equal(t, []string{service.EventAppointmentBooked}, f.publisher.events)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AppointmentsBooked))
	assert.Equal(t, 1, f.locks.acquired)
	assert.Empty(t, f.locks.held)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestBookAppointmentSlotConflict(t *testing.T) {
	at := time.Now().Add(24 * time.Hour).Truncate(time.Minute)

	t.Run("pre-check finds a live appointment", func(t *testing.T) {
		f := newAppointmentFixture(t)
		f.existing(entity.AppointmentConfirmed, at)
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.usecase.BookAppointment(context.Background(), ownerPrincipal(f.ownerID), f.bookRequest(at))
		assert.True(t, errors.Is(err, ErrSlotConflict))
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SlotConflicts))
		assert.Empty(t, f.publisher.events)
	})

	t.Run("slot lock held by a concurrent request", func(t *testing.T) {
		f := newAppointmentFixture(t)
		f.locks.held[service.SlotLockKey(f.vet.ID, at)] = true

		_, err := f.usecase.BookAppointment(context.Background(), ownerPrincipal(f.ownerID), f.bookRequest(at))
		assert.True(t, errors.Is(err, ErrSlotConflict))
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SlotConflicts))
		assert.Empty(t, f.appointments.appointments)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("unique index rejects a concurrent booking", func(t *testing.T) {
		f := newAppointmentFixture(t)
		f.appointments.createErr = &pgconn.PgError{Code: "23505", ConstraintName: appointmentSlotIndex}
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.usecase.BookAppointment(context.Background(), ownerPrincipal(f.ownerID), f.bookRequest(at))
		assert.True(t, errors.Is(err, ErrSlotConflict))
	})

	t.Run("canceled appointment frees the slot", func(t *testing.T) {
		f := newAppointmentFixture(t)
		f.existing(entity.AppointmentCanceled, at)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		_, err := f.usecase.BookAppointment(context.Background(), ownerPrincipal(f.ownerID), f.bookRequest(at))
		assert.NoError(t, err)
	})
}

func TestBookAppointmentRejections(t *testing.T) {
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name      string
		principal func(f *appointmentFixture) *entity.Principal
		modify    func(f *appointmentFixture, req *dto.BookAppointmentRequest)
		tx        bool
		kind      apperror.Kind
	}{
		{
			name:      "vet cannot book",
			principal: func(f *appointmentFixture) *entity.Principal { return vetPrincipal(f.vet.ID, entity.AccessLevelPrimary, nil) },
			kind:      apperror.KindForbidden,
		},
		{
			name:      "time in the past",
			principal: func(f *appointmentFixture) *entity.Principal { return ownerPrincipal(f.ownerID) },
			modify: func(f *appointmentFixture, req *dto.BookAppointmentRequest) {
				req.DateTime = time.Now().Add(-time.Hour)
			},
			kind: apperror.KindValidation,
		},
		{
			name:      "someone else's pet",
			principal: func(f *appointmentFixture) *entity.Principal { return ownerPrincipal(uuid.New()) },
			tx:        true,
			kind:      apperror.KindForbidden,
		},
		{
			name:      "vet not affiliated with clinic",
			principal: func(f *appointmentFixture) *entity.Principal { return ownerPrincipal(f.ownerID) },
			modify: func(f *appointmentFixture, req *dto.BookAppointmentRequest) {
				delete(f.members.members, membershipKey{f.clinic.ID, f.vet.ID})
			},
			tx:   true,
			kind: apperror.KindValidation,
		},
		{
			name:      "deactivated vet",
			principal: func(f *appointmentFixture) *entity.Principal { return ownerPrincipal(f.ownerID) },
			modify: func(f *appointmentFixture, req *dto.BookAppointmentRequest) {
				f.vet.Status = entity.VetStatusDeactivated
			},
			tx:   true,
			kind: apperror.KindValidation,
		},
		{
			name:      "deleted clinic",
			principal: func(f *appointmentFixture) *entity.Principal { return ownerPrincipal(f.ownerID) },
			modify: func(f *appointmentFixture, req *dto.BookAppointmentRequest) {
				f.clinic.IsDeleted = true
			},
			tx:   true,
			kind: apperror.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAppointmentFixture(t)
			req := f.bookRequest(future)
			if tt.modify != nil {
				tt.modify(f, req)
			}
			if tt.tx {
				f.mock.ExpectBegin()
				f.mock.ExpectRollback()
			}

			_, err := f.usecase.BookAppointment(context.Background(), tt.principal(f), req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
			assert.Empty(t, f.appointments.appointments)
		})
	}
}

func TestAppointmentTransitions(t *testing.T) {
	ctx := context.Background()
	at := time.Now().Add(72 * time.Hour).Truncate(time.Minute)

	t.Run("assigned vet confirms and completes", func(t *testing.T) {
		f := newAppointmentFixture(t)
		a := f.existing(entity.AppointmentBooked, at)
		vet := vetPrincipal(f.vet.ID, entity.AccessLevelNormalAccess, &f.clinic.ID)

		f.mock.ExpectBegin()
		f.mock.ExpectCommit()
		resp, err := f.usecase.ConfirmAppointment(ctx, vet, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "confirmed", resp.Status)

		f.mock.ExpectBegin()
		f.mock.ExpectCommit()
		resp, err = f.usecase.CompleteAppointment(ctx, vet, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "completed", resp.Status)
		assert.Equal(t, []string{service.EventAppointmentConfirmed, service.EventAppointmentCompleted}, f.publisher.events)
	})

	t.Run("terminal appointment cannot be canceled", func(t *testing.T) {
		f := newAppointmentFixture(t)
		a := f.existing(entity.AppointmentCompleted, at)
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.usecase.CancelAppointment(ctx, ownerPrincipal(f.ownerID), a.ID, &dto.CancelAppointmentRequest{Reason: "late"})
		assert.True(t, errors.Is(err, ErrInvalidAppointmentOp))
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("owner cancels with a reason", func(t *testing.T) {
		f := newAppointmentFixture(t)
		a := f.existing(entity.AppointmentBooked, at)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		resp, err := f.usecase.CancelAppointment(ctx, ownerPrincipal(f.ownerID), a.ID, &dto.CancelAppointmentRequest{Reason: "sick"})
		require.NoError(t, err)
		assert.Equal(t, "canceled", resp.Status)
		assert.Equal(t, "sick", resp.CancelReason)
		require.NotNil(t, resp.CanceledBy)
		assert.Equal(t, f.ownerID, *resp.CanceledBy)
	})

	t.Run("owner cannot complete", func(t *testing.T) {
		f := newAppointmentFixture(t)
		a := f.existing(entity.AppointmentConfirmed, at)

		_, err := f.usecase.CompleteAppointment(ctx, ownerPrincipal(f.ownerID), a.ID)
		assert.True(t, errors.Is(err, ErrForbidden))
	})

	t.Run("another vet of the clinic cannot complete", func(t *testing.T) {
		f := newAppointmentFixture(t)
		a := f.existing(entity.AppointmentConfirmed, at)
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.usecase.CompleteAppointment(ctx, vetPrincipal(uuid.New(), entity.AccessLevelFullAccess, &f.clinic.ID), a.ID)
		assert.True(t, errors.Is(err, ErrForbidden))
	})

	t.Run("reschedule into a taken slot conflicts", func(t *testing.T) {
		f := newAppointmentFixture(t)
		a := f.existing(entity.AppointmentBooked, at)
		taken := at.Add(time.Hour)
		f.existing(entity.AppointmentConfirmed, taken)
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.usecase.RescheduleAppointment(ctx, ownerPrincipal(f.ownerID), a.ID, &dto.RescheduleAppointmentRequest{DateTime: taken})
		assert.True(t, errors.Is(err, ErrSlotConflict))
	})

	t.Run("reschedule to the same slot is allowed", func(t *testing.T) {
		f := newAppointmentFixture(t)
		a := f.existing(entity.AppointmentConfirmed, at)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		resp, err := f.usecase.RescheduleAppointment(ctx, ownerPrincipal(f.ownerID), a.ID, &dto.RescheduleAppointmentRequest{DateTime: at})
		require.NoError(t, err)
		assert.Equal(t, "rescheduled", resp.Status)
	})
}
