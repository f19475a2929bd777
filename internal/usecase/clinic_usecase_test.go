package usecase

import (
	"context"
	"errors"
	"testing"

	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/domain/entity"
	"vetcare-backend/pkg/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeStaffRepo struct {
	staff map[uuid.UUID]*entity.ClinicStaff
}

func newFakeStaffRepo(staff ...*entity.ClinicStaff) *fakeStaffRepo {
	r := &fakeStaffRepo{staff: make(map[uuid.UUID]*entity.ClinicStaff)}
	for _, s := range staff {
		r.staff[s.ID] = s
	}
	return r
}

func (r *fakeStaffRepo) Create(db *gorm.DB, staff *entity.ClinicStaff) error {
	if staff.ID == uuid.Nil {
		staff.ID = uuid.New()
	}
	r.staff[staff.ID] = staff
	return nil
}

func (r *fakeStaffRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.ClinicStaff, error) {
	return r.staff[id], nil
}

func (r *fakeStaffRepo) FindByEmail(db *gorm.DB, email string) (*entity.ClinicStaff, error) {
	for _, s := range r.staff {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeStaffRepo) FindByClinic(db *gorm.DB, clinicID uuid.UUID) ([]entity.ClinicStaff, error) {
	var out []entity.ClinicStaff
	for _, s := range r.staff {
		if s.ClinicID == clinicID && !s.IsDeleted {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeStaffRepo) Update(db *gorm.DB, staff *entity.ClinicStaff) error {
	r.staff[staff.ID] = staff
	return nil
}

type clinicFixture struct {
	usecase     ClinicUsecase
	clinics     *fakeClinicRepo
	staff       *fakeStaffRepo
	vets        *fakeVetRepo
	memberships *fakeMembershipRepo
	audit       *fakeAuditService
	mock        sqlmock.Sqlmock

	primaryID uuid.UUID
	clinic    *entity.Clinic
}

func newClinicFixture(t *testing.T) *clinicFixture {
	t.Helper()
	db, mock := newTestDB(t)
	primaryID := uuid.New()
	clinic := &entity.Clinic{
		ID:              uuid.New(),
		Name:            "Paws",
		Address:         "Jl. Merdeka 1",
		ConsultationFee: decimal.RequireFromString("150000.00"),
		PrimaryVetID:    primaryID,
	}

	f := &clinicFixture{
		clinics:     newFakeClinicRepo(clinic),
		staff:       newFakeStaffRepo(),
		vets:        newFakeVetRepo(&entity.Veterinarian{ID: primaryID, Email: "primary@example.com", LicenseNumber: "LIC-1", AccessLevel: entity.AccessLevelPrimary, Status: entity.VetStatusActive}),
		memberships: newFakeMembershipRepo(),
		audit:       &fakeAuditService{},
		mock:        mock,
		primaryID:   primaryID,
		clinic:      clinic,
	}
	f.usecase = NewClinicUsecase(db, newTestLogger(), f.clinics, f.staff, f.vets, f.memberships,
		newFakeOwnerRepo(), newFakePetRepo(), newFakeAppointmentRepo(), newTestAuthorizer(t), f.audit)
	return f
}

func (f *clinicFixture) primary() *entity.Principal {
	return vetPrincipal(f.primaryID, entity.AccessLevelPrimary, &f.clinic.ID, f.clinic.ID)
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestGetNearbyClinics(t *testing.T) {
	f := newClinicFixture(t)
	f.clinic.Latitude = floatPtr(-6.2000)
	f.clinic.Longitude = floatPtr(106.8166)
	near := &entity.Clinic{ID: uuid.New(), Name: "Near", Latitude: floatPtr(-6.2010), Longitude: floatPtr(106.8170)}
	far := &entity.Clinic{ID: uuid.New(), Name: "Bandung", Latitude: floatPtr(-6.9175), Longitude: floatPtr(107.6191)}
	unmapped := &entity.Clinic{ID: uuid.New(), Name: "Unmapped"}
	for _, c := range []*entity.Clinic{near, far, unmapped} {
		f.clinics.clinics[c.ID] = c
	}

	clinics, err := f.usecase.GetNearbyClinics(context.Background(), ownerPrincipal(uuid.New()), &dto.NearbyClinicsRequest{
		Latitude:  -6.2011,
		Longitude: 106.8171,
		RadiusKm:  10,
		Limit:     10,
	})
	require.NoError(t, err)
	require.Len(t, clinics, 2)
	assert.Equal(t, "Near", clinics[0].Name)
	assert.Equal(t, "Paws", clinics[1].Name)
	require.NotNil(t, clinics[0].DistanceKm)
	assert.Less(t, *clinics[0].DistanceKm, *clinics[1].DistanceKm)

	clinics, err = f.usecase.GetNearbyClinics(context.Background(), ownerPrincipal(uuid.New()), &dto.NearbyClinicsRequest{
		Latitude:  -6.2011,
		Longitude: 106.8171,
		RadiusKm:  500,
		Limit:     1,
	})
	require.NoError(t, err)
	require.Len(t, clinics, 1)
	assert.Equal(t, "Near", clinics[0].Name)
}

func TestCreateClinicSetsActiveClinic(t *testing.T) {
	f := newClinicFixture(t)
	vetID := uuid.New()
	f.vets.vets[vetID] = &entity.Veterinarian{ID: vetID, AccessLevel: entity.AccessLevelPrimary, Status: entity.VetStatusActive}
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.usecase.CreateClinic(context.Background(), vetPrincipal(vetID, entity.AccessLevelPrimary, nil), &dto.CreateClinicRequest{
		Name:    "Happy Tails",
		Address: "Jl. Sudirman 2",
	})
	require.NoError(t, err)
	assert.Equal(t, vetID, resp.PrimaryVetID)
	assert.True(t, resp.ConsultationFee.IsZero())
	require.NotNil(t, f.vets.vets[vetID].CurrentActiveClinicID)
	assert.Equal(t, resp.ID, *f.vets.vets[vetID].CurrentActiveClinicID)
	assert.Equal(t, []string{entity.AuditActionClinicCreate}, f.audit.actions)
}

func TestCreateClinicRequiresPrimary(t *testing.T) {
	f := newClinicFixture(t)

	_, err := f.usecase.CreateClinic(context.Background(), vetPrincipal(uuid.New(), entity.AccessLevelFullAccess, nil), &dto.CreateClinicRequest{Name: "X", Address: "Y"})
	assert.True(t, errors.Is(err, ErrForbidden))

	_, err = f.usecase.CreateClinic(context.Background(), ownerPrincipal(uuid.New()), &dto.CreateClinicRequest{Name: "X", Address: "Y"})
	assert.True(t, errors.Is(err, ErrForbidden))
}

func TestAddStaff(t *testing.T) {
	ctx := context.Background()

	t.Run("intern veterinarian gets normal access", func(t *testing.T) {
		f := newClinicFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		resp, err := f.usecase.AddStaff(ctx, f.primary(), f.clinic.ID, &dto.CreateStaffRequest{
			StaffType:     staffTypeVeterinarian,
			FullName:      "Dr. Intern",
			Email:         "Intern@Example.com",
			Role:          string(entity.VetRoleIntern),
			Password:      "secret123",
			LicenseNumber: "LIC-2",
		})
		require.NoError(t, err)
		require.NotNil(t, resp.Veterinarian)
		assert.Equal(t, "intern@example.com", resp.Veterinarian.Email)
		assert.Equal(t, string(entity.AccessLevelNormalAccess), string(resp.Veterinarian.AccessLevel))
		assert.True(t, f.memberships.members[membershipKey{f.clinic.ID, resp.Veterinarian.ID}])

		vet := f.vets.vets[resp.Veterinarian.ID]
		require.NotNil(t, vet.CurrentActiveClinicID)
		assert.Equal(t, f.clinic.ID, *vet.CurrentActiveClinicID)
		assert.NotEqual(t, "secret123", vet.Password)
	})

	t.Run("practice manager staff", func(t *testing.T) {
		f := newClinicFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		resp, err := f.usecase.AddStaff(ctx, f.primary(), f.clinic.ID, &dto.CreateStaffRequest{
			StaffType: staffTypeStaff,
			FullName:  "Budi",
			Email:     "budi@example.com",
			Role:      string(entity.StaffRolePracticeManager),
		})
		require.NoError(t, err)
		require.NotNil(t, resp.Staff)
		assert.Equal(t, string(entity.StaffAccessAdmin), resp.Staff.AccessLevel)
	})

	t.Run("invalid staff role", func(t *testing.T) {
		f := newClinicFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.usecase.AddStaff(ctx, f.primary(), f.clinic.ID, &dto.CreateStaffRequest{
			StaffType: staffTypeStaff,
			FullName:  "Budi",
			Email:     "budi@example.com",
			Role:      "janitor",
		})
		assert.True(t, errors.Is(err, ErrInvalidStaffRole))
	})

	t.Run("duplicate vet email", func(t *testing.T) {
		f := newClinicFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.usecase.AddStaff(ctx, f.primary(), f.clinic.ID, &dto.CreateStaffRequest{
			StaffType:     staffTypeVeterinarian,
			FullName:      "Dr. Copy",
			Email:         "primary@example.com",
			Role:          string(entity.VetRoleSenior),
			Password:      "secret123",
			LicenseNumber: "LIC-3",
		})
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("normal access cannot add staff", func(t *testing.T) {
		f := newClinicFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.usecase.AddStaff(ctx, vetPrincipal(uuid.New(), entity.AccessLevelNormalAccess, &f.clinic.ID), f.clinic.ID, &dto.CreateStaffRequest{
			StaffType: staffTypeStaff,
			FullName:  "Budi",
			Email:     "budi@example.com",
			Role:      string(entity.StaffRoleNurse),
		})
		assert.True(t, errors.Is(err, ErrForbidden))
	})
}

func TestDeleteStaff(t *testing.T) {
	ctx := context.Background()

	t.Run("full access cannot delete", func(t *testing.T) {
		f := newClinicFixture(t)
		staff := &entity.ClinicStaff{ID: uuid.New(), ClinicID: f.clinic.ID, Role: entity.StaffRoleNurse}
		f.staff.staff[staff.ID] = staff
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		err := f.usecase.DeleteStaff(ctx, vetPrincipal(uuid.New(), entity.AccessLevelFullAccess, &f.clinic.ID), f.clinic.ID, staff.ID)
		assert.True(t, errors.Is(err, ErrForbidden))
		assert.False(t, staff.IsDeleted)
	})

	t.Run("primary soft deletes", func(t *testing.T) {
		f := newClinicFixture(t)
		staff := &entity.ClinicStaff{ID: uuid.New(), ClinicID: f.clinic.ID, Role: entity.StaffRoleNurse}
		f.staff.staff[staff.ID] = staff
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		require.NoError(t, f.usecase.DeleteStaff(ctx, f.primary(), f.clinic.ID, staff.ID))
		assert.True(t, staff.IsDeleted)
		assert.NotNil(t, staff.DeletedAt)
	})

	t.Run("staff of another clinic", func(t *testing.T) {
		f := newClinicFixture(t)
		staff := &entity.ClinicStaff{ID: uuid.New(), ClinicID: uuid.New(), Role: entity.StaffRoleNurse}
		f.staff.staff[staff.ID] = staff
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		err := f.usecase.DeleteStaff(ctx, f.primary(), f.clinic.ID, staff.ID)
		assert.True(t, errors.Is(err, ErrStaffNotFound))
	})
}

func TestDeleteClinicRequiresOwnership(t *testing.T) {
	ctx := context.Background()
	f := newClinicFixture(t)

	otherPrimary := vetPrincipal(uuid.New(), entity.AccessLevelPrimary, nil)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	err := f.usecase.DeleteClinic(ctx, otherPrimary, f.clinic.ID)
	assert.True(t, errors.Is(err, ErrForbidden))

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	require.NoError(t, f.usecase.DeleteClinic(ctx, f.primary(), f.clinic.ID))

	_, err = f.usecase.GetClinic(ctx, ownerPrincipal(uuid.New()), f.clinic.ID)
	assert.True(t, errors.Is(err, ErrClinicNotFound))
}
