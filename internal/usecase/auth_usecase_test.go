package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"vetcare-backend/config"
	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/domain/entity"
	"vetcare-backend/internal/service"
	"vetcare-backend/pkg/apperror"
	"vetcare-backend/pkg/jwt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type authFixture struct {
	usecase AuthUsecase
	owners  *fakeOwnerRepo
	vets    *fakeVetRepo
	audit   *fakeAuditService
	tokens  *memoryTokenStore
	jwt     *jwt.JWTService
}

func newAuthFixture(t *testing.T, db *gorm.DB) *authFixture {
	t.Helper()
	f := &authFixture{
		owners: newFakeOwnerRepo(),
		vets:   newFakeVetRepo(),
		audit:  &fakeAuditService{},
		tokens: newMemoryTokenStore(),
		jwt: jwt.NewJWTService(config.JWTConfig{
			Secret:        "test-secret",
			AccessExpiry:  time.Minute,
			RefreshExpiry: time.Hour,
		}),
	}
	f.usecase = NewAuthUsecase(db, newTestLogger(), f.owners, f.vets, f.audit, f.jwt, f.tokens)
	return f
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestRegisterOwnerHidesPassword(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	f := newAuthFixture(t, db)

	resp, err := f.usecase.RegisterOwner(context.Background(), &dto.RegisterOwnerRequest{
		FullName: "Jane Owner",
		Email:    " Jane@Example.com ",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", resp.Email)
	assert.Equal(t, []string{entity.AuditActionOwnerRegister}, f.audit.actions)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), "secret123")

	stored := f.owners.owners[resp.ID]
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterOwnerRejectsDuplicateEmail(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *authFixture)
	}{
		{
			name: "owner table",
			setup: func(f *authFixture) {
				f.owners.owners[uuid.New()] = &entity.Owner{Email: "taken@example.com"}
			},
		},
		{
			name: "veterinarian table",
			setup: func(f *authFixture) {
				id := uuid.New()
				f.vets.vets[id] = &entity.Veterinarian{ID: id, Email: "taken@example.com"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newTestDB(t)
			mock.ExpectBegin()
			mock.ExpectRollback()
			f := newAuthFixture(t, db)
			tt.setup(f)

			_, err := f.usecase.RegisterOwner(context.Background(), &dto.RegisterOwnerRequest{
				FullName: "Dup",
				Email:    "Taken@example.com",
				Password: "secret123",
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrEmailAlreadyExists))
			assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
			assert.Empty(t, f.audit.actions)
		})
	}
}

func TestRegisterVeterinarianRejectsDuplicateLicense(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()
	f := newAuthFixture(t, db)
	existing := uuid.New()
	f.vets.vets[existing] = &entity.Veterinarian{ID: existing, Email: "first@example.com", LicenseNumber: "LIC-1"}

	_, err := f.usecase.RegisterVeterinarian(context.Background(), &dto.RegisterVeterinarianRequest{
		FullName:      "Second Vet",
		Email:         "second@example.com",
		Password:      "secret123",
		LicenseNumber: "LIC-1",
	})
	assert.True(t, errors.Is(err, ErrLicenseAlreadyExists))
}

func TestRegisterVeterinarianCreatesPrimary(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	f := newAuthFixture(t, db)

	resp, err := f.usecase.RegisterVeterinarian(context.Background(), &dto.RegisterVeterinarianRequest{
		FullName:      "Dr. Vet",
		Email:         "vet@example.com",
		Password:      "secret123",
		LicenseNumber: "LIC-9",
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.AccessLevelPrimary), resp.AccessLevel)
	assert.Equal(t, string(entity.VetStatusActive), resp.Status)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	db, _ := newTestDB(t)
	f := newAuthFixture(t, db)

	vetID := uuid.New()
	f.vets.vets[vetID] = &entity.Veterinarian{
		ID:       vetID,
		Email:    "vet@example.com",
		Password: hashPassword(t, "vetpass"),
		Status:   entity.VetStatusActive,
	}
	inactiveID := uuid.New()
	f.vets.vets[inactiveID] = &entity.Veterinarian{
		ID:       inactiveID,
		Email:    "gone@example.com",
		Password: hashPassword(t, "vetpass"),
		Status:   entity.VetStatusDeactivated,
	}
	ownerID := uuid.New()
	f.owners.owners[ownerID] = &entity.Owner{
		ID:       ownerID,
		Email:    "owner@example.com",
		Password: hashPassword(t, "ownerpass"),
	}

	t.Run("vet", func(t *testing.T) {
		resp, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "VET@example.com", Password: "vetpass"})
		require.NoError(t, err)
		assert.Equal(t, "vet", resp.Role)

		claims, err := f.jwt.ValidateToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, vetID, claims.UserID)
		assert.Equal(t, "vet", claims.Role)
		assert.Equal(t, 2, f.tokens.count(vetID))
	})

	t.Run("owner", func(t *testing.T) {
		resp, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "owner@example.com", Password: "ownerpass"})
		require.NoError(t, err)
		assert.Equal(t, "owner", resp.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "owner@example.com", Password: "nope"})
		assert.True(t, errors.Is(err, ErrInvalidCredentials))
		assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))
	})

	t.Run("role mismatch", func(t *testing.T) {
		_, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "owner@example.com", Password: "ownerpass", Role: "vet"})
		assert.True(t, errors.Is(err, ErrInvalidCredentials))
	})

	t.Run("inactive vet", func(t *testing.T) {
		_, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "gone@example.com", Password: "vetpass"})
		assert.True(t, errors.Is(err, service.ErrAccountInactive))
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})
}

func TestRefreshTokenIsSingleUse(t *testing.T) {
	ctx := context.Background()
	db, _ := newTestDB(t)
	f := newAuthFixture(t, db)

	ownerID := uuid.New()
	f.owners.owners[ownerID] = &entity.Owner{ID: ownerID, Email: "owner@example.com", Password: hashPassword(t, "ownerpass")}

	login, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "owner@example.com", Password: "ownerpass"})
	require.NoError(t, err)

	refreshed, err := f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, "owner", refreshed.Role)

	_, err = f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.True(t, errors.Is(err, ErrTokenRevoked))

	_, err = f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: refreshed.AccessToken})
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestLogoutRevokesSession(t *testing.T) {
	ctx := context.Background()
	db, _ := newTestDB(t)
	f := newAuthFixture(t, db)

	ownerID := uuid.New()
	f.owners.owners[ownerID] = &entity.Owner{ID: ownerID, Email: "owner@example.com", Password: hashPassword(t, "ownerpass")}

	login, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "owner@example.com", Password: "ownerpass"})
	require.NoError(t, err)
	access, err := f.jwt.ValidateToken(login.AccessToken)
	require.NoError(t, err)

	err = f.usecase.Logout(ctx, ownerPrincipal(ownerID), access.TokenID, login.RefreshToken)
	require.NoError(t, err)
	assert.Zero(t, f.tokens.count(ownerID))
}
