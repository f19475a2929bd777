package usecase

import (
	"context"
	"errors"
	"testing"

	"vetcare-backend/internal/domain/entity"
	"vetcare-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuditLogFixture(t *testing.T) (AuditLogUsecase, *fakeAuditLogRepo, uuid.UUID, uuid.UUID) {
	t.Helper()
	db, _ := newTestDB(t)
	owned := uuid.New()
	foreign := uuid.New()
	repo := &fakeAuditLogRepo{}
	for _, clinicID := range []*uuid.UUID{&owned, &foreign, nil} {
		require.NoError(t, repo.Create(db, &entity.AuditLog{ClinicID: clinicID, Action: entity.AuditActionPetUpdate}))
	}
	return NewAuditLogUsecase(db, newTestLogger(), repo, newTestAuthorizer(t)), repo, owned, foreign
}

func TestGetAuditLogOutsideOwnedClinics(t *testing.T) {
	uc, repo, owned, _ := newAuditLogFixture(t)
	ctx := context.Background()
	primary := vetPrincipal(uuid.New(), entity.AccessLevelPrimary, &owned, owned)

	entry, err := uc.GetAuditLog(ctx, primary, repo.logs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, &owned, entry.ClinicID)

	for _, id := range []int64{repo.logs[1].ID, repo.logs[2].ID, 99} {
		_, err := uc.GetAuditLog(ctx, primary, id)
		assert.True(t, errors.Is(err, ErrAuditLogNotFound))
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	}
}

func TestGetAllAuditLogs(t *testing.T) {
	uc, repo, owned, foreign := newAuditLogFixture(t)
	ctx := context.Background()
	primary := vetPrincipal(uuid.New(), entity.AccessLevelPrimary, &owned, owned)

	list, err := uc.GetAllAuditLogs(ctx, primary, nil, 0, 0)
	require.NoError(t, err)
	require.Len(t, list.Logs, 1)
	assert.Equal(t, &owned, list.Logs[0].ClinicID)
	assert.EqualValues(t, 1, list.Total)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, [][]uuid.UUID{{owned}}, repo.queried)

	_, err = uc.GetAllAuditLogs(ctx, primary, &foreign, 1, 20)
	assert.True(t, errors.Is(err, ErrForbidden))

	_, err = uc.GetAllAuditLogs(ctx, vetPrincipal(uuid.New(), entity.AccessLevelFullAccess, &owned), nil, 1, 20)
	assert.True(t, errors.Is(err, ErrForbidden))

	_, err = uc.GetAuditLog(ctx, ownerPrincipal(uuid.New()), repo.logs[0].ID)
	assert.True(t, errors.Is(err, ErrForbidden))
}
