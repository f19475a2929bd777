package usecase

import (
	"context"
	"errors"
	"testing"

	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwitchActiveClinic(t *testing.T) {
	ctx := context.Background()
	db, mock := newTestDB(t)
	vet := &entity.Veterinarian{ID: uuid.New(), FullName: "drh. Ayu", Email: "ayu@example.com"}
	member := &entity.Clinic{ID: uuid.New(), Name: "Paws", PrimaryVetID: uuid.New()}
	stranger := &entity.Clinic{ID: uuid.New(), Name: "Claws", PrimaryVetID: uuid.New()}
	memberships := newFakeMembershipRepo()
	memberships.members[membershipKey{member.ID, vet.ID}] = true
	audit := &fakeAuditService{}
	uc := NewVeterinarianUsecase(db, newTestLogger(), newFakeVetRepo(vet), memberships, newFakeClinicRepo(member, stranger),
		newTestAuthorizer(t), audit, newMemoryTokenStore())
	principal := vetPrincipal(vet.ID, entity.AccessLevelNormalAccess, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := uc.SwitchActiveClinic(ctx, principal, &dto.SwitchActiveClinicRequest{ClinicID: member.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, &member.ID, resp.CurrentActiveClinicID)
	assert.Equal(t, []string{entity.AuditActionVetSwitchClinic}, audit.actions)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = uc.SwitchActiveClinic(ctx, principal, &dto.SwitchActiveClinicRequest{ClinicID: stranger.ID.String()})
	assert.True(t, errors.Is(err, ErrNotClinicMember))
	assert.Equal(t, &member.ID, vet.CurrentActiveClinicID)
	assert.Len(t, audit.actions, 1)

	_, err = uc.SwitchActiveClinic(ctx, ownerPrincipal(uuid.New()), &dto.SwitchActiveClinicRequest{ClinicID: member.ID.String()})
	assert.True(t, errors.Is(err, ErrForbidden))
}
