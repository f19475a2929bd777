package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"vetcare-backend/internal/domain/entity"
	"vetcare-backend/pkg/jwt"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

type memoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]bool
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{tokens: make(map[string]bool)}
}

func (s *memoryTokenStore) Store(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenKey(userID, tokenType, tokenID)] = true
	return nil
}

func (s *memoryTokenStore) Exists(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[tokenKey(userID, tokenType, tokenID)], nil
}

func (s *memoryTokenStore) Revoke(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, tokenKey(userID, tokenType, tokenID))
	return nil
}

func (s *memoryTokenStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.tokens {
		for _, tt := range []jwt.TokenType{jwt.AccessToken, jwt.RefreshToken} {
			prefix := fmt.Sprintf("%s_token:%s:", tt, userID)
			if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
				delete(s.tokens, k)
			}
		}
	}
	return nil
}

type fakeOwnerRepo struct {
	owners  map[uuid.UUID]*entity.Owner
	lookups *[]string
}

func (r *fakeOwnerRepo) Create(db *gorm.DB, owner *entity.Owner) error {
	r.owners[owner.ID] = owner
	return nil
}

func (r *fakeOwnerRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Owner, error) {
	if r.lookups != nil {
		*r.lookups = append(*r.lookups, "owner")
	}
	return r.owners[id], nil
}

func (r *fakeOwnerRepo) FindByEmail(db *gorm.DB, email string) (*entity.Owner, error) {
	for _, o := range r.owners {
		if o.Email == email {
			return o, nil
		}
	}
	return nil, nil
}

func (r *fakeOwnerRepo) Update(db *gorm.DB, owner *entity.Owner) error {
	r.owners[owner.ID] = owner
	return nil
}

type fakeVetRepo struct {
	vets    map[uuid.UUID]*entity.Veterinarian
	lookups *[]string
}

func (r *fakeVetRepo) Create(db *gorm.DB, vet *entity.Veterinarian) error {
	r.vets[vet.ID] = vet
	return nil
}

func (r *fakeVetRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Veterinarian, error) {
	if r.lookups != nil {
		*r.lookups = append(*r.lookups, "vet")
	}
	return r.vets[id], nil
}

func (r *fakeVetRepo) FindByEmail(db *gorm.DB, email string) (*entity.Veterinarian, error) {
	return nil, nil
}

func (r *fakeVetRepo) FindByLicenseNumber(db *gorm.DB, licenseNumber string) (*entity.Veterinarian, error) {
	return nil, nil
}

func (r *fakeVetRepo) FindByClinic(db *gorm.DB, clinicID uuid.UUID) ([]entity.Veterinarian, error) {
	return nil, nil
}

func (r *fakeVetRepo) Update(db *gorm.DB, vet *entity.Veterinarian) error {
	r.vets[vet.ID] = vet
	return nil
}
