package usecase

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"vetcare-backend/internal/domain/entity"
	"vetcare-backend/internal/domain/repository"
	"vetcare-backend/internal/service"
	"vetcare-backend/pkg/jwt"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestDB backs gorm with sqlmock; fake repositories never issue queries, so only
// transaction boundaries need expectations.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func newTestAuthorizer(t *testing.T) service.Authorizer {
	t.Helper()
	authz, err := service.NewAuthorizer(newTestLogger())
	require.NoError(t, err)
	return authz
}

func ownerPrincipal(id uuid.UUID) *entity.Principal {
	return &entity.Principal{ID: id, Role: entity.RoleOwner, Email: "owner@example.com"}
}

func vetPrincipal(id uuid.UUID, level entity.AccessLevel, activeClinic *uuid.UUID, owned ...uuid.UUID) *entity.Principal {
	return &entity.Principal{
		ID:           id,
		Role:         entity.RoleVet,
		Email:        "vet@example.com",
		AccessLevel:  level,
		ClinicID:     activeClinic,
		OwnedClinics: owned,
	}
}

type fakeOwnerRepo struct {
	owners map[uuid.UUID]*entity.Owner
}

func newFakeOwnerRepo(owners ...*entity.Owner) *fakeOwnerRepo {
	r := &fakeOwnerRepo{owners: make(map[uuid.UUID]*entity.Owner)}
	for _, o := range owners {
		r.owners[o.ID] = o
	}
	return r
}

func (r *fakeOwnerRepo) Create(db *gorm.DB, owner *entity.Owner) error {
	if owner.ID == uuid.Nil {
		owner.ID = uuid.New()
	}
	r.owners[owner.ID] = owner
	return nil
}

func (r *fakeOwnerRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Owner, error) {
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
	vets map[uuid.UUID]*entity.Veterinarian
}

func newFakeVetRepo(vets ...*entity.Veterinarian) *fakeVetRepo {
	r := &fakeVetRepo{vets: make(map[uuid.UUID]*entity.Veterinarian)}
	for _, v := range vets {
		r.vets[v.ID] = v
	}
	return r
}

func (r *fakeVetRepo) Create(db *gorm.DB, vet *entity.Veterinarian) error {
	if vet.ID == uuid.Nil {
		vet.ID = uuid.New()
	}
	r.vets[vet.ID] = vet
	return nil
}

func (r *fakeVetRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Veterinarian, error) {
	return r.vets[id], nil
}

func (r *fakeVetRepo) FindByEmail(db *gorm.DB, email string) (*entity.Veterinarian, error) {
	for _, v := range r.vets {
		if v.Email == email {
			return v, nil
		}
	}
	return nil, nil
}

func (r *fakeVetRepo) FindByLicenseNumber(db *gorm.DB, licenseNumber string) (*entity.Veterinarian, error) {
	for _, v := range r.vets {
		if v.LicenseNumber == licenseNumber {
			return v, nil
		}
	}
	return nil, nil
}

func (r *fakeVetRepo) FindByClinic(db *gorm.DB, clinicID uuid.UUID) ([]entity.Veterinarian, error) {
	var vets []entity.Veterinarian
	for _, v := range r.vets {
		if v.CurrentActiveClinicID != nil && *v.CurrentActiveClinicID == clinicID {
			vets = append(vets, *v)
		}
	}
	return vets, nil
}

func (r *fakeVetRepo) Update(db *gorm.DB, vet *entity.Veterinarian) error {
	r.vets[vet.ID] = vet
	return nil
}

type membershipKey struct {
	clinicID uuid.UUID
	vetID    uuid.UUID
}

type fakeMembershipRepo struct {
	members map[membershipKey]bool
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{members: make(map[membershipKey]bool)}
}

func (r *fakeMembershipRepo) Create(db *gorm.DB, membership *entity.ClinicMembership) error {
	r.members[membershipKey{membership.ClinicID, membership.VeterinarianID}] = true
	return nil
}

func (r *fakeMembershipRepo) Exists(db *gorm.DB, clinicID, vetID uuid.UUID) (bool, error) {
	return r.members[membershipKey{clinicID, vetID}], nil
}

func (r *fakeMembershipRepo) FindClinicIDsByVet(db *gorm.DB, vetID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for k := range r.members {
		if k.vetID == vetID {
			ids = append(ids, k.clinicID)
		}
	}
	return ids, nil
}

type fakeClinicRepo struct {
	clinics map[uuid.UUID]*entity.Clinic
}

func newFakeClinicRepo(clinics ...*entity.Clinic) *fakeClinicRepo {
	r := &fakeClinicRepo{clinics: make(map[uuid.UUID]*entity.Clinic)}
	for _, c := range clinics {
		r.clinics[c.ID] = c
	}
	return r
}

func (r *fakeClinicRepo) Create(db *gorm.DB, clinic *entity.Clinic) error {
	if clinic.ID == uuid.Nil {
		clinic.ID = uuid.New()
	}
	r.clinics[clinic.ID] = clinic
	return nil
}

func (r *fakeClinicRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Clinic, error) {
	return r.clinics[id], nil
}

func (r *fakeClinicRepo) FindAll(db *gorm.DB, filter repository.ClinicFilter) ([]entity.Clinic, int64, error) {
	var clinics []entity.Clinic
	for _, c := range r.clinics {
		if !c.IsDeleted {
			clinics = append(clinics, *c)
		}
	}
	return clinics, int64(len(clinics)), nil
}

func (r *fakeClinicRepo) FindWithLocation(db *gorm.DB) ([]entity.Clinic, error) {
	var clinics []entity.Clinic
	for _, c := range r.clinics {
		if !c.IsDeleted && c.Latitude != nil && c.Longitude != nil {
			clinics = append(clinics, *c)
		}
	}
	return clinics, nil
}

func (r *fakeClinicRepo) FindByIDs(db *gorm.DB, ids []uuid.UUID) ([]entity.Clinic, error) {
	var clinics []entity.Clinic
	for _, id := range ids {
		if c, ok := r.clinics[id]; ok && !c.IsDeleted {
			clinics = append(clinics, *c)
		}
	}
	return clinics, nil
}

func (r *fakeClinicRepo) Update(db *gorm.DB, clinic *entity.Clinic) error {
	r.clinics[clinic.ID] = clinic
	return nil
}

type fakePetRepo struct {
	pets map[uuid.UUID]*entity.Pet
}

func newFakePetRepo(pets ...*entity.Pet) *fakePetRepo {
	r := &fakePetRepo{pets: make(map[uuid.UUID]*entity.Pet)}
	for _, p := range pets {
		r.pets[p.ID] = p
	}
	return r
}

func (r *fakePetRepo) Create(db *gorm.DB, pet *entity.Pet) error {
	if pet.ID == uuid.Nil {
		pet.ID = uuid.New()
	}
	r.pets[pet.ID] = pet
	return nil
}

func (r *fakePetRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Pet, error) {
	return r.pets[id], nil
}

func (r *fakePetRepo) FindByOwner(db *gorm.DB, ownerID uuid.UUID) ([]entity.Pet, error) {
	var pets []entity.Pet
	for _, p := range r.pets {
		if p.OwnerID == ownerID && !p.IsDeleted {
			pets = append(pets, *p)
		}
	}
	return pets, nil
}

func (r *fakePetRepo) FindByClinic(db *gorm.DB, clinicID uuid.UUID, status entity.RegistrationStatus) ([]entity.Pet, error) {
	var pets []entity.Pet
	for _, p := range r.pets {
		if p.RegisteredClinicID == nil || *p.RegisteredClinicID != clinicID || p.IsDeleted {
			continue
		}
		if status != entity.RegistrationNone && p.RegistrationStatus != status {
			continue
		}
		pets = append(pets, *p)
	}
	return pets, nil
}

func (r *fakePetRepo) Update(db *gorm.DB, pet *entity.Pet) error {
	r.pets[pet.ID] = pet
	return nil
}

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*entity.Appointment
	createErr    error
}

func newFakeAppointmentRepo(appointments ...*entity.Appointment) *fakeAppointmentRepo {
	r := &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*entity.Appointment)}
	for _, a := range appointments {
		r.appointments[a.ID] = a
	}
	return r
}

func (r *fakeAppointmentRepo) Create(db *gorm.DB, appointment *entity.Appointment) error {
	if r.createErr != nil {
		return r.createErr
	}
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	r.appointments[appointment.ID] = appointment
	return nil
}

func (r *fakeAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	a, ok := r.appointments[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAppointmentRepo) FindByOwner(db *gorm.DB, ownerID uuid.UUID) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range r.appointments {
		if a.OwnerID == ownerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) FindByVeterinarian(db *gorm.DB, vetID uuid.UUID) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range r.appointments {
		if a.VeterinarianID == vetID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) FindByClinic(db *gorm.DB, clinicID uuid.UUID, status entity.AppointmentStatus) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range r.appointments {
		if a.ClinicID == clinicID && (status == "" || a.Status == status) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) FindActiveBySlot(db *gorm.DB, vetID uuid.UUID, at time.Time, excludeID *uuid.UUID) (*entity.Appointment, error) {
	for _, a := range r.appointments {
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if a.VeterinarianID == vetID && a.DateTime.Equal(at) && !a.Status.IsTerminal() {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) Update(db *gorm.DB, appointment *entity.Appointment) error {
	r.appointments[appointment.ID] = appointment
	return nil
}

type fakeRecordRepo struct {
	records     map[uuid.UUID]*entity.MedicalRecord
	visibleOnly []bool
}

func newFakeRecordRepo(records ...*entity.MedicalRecord) *fakeRecordRepo {
	r := &fakeRecordRepo{records: make(map[uuid.UUID]*entity.MedicalRecord)}
	for _, m := range records {
		r.records[m.ID] = m
	}
	return r
}

func (r *fakeRecordRepo) Create(db *gorm.DB, record *entity.MedicalRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	r.records[record.ID] = record
	return nil
}

func (r *fakeRecordRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.MedicalRecord, error) {
	return r.records[id], nil
}

func (r *fakeRecordRepo) FindByPet(db *gorm.DB, petID uuid.UUID, visibleOnly bool) ([]entity.MedicalRecord, error) {
	r.visibleOnly = append(r.visibleOnly, visibleOnly)
	var out []entity.MedicalRecord
	for _, m := range r.records {
		if m.PetID != petID || m.IsDeleted {
			continue
		}
		if visibleOnly && !m.VisibleToOwner {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (r *fakeRecordRepo) Update(db *gorm.DB, record *entity.MedicalRecord) error {
	r.records[record.ID] = record
	return nil
}

func (r *fakeRecordRepo) Delete(db *gorm.DB, id uuid.UUID) error {
	delete(r.records, id)
	return nil
}

type fakePrescriptionRepo struct {
	prescriptions map[uuid.UUID]*entity.Prescription
}

func newFakePrescriptionRepo(prescriptions ...*entity.Prescription) *fakePrescriptionRepo {
	r := &fakePrescriptionRepo{prescriptions: make(map[uuid.UUID]*entity.Prescription)}
	for _, p := range prescriptions {
		r.prescriptions[p.ID] = p
	}
	return r
}

func (r *fakePrescriptionRepo) Create(db *gorm.DB, prescription *entity.Prescription) error {
	if prescription.ID == uuid.Nil {
		prescription.ID = uuid.New()
	}
	r.prescriptions[prescription.ID] = prescription
	return nil
}

func (r *fakePrescriptionRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Prescription, error) {
	return r.prescriptions[id], nil
}

func (r *fakePrescriptionRepo) FindByPet(db *gorm.DB, petID uuid.UUID) ([]entity.Prescription, error) {
	var out []entity.Prescription
	for _, p := range r.prescriptions {
		if p.PetID == petID && !p.IsDeleted {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePrescriptionRepo) Update(db *gorm.DB, prescription *entity.Prescription) error {
	r.prescriptions[prescription.ID] = prescription
	return nil
}

func (r *fakePrescriptionRepo) Delete(db *gorm.DB, id uuid.UUID) error {
	delete(r.prescriptions, id)
	return nil
}

type fakeChatRepo struct {
	messages []entity.ChatMessage
	limits   []int64
}

func (r *fakeChatRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	message.ID = primitive.NewObjectID()
	r.messages = append(r.messages, *message)
	return nil
}

func (r *fakeChatRepo) FindByPet(ctx context.Context, petID string, limit int64) ([]entity.ChatMessage, error) {
	r.limits = append(r.limits, limit)
	var out []entity.ChatMessage
	for _, m := range r.messages {
		if m.PetID == petID {
			out = append(out, m)
		}
	}
	if int64(len(out)) > limit {
		out = out[int64(len(out))-limit:]
	}
	return out, nil
}

type fakeAuditLogRepo struct {
	logs    []entity.AuditLog
	queried [][]uuid.UUID
}

func (r *fakeAuditLogRepo) Create(db *gorm.DB, log *entity.AuditLog) error {
	log.ID = int64(len(r.logs) + 1)
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeAuditLogRepo) FindByClinics(db *gorm.DB, clinicIDs []uuid.UUID, limit, offset int) ([]entity.AuditLog, int64, error) {
	r.queried = append(r.queried, clinicIDs)
	var out []entity.AuditLog
	for _, l := range r.logs {
		if l.ClinicID == nil {
			continue
		}
		for _, id := range clinicIDs {
			if *l.ClinicID == id {
				out = append(out, l)
				break
			}
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeAuditLogRepo) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	for i := range r.logs {
		if r.logs[i].ID == id {
			return &r.logs[i], nil
		}
	}
	return nil, nil
}

type fakeAuditService struct {
	actions []string
}

func (s *fakeAuditService) LogCreate(ctx context.Context, tx *gorm.DB, actor *entity.Principal, clinicID *uuid.UUID, action, entityName, entityID string, newValue interface{}) error {
	s.actions = append(s.actions, action)
	return nil
}

func (s *fakeAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, actor *entity.Principal, clinicID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	s.actions = append(s.actions, action)
	return nil
}

func (s *fakeAuditService) LogDelete(ctx context.Context, tx *gorm.DB, actor *entity.Principal, clinicID *uuid.UUID, action, entityName, entityID string, oldValue interface{}) error {
	s.actions = append(s.actions, action)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *fakePublisher) Publish(ctx context.Context, name string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, name)
	return nil
}

func (p *fakePublisher) Close() error {
	return nil
}

type fakeStorage struct {
	enabled bool
	objects map[string]bool
}

func newFakeStorage(enabled bool) *fakeStorage {
	return &fakeStorage{enabled: enabled, objects: make(map[string]bool)}
}

func (s *fakeStorage) Enabled() bool {
	return s.enabled
}

func (s *fakeStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	s.objects[key] = true
	return nil
}

func (s *fakeStorage) PresignedURL(ctx context.Context, key, fileName string) (string, error) {
	return "https://storage.local/" + key, nil
}

func (s *fakeStorage) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(s.objects, k)
	}
	return nil
}

type tokenEntry struct {
	userID    uuid.UUID
	tokenType jwt.TokenType
	tokenID   string
}

type memoryTokenStore struct {
	mu     sync.Mutex
	tokens map[tokenEntry]bool
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{tokens: make(map[tokenEntry]bool)}
}

func (s *memoryTokenStore) Store(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenEntry{userID, tokenType, tokenID}] = true
	return nil
}

func (s *memoryTokenStore) Exists(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[tokenEntry{userID, tokenType, tokenID}], nil
}

func (s *memoryTokenStore) Revoke(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, tokenEntry{userID, tokenType, tokenID})
	return nil
}

func (s *memoryTokenStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.tokens {
		if k.userID == userID {
			delete(s.tokens, k)
		}
	}
	return nil
}

func (s *memoryTokenStore) count(userID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.tokens {
		if k.userID == userID {
			n++
		}
	}
	return n
}
