package usecase

import (
	"context"
	"sort"
	"time"

	"vetcare-backend/internal/converter"
	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/domain/entity"
	"vetcare-backend/internal/domain/repository"
	"vetcare-backend/internal/service"
	"vetcare-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	staffTypeVeterinarian = "veterinarian"
	staffTypeStaff        = "staff"

	defaultPageLimit = 20
	maxPageLimit     = 100
)

var (
	ErrClinicNotFound   = apperror.NotFound("clinic")
	ErrStaffNotFound    = apperror.NotFound("staff")
	ErrInvalidVetRole   = apperror.Validation("role must be one of: senior, associate, intern")
	ErrInvalidStaffRole = apperror.Validation("role must be one of: receptionist, assistant, technician, nurse, practice_manager")
	ErrNegativeFee      = apperror.Validation("consultation_fee must not be negative")
)

type ClinicUsecase interface {
	CreateClinic(ctx context.Context, principal *entity.Principal, req *dto.CreateClinicRequest) (*dto.ClinicResponse, error)
	GetAllClinics(ctx context.Context, principal *entity.Principal, req *dto.ListClinicsRequest) (*dto.ClinicListResponse, error)
	GetNearbyClinics(ctx context.Context, principal *entity.Principal, req *dto.NearbyClinicsRequest) ([]dto.ClinicResponse, error)
	GetClinic(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.ClinicResponse, error)
	UpdateClinic(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.UpdateClinicRequest) (*dto.ClinicResponse, error)
	DeleteClinic(ctx context.Context, principal *entity.Principal, id uuid.UUID) error

	GetStaff(ctx context.Context, principal *entity.Principal, clinicID uuid.UUID) (*dto.ClinicStaffListResponse, error)
	AddStaff(ctx context.Context, principal *entity.Principal, clinicID uuid.UUID, req *dto.CreateStaffRequest) (*dto.CreateStaffResponse, error)
	UpdateStaff(ctx context.Context, principal *entity.Principal, clinicID, staffID uuid.UUID, req *dto.UpdateStaffRequest) (*dto.StaffResponse, error)
	DeleteStaff(ctx context.Context, principal *entity.Principal, clinicID, staffID uuid.UUID) error

	GetClinicPets(ctx context.Context, principal *entity.Principal, clinicID uuid.UUID, status string) ([]dto.PetResponse, error)
	GetClinicAppointments(ctx context.Context, principal *entity.Principal, clinicID uuid.UUID, status string) ([]dto.AppointmentResponse, error)
}

type clinicUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	clinicRepo      repository.ClinicRepository
	staffRepo       repository.ClinicStaffRepository
	vetRepo         repository.VeterinarianRepository
	membershipRepo  repository.ClinicMembershipRepository
	ownerRepo       repository.OwnerRepository
	petRepo         repository.PetRepository
	appointmentRepo repository.AppointmentRepository
	authz           service.Authorizer
	auditService    service.AuditService
}

func NewClinicUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clinicRepo repository.ClinicRepository,
	staffRepo repository.ClinicStaffRepository,
	vetRepo repository.VeterinarianRepository,
	membershipRepo repository.ClinicMembershipRepository,
	ownerRepo repository.OwnerRepository,
	petRepo repository.PetRepository,
	appointmentRepo repository.AppointmentRepository,
	authz service.Authorizer,
	auditService service.AuditService,
) ClinicUsecase {
	return &clinicUsecase{
		db:              db,
		log:             log,
		clinicRepo:      clinicRepo,
		staffRepo:       staffRepo,
		vetRepo:         vetRepo,
		membershipRepo:  membershipRepo,
		ownerRepo:       ownerRepo,
		petRepo:         petRepo,
		appointmentRepo: appointmentRepo,
		authz:           authz,
		auditService:    auditService,
	}
}

// CreateClinic makes the principal the clinic's primary vet and, when it has none,
// its active clinic.
func (u *clinicUsecase) CreateClinic(ctx context.Context, principal *entity.Principal, req *dto.CreateClinicRequest) (*dto.ClinicResponse, error) {
	if err := authorize(u.authz, principal, service.ResourceClinic, service.ActionCreate); err != nil {
		return nil, err
	}

	fee := decimal.Zero
	if req.ConsultationFee != nil {
		if req.ConsultationFee.IsNegative() {
			return nil, ErrNegativeFee
		}
		fee = *req.ConsultationFee
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	clinic := &entity.Clinic{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		City:            req.City,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		ConsultationFee: fee,
		OpeningHours:    req.OpeningHours,
		PrimaryVetID:    principal.ID,
	}

	if err := u.clinicRepo.Create(tx, clinic); err != nil {
		u.log.Warnf("Failed to create clinic: %+v", err)
		return nil, apperror.Internal(err)
	}

	vet, err := u.vetRepo.FindByID(tx, principal.ID)
	if err != nil {
		u.log.Warnf("Failed to find veterinarian: %+v", err)
		return nil, apperror.Internal(err)
	}
	if vet == nil {
		return nil, ErrVeterinarianNotFound
	}
	if vet.CurrentActiveClinicID == nil {
		vet.CurrentActiveClinicID = &clinic.ID
		if err := u.vetRepo.Update(tx, vet); err != nil {
			u.log.Warnf("Failed to set active clinic: %+v", err)
			return nil, apperror.Internal(err)
		}
	}

	response := converter.ClinicToResponse(clinic)
	if err := u.auditService.LogCreate(ctx, tx, principal, &clinic.ID, entity.AuditActionClinicCreate, "clinic", clinic.ID.String(), response); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}

	return response, nil
}

func (u *clinicUsecase) GetAllClinics(ctx context.Context, principal *entity.Principal, req *dto.ListClinicsRequest) (*dto.ClinicListResponse, error) {
	if err := authorize(u.authz, principal, service.ResourceClinic, service.ActionRead); err != nil {
		return nil, err
	}

	page, limit := normalizePage(req.Page, req.Limit)
	clinics, total, err := u.clinicRepo.FindAll(u.db.WithContext(ctx), repository.ClinicFilter{
		City:   req.City,
		Search: req.Search,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		u.log.Warnf("Failed to find clinics: %+v", err)
		return nil, apperror.Internal(err)
	}

	return &dto.ClinicListResponse{
		Clinics: converter.ClinicsToResponses(clinics),
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}

// GetNearbyClinics ranks geo-located clinics by great-circle distance.
func (u *clinicUsecase) GetNearbyClinics(ctx context.Context, principal *entity.Principal, req *dto.NearbyClinicsRequest) ([]dto.ClinicResponse, error) {
	if err := authorize(u.authz, principal, service.ResourceClinic, service.ActionRead); err != nil {
		return nil, err
	}

	clinics, err := u.clinicRepo.FindWithLocation(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find clinics with location: %+v", err)
		return nil, apperror.Internal(err)
	}

	responses := make([]dto.ClinicResponse, 0, len(clinics))
	for i := range clinics {
		distance, ok := clinics[i].DistanceKm(req.Latitude, req.Longitude)
		if !ok || distance > req.RadiusKm {
			continue
		}
		response := converter.ClinicToResponse(&clinics[i])
		response.DistanceKm = &distance
		responses = append(responses, *response)
	}

	sort.SliceStable(responses, func(i, j int) bool {
		return *responses[i].DistanceKm < *responses[j].DistanceKm
	})
	if req.Limit > 0 && len(responses) > req.Limit {
		responses = responses[:req.Limit]
	}
	return responses, nil
}

func (u *clinicUsecase) GetClinic(ctx context.Context, principal *entity.Principal, id uuid.UUID) (*dto.ClinicResponse, error) {
	if err := authorize(u.authz, principal, service.ResourceClinic, service.ActionRead); err != nil {
		return nil, err
	}

	clinic, err := findActiveClinic(u.db.WithContext(ctx), u.log, u.clinicRepo, id)
	if err != nil {
		return nil, err
	}
	return converter.ClinicToResponse(clinic), nil
}

func (u *clinicUsecase) UpdateClinic(ctx context.Context, principal *entity.Principal, id uuid.UUID, req *dto.UpdateClinicRequest) (*dto.ClinicResponse, error) {
	if err := authorize(u.authz, principal, service.ResourceClinic, service.ActionUpdate); err != nil {
		return nil, err
	}
	if req.ConsultationFee != nil && req.ConsultationFee.IsNegative() {
		return nil, ErrNegativeFee
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	clinic, err := findActiveClinic(tx, u.log, u.clinicRepo, id)
	if err != nil {
		return nil, err
	}
	if !principal.OwnsClinic(clinic.ID) {
		return nil, ErrForbidden
	}
	before := converter.ClinicToResponse(clinic)

	if req.Name != nil {
		clinic.Name = *req.Name
	}
	if req.Email != nil {
		clinic.Email = *req.Email
	}
	if req.Phone != nil {
		clinic.Phone = *req.Phone
	}
	if req.Address != nil {
		clinic.Address = *req.Address
	}
	if req.City != nil {
		clinic.City = *req.City
	}
	if req.Latitude != nil {
		clinic.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		clinic.Longitude = req.Longitude
	}
	if req.ConsultationFee != nil {
		clinic.ConsultationFee = *req.ConsultationFee
	}
	if req.OpeningHours != nil {
		clinic.OpeningHours = *req.OpeningHours
	}

	if err := u.clinicRepo.Update(tx, clinic); err != nil {
		u.log.Warnf("Failed to update clinic: %+v", err)
		return nil, apperror.Internal(err)
	}

	after := converter.ClinicToResponse(clinic)
	if err := u.auditService.LogUpdate(ctx, tx, principal, &clinic.ID, entity.AuditActionClinicUpdate, "clinic", clinic.ID.String(), before, after); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}

	return after, nil
}

func (u *clinicUsecase) DeleteClinic(ctx context.Context, principal *entity.Principal, id uuid.UUID) error {
	if err := authorize(u.authz, principal, service.ResourceClinic, service.ActionDelete); err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	clinic, err := findActiveClinic(tx, u.log, u.clinicRepo, id)
	if err != nil {
		return err
	}
	if !principal.OwnsClinic(clinic.ID) {
		return ErrForbidden
	}

	clinic.SoftDelete(time.Now())
	if err := u.clinicRepo.Update(tx, clinic); err != nil {
		u.log.Warnf("Failed to delete clinic: %+v", err)
		return apperror.Internal(err)
	}

	if err := u.auditService.LogDelete(ctx, tx, principal, &clinic.ID, entity.AuditActionClinicDelete, "clinic", clinic.ID.String(), converter.ClinicToResponse(clinic)); err != nil {
		return apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return apperror.Internal(err)
	}

	return nil
}

func (u *clinicUsecase) GetStaff(ctx context.Context, principal *entity.Principal, clinicID uuid.UUID) (*dto.ClinicStaffListResponse, error) {
	db := u.db.WithContext(ctx)
	if _, err := u.clinicForAction(db, principal, clinicID, service.ResourceStaff, service.ActionRead); err != nil {
		return nil, err
	}

	vets, err := u.vetRepo.FindByClinic(db, clinicID)
	if err != nil {
		u.log.Warnf("Failed to find clinic veterinarians: %+v", err)
		return nil, apperror.Internal(err)
	}

	staff, err := u.staffRepo.FindByClinic(db, clinicID)
	if err != nil {
		u.log.Warnf("Failed to find clinic staff: %+v", err)
		return nil, apperror.Internal(err)
	}

	return &dto.ClinicStaffListResponse{
		Veterinarians: converter.VeterinariansToResponses(vets),
		Staff:         converter.StaffListToResponses(staff),
	}, nil
}

// AddStaff branches on staff type: a veterinarian sub-account with a clinic
// membership, or a non-veterinary staff record.
func (u *clinicUsecase) AddStaff(ctx context.Context, principal *entity.Principal, clinicID uuid.UUID, req *dto.CreateStaffRequest) (*dto.CreateStaffResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	clinic, err := u.clinicForAction(tx, principal, clinicID, service.ResourceStaff, service.ActionCreate)
	if err != nil {
		return nil, err
	}

	var response *dto.CreateStaffResponse
	switch req.StaffType {
	case staffTypeVeterinarian:
		response, err = u.addVeterinarian(ctx, tx, principal, clinic, req)
	case staffTypeStaff:
		response, err = u.addClinicStaff(ctx, tx, principal, clinic, req)
	default:
		return nil, apperror.Validation("staff_type must be one of: veterinarian, staff")
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}

	return response, nil
}

func (u *clinicUsecase) addVeterinarian(ctx context.Context, tx *gorm.DB, principal *entity.Principal, clinic *entity.Clinic, req *dto.CreateStaffRequest) (*dto.CreateStaffResponse, error) {
	if req.Password == "" || req.LicenseNumber == "" {
		return nil, apperror.Validation("password and license_number are required for veterinarians")
	}

	level, err := entity.AccessLevelForVetRole(entity.VetRole(req.Role), entity.AccessLevel(req.AccessLevel))
	if err != nil {
		if req.AccessLevel != "" {
			return nil, apperror.Validation("access_level must be one of: full_access, normal_access")
		}
		return nil, ErrInvalidVetRole
	}

	email := normalizeEmail(req.Email)
	if err := ensureEmailAvailable(tx, u.log, u.ownerRepo, u.vetRepo, email); err != nil {
		return nil, err
	}
	if err := ensureLicenseAvailable(tx, u.log, u.vetRepo, req.LicenseNumber); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, apperror.Internal(err)
	}

	vet := &entity.Veterinarian{
		FullName:              req.FullName,
		Email:                 email,
		Password:              string(hashedPassword),
		Phone:                 req.Phone,
		LicenseNumber:         req.LicenseNumber,
		Specialization:        req.Specialization,
		AccessLevel:           level,
		Status:                entity.VetStatusActive,
		CurrentActiveClinicID: &clinic.ID,
	}
	if err := u.vetRepo.Create(tx, vet); err != nil {
		return nil, mapVetCreateError(u.log, err)
	}

	membership := &entity.ClinicMembership{ClinicID: clinic.ID, VeterinarianID: vet.ID}
	if err := u.membershipRepo.Create(tx, membership); err != nil {
		u.log.Warnf("Failed to create clinic membership: %+v", err)
		return nil, apperror.Internal(err)
	}

	response := converter.VeterinarianToResponse(vet)
	if err := u.auditService.LogCreate(ctx, tx, principal, &clinic.ID, entity.AuditActionStaffCreate, "veterinarian", vet.ID.String(), response); err != nil {
		return nil, apperror.Internal(err)
	}

	return &dto.CreateStaffResponse{StaffType: staffTypeVeterinarian, Veterinarian: response}, nil
}

func (u *clinicUsecase) addClinicStaff(ctx context.Context, tx *gorm.DB, principal *entity.Principal, clinic *entity.Clinic, req *dto.CreateStaffRequest) (*dto.CreateStaffResponse, error) {
	role := entity.StaffRole(req.Role)
	level, ok := entity.StaffAccessLevelForRole(role)
	if !ok {
		return nil, ErrInvalidStaffRole
	}

	email := normalizeEmail(req.Email)
	existing, err := u.staffRepo.FindByEmail(tx, email)
	if err != nil {
		u.log.Warnf("Failed to find staff by email: %+v", err)
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	staff := &entity.ClinicStaff{
		ClinicID:    clinic.ID,
		FullName:    req.FullName,
		Email:       email,
		Phone:       req.Phone,
		Role:        role,
		AccessLevel: level,
	}
	if err := u.staffRepo.Create(tx, staff); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create clinic staff: %+v", err)
		return nil, apperror.Internal(err)
	}

	response := converter.StaffToResponse(staff)
	if err := u.auditService.LogCreate(ctx, tx, principal, &clinic.ID, entity.AuditActionStaffCreate, "clinic_staff", staff.ID.String(), response); err != nil {
		return nil, apperror.Internal(err)
	}

	return &dto.CreateStaffResponse{StaffType: staffTypeStaff, Staff: response}, nil
}

// UpdateStaff re-derives the access level when the role changes.
func (u *clinicUsecase) UpdateStaff(ctx context.Context, principal *entity.Principal, clinicID, staffID uuid.UUID, req *dto.UpdateStaffRequest) (*dto.StaffResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if _, err := u.clinicForAction(tx, principal, clinicID, service.ResourceStaff, service.ActionUpdate); err != nil {
		return nil, err
	}

	staff, err := u.findStaff(tx, clinicID, staffID)
	if err != nil {
		return nil, err
	}
	before := converter.StaffToResponse(staff)

	if req.FullName != nil {
		staff.FullName = *req.FullName
	}
	if req.Phone != nil {
		staff.Phone = *req.Phone
	}
	if req.Role != nil {
		role := entity.StaffRole(*req.Role)
		level, ok := entity.StaffAccessLevelForRole(role)
		if !ok {
			return nil, ErrInvalidStaffRole
		}
		staff.Role = role
		staff.AccessLevel = level
	}

	if err := u.staffRepo.Update(tx, staff); err != nil {
		u.log.Warnf("Failed to update clinic staff: %+v", err)
		return nil, apperror.Internal(err)
	}

	after := converter.StaffToResponse(staff)
	if err := u.auditService.LogUpdate(ctx, tx, principal, &clinicID, entity.AuditActionStaffUpdate, "clinic_staff", staff.ID.String(), before, after); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}

	return after, nil
}

func (u *clinicUsecase) DeleteStaff(ctx context.Context, principal *entity.Principal, clinicID, staffID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if _, err := u.clinicForAction(tx, principal, clinicID, service.ResourceStaff, service.ActionDelete); err != nil {
		return err
	}

	staff, err := u.findStaff(tx, clinicID, staffID)
	if err != nil {
		return err
	}

	staff.SoftDelete(time.Now())
	if err := u.staffRepo.Update(tx, staff); err != nil {
		u.log.Warnf("Failed to delete clinic staff: %+v", err)
		return apperror.Internal(err)
	}

	if err := u.auditService.LogDelete(ctx, tx, principal, &clinicID, entity.AuditActionStaffDelete, "clinic_staff", staff.ID.String(), converter.StaffToResponse(staff)); err != nil {
		return apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return apperror.Internal(err)
	}

	return nil
}

// GetClinicPets lists pets registered with the clinic; an empty status returns all of them.
func (u *clinicUsecase) GetClinicPets(ctx context.Context, principal *entity.Principal, clinicID uuid.UUID, status string) ([]dto.PetResponse, error) {
	registration := entity.RegistrationStatus(status)
	switch registration {
	case entity.RegistrationNone, entity.RegistrationPending, entity.RegistrationApproved, entity.RegistrationRejected:
	default:
		return nil, apperror.Validation("status must be one of: pending, approved, rejected")
	}

	db := u.db.WithContext(ctx)
	if _, err := u.clinicForAction(db, principal, clinicID, service.ResourcePet, service.ActionRead); err != nil {
		return nil, err
	}

	pets, err := u.petRepo.FindByClinic(db, clinicID, registration)
	if err != nil {
		u.log.Warnf("Failed to find clinic pets: %+v", err)
		return nil, apperror.Internal(err)
	}
	return converter.PetsToResponses(pets), nil
}

func (u *clinicUsecase) GetClinicAppointments(ctx context.Context, principal *entity.Principal, clinicID uuid.UUID, status string) ([]dto.AppointmentResponse, error) {
	appointmentStatus := entity.AppointmentStatus(status)
	switch appointmentStatus {
	case "", entity.AppointmentBooked, entity.AppointmentConfirmed, entity.AppointmentRescheduled, entity.AppointmentCanceled, entity.AppointmentCompleted:
	default:
		return nil, apperror.Validation("status must be one of: booked, confirmed, rescheduled, canceled, completed")
	}

	db := u.db.WithContext(ctx)
	if _, err := u.clinicForAction(db, principal, clinicID, service.ResourceAppointment, service.ActionRead); err != nil {
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindByClinic(db, clinicID, appointmentStatus)
	if err != nil {
		u.log.Warnf("Failed to find clinic appointments: %+v", err)
		return nil, apperror.Internal(err)
	}
	return converter.AppointmentsToResponses(appointments), nil
}

// clinicForAction loads the clinic and requires both the capability and that the
// principal can act for the clinic.
func (u *clinicUsecase) clinicForAction(db *gorm.DB, principal *entity.Principal, clinicID uuid.UUID, resource, action string) (*entity.Clinic, error) {
	if err := authorize(u.authz, principal, resource, action); err != nil {
		return nil, err
	}

	clinic, err := findActiveClinic(db, u.log, u.clinicRepo, clinicID)
	if err != nil {
		return nil, err
	}
	if !principal.CanActForClinic(clinic.ID) {
		return nil, ErrForbidden
	}
	return clinic, nil
}

func (u *clinicUsecase) findStaff(db *gorm.DB, clinicID, staffID uuid.UUID) (*entity.ClinicStaff, error) {
	staff, err := u.staffRepo.FindByID(db, staffID)
	if err != nil {
		u.log.Warnf("Failed to find clinic staff: %+v", err)
		return nil, apperror.Internal(err)
	}
	if staff == nil || staff.IsDeleted || staff.ClinicID != clinicID {
		return nil, ErrStaffNotFound
	}
	return staff, nil
}

func findActiveClinic(db *gorm.DB, log *logrus.Logger, clinicRepo repository.ClinicRepository, id uuid.UUID) (*entity.Clinic, error) {
	clinic, err := clinicRepo.FindByID(db, id)
	if err != nil {
		log.Warnf("Failed to find clinic: %+v", err)
		return nil, apperror.Internal(err)
	}
	if clinic == nil || clinic.IsDeleted {
		return nil, ErrClinicNotFound
	}
	return clinic, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
