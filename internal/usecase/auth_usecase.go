package usecase

import (
	"context"
	"strings"

	"vetcare-backend/internal/converter"
	"vetcare-backend/internal/delivery/dto"
	"vetcare-backend/internal/domain/entity"
	"vetcare-backend/internal/domain/repository"
	"vetcare-backend/internal/service"
	"vetcare-backend/pkg/apperror"
	"vetcare-backend/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists   = apperror.Conflict("email already exists")
	ErrLicenseAlreadyExists = apperror.Conflict("license number already exists")
	ErrInvalidCredentials   = apperror.Unauthenticated("invalid email or password")
	ErrInvalidToken         = apperror.Unauthenticated("invalid or expired token")
	ErrTokenRevoked         = apperror.Unauthenticated("token has been revoked")
	ErrUserNotFound         = apperror.NotFound("user")
)

type AuthUsecase interface {
	RegisterOwner(ctx context.Context, req *dto.RegisterOwnerRequest) (*dto.OwnerResponse, error)
	RegisterVeterinarian(ctx context.Context, req *dto.RegisterVeterinarianRequest) (*dto.VeterinarianResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, principal *entity.Principal, accessTokenID, refreshToken string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, principal *entity.Principal) (*dto.MeResponse, error)
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	ownerRepo    repository.OwnerRepository
	vetRepo      repository.VeterinarianRepository
	auditService service.AuditService
	jwtService   *jwt.JWTService
	tokens       service.TokenStore
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	ownerRepo repository.OwnerRepository,
	vetRepo repository.VeterinarianRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	tokens service.TokenStore,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		ownerRepo:    ownerRepo,
		vetRepo:      vetRepo,
		auditService: auditService,
		jwtService:   jwtService,
		tokens:       tokens,
	}
}

func (u *authUsecase) RegisterOwner(ctx context.Context, req *dto.RegisterOwnerRequest) (*dto.OwnerResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	email := normalizeEmail(req.Email)
	if err := ensureEmailAvailable(tx, u.log, u.ownerRepo, u.vetRepo, email); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, apperror.Internal(err)
	}

	owner := &entity.Owner{
		FullName:  req.FullName,
		Email:     email,
		Password:  string(hashedPassword),
		Phone:     req.Phone,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	if err := u.ownerRepo.Create(tx, owner); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create owner: %+v", err)
		return nil, apperror.Internal(err)
	}

	actor := &entity.Principal{ID: owner.ID, Role: entity.RoleOwner, Email: owner.Email}
	if err := u.auditService.LogCreate(ctx, tx, actor, nil, entity.AuditActionOwnerRegister, "owner", owner.ID.String(), converter.OwnerToResponse(owner)); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}

	return converter.OwnerToResponse(owner), nil
}

// RegisterVeterinarian creates a primary veterinarian. Sub-accounts are provisioned
// through clinic staff instead.
func (u *authUsecase) RegisterVeterinarian(ctx context.Context, req *dto.RegisterVeterinarianRequest) (*dto.VeterinarianResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

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
		FullName:       req.FullName,
		Email:          email,
		Password:       string(hashedPassword),
		Phone:          req.Phone,
		LicenseNumber:  req.LicenseNumber,
		Specialization: req.Specialization,
		AccessLevel:    entity.AccessLevelPrimary,
		Status:         entity.VetStatusActive,
	}

	if err := u.vetRepo.Create(tx, vet); err != nil {
		return nil, mapVetCreateError(u.log, err)
	}

	actor := &entity.Principal{ID: vet.ID, Role: entity.RoleVet, Email: vet.Email, AccessLevel: vet.AccessLevel}
	if err := u.auditService.LogCreate(ctx, tx, actor, nil, entity.AuditActionVetRegister, "veterinarian", vet.ID.String(), converter.VeterinarianToResponse(vet)); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}

	return converter.VeterinarianToResponse(vet), nil
}

// Login checks the veterinarian table first, then owners, unless the request names a role.
func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	db := u.db.WithContext(ctx)
	email := normalizeEmail(req.Email)

	if req.Role == "" || req.Role == string(entity.RoleVet) {
		vet, err := u.vetRepo.FindByEmail(db, email)
		if err != nil {
			u.log.Warnf("Failed to find veterinarian by email: %+v", err)
			return nil, apperror.Internal(err)
		}
		if vet != nil {
			if err := bcrypt.CompareHashAndPassword([]byte(vet.Password), []byte(req.Password)); err != nil {
				return nil, ErrInvalidCredentials
			}
			if !vet.IsActive() {
				return nil, service.ErrAccountInactive
			}
			return u.issueTokens(ctx, vet.ID, vet.Email, entity.RoleVet)
		}
	}

	if req.Role == "" || req.Role == string(entity.RoleOwner) {
		owner, err := u.ownerRepo.FindByEmail(db, email)
		if err != nil {
			u.log.Warnf("Failed to find owner by email: %+v", err)
			return nil, apperror.Internal(err)
		}
		if owner != nil && !owner.IsDeleted {
			if err := bcrypt.CompareHashAndPassword([]byte(owner.Password), []byte(req.Password)); err != nil {
				return nil, ErrInvalidCredentials
			}
			return u.issueTokens(ctx, owner.ID, owner.Email, entity.RoleOwner)
		}
	}

	return nil, ErrInvalidCredentials
}

func (u *authUsecase) Logout(ctx context.Context, principal *entity.Principal, accessTokenID, refreshToken string) error {
	if err := u.tokens.Revoke(ctx, principal.ID, jwt.AccessToken, accessTokenID); err != nil {
		u.log.Warnf("Failed to delete access token: %+v", err)
		return apperror.Internal(err)
	}

	// An invalid refresh token is ignored; it expires on its own.
	if refreshToken == "" {
		return nil
	}
	claims, err := u.jwtService.ValidateToken(refreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken || claims.UserID != principal.ID {
		return nil
	}
	if err := u.tokens.Revoke(ctx, principal.ID, jwt.RefreshToken, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete refresh token: %+v", err)
		return apperror.Internal(err)
	}

	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokens.Exists(ctx, claims.UserID, jwt.RefreshToken, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, apperror.Internal(err)
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	// Refresh tokens are single use.
	if err := u.tokens.Revoke(ctx, claims.UserID, jwt.RefreshToken, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, apperror.Internal(err)
	}

	return u.issueTokens(ctx, claims.UserID, claims.Email, entity.Role(claims.Role))
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, principal *entity.Principal) (*dto.MeResponse, error) {
	db := u.db.WithContext(ctx)

	if principal.IsVet() {
		vet, err := u.vetRepo.FindByID(db, principal.ID)
		if err != nil {
			u.log.Warnf("Failed to find veterinarian by ID: %+v", err)
			return nil, apperror.Internal(err)
		}
		if vet == nil {
			return nil, ErrUserNotFound
		}
		return &dto.MeResponse{Role: string(entity.RoleVet), Veterinarian: converter.VeterinarianToResponse(vet)}, nil
	}

	owner, err := u.ownerRepo.FindByID(db, principal.ID)
	if err != nil {
		u.log.Warnf("Failed to find owner by ID: %+v", err)
		return nil, apperror.Internal(err)
	}
	if owner == nil || owner.IsDeleted {
		return nil, ErrUserNotFound
	}
	return &dto.MeResponse{Role: string(entity.RoleOwner), Owner: converter.OwnerToResponse(owner)}, nil
}

func (u *authUsecase) issueTokens(ctx context.Context, userID uuid.UUID, email string, role entity.Role) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, email, string(role))
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, apperror.Internal(err)
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(userID, email, string(role))
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, apperror.Internal(err)
	}

	if err := u.tokens.Store(ctx, userID, jwt.AccessToken, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, apperror.Internal(err)
	}

	if err := u.tokens.Store(ctx, userID, jwt.RefreshToken, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return nil, apperror.Internal(err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
		Role:         string(role),
	}, nil
}

// ensureEmailAvailable rejects an email used by either identity table so login stays unambiguous.
func ensureEmailAvailable(db *gorm.DB, log *logrus.Logger, ownerRepo repository.OwnerRepository, vetRepo repository.VeterinarianRepository, email string) error {
	owner, err := ownerRepo.FindByEmail(db, email)
	if err != nil {
		log.Warnf("Failed to find owner by email: %+v", err)
		return apperror.Internal(err)
	}
	if owner != nil {
		return ErrEmailAlreadyExists
	}

	vet, err := vetRepo.FindByEmail(db, email)
	if err != nil {
		log.Warnf("Failed to find veterinarian by email: %+v", err)
		return apperror.Internal(err)
	}
	if vet != nil {
		return ErrEmailAlreadyExists
	}
	return nil
}

func ensureLicenseAvailable(db *gorm.DB, log *logrus.Logger, vetRepo repository.VeterinarianRepository, licenseNumber string) error {
	existing, err := vetRepo.FindByLicenseNumber(db, licenseNumber)
	if err != nil {
		log.Warnf("Failed to find veterinarian by license number: %+v", err)
		return apperror.Internal(err)
	}
	if existing != nil {
		return ErrLicenseAlreadyExists
	}
	return nil
}

// mapVetCreateError turns unique violations that raced past the pre-checks into conflicts.
func mapVetCreateError(log *logrus.Logger, err error) error {
	if isDuplicateKeyError(err, "email") {
		return ErrEmailAlreadyExists
	}
	if isDuplicateKeyError(err, "license") {
		return ErrLicenseAlreadyExists
	}
	log.Warnf("Failed to create veterinarian: %+v", err)
	return apperror.Internal(err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
