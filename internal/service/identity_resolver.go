package service

import (
	"context"
	"errors"

	"vetcare-backend/internal/domain/entity"
	"vetcare-backend/internal/domain/repository"
	"vetcare-backend/pkg/apperror"
	"vetcare-backend/pkg/jwt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidToken     = apperror.Unauthenticated("invalid or expired token")
	ErrInvalidTokenType = apperror.Unauthenticated("invalid token type")
	ErrTokenRevoked     = apperror.Unauthenticated("token has been revoked")
	ErrUnknownAccount   = apperror.Unauthenticated("account not found")
	ErrAccountInactive  = apperror.Forbidden("account is inactive")
)

// IdentityResolver turns a bearer token into the caller's Principal.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*entity.Principal, *jwt.Claims, error)
}

type identityResolver struct {
	db         *gorm.DB
	log        *logrus.Logger
	jwtService *jwt.JWTService
	tokens     TokenStore
	ownerRepo  repository.OwnerRepository
	vetRepo    repository.VeterinarianRepository
}

func NewIdentityResolver(
	db *gorm.DB,
	log *logrus.Logger,
	jwtService *jwt.JWTService,
	tokens TokenStore,
	ownerRepo repository.OwnerRepository,
	vetRepo repository.VeterinarianRepository,
) IdentityResolver {
	return &identityResolver{
		db:         db,
		log:        log,
		jwtService: jwtService,
		tokens:     tokens,
		ownerRepo:  ownerRepo,
		vetRepo:    vetRepo,
	}
}

func (r *identityResolver) Resolve(ctx context.Context, token string) (*entity.Principal, *jwt.Claims, error) {
	claims, err := r.jwtService.ValidateToken(token)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.AccessToken {
		return nil, nil, ErrInvalidTokenType
	}

	live, err := r.tokens.Exists(ctx, claims.UserID, jwt.AccessToken, claims.TokenID)
	if err != nil {
		r.log.Warnf("Failed to check access token: %+v", err)
		return nil, nil, apperror.Internal(err)
	}
	if !live {
		return nil, nil, ErrTokenRevoked
	}

	principal, err := r.lookup(ctx, claims)
	if err != nil {
		return nil, nil, err
	}
	return principal, claims, nil
}

// lookup trusts an embedded role. Tokens without one are matched against
// veterinarians first, then owners; the first match wins.
func (r *identityResolver) lookup(ctx context.Context, claims *jwt.Claims) (*entity.Principal, error) {
	db := r.db.WithContext(ctx)

	switch entity.Role(claims.Role) {
	case entity.RoleVet:
		return r.resolveVet(db, claims)
	case entity.RoleOwner:
		return r.resolveOwner(db, claims)
	case "":
		principal, err := r.resolveVet(db, claims)
		if !errors.Is(err, ErrUnknownAccount) {
			return principal, err
		}
		return r.resolveOwner(db, claims)
	default:
		return nil, ErrInvalidToken
	}
}

func (r *identityResolver) resolveVet(db *gorm.DB, claims *jwt.Claims) (*entity.Principal, error) {
	vet, err := r.vetRepo.FindByID(db, claims.UserID)
	if err != nil {
		r.log.Warnf("Failed to find veterinarian %s: %+v", claims.UserID, err)
		return nil, apperror.Internal(err)
	}
	if vet == nil {
		return nil, ErrUnknownAccount
	}
	if !vet.IsActive() {
		return nil, ErrAccountInactive
	}

	return &entity.Principal{
		ID:           vet.ID,
		Role:         entity.RoleVet,
		Email:        vet.Email,
		AccessLevel:  vet.AccessLevel,
		ClinicID:     vet.CurrentActiveClinicID,
		OwnedClinics: vet.OwnedClinicIDs(),
	}, nil
}

func (r *identityResolver) resolveOwner(db *gorm.DB, claims *jwt.Claims) (*entity.Principal, error) {
	owner, err := r.ownerRepo.FindByID(db, claims.UserID)
	if err != nil {
		r.log.Warnf("Failed to find owner %s: %+v", claims.UserID, err)
		return nil, apperror.Internal(err)
	}
	if owner == nil || owner.IsDeleted {
		return nil, ErrUnknownAccount
	}

	return &entity.Principal{
		ID:    owner.ID,
		Role:  entity.RoleOwner,
		Email: owner.Email,
	}, nil
}
