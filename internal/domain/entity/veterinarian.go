package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AccessLevel is the veterinarian tier
type AccessLevel string

const (
	AccessLevelPrimary      AccessLevel = "primary"
	AccessLevelFullAccess   AccessLevel = "full_access"
	AccessLevelNormalAccess AccessLevel = "normal_access"
)

func (a AccessLevel) Valid() bool {
	switch a {
	case AccessLevelPrimary, AccessLevelFullAccess, AccessLevelNormalAccess:
		return true
	}
	return false
}

// VetStatus is the account status of a veterinarian
type VetStatus string

const (
	VetStatusActive      VetStatus = "active"
	VetStatusDeactivated VetStatus = "deactivated"
	VetStatusDeleted     VetStatus = "deleted"
)

func (s VetStatus) Valid() bool {
	switch s {
	case VetStatusActive, VetStatusDeactivated, VetStatusDeleted:
		return true
	}
	return false
}

// VetRole is the job role used when a clinic provisions a veterinarian sub-account
type VetRole string

const (
	VetRoleSenior    VetRole = "senior"
	VetRoleAssociate VetRole = "associate"
	VetRoleIntern    VetRole = "intern"
)

var vetRoleAccessLevels = map[VetRole]AccessLevel{
	VetRoleSenior:    AccessLevelFullAccess,
	VetRoleAssociate: AccessLevelNormalAccess,
	VetRoleIntern:    AccessLevelNormalAccess,
}

var ErrInvalidAccessLevel = errors.New("invalid access level")

// AccessLevelForVetRole returns the access level of a provisioned veterinarian.
// An explicit override must be full_access or normal_access; primary is reserved
// for clinic creators.
func AccessLevelForVetRole(role VetRole, override AccessLevel) (AccessLevel, error) {
	if override != "" {
		if override != AccessLevelFullAccess && override != AccessLevelNormalAccess {
			return "", ErrInvalidAccessLevel
		}
		return override, nil
	}
	level, ok := vetRoleAccessLevels[role]
	if !ok {
		return "", ErrInvalidAccessLevel
	}
	return level, nil
}

// Veterinarian is a vet account. OwnedClinics holds the clinics whose primary_vet_id is this vet.
type Veterinarian struct {
	ID                    uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FullName              string      `gorm:"type:varchar(255);not null" json:"full_name"`
	Email                 string      `gorm:"type:varchar(255);uniqueIndex:ux_veterinarians_email;not null" json:"email"`
	Password              string      `gorm:"type:text;not null" json:"-"`
	Phone                 string      `gorm:"type:varchar(30)" json:"phone"`
	LicenseNumber         string      `gorm:"type:varchar(100);uniqueIndex:ux_veterinarians_license_number;not null" json:"license_number"`
	Specialization        string      `gorm:"type:varchar(255)" json:"specialization"`
	AccessLevel           AccessLevel `gorm:"type:varchar(20);not null;default:'primary'" json:"access_level"`
	CurrentActiveClinicID *uuid.UUID  `gorm:"type:uuid;index" json:"current_active_clinic_id,omitempty"`
	Status                VetStatus   `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	CreatedAt             time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time   `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	OwnedClinics []Clinic `gorm:"foreignKey:PrimaryVetID" json:"owned_clinics,omitempty"`
}

func (Veterinarian) TableName() string {
	return "veterinarians"
}

func (v *Veterinarian) IsActive() bool {
	return v.Status == VetStatusActive
}

func (v *Veterinarian) IsPrimary() bool {
	return v.AccessLevel == AccessLevelPrimary
}

// OwnedClinicIDs returns the ids of the loaded OwnedClinics, skipping soft-deleted ones.
func (v *Veterinarian) OwnedClinicIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(v.OwnedClinics))
	for _, c := range v.OwnedClinics {
		if !c.IsDeleted {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
