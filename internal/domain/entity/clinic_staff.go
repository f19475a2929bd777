package entity

import (
	"time"

	"github.com/google/uuid"
)

// StaffRole is the job role of non-veterinary clinic staff
type StaffRole string

const (
	StaffRoleReceptionist    StaffRole = "receptionist"
	StaffRoleAssistant       StaffRole = "assistant"
	StaffRoleTechnician      StaffRole = "technician"
	StaffRoleNurse           StaffRole = "nurse"
	StaffRolePracticeManager StaffRole = "practice_manager"
)

// StaffAccessLevel is the coarse access tier of clinic staff
type StaffAccessLevel string

const (
	StaffAccessBasic    StaffAccessLevel = "basic"
	StaffAccessModerate StaffAccessLevel = "moderate"
	StaffAccessAdmin    StaffAccessLevel = "admin"
)

var staffRoleAccessLevels = map[StaffRole]StaffAccessLevel{
	StaffRoleReceptionist:    StaffAccessBasic,
	StaffRoleAssistant:       StaffAccessBasic,
	StaffRoleTechnician:      StaffAccessModerate,
	StaffRoleNurse:           StaffAccessModerate,
	StaffRolePracticeManager: StaffAccessAdmin,
}

// StaffAccessLevelForRole maps a staff role to its access level.
func StaffAccessLevelForRole(role StaffRole) (StaffAccessLevel, bool) {
	level, ok := staffRoleAccessLevels[role]
	return level, ok
}

type ClinicStaff struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"clinic_id"`
	FullName    string           `gorm:"type:varchar(255);not null" json:"full_name"`
	Email       string           `gorm:"type:varchar(255);uniqueIndex:ux_clinic_staff_email;not null" json:"email"`
	Phone       string           `gorm:"type:varchar(30)" json:"phone"`
	Role        StaffRole        `gorm:"type:varchar(30);not null" json:"role"`
	AccessLevel StaffAccessLevel `gorm:"type:varchar(20);not null" json:"access_level"`
	IsDeleted   bool             `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt   *time.Time       `json:"deleted_at,omitempty"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ClinicStaff) TableName() string {
	return "clinic_staff"
}

func (s *ClinicStaff) SoftDelete(now time.Time) {
	s.IsDeleted = true
	s.DeletedAt = &now
}
