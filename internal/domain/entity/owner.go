package entity

import (
	"time"

	"github.com/google/uuid"
)

// Owner is a pet owner account
type Owner struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FullName  string     `gorm:"type:varchar(255);not null" json:"full_name"`
	Email     string     `gorm:"type:varchar(255);uniqueIndex:ux_owners_email;not null" json:"email"`
	Password  string     `gorm:"type:text;not null" json:"-"`
	Phone     string     `gorm:"type:varchar(30)" json:"phone"`
	Address   string     `gorm:"type:text" json:"address"`
	Latitude  *float64   `gorm:"type:double precision" json:"latitude,omitempty"`
	Longitude *float64   `gorm:"type:double precision" json:"longitude,omitempty"`
	IsDeleted bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Owner) TableName() string {
	return "owners"
}

func (o *Owner) SoftDelete(now time.Time) {
	o.IsDeleted = true
	o.DeletedAt = &now
}
