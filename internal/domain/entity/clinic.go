package entity

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Clinic struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name            string          `gorm:"type:varchar(255);not null" json:"name"`
	Email           string          `gorm:"type:varchar(255)" json:"email"`
	Phone           string          `gorm:"type:varchar(30)" json:"phone"`
	Address         string          `gorm:"type:text" json:"address"`
	City            string          `gorm:"type:varchar(100);index" json:"city"`
	Latitude        *float64        `gorm:"type:double precision" json:"latitude,omitempty"`
	Longitude       *float64        `gorm:"type:double precision" json:"longitude,omitempty"`
	ConsultationFee decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"consultation_fee"`
	OpeningHours    string          `gorm:"type:text" json:"opening_hours"`
	PrimaryVetID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"primary_vet_id"`
	IsDeleted       bool            `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt       *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Clinic) TableName() string {
	return "clinics"
}

func (c *Clinic) SoftDelete(now time.Time) {
	c.IsDeleted = true
	c.DeletedAt = &now
}

// DistanceKm returns the great-circle distance to the given point, or false when
// the clinic has no coordinates.
func (c *Clinic) DistanceKm(lat, lng float64) (float64, bool) {
	if c.Latitude == nil || c.Longitude == nil {
		return 0, false
	}
	return HaversineKm(*c.Latitude, *c.Longitude, lat, lng), true
}

const earthRadiusKm = 6371.0

func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
