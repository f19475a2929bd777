package entity

import (
	"github.com/google/uuid"
)

// Role tags which identity table a principal came from
type Role string

const (
	RoleOwner Role = "owner"
	RoleVet   Role = "vet"
)

func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleVet
}

// Principal is the authenticated caller. AccessLevel, ClinicID and OwnedClinics
// are only set for veterinarians.
type Principal struct {
	ID           uuid.UUID
	Role         Role
	Email        string
	AccessLevel  AccessLevel
	ClinicID     *uuid.UUID
	OwnedClinics []uuid.UUID
}

func (p *Principal) IsOwner() bool {
	return p != nil && p.Role == RoleOwner
}

func (p *Principal) IsVet() bool {
	return p != nil && p.Role == RoleVet
}

// Subject is the authorization subject: "owner" or "vet:<access level>".
func (p *Principal) Subject() string {
	if p.IsVet() {
		return string(RoleVet) + ":" + string(p.AccessLevel)
	}
	return string(p.Role)
}

// IsSelf reports whether the principal is the referenced owner.
func (p *Principal) IsSelf(ownerID uuid.UUID) bool {
	return p.IsOwner() && p.ID == ownerID
}

// IsMemberOf reports whether a veterinarian is operating in the clinic as its active clinic.
func (p *Principal) IsMemberOf(clinicID uuid.UUID) bool {
	return p.IsVet() && p.ClinicID != nil && *p.ClinicID == clinicID
}

// OwnsClinic reports whether a primary veterinarian created the clinic.
func (p *Principal) OwnsClinic(clinicID uuid.UUID) bool {
	if !p.IsVet() {
		return false
	}
	for _, id := range p.OwnedClinics {
		if id == clinicID {
			return true
		}
	}
	return false
}

func (p *Principal) CanActForClinic(clinicID uuid.UUID) bool {
	return p.IsMemberOf(clinicID) || p.OwnsClinic(clinicID)
}
