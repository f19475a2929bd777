package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog represents an audit trail entry of a mutating action
type AuditLog struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID   *uuid.UUID `gorm:"type:uuid;index" json:"actor_id,omitempty"`
	ActorType string     `gorm:"type:varchar(20)" json:"actor_type"`
	ClinicID  *uuid.UUID `gorm:"type:uuid;index" json:"clinic_id,omitempty"`
	Action    string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Common audit actions
const (
	AuditActionOwnerRegister       = "owner.register"
	AuditActionOwnerUpdate         = "owner.update"
	AuditActionOwnerDelete         = "owner.delete"
	AuditActionVetRegister         = "vet.register"
	AuditActionVetUpdate           = "vet.update"
	AuditActionVetAccessLevel      = "vet.access_level"
	AuditActionVetStatus           = "vet.status"
	AuditActionVetSwitchClinic     = "vet.switch_clinic"
	AuditActionClinicCreate        = "clinic.create"
	AuditActionClinicUpdate        = "clinic.update"
	AuditActionClinicDelete        = "clinic.delete"
	AuditActionStaffCreate         = "staff.create"
	AuditActionStaffUpdate         = "staff.update"
	AuditActionStaffDelete         = "staff.delete"
	AuditActionPetCreate           = "pet.create"
	AuditActionPetUpdate           = "pet.update"
	AuditActionPetDelete           = "pet.delete"
	AuditActionPetRegisterClinic   = "pet.register_clinic"
	AuditActionPetApprove          = "pet.approve"
	AuditActionPetReject           = "pet.reject"
	AuditActionAppointmentBook     = "appointment.book"
	AuditActionAppointmentConfirm  = "appointment.confirm"
	AuditActionAppointmentCancel   = "appointment.cancel"
	AuditActionAppointmentMove     = "appointment.reschedule"
	AuditActionAppointmentComplete = "appointment.complete"
	AuditActionRecordCreate        = "medical_record.create"
	AuditActionRecordUpdate        = "medical_record.update"
	AuditActionRecordDelete        = "medical_record.delete"
	AuditActionRecordAttach        = "medical_record.attach"
	AuditActionPrescriptionCreate  = "prescription.create"
	AuditActionPrescriptionUpdate  = "prescription.update"
	AuditActionPrescriptionDelete  = "prescription.delete"
)
