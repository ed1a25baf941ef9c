package prescription

import (
	"time"

	"github.com/google/uuid"
)

// State transition possibilities:
//
//	pending → approved (pharmacist)
//	pending → rejected (pharmacist)
type PrescriptionStatus string

const (
	StatusPending  PrescriptionStatus = "pending"
	StatusApproved PrescriptionStatus = "approved"
	StatusRejected PrescriptionStatus = "rejected"
)

func (s PrescriptionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// MedicineItem is one prescribed medicine line.
type MedicineItem struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`    // e.g. "500 mg"
	Frequency    string `json:"frequency"` // e.g. "Twice daily"
	Duration     string `json:"duration"`  // e.g. "5 days"
	Quantity     int    `json:"quantity"`
	Instructions string `json:"instructions,omitempty"`
}

type Prescription struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	PatientID     uuid.UUID  `gorm:"column:patient_id;type:uuid;not null;index"`
	DoctorID      uuid.UUID  `gorm:"column:doctor_id;type:uuid;not null;index"`
	AppointmentID *uuid.UUID `gorm:"column:appointment_id;type:uuid;index"`

	Medicines []MedicineItem `gorm:"column:medicines;serializer:json"`

	Status PrescriptionStatus `gorm:"column:status;type:varchar(30);not null;default:'pending';index"`

	// Pharmacy processing metadata
	ProcessedBy     *uuid.UUID `gorm:"column:processed_by;type:uuid"`
	ProcessedAt     *time.Time `gorm:"column:processed_at"`
	RejectionReason string     `gorm:"column:rejection_reason;type:text"`

	Diagnosis    string `gorm:"column:diagnosis;type:text"`
	Instructions string `gorm:"column:instructions;type:text"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Prescription) TableName() string {
	return "clinical.prescriptions"
}

func (p *Prescription) IsPending() bool {
	return p.Status == StatusPending
}

// Approve marks the prescription processed by a pharmacist.
func (p *Prescription) Approve(pharmacistID uuid.UUID) error {
	if p.Status != StatusPending {
		return ErrAlreadyProcessed
	}
	now := time.Now()
	p.Status = StatusApproved
	p.ProcessedBy = &pharmacistID
	p.ProcessedAt = &now
	return nil
}

// Reject marks the prescription rejected with a reason.
func (p *Prescription) Reject(pharmacistID uuid.UUID, reason string) error {
	if p.Status != StatusPending {
		return ErrAlreadyProcessed
	}
	now := time.Now()
	p.Status = StatusRejected
	p.ProcessedBy = &pharmacistID
	p.ProcessedAt = &now
	p.RejectionReason = reason
	return nil
}

type CreatePrescriptionCommand struct {
	PatientID     uuid.UUID
	DoctorID      uuid.UUID
	AppointmentID *uuid.UUID
	Medicines     []MedicineItem
	Diagnosis     string
	Instructions  string
	CreatedBy     uuid.UUID
}

type ProcessPrescriptionCommand struct {
	Approve     bool
	Reason      string // required when rejecting
	ProcessedBy uuid.UUID
}

type ListPrescriptionsQuery struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Status    *PrescriptionStatus
	Page      int
	PageSize  int
}

type PagedPrescriptions struct {
	Prescriptions []*Prescription
	TotalCount    int64
	Page          int
	PageSize      int
	TotalPages    int
}
