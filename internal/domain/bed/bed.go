package bed

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WardType string

const (
	WardGeneral   WardType = "general"
	WardPrivate   WardType = "private"
	WardICU       WardType = "icu"
	WardMaternity WardType = "maternity"
	WardPediatric WardType = "pediatric"
)

func (w WardType) IsValid() bool {
	switch w {
	case WardGeneral, WardPrivate, WardICU, WardMaternity, WardPediatric:
		return true
	}
	return false
}

type Ward struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Name  string   `gorm:"column:name;type:varchar(100);uniqueIndex;not null"`
	Floor int      `gorm:"column:floor;not null"`
	Type  WardType `gorm:"column:type;type:varchar(30);not null"`
}

func (Ward) TableName() string {
	return "clinical.wards"
}

/// State transition possibilities:
//
//	available → occupied → available
//	available → maintenance → available
type BedStatus string

const (
	StatusAvailable   BedStatus = "available"
	StatusOccupied    BedStatus = "occupied"
	StatusMaintenance BedStatus = "maintenance"
)

type Bed struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	WardID uuid.UUID `gorm:"column:ward_id;type:uuid;not null;index"`
	Number string    `gorm:"column:number;type:varchar(20);not null"`

	Status BedStatus `gorm:"column:status;type:varchar(20);not null;default:'available';index"`

	// DailyTariff feeds the bed-charge line when the stay is billed.
	DailyTariff decimal.Decimal `gorm:"column:daily_tariff;type:numeric(12,2)"`

	CurrentPatientID *uuid.UUID `gorm:"column:current_patient_id;type:uuid;index"`
}

func (Bed) TableName() string {
	return "clinical.beds"
}

func (b *Bed) CanTransitionTo(newStatus BedStatus) bool {
	allowed := map[BedStatus][]BedStatus{
		StatusAvailable:   {StatusOccupied, StatusMaintenance},
		StatusOccupied:    {StatusAvailable},
		StatusMaintenance: {StatusAvailable},
	}

	for _, s := range allowed[b.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// Occupy admits a patient to the bed.
func (b *Bed) Occupy(patientID uuid.UUID) error {
	if !b.CanTransitionTo(StatusOccupied) {
		return ErrBedUnavailable
	}
	b.Status = StatusOccupied
	b.CurrentPatientID = &patientID
	return nil
}

// Release frees the bed after discharge or transfer.
func (b *Bed) Release() error {
	if b.Status != StatusOccupied {
		return ErrBedNotOccupied
	}
	b.Status = StatusAvailable
	b.CurrentPatientID = nil
	return nil
}

// Assignment records one patient's stay in a bed.
type Assignment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	BedID     uuid.UUID `gorm:"column:bed_id;type:uuid;not null;index"`
	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`

	AdmittedAt   time.Time  `gorm:"column:admitted_at;not null"`
	DischargedAt *time.Time `gorm:"column:discharged_at"`

	AdmittedBy   uuid.UUID  `gorm:"column:admitted_by;type:uuid;not null"`
	DischargedBy *uuid.UUID `gorm:"column:discharged_by;type:uuid"`
}

func (Assignment) TableName() string {
	return "clinical.bed_assignments"
}

// StayDays returns the billable length of stay, minimum one day.
func (a *Assignment) StayDays(now time.Time) int {
	end := now
	if a.DischargedAt != nil {
		end = *a.DischargedAt
	}
	days := int(end.Sub(a.AdmittedAt).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days
}

type AdmitPatientCommand struct {
	BedID      uuid.UUID
	PatientID  uuid.UUID
	AdmittedBy uuid.UUID
}

type ListBedsQuery struct {
	WardID   *uuid.UUID
	Status   *BedStatus
	Page     int
	PageSize int
}

type PagedBeds struct {
	Beds       []*Bed
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
