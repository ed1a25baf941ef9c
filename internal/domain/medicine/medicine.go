package medicine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Form string

const (
	FormTablet    Form = "tablet"
	FormCapsule   Form = "capsule"
	FormSyrup     Form = "syrup"
	FormDrops     Form = "drops"
	FormInjection Form = "injection"
	FormOintment  Form = "ointment"
	FormInhaler   Form = "inhaler"
)

// IsLiquid reports whether the dosage for this form is measured in ml.
func (f Form) IsLiquid() bool {
	switch f {
	case FormSyrup, FormDrops, FormInjection:
		return true
	}
	return false
}

// Medicine is one catalog entry. The default dosage/frequency/duration
// fields are optional; when absent the recommendation heuristic derives
// values from strength, form, and the medicine name.
type Medicine struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	Name         string `gorm:"column:name;type:varchar(255);uniqueIndex;not null"`
	GenericName  string `gorm:"column:generic_name;type:varchar(255);index"`
	Manufacturer string `gorm:"column:manufacturer;type:varchar(255)"`

	Form     Form   `gorm:"column:form;type:varchar(30)"`
	Strength string `gorm:"column:strength;type:varchar(50)"` // numeric part only, e.g. "500"

	DefaultDosage    string `gorm:"column:default_dosage;type:varchar(50)"`
	DefaultFrequency string `gorm:"column:default_frequency;type:varchar(100)"`
	DefaultDuration  string `gorm:"column:default_duration;type:varchar(100)"`

	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
	Stock     int             `gorm:"column:stock;default:0"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid"`
}

func (Medicine) TableName() string {
	return "inventory.medicines"
}

type CreateMedicineCommand struct {
	Name             string
	GenericName      string
	Manufacturer     string
	Form             Form
	Strength         string
	DefaultDosage    string
	DefaultFrequency string
	DefaultDuration  string
	UnitPrice        decimal.Decimal
	Stock            int
	CreatedBy        uuid.UUID
}

type ListMedicinesQuery struct {
	Search   string
	Page     int
	PageSize int
}

type PagedMedicines struct {
	Medicines  []*Medicine
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
