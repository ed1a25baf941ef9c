package staff

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Designation string

const (
	DesignationDoctor        Designation = "doctor"
	DesignationNurse         Designation = "nurse"
	DesignationPharmacist    Designation = "pharmacist"
	DesignationLabTechnician Designation = "lab_technician"
	DesignationReceptionist  Designation = "receptionist"
	DesignationAccountant    Designation = "accountant"
	DesignationAdmin         Designation = "admin"
)

func (d Designation) IsValid() bool {
	switch d {
	case DesignationDoctor, DesignationNurse, DesignationPharmacist,
		DesignationLabTechnician, DesignationReceptionist, DesignationAccountant, DesignationAdmin:
		return true
	}
	return false
}

type Staff struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	// EmployeeCode is the human-facing staff identifier, e.g. EMP-0042.
	EmployeeCode string `gorm:"column:employee_code;type:varchar(20);uniqueIndex;not null"`

	FirstName string `gorm:"column:first_name;type:varchar(100);not null"`
	LastName  string `gorm:"column:last_name;type:varchar(100);not null"`

	Designation    Designation `gorm:"column:designation;type:varchar(30);not null;index"`
	Department     string      `gorm:"column:department;type:varchar(100);index"`
	Specialization string      `gorm:"column:specialization;type:varchar(100)"`

	// LicenseNumber is required for clinical designations.
	LicenseNumber string `gorm:"column:license_number;type:varchar(50)"`

	Phone string `gorm:"column:phone;type:varchar(20)"`
	Email string `gorm:"column:email;type:varchar(255);uniqueIndex"`

	JoinedAt time.Time `gorm:"column:joined_at;not null"`
	IsActive bool      `gorm:"column:is_active;default:true;index"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Staff) TableName() string {
	return "clinical.staff"
}

func (s *Staff) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// IsClinical reports whether the designation requires a license.
func (s *Staff) IsClinical() bool {
	switch s.Designation {
	case DesignationDoctor, DesignationNurse, DesignationPharmacist, DesignationLabTechnician:
		return true
	}
	return false
}

type CreateStaffCommand struct {
	FirstName      string
	LastName       string
	Designation    Designation
	Department     string
	Specialization string
	LicenseNumber  string
	Phone          string
	Email          string
	JoinedAt       time.Time
	CreatedBy      uuid.UUID
}

type UpdateStaffCommand struct {
	FirstName      *string
	LastName       *string
	Department     *string
	Specialization *string
	LicenseNumber  *string
	Phone          *string
	Email          *string
	IsActive       *bool
	UpdatedBy      uuid.UUID
}

type ListStaffQuery struct {
	Search      string
	Designation *Designation
	Department  *string
	ActiveOnly  bool
	Page        int
	PageSize    int
}

type PagedStaff struct {
	Staff      []*Staff
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
