// Package postgres contains the GORM-backed implementations of the
// domain repository interfaces.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careaxis/hms/internal/domain/patient"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if err != nil && isUniqueViolation(err) {
		return patient.ErrPatientAlreadyExists
	}
	return err
}

func (r *PatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, patient.ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepository) GetByUHID(ctx context.Context, uhid string) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).First(&p, "uhid = ?", uhid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, patient.ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepository) Update(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	updates := map[string]any{}
	setIf(updates, "first_name", cmd.FirstName)
	setIf(updates, "last_name", cmd.LastName)
	setIf(updates, "gender", cmd.Gender)
	setIf(updates, "blood_type", cmd.BloodType)
	setIf(updates, "phone", cmd.Phone)
	setIf(updates, "email", cmd.Email)
	setIf(updates, "address", cmd.Address)
	setIf(updates, "city", cmd.City)
	setIf(updates, "state", cmd.State)
	setIf(updates, "zip_code", cmd.ZipCode)
	setIf(updates, "country", cmd.Country)
	setIf(updates, "notes", cmd.Notes)
	if cmd.EmergencyContact != nil {
		updates["emergency_contact"] = cmd.EmergencyContact
	}
	if cmd.Insurance != nil {
		updates["insurance"] = cmd.Insurance
	}
	if cmd.Allergies != nil {
		updates["allergies"] = *cmd.Allergies
	}
	if cmd.ChronicConditions != nil {
		updates["chronic_conditions"] = *cmd.ChronicConditions
	}
	if cmd.AssignedDoctorID != nil {
		updates["assigned_doctor_id"] = cmd.AssignedDoctorID
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&patient.Patient{}).
			Where("id = ? AND deleted_at IS NULL", id).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, patient.ErrPatientNotFound
		}
	}

	return r.GetByID(ctx, id)
}

func (r *PatientRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&patient.Patient{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{
			"deleted_at": time.Now(),
			"status":     patient.StatusInactive,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return patient.ErrPatientNotFound
	}
	return nil
}

func (r *PatientRepository) List(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	tx := r.db.WithContext(ctx).Model(&patient.Patient{}).Where("deleted_at IS NULL")

	if q.Search != "" {
		like := "%" + escapeLike(strings.ToLower(q.Search)) + "%"
		tx = tx.Where(
			"LOWER(first_name || ' ' || last_name) LIKE ? OR LOWER(uhid) LIKE ?",
			like, like,
		)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}
	if q.AssignedDoctorID != nil {
		tx = tx.Where("assigned_doctor_id = ?", *q.AssignedDoctorID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	order := "created_at DESC"
	if q.SortBy != "" {
		dir := "ASC"
		if strings.EqualFold(q.SortOrder, "desc") {
			dir = "DESC"
		}
		switch q.SortBy {
		case "created_at", "first_name", "last_name", "uhid":
			order = q.SortBy + " " + dir
		}
	}

	var patients []*patient.Patient
	err := tx.Order(order).
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&patients).Error
	if err != nil {
		return nil, err
	}

	return &patient.PagedPatients{
		Patients:   patients,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

// NextUHIDSequence allocates the next registration sequence for today.
// A per-day row in a counter table keeps the sequence dense.
func (r *PatientRepository) NextUHIDSequence(ctx context.Context) (int, error) {
	return nextSequence(ctx, r.db, "uhid_"+time.Now().Format("20060102"))
}

func (r *PatientRepository) GetAll(ctx context.Context) ([]*patient.Patient, error) {
	var patients []*patient.Patient
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("fetching patients: %w", err)
	}
	return patients, nil
}
