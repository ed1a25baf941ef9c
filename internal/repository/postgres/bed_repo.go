package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careaxis/hms/internal/domain/bed"
)

type BedRepository struct {
	db *gorm.DB
}

func NewBedRepository(db *gorm.DB) *BedRepository {
	return &BedRepository{db: db}
}

func (r *BedRepository) CreateWard(ctx context.Context, w *bed.Ward) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *BedRepository) GetWard(ctx context.Context, id uuid.UUID) (*bed.Ward, error) {
	var w bed.Ward
	err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, bed.ErrWardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *BedRepository) ListWards(ctx context.Context) ([]*bed.Ward, error) {
	var wards []*bed.Ward
	err := r.db.WithContext(ctx).Order("floor ASC, name ASC").Find(&wards).Error
	return wards, err
}

func (r *BedRepository) CreateBed(ctx context.Context, b *bed.Bed) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BedRepository) GetBed(ctx context.Context, id uuid.UUID) (*bed.Bed, error) {
	var b bed.Bed
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, bed.ErrBedNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BedRepository) UpdateBedStatus(ctx context.Context, b *bed.Bed) error {
	return r.db.WithContext(ctx).Model(b).
		Select("status", "current_patient_id").
		Updates(map[string]any{
			"status":             b.Status,
			"current_patient_id": b.CurrentPatientID,
		}).Error
}

func (r *BedRepository) ListBeds(ctx context.Context, q *bed.ListBedsQuery) (*bed.PagedBeds, error) {
	tx := r.db.WithContext(ctx).Model(&bed.Bed{})

	if q.WardID != nil {
		tx = tx.Where("ward_id = ?", *q.WardID)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var beds []*bed.Bed
	err := tx.Order("number ASC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&beds).Error
	if err != nil {
		return nil, err
	}

	return &bed.PagedBeds{
		Beds:       beds,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

func (r *BedRepository) CreateAssignment(ctx context.Context, a *bed.Assignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *BedRepository) GetOpenAssignment(ctx context.Context, bedID uuid.UUID) (*bed.Assignment, error) {
	var a bed.Assignment
	err := r.db.WithContext(ctx).
		Where("bed_id = ? AND discharged_at IS NULL", bedID).
		Order("admitted_at DESC").
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, bed.ErrNoOpenAssignment
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *BedRepository) CloseAssignment(ctx context.Context, a *bed.Assignment) error {
	return r.db.WithContext(ctx).Model(a).
		Select("discharged_at", "discharged_by").
		Updates(a).Error
}

func (r *BedRepository) GetAssignmentsByPatient(ctx context.Context, patientID uuid.UUID) ([]*bed.Assignment, error) {
	var assignments []*bed.Assignment
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("admitted_at DESC").
		Find(&assignments).Error
	return assignments, err
}
