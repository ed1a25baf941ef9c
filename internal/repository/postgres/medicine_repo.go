package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careaxis/hms/internal/domain/medicine"
)

type MedicineRepository struct {
	db *gorm.DB
}

func NewMedicineRepository(db *gorm.DB) *MedicineRepository {
	return &MedicineRepository{db: db}
}

func (r *MedicineRepository) Create(ctx context.Context, m *medicine.Medicine) error {
	err := r.db.WithContext(ctx).Create(m).Error
	if err != nil && isUniqueViolation(err) {
		return medicine.ErrMedicineAlreadyExists
	}
	return err
}

func (r *MedicineRepository) GetByID(ctx context.Context, id uuid.UUID) (*medicine.Medicine, error) {
	var m medicine.Medicine
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, medicine.ErrMedicineNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MedicineRepository) FindByName(ctx context.Context, name string) (*medicine.Medicine, error) {
	var m medicine.Medicine
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ? AND deleted_at IS NULL", strings.ToLower(name)).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, medicine.ErrMedicineNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MedicineRepository) SearchByPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&medicine.Medicine{}).
		Where("LOWER(name) LIKE ? AND deleted_at IS NULL", escapeLike(strings.ToLower(prefix))+"%").
		Order("name ASC").
		Limit(limit).
		Pluck("name", &names).Error
	return names, err
}

func (r *MedicineRepository) List(ctx context.Context, q *medicine.ListMedicinesQuery) (*medicine.PagedMedicines, error) {
	tx := r.db.WithContext(ctx).Model(&medicine.Medicine{}).Where("deleted_at IS NULL")

	if q.Search != "" {
		like := "%" + escapeLike(strings.ToLower(q.Search)) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(generic_name) LIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var medicines []*medicine.Medicine
	err := tx.Order("name ASC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&medicines).Error
	if err != nil {
		return nil, err
	}

	return &medicine.PagedMedicines{
		Medicines:  medicines,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

// AdjustStock applies the delta, refusing to go negative.
func (r *MedicineRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	res := r.db.WithContext(ctx).Model(&medicine.Medicine{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Either unknown medicine or the delta would underflow.
		var count int64
		if err := r.db.WithContext(ctx).Model(&medicine.Medicine{}).
			Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return medicine.ErrMedicineNotFound
		}
		return medicine.ErrInsufficientStock
	}
	return nil
}
