package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careaxis/hms/internal/domain/laborder"
)

type LabOrderRepository struct {
	db *gorm.DB
}

func NewLabOrderRepository(db *gorm.DB) *LabOrderRepository {
	return &LabOrderRepository{db: db}
}

func (r *LabOrderRepository) Create(ctx context.Context, o *laborder.LabOrder) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *LabOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*laborder.LabOrder, error) {
	var o laborder.LabOrder
	err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, laborder.ErrLabOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *LabOrderRepository) UpdateStatus(ctx context.Context, o *laborder.LabOrder) error {
	return r.db.WithContext(ctx).Model(o).
		Select("status", "collected_by", "collected_at", "completed_by",
			"completed_at", "result_summary", "cancelled_at", "cancellation_reason").
		Updates(o).Error
}

func (r *LabOrderRepository) MarkBilled(ctx context.Context, id uuid.UUID, billID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&laborder.LabOrder{}).
		Where("id = ? AND bill_generated = false", id).
		Updates(map[string]any{
			"bill_generated": true,
			"bill_id":        billID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return laborder.ErrAlreadyBilled
	}
	return nil
}

func (r *LabOrderRepository) List(ctx context.Context, q *laborder.ListLabOrdersQuery) (*laborder.PagedLabOrders, error) {
	tx := r.db.WithContext(ctx).Model(&laborder.LabOrder{}).Where("deleted_at IS NULL")

	if q.PatientID != nil {
		tx = tx.Where("patient_id = ?", *q.PatientID)
	}
	if q.DoctorID != nil {
		tx = tx.Where("doctor_id = ?", *q.DoctorID)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}
	if q.Unbilled {
		tx = tx.Where("status = ? AND bill_generated = false", laborder.StatusCompleted)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var orders []*laborder.LabOrder
	err := tx.Order("created_at DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return &laborder.PagedLabOrders{
		Orders:     orders,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

func (r *LabOrderRepository) GetByPatient(ctx context.Context, patientID uuid.UUID) ([]*laborder.LabOrder, error) {
	var orders []*laborder.LabOrder
	err := r.db.WithContext(ctx).
		Where("patient_id = ? AND deleted_at IS NULL", patientID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *LabOrderRepository) GetAll(ctx context.Context) ([]*laborder.LabOrder, error) {
	var orders []*laborder.LabOrder
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Find(&orders).Error
	return orders, err
}
