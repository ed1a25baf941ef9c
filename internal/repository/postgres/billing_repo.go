package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careaxis/hms/internal/domain/billing"
)

type BillingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) *BillingRepository {
	return &BillingRepository{db: db}
}

// Create persists the bill and its item lines in one transaction.
func (r *BillingRepository) Create(ctx context.Context, b *billing.Bill) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(b).Error
	})
}

func (r *BillingRepository) GetByID(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	var b billing.Bill
	err := r.db.WithContext(ctx).Preload("Items").First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, billing.ErrBillNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BillingRepository) UpdateStatus(ctx context.Context, b *billing.Bill) error {
	return r.db.WithContext(ctx).Model(b).
		Select("status", "issued_at", "paid_at", "paid_via", "voided_at", "void_reason").
		Updates(b).Error
}

func (r *BillingRepository) List(ctx context.Context, q *billing.ListBillsQuery) (*billing.PagedBills, error) {
	tx := r.db.WithContext(ctx).Model(&billing.Bill{}).Where("deleted_at IS NULL")

	if q.PatientID != nil {
		tx = tx.Where("patient_id = ?", *q.PatientID)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}
	if q.DateFrom != nil {
		tx = tx.Where("created_at >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		tx = tx.Where("created_at <= ?", *q.DateTo)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var bills []*billing.Bill
	err := tx.Preload("Items").
		Order("created_at DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&bills).Error
	if err != nil {
		return nil, err
	}

	return &billing.PagedBills{
		Bills:      bills,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

func (r *BillingRepository) ItemsBySource(ctx context.Context, sourceType billing.SourceType, sourceID uuid.UUID) ([]*billing.BillingItem, error) {
	var items []*billing.BillingItem
	err := r.db.WithContext(ctx).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Find(&items).Error
	return items, err
}

func (r *BillingRepository) AllItems(ctx context.Context) ([]*billing.BillingItem, error) {
	var items []*billing.BillingItem
	err := r.db.WithContext(ctx).Find(&items).Error
	return items, err
}

func (r *BillingRepository) NextBillSequence(ctx context.Context) (int, error) {
	return nextSequence(ctx, r.db, "bill_"+time.Now().Format("20060102"))
}
