package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careaxis/hms/internal/domain/medicalrecord"
)

type MedicalRecordRepository struct {
	db *gorm.DB
}

func NewMedicalRecordRepository(db *gorm.DB) *MedicalRecordRepository {
	return &MedicalRecordRepository{db: db}
}

func (r *MedicalRecordRepository) Create(ctx context.Context, rec *medicalrecord.MedicalRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *MedicalRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*medicalrecord.MedicalRecord, error) {
	var rec medicalrecord.MedicalRecord
	err := r.db.WithContext(ctx).Preload("Addenda").First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, medicalrecord.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *MedicalRecordRepository) AddAddendum(ctx context.Context, a *medicalrecord.Addendum) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *MedicalRecordRepository) List(ctx context.Context, q *medicalrecord.ListRecordsQuery) (*medicalrecord.PagedRecords, error) {
	tx := r.db.WithContext(ctx).Model(&medicalrecord.MedicalRecord{})

	if q.PatientID != nil {
		tx = tx.Where("patient_id = ?", *q.PatientID)
	}
	if q.DoctorID != nil {
		tx = tx.Where("doctor_id = ?", *q.DoctorID)
	}
	if q.Type != nil {
		tx = tx.Where("type = ?", *q.Type)
	}
	if q.AppointmentID != nil {
		tx = tx.Where("appointment_id = ?", *q.AppointmentID)
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

	var records []*medicalrecord.MedicalRecord
	err := tx.Order("created_at DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return &medicalrecord.PagedRecords{
		Records:    records,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

func (r *MedicalRecordRepository) GetByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*medicalrecord.MedicalRecord, error) {
	var rec medicalrecord.MedicalRecord
	err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("created_at DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, medicalrecord.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
