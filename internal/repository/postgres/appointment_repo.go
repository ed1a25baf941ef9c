package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careaxis/hms/internal/domain/appointment"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appointment.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, id uuid.UUID, cmd *appointment.UpdateAppointmentCommand) (*appointment.Appointment, error) {
	updates := map[string]any{}
	setIf(updates, "scheduled_at", cmd.ScheduledAt)
	setIf(updates, "duration_mins", cmd.DurationMins)
	setIf(updates, "type", cmd.Type)
	setIf(updates, "chief_complaint", cmd.ChiefComplaint)
	setIf(updates, "notes", cmd.Notes)
	setIf(updates, "room", cmd.Room)

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
			Where("id = ? AND deleted_at IS NULL", id).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, appointment.ErrAppointmentNotFound
		}
	}

	return r.GetByID(ctx, id)
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Model(a).
		Select("status", "started_at", "completed_at", "cancelled_at",
			"cancellation_reason", "cancelled_by", "notes").
		Updates(a).Error
}

func (r *AppointmentRepository) SetBill(ctx context.Context, id uuid.UUID, billID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("id = ? AND bill_id IS NULL", id).
		Update("bill_id", billID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return appointment.ErrAlreadyBilled
	}
	return nil
}

func (r *AppointmentRepository) List(ctx context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	tx := r.db.WithContext(ctx).Model(&appointment.Appointment{}).Where("deleted_at IS NULL")

	if q.PatientID != nil {
		tx = tx.Where("patient_id = ?", *q.PatientID)
	}
	if q.DoctorID != nil {
		tx = tx.Where("doctor_id = ?", *q.DoctorID)
	}
	if q.Department != nil {
		tx = tx.Where("department = ?", *q.Department)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}
	if q.Type != nil {
		tx = tx.Where("type = ?", *q.Type)
	}
	if q.DateFrom != nil {
		tx = tx.Where("scheduled_at >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		tx = tx.Where("scheduled_at <= ?", *q.DateTo)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var appointments []*appointment.Appointment
	err := tx.Order("scheduled_at DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}

	return &appointment.PagedAppointments{
		Appointments: appointments,
		TotalCount:   total,
		Page:         q.Page,
		PageSize:     q.PageSize,
		TotalPages:   totalPages(total, q.PageSize),
	}, nil
}

// HasConflict reports whether the doctor has a live appointment
// overlapping [start, end).
func (r *AppointmentRepository) HasConflict(ctx context.Context, doctorID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("doctor_id = ? AND deleted_at IS NULL", doctorID).
		Where("status IN ?", []appointment.AppointmentStatus{
			appointment.StatusScheduled, appointment.StatusInProgress,
		}).
		Where("scheduled_at < ? AND (scheduled_at + (duration_mins || ' minutes')::interval) > ?", end, start)
	if excludeID != nil {
		tx = tx.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AppointmentRepository) GetByPatient(ctx context.Context, patientID uuid.UUID) ([]*appointment.Appointment, error) {
	var appointments []*appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("patient_id = ? AND deleted_at IS NULL", patientID).
		Order("scheduled_at DESC").
		Find(&appointments).Error
	return appointments, err
}

func (r *AppointmentRepository) GetAll(ctx context.Context) ([]*appointment.Appointment, error) {
	var appointments []*appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Find(&appointments).Error
	return appointments, err
}
