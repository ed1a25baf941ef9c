package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/careaxis/hms/internal/domain"
	"github.com/careaxis/hms/internal/domain/appointment"
	"github.com/careaxis/hms/pkg/metrics"
)

type AppointmentService struct {
	repo            appointment.Repository
	consultationFee decimal.Decimal
	auditSvc        *AuditService
	collector       *metrics.Collector
	log             *zap.Logger
}

func NewAppointmentService(repo appointment.Repository, consultationFee decimal.Decimal, auditSvc *AuditService, collector *metrics.Collector, log *zap.Logger) *AppointmentService {
	return &AppointmentService{
		repo:            repo,
		consultationFee: consultationFee,
		auditSvc:        auditSvc,
		collector:       collector,
		log:             log,
	}
}

func (s *AppointmentService) Schedule(ctx context.Context, cmd *appointment.CreateAppointmentCommand, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	if err := validateScheduleCommand(cmd); err != nil {
		return nil, err
	}

	end := cmd.ScheduledAt.Add(time.Duration(cmd.DurationMins) * time.Minute)
	conflict, err := s.repo.HasConflict(ctx, cmd.DoctorID, cmd.ScheduledAt, end, nil)
	if err != nil {
		return nil, fmt.Errorf("checking doctor availability: %w", err)
	}
	if conflict {
		return nil, appointment.ErrAppointmentConflict
	}

	a := &appointment.Appointment{
		PatientID:       cmd.PatientID,
		DoctorID:        cmd.DoctorID,
		Department:      strings.TrimSpace(cmd.Department),
		ScheduledAt:     cmd.ScheduledAt,
		DurationMins:    cmd.DurationMins,
		Type:            cmd.Type,
		Status:          appointment.StatusScheduled,
		ChiefComplaint:  cmd.ChiefComplaint,
		Notes:           cmd.Notes,
		Room:            cmd.Room,
		ConsultationFee: s.consultationFee,
		CreatedBy:       cmd.CreatedBy,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.log.Error("failed to create appointment", zap.Error(err))
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("appointment scheduled",
		zap.String("appointment_id", a.ID.String()),
		zap.String("doctor_id", a.DoctorID.String()),
		zap.Time("scheduled_at", a.ScheduledAt),
	)

	return a, nil
}

func (s *AppointmentService) Get(ctx context.Context, id uuid.UUID, callerRole string, callerPatientID *uuid.UUID) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if domain.Role(callerRole) == domain.RolePatient {
		if callerPatientID == nil || *callerPatientID != a.PatientID {
			return nil, ErrForbidden
		}
	}

	return a, nil
}

func (s *AppointmentService) Reschedule(ctx context.Context, id uuid.UUID, cmd *appointment.UpdateAppointmentCommand, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	if !domain.Role(callerRole).IsStaff() {
		return nil, ErrForbidden
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != appointment.StatusScheduled {
		return nil, appointment.ErrInvalidStatusTransition
	}

	if cmd.ScheduledAt != nil {
		duration := a.DurationMins
		if cmd.DurationMins != nil {
			duration = *cmd.DurationMins
		}
		end := cmd.ScheduledAt.Add(time.Duration(duration) * time.Minute)
		conflict, err := s.repo.HasConflict(ctx, a.DoctorID, *cmd.ScheduledAt, end, &id)
		if err != nil {
			return nil, fmt.Errorf("checking doctor availability: %w", err)
		}
		if conflict {
			return nil, appointment.ErrAppointmentConflict
		}
	}

	updated, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "appointment",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return updated, nil
}

// Start moves a scheduled appointment to in_progress when the patient is called in.
func (s *AppointmentService) Start(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	switch domain.Role(callerRole) {
	case domain.RoleDoctor, domain.RoleNurse, domain.RoleAdmin:
	default:
		return nil, ErrForbidden
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := a.Start(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, fmt.Errorf("persisting status: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "appointment",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return a, nil
}

// Complete closes out an in-progress consultation. The visit becomes
// billable from this point; bill creation is a separate step.
func (s *AppointmentService) Complete(ctx context.Context, id uuid.UUID, notes string, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	switch domain.Role(callerRole) {
	case domain.RoleDoctor, domain.RoleAdmin:
	default:
		return nil, ErrForbidden
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := a.Complete(); err != nil {
		return nil, err
	}
	if notes != "" {
		a.Notes = notes
	}

	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, fmt.Errorf("persisting status: %w", err)
	}

	if s.collector != nil {
		s.collector.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "appointment",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	s.log.Info("appointment completed", zap.String("appointment_id", id.String()))

	return a, nil
}

func (s *AppointmentService) Cancel(ctx context.Context, id uuid.UUID, cmd *appointment.CancelAppointmentCommand, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := a.Cancel(cmd.Reason, cmd.CancelledBy); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, fmt.Errorf("persisting status: %w", err)
	}

	if s.collector != nil {
		s.collector.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "appointment",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return a, nil
}

func (s *AppointmentService) List(ctx context.Context, q *appointment.ListAppointmentsQuery, callerRole string, callerPatientID *uuid.UUID) (*appointment.PagedAppointments, error) {
	// Patients see only their own appointments regardless of filters.
	if domain.Role(callerRole) == domain.RolePatient {
		if callerPatientID == nil {
			return nil, ErrForbidden
		}
		q.PatientID = callerPatientID
	}

	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	return s.repo.List(ctx, q)
}

func validateScheduleCommand(cmd *appointment.CreateAppointmentCommand) error {
	var errs []string

	if cmd.PatientID == uuid.Nil {
		errs = append(errs, "patient_id is required")
	}
	if cmd.DoctorID == uuid.Nil {
		errs = append(errs, "doctor_id is required")
	}
	if strings.TrimSpace(cmd.Department) == "" {
		errs = append(errs, "department is required")
	}
	if cmd.ScheduledAt.Before(time.Now()) {
		errs = append(errs, "scheduled_at must be in the future")
	}
	if cmd.DurationMins <= 0 || cmd.DurationMins > 240 {
		errs = append(errs, "duration_mins must be between 1 and 240")
	}
	if !cmd.Type.IsValid() {
		errs = append(errs, "type is invalid")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
