package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careaxis/hms/internal/domain"
	"github.com/careaxis/hms/internal/domain/laborder"
)

type LabOrderService struct {
	repo     laborder.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewLabOrderService(repo laborder.Repository, auditSvc *AuditService, log *zap.Logger) *LabOrderService {
	return &LabOrderService{
		repo:     repo,
		auditSvc: auditSvc,
		log:      log,
	}
}

func (s *LabOrderService) CreateOrder(ctx context.Context, cmd *laborder.CreateLabOrderCommand, callerID uuid.UUID, callerRole string, ip string) (*laborder.LabOrder, error) {
	switch domain.Role(callerRole) {
	case domain.RoleDoctor, domain.RoleAdmin:
	default:
		return nil, ErrForbidden
	}

	if len(cmd.Tests) == 0 {
		return nil, laborder.ErrNoTests
	}
	for _, t := range cmd.Tests {
		if strings.TrimSpace(t.Name) == "" {
			return nil, &ValidationError{Fields: []string{"test name is required"}}
		}
		if t.Price.IsNegative() {
			return nil, laborder.ErrNegativeTestPrice
		}
	}

	o := &laborder.LabOrder{
		PatientID:     cmd.PatientID,
		DoctorID:      cmd.DoctorID,
		AppointmentID: cmd.AppointmentID,
		Tests:         cmd.Tests,
		TotalAmount:   laborder.SumTestPrices(cmd.Tests),
		Status:        laborder.StatusPending,
		ClinicalNotes: cmd.ClinicalNotes,
		CreatedBy:     cmd.CreatedBy,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		s.log.Error("failed to create lab order", zap.Error(err))
		return nil, fmt.Errorf("creating lab order: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "lab_order",
		ResourceID:   o.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("lab order created",
		zap.String("order_id", o.ID.String()),
		zap.Int("tests", len(o.Tests)),
		zap.String("total_amount", o.TotalAmount.StringFixed(2)),
	)

	return o, nil
}

func (s *LabOrderService) Get(ctx context.Context, id uuid.UUID, callerRole string, callerPatientID *uuid.UUID) (*laborder.LabOrder, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if domain.Role(callerRole) == domain.RolePatient {
		if callerPatientID == nil || *callerPatientID != o.PatientID {
			return nil, ErrForbidden
		}
	}

	return o, nil
}

// CollectSample is performed by a lab technician when a specimen is taken.
func (s *LabOrderService) CollectSample(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*laborder.LabOrder, error) {
	switch domain.Role(callerRole) {
	case domain.RoleLabTechnician, domain.RoleNurse, domain.RoleAdmin:
	default:
		return nil, ErrForbidden
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := o.CollectSample(callerID); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, o); err != nil {
		return nil, fmt.Errorf("persisting status: %w", err)
	}

	s.auditEntry(ctx, callerID, callerRole, id, ip)
	return o, nil
}

func (s *LabOrderService) StartProcessing(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*laborder.LabOrder, error) {
	switch domain.Role(callerRole) {
	case domain.RoleLabTechnician, domain.RoleAdmin:
	default:
		return nil, ErrForbidden
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := o.StartProcessing(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, o); err != nil {
		return nil, fmt.Errorf("persisting status: %w", err)
	}

	s.auditEntry(ctx, callerID, callerRole, id, ip)
	return o, nil
}

// CompleteOrder records the result summary and closes the order. The
// order becomes billable from this point.
func (s *LabOrderService) CompleteOrder(ctx context.Context, id uuid.UUID, resultSummary string, callerID uuid.UUID, callerRole string, ip string) (*laborder.LabOrder, error) {
	switch domain.Role(callerRole) {
	case domain.RoleLabTechnician, domain.RoleAdmin:
	default:
		return nil, ErrForbidden
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := o.Complete(callerID, resultSummary); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, o); err != nil {
		return nil, fmt.Errorf("persisting status: %w", err)
	}

	s.auditEntry(ctx, callerID, callerRole, id, ip)

	s.log.Info("lab order completed",
		zap.String("order_id", id.String()),
		zap.String("completed_by", callerID.String()),
	)

	return o, nil
}

func (s *LabOrderService) CancelOrder(ctx context.Context, id uuid.UUID, reason string, callerID uuid.UUID, callerRole string, ip string) (*laborder.LabOrder, error) {
	if !domain.Role(callerRole).IsStaff() {
		return nil, ErrForbidden
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := o.Cancel(reason); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, o); err != nil {
		return nil, fmt.Errorf("persisting status: %w", err)
	}

	s.auditEntry(ctx, callerID, callerRole, id, ip)
	return o, nil
}

func (s *LabOrderService) List(ctx context.Context, q *laborder.ListLabOrdersQuery, callerRole string, callerPatientID *uuid.UUID) (*laborder.PagedLabOrders, error) {
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

func (s *LabOrderService) auditEntry(ctx context.Context, callerID uuid.UUID, callerRole string, orderID uuid.UUID, ip string) {
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "lab_order",
		ResourceID:   orderID.String(),
		IPAddress:    ip,
	})
}
