package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careaxis/hms/internal/domain"
	"github.com/careaxis/hms/internal/domain/staff"
)

type StaffService struct {
	repo     staff.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewStaffService(repo staff.Repository, auditSvc *AuditService, log *zap.Logger) *StaffService {
	return &StaffService{
		repo:     repo,
		auditSvc: auditSvc,
		log:      log,
	}
}

// OnboardStaff creates a staff record and mints its employee code.
func (s *StaffService) OnboardStaff(ctx context.Context, cmd *staff.CreateStaffCommand, callerID uuid.UUID, callerRole string, ip string) (*staff.Staff, error) {
	if domain.Role(callerRole) != domain.RoleAdmin {
		return nil, ErrForbidden
	}

	if err := validateStaffCommand(cmd); err != nil {
		return nil, err
	}

	seq, err := s.repo.NextEmployeeSequence(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocating employee code: %w", err)
	}

	joined := cmd.JoinedAt
	if joined.IsZero() {
		joined = time.Now()
	}

	m := &staff.Staff{
		EmployeeCode:   fmt.Sprintf("EMP-%04d", seq),
		FirstName:      strings.TrimSpace(cmd.FirstName),
		LastName:       strings.TrimSpace(cmd.LastName),
		Designation:    cmd.Designation,
		Department:     cmd.Department,
		Specialization: cmd.Specialization,
		LicenseNumber:  cmd.LicenseNumber,
		Phone:          cmd.Phone,
		Email:          strings.ToLower(strings.TrimSpace(cmd.Email)),
		JoinedAt:       joined,
		IsActive:       true,
		CreatedBy:      cmd.CreatedBy,
	}

	if m.IsClinical() && strings.TrimSpace(m.LicenseNumber) == "" {
		return nil, staff.ErrLicenseRequired
	}

	if err := s.repo.Create(ctx, m); err != nil {
		s.log.Error("failed to create staff record", zap.Error(err))
		return nil, fmt.Errorf("creating staff record: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "staff",
		ResourceID:   m.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("staff onboarded",
		zap.String("staff_id", m.ID.String()),
		zap.String("employee_code", m.EmployeeCode),
		zap.String("designation", string(m.Designation)),
	)

	return m, nil
}

func (s *StaffService) Get(ctx context.Context, id uuid.UUID, callerRole string) (*staff.Staff, error) {
	if !domain.Role(callerRole).IsStaff() {
		return nil, ErrForbidden
	}
	return s.repo.GetByID(ctx, id)
}

func (s *StaffService) GetByEmployeeCode(ctx context.Context, code string, callerRole string) (*staff.Staff, error) {
	if !domain.Role(callerRole).IsStaff() {
		return nil, ErrForbidden
	}
	return s.repo.GetByEmployeeCode(ctx, code)
}

func (s *StaffService) UpdateStaff(ctx context.Context, id uuid.UUID, cmd *staff.UpdateStaffCommand, callerID uuid.UUID, callerRole string, ip string) (*staff.Staff, error) {
	if domain.Role(callerRole) != domain.RoleAdmin {
		return nil, ErrForbidden
	}

	m, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "staff",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return m, nil
}

func (s *StaffService) List(ctx context.Context, q *staff.ListStaffQuery, callerRole string) (*staff.PagedStaff, error) {
	if !domain.Role(callerRole).IsStaff() {
		return nil, ErrForbidden
	}

	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	return s.repo.List(ctx, q)
}

func validateStaffCommand(cmd *staff.CreateStaffCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(cmd.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if !cmd.Designation.IsValid() {
		errs = append(errs, "designation is invalid")
	}
	if strings.TrimSpace(cmd.Email) == "" {
		errs = append(errs, "email is required")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
