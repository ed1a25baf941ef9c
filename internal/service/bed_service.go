package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careaxis/hms/internal/domain"
	"github.com/careaxis/hms/internal/domain/bed"
	"github.com/careaxis/hms/internal/domain/billing"
)

type BedService struct {
	repo       bed.Repository
	billingSvc *BillingService
	auditSvc   *AuditService
	log        *zap.Logger
}

func NewBedService(repo bed.Repository, billingSvc *BillingService, auditSvc *AuditService, log *zap.Logger) *BedService {
	return &BedService{
		repo:       repo,
		billingSvc: billingSvc,
		auditSvc:   auditSvc,
		log:        log,
	}
}

func (s *BedService) CreateWard(ctx context.Context, w *bed.Ward, callerID uuid.UUID, callerRole string, ip string) error {
	if domain.Role(callerRole) != domain.RoleAdmin {
		return ErrForbidden
	}
	if strings.TrimSpace(w.Name) == "" {
		return &ValidationError{Fields: []string{"ward name is required"}}
	}
	if !w.Type.IsValid() {
		return bed.ErrInvalidWardType
	}

	if err := s.repo.CreateWard(ctx, w); err != nil {
		return fmt.Errorf("creating ward: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "ward",
		ResourceID:   w.ID.String(),
		IPAddress:    ip,
	})

	return nil
}

func (s *BedService) ListWards(ctx context.Context) ([]*bed.Ward, error) {
	return s.repo.ListWards(ctx)
}

func (s *BedService) CreateBed(ctx context.Context, b *bed.Bed, callerID uuid.UUID, callerRole string, ip string) error {
	if domain.Role(callerRole) != domain.RoleAdmin {
		return ErrForbidden
	}
	if strings.TrimSpace(b.Number) == "" {
		return &ValidationError{Fields: []string{"bed number is required"}}
	}
	if _, err := s.repo.GetWard(ctx, b.WardID); err != nil {
		return err
	}

	b.Status = bed.StatusAvailable
	if err := s.repo.CreateBed(ctx, b); err != nil {
		return fmt.Errorf("creating bed: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "bed",
		ResourceID:   b.ID.String(),
		IPAddress:    ip,
	})

	return nil
}

func (s *BedService) ListBeds(ctx context.Context, q *bed.ListBedsQuery) (*bed.PagedBeds, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 50
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.ListBeds(ctx, q)
}

// Admit assigns a patient to an available bed.
func (s *BedService) Admit(ctx context.Context, cmd *bed.AdmitPatientCommand, callerID uuid.UUID, callerRole string, ip string) (*bed.Assignment, error) {
	switch domain.Role(callerRole) {
	case domain.RoleDoctor, domain.RoleNurse, domain.RoleReceptionist, domain.RoleAdmin:
	default:
		return nil, ErrForbidden
	}

	b, err := s.repo.GetBed(ctx, cmd.BedID)
	if err != nil {
		return nil, err
	}

	if err := b.Occupy(cmd.PatientID); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateBedStatus(ctx, b); err != nil {
		return nil, fmt.Errorf("persisting bed status: %w", err)
	}

	a := &bed.Assignment{
		BedID:      cmd.BedID,
		PatientID:  cmd.PatientID,
		AdmittedAt: time.Now(),
		AdmittedBy: cmd.AdmittedBy,
	}
	if err := s.repo.CreateAssignment(ctx, a); err != nil {
		return nil, fmt.Errorf("creating assignment: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "bed_assignment",
		ResourceID:   a.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("patient admitted",
		zap.String("bed_id", cmd.BedID.String()),
		zap.String("patient_id", cmd.PatientID.String()),
	)

	return a, nil
}

// Transfer moves the occupant of one bed to another available bed. The
// admission timestamp carries over so the whole stay is billed once, at
// discharge, against the bed the patient ends up in.
func (s *BedService) Transfer(ctx context.Context, fromBedID, toBedID uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*bed.Assignment, error) {
	switch domain.Role(callerRole) {
	case domain.RoleDoctor, domain.RoleNurse, domain.RoleAdmin:
	default:
		return nil, ErrForbidden
	}

	from, err := s.repo.GetBed(ctx, fromBedID)
	if err != nil {
		return nil, err
	}
	to, err := s.repo.GetBed(ctx, toBedID)
	if err != nil {
		return nil, err
	}

	prev, err := s.repo.GetOpenAssignment(ctx, fromBedID)
	if err != nil {
		return nil, err
	}

	if err := to.Occupy(prev.PatientID); err != nil {
		return nil, err
	}
	if err := from.Release(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateBedStatus(ctx, to); err != nil {
		return nil, fmt.Errorf("persisting bed status: %w", err)
	}
	if err := s.repo.UpdateBedStatus(ctx, from); err != nil {
		return nil, fmt.Errorf("persisting bed status: %w", err)
	}

	now := time.Now()
	prev.DischargedAt = &now
	prev.DischargedBy = &callerID
	if err := s.repo.CloseAssignment(ctx, prev); err != nil {
		return nil, fmt.Errorf("closing assignment: %w", err)
	}

	a := &bed.Assignment{
		BedID:      toBedID,
		PatientID:  prev.PatientID,
		AdmittedAt: prev.AdmittedAt,
		AdmittedBy: callerID,
	}
	if err := s.repo.CreateAssignment(ctx, a); err != nil {
		return nil, fmt.Errorf("creating assignment: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "bed_assignment",
		ResourceID:   a.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("patient transferred",
		zap.String("from_bed_id", fromBedID.String()),
		zap.String("to_bed_id", toBedID.String()),
		zap.String("patient_id", prev.PatientID.String()),
	)

	return a, nil
}

// Discharge frees the bed, closes the open assignment and bills the
// stay at the bed's daily tariff.
func (s *BedService) Discharge(ctx context.Context, bedID uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*bed.Assignment, error) {
	switch domain.Role(callerRole) {
	case domain.RoleDoctor, domain.RoleNurse, domain.RoleAdmin:
	default:
		return nil, ErrForbidden
	}

	b, err := s.repo.GetBed(ctx, bedID)
	if err != nil {
		return nil, err
	}

	a, err := s.repo.GetOpenAssignment(ctx, bedID)
	if err != nil {
		return nil, err
	}

	if err := b.Release(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateBedStatus(ctx, b); err != nil {
		return nil, fmt.Errorf("persisting bed status: %w", err)
	}

	now := time.Now()
	a.DischargedAt = &now
	a.DischargedBy = &callerID
	if err := s.repo.CloseAssignment(ctx, a); err != nil {
		return nil, fmt.Errorf("closing assignment: %w", err)
	}

	s.billStay(ctx, b, a, callerID, callerRole, ip)

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "bed_assignment",
		ResourceID:   a.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("patient discharged",
		zap.String("bed_id", bedID.String()),
		zap.String("patient_id", a.PatientID.String()),
		zap.Int("stay_days", a.StayDays(now)),
	)

	return a, nil
}

// billStay creates the bed-charge bill for a closed stay. Billing
// failures are logged, not returned: discharge must not be blocked and
// the revenue report surfaces the gap.
func (s *BedService) billStay(ctx context.Context, b *bed.Bed, a *bed.Assignment, callerID uuid.UUID, callerRole string, ip string) {
	if b.DailyTariff.IsZero() {
		return
	}

	days := a.StayDays(time.Now())
	cmd := &billing.CreateBillCommand{
		PatientID: a.PatientID,
		Items: []billing.CreateBillItem{{
			SourceType:  billing.SourceBedCharge,
			SourceID:    a.ID,
			Description: fmt.Sprintf("Bed charges - %d day(s)", days),
			UnitPrice:   b.DailyTariff,
			Quantity:    days,
		}},
		CreatedBy: callerID,
	}

	if _, err := s.billingSvc.createBill(ctx, cmd, callerID, callerRole, ip); err != nil {
		s.log.Warn("failed to bill bed stay",
			zap.String("assignment_id", a.ID.String()),
			zap.Error(err),
		)
	}
}
