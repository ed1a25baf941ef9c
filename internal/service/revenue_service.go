package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/careaxis/hms/internal/domain"
	"github.com/careaxis/hms/internal/domain/appointment"
	"github.com/careaxis/hms/internal/domain/billing"
	"github.com/careaxis/hms/internal/domain/laborder"
	"github.com/careaxis/hms/internal/domain/patient"
	"github.com/careaxis/hms/internal/domain/prescription"
	"github.com/careaxis/hms/internal/domain/staff"
	"github.com/careaxis/hms/internal/revenue"
)

// RevenueService assembles the data snapshot for the revenue-integrity
// report and runs the detector over it.
type RevenueService struct {
	cfg              revenue.Config
	patientRepo      patient.Repository
	staffRepo        staff.Repository
	appointmentRepo  appointment.Repository
	labOrderRepo     laborder.Repository
	prescriptionRepo prescription.Repository
	billingRepo      billing.Repository
	auditSvc         *AuditService
	log              *zap.Logger
}

func NewRevenueService(
	cfg revenue.Config,
	patientRepo patient.Repository,
	staffRepo staff.Repository,
	appointmentRepo appointment.Repository,
	labOrderRepo laborder.Repository,
	prescriptionRepo prescription.Repository,
	billingRepo billing.Repository,
	auditSvc *AuditService,
	log *zap.Logger,
) *RevenueService {
	return &RevenueService{
		cfg:              cfg,
		patientRepo:      patientRepo,
		staffRepo:        staffRepo,
		appointmentRepo:  appointmentRepo,
		labOrderRepo:     labOrderRepo,
		prescriptionRepo: prescriptionRepo,
		billingRepo:      billingRepo,
		auditSvc:         auditSvc,
		log:              log,
	}
}

// GenerateReport builds the hospital-wide unbilled-service report.
// Restricted to accountants and admins.
func (s *RevenueService) GenerateReport(ctx context.Context, callerID uuid.UUID, callerRole string, ip string) (*revenue.Report, error) {
	switch domain.Role(callerRole) {
	case domain.RoleAccountant, domain.RoleAdmin:
	default:
		return nil, ErrForbidden
	}

	patients, snap, err := s.fetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	refs := make([]revenue.PatientRef, 0, len(patients))
	for _, p := range patients {
		refs = append(refs, revenue.PatientRef{
			ID:   p.ID,
			Name: p.FullName(),
			UHID: p.UHID,
		})
	}

	report := revenue.BuildReport(s.cfg, refs, snap)

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "read",
		ResourceType: "revenue_report",
		IPAddress:    ip,
	})

	s.log.Info("revenue report generated",
		zap.Int("patients_with_findings", len(report.Patients)),
		zap.Int("total_findings", report.TotalFindings),
		zap.String("total_unbilled", report.TotalUnbilled.StringFixed(2)),
		zap.Float64("leakage_percent", report.LeakagePercent),
	)

	return &report, nil
}

// PatientFindings runs the detector for a single patient.
func (s *RevenueService) PatientFindings(ctx context.Context, patientID uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*revenue.PatientFindings, error) {
	switch domain.Role(callerRole) {
	case domain.RoleAccountant, domain.RoleAdmin:
	default:
		return nil, ErrForbidden
	}

	p, err := s.patientRepo.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	snap, err := s.fetchPatientSnapshot(ctx, patientID)
	if err != nil {
		return nil, err
	}

	ref := revenue.PatientRef{ID: p.ID, Name: p.FullName(), UHID: p.UHID}
	findings := revenue.DetectUnbilled(s.cfg, ref, snap)

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "read",
		ResourceType: "revenue_report",
		ResourceID:   patientID.String(),
		IPAddress:    ip,
	})

	return &revenue.PatientFindings{
		Patient:  ref,
		Findings: findings,
		Subtotal: revenue.TotalExpected(findings),
	}, nil
}

// fetchSnapshot pulls the six collections concurrently. The collections
// are independent reads with no transactional consistency between them;
// the detector tolerates the resulting torn snapshots.
func (s *RevenueService) fetchSnapshot(ctx context.Context) ([]*patient.Patient, *revenue.Snapshot, error) {
	var (
		patients []*patient.Patient
		staffAll []*staff.Staff
		snap     revenue.Snapshot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		patients, err = s.patientRepo.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		staffAll, err = s.staffRepo.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Appointments, err = s.appointmentRepo.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.LabOrders, err = s.labOrderRepo.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Prescriptions, err = s.prescriptionRepo.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.BillingItems, err = s.billingRepo.AllItems(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("revenue snapshot fetch failed", zap.Error(err))
		return nil, nil, fmt.Errorf("fetching revenue snapshot: %w", err)
	}

	snap.StaffNames = make(map[uuid.UUID]string, len(staffAll))
	for _, m := range staffAll {
		snap.StaffNames[m.ID] = m.FullName()
	}

	return patients, &snap, nil
}

func (s *RevenueService) fetchPatientSnapshot(ctx context.Context, patientID uuid.UUID) (*revenue.Snapshot, error) {
	var (
		staffAll []*staff.Staff
		snap     revenue.Snapshot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Appointments, err = s.appointmentRepo.GetByPatient(gctx, patientID)
		return err
	})
	g.Go(func() error {
		var err error
		snap.LabOrders, err = s.labOrderRepo.GetByPatient(gctx, patientID)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Prescriptions, err = s.prescriptionRepo.GetByPatient(gctx, patientID)
		return err
	})
	g.Go(func() error {
		var err error
		snap.BillingItems, err = s.billingRepo.AllItems(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		staffAll, err = s.staffRepo.GetAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching revenue snapshot: %w", err)
	}

	snap.StaffNames = make(map[uuid.UUID]string, len(staffAll))
	for _, m := range staffAll {
		snap.StaffNames[m.ID] = m.FullName()
	}

	return &snap, nil
}
