package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careaxis/hms/internal/domain"
	"github.com/careaxis/hms/internal/domain/medicine"
	"github.com/careaxis/hms/internal/domain/prescription"
	"github.com/careaxis/hms/internal/recommend"
	"github.com/careaxis/hms/pkg/metrics"
)

type PrescriptionService struct {
	repo         prescription.Repository
	medicineRepo medicine.Repository
	auditSvc     *AuditService
	collector    *metrics.Collector
	log          *zap.Logger
}

func NewPrescriptionService(repo prescription.Repository, medicineRepo medicine.Repository, auditSvc *AuditService, collector *metrics.Collector, log *zap.Logger) *PrescriptionService {
	return &PrescriptionService{
		repo:         repo,
		medicineRepo: medicineRepo,
		auditSvc:     auditSvc,
		collector:    collector,
		log:          log,
	}
}

// CreatePrescription records a doctor's prescription. Medicine lines
// with blank dosage, frequency, or duration are filled in from the
// catalog recommendation so the pharmacist always reviews a complete
// instruction set.
func (s *PrescriptionService) CreatePrescription(ctx context.Context, cmd *prescription.CreatePrescriptionCommand, callerID uuid.UUID, callerRole string, ip string) (*prescription.Prescription, error) {
	switch domain.Role(callerRole) {
	case domain.RoleDoctor, domain.RoleAdmin:
	default:
		return nil, ErrForbidden
	}

	if len(cmd.Medicines) == 0 {
		return nil, prescription.ErrNoMedicines
	}

	medicines := make([]prescription.MedicineItem, len(cmd.Medicines))
	for i, item := range cmd.Medicines {
		if strings.TrimSpace(item.Name) == "" {
			return nil, &ValidationError{Fields: []string{"medicine name is required"}}
		}
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		s.fillMissingFields(ctx, &item)
		medicines[i] = item
	}

	p := &prescription.Prescription{
		PatientID:     cmd.PatientID,
		DoctorID:      cmd.DoctorID,
		AppointmentID: cmd.AppointmentID,
		Medicines:     medicines,
		Status:        prescription.StatusPending,
		Diagnosis:     cmd.Diagnosis,
		Instructions:  cmd.Instructions,
		CreatedBy:     cmd.CreatedBy,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to create prescription", zap.Error(err))
		return nil, fmt.Errorf("creating prescription: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "prescription",
		ResourceID:   p.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("prescription created",
		zap.String("prescription_id", p.ID.String()),
		zap.Int("medicines", len(p.Medicines)),
	)

	return p, nil
}

func (s *PrescriptionService) Get(ctx context.Context, id uuid.UUID, callerRole string, callerPatientID *uuid.UUID) (*prescription.Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if domain.Role(callerRole) == domain.RolePatient {
		if callerPatientID == nil || *callerPatientID != p.PatientID {
			return nil, ErrForbidden
		}
	}

	return p, nil
}

// Process approves or rejects a pending prescription. Only pharmacists
// (and admins) may process; approval dispenses stock for each line.
func (s *PrescriptionService) Process(ctx context.Context, id uuid.UUID, cmd *prescription.ProcessPrescriptionCommand, callerID uuid.UUID, callerRole string, ip string) (*prescription.Prescription, error) {
	switch domain.Role(callerRole) {
	case domain.RolePharmacist, domain.RoleAdmin:
	default:
		return nil, ErrForbidden
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Approve {
		if err := p.Approve(cmd.ProcessedBy); err != nil {
			return nil, err
		}
	} else {
		if strings.TrimSpace(cmd.Reason) == "" {
			return nil, prescription.ErrRejectReasonRequired
		}
		if err := p.Reject(cmd.ProcessedBy, cmd.Reason); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateStatus(ctx, p); err != nil {
		return nil, fmt.Errorf("persisting status: %w", err)
	}

	if s.collector != nil {
		s.collector.PrescriptionsTotal.WithLabelValues(string(p.Status)).Inc()
	}

	if cmd.Approve {
		s.dispenseStock(ctx, p)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "prescription",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	s.log.Info("prescription processed",
		zap.String("prescription_id", id.String()),
		zap.String("status", string(p.Status)),
		zap.String("processed_by", callerID.String()),
	)

	return p, nil
}

func (s *PrescriptionService) List(ctx context.Context, q *prescription.ListPrescriptionsQuery, callerRole string, callerPatientID *uuid.UUID) (*prescription.PagedPrescriptions, error) {
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

// fillMissingFields completes blank dosage/frequency/duration from the
// catalog recommendation. Lookup failures leave the line on defaults;
// prescribing must not fail because the catalog is unavailable.
func (s *PrescriptionService) fillMissingFields(ctx context.Context, item *prescription.MedicineItem) {
	if item.Dosage != "" && item.Frequency != "" && item.Duration != "" {
		return
	}

	med, err := s.medicineRepo.FindByName(ctx, item.Name)
	if err != nil && !errors.Is(err, medicine.ErrMedicineNotFound) {
		s.log.Warn("catalog lookup failed during prescription fill",
			zap.String("medicine", item.Name),
			zap.Error(err),
		)
	}

	rec := recommend.Compute(med, item.Name)
	if item.Dosage == "" {
		item.Dosage = rec.Dosage
	}
	if item.Frequency == "" {
		item.Frequency = rec.Frequency
	}
	if item.Duration == "" {
		item.Duration = rec.Duration
	}
}

// dispenseStock decrements catalog stock for each approved line.
// Stock errors are logged, not returned: the approval already happened
// and pharmacy reconciles physical stock separately.
func (s *PrescriptionService) dispenseStock(ctx context.Context, p *prescription.Prescription) {
	for _, item := range p.Medicines {
		med, err := s.medicineRepo.FindByName(ctx, item.Name)
		if err != nil {
			s.log.Warn("dispense: medicine not in catalog",
				zap.String("medicine", item.Name),
				zap.Error(err),
			)
			continue
		}
		if err := s.medicineRepo.AdjustStock(ctx, med.ID, -item.Quantity); err != nil {
			s.log.Warn("dispense: stock adjustment failed",
				zap.String("medicine", item.Name),
				zap.Int("quantity", item.Quantity),
				zap.Error(err),
			)
		}
	}
}
