package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/careaxis/hms/internal/domain"
	"github.com/careaxis/hms/internal/domain/appointment"
	"github.com/careaxis/hms/internal/domain/billing"
	"github.com/careaxis/hms/internal/domain/laborder"
	"github.com/careaxis/hms/pkg/metrics"
)

type BillingService struct {
	repo            billing.Repository
	appointmentRepo appointment.Repository
	labOrderRepo    laborder.Repository
	taxRatePercent  decimal.Decimal
	auditSvc        *AuditService
	collector       *metrics.Collector
	log             *zap.Logger
}

func NewBillingService(
	repo billing.Repository,
	appointmentRepo appointment.Repository,
	labOrderRepo laborder.Repository,
	taxRatePercent decimal.Decimal,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *BillingService {
	return &BillingService{
		repo:            repo,
		appointmentRepo: appointmentRepo,
		labOrderRepo:    labOrderRepo,
		taxRatePercent:  taxRatePercent,
		auditSvc:        auditSvc,
		collector:       collector,
		log:             log,
	}
}

// CreateBill creates a draft bill from the requested lines and links the
// referenced clinical services back to it so they stop showing up as
// unbilled in the revenue report.
func (s *BillingService) CreateBill(ctx context.Context, cmd *billing.CreateBillCommand, callerID uuid.UUID, callerRole string, ip string) (*billing.Bill, error) {
	switch domain.Role(callerRole) {
	case domain.RoleAccountant, domain.RoleReceptionist, domain.RoleAdmin:
	default:
		return nil, ErrForbidden
	}

	return s.createBill(ctx, cmd, callerID, callerRole, ip)
}

// createBill is the RBAC-free path used by flows that generate bills as
// a side effect of clinical operations, e.g. discharge.
func (s *BillingService) createBill(ctx context.Context, cmd *billing.CreateBillCommand, callerID uuid.UUID, callerRole string, ip string) (*billing.Bill, error) {
	if len(cmd.Items) == 0 {
		return nil, billing.ErrNoItems
	}
	if cmd.Discount.IsNegative() {
		return nil, billing.ErrNegativeAmount
	}

	items := make([]billing.BillingItem, len(cmd.Items))
	for i, line := range cmd.Items {
		if !line.SourceType.IsValid() {
			return nil, billing.ErrInvalidSourceType
		}
		if strings.TrimSpace(line.Description) == "" {
			return nil, &ValidationError{Fields: []string{"item description is required"}}
		}
		if line.UnitPrice.IsNegative() {
			return nil, billing.ErrNegativeAmount
		}
		qty := line.Quantity
		if qty <= 0 {
			qty = 1
		}
		items[i] = billing.BillingItem{
			SourceType:  line.SourceType,
			SourceID:    line.SourceID,
			Description: line.Description,
			UnitPrice:   line.UnitPrice,
			Quantity:    qty,
			TotalPrice:  line.UnitPrice.Mul(decimal.NewFromInt(int64(qty))),
		}
	}

	seq, err := s.repo.NextBillSequence(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocating bill number: %w", err)
	}

	b := &billing.Bill{
		BillNumber: billing.NewBillNumber(time.Now(), seq),
		PatientID:  cmd.PatientID,
		Items:      items,
		Discount:   cmd.Discount,
		Status:     billing.StatusDraft,
		CreatedBy:  cmd.CreatedBy,
	}
	b.Recalculate(s.taxRatePercent)

	if err := s.repo.Create(ctx, b); err != nil {
		s.log.Error("failed to create bill", zap.Error(err))
		return nil, fmt.Errorf("creating bill: %w", err)
	}
	if s.collector != nil {
		s.collector.BillsCreatedTotal.Inc()
	}

	s.linkSources(ctx, b)

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "bill",
		ResourceID:   b.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("bill created",
		zap.String("bill_id", b.ID.String()),
		zap.String("bill_number", b.BillNumber),
		zap.String("total", b.Total.StringFixed(2)),
	)

	return b, nil
}

// BillAppointment is the common path for front-desk: one bill covering a
// completed consultation at its captured fee.
func (s *BillingService) BillAppointment(ctx context.Context, appointmentID uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*billing.Bill, error) {
	a, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if a.Status != appointment.StatusCompleted {
		return nil, appointment.ErrInvalidStatusTransition
	}
	if a.IsBilled() {
		return nil, appointment.ErrAlreadyBilled
	}

	cmd := &billing.CreateBillCommand{
		PatientID: a.PatientID,
		Items: []billing.CreateBillItem{{
			SourceType:  billing.SourceAppointment,
			SourceID:    a.ID,
			Description: "Consultation - " + a.Department,
			UnitPrice:   a.ConsultationFee,
			Quantity:    1,
		}},
		CreatedBy: callerID,
	}

	return s.CreateBill(ctx, cmd, callerID, callerRole, ip)
}

func (s *BillingService) Get(ctx context.Context, id uuid.UUID, callerRole string, callerPatientID *uuid.UUID) (*billing.Bill, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if domain.Role(callerRole) == domain.RolePatient {
		if callerPatientID == nil || *callerPatientID != b.PatientID {
			return nil, ErrForbidden
		}
	}

	return b, nil
}

func (s *BillingService) IssueBill(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*billing.Bill, error) {
	return s.transition(ctx, id, callerID, callerRole, ip, func(b *billing.Bill) error {
		return b.Issue()
	})
}

func (s *BillingService) PayBill(ctx context.Context, id uuid.UUID, via string, callerID uuid.UUID, callerRole string, ip string) (*billing.Bill, error) {
	return s.transition(ctx, id, callerID, callerRole, ip, func(b *billing.Bill) error {
		return b.MarkPaid(via)
	})
}

func (s *BillingService) VoidBill(ctx context.Context, id uuid.UUID, reason string, callerID uuid.UUID, callerRole string, ip string) (*billing.Bill, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, &ValidationError{Fields: []string{"void reason is required"}}
	}
	return s.transition(ctx, id, callerID, callerRole, ip, func(b *billing.Bill) error {
		return b.Void(reason)
	})
}

func (s *BillingService) List(ctx context.Context, q *billing.ListBillsQuery, callerRole string, callerPatientID *uuid.UUID) (*billing.PagedBills, error) {
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

func (s *BillingService) transition(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string, apply func(*billing.Bill) error) (*billing.Bill, error) {
	switch domain.Role(callerRole) {
	case domain.RoleAccountant, domain.RoleReceptionist, domain.RoleAdmin:
	default:
		return nil, ErrForbidden
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(b); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, b); err != nil {
		return nil, fmt.Errorf("persisting status: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "bill",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return b, nil
}

// linkSources writes the bill reference back onto the services it
// charges for. Failures are logged, not returned: the bill exists
// either way and the revenue report catches any link that was missed.
func (s *BillingService) linkSources(ctx context.Context, b *billing.Bill) {
	for _, item := range b.Items {
		switch item.SourceType {
		case billing.SourceAppointment:
			if err := s.appointmentRepo.SetBill(ctx, item.SourceID, b.ID); err != nil {
				s.log.Warn("failed to link bill to appointment",
					zap.String("appointment_id", item.SourceID.String()),
					zap.String("bill_id", b.ID.String()),
					zap.Error(err),
				)
			}
		case billing.SourceLabOrder:
			if err := s.labOrderRepo.MarkBilled(ctx, item.SourceID, b.ID); err != nil &&
				!errors.Is(err, laborder.ErrAlreadyBilled) {
				s.log.Warn("failed to link bill to lab order",
					zap.String("order_id", item.SourceID.String()),
					zap.String("bill_id", b.ID.String()),
					zap.Error(err),
				)
			}
		}
	}
}
