package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/careaxis/hms/internal/domain/bed"
	"github.com/careaxis/hms/internal/domain/billing"
)

type fakeBedRepo struct {
	wards       map[uuid.UUID]*bed.Ward
	beds        map[uuid.UUID]*bed.Bed
	assignments map[uuid.UUID]*bed.Assignment
}

func newFakeBedRepo() *fakeBedRepo {
	return &fakeBedRepo{
		wards:       map[uuid.UUID]*bed.Ward{},
		beds:        map[uuid.UUID]*bed.Bed{},
		assignments: map[uuid.UUID]*bed.Assignment{},
	}
}

func (f *fakeBedRepo) CreateWard(_ context.Context, w *bed.Ward) error {
	w.ID = uuid.New()
	f.wards[w.ID] = w
	return nil
}

func (f *fakeBedRepo) GetWard(_ context.Context, id uuid.UUID) (*bed.Ward, error) {
	w, ok := f.wards[id]
	if !ok {
		return nil, bed.ErrWardNotFound
	}
	return w, nil
}

func (f *fakeBedRepo) ListWards(_ context.Context) ([]*bed.Ward, error) {
	var out []*bed.Ward
	for _, w := range f.wards {
		out = append(out, w)
	}
	return out, nil
}

func (f *fakeBedRepo) CreateBed(_ context.Context, b *bed.Bed) error {
	b.ID = uuid.New()
	f.beds[b.ID] = b
	return nil
}

func (f *fakeBedRepo) GetBed(_ context.Context, id uuid.UUID) (*bed.Bed, error) {
	b, ok := f.beds[id]
	if !ok {
		return nil, bed.ErrBedNotFound
	}
	return b, nil
}

func (f *fakeBedRepo) UpdateBedStatus(_ context.Context, b *bed.Bed) error {
	f.beds[b.ID] = b
	return nil
}

func (f *fakeBedRepo) ListBeds(_ context.Context, q *bed.ListBedsQuery) (*bed.PagedBeds, error) {
	return &bed.PagedBeds{Page: q.Page, PageSize: q.PageSize}, nil
}

func (f *fakeBedRepo) CreateAssignment(_ context.Context, a *bed.Assignment) error {
	a.ID = uuid.New()
	f.assignments[a.ID] = a
	return nil
}

func (f *fakeBedRepo) GetOpenAssignment(_ context.Context, bedID uuid.UUID) (*bed.Assignment, error) {
	for _, a := range f.assignments {
		if a.BedID == bedID && a.DischargedAt == nil {
			return a, nil
		}
	}
	return nil, bed.ErrNoOpenAssignment
}

func (f *fakeBedRepo) CloseAssignment(_ context.Context, a *bed.Assignment) error {
	f.assignments[a.ID] = a
	return nil
}

func (f *fakeBedRepo) GetAssignmentsByPatient(_ context.Context, _ uuid.UUID) ([]*bed.Assignment, error) {
	return nil, nil
}

func newBedFixture() (*BedService, *fakeBedRepo, *fakeBillingRepo) {
	bedRepo := newFakeBedRepo()
	billRepo := newFakeBillingRepo()
	auditSvc, _ := newTestAuditService()
	billingSvc := NewBillingService(billRepo, newFakeAppointmentRepo(), newFakeLabOrderRepo(), decimal.Zero, auditSvc, nil, zap.NewNop())
	svc := NewBedService(bedRepo, billingSvc, auditSvc, zap.NewNop())
	return svc, bedRepo, billRepo
}

func TestAdmit_OccupiesBedAndOpensAssignment(t *testing.T) {
	svc, bedRepo, _ := newBedFixture()

	b := &bed.Bed{Status: bed.StatusAvailable, DailyTariff: decimal.NewFromInt(1200)}
	_ = bedRepo.CreateBed(context.Background(), b)

	caller := uuid.New()
	patientID := uuid.New()
	a, err := svc.Admit(context.Background(), &bed.AdmitPatientCommand{
		BedID:      b.ID,
		PatientID:  patientID,
		AdmittedBy: caller,
	}, caller, "nurse", "10.0.0.1")
	if err != nil {
		t.Fatalf("admit failed: %v", err)
	}

	if bedRepo.beds[b.ID].Status != bed.StatusOccupied {
		t.Errorf("expected occupied bed, got %q", bedRepo.beds[b.ID].Status)
	}
	if a.PatientID != patientID || a.DischargedAt != nil {
		t.Errorf("expected open assignment for patient, got %+v", a)
	}

	// Second admission to the same bed must be refused.
	if _, err := svc.Admit(context.Background(), &bed.AdmitPatientCommand{
		BedID:      b.ID,
		PatientID:  uuid.New(),
		AdmittedBy: caller,
	}, caller, "nurse", "10.0.0.1"); !errors.Is(err, bed.ErrBedUnavailable) {
		t.Errorf("expected ErrBedUnavailable, got %v", err)
	}
}

func TestDischarge_BillsStayAtDailyTariff(t *testing.T) {
	svc, bedRepo, billRepo := newBedFixture()

	b := &bed.Bed{Status: bed.StatusAvailable, DailyTariff: decimal.NewFromInt(1200)}
	_ = bedRepo.CreateBed(context.Background(), b)

	caller := uuid.New()
	patientID := uuid.New()
	a, err := svc.Admit(context.Background(), &bed.AdmitPatientCommand{
		BedID:      b.ID,
		PatientID:  patientID,
		AdmittedBy: caller,
	}, caller, "doctor", "")
	if err != nil {
		t.Fatalf("admit failed: %v", err)
	}

	// Backdate the admission so the stay spans two billable days.
	a.AdmittedAt = time.Now().Add(-49 * time.Hour)

	closed, err := svc.Discharge(context.Background(), b.ID, caller, "doctor", "")
	if err != nil {
		t.Fatalf("discharge failed: %v", err)
	}
	if closed.DischargedAt == nil {
		t.Error("expected discharge timestamp set")
	}
	if bedRepo.beds[b.ID].Status != bed.StatusAvailable {
		t.Errorf("expected released bed, got %q", bedRepo.beds[b.ID].Status)
	}

	if len(billRepo.bills) != 1 {
		t.Fatalf("expected one bed-charge bill, got %d", len(billRepo.bills))
	}
	for _, bill := range billRepo.bills {
		if bill.PatientID != patientID {
			t.Errorf("bill must target the admitted patient")
		}
		if len(bill.Items) != 1 || bill.Items[0].SourceType != billing.SourceBedCharge {
			t.Fatalf("expected a single bed-charge item, got %+v", bill.Items)
		}
		if !bill.Total.Equal(decimal.NewFromInt(2400)) {
			t.Errorf("expected total 2400 for two days at 1200, got %s", bill.Total)
		}
	}
}

func TestDischarge_ZeroTariffSkipsBilling(t *testing.T) {
	svc, bedRepo, billRepo := newBedFixture()

	b := &bed.Bed{Status: bed.StatusAvailable}
	_ = bedRepo.CreateBed(context.Background(), b)

	caller := uuid.New()
	if _, err := svc.Admit(context.Background(), &bed.AdmitPatientCommand{
		BedID:      b.ID,
		PatientID:  uuid.New(),
		AdmittedBy: caller,
	}, caller, "admin", ""); err != nil {
		t.Fatalf("admit failed: %v", err)
	}
	if _, err := svc.Discharge(context.Background(), b.ID, caller, "admin", ""); err != nil {
		t.Fatalf("discharge failed: %v", err)
	}

	if len(billRepo.bills) != 0 {
		t.Errorf("zero-tariff stays must not be billed, got %d bills", len(billRepo.bills))
	}
}

func TestDischarge_NoOpenAssignment(t *testing.T) {
	svc, bedRepo, _ := newBedFixture()

	b := &bed.Bed{Status: bed.StatusOccupied}
	_ = bedRepo.CreateBed(context.Background(), b)

	if _, err := svc.Discharge(context.Background(), b.ID, uuid.New(), "doctor", ""); !errors.Is(err, bed.ErrNoOpenAssignment) {
		t.Fatalf("expected ErrNoOpenAssignment, got %v", err)
	}
}

func TestTransfer_MovesOccupantAndKeepsAdmission(t *testing.T) {
	svc, bedRepo, _ := newBedFixture()

	from := &bed.Bed{Status: bed.StatusAvailable, DailyTariff: decimal.NewFromInt(1200)}
	to := &bed.Bed{Status: bed.StatusAvailable, DailyTariff: decimal.NewFromInt(2500)}
	_ = bedRepo.CreateBed(context.Background(), from)
	_ = bedRepo.CreateBed(context.Background(), to)

	caller := uuid.New()
	patientID := uuid.New()
	first, err := svc.Admit(context.Background(), &bed.AdmitPatientCommand{
		BedID:      from.ID,
		PatientID:  patientID,
		AdmittedBy: caller,
	}, caller, "nurse", "10.0.0.1")
	if err != nil {
		t.Fatalf("admit failed: %v", err)
	}

	moved, err := svc.Transfer(context.Background(), from.ID, to.ID, caller, "nurse", "10.0.0.1")
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	if from.Status != bed.StatusAvailable {
		t.Errorf("source bed status = %s, want available", from.Status)
	}
	if to.Status != bed.StatusOccupied {
		t.Errorf("target bed status = %s, want occupied", to.Status)
	}
	if moved.BedID != to.ID || moved.PatientID != patientID {
		t.Errorf("assignment points at wrong bed/patient: %+v", moved)
	}
	if !moved.AdmittedAt.Equal(first.AdmittedAt) {
		t.Errorf("admission time not carried over: %v != %v", moved.AdmittedAt, first.AdmittedAt)
	}
	if first.DischargedAt == nil {
		t.Error("previous assignment not closed")
	}
}

func TestTransfer_TargetOccupiedRefused(t *testing.T) {
	svc, bedRepo, _ := newBedFixture()

	from := &bed.Bed{Status: bed.StatusAvailable}
	to := &bed.Bed{Status: bed.StatusAvailable}
	_ = bedRepo.CreateBed(context.Background(), from)
	_ = bedRepo.CreateBed(context.Background(), to)

	caller := uuid.New()
	if _, err := svc.Admit(context.Background(), &bed.AdmitPatientCommand{
		BedID: from.ID, PatientID: uuid.New(), AdmittedBy: caller,
	}, caller, "nurse", "10.0.0.1"); err != nil {
		t.Fatalf("admit failed: %v", err)
	}
	if _, err := svc.Admit(context.Background(), &bed.AdmitPatientCommand{
		BedID: to.ID, PatientID: uuid.New(), AdmittedBy: caller,
	}, caller, "nurse", "10.0.0.1"); err != nil {
		t.Fatalf("admit failed: %v", err)
	}

	if _, err := svc.Transfer(context.Background(), from.ID, to.ID, caller, "nurse", "10.0.0.1"); !errors.Is(err, bed.ErrBedUnavailable) {
		t.Fatalf("want ErrBedUnavailable, got %v", err)
	}
}
