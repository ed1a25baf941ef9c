package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/careaxis/hms/internal/domain/medicine"
	"github.com/careaxis/hms/internal/domain/prescription"
	"github.com/careaxis/hms/pkg/metrics"
)

type fakePrescriptionRepo struct {
	prescriptions map[uuid.UUID]*prescription.Prescription
}

func newFakePrescriptionRepo() *fakePrescriptionRepo {
	return &fakePrescriptionRepo{prescriptions: map[uuid.UUID]*prescription.Prescription{}}
}

func (f *fakePrescriptionRepo) Create(_ context.Context, p *prescription.Prescription) error {
	p.ID = uuid.New()
	f.prescriptions[p.ID] = p
	return nil
}

func (f *fakePrescriptionRepo) GetByID(_ context.Context, id uuid.UUID) (*prescription.Prescription, error) {
	p, ok := f.prescriptions[id]
	if !ok {
		return nil, prescription.ErrPrescriptionNotFound
	}
	return p, nil
}

func (f *fakePrescriptionRepo) UpdateStatus(_ context.Context, p *prescription.Prescription) error {
	f.prescriptions[p.ID] = p
	return nil
}

func (f *fakePrescriptionRepo) List(_ context.Context, q *prescription.ListPrescriptionsQuery) (*prescription.PagedPrescriptions, error) {
	return &prescription.PagedPrescriptions{Page: q.Page, PageSize: q.PageSize}, nil
}

func (f *fakePrescriptionRepo) GetByPatient(_ context.Context, patientID uuid.UUID) ([]*prescription.Prescription, error) {
	var out []*prescription.Prescription
	for _, p := range f.prescriptions {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePrescriptionRepo) GetAll(_ context.Context) ([]*prescription.Prescription, error) {
	var out []*prescription.Prescription
	for _, p := range f.prescriptions {
		out = append(out, p)
	}
	return out, nil
}

func newPrescriptionFixture(medRepo *fakeMedicineRepo) (*PrescriptionService, *fakePrescriptionRepo) {
	repo := newFakePrescriptionRepo()
	auditSvc, _ := newTestAuditService()
	return NewPrescriptionService(repo, medRepo, auditSvc, nil, zap.NewNop()), repo
}

func TestCreatePrescription_FillsBlankFieldsFromCatalog(t *testing.T) {
	medRepo := &fakeMedicineRepo{byName: map[string]*medicine.Medicine{
		"napa 500mg": {
			Name:             "Napa 500mg",
			DefaultDosage:    "1 tablet",
			DefaultFrequency: "Three times daily",
			DefaultDuration:  "3 days",
		},
	}}
	svc, _ := newPrescriptionFixture(medRepo)

	cmd := &prescription.CreatePrescriptionCommand{
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		Medicines: []prescription.MedicineItem{
			{Name: "Napa 500mg"},
			{Name: "Napa 500mg", Dosage: "2 tablets", Frequency: "Once daily", Duration: "1 day"},
		},
	}

	p, err := svc.CreatePrescription(context.Background(), cmd, uuid.New(), "doctor", "10.0.0.1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	filled := p.Medicines[0]
	if filled.Dosage != "1 tablet" || filled.Frequency != "Three times daily" || filled.Duration != "3 days" {
		t.Errorf("blank fields must be filled from the catalog, got %+v", filled)
	}
	if filled.Quantity != 1 {
		t.Errorf("quantity must default to 1, got %d", filled.Quantity)
	}

	explicit := p.Medicines[1]
	if explicit.Dosage != "2 tablets" || explicit.Frequency != "Once daily" {
		t.Errorf("explicit fields must not be overwritten, got %+v", explicit)
	}

	if p.Status != prescription.StatusPending {
		t.Errorf("new prescriptions must be pending, got %q", p.Status)
	}
}

func TestCreatePrescription_CatalogFailureStillCreates(t *testing.T) {
	svc, _ := newPrescriptionFixture(&fakeMedicineRepo{findErr: errors.New("db down")})

	cmd := &prescription.CreatePrescriptionCommand{
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		Medicines: []prescription.MedicineItem{{Name: "Seclo 20mg"}},
	}

	p, err := svc.CreatePrescription(context.Background(), cmd, uuid.New(), "doctor", "10.0.0.1")
	if err != nil {
		t.Fatalf("prescribing must not fail when the catalog is unavailable: %v", err)
	}
	if p.Medicines[0].Dosage == "" || p.Medicines[0].Frequency == "" || p.Medicines[0].Duration == "" {
		t.Errorf("fields must fall back to defaults, got %+v", p.Medicines[0])
	}
}

func TestCreatePrescription_RBAC(t *testing.T) {
	svc, _ := newPrescriptionFixture(&fakeMedicineRepo{})

	cmd := &prescription.CreatePrescriptionCommand{
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		Medicines: []prescription.MedicineItem{{Name: "Napa"}},
	}

	if _, err := svc.CreatePrescription(context.Background(), cmd, uuid.New(), "nurse", ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("nurses must not prescribe, got %v", err)
	}
}

func TestProcessPrescription_ApproveDispensesStock(t *testing.T) {
	medID := uuid.New()
	medRepo := &fakeMedicineRepo{byName: map[string]*medicine.Medicine{
		"napa 500mg": {ID: medID, Name: "Napa 500mg", Stock: 100},
	}}
	svc, _ := newPrescriptionFixture(medRepo)

	cmd := &prescription.CreatePrescriptionCommand{
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		Medicines: []prescription.MedicineItem{{Name: "Napa 500mg", Quantity: 10}},
	}
	p, err := svc.CreatePrescription(context.Background(), cmd, uuid.New(), "doctor", "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	pharmacist := uuid.New()
	processed, err := svc.Process(context.Background(), p.ID, &prescription.ProcessPrescriptionCommand{
		Approve:     true,
		ProcessedBy: pharmacist,
	}, pharmacist, "pharmacist", "")
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}

	if processed.Status != prescription.StatusApproved {
		t.Errorf("expected approved status, got %q", processed.Status)
	}
	if got := medRepo.adjustments[medID]; got != -10 {
		t.Errorf("expected stock adjustment of -10, got %d", got)
	}
}

func TestProcessPrescription_RejectRequiresReason(t *testing.T) {
	svc, _ := newPrescriptionFixture(&fakeMedicineRepo{})

	cmd := &prescription.CreatePrescriptionCommand{
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		Medicines: []prescription.MedicineItem{{Name: "Napa"}},
	}
	p, err := svc.CreatePrescription(context.Background(), cmd, uuid.New(), "doctor", "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	pharmacist := uuid.New()
	if _, err := svc.Process(context.Background(), p.ID, &prescription.ProcessPrescriptionCommand{
		Approve:     false,
		ProcessedBy: pharmacist,
	}, pharmacist, "pharmacist", ""); !errors.Is(err, prescription.ErrRejectReasonRequired) {
		t.Fatalf("expected ErrRejectReasonRequired, got %v", err)
	}

	rejected, err := svc.Process(context.Background(), p.ID, &prescription.ProcessPrescriptionCommand{
		Approve:     false,
		Reason:      "interaction with current medication",
		ProcessedBy: pharmacist,
	}, pharmacist, "pharmacist", "")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Status != prescription.StatusRejected {
		t.Errorf("expected rejected status, got %q", rejected.Status)
	}
}

func TestProcessPrescription_AlreadyProcessed(t *testing.T) {
	svc, _ := newPrescriptionFixture(&fakeMedicineRepo{})

	cmd := &prescription.CreatePrescriptionCommand{
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		Medicines: []prescription.MedicineItem{{Name: "Napa"}},
	}
	p, err := svc.CreatePrescription(context.Background(), cmd, uuid.New(), "doctor", "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	pharmacist := uuid.New()
	if _, err := svc.Process(context.Background(), p.ID, &prescription.ProcessPrescriptionCommand{
		Approve:     true,
		ProcessedBy: pharmacist,
	}, pharmacist, "pharmacist", ""); err != nil {
		t.Fatalf("first process failed: %v", err)
	}

	if _, err := svc.Process(context.Background(), p.ID, &prescription.ProcessPrescriptionCommand{
		Approve:     true,
		ProcessedBy: pharmacist,
	}, pharmacist, "pharmacist", ""); !errors.Is(err, prescription.ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed, got %v", err)
	}
}

func TestProcessPrescription_CountsByStatus(t *testing.T) {
	medRepo := &fakeMedicineRepo{byName: map[string]*medicine.Medicine{
		"napa 500mg": {ID: uuid.New(), Name: "Napa 500mg", Stock: 100},
	}}
	repo := newFakePrescriptionRepo()
	auditSvc, _ := newTestAuditService()
	collector := metrics.NewCollector("prescription_process_test")
	svc := NewPrescriptionService(repo, medRepo, auditSvc, collector, zap.NewNop())

	cmd := &prescription.CreatePrescriptionCommand{
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		Medicines: []prescription.MedicineItem{{Name: "Napa 500mg", Quantity: 5}},
	}
	p, err := svc.CreatePrescription(context.Background(), cmd, uuid.New(), "doctor", "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	pharmacist := uuid.New()
	if _, err := svc.Process(context.Background(), p.ID, &prescription.ProcessPrescriptionCommand{
		Approve:     true,
		ProcessedBy: pharmacist,
	}, pharmacist, "pharmacist", ""); err != nil {
		t.Fatalf("process failed: %v", err)
	}

	approved := collector.PrescriptionsTotal.WithLabelValues(string(prescription.StatusApproved))
	if n := testutil.ToFloat64(approved); n != 1 {
		t.Errorf("prescriptions_total{status=approved} = %v, want 1", n)
	}
	rejected := collector.PrescriptionsTotal.WithLabelValues(string(prescription.StatusRejected))
	if n := testutil.ToFloat64(rejected); n != 0 {
		t.Errorf("prescriptions_total{status=rejected} = %v, want 0", n)
	}
}
