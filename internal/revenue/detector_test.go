package revenue

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/careaxis/hms/internal/domain/appointment"
	"github.com/careaxis/hms/internal/domain/billing"
	"github.com/careaxis/hms/internal/domain/laborder"
	"github.com/careaxis/hms/internal/domain/prescription"
)

func testPatient() PatientRef {
	return PatientRef{ID: uuid.New(), Name: "Asha Rao", UHID: "UH2026031400042"}
}

func completedAppointment(patientID uuid.UUID) *appointment.Appointment {
	now := time.Now()
	return &appointment.Appointment{
		ID:          uuid.New(),
		PatientID:   patientID,
		DoctorID:    uuid.New(),
		Department:  "Cardiology",
		ScheduledAt: now.Add(-2 * time.Hour),
		Status:      appointment.StatusCompleted,
		CompletedAt: &now,
	}
}

func completedLabOrder(patientID uuid.UUID, total int64) *laborder.LabOrder {
	now := time.Now()
	return &laborder.LabOrder{
		ID:        uuid.New(),
		PatientID: patientID,
		DoctorID:  uuid.New(),
		Tests: []laborder.OrderedTest{
			{Name: "CBC", Price: decimal.NewFromInt(total)},
		},
		TotalAmount: decimal.NewFromInt(total),
		Status:      laborder.StatusCompleted,
		CompletedAt: &now,
	}
}

func approvedPrescription(patientID uuid.UUID, medicines int) *prescription.Prescription {
	now := time.Now()
	items := make([]prescription.MedicineItem, medicines)
	for i := range items {
		items[i] = prescription.MedicineItem{Name: "Medicine", Quantity: 1}
	}
	return &prescription.Prescription{
		ID:          uuid.New(),
		PatientID:   patientID,
		DoctorID:    uuid.New(),
		Medicines:   items,
		Status:      prescription.StatusApproved,
		ProcessedAt: &now,
	}
}

func itemFor(sourceType billing.SourceType, sourceID uuid.UUID, total int64) *billing.BillingItem {
	return &billing.BillingItem{
		ID:         uuid.New(),
		BillID:     uuid.New(),
		SourceType: sourceType,
		SourceID:   sourceID,
		UnitPrice:  decimal.NewFromInt(total),
		Quantity:   1,
		TotalPrice: decimal.NewFromInt(total),
	}
}

func TestDetectUnbilled_EmptySnapshot(t *testing.T) {
	findings := DetectUnbilled(DefaultConfig(), testPatient(), &Snapshot{})
	if len(findings) != 0 {
		t.Fatalf("expected no findings for empty snapshot, got %d", len(findings))
	}
	if total := TotalExpected(findings); !total.IsZero() {
		t.Errorf("expected zero total for empty findings, got %s", total)
	}
}

func TestDetectUnbilled_NilSnapshot(t *testing.T) {
	if findings := DetectUnbilled(DefaultConfig(), testPatient(), nil); findings != nil {
		t.Errorf("expected nil findings for nil snapshot, got %v", findings)
	}
}

func TestDetectUnbilled_CompletedAppointmentWithoutBill(t *testing.T) {
	p := testPatient()
	a := completedAppointment(p.ID)
	snap := &Snapshot{Appointments: []*appointment.Appointment{a}}

	findings := DetectUnbilled(DefaultConfig(), p, snap)
	if len(findings) != 1 {
		t.Fatalf("expected exactly one finding, got %d", len(findings))
	}

	f := findings[0]
	if f.ServiceType != ServiceAppointment {
		t.Errorf("expected service type %q, got %q", ServiceAppointment, f.ServiceType)
	}
	if f.ServiceID != a.ID {
		t.Errorf("expected service id %s, got %s", a.ID, f.ServiceID)
	}
	if !f.ExpectedAmount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected flat consultation fee 500, got %s", f.ExpectedAmount)
	}
	if f.Reason != "completed consultation with no matching bill" {
		t.Errorf("unexpected reason: %q", f.Reason)
	}
}

func TestDetectUnbilled_BilledAppointmentIsNotFlagged(t *testing.T) {
	p := testPatient()
	a := completedAppointment(p.ID)
	snap := &Snapshot{
		Appointments: []*appointment.Appointment{a},
		BillingItems: []*billing.BillingItem{itemFor(billing.SourceAppointment, a.ID, 500)},
	}

	if findings := DetectUnbilled(DefaultConfig(), p, snap); len(findings) != 0 {
		t.Fatalf("expected no findings for billed appointment, got %d", len(findings))
	}
}

func TestDetectUnbilled_IgnoresNonCompletedAppointments(t *testing.T) {
	p := testPatient()
	scheduled := completedAppointment(p.ID)
	scheduled.Status = appointment.StatusScheduled
	cancelled := completedAppointment(p.ID)
	cancelled.Status = appointment.StatusCancelled
	snap := &Snapshot{Appointments: []*appointment.Appointment{scheduled, cancelled}}

	if findings := DetectUnbilled(DefaultConfig(), p, snap); len(findings) != 0 {
		t.Fatalf("expected no findings for non-completed appointments, got %d", len(findings))
	}
}

func TestDetectUnbilled_IgnoresOtherPatients(t *testing.T) {
	p := testPatient()
	other := completedAppointment(uuid.New())
	snap := &Snapshot{Appointments: []*appointment.Appointment{other}}

	if findings := DetectUnbilled(DefaultConfig(), p, snap); len(findings) != 0 {
		t.Fatalf("expected no findings for other patients' services, got %d", len(findings))
	}
}

func TestDetectUnbilled_CompletedLabOrderWithoutBill(t *testing.T) {
	p := testPatient()
	o := completedLabOrder(p.ID, 1200)
	snap := &Snapshot{LabOrders: []*laborder.LabOrder{o}}

	findings := DetectUnbilled(DefaultConfig(), p, snap)
	if len(findings) != 1 {
		t.Fatalf("expected one lab-order finding, got %d", len(findings))
	}
	f := findings[0]
	if f.ServiceType != ServiceLabOrder {
		t.Errorf("expected service type %q, got %q", ServiceLabOrder, f.ServiceType)
	}
	if !f.ExpectedAmount.Equal(o.TotalAmount) {
		t.Errorf("expected the order's own total %s, got %s", o.TotalAmount, f.ExpectedAmount)
	}
	if f.Reason != "completed lab order with no bill" {
		t.Errorf("unexpected reason: %q", f.Reason)
	}
}

func TestDetectUnbilled_LabOrderFlaggedWhenBillGeneratedButNoItem(t *testing.T) {
	p := testPatient()
	o := completedLabOrder(p.ID, 800)
	o.BillGenerated = true // flag set but no billing item actually references the order
	snap := &Snapshot{LabOrders: []*laborder.LabOrder{o}}

	if findings := DetectUnbilled(DefaultConfig(), p, snap); len(findings) != 1 {
		t.Fatalf("expected the inconsistent order to be flagged, got %d findings", len(findings))
	}
}

func TestDetectUnbilled_BilledLabOrderIsNotFlagged(t *testing.T) {
	p := testPatient()
	o := completedLabOrder(p.ID, 800)
	o.BillGenerated = true
	snap := &Snapshot{
		LabOrders:    []*laborder.LabOrder{o},
		BillingItems: []*billing.BillingItem{itemFor(billing.SourceLabOrder, o.ID, 800)},
	}

	if findings := DetectUnbilled(DefaultConfig(), p, snap); len(findings) != 0 {
		t.Fatalf("expected no findings for billed lab order, got %d", len(findings))
	}
}

func TestDetectUnbilled_ApprovedPrescriptionWithoutBill(t *testing.T) {
	p := testPatient()
	rx := approvedPrescription(p.ID, 3)
	snap := &Snapshot{Prescriptions: []*prescription.Prescription{rx}}

	findings := DetectUnbilled(DefaultConfig(), p, snap)
	if len(findings) != 1 {
		t.Fatalf("expected one prescription finding, got %d", len(findings))
	}
	f := findings[0]
	if f.ServiceType != ServicePrescription {
		t.Errorf("expected service type %q, got %q", ServicePrescription, f.ServiceType)
	}
	// 3 medicines at the nominal 100 each
	if !f.ExpectedAmount.Equal(decimal.NewFromInt(300)) {
		t.Errorf("expected nominal estimate 300, got %s", f.ExpectedAmount)
	}
	if f.Reason != "approved prescription not yet billed" {
		t.Errorf("unexpected reason: %q", f.Reason)
	}
}

func TestDetectUnbilled_PendingPrescriptionIsNotFlagged(t *testing.T) {
	p := testPatient()
	rx := approvedPrescription(p.ID, 1)
	rx.Status = prescription.StatusPending
	snap := &Snapshot{Prescriptions: []*prescription.Prescription{rx}}

	if findings := DetectUnbilled(DefaultConfig(), p, snap); len(findings) != 0 {
		t.Fatalf("expected no findings for pending prescription, got %d", len(findings))
	}
}

func TestDetectUnbilled_CategoryOrderPreserved(t *testing.T) {
	p := testPatient()
	snap := &Snapshot{
		// Deliberately listed out of category order in the snapshot.
		Prescriptions: []*prescription.Prescription{approvedPrescription(p.ID, 1)},
		LabOrders:     []*laborder.LabOrder{completedLabOrder(p.ID, 100)},
		Appointments:  []*appointment.Appointment{completedAppointment(p.ID)},
	}

	findings := DetectUnbilled(DefaultConfig(), p, snap)
	if len(findings) != 3 {
		t.Fatalf("expected three findings, got %d", len(findings))
	}
	want := []ServiceType{ServiceAppointment, ServiceLabOrder, ServicePrescription}
	for i, st := range want {
		if findings[i].ServiceType != st {
			t.Errorf("finding[%d]: expected %q, got %q", i, st, findings[i].ServiceType)
		}
	}
}

func TestDetectUnbilled_Idempotent(t *testing.T) {
	p := testPatient()
	snap := &Snapshot{
		Appointments:  []*appointment.Appointment{completedAppointment(p.ID)},
		LabOrders:     []*laborder.LabOrder{completedLabOrder(p.ID, 250)},
		Prescriptions: []*prescription.Prescription{approvedPrescription(p.ID, 2)},
	}

	first := DetectUnbilled(DefaultConfig(), p, snap)
	second := DetectUnbilled(DefaultConfig(), p, snap)

	if len(first) != len(second) {
		t.Fatalf("finding counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ServiceID != second[i].ServiceID ||
			first[i].ServiceType != second[i].ServiceType ||
			!first[i].ExpectedAmount.Equal(second[i].ExpectedAmount) ||
			first[i].Reason != second[i].Reason {
			t.Errorf("finding[%d] differs between identical invocations", i)
		}
	}
}

func TestDetectUnbilled_MissingStaffNameDegrades(t *testing.T) {
	p := testPatient()
	a := completedAppointment(p.ID)
	snap := &Snapshot{Appointments: []*appointment.Appointment{a}} // no StaffNames map

	findings := DetectUnbilled(DefaultConfig(), p, snap)
	if len(findings) != 1 {
		t.Fatalf("expected one finding, got %d", len(findings))
	}
	if findings[0].PerformedBy != "" {
		t.Errorf("expected empty PerformedBy when staff name is unknown, got %q", findings[0].PerformedBy)
	}
}

func TestTotalExpected_OrderIndependent(t *testing.T) {
	findings := []Finding{
		{ExpectedAmount: decimal.NewFromInt(500)},
		{ExpectedAmount: decimal.NewFromInt(1200)},
		{ExpectedAmount: decimal.NewFromInt(300)},
	}
	reversed := []Finding{findings[2], findings[1], findings[0]}

	a := TotalExpected(findings)
	b := TotalExpected(reversed)
	if !a.Equal(b) {
		t.Errorf("sum depends on order: %s vs %s", a, b)
	}
	if !a.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("expected 2000, got %s", a)
	}
}

func TestLeakagePercent_ZeroExpectedIsZero(t *testing.T) {
	if pct := LeakagePercent(decimal.Zero, decimal.NewFromInt(100)); pct != 0 {
		t.Errorf("expected 0 for zero expected revenue, got %f", pct)
	}
}

func TestLeakagePercent(t *testing.T) {
	tests := []struct {
		name     string
		expected int64
		captured int64
		want     float64
	}{
		{"no capture", 1000, 0, 100},
		{"half captured", 1000, 500, 50},
		{"fully captured", 1000, 1000, 0},
		{"over-captured goes negative", 1000, 1500, -50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LeakagePercent(decimal.NewFromInt(tt.expected), decimal.NewFromInt(tt.captured))
			if got != tt.want {
				t.Errorf("LeakagePercent(%d, %d) = %f, want %f", tt.expected, tt.captured, got, tt.want)
			}
		})
	}
}
