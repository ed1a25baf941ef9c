package revenue

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/careaxis/hms/internal/domain/appointment"
	"github.com/careaxis/hms/internal/domain/billing"
	"github.com/careaxis/hms/internal/domain/laborder"
)

func TestBuildReport_Empty(t *testing.T) {
	report := BuildReport(DefaultConfig(), nil, &Snapshot{})

	if report.TotalFindings != 0 {
		t.Errorf("expected zero findings, got %d", report.TotalFindings)
	}
	if !report.TotalUnbilled.IsZero() {
		t.Errorf("expected zero unbilled total, got %s", report.TotalUnbilled)
	}
	if report.LeakagePercent != 0 {
		t.Errorf("expected zero leakage for empty snapshot, got %f", report.LeakagePercent)
	}
}

func TestBuildReport_Aggregation(t *testing.T) {
	p1 := testPatient()
	p2 := PatientRef{ID: uuid.New(), Name: "Vikram Shah", UHID: "UH2026031400043"}

	unbilledAppt := completedAppointment(p1.ID)
	billedAppt := completedAppointment(p2.ID)
	order := completedLabOrder(p2.ID, 1000)

	snap := &Snapshot{
		Appointments: []*appointment.Appointment{unbilledAppt, billedAppt},
		LabOrders:    []*laborder.LabOrder{order},
		BillingItems: []*billing.BillingItem{
			itemFor(billing.SourceAppointment, billedAppt.ID, 500),
		},
	}

	report := BuildReport(DefaultConfig(), []PatientRef{p1, p2}, snap)

	// p1's appointment and p2's lab order are unbilled.
	if report.TotalFindings != 2 {
		t.Fatalf("expected two findings, got %d", report.TotalFindings)
	}
	if !report.TotalUnbilled.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("expected 1500 unbilled, got %s", report.TotalUnbilled)
	}

	// Expected: 2 completed consultations x 500 + lab order 1000 = 2000.
	if !report.ExpectedRevenue.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("expected revenue estimate 2000, got %s", report.ExpectedRevenue)
	}
	if !report.CapturedRevenue.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected captured 500, got %s", report.CapturedRevenue)
	}
	// (2000 - 500) / 2000 * 100 = 75
	if report.LeakagePercent != 75 {
		t.Errorf("expected 75%% leakage, got %f", report.LeakagePercent)
	}
}

func TestBuildReport_PatientsWithoutFindingsOmitted(t *testing.T) {
	clean := testPatient()
	a := completedAppointment(clean.ID)
	snap := &Snapshot{
		Appointments: []*appointment.Appointment{a},
		BillingItems: []*billing.BillingItem{itemFor(billing.SourceAppointment, a.ID, 500)},
	}

	report := BuildReport(DefaultConfig(), []PatientRef{clean}, snap)
	if len(report.Patients) != 0 {
		t.Errorf("expected fully billed patient to be omitted, got %d entries", len(report.Patients))
	}
	// The billed appointment still counts toward the estimate.
	if !report.ExpectedRevenue.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected revenue estimate 500, got %s", report.ExpectedRevenue)
	}
}

func TestBuildReport_NilSnapshot(t *testing.T) {
	report := BuildReport(DefaultConfig(), []PatientRef{testPatient()}, nil)
	if report.TotalFindings != 0 || report.LeakagePercent != 0 {
		t.Errorf("expected empty report for nil snapshot")
	}
}
