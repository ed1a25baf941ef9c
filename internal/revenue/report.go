package revenue

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/careaxis/hms/internal/domain/appointment"
	"github.com/careaxis/hms/internal/domain/laborder"
)

// PatientFindings groups one patient's findings with their subtotal.
type PatientFindings struct {
	Patient  PatientRef      `json:"patient"`
	Findings []Finding       `json:"findings"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Report is the hospital-wide revenue-integrity summary. It is advisory:
// expected revenue is an estimate (completed consultations at the flat fee
// plus completed lab-order totals), not a ledger.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`

	Patients []PatientFindings `json:"patients"`

	TotalFindings   int             `json:"total_findings"`
	TotalUnbilled   decimal.Decimal `json:"total_unbilled"`
	ExpectedRevenue decimal.Decimal `json:"expected_revenue"`
	CapturedRevenue decimal.Decimal `json:"captured_revenue"`
	LeakagePercent  float64         `json:"leakage_percent"`
}

// BuildReport runs the detector for every patient and aggregates the
// results. Patients with no findings are omitted from the per-patient
// breakdown but still contribute to the revenue estimate.
func BuildReport(cfg Config, patients []PatientRef, snap *Snapshot) Report {
	report := Report{
		GeneratedAt:     time.Now().UTC(),
		TotalUnbilled:   decimal.Zero,
		ExpectedRevenue: decimal.Zero,
		CapturedRevenue: decimal.Zero,
	}
	if snap == nil {
		return report
	}

	for _, p := range patients {
		findings := DetectUnbilled(cfg, p, snap)
		if len(findings) == 0 {
			continue
		}
		subtotal := TotalExpected(findings)
		report.Patients = append(report.Patients, PatientFindings{
			Patient:  p,
			Findings: findings,
			Subtotal: subtotal,
		})
		report.TotalFindings += len(findings)
		report.TotalUnbilled = report.TotalUnbilled.Add(subtotal)
	}

	report.ExpectedRevenue = estimateExpectedRevenue(cfg, snap)
	for _, item := range snap.BillingItems {
		if item == nil {
			continue
		}
		report.CapturedRevenue = report.CapturedRevenue.Add(item.TotalPrice)
	}
	report.LeakagePercent = LeakagePercent(report.ExpectedRevenue, report.CapturedRevenue)

	return report
}

// estimateExpectedRevenue is the independent estimate leakage is measured
// against: completed consultations at the flat fee plus completed
// lab-order totals. Prescriptions are excluded — their nominal pricing is
// too rough to anchor the estimate.
func estimateExpectedRevenue(cfg Config, snap *Snapshot) decimal.Decimal {
	expected := decimal.Zero
	for _, a := range snap.Appointments {
		if a != nil && a.Status == appointment.StatusCompleted {
			expected = expected.Add(cfg.ConsultationFee)
		}
	}
	for _, o := range snap.LabOrders {
		if o != nil && o.Status == laborder.StatusCompleted {
			expected = expected.Add(o.TotalAmount)
		}
	}
	return expected
}
