// Package revenue implements the unbilled-service reconciliation report:
// a pure, in-memory cross-reference of appointments, lab orders, and
// prescriptions against billing items to detect completed services that
// were never charged. It is a detector, not an enforcer — it never
// mutates source records, and it tolerates torn snapshots (a bill created
// between fetches shows up as a false positive on the next run).
package revenue

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/careaxis/hms/internal/domain/appointment"
	"github.com/careaxis/hms/internal/domain/billing"
	"github.com/careaxis/hms/internal/domain/laborder"
	"github.com/careaxis/hms/internal/domain/prescription"
)

// ServiceType identifies which clinical collection a finding came from.
type ServiceType string

const (
	ServiceAppointment  ServiceType = "appointment"
	ServiceLabOrder     ServiceType = "lab-order"
	ServicePrescription ServiceType = "prescription"
)

// Config carries the business-configured amounts the detector assumes.
type Config struct {
	// ConsultationFee is the flat expected charge for a completed visit.
	ConsultationFee decimal.Decimal
	// MedicineNominalPrice is the best-effort per-medicine estimate used
	// for approved prescriptions that have no bill; it is not a priced
	// catalog lookup.
	MedicineNominalPrice decimal.Decimal
}

// DefaultConfig returns the stock amounts: 500 per consultation and 100
// per prescribed medicine.
func DefaultConfig() Config {
	return Config{
		ConsultationFee:      decimal.NewFromInt(500),
		MedicineNominalPrice: decimal.NewFromInt(100),
	}
}

// PatientRef is the minimal patient identity a finding is reported under.
type PatientRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	UHID string    `json:"uhid"`
}

// Snapshot is the already-fetched state the detector cross-references.
// The four collections are fetched independently; no transactional
// consistency between them is assumed.
type Snapshot struct {
	Appointments  []*appointment.Appointment
	LabOrders     []*laborder.LabOrder
	Prescriptions []*prescription.Prescription
	BillingItems  []*billing.BillingItem

	// StaffNames resolves performing staff IDs to display names. Missing
	// entries degrade to an empty PerformedBy, never an error.
	StaffNames map[uuid.UUID]string
}

// Finding describes one completed-but-unbilled service.
type Finding struct {
	ServiceType    ServiceType     `json:"service_type"`
	ServiceID      uuid.UUID       `json:"service_id"`
	ServiceName    string          `json:"service_name"`
	PerformedBy    string          `json:"performed_by,omitempty"`
	PerformedAt    time.Time       `json:"performed_at"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	Reason         string          `json:"reason"`
}

// DetectUnbilled returns the unbilled-service findings for one patient:
// completed appointments, completed lab orders, and approved prescriptions
// with no billing item referencing them. Findings are emitted in category
// order (appointments, lab orders, prescriptions); callers may re-sort by
// timestamp. Empty inputs yield an empty result, never an error.
func DetectUnbilled(cfg Config, p PatientRef, snap *Snapshot) []Finding {
	if snap == nil {
		return nil
	}

	billed := make(map[uuid.UUID]struct{}, len(snap.BillingItems))
	for _, item := range snap.BillingItems {
		if item == nil {
			continue
		}
		billed[item.SourceID] = struct{}{}
	}

	var findings []Finding

	for _, a := range snap.Appointments {
		if a == nil || a.PatientID != p.ID || a.Status != appointment.StatusCompleted {
			continue
		}
		if _, ok := billed[a.ID]; ok {
			continue
		}
		findings = append(findings, Finding{
			ServiceType:    ServiceAppointment,
			ServiceID:      a.ID,
			ServiceName:    appointmentServiceName(a),
			PerformedBy:    snap.staffName(a.DoctorID),
			PerformedAt:    appointmentPerformedAt(a),
			ExpectedAmount: cfg.ConsultationFee,
			Reason:         "completed consultation with no matching bill",
		})
	}

	for _, o := range snap.LabOrders {
		if o == nil || o.PatientID != p.ID || o.Status != laborder.StatusCompleted {
			continue
		}
		_, referenced := billed[o.ID]
		if o.BillGenerated && referenced {
			continue
		}
		findings = append(findings, Finding{
			ServiceType:    ServiceLabOrder,
			ServiceID:      o.ID,
			ServiceName:    labOrderServiceName(o),
			PerformedBy:    snap.staffName(derefOrNil(o.CompletedBy)),
			PerformedAt:    labOrderPerformedAt(o),
			ExpectedAmount: o.TotalAmount,
			Reason:         "completed lab order with no bill",
		})
	}

	for _, rx := range snap.Prescriptions {
		if rx == nil || rx.PatientID != p.ID || rx.Status != prescription.StatusApproved {
			continue
		}
		if _, ok := billed[rx.ID]; ok {
			continue
		}
		findings = append(findings, Finding{
			ServiceType:    ServicePrescription,
			ServiceID:      rx.ID,
			ServiceName:    prescriptionServiceName(rx),
			PerformedBy:    snap.staffName(rx.DoctorID),
			PerformedAt:    prescriptionPerformedAt(rx),
			ExpectedAmount: cfg.MedicineNominalPrice.Mul(decimal.NewFromInt(int64(len(rx.Medicines)))),
			Reason:         "approved prescription not yet billed",
		})
	}

	return findings
}

// TotalExpected sums the expected amounts of a finding sequence. The sum
// is order-independent and zero for an empty sequence.
func TotalExpected(findings []Finding) decimal.Decimal {
	total := decimal.Zero
	for _, f := range findings {
		total = total.Add(f.ExpectedAmount)
	}
	return total
}

// LeakagePercent reports the fraction of expected revenue not captured in
// billing, as a percentage. A zero expected revenue yields 0, never NaN
// or infinity.
func LeakagePercent(expected, captured decimal.Decimal) float64 {
	if expected.IsZero() || expected.IsNegative() {
		return 0
	}
	pct, _ := expected.Sub(captured).
		Div(expected).
		Mul(decimal.NewFromInt(100)).
		Float64()
	return pct
}

func (s *Snapshot) staffName(id uuid.UUID) string {
	if s.StaffNames == nil || id == uuid.Nil {
		return ""
	}
	return s.StaffNames[id]
}

func derefOrNil(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

func appointmentServiceName(a *appointment.Appointment) string {
	if a.Department != "" {
		return fmt.Sprintf("Consultation (%s)", a.Department)
	}
	return "Consultation"
}

func appointmentPerformedAt(a *appointment.Appointment) time.Time {
	if a.CompletedAt != nil {
		return *a.CompletedAt
	}
	return a.ScheduledAt
}

func labOrderServiceName(o *laborder.LabOrder) string {
	if len(o.Tests) == 0 {
		return "Lab order"
	}
	names := make([]string, 0, len(o.Tests))
	for _, t := range o.Tests {
		if t.Name != "" {
			names = append(names, t.Name)
		}
	}
	if len(names) == 0 {
		return "Lab order"
	}
	return "Lab: " + strings.Join(names, ", ")
}

func labOrderPerformedAt(o *laborder.LabOrder) time.Time {
	if o.CompletedAt != nil {
		return *o.CompletedAt
	}
	return o.CreatedAt
}

func prescriptionServiceName(rx *prescription.Prescription) string {
	n := len(rx.Medicines)
	if n == 1 {
		return "Prescription (1 medicine)"
	}
	return fmt.Sprintf("Prescription (%d medicines)", n)
}

func prescriptionPerformedAt(rx *prescription.Prescription) time.Time {
	if rx.ProcessedAt != nil {
		return *rx.ProcessedAt
	}
	return rx.CreatedAt
}
