package laborder

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State transition possibilities:
//
//	pending → sample_collected → in_progress → completed
//	pending → cancelled
//	sample_collected → cancelled
type OrderStatus string

const (
	StatusPending         OrderStatus = "pending"
	StatusSampleCollected OrderStatus = "sample_collected"
	StatusInProgress      OrderStatus = "in_progress"
	StatusCompleted       OrderStatus = "completed"
	StatusCancelled       OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusSampleCollected, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// OrderedTest is one test on a lab order with its catalog price.
type OrderedTest struct {
	Name  string          `json:"name"`
	Code  string          `json:"code,omitempty"`
	Price decimal.Decimal `json:"price"`
}

type LabOrder struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	PatientID     uuid.UUID  `gorm:"column:patient_id;type:uuid;not null;index"`
	DoctorID      uuid.UUID  `gorm:"column:doctor_id;type:uuid;not null;index"`
	AppointmentID *uuid.UUID `gorm:"column:appointment_id;type:uuid;index"`

	Tests []OrderedTest `gorm:"column:tests;serializer:json"`

	// TotalAmount is the sum of the constituent test prices, fixed at
	// order creation.
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null"`

	Status OrderStatus `gorm:"column:status;type:varchar(30);not null;default:'pending';index"`

	// BillGenerated flips when billing picks the order up; the revenue
	// report treats completed orders without it as unbilled.
	BillGenerated bool       `gorm:"column:bill_generated;default:false;index"`
	BillID        *uuid.UUID `gorm:"column:bill_id;type:uuid;index"`

	ClinicalNotes string `gorm:"column:clinical_notes;type:text"`
	ResultSummary string `gorm:"column:result_summary;type:text"`

	// Lab processing metadata
	CollectedBy *uuid.UUID `gorm:"column:collected_by;type:uuid"`
	CollectedAt *time.Time `gorm:"column:collected_at"`
	CompletedBy *uuid.UUID `gorm:"column:completed_by;type:uuid"`
	CompletedAt *time.Time `gorm:"column:completed_at"`

	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	CancellationReason string     `gorm:"column:cancellation_reason;type:text"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (LabOrder) TableName() string {
	return "clinical.lab_orders"
}

// SumTestPrices computes the aggregate amount for a set of ordered tests.
func SumTestPrices(tests []OrderedTest) decimal.Decimal {
	total := decimal.Zero
	for _, t := range tests {
		total = total.Add(t.Price)
	}
	return total
}

func (o *LabOrder) CanTransitionTo(newStatus OrderStatus) bool {
	allowed := map[OrderStatus][]OrderStatus{
		StatusPending:         {StatusSampleCollected, StatusCancelled},
		StatusSampleCollected: {StatusInProgress, StatusCancelled},
		StatusInProgress:      {StatusCompleted},
		StatusCompleted:       {},
		StatusCancelled:       {},
	}

	for _, s := range allowed[o.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

func (o *LabOrder) CollectSample(technicianID uuid.UUID) error {
	if !o.CanTransitionTo(StatusSampleCollected) {
		return ErrInvalidStatusTransition
	}
	now := time.Now()
	o.Status = StatusSampleCollected
	o.CollectedBy = &technicianID
	o.CollectedAt = &now
	return nil
}

func (o *LabOrder) StartProcessing() error {
	if !o.CanTransitionTo(StatusInProgress) {
		return ErrInvalidStatusTransition
	}
	o.Status = StatusInProgress
	return nil
}

func (o *LabOrder) Complete(technicianID uuid.UUID, resultSummary string) error {
	if !o.CanTransitionTo(StatusCompleted) {
		return ErrInvalidStatusTransition
	}
	now := time.Now()
	o.Status = StatusCompleted
	o.CompletedBy = &technicianID
	o.CompletedAt = &now
	o.ResultSummary = resultSummary
	return nil
}

func (o *LabOrder) Cancel(reason string) error {
	if !o.CanTransitionTo(StatusCancelled) {
		return ErrInvalidStatusTransition
	}
	now := time.Now()
	o.Status = StatusCancelled
	o.CancelledAt = &now
	o.CancellationReason = reason
	return nil
}

// MarkBilled records the bill covering this order.
func (o *LabOrder) MarkBilled(billID uuid.UUID) error {
	if o.BillGenerated {
		return ErrAlreadyBilled
	}
	o.BillGenerated = true
	o.BillID = &billID
	return nil
}

type CreateLabOrderCommand struct {
	PatientID     uuid.UUID
	DoctorID      uuid.UUID
	AppointmentID *uuid.UUID
	Tests         []OrderedTest
	ClinicalNotes string
	CreatedBy     uuid.UUID
}

type ListLabOrdersQuery struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Status    *OrderStatus
	Unbilled  bool // completed orders with bill_generated = false
	Page      int
	PageSize  int
}

type PagedLabOrders struct {
	Orders     []*LabOrder
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
