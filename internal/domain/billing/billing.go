package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SourceType identifies the clinical service a billing item charges for.
type SourceType string

const (
	SourceAppointment  SourceType = "appointment"
	SourceLabOrder     SourceType = "lab-order"
	SourcePrescription SourceType = "prescription"
	SourceBedCharge    SourceType = "bed-charge"
	SourceOther        SourceType = "other"
)

func (s SourceType) IsValid() bool {
	switch s {
	case SourceAppointment, SourceLabOrder, SourcePrescription, SourceBedCharge, SourceOther:
		return true
	}
	return false
}

// State transition possibilities:
//
//	draft → issued → paid
//	draft → void
//	issued → void
type BillStatus string

const (
	StatusDraft  BillStatus = "draft"
	StatusIssued BillStatus = "issued"
	StatusPaid   BillStatus = "paid"
	StatusVoid   BillStatus = "void"
)

// BillingItem is one billed line referencing the clinical service it
// charges for. The revenue-integrity report treats these rows as the
// ground truth of "already billed".
type BillingItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	BillID uuid.UUID `gorm:"column:bill_id;type:uuid;not null;index"`

	SourceType SourceType `gorm:"column:source_type;type:varchar(30);not null;index"`
	SourceID   uuid.UUID  `gorm:"column:source_id;type:uuid;not null;index"`

	Description string          `gorm:"column:description;type:varchar(255);not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity    int             `gorm:"column:quantity;not null;default:1"`
	TotalPrice  decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
}

func (BillingItem) TableName() string {
	return "finance.billing_items"
}

// References reports whether this item charges for the given service.
func (i *BillingItem) References(sourceID uuid.UUID) bool {
	return i.SourceID == sourceID
}

type Bill struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	// BillNumber is the human-facing invoice number, e.g. INV-20260314-0042.
	BillNumber string `gorm:"column:bill_number;type:varchar(30);uniqueIndex;not null"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`

	Items []BillingItem `gorm:"foreignKey:BillID"`

	Subtotal decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Discount decimal.Decimal `gorm:"column:discount;type:numeric(12,2)"`
	Tax      decimal.Decimal `gorm:"column:tax;type:numeric(12,2)"`
	Total    decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`

	Status BillStatus `gorm:"column:status;type:varchar(20);not null;default:'draft';index"`

	IssuedAt *time.Time `gorm:"column:issued_at"`
	PaidAt   *time.Time `gorm:"column:paid_at"`
	PaidVia  string     `gorm:"column:paid_via;type:varchar(30)"`

	VoidedAt   *time.Time `gorm:"column:voided_at"`
	VoidReason string     `gorm:"column:void_reason;type:text"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Bill) TableName() string {
	return "finance.bills"
}

// NewBillNumber builds the invoice number for a bill issued on the given
// day with the given daily sequence number.
func NewBillNumber(issuedAt time.Time, seq int) string {
	return fmt.Sprintf("INV-%s-%04d", issuedAt.Format("20060102"), seq)
}

func (b *Bill) CanTransitionTo(newStatus BillStatus) bool {
	allowed := map[BillStatus][]BillStatus{
		StatusDraft:  {StatusIssued, StatusVoid},
		StatusIssued: {StatusPaid, StatusVoid},
		StatusPaid:   {},
		StatusVoid:   {},
	}

	for _, s := range allowed[b.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// Recalculate refreshes subtotal and total from the item lines.
func (b *Bill) Recalculate(taxRatePercent decimal.Decimal) {
	subtotal := decimal.Zero
	for _, item := range b.Items {
		subtotal = subtotal.Add(item.TotalPrice)
	}
	b.Subtotal = subtotal
	b.Tax = subtotal.Sub(b.Discount).Mul(taxRatePercent).Div(decimal.NewFromInt(100)).Round(2)
	b.Total = subtotal.Sub(b.Discount).Add(b.Tax)
}

func (b *Bill) Issue() error {
	if !b.CanTransitionTo(StatusIssued) {
		return ErrInvalidStatusTransition
	}
	now := time.Now()
	b.Status = StatusIssued
	b.IssuedAt = &now
	return nil
}

func (b *Bill) MarkPaid(via string) error {
	if !b.CanTransitionTo(StatusPaid) {
		return ErrInvalidStatusTransition
	}
	now := time.Now()
	b.Status = StatusPaid
	b.PaidAt = &now
	b.PaidVia = via
	return nil
}

func (b *Bill) Void(reason string) error {
	if !b.CanTransitionTo(StatusVoid) {
		return ErrInvalidStatusTransition
	}
	now := time.Now()
	b.Status = StatusVoid
	b.VoidedAt = &now
	b.VoidReason = reason
	return nil
}

// CreateBillItem is one requested line on a new bill.
type CreateBillItem struct {
	SourceType  SourceType
	SourceID    uuid.UUID
	Description string
	UnitPrice   decimal.Decimal
	Quantity    int
}

type CreateBillCommand struct {
	PatientID uuid.UUID
	Items     []CreateBillItem
	Discount  decimal.Decimal
	CreatedBy uuid.UUID
}

type ListBillsQuery struct {
	PatientID *uuid.UUID
	Status    *BillStatus
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}

type PagedBills struct {
	Bills      []*Bill
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
