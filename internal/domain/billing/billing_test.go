package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewBillNumber(t *testing.T) {
	issuedAt := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	if got := NewBillNumber(issuedAt, 7); got != "INV-20260828-0007" {
		t.Errorf("unexpected bill number %q", got)
	}
}

func TestRecalculate(t *testing.T) {
	b := &Bill{
		Items: []BillingItem{
			{TotalPrice: decimal.NewFromInt(500)},
			{TotalPrice: decimal.NewFromInt(300)},
		},
		Discount: decimal.NewFromInt(100),
	}
	b.Recalculate(decimal.NewFromInt(5))

	if !b.Subtotal.Equal(decimal.NewFromInt(800)) {
		t.Errorf("expected subtotal 800, got %s", b.Subtotal)
	}
	if !b.Tax.Equal(decimal.NewFromInt(35)) {
		t.Errorf("expected tax 35 (5%% of 700), got %s", b.Tax)
	}
	if !b.Total.Equal(decimal.NewFromInt(735)) {
		t.Errorf("expected total 735, got %s", b.Total)
	}
}

func TestRecalculate_ZeroTax(t *testing.T) {
	b := &Bill{Items: []BillingItem{{TotalPrice: decimal.NewFromInt(200)}}}
	b.Recalculate(decimal.Zero)

	if !b.Tax.IsZero() {
		t.Errorf("expected zero tax, got %s", b.Tax)
	}
	if !b.Total.Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected total 200, got %s", b.Total)
	}
}

func TestLifecycle(t *testing.T) {
	b := &Bill{Status: StatusDraft}

	if err := b.MarkPaid("cash"); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("paying a draft must fail, got %v", err)
	}
	if err := b.Issue(); err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if b.IssuedAt == nil {
		t.Error("expected issued_at set")
	}
	if err := b.MarkPaid("card"); err != nil {
		t.Fatalf("pay failed: %v", err)
	}
	if b.PaidVia != "card" || b.PaidAt == nil {
		t.Errorf("expected payment details recorded, got %q / %v", b.PaidVia, b.PaidAt)
	}
	if err := b.Void("mistake"); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("voiding a paid bill must fail, got %v", err)
	}
}

func TestVoid_FromDraftAndIssued(t *testing.T) {
	for _, start := range []BillStatus{StatusDraft, StatusIssued} {
		b := &Bill{Status: start}
		if err := b.Void("duplicate entry"); err != nil {
			t.Errorf("voiding from %s failed: %v", start, err)
		}
		if b.VoidReason != "duplicate entry" {
			t.Errorf("expected void reason recorded, got %q", b.VoidReason)
		}
	}
}
