package laborder

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestOrderLifecycle(t *testing.T) {
	tech := uuid.New()
	o := &LabOrder{Status: StatusPending}

	if err := o.StartProcessing(); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("processing before sample collection must fail, got %v", err)
	}

	if err := o.CollectSample(tech); err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if o.CollectedBy == nil || o.CollectedAt == nil {
		t.Error("expected collection details recorded")
	}

	if err := o.StartProcessing(); err != nil {
		t.Fatalf("start processing failed: %v", err)
	}
	if err := o.Complete(tech, "all values within range"); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if o.ResultSummary != "all values within range" {
		t.Errorf("expected result summary recorded, got %q", o.ResultSummary)
	}

	if err := o.Cancel("too late"); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("completed orders must not be cancellable, got %v", err)
	}
}

func TestCancel_AllowedUntilProcessing(t *testing.T) {
	for _, start := range []OrderStatus{StatusPending, StatusSampleCollected} {
		o := &LabOrder{Status: start}
		if err := o.Cancel("duplicate order"); err != nil {
			t.Errorf("cancel from %s failed: %v", start, err)
		}
		if o.CancellationReason != "duplicate order" {
			t.Errorf("expected reason recorded, got %q", o.CancellationReason)
		}
	}

	o := &LabOrder{Status: StatusInProgress}
	if err := o.Cancel("changed mind"); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("in-progress orders must not be cancellable, got %v", err)
	}
}

func TestMarkBilled_Once(t *testing.T) {
	o := &LabOrder{Status: StatusCompleted}
	billID := uuid.New()

	if err := o.MarkBilled(billID); err != nil {
		t.Fatalf("mark billed failed: %v", err)
	}
	if !o.BillGenerated || o.BillID == nil || *o.BillID != billID {
		t.Errorf("expected bill reference recorded, got %v / %v", o.BillGenerated, o.BillID)
	}

	if err := o.MarkBilled(uuid.New()); !errors.Is(err, ErrAlreadyBilled) {
		t.Errorf("second billing must fail, got %v", err)
	}
}

func TestSumTestPrices(t *testing.T) {
	tests := []OrderedTest{
		{Name: "CBC", Price: decimal.NewFromInt(400)},
		{Name: "Lipid panel", Price: decimal.NewFromInt(900)},
	}
	if got := SumTestPrices(tests); !got.Equal(decimal.NewFromInt(1300)) {
		t.Errorf("expected 1300, got %s", got)
	}

	if got := SumTestPrices(nil); !got.IsZero() {
		t.Errorf("expected zero for no tests, got %s", got)
	}
}
