package appointment

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{StatusScheduled, StatusInProgress, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusScheduled, StatusCompleted, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCancelled, StatusScheduled, false},
	}

	for _, tc := range cases {
		a := &Appointment{Status: tc.from}
		if got := a.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestStart_SetsTimestamp(t *testing.T) {
	a := &Appointment{Status: StatusScheduled}
	if err := a.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if a.Status != StatusInProgress || a.StartedAt == nil {
		t.Errorf("expected in_progress with started_at set, got %q / %v", a.Status, a.StartedAt)
	}
}

func TestComplete_OnlyFromInProgress(t *testing.T) {
	a := &Appointment{Status: StatusScheduled}
	if err := a.Complete(); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
	}

	a.Status = StatusInProgress
	if err := a.Complete(); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if a.CompletedAt == nil {
		t.Error("expected completed_at set")
	}
}

func TestCancel_RecordsReasonAndActor(t *testing.T) {
	actor := uuid.New()
	a := &Appointment{Status: StatusScheduled}
	if err := a.Cancel("patient request", actor); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if a.CancellationReason != "patient request" {
		t.Errorf("expected reason recorded, got %q", a.CancellationReason)
	}
	if a.CancelledBy == nil || *a.CancelledBy != actor {
		t.Error("expected cancelling user recorded")
	}
}

func TestIsBilled(t *testing.T) {
	a := &Appointment{}
	if a.IsBilled() {
		t.Error("appointment without a bill reference must not be billed")
	}
	billID := uuid.New()
	a.BillID = &billID
	if !a.IsBilled() {
		t.Error("appointment with a bill reference must be billed")
	}
}
