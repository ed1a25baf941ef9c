package bed

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestOccupyAndRelease(t *testing.T) {
	b := &Bed{Status: StatusAvailable}
	patientID := uuid.New()

	if err := b.Occupy(patientID); err != nil {
		t.Fatalf("occupy failed: %v", err)
	}
	if b.Status != StatusOccupied || b.CurrentPatientID == nil || *b.CurrentPatientID != patientID {
		t.Errorf("expected occupied bed with patient recorded, got %q / %v", b.Status, b.CurrentPatientID)
	}

	if err := b.Occupy(uuid.New()); !errors.Is(err, ErrBedUnavailable) {
		t.Errorf("double admission must fail, got %v", err)
	}

	if err := b.Release(); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if b.Status != StatusAvailable || b.CurrentPatientID != nil {
		t.Errorf("released bed must be available and empty, got %q / %v", b.Status, b.CurrentPatientID)
	}

	if err := b.Release(); !errors.Is(err, ErrBedNotOccupied) {
		t.Errorf("releasing an empty bed must fail, got %v", err)
	}
}

func TestOccupy_MaintenanceBedRefused(t *testing.T) {
	b := &Bed{Status: StatusMaintenance}
	if err := b.Occupy(uuid.New()); !errors.Is(err, ErrBedUnavailable) {
		t.Errorf("maintenance bed must not accept patients, got %v", err)
	}
}

func TestStayDays(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		admitted  time.Time
		discharge *time.Time
		want      int
	}{
		{"same day counts as one", now.Add(-6 * time.Hour), nil, 1},
		{"three full days", now.Add(-72 * time.Hour), nil, 3},
		{"discharge timestamp wins over now", now.Add(-96 * time.Hour), timePtr(now.Add(-48 * time.Hour)), 2},
	}

	for _, tc := range cases {
		a := &Assignment{AdmittedAt: tc.admitted, DischargedAt: tc.discharge}
		if got := a.StayDays(now); got != tc.want {
			t.Errorf("%s: expected %d days, got %d", tc.name, tc.want, got)
		}
	}
}

func timePtr(t time.Time) *time.Time { return &t }
