package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/careaxis/hms/internal/domain/appointment"
	"github.com/careaxis/hms/pkg/metrics"
)

func TestAppointmentOutcomes_CountedByStatus(t *testing.T) {
	repo := newFakeAppointmentRepo()
	auditSvc, _ := newTestAuditService()
	collector := metrics.NewCollector("appointment_outcome_test")
	svc := NewAppointmentService(repo, decimal.NewFromInt(500), auditSvc, collector, zap.NewNop())

	inProgress := &appointment.Appointment{Status: appointment.StatusInProgress}
	_ = repo.Create(context.Background(), inProgress)
	scheduled := &appointment.Appointment{Status: appointment.StatusScheduled}
	_ = repo.Create(context.Background(), scheduled)

	doctor := uuid.New()
	if _, err := svc.Complete(context.Background(), inProgress.ID, "follow up in two weeks", doctor, "doctor", "10.0.0.1"); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), scheduled.ID, &appointment.CancelAppointmentCommand{
		Reason:      "patient request",
		CancelledBy: doctor,
	}, doctor, "doctor", "10.0.0.1"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	completed := collector.AppointmentsTotal.WithLabelValues(string(appointment.StatusCompleted))
	if n := testutil.ToFloat64(completed); n != 1 {
		t.Errorf("appointments_total{status=completed} = %v, want 1", n)
	}
	cancelled := collector.AppointmentsTotal.WithLabelValues(string(appointment.StatusCancelled))
	if n := testutil.ToFloat64(cancelled); n != 1 {
		t.Errorf("appointments_total{status=cancelled} = %v, want 1", n)
	}
}
