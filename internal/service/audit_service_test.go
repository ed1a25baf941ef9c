package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/careaxis/hms/internal/domain"
	"github.com/careaxis/hms/pkg/metrics"
)

// blockingAuditRepo holds every Create call until the gate is closed,
// keeping the worker busy so the buffer can fill up.
type blockingAuditRepo struct {
	gate chan struct{}
}

func (f *blockingAuditRepo) Create(_ context.Context, _ *domain.AuditLog) error {
	<-f.gate
	return nil
}

func testEntry(action string) AuditEntry {
	return AuditEntry{
		UserID:       uuid.New(),
		UserRole:     string(domain.RoleAdmin),
		Action:       action,
		ResourceType: "patient",
	}
}

func TestLogAsyncPersistsAndCounts(t *testing.T) {
	repo := &fakeAuditRepo{}
	collector := metrics.NewCollector("audit_persist_test")
	svc := NewAuditService(repo, collector, zap.NewNop())

	svc.LogAsync(context.Background(), testEntry("create"))
	svc.LogAsync(context.Background(), testEntry("update"))
	svc.LogAsync(context.Background(), testEntry("delete"))
	svc.Shutdown()

	repo.mu.Lock()
	got := len(repo.entries)
	repo.mu.Unlock()
	if got != 3 {
		t.Fatalf("persisted entries = %d, want 3", got)
	}
	if n := testutil.ToFloat64(collector.AuditEntriesTotal); n != 3 {
		t.Errorf("audit_entries_total = %v, want 3", n)
	}
	if n := testutil.ToFloat64(collector.AuditBufferDropped); n != 0 {
		t.Errorf("audit_buffer_dropped_total = %v, want 0", n)
	}
}

func TestLogAsyncCountsDropsWhenBufferFull(t *testing.T) {
	repo := &blockingAuditRepo{gate: make(chan struct{})}
	collector := metrics.NewCollector("audit_drop_test")
	svc := newAuditService(repo, collector, zap.NewNop(), 1)

	// With the worker stuck in Create and a single-slot buffer, at
	// most two of these can be in flight. The rest must be dropped.
	for i := 0; i < 4; i++ {
		svc.LogAsync(context.Background(), testEntry("create"))
	}

	if n := testutil.ToFloat64(collector.AuditBufferDropped); n < 2 {
		t.Errorf("audit_buffer_dropped_total = %v, want at least 2", n)
	}

	close(repo.gate)
	svc.Shutdown()
}
