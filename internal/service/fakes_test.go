package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/careaxis/hms/internal/domain"
)

// fakeAuditRepo records entries in memory so tests can assert on the
// audit trail without a database.
type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (f *fakeAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func newTestAuditService() (*AuditService, *fakeAuditRepo) {
	repo := &fakeAuditRepo{}
	return NewAuditService(repo, nil, zap.NewNop()), repo
}
