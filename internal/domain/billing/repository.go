package billing

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a bill together with its item lines.
	Create(ctx context.Context, b *Bill) error

	// GetByID retrieves a bill including its items.
	GetByID(ctx context.Context, id uuid.UUID) (*Bill, error)

	// UpdateStatus persists a status transition already applied to the entity.
	UpdateStatus(ctx context.Context, b *Bill) error

	List(ctx context.Context, q *ListBillsQuery) (*PagedBills, error)

	// ItemsBySource returns billing items referencing the given service.
	ItemsBySource(ctx context.Context, sourceType SourceType, sourceID uuid.UUID) ([]*BillingItem, error)

	// AllItems returns every billing item; used by the revenue snapshot fetch.
	AllItems(ctx context.Context) ([]*BillingItem, error)

	// NextBillSequence returns the next daily invoice sequence number.
	NextBillSequence(ctx context.Context) (int, error)
}
