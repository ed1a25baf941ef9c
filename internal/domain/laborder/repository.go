package laborder

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, o *LabOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*LabOrder, error)

	// UpdateStatus persists a lifecycle transition already applied to the entity.
	UpdateStatus(ctx context.Context, o *LabOrder) error

	// MarkBilled flips bill_generated and records the bill id.
	MarkBilled(ctx context.Context, id uuid.UUID, billID uuid.UUID) error

	List(ctx context.Context, q *ListLabOrdersQuery) (*PagedLabOrders, error)
	GetByPatient(ctx context.Context, patientID uuid.UUID) ([]*LabOrder, error)

	// GetAll returns every lab order; used by the revenue snapshot fetch.
	GetAll(ctx context.Context) ([]*LabOrder, error)
}
