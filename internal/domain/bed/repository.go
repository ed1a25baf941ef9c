package bed

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateWard(ctx context.Context, w *Ward) error
	GetWard(ctx context.Context, id uuid.UUID) (*Ward, error)
	ListWards(ctx context.Context) ([]*Ward, error)

	CreateBed(ctx context.Context, b *Bed) error
	GetBed(ctx context.Context, id uuid.UUID) (*Bed, error)

	// UpdateBedStatus persists an occupancy transition already applied to the entity.
	UpdateBedStatus(ctx context.Context, b *Bed) error

	ListBeds(ctx context.Context, q *ListBedsQuery) (*PagedBeds, error)

	CreateAssignment(ctx context.Context, a *Assignment) error
	GetOpenAssignment(ctx context.Context, bedID uuid.UUID) (*Assignment, error)
	CloseAssignment(ctx context.Context, a *Assignment) error
	GetAssignmentsByPatient(ctx context.Context, patientID uuid.UUID) ([]*Assignment, error)
}
