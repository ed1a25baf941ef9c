package prescription

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)

	// UpdateStatus persists an approval/rejection already applied to the entity.
	UpdateStatus(ctx context.Context, p *Prescription) error

	List(ctx context.Context, q *ListPrescriptionsQuery) (*PagedPrescriptions, error)
	GetByPatient(ctx context.Context, patientID uuid.UUID) ([]*Prescription, error)

	// GetAll returns every prescription; used by the revenue snapshot fetch.
	GetAll(ctx context.Context) ([]*Prescription, error)
}
