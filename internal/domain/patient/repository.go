package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new patient. Returns ErrPatientAlreadyExists on duplicate UHID.
	Create(ctx context.Context, p *Patient) error

	// GetByID retrieves a patient by primary key. Returns ErrPatientNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// GetByUHID retrieves a patient by their hospital identifier.
	GetByUHID(ctx context.Context, uhid string) (*Patient, error)

	// Update applies partial updates to an existing patient record.
	Update(ctx context.Context, id uuid.UUID, cmd *UpdatePatientCommand) (*Patient, error)

	// SoftDelete marks the patient as deleted (record retention requirement).
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// List returns a paginated, filtered list of patients.
	List(ctx context.Context, q *ListPatientsQuery) (*PagedPatients, error)

	// NextUHIDSequence returns the next daily registration sequence number,
	// used to mint the UHID.
	NextUHIDSequence(ctx context.Context) (int, error)

	// GetAll returns every non-deleted patient; used by the revenue snapshot fetch.
	GetAll(ctx context.Context) ([]*Patient, error)
}
