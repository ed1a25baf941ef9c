package staff

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new staff record. Returns ErrStaffAlreadyExists on duplicate email.
	Create(ctx context.Context, s *Staff) error

	GetByID(ctx context.Context, id uuid.UUID) (*Staff, error)
	GetByEmployeeCode(ctx context.Context, code string) (*Staff, error)
	Update(ctx context.Context, id uuid.UUID, cmd *UpdateStaffCommand) (*Staff, error)
	List(ctx context.Context, q *ListStaffQuery) (*PagedStaff, error)

	// NextEmployeeSequence returns the next employee code sequence number.
	NextEmployeeSequence(ctx context.Context) (int, error)

	// GetAll returns every staff record; used by the revenue snapshot fetch.
	GetAll(ctx context.Context) ([]*Staff, error)
}
