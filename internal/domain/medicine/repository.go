package medicine

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a catalog entry. Returns ErrMedicineAlreadyExists on duplicate name.
	Create(ctx context.Context, m *Medicine) error

	GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error)

	// FindByName does an exact, case-insensitive name lookup.
	FindByName(ctx context.Context, name string) (*Medicine, error)

	// SearchByPrefix returns up to limit catalog names whose name starts
	// with the given prefix, case-insensitively. Used by autocomplete.
	SearchByPrefix(ctx context.Context, prefix string, limit int) ([]string, error)

	List(ctx context.Context, q *ListMedicinesQuery) (*PagedMedicines, error)

	// AdjustStock applies a delta to the stock level.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
}
