package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, id uuid.UUID, cmd *UpdateAppointmentCommand) (*Appointment, error)
	List(ctx context.Context, q *ListAppointmentsQuery) (*PagedAppointments, error)

	// UpdateStatus persists a status transition already applied to the entity.
	UpdateStatus(ctx context.Context, a *Appointment) error

	// SetBill records the bill covering this appointment.
	SetBill(ctx context.Context, id uuid.UUID, billID uuid.UUID) error

	// HasConflict checks whether a doctor already has an appointment that overlaps.
	HasConflict(ctx context.Context, doctorID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error)

	// GetByPatient returns all appointments for one patient, newest first.
	GetByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error)

	// GetAll returns every appointment; used by the revenue snapshot fetch.
	GetAll(ctx context.Context) ([]*Appointment, error)
}
