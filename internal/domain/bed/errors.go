package bed

import "errors"

var (
	ErrWardNotFound     = errors.New("ward not found")
	ErrBedNotFound      = errors.New("bed not found")
	ErrBedUnavailable   = errors.New("bed is not available")
	ErrBedNotOccupied   = errors.New("bed is not occupied")
	ErrNoOpenAssignment = errors.New("no open assignment for this bed")
	ErrPatientAlreadyIn = errors.New("patient already occupies a bed")
	ErrInvalidWardType  = errors.New("invalid ward type")
)
