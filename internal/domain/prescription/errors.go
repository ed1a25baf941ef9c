package prescription

import "errors"

var (
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrAlreadyProcessed     = errors.New("prescription has already been processed")
	ErrNoMedicines          = errors.New("prescription must contain at least one medicine")
	ErrRejectReasonRequired = errors.New("rejection reason is required")
)
