package medicine

import "errors"

var (
	ErrMedicineNotFound      = errors.New("medicine not found")
	ErrMedicineAlreadyExists = errors.New("medicine with this name already exists")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrNameRequired          = errors.New("medicine name is required")
)
