package laborder

import "errors"

var (
	ErrLabOrderNotFound        = errors.New("lab order not found")
	ErrInvalidStatusTransition = errors.New("invalid lab order status transition")
	ErrNoTests                 = errors.New("lab order must contain at least one test")
	ErrNegativeTestPrice       = errors.New("test price must not be negative")
	ErrAlreadyBilled           = errors.New("lab order already has a bill")
)
