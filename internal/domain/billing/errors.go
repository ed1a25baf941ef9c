package billing

import "errors"

var (
	ErrBillNotFound            = errors.New("bill not found")
	ErrInvalidStatusTransition = errors.New("invalid bill status transition")
	ErrNoItems                 = errors.New("bill must contain at least one item")
	ErrInvalidSourceType       = errors.New("invalid billing source type")
	ErrNegativeAmount          = errors.New("billing amount must not be negative")
)
