package medicalrecord

import "errors"

var (
	ErrRecordNotFound    = errors.New("medical record not found")
	ErrInvalidRecordType = errors.New("invalid medical record type")
	ErrRecordImmutable   = errors.New("medical records cannot be modified; add an addendum instead")
)
