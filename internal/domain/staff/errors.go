package staff

import "errors"

var (
	ErrStaffNotFound      = errors.New("staff member not found")
	ErrStaffAlreadyExists = errors.New("staff member with this email already exists")
	ErrInvalidDesignation = errors.New("invalid staff designation")
	ErrLicenseRequired    = errors.New("license number is required for clinical staff")
)
