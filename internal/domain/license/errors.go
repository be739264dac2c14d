package license

import "errors"

var (
	ErrKeyNotFound        = errors.New("license key not found")
	ErrVersionConflict    = errors.New("license key was modified concurrently")
	ErrDuplicateKey       = errors.New("license key already exists")
	ErrInvalidKey         = errors.New("license key cannot be empty")
	ErrInvalidApplication = errors.New("application reference cannot be empty")
	ErrInvalidDays        = errors.New("days must be between 1 and 36500")
)
