package person

import "errors"

// Repository-level errors
var (
	// Duplicate detection: the record is skipped, not failed.
	ErrDuplicateDNI = errors.New("government id already exists")
	ErrEmailExists  = errors.New("email already exists")

	// Connection
	ErrDatabaseUnavailable = errors.New("database unavailable")
)

// Transform-level errors
var (
	ErrMissingUUID      = errors.New("missing login uuid")
	ErrMissingEmail     = errors.New("missing email")
	ErrMissingDNIValue  = errors.New("missing id value")
	ErrInvalidDOB       = errors.New("invalid date of birth")
	ErrInvalidLatitude  = errors.New("invalid latitude")
	ErrInvalidLongitude = errors.New("invalid longitude")
)
