package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig  = fmt.Errorf("configuration not found")
	ErrInvalidConfig  = fmt.Errorf("invalid configuration")
	ErrUnknownPackage = fmt.Errorf("unknown resource package")

	// Serving errors
	ErrPortInUse   = fmt.Errorf("port already claimed")
	ErrTimeout     = fmt.Errorf("operation timed out")
	ErrNoDeferreds = fmt.Errorf("deferred results not enabled")

	// Browser errors
	ErrNoRenderer     = fmt.Errorf("embedded renderer unavailable")
	ErrDownloadFailed = fmt.Errorf("download failed")

	// Persistence errors
	ErrNotFound = fmt.Errorf("record not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
