package constant

// Structured error codes for configuration failures
const (
	ErrInvalidAge       = "GC-0001"
	ErrMissingOrgID     = "GC-0002"
	ErrMissingAPIToken  = "GC-0003"
	ErrInvalidAPIURL    = "GC-0004"
	ErrInvalidFlagValue = "GC-0005"
)

// Process exit codes
const (
	ExitCodeFailure       = 1
	ExitCodeConfiguration = 2
)
