package errs

import "errors"

var (
	// configuration errors: non-retryable, fixed by configuration change,
	// never followed by hardware calls.
	ErrConfigNotFound      = errors.New("camera configuration not found")
	ErrInvalidCameraConfig = errors.New("invalid camera configuration")
	ErrInvalidSchedule     = errors.New("invalid recording schedule")
	ErrInvalidTimeRange    = errors.New("segment end must be after start")
	ErrInvalidCategory     = errors.New("invalid recording category")
	ErrInvalidQuota        = errors.New("emergency quota must be 0, 10 or 20 percent")
	ErrInvalidFullPolicy   = errors.New("unknown full-storage policy")

	// hardware errors: surfaced whole, retry is the caller's business.
	ErrCameraIsNotAvailable = errors.New("camera is not available")
	ErrHardwareTimeout      = errors.New("hardware call timed out")

	// storage errors: fatal for the current attempt.
	ErrStorageFull     = errors.New("storage full and no eviction candidate")
	ErrSegmentNotFound = errors.New("segment not found")
	ErrWriteToDB       = errors.New("failed to write to database")

	// policy outcome, not a failure: the recording was refused, nothing broke.
	ErrEmergencyQuotaExceeded = errors.New("emergency storage quota exceeded")

	ErrUserType           = errors.New("wrong user type")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
