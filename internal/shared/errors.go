package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Collection errors
	ErrIndexOutOfRange = fmt.Errorf("index out of range")

	// Persistence errors
	ErrParse            = fmt.Errorf("parse error")
	ErrTooFewFields     = fmt.Errorf("%w: too few fields", ErrParse)
	ErrInvalidDate      = fmt.Errorf("%w: invalid date", ErrParse)
	ErrInvalidSequence  = fmt.Errorf("%w: invalid sequence", ErrParse)
	ErrLineTooLong      = fmt.Errorf("%w: line too long", ErrParse)
	ErrSnapshotNotFound = fmt.Errorf("snapshot not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
