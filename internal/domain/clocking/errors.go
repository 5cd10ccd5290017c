package clocking

import "errors"

var (
	ErrMissingExternalID = errors.New("employee external id is missing")
	ErrMissingTimestamp  = errors.New("scan timestamp is missing")
	ErrInvalidTimestamp  = errors.New("scan timestamp is malformed")
	ErrInvalidDateRange  = errors.New("invalid date range")
)
