package syncrun

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks a network or HTTP failure reaching either system.
	ErrTransport = errors.New("remote system unreachable")
	// ErrAuth marks a credential rejection. Runs stop on it and raise an alert.
	ErrAuth = errors.New("remote system rejected credentials")
	// ErrPartialWrite is reported when a run finished with at least one failed write.
	ErrPartialWrite = errors.New("one or more writes failed")
	// ErrWriteRejected is reported when a remote system refused a batch write outright.
	ErrWriteRejected = errors.New("remote system rejected the write")
	// ErrRunNotFound is returned by the journal for unknown run IDs.
	ErrRunNotFound = errors.New("sync run not found")
)

// MappingError reports a raw record that could not be normalized. The record
// is dropped and counted; the run carries on.
type MappingError struct {
	System string
	Record string
	Err    error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("%s record %q: %v", e.System, e.Record, e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}
