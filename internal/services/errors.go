package services

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds shared by every service. Wrap with fmt.Errorf("%w: ...") and
// classify with errors.Is.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateDateGroup = errors.New("date group already exists")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrPartialFailure     = errors.New("partial failure")
	ErrForbidden          = errors.New("forbidden")
)

// ItemFailure describes why one id in a batch was not applied.
type ItemFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// PartialFailureError is returned by batch operations when at least one id
// failed. Applied lists the ids that were written, so an empty Applied means
// nothing changed.
type PartialFailureError struct {
	Op       string        `json:"op"`
	Applied  []string      `json:"applied"`
	Failures []ItemFailure `json:"failures"`
}

func (e *PartialFailureError) Error() string {
	ids := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		ids = append(ids, f.ID)
	}
	return fmt.Sprintf("%s: %d applied, %d failed (%s)", e.Op, len(e.Applied), len(e.Failures), strings.Join(ids, ", "))
}

// Is lets errors.Is(err, ErrPartialFailure) match.
func (e *PartialFailureError) Is(target error) bool {
	return target == ErrPartialFailure
}

// FailedIDs returns the ids that were not applied.
func (e *PartialFailureError) FailedIDs() []string {
	ids := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		ids = append(ids, f.ID)
	}
	return ids
}

// NothingApplied reports whether the batch left the store untouched.
func (e *PartialFailureError) NothingApplied() bool {
	return len(e.Applied) == 0
}

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// checkOwner rejects an actor scoped to ownerID acting on another
// employee's record. An empty ownerID is unscoped.
func checkOwner(ownerID, employeeID, what, id string) error {
	if ownerID == "" || ownerID == employeeID {
		return nil
	}
	return fmt.Errorf("%w: %s %s belongs to another employee", ErrForbidden, what, id)
}

// IsPartialFailure extracts a *PartialFailureError from err.
func IsPartialFailure(err error) (*PartialFailureError, bool) {
	var pf *PartialFailureError
	if errors.As(err, &pf) {
		return pf, true
	}
	return nil, false
}
