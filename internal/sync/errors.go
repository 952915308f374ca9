package sync

import "fmt"

// MappingError reports a remote record missing a field the API contract
// declares always-present. It aborts the affected entity's sync for the
// cycle; no default is ever substituted.
type MappingError struct {
	Entity string
	ID     string
	Field  string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("map %s %s: required field %q missing", e.Entity, e.ID, e.Field)
}

// ReconciliationError wraps a store write failure. Rows committed before the
// failing write stay committed; atomicity is per entity kind, not per cycle.
type ReconciliationError struct {
	Phase string
	Err   error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconcile %s: %v", e.Phase, e.Err)
}

func (e *ReconciliationError) Unwrap() error {
	return e.Err
}
