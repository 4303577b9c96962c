package models

import "fmt"

// ValidationError is returned when an entity fails construction-time
// validation. Adapters catch it and skip the offending record instead of
// aborting the surrounding batch.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: %s: %s", e.Entity, e.Field, e.Reason)
}
