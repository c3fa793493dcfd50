package types

import "fmt"

// ValidationError rejects malformed or missing required input. It is raised
// synchronously with a specific reason, never as a bare generic failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// DataIntegrityError rejects internally inconsistent data, such as a weight
// profile that does not sum to 1.0 or an unrecognized proficiency level.
// Integrity problems are rejected, never silently coerced.
type DataIntegrityError struct {
	Entity  string
	Message string
}

func (e *DataIntegrityError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("data integrity error: %s: %s", e.Entity, e.Message)
	}
	return fmt.Sprintf("data integrity error: %s", e.Message)
}

// DependencyUnavailableError marks an external capability (the inference
// provider, the workload store) as unreachable or timed out. Callers handle
// it with the defined fallback rather than propagating it upward.
type DependencyUnavailableError struct {
	Dependency string
	Cause      error
}

func (e *DependencyUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("dependency unavailable: %s: %v", e.Dependency, e.Cause)
	}
	return fmt.Sprintf("dependency unavailable: %s", e.Dependency)
}

func (e *DependencyUnavailableError) Unwrap() error {
	return e.Cause
}
