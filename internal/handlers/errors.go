package handlers

import "fmt"

// ValidationError reports a required variable that was absent, equal to the
// sentinel placeholder, or malformed. Always fatal to the current job; the
// handler raises it before touching the store.
type ValidationError struct {
	Kind   Kind
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: invalid variable %q: %s", e.Kind, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: missing required variable %q", e.Kind, e.Field)
}

// NotFoundError reports a referenced container that does not exist. Fatal
// for weighing and storage; the crane handlers downgrade it to a warning.
type NotFoundError struct {
	ContainerID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("container %s not found", e.ContainerID)
}
