package reactive

import "fmt"

// NotObservableError is returned when a property cannot be intercepted:
// it does not exist on the target or it was defined as Fixed.
type NotObservableError struct {
	Target   any
	Property string
}

// Error implements the error interface.
func (e *NotObservableError) Error() string {
	return fmt.Sprintf("target is not observable: %T has no reconfigurable property %q", e.Target, e.Property)
}

// Code returns the stable error code.
func (e *NotObservableError) Code() string { return "F003" }
