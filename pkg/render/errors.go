package render

import (
	"fmt"
	"strings"
)

// LookupError reports a name missing from its registry.
type LookupError struct {
	// Kind is what was looked up: "converter", "predicate", "model",
	// "handler" or "template".
	Kind string
	Name string

	// Detail narrows the failure, such as a converter without Revert.
	Detail string
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	msg := fmt.Sprintf("%s is not defined: %s", e.Kind, e.Name)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Code returns the stable error code.
func (e *LookupError) Code() string { return "F002" }

// DuplicateTemplateError reports two template declarations with one name.
type DuplicateTemplateError struct {
	Name string
}

// Error implements the error interface.
func (e *DuplicateTemplateError) Error() string {
	return "duplicated template id: " + e.Name
}

// Code returns the stable error code.
func (e *DuplicateTemplateError) Code() string { return "F004" }

// UnsupportedBindingError reports a two-way binding that cannot write back.
type UnsupportedBindingError struct {
	Path   []string
	Reason string
}

// Error implements the error interface.
func (e *UnsupportedBindingError) Error() string {
	return fmt.Sprintf("unsupported two-way binding %s: %s", strings.Join(e.Path, "."), e.Reason)
}

// Code returns the stable error code.
func (e *UnsupportedBindingError) Code() string { return "F005" }
