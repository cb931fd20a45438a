package expr

import "fmt"

// SyntaxError reports malformed expression text.
type SyntaxError struct {
	// Input is the raw text that failed to compile.
	Input string

	// Reason describes the failure, if known.
	Reason string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("syntax error: %s: %q", e.Reason, e.Input)
	}
	return fmt.Sprintf("syntax error: %q", e.Input)
}

// Code returns the stable error code.
func (e *SyntaxError) Code() string { return "F001" }

func syntaxError(input, reason string) *SyntaxError {
	return &SyntaxError{Input: input, Reason: reason}
}
