package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/funa-dev/funa/pkg/expr"
)

// Category represents the type of error.
type Category string

const (
	CategorySyntax     Category = "syntax"
	CategoryLookup     Category = "lookup"
	CategoryReactivity Category = "reactivity"
	CategoryTemplate   Category = "template"
	CategoryBinding    Category = "binding"
	CategoryConfig     Category = "config"
	CategorySource     Category = "source"
	CategoryScript     Category = "script"
	CategoryCLI        Category = "cli"
)

// Location represents a position in a source file.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	switch {
	case l.Line == 0:
		return l.File
	case l.Column > 0:
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	default:
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
}

// FunaError is a coded error with an optional source location.
type FunaError struct {
	// Code is a unique error identifier (e.g., "F001").
	Code string

	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation, usually the underlying error text.
	Detail string

	Location *Location

	// Context holds the source lines around Location, starting at
	// ContextStart.
	Context      []string
	ContextStart int

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *FunaError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *FunaError) Unwrap() error {
	return e.Wrapped
}

// WithLocation sets the location without source context.
func (e *FunaError) WithLocation(file string, line, column int) *FunaError {
	e.Location = &Location{File: file, Line: line, Column: column}
	return e
}

// WithSource locates the error in src, the content of file, and records
// the surrounding lines. Only syntax errors carry text that can be found;
// for other errors only the file is recorded.
func (e *FunaError) WithSource(file string, src string) *FunaError {
	var syntax *expr.SyntaxError
	if !stderrors.As(e, &syntax) || syntax.Input == "" {
		e.Location = &Location{File: file}
		return e
	}

	idx := strings.Index(src, syntax.Input)
	if idx < 0 {
		e.Location = &Location{File: file}
		return e
	}
	line := strings.Count(src[:idx], "\n") + 1
	column := idx - strings.LastIndex(src[:idx], "\n")
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context, e.ContextStart = contextLines(src, line, 1)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *FunaError) WithSuggestion(s string) *FunaError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *FunaError) WithDetail(d string) *FunaError {
	e.Detail = d
	return e
}

// Wrap wraps another error and uses its text as the detail.
func (e *FunaError) Wrap(err error) *FunaError {
	e.Wrapped = err
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

// contextLines returns up to radius lines on each side of line.
func contextLines(src string, line, radius int) ([]string, int) {
	lines := strings.Split(src, "\n")
	start := max(line-radius, 1)
	end := min(line+radius, len(lines))
	return lines[start-1 : end], start
}

// New creates a FunaError from a registered error code.
func New(code string) *FunaError {
	template, ok := registry[code]
	if !ok {
		return &FunaError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &FunaError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new FunaError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *FunaError {
	return &FunaError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError converts err to a FunaError. Errors that report their own code
// through a Code() method use it; anything else gets fallback, or CLI
// category without code when fallback is empty.
func FromError(err error, fallback ...string) *FunaError {
	if err == nil {
		return nil
	}
	var fe *FunaError
	if stderrors.As(err, &fe) {
		return fe
	}
	var coded interface{ Code() string }
	if stderrors.As(err, &coded) {
		return New(coded.Code()).Wrap(err)
	}
	if len(fallback) > 0 && fallback[0] != "" {
		return New(fallback[0]).Wrap(err)
	}
	fe = Newf(CategoryCLI, "%s", err.Error())
	fe.Wrapped = err
	return fe
}
