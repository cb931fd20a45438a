package render

import (
	"log/slog"

	"github.com/funa-dev/funa/pkg/expr"
	"github.com/funa-dev/funa/pkg/host"
	"github.com/funa-dev/funa/pkg/telemetry"
)

// Converter formats values for display and reverts host input. Either
// function may be nil; a binding that needs a missing one fails with a
// LookupError.
type Converter struct {
	// Convert turns a data value into the displayed value.
	Convert func(data, value any, args ...any) (any, error)

	// Revert turns host input back into a data value.
	Revert func(data, value any, args ...any) (any, error)
}

// Predicate decides whether a conditional element renders.
type Predicate func(data any, args ...any) (bool, error)

// HandlerEvent is passed to handlers.
type HandlerEvent struct {
	// Data is the data node the element was rendered with.
	Data any

	// Sender is the element that declared the handler.
	Sender host.Node

	// Event is the triggering host event. Nil for mount handlers.
	Event *host.Event

	// Args are the literal arguments of the handler call.
	Args []any
}

// Handler handles events, mounts and two-way binding hooks.
type Handler func(HandlerEvent) error

// Model is model metadata for implicit formatting.
type Model = expr.Model

// Options configures a Renderer.
type Options struct {
	// Data is the root data node. Maps and slices are wrapped with
	// reactive.From.
	Data any

	As map[string]Converter
	If map[string]Predicate
	Is map[string]Model
	On map[string]Handler

	// BypassTags are extra tags, besides template, pre and code, that are
	// cloned instead of compiled. Case-insensitive.
	BypassTags []string

	// Logger receives debug and error logs. Default: slog.Default().
	Logger *slog.Logger

	// Metrics records render metrics. Nil disables them.
	Metrics *telemetry.Metrics

	// OnError receives errors raised by reactive updates after render.
	// Default: log at error level.
	OnError func(error)
}
