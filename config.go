package funa

import (
	"log/slog"

	"github.com/funa-dev/funa/pkg/telemetry"
)

// =============================================================================
// Configuration Types
// =============================================================================

// Config configures the runtime of an App.
type Config struct {
	// BypassTags are extra tags whose content is copied verbatim instead of
	// being compiled. template, pre and code are always bypassed.
	BypassTags []string

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Metrics records render metrics. Nil disables them.
	//
	// Example:
	//   Metrics: telemetry.NewMetrics(telemetry.WithRegistry(reg)),
	Metrics *telemetry.Metrics

	// OnError receives errors raised by reactive updates after render,
	// such as a converter failing on a new value.
	// If nil, errors are logged at error level.
	OnError func(error)
}

// Init is the initial state of an App.
type Init struct {
	Config Config

	// Data is the root data node. Maps and slices are wrapped into
	// Objects and Arrays.
	Data any

	// As holds the converters of "{value:name}" formats.
	As map[string]Converter

	// If holds the predicates of "?" and "!" conditions.
	If map[string]Predicate

	// Is holds the models of "%" references.
	Is map[string]Model

	// On holds event, mount and two-way binding handlers.
	On map[string]Handler
}

// PropertyDescriptor describes a property installed by App.Define.
type PropertyDescriptor struct {
	// Get computes the property value.
	Get func(o *Object) any

	// Set receives writes. Without Set the property is read-only.
	Set func(o *Object, value any)

	// Links name the properties the value depends on. A change to any of
	// them notifies the listeners of the defined property.
	Links []Link
}

// Link names a property the defined property depends on.
type Link struct {
	// Source owns the property. Nil means the object being defined on.
	Source Target
	Prop   string
}

// Self links to a property of the object being defined on.
func Self(prop string) Link {
	return Link{Prop: prop}
}
