// Package funa renders live views over mutable data into a document tree.
//
// Templates are ordinary markup inside <template> elements, annotated with
// attributes and "{...}" interpolations:
//
//	<template>
//	    <ul $=todos>
//	        <li ?=visible @click=toggle>{title:upper}</li>
//	    </ul>
//	    <p>{$todos.count} left</p>
//	</template>
//
// Usage:
//
//	doc, _ := dom.ParseString(markup)
//	app := funa.New(doc, funa.Init{
//	    Data: map[string]any{"todos": []any{...}},
//	    As:   convert.Defaults(language.English),
//	    On:   map[string]funa.Handler{"toggle": toggle},
//	})
//	if err := app.Render(ctx, nil); err != nil { ... }
//
// Data is wrapped in reactive objects and arrays; writing through them
// patches the rendered nodes that depend on the written property.
package funa

import (
	"github.com/funa-dev/funa/pkg/expr"
	"github.com/funa-dev/funa/pkg/reactive"
	"github.com/funa-dev/funa/pkg/render"
)

// Version is the runtime version.
const Version = "1.0"

// =============================================================================
// Registries (re-export from pkg/render)
// =============================================================================

// Converter formats values for display and reverts host input.
type Converter = render.Converter

// Predicate decides whether a conditional element renders.
type Predicate = render.Predicate

// Handler handles events, mounts and two-way binding hooks.
type Handler = render.Handler

// HandlerEvent is passed to handlers.
type HandlerEvent = render.HandlerEvent

// Model is model metadata for implicit formatting.
type Model = render.Model

// =============================================================================
// Reactive data (re-export from pkg/reactive)
// =============================================================================

// Object is an observable record.
type Object = reactive.Object

// Array is an observable list.
type Array = reactive.Array

// Target is anything whose properties can be observed.
type Target = reactive.Target

// NewObject creates an Object from plain fields.
var NewObject = reactive.NewObject

// NewArray creates an Array holding items.
var NewArray = reactive.NewArray

// From wraps maps and slices, recursively, into Objects and Arrays.
var From = reactive.From

// =============================================================================
// Errors
// =============================================================================

type (
	// SyntaxError reports a malformed expression (F001).
	SyntaxError = expr.SyntaxError

	// LookupError reports an unknown converter, predicate, model, handler
	// or template (F002).
	LookupError = render.LookupError

	// NotObservableError reports a property that cannot be observed (F003).
	NotObservableError = reactive.NotObservableError

	// DuplicateTemplateError reports two templates with one name (F004).
	DuplicateTemplateError = render.DuplicateTemplateError

	// UnsupportedBindingError reports a two-way binding that cannot write
	// back (F005).
	UnsupportedBindingError = render.UnsupportedBindingError
)
