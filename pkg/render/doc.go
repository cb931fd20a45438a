// Package render materializes compiled templates into a host tree and keeps
// the result in sync with reactive data.
//
// A Renderer owns a template registry and a set of named callbacks:
//
//   - As: converters that format values for display and revert input
//   - If: predicates used by conditions
//   - Is: model metadata used for implicit formatting
//   - On: event, mount and two-way binding handlers
//
// # Basic Usage
//
//	r := render.New(doc, render.Options{
//	    Data: reactive.From(map[string]any{"name": "world"}),
//	})
//	err := r.Render(ctx, nil) // first template in doc.Body()
//
// Render compiles every template declaration directly under the container,
// removes the declarations and renders the first one (or the named one with
// RenderTemplate) into the container.
//
// # Updates
//
// Every text, attribute and element that reads a live path ("$") subscribes
// to each object along that path. A change to the leaf re-runs only the
// dependent node; a change to an intermediate object re-subscribes the rest
// of the path first. Elements bound to a live source are re-rendered as a
// whole and replaced in place.
//
// Elements whose data is a *reactive.Array render their children once per
// item and follow insertions, removals and reorders of the array without
// re-rendering unaffected items.
//
// Updates run synchronously inside the mutating call. Failures raised by an
// update have no caller to return to and are passed to Options.OnError.
//
// # Teardown
//
// Subscriptions are stored on the host nodes they update. Unmount cancels
// them for a whole subtree and detaches it.
package render
