package funa

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/funa-dev/funa/pkg/host"
	"github.com/funa-dev/funa/pkg/reactive"
	"github.com/funa-dev/funa/pkg/render"
)

// =============================================================================
// App Type
// =============================================================================

// App is the main Funa entry point. It owns the template registry and the
// root data node of one document.
//
// Create an App with funa.New():
//
//	app := funa.New(doc, funa.Init{
//	    Data: map[string]any{"count": 0},
//	    On: map[string]funa.Handler{
//	        "inc": func(e funa.HandlerEvent) error { ... },
//	    },
//	})
//	err := app.Render(ctx, nil)
//
// An App is not safe for concurrent use.
type App struct {
	renderer *render.Renderer
	logger   *slog.Logger
}

// New creates an App rendering into doc.
func New(doc host.Document, init Init) *App {
	logger := init.Config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := render.New(doc, render.Options{
		Data:       init.Data,
		As:         init.As,
		If:         init.If,
		Is:         init.Is,
		On:         init.On,
		BypassTags: init.Config.BypassTags,
		Logger:     logger,
		Metrics:    init.Config.Metrics,
		OnError:    init.Config.OnError,
	})

	return &App{renderer: r, logger: logger}
}

// Data returns the root data node.
func (a *App) Data() any {
	return a.renderer.Data()
}

// Object returns the root data node as an Object, or nil when the root is
// not a record.
func (a *App) Object() *Object {
	o, _ := a.renderer.Data().(*Object)
	return o
}

// Version returns the runtime version.
func (a *App) Version() string {
	return Version
}

// Templates returns the compiled template names in declaration order.
func (a *App) Templates() []string {
	return a.renderer.Templates()
}

// =============================================================================
// Rendering
// =============================================================================

// Render compiles the templates declared directly under container and
// renders the first one into it. A nil container is the document body.
func (a *App) Render(ctx context.Context, container host.Node) error {
	return a.renderer.Render(ctx, container)
}

// RenderTemplate compiles the templates declared under container and
// renders the named one into it.
func (a *App) RenderTemplate(ctx context.Context, container host.Node, name string) error {
	return a.renderer.RenderTemplate(ctx, container, name)
}

// Unmount cancels the subscriptions of node and its descendants and
// detaches it.
func (a *App) Unmount(node host.Node) {
	a.renderer.Unmount(node)
}

// =============================================================================
// Dependencies
// =============================================================================

// Depend makes changes to the sources properties of target notify the
// listeners of target's prop. It is typically used for computed
// properties:
//
//	app.Depend(data, "total", "price", "qty")
//
// The returned function removes the dependency.
func (a *App) Depend(target Target, prop string, sources ...string) (func(), error) {
	return a.DependOn(target, prop, target, sources...)
}

// DependOn is like Depend with the source properties read from source.
func (a *App) DependOn(target Target, prop string, source Target, sources ...string) (func(), error) {
	links := make([]Link, len(sources))
	for i, s := range sources {
		links[i] = Link{Source: source, Prop: s}
	}
	return a.link(target, prop, links)
}

// Define installs a computed or accessor property on target and links it to
// the properties it depends on.
//
//	app.Define(data, "total", funa.PropertyDescriptor{
//	    Get:   func(o *funa.Object) any { return o.Get("a").(int) + o.Get("b").(int) },
//	    Links: []funa.Link{funa.Self("a"), {Source: other, Prop: "b"}},
//	})
func (a *App) Define(target *Object, prop string, d PropertyDescriptor) error {
	if err := target.Define(prop, reactive.Descriptor{Get: d.Get, Set: d.Set}); err != nil {
		return fmt.Errorf("define %s: %w", prop, err)
	}
	if _, err := a.link(target, prop, d.Links); err != nil {
		return fmt.Errorf("define %s: %w", prop, err)
	}
	return nil
}

// Notify runs the listeners of target's prop, for values that change
// outside the reactive layer.
func (a *App) Notify(target Target, prop string) {
	reactive.Notify(target, prop)
}

// link subscribes one notifier to every link. On failure nothing stays
// subscribed.
func (a *App) link(target Target, prop string, links []Link) (func(), error) {
	notify := reactive.Func(func() { reactive.Notify(target, prop) })

	var done []Link
	cancel := func() {
		for _, l := range done {
			reactive.Remove(l.Source, l.Prop, notify)
		}
		done = nil
	}
	for _, l := range links {
		if l.Source == nil {
			l.Source = target
		}
		if err := reactive.Listen(l.Source, l.Prop, notify); err != nil {
			cancel()
			return nil, err
		}
		done = append(done, l)
	}

	a.logger.Debug("linked property", "prop", prop, "links", len(done))
	return cancel, nil
}
