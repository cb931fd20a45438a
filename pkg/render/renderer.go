package render

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/funa-dev/funa/pkg/expr"
	"github.com/funa-dev/funa/pkg/host"
	"github.com/funa-dev/funa/pkg/reactive"
	"github.com/funa-dev/funa/pkg/telemetry"
)

// Renderer renders templates into a host document.
//
// A Renderer is not safe for concurrent use: renders and the data
// mutations that drive updates must happen on one goroutine at a time.
type Renderer struct {
	doc     host.Document
	opts    Options
	data    any
	parser  *expr.Parser
	logger  *slog.Logger
	metrics *telemetry.Metrics

	mu        sync.RWMutex
	templates map[string][]expr.Child
	order     []string
}

// New creates a Renderer for doc.
func New(doc host.Document, opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		doc:       doc,
		opts:      opts,
		data:      reactive.From(opts.Data),
		parser:    expr.NewParser(opts.BypassTags...),
		logger:    logger,
		metrics:   opts.Metrics,
		templates: make(map[string][]expr.Child),
	}
}

// Data returns the root data node.
func (r *Renderer) Data() any { return r.data }

// Templates returns the registered template names in declaration order.
func (r *Renderer) Templates() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Render compiles the template declarations of container and renders the
// first one declared in it into container. A nil container is the
// document body.
func (r *Renderer) Render(ctx context.Context, container host.Node) error {
	return r.RenderTemplate(ctx, container, "")
}

// RenderTemplate is like Render but renders the named template, which may
// have been declared by an earlier call.
func (r *Renderer) RenderTemplate(ctx context.Context, container host.Node, name string) (err error) {
	if container == nil {
		container = r.doc.Body()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	_, span := telemetry.StartSpan(ctx, "render", attribute.String("funa.template", name))
	start := time.Now()
	defer func() {
		r.metrics.ObserveRender(name, time.Since(start), err)
		telemetry.EndSpan(span, err)
	}()

	first, err := r.Compile(container)
	if err != nil {
		return err
	}
	if name == "" {
		name = first
	}

	nodes, err := r.renderTemplate(name, r.data)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	r.logger.Debug("rendered template", "template", name, "nodes", len(nodes))
	return nil
}

// Compile registers every template declaration directly under container
// and removes the declarations from it. It returns the name of the first
// declaration found, or "" if there is none.
func (r *Renderer) Compile(container host.Node) (string, error) {
	var first string
	found := false
	for _, child := range container.Children() {
		if !child.IsTemplate() {
			continue
		}
		name, _ := child.Attribute("id")
		if !found {
			first, found = name, true
		}
		if err := r.compileTemplate(name, child); err != nil {
			return "", err
		}
		container.RemoveChild(child)
	}
	return first, nil
}

func (r *Renderer) compileTemplate(name string, tpl host.Node) error {
	r.mu.RLock()
	_, dup := r.templates[name]
	r.mu.RUnlock()
	if dup {
		return &DuplicateTemplateError{Name: name}
	}

	children, err := r.parser.ParseChildren(tpl)
	if err != nil {
		return err
	}
	children, err = expr.Annotate(children, r.model)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.templates[name] = children
	r.order = append(r.order, name)
	r.mu.Unlock()

	r.metrics.IncCompiled()
	r.logger.Debug("compiled template", "template", name, "children", len(children))
	return nil
}

// renderTemplate renders the named template against data without attaching
// the result.
func (r *Renderer) renderTemplate(name string, data any) ([]host.Node, error) {
	r.mu.RLock()
	children, ok := r.templates[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &LookupError{Kind: "template", Name: name}
	}

	var nodes []host.Node
	for _, child := range children {
		out, err := r.renderChild(child, data)
		if err != nil {
			r.discard(nodes)
			return nil, err
		}
		nodes = append(nodes, out...)
	}
	return nodes, nil
}

// Unmount cancels every subscription of node and its descendants and
// detaches node from its parent.
func (r *Renderer) Unmount(node host.Node) {
	r.unwatch(node, true)
}

// report handles an error raised by a reactive update.
func (r *Renderer) report(err error) {
	if err == nil {
		return
	}
	r.metrics.ObserveError(err)
	if r.opts.OnError != nil {
		r.opts.OnError(err)
		return
	}
	r.logger.Error("update failed", "err", err)
}

// =============================================================================
// Registries
// =============================================================================

func (r *Renderer) converter(call *expr.Call) (Converter, error) {
	c, ok := r.opts.As[call.Name]
	if !ok {
		return Converter{}, &LookupError{Kind: "converter", Name: call.Name}
	}
	return c, nil
}

func (r *Renderer) predicate(call *expr.Call) (Predicate, error) {
	p, ok := r.opts.If[call.Name]
	if !ok || p == nil {
		return nil, &LookupError{Kind: "predicate", Name: call.Name}
	}
	return p, nil
}

func (r *Renderer) handler(call *expr.Call) (Handler, error) {
	h, ok := r.opts.On[call.Name]
	if !ok || h == nil {
		return nil, &LookupError{Kind: "handler", Name: call.Name}
	}
	return h, nil
}

func (r *Renderer) model(name string) (expr.Model, error) {
	m, ok := r.opts.Is[name]
	if !ok {
		return nil, &LookupError{Kind: "model", Name: name}
	}
	return m, nil
}
