package render

import (
	"fmt"
	"strings"

	"github.com/funa-dev/funa/pkg/expr"
	"github.com/funa-dev/funa/pkg/host"
	"github.com/funa-dev/funa/pkg/reactive"
)

// renderChild renders one compiled child against data. The returned nodes
// are not attached; the caller inserts them.
func (r *Renderer) renderChild(child expr.Child, data any) ([]host.Node, error) {
	switch c := child.(type) {
	case expr.Verbatim:
		return []host.Node{c.Node.Clone()}, nil
	case *expr.Element:
		return r.renderElement(c, data)
	case expr.Segment:
		n, err := r.renderText(c, data)
		if err != nil {
			return nil, err
		}
		return []host.Node{n}, nil
	default:
		return nil, nil
	}
}

// renderElement renders an element. Elements with a live data source are
// delimited by two empty text markers so they can be replaced in place,
// even when they currently render nothing.
func (r *Renderer) renderElement(node *expr.Element, data any) ([]host.Node, error) {
	src := node.Binding.Source
	if !live(src) {
		return r.renderBound(node, data)
	}

	start, end := r.doc.CreateText(""), r.doc.CreateText("")
	content, err := r.renderBound(node, data)
	if err != nil {
		return nil, err
	}

	cancel, err := r.watch(data, src.Path, func() error {
		return r.replace(node, data, start, end)
	})
	if err != nil {
		r.discard(content)
		return nil, err
	}
	r.bind(start, cancel)

	nodes := make([]host.Node, 0, len(content)+2)
	nodes = append(nodes, start)
	nodes = append(nodes, content...)
	return append(nodes, end), nil
}

// replace re-renders a live source element between its markers.
func (r *Renderer) replace(node *expr.Element, data any, start, end host.Node) error {
	parent := start.Parent()
	if parent == nil {
		return nil
	}
	fresh, err := r.renderBound(node, data)
	if err != nil {
		return err
	}
	old := between(parent, start, end)
	for _, n := range fresh {
		parent.InsertBefore(n, end)
	}
	r.discard(old)
	r.metrics.IncUpdate("element")
	return nil
}

// between returns the children of parent strictly between start and end.
// A nil end means the last child.
func between(parent, start, end host.Node) []host.Node {
	var out []host.Node
	inside := false
	for _, c := range parent.Children() {
		switch {
		case c == start:
			inside = true
		case end != nil && c == end:
			return out
		case inside:
			out = append(out, c)
		}
	}
	return out
}

// renderBound evaluates the element's source, condition and template
// switch, then builds the element: attributes, children or list items,
// handlers. A false condition renders nothing.
func (r *Renderer) renderBound(node *expr.Element, data any) ([]host.Node, error) {
	b := node.Binding
	if b.Source != nil {
		data = resolve(data, b.Source)
	}

	if b.Condition != nil {
		ok, err := r.test(b.Condition.Test, data)
		if err != nil {
			return nil, err
		}
		if ok == b.Condition.Negate {
			return nil, nil
		}
	}

	if b.Template != nil {
		return r.renderTemplate(b.Template.Name, data)
	}

	el := r.doc.CreateElement(node.Tag)
	if err := r.build(el, node, data); err != nil {
		r.unwatch(el, false)
		return nil, err
	}
	return []host.Node{el}, nil
}

func (r *Renderer) build(el host.Node, node *expr.Element, data any) error {
	for i := range node.Attributes {
		attr := &node.Attributes[i]
		var err error
		if attr.TwoWay != nil {
			err = r.bindTwoWay(el, attr, data)
		} else {
			err = r.applyAttribute(el, attr, data)
		}
		if err != nil {
			return err
		}
	}

	if arr, ok := data.(*reactive.Array); ok {
		cancel, err := r.renderList(el, node, arr)
		if err != nil {
			return err
		}
		r.bind(el, cancel)
	} else {
		for _, child := range node.Children {
			nodes, err := r.renderChild(child, data)
			if err != nil {
				return err
			}
			for _, n := range nodes {
				el.AppendChild(n)
			}
		}
	}

	return r.wireHandlers(el, node.Binding.Events, data)
}

// test evaluates a condition. A bare name is a dotted data path tested for
// truthiness; a call runs the named predicate.
func (r *Renderer) test(call *expr.Call, data any) (bool, error) {
	if call.Bare {
		return reactive.Truthy(reactive.Resolve(data, strings.Split(call.Name, "."))), nil
	}
	p, err := r.predicate(call)
	if err != nil {
		return false, err
	}
	return p(data, call.Args...)
}

// wireHandlers subscribes event handlers, then runs mount handlers in
// declaration order.
func (r *Renderer) wireHandlers(el host.Node, events []expr.Event, data any) error {
	type mount struct {
		fn   Handler
		args []any
	}
	var mounts []mount

	for _, ev := range events {
		fn, err := r.handler(ev.Handler)
		if err != nil {
			return err
		}
		args := ev.Handler.Args
		if ev.IsMount() {
			mounts = append(mounts, mount{fn: fn, args: args})
			continue
		}
		name := ev.Event
		el.AddEventListener(name, func(e host.Event) error {
			err := fn(HandlerEvent{Data: data, Sender: el, Event: &e, Args: args})
			r.metrics.ObserveEvent(name, err)
			return err
		})
	}

	for _, m := range mounts {
		err := m.fn(HandlerEvent{Data: data, Sender: el, Args: m.args})
		r.metrics.ObserveEvent("", err)
		if err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Text and attributes
// =============================================================================

// renderText renders a text segment, live when its source is.
func (r *Renderer) renderText(seg expr.Segment, data any) (host.Node, error) {
	n := r.doc.CreateText("")
	run := func() error {
		v, err := r.evaluate(seg, data)
		if err != nil {
			return err
		}
		n.SetText(reactive.String(v))
		return nil
	}
	if err := run(); err != nil {
		return nil, err
	}

	if live(seg.Source) {
		cancel, err := r.watch(data, seg.Source.Path, func() error {
			r.metrics.IncUpdate("text")
			return run()
		})
		if err != nil {
			return nil, err
		}
		r.bind(n, cancel)
	}
	return n, nil
}

// applyAttribute assigns an attribute or property and keeps it current for
// every live segment. A single segment keeps its value type, which matters
// for properties; several segments are concatenated as text.
func (r *Renderer) applyAttribute(el host.Node, attr *expr.Attribute, data any) error {
	run := func() error {
		var value any
		if len(attr.Segments) == 1 {
			v, err := r.evaluate(attr.Segments[0], data)
			if err != nil {
				return err
			}
			value = v
		} else {
			var b strings.Builder
			for _, seg := range attr.Segments {
				v, err := r.evaluate(seg, data)
				if err != nil {
					return err
				}
				b.WriteString(reactive.String(v))
			}
			value = b.String()
		}
		return r.assign(el, attr, value)
	}
	if err := run(); err != nil {
		return err
	}

	for _, seg := range attr.Segments {
		if !live(seg.Source) {
			continue
		}
		cancel, err := r.watch(data, seg.Source.Path, func() error {
			r.metrics.IncUpdate("attribute")
			return run()
		})
		if err != nil {
			return err
		}
		r.bind(el, cancel)
	}
	return nil
}

// bindTwoWay wires a two-way binding: the host event writes the host value
// back into data, and changes to data are written to the host.
func (r *Renderer) bindTwoWay(el host.Node, attr *expr.Attribute, data any) error {
	tw := attr.TwoWay
	if tw.Source.IsCurrent() {
		return &UnsupportedBindingError{Path: tw.Source.Path, Reason: "the current data node cannot be replaced"}
	}
	if len(tw.Source.Path) > 1 {
		return &UnsupportedBindingError{Path: tw.Source.Path, Reason: "nested paths cannot be written back"}
	}
	target, ok := data.(interface{ Set(name string, value any) })
	if !ok {
		return &UnsupportedBindingError{Path: tw.Source.Path, Reason: "data is not a writable object"}
	}

	var revert func(data, value any, args ...any) (any, error)
	if tw.Format != nil {
		c, err := r.converter(tw.Format)
		if err != nil {
			return err
		}
		if c.Revert == nil {
			return &LookupError{Kind: "converter", Name: tw.Format.Name, Detail: "revert is not defined"}
		}
		revert = c.Revert
	}
	pre, err := r.optionalHandler(tw.Pre)
	if err != nil {
		return err
	}
	post, err := r.optionalHandler(tw.Post)
	if err != nil {
		return err
	}

	el.AddEventListener(tw.Event, func(e host.Event) error {
		if pre != nil {
			if err := pre(HandlerEvent{Data: data, Sender: el, Event: &e, Args: tw.Pre.Args}); err != nil {
				return err
			}
		}

		var value any
		if attr.IsProperty {
			value = el.Property(attr.Name)
		} else {
			value, _ = el.Attribute(attr.Name)
		}
		if revert != nil {
			v, err := revert(data, value, tw.Format.Args...)
			if err != nil {
				return err
			}
			value = v
		}
		target.Set(tw.Source.Property, value)

		if post != nil {
			return post(HandlerEvent{Data: data, Sender: el, Event: &e, Args: tw.Post.Args})
		}
		return nil
	})

	seg := expr.Segment{Source: tw.Source, Format: tw.Format}
	run := func() error {
		v, err := r.evaluate(seg, data)
		if err != nil {
			return err
		}
		return r.assign(el, attr, v)
	}
	if err := run(); err != nil {
		return err
	}

	cancel, err := r.watch(data, tw.Source.Path, func() error {
		r.metrics.IncUpdate("bind")
		return run()
	})
	if err != nil {
		return err
	}
	r.bind(el, cancel)
	return nil
}

func (r *Renderer) optionalHandler(call *expr.Call) (Handler, error) {
	if call == nil {
		return nil, nil
	}
	return r.handler(call)
}

// evaluate returns the value of a segment, formatted by its converter.
func (r *Renderer) evaluate(seg expr.Segment, data any) (any, error) {
	if seg.Source == nil {
		return seg.Literal, nil
	}
	v := resolve(data, seg.Source)
	if seg.Format == nil {
		return v, nil
	}
	c, err := r.converter(seg.Format)
	if err != nil {
		return nil, err
	}
	if c.Convert == nil {
		return nil, &LookupError{Kind: "converter", Name: seg.Format.Name, Detail: "convert is not defined"}
	}
	return c.Convert(data, v, seg.Format.Args...)
}

// live reports whether src must be watched. The current data node has no
// property to watch.
func live(src *expr.Source) bool {
	return src != nil && src.Live && !src.IsCurrent()
}

// resolve reads a source from data. "?" is data itself.
func resolve(data any, src *expr.Source) any {
	if src.IsCurrent() {
		return data
	}
	return reactive.Resolve(data, src.Path)
}

// fragmentSetter is implemented by hosts that report unparsable markup.
type fragmentSetter interface {
	SetInnerHTML(markup string) error
}

// assign writes value to the element as a property or attribute. Writing
// textContent or innerHTML replaces the children, so their bindings are
// cancelled once they are gone.
func (r *Renderer) assign(el host.Node, attr *expr.Attribute, value any) error {
	if !attr.IsProperty {
		el.SetAttribute(attr.Name, reactive.String(value))
		return nil
	}

	switch attr.Name {
	case "textContent", "innerHTML":
	default:
		el.SetProperty(attr.Name, value)
		return nil
	}

	old := el.Children()
	if fs, ok := el.(fragmentSetter); ok && attr.Name == "innerHTML" {
		if err := fs.SetInnerHTML(reactive.String(value)); err != nil {
			return fmt.Errorf("set innerHTML: %w", err)
		}
	} else {
		el.SetProperty(attr.Name, value)
	}
	for _, c := range old {
		r.unwatch(c, false)
	}
	return nil
}
