package render

import (
	"github.com/funa-dev/funa/pkg/host"
	"github.com/funa-dev/funa/pkg/reactive"
)

// bindingsKey is the companion slot holding the cancel functions of a node.
type bindingsKey struct{}

type bindings struct {
	cancels []func()
}

// bind attaches cancel to n. It runs when n or an ancestor is unmounted.
func (r *Renderer) bind(n host.Node, cancel func()) {
	b, _ := n.Data(bindingsKey{}).(*bindings)
	if b == nil {
		b = &bindings{}
		n.SetData(bindingsKey{}, b)
	}
	b.cancels = append(b.cancels, cancel)
}

// unwatch cancels the bindings of n and its descendants, and detaches n
// from its parent when detach is set.
func (r *Renderer) unwatch(n host.Node, detach bool) {
	if n.Kind() == host.ElementNode {
		for _, c := range n.Children() {
			r.unwatch(c, false)
		}
	}
	if b, ok := n.Data(bindingsKey{}).(*bindings); ok {
		n.SetData(bindingsKey{}, nil)
		for _, cancel := range b.cancels {
			cancel()
		}
	}
	if detach {
		if p := n.Parent(); p != nil {
			p.RemoveChild(n)
		}
	}
}

// discard unwatches and detaches nodes that were rendered but will not be
// used.
func (r *Renderer) discard(nodes []host.Node) {
	for _, n := range nodes {
		r.unwatch(n, true)
	}
}

// link is one registered listener of a deep watch.
type link struct {
	target reactive.Target
	prop   string
	l      reactive.Listener
}

// deepWatch keeps callback subscribed to the value at path under data.
type deepWatch struct {
	r         *Renderer
	data      any
	path      []string
	callback  func() error
	links     []link
	cancelled bool
}

// watch subscribes callback to every object along path. When an
// intermediate object is replaced, the rest of the path is re-subscribed
// on the new object before callback runs. The returned function cancels
// all subscriptions and may be called more than once.
//
// Every object along the path must be observable when watch is called.
func (r *Renderer) watch(data any, path []string, callback func() error) (func(), error) {
	w := &deepWatch{
		r:        r,
		data:     data,
		path:     path,
		callback: callback,
		links:    make([]link, len(path)),
	}
	if err := w.observe(0); err != nil {
		w.cancel()
		return nil, err
	}
	return w.cancel, nil
}

// observe subscribes levels k and deeper.
func (w *deepWatch) observe(k int) error {
	for ; k < len(w.path); k++ {
		prop := w.path[k]
		target, ok := reactive.Resolve(w.data, w.path[:k]).(reactive.Target)
		if !ok {
			return &reactive.NotObservableError{Target: reactive.Resolve(w.data, w.path[:k]), Property: prop}
		}

		var l reactive.Listener
		if k == len(w.path)-1 {
			l = reactive.Func(w.fire)
		} else {
			next := k + 1
			l = reactive.Func(func() { w.rebind(next) })
		}
		if err := target.Listen(prop, l); err != nil {
			return err
		}
		w.links[k] = link{target: target, prop: prop, l: l}
	}
	return nil
}

// unlink removes the listeners of levels k and deeper.
func (w *deepWatch) unlink(k int) {
	for i := k; i < len(w.links); i++ {
		if lk := w.links[i]; lk.target != nil {
			lk.target.Remove(lk.prop, lk.l)
		}
		w.links[i] = link{}
	}
}

func (w *deepWatch) fire() {
	if w.cancelled {
		return
	}
	w.r.report(w.callback())
}

// rebind re-subscribes from level k after the object at level k changed.
// A new object that cannot be observed ends the chain there; callback
// still runs so the dependent node shows the new value.
func (w *deepWatch) rebind(k int) {
	if w.cancelled {
		return
	}
	w.unlink(k)
	if err := w.observe(k); err != nil {
		w.r.logger.Warn("deep watch chain broken", "path", w.path, "err", err)
	}
	w.fire()
}

func (w *deepWatch) cancel() {
	if w.cancelled {
		return
	}
	w.cancelled = true
	w.unlink(0)
}
