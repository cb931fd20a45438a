package render

import (
	"sort"

	"github.com/funa-dev/funa/pkg/expr"
	"github.com/funa-dev/funa/pkg/host"
	"github.com/funa-dev/funa/pkg/reactive"
)

// list keeps the children of a list element in step with an array.
//
// Every item renders as a group: an empty text marker followed by the
// nodes of the element's children rendered against the item. markers[i]
// starts the group of item i, so an item whose children render nothing
// still has a position.
type list struct {
	r        *Renderer
	parent   host.Node
	children []expr.Child
	markers  []host.Node
	closed   bool
}

// renderList renders one group per item of arr into el and subscribes to
// arr. The returned function unsubscribes.
func (r *Renderer) renderList(el host.Node, node *expr.Element, arr *reactive.Array) (func(), error) {
	l := &list{r: r, parent: el, children: node.Children}
	if err := l.insert(0, arr.Items()); err != nil {
		return nil, err
	}

	listener := reactive.NewArrayListener(
		func(e reactive.Insert) { l.inserted(e) },
		func(e reactive.Removal) { l.removed(e) },
		func(m []reactive.Move) { l.moved(m) },
	)
	arr.ListenItems(listener)

	return func() {
		if l.closed {
			return
		}
		l.closed = true
		arr.RemoveItems(listener)
	}, nil
}

func (l *list) inserted(e reactive.Insert) {
	if l.closed {
		return
	}
	l.r.metrics.AddListOps("insert", len(e.Items))
	l.r.report(l.insert(e.Index, e.Items))
}

func (l *list) removed(e reactive.Removal) {
	if l.closed {
		return
	}
	l.r.metrics.AddListOps("remove", len(e.Items))
	l.remove(e.Index, len(e.Items))
}

func (l *list) moved(moves []reactive.Move) {
	if l.closed {
		return
	}
	l.r.metrics.AddListOps("move", len(moves))
	l.move(moves)
}

// insert renders items as groups placed before the group now at index.
// A group that fails to render keeps its marker so positions stay aligned.
func (l *list) insert(index int, items []any) error {
	var ref host.Node
	if index < len(l.markers) {
		ref = l.markers[index]
	}

	added := make([]host.Node, 0, len(items))
	var first error
	for _, item := range items {
		marker := l.r.doc.CreateText("")
		l.parent.InsertBefore(marker, ref)
		added = append(added, marker)

		nodes, err := l.render(item)
		if err != nil {
			if first == nil {
				first = err
			}
			continue
		}
		for _, n := range nodes {
			l.parent.InsertBefore(n, ref)
		}
	}

	markers := make([]host.Node, 0, len(l.markers)+len(added))
	markers = append(markers, l.markers[:index]...)
	markers = append(markers, added...)
	l.markers = append(markers, l.markers[index:]...)
	return first
}

func (l *list) render(item any) ([]host.Node, error) {
	var nodes []host.Node
	for _, child := range l.children {
		out, err := l.r.renderChild(child, item)
		if err != nil {
			l.r.discard(nodes)
			return nil, err
		}
		nodes = append(nodes, out...)
	}
	return nodes, nil
}

// remove unmounts count groups starting at index.
func (l *list) remove(index, count int) {
	if index+count > len(l.markers) {
		count = len(l.markers) - index
	}
	if count <= 0 {
		return
	}
	for i := index; i < index+count; i++ {
		l.r.discard(l.group(i))
	}
	l.markers = append(l.markers[:index], l.markers[index+count:]...)
}

// move relocates groups without re-rendering them. Groups are placed in
// descending target order so every reference node is already in its final
// position.
func (l *list) move(moves []reactive.Move) {
	groups := make(map[int][]host.Node, len(moves))
	for _, m := range moves {
		groups[m.Before] = l.group(m.Before)
	}
	l.markers = reactive.Permute(l.markers, moves)

	ordered := append([]reactive.Move(nil), moves...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].After > ordered[j].After })
	for _, m := range ordered {
		var ref host.Node
		if m.After+1 < len(l.markers) {
			ref = l.markers[m.After+1]
		}
		for _, n := range groups[m.Before] {
			l.parent.InsertBefore(n, ref)
		}
	}
}

// group returns the marker of item i and the nodes that follow it up to
// the next marker.
func (l *list) group(i int) []host.Node {
	var end host.Node
	if i+1 < len(l.markers) {
		end = l.markers[i+1]
	}
	return append([]host.Node{l.markers[i]}, between(l.parent, l.markers[i], end)...)
}
