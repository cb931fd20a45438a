package dom

import (
	"strings"

	"github.com/funa-dev/funa/pkg/host"
)

// GetElementByID returns the first descendant element with the given id.
func (n *Node) GetElementByID(id string) *Node {
	var found *Node
	n.walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if v, ok := c.Attribute("id"); ok && v == id && c.tag != "" {
			found = c
			return false
		}
		return true
	})
	return found
}

// QuerySelectorAll returns the descendant elements with the given tag name,
// in document order. Only tag selectors are supported.
func (n *Node) QuerySelectorAll(tag string) []*Node {
	tag = strings.ToLower(tag)
	var out []*Node
	n.walk(func(c *Node) bool {
		if c.tag == tag {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Path returns the element-child indexes leading from n to target.
// Text and comment nodes are not counted, so paths match the element
// structure a browser rebuilds from the serialized document.
func (n *Node) Path(target *Node) ([]int, bool) {
	var rev []int
	for cur := target; cur != n; cur = cur.parent {
		if cur == nil || cur.parent == nil || cur.kind != host.ElementNode {
			return nil, false
		}
		rev = append(rev, cur.parent.elementIndex(cur))
	}
	path := make([]int, len(rev))
	for i, idx := range rev {
		path[len(rev)-1-i] = idx
	}
	return path, true
}

// NodeAt follows element-child indexes from n. It returns nil when an index
// is out of range.
func (n *Node) NodeAt(path []int) *Node {
	cur := n
	for _, i := range path {
		elems := cur.elementChildren()
		if i < 0 || i >= len(elems) {
			return nil
		}
		cur = elems[i]
	}
	return cur
}

func (n *Node) elementChildren() []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.kind == host.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func (n *Node) elementIndex(c *Node) int {
	i := 0
	for _, x := range n.children {
		if x == c {
			return i
		}
		if x.kind == host.ElementNode {
			i++
		}
	}
	return -1
}
