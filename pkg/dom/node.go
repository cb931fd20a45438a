package dom

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/funa-dev/funa/pkg/host"
)

// Node is a node of a Document.
type Node struct {
	kind      host.NodeKind
	htmlType  html.NodeType
	tag       string
	namespace string
	data      string
	attrs     []host.Attribute

	parent   *Node
	children []*Node

	props     map[string]any
	listeners map[string][]host.Listener
	companion map[any]any
}

var _ host.Node = (*Node)(nil)

// NewElement creates a detached element. The tag is lower-cased.
func NewElement(tag string) *Node {
	return &Node{kind: host.ElementNode, htmlType: html.ElementNode, tag: strings.ToLower(tag)}
}

// NewText creates a detached text node.
func NewText(data string) *Node {
	return &Node{kind: host.TextNode, htmlType: html.TextNode, data: data}
}

// Kind implements host.Node.
func (n *Node) Kind() host.NodeKind { return n.kind }

// Tag implements host.Node.
func (n *Node) Tag() string { return n.tag }

// IsTemplate implements host.Node.
func (n *Node) IsTemplate() bool {
	return n.kind == host.ElementNode && n.tag == "template" && n.namespace == ""
}

// Parent implements host.Node.
func (n *Node) Parent() host.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// ParentNode returns the parent as a *Node, or nil.
func (n *Node) ParentNode() *Node { return n.parent }

// Children implements host.Node.
func (n *Node) Children() []host.Node {
	out := make([]host.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// ChildNodes returns a snapshot of the children as *Node values.
func (n *Node) ChildNodes() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Attributes implements host.Node.
func (n *Node) Attributes() []host.Attribute {
	out := make([]host.Attribute, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// Attribute implements host.Node.
func (n *Node) Attribute(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttribute implements host.Node.
func (n *Node) SetAttribute(name, value string) {
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, host.Attribute{Name: name, Value: value})
}

// RemoveAttribute deletes the named attribute if present.
func (n *Node) RemoveAttribute(name string) {
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs = append(n.attrs[:i:i], n.attrs[i+1:]...)
			return
		}
	}
}

// Text implements host.Node.
func (n *Node) Text() string { return n.data }

// SetText implements host.Node.
func (n *Node) SetText(data string) { n.data = data }

// InsertBefore implements host.Node. ref must be a child of n or nil;
// an unknown ref appends.
func (n *Node) InsertBefore(child, ref host.Node) {
	c, ok := child.(*Node)
	if !ok || c == nil {
		return
	}
	if c == ref {
		return
	}
	if c.parent != nil {
		c.parent.removeChild(c)
	}
	i := n.indexOf(ref)
	if i < 0 {
		n.children = append(n.children, c)
	} else {
		n.children = append(n.children, nil)
		copy(n.children[i+1:], n.children[i:])
		n.children[i] = c
	}
	c.parent = n
}

// AppendChild implements host.Node.
func (n *Node) AppendChild(child host.Node) {
	n.InsertBefore(child, nil)
}

// RemoveChild implements host.Node.
func (n *Node) RemoveChild(child host.Node) {
	if c, ok := child.(*Node); ok && c != nil && c.parent == n {
		n.removeChild(c)
	}
}

func (n *Node) removeChild(c *Node) {
	for i, x := range n.children {
		if x == c {
			n.children = append(n.children[:i:i], n.children[i+1:]...)
			break
		}
	}
	c.parent = nil
}

func (n *Node) indexOf(ref host.Node) int {
	r, ok := ref.(*Node)
	if !ok || r == nil {
		return -1
	}
	for i, x := range n.children {
		if x == r {
			return i
		}
	}
	return -1
}

// Clone implements host.Node. Attributes and children are copied;
// listeners, properties and companion data are not.
func (n *Node) Clone() host.Node {
	return n.clone()
}

func (n *Node) clone() *Node {
	cp := &Node{
		kind:      n.kind,
		htmlType:  n.htmlType,
		tag:       n.tag,
		namespace: n.namespace,
		data:      n.data,
		attrs:     append([]host.Attribute(nil), n.attrs...),
	}
	for _, c := range n.children {
		cc := c.clone()
		cc.parent = cp
		cp.children = append(cp.children, cc)
	}
	return cp
}

// Data implements host.Node.
func (n *Node) Data(key any) any {
	return n.companion[key]
}

// SetData implements host.Node.
func (n *Node) SetData(key, value any) {
	if value == nil {
		delete(n.companion, key)
		return
	}
	if n.companion == nil {
		n.companion = make(map[any]any)
	}
	n.companion[key] = value
}
