package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/funa-dev/funa/pkg/host"
)

// Document is a parsed HTML document.
type Document struct {
	root *Node
}

var _ host.Document = (*Document)(nil)

// New returns an empty document with html, head and body elements.
func New() *Document {
	doc, err := ParseString("")
	if err != nil {
		// Parsing the empty string cannot fail.
		panic(err)
	}
	return doc
}

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	hn, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: fromHTML(hn)}, nil
}

// ParseString parses an HTML document from s.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document node.
func (d *Document) Root() *Node { return d.root }

// CreateElement implements host.Document.
func (d *Document) CreateElement(tag string) host.Node { return NewElement(tag) }

// CreateText implements host.Document.
func (d *Document) CreateText(data string) host.Node { return NewText(data) }

// Body implements host.Document.
func (d *Document) Body() host.Node { return d.BodyNode() }

// BodyNode returns the body element.
func (d *Document) BodyNode() *Node {
	if body := d.find("body"); body != nil {
		return body
	}
	return d.root
}

// Head returns the head element, or nil.
func (d *Document) Head() *Node { return d.find("head") }

// GetElementByID searches the whole document.
func (d *Document) GetElementByID(id string) *Node {
	return d.root.GetElementByID(id)
}

func (d *Document) find(tag string) *Node {
	if all := d.root.QuerySelectorAll(tag); len(all) > 0 {
		return all[0]
	}
	return nil
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, toHTML(d.root))
}

// String returns the document as HTML.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// OuterHTML returns n serialized as HTML.
func (n *Node) OuterHTML() string {
	var buf bytes.Buffer
	if err := html.Render(&buf, toHTML(n)); err != nil {
		return ""
	}
	return buf.String()
}

// InnerHTML returns the children of n serialized as HTML.
func (n *Node) InnerHTML() string {
	var buf bytes.Buffer
	parent := toHTML(n)
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}

// =============================================================================
// Conversion
// =============================================================================

// fromHTML converts a parsed tree.
func fromHTML(hn *html.Node) *Node {
	n := &Node{htmlType: hn.Type, data: hn.Data, namespace: hn.Namespace}
	switch hn.Type {
	case html.ElementNode:
		n.kind = host.ElementNode
		n.tag = hn.Data
		n.data = ""
		for _, a := range hn.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			n.attrs = append(n.attrs, host.Attribute{Name: name, Value: a.Val})
		}
	case html.TextNode:
		n.kind = host.TextNode
	default:
		n.kind = host.OtherNode
	}
	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		child := fromHTML(c)
		child.parent = n
		n.children = append(n.children, child)
	}
	return n
}

// toHTML converts n into a detached html.Node tree for rendering.
func toHTML(n *Node) *html.Node {
	hn := &html.Node{Type: n.htmlType, Data: n.data, Namespace: n.namespace}
	if n.kind == host.ElementNode {
		hn.Data = n.tag
		hn.DataAtom = atom.Lookup([]byte(n.tag))
		for _, a := range n.attrs {
			hn.Attr = append(hn.Attr, html.Attribute{Key: a.Name, Val: a.Value})
		}
	}
	for _, c := range n.children {
		hn.AppendChild(toHTML(c))
	}
	return hn
}
