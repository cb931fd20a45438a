package dom

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/funa-dev/funa/pkg/host"
	"github.com/funa-dev/funa/pkg/reactive"
)

// stringProps are properties reflected to string attributes.
var stringProps = map[string]string{
	"id":          "id",
	"className":   "class",
	"title":       "title",
	"value":       "value",
	"name":        "name",
	"type":        "type",
	"href":        "href",
	"src":         "src",
	"alt":         "alt",
	"placeholder": "placeholder",
	"lang":        "lang",
	"htmlFor":     "for",
}

// booleanProps are properties reflected to boolean attributes, which are
// present when true and absent when false.
var booleanProps = map[string]string{
	"allowFullscreen": "allowfullscreen",
	"async":           "async",
	"autofocus":       "autofocus",
	"autoplay":        "autoplay",
	"checked":         "checked",
	"controls":        "controls",
	"default":         "default",
	"defer":           "defer",
	"disabled":        "disabled",
	"formNoValidate":  "formnovalidate",
	"hidden":          "hidden",
	"loop":            "loop",
	"multiple":        "multiple",
	"muted":           "muted",
	"noValidate":      "novalidate",
	"open":            "open",
	"readOnly":        "readonly",
	"required":        "required",
	"reversed":        "reversed",
	"selected":        "selected",
}

// Property implements host.Node.
func (n *Node) Property(name string) any {
	if attr, ok := stringProps[name]; ok {
		v, _ := n.Attribute(attr)
		return v
	}
	if attr, ok := booleanProps[name]; ok {
		_, present := n.Attribute(attr)
		return present
	}
	switch name {
	case "textContent":
		return n.TextContent()
	case "innerHTML":
		return n.InnerHTML()
	case "tagName":
		return strings.ToUpper(n.tag)
	}
	return n.props[name]
}

// SetProperty implements host.Node.
func (n *Node) SetProperty(name string, value any) {
	if attr, ok := stringProps[name]; ok {
		n.SetAttribute(attr, reactive.String(value))
		return
	}
	if attr, ok := booleanProps[name]; ok {
		if reactive.Truthy(value) {
			n.SetAttribute(attr, "")
		} else {
			n.RemoveAttribute(attr)
		}
		return
	}
	switch name {
	case "textContent":
		n.SetTextContent(reactive.String(value))
		return
	case "innerHTML":
		// Unparsable markup leaves the children untouched. Callers that
		// need the error use SetInnerHTML.
		_ = n.SetInnerHTML(reactive.String(value))
		return
	}
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = value
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.kind == host.TextNode {
		return n.data
	}
	var b strings.Builder
	n.walk(func(c *Node) bool {
		if c.kind == host.TextNode {
			b.WriteString(c.data)
		}
		return true
	})
	return b.String()
}

// SetTextContent replaces the children of n with one text node.
// An empty string leaves no children.
func (n *Node) SetTextContent(s string) {
	if n.kind == host.TextNode {
		n.data = s
		return
	}
	n.clearChildren()
	if s != "" {
		n.AppendChild(NewText(s))
	}
}

// SetInnerHTML replaces the children of n with the parsed fragment.
func (n *Node) SetInnerHTML(markup string) error {
	ctx := &html.Node{Type: html.ElementNode, Data: n.tag, Namespace: n.namespace}
	if n.tag == "" {
		ctx = &html.Node{Type: html.ElementNode, Data: "body"}
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return err
	}
	n.clearChildren()
	for _, hn := range nodes {
		n.AppendChild(fromHTML(hn))
	}
	return nil
}

func (n *Node) clearChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// walk visits the descendants of n depth-first in document order.
// Returning false from fn skips the subtree of that node.
func (n *Node) walk(fn func(*Node) bool) {
	for _, c := range n.children {
		if fn(c) {
			c.walk(fn)
		}
	}
}
