// Package dom is an in-memory document tree that satisfies the host
// capability consumed by the renderer.
//
// Documents are parsed and serialized with golang.org/x/net/html. Between
// the two, the tree behaves like a small browser DOM: nodes can be created,
// moved and cloned, properties reflect to attributes, and events are
// dispatched synchronously to registered listeners.
//
// # Basic Usage
//
//	doc, err := dom.ParseString(`<body><template id="main"><p>{msg}</p></template></body>`)
//	...
//	fmt.Println(doc.Body().InnerHTML())
//
// # Properties
//
// The following properties reflect to attributes:
//
//   - id, title, value, name, type, href, src, placeholder (string)
//   - className (the "class" attribute)
//   - hidden, checked, disabled, selected, readOnly, required and the other
//     boolean attributes (present or absent)
//
// textContent replaces the children with a single text node and innerHTML
// parses an HTML fragment. Any other property is stored on the node and
// never serialized.
//
// # Events
//
// Dispatch runs the listeners of the target and then of each ancestor, in
// registration order, and stops at the first error. Click toggles checkbox
// and radio inputs the way a browser does before dispatching.
//
// A Document is not safe for concurrent use.
package dom
