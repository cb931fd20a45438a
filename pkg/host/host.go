// Package host defines the capability surface the renderer consumes from the
// document tree it renders into.
//
// The renderer never owns the tree. It creates nodes through a Document,
// assigns attributes and properties, subscribes to events and moves nodes
// around through the Node interface. Any tree that satisfies these interfaces
// can be rendered into; package dom provides one backed by golang.org/x/net/html.
package host

// NodeKind is the node type discriminator.
type NodeKind uint8

const (
	ElementNode NodeKind = iota + 1 // <div>, <p>, etc.
	TextNode                        // Character data
	OtherNode                       // Comments, doctypes, documents
)

// String returns the string representation of the NodeKind.
func (k NodeKind) String() string {
	switch k {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case OtherNode:
		return "Other"
	default:
		return "Unknown"
	}
}

// Attribute is a single name/value pair of an element.
type Attribute struct {
	Name  string
	Value string
}

// Event is delivered to listeners registered with AddEventListener.
type Event struct {
	// Type is the event name ("click", "change", ...).
	Type string

	// Target is the node the event was dispatched on.
	Target Node

	// Detail carries host specific payload, if any.
	Detail any
}

// Listener handles one dispatched event. A returned error aborts dispatch
// and is reported to whoever dispatched the event.
type Listener func(Event) error

// Node is a node of the host tree.
type Node interface {
	// Kind reports whether the node is an element, a text node or something else.
	Kind() NodeKind

	// Tag returns the element tag name. Empty for non-elements.
	Tag() string

	// IsTemplate reports whether the node is a template declaration container.
	IsTemplate() bool

	// Parent returns the parent node or nil when detached.
	Parent() Node

	// Children returns a snapshot of the child nodes.
	Children() []Node

	// Attributes returns a snapshot of the element attributes in document order.
	Attributes() []Attribute

	// Attribute returns the value of the named attribute.
	Attribute(name string) (string, bool)

	// SetAttribute sets the named attribute.
	SetAttribute(name, value string)

	// Property returns the named property. Unknown properties are nil.
	Property(name string) any

	// SetProperty sets the named property.
	SetProperty(name string, value any)

	// Text returns the character data of a text node.
	Text() string

	// SetText replaces the character data of a text node.
	SetText(data string)

	// AddEventListener subscribes fn to the named event.
	AddEventListener(event string, fn Listener)

	// InsertBefore inserts child before ref. A nil ref appends.
	// A child that is already attached somewhere is moved.
	InsertBefore(child, ref Node)

	// AppendChild appends child as the last child.
	AppendChild(child Node)

	// RemoveChild detaches child from this node.
	RemoveChild(child Node)

	// Clone returns a deep copy of the node without listeners.
	Clone() Node

	// Data returns the companion value stored under key.
	Data(key any) any

	// SetData stores a companion value under key. A nil value clears it.
	// Companion values live exactly as long as the node.
	SetData(key, value any)
}

// Document creates nodes and exposes the default render container.
type Document interface {
	CreateElement(tag string) Node
	CreateText(data string) Node

	// Body returns the default container for rendering.
	Body() Node
}
