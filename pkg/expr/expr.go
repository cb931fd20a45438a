package expr

import (
	"strings"

	"github.com/funa-dev/funa/pkg/host"
)

// CurrentProperty is the property name of a source that refers to the
// current data node itself ("{?}").
const CurrentProperty = "?"

// Source is a dotted access path into data.
type Source struct {
	// Live reports whether changes along the path must be tracked.
	// When false the path is read once.
	Live bool

	// Property is the last path segment.
	Property string

	// Path holds every segment, Property included.
	Path []string
}

// IsCurrent reports whether the source refers to the current data node.
func (s *Source) IsCurrent() bool {
	return s.Property == CurrentProperty
}

// String returns the dotted path.
func (s *Source) String() string {
	return strings.Join(s.Path, ".")
}

// Call references a named callback with optional literal arguments.
type Call struct {
	Name string

	// Args are string, float64 or nil. An empty slot in the argument list
	// yields nil.
	Args []any

	// Bare reports that the name was written without parentheses.
	Bare bool
}

// TemplateRef names a template spliced in place of the element.
type TemplateRef struct {
	Name string
}

// Condition controls whether an element renders at all.
type Condition struct {
	Negate bool
	Test   *Call
}

// ModelRef names a model metadata record.
type ModelRef struct {
	Name string
}

// Event binds a handler to a host event. An empty Event runs the handler
// once when the element is mounted.
type Event struct {
	Event   string
	Handler *Call
}

// IsMount reports whether the handler runs at mount instead of on an event.
func (e Event) IsMount() bool {
	return e.Event == ""
}

// TwoWay binds a host property or attribute to a data property in both
// directions.
type TwoWay struct {
	// Event is the host event that triggers the write back.
	Event  string
	Source *Source

	// Format converts data to host and reverts host to data.
	Format *Call

	// Pre and Post run before and after the write back.
	Pre  *Call
	Post *Call
}

// Segment is one run of interpolated text: either a literal or a source
// with an optional format.
type Segment struct {
	Literal string
	Source  *Source
	Format  *Call
}

// IsLiteral reports whether the segment is plain text.
func (s Segment) IsLiteral() bool {
	return s.Source == nil
}

// Attribute assigns an attribute or property of the rendered element.
// Exactly one of Segments and TwoWay is used.
type Attribute struct {
	// IsProperty selects a host property instead of an attribute.
	IsProperty bool
	Name       string
	Segments   []Segment
	TwoWay     *TwoWay
}

// Binding collects the element level declarations.
type Binding struct {
	Source    *Source
	Template  *TemplateRef
	Condition *Condition
	Model     *ModelRef
	Events    []Event
}

// Element is a compiled element.
type Element struct {
	Tag        string
	Binding    Binding
	Attributes []Attribute
	Children   []Child
}

// Verbatim is a host node that is cloned instead of interpreted.
type Verbatim struct {
	Node host.Node
}

// Child is one of *Element, Segment or Verbatim.
type Child interface {
	isChild()
}

func (*Element) isChild() {}
func (Segment) isChild()  {}
func (Verbatim) isChild() {}
