package expr

import (
	"strings"

	"github.com/funa-dev/funa/pkg/host"
)

// DefaultBypassTags are never compiled.
var DefaultBypassTags = []string{"template", "pre", "code"}

// Parser compiles host elements into expression trees.
// A Parser has no mutable state and is safe for concurrent use.
type Parser struct {
	bypass map[string]bool
}

// NewParser creates a Parser that bypasses the default tags plus extra.
// Tag names are case-insensitive.
func NewParser(extra ...string) *Parser {
	p := &Parser{bypass: make(map[string]bool, len(DefaultBypassTags)+len(extra))}
	for _, tag := range DefaultBypassTags {
		p.bypass[tag] = true
	}
	for _, tag := range extra {
		if tag = strings.TrimSpace(tag); tag != "" {
			p.bypass[strings.ToLower(tag)] = true
		}
	}
	return p
}

// Bypassed reports whether elements with tag are cloned verbatim.
func (p *Parser) Bypassed(tag string) bool {
	return p.bypass[strings.ToLower(tag)]
}

// =============================================================================
// Elements
// =============================================================================

// ParseElement compiles node. Bypassed elements compile to Verbatim.
func (p *Parser) ParseElement(node host.Node) (Child, error) {
	if p.Bypassed(node.Tag()) {
		return Verbatim{Node: node}, nil
	}

	el := &Element{Tag: node.Tag()}
	for _, attr := range node.Attributes() {
		if err := p.parseDeclaration(el, attr.Name, attr.Value); err != nil {
			return nil, err
		}
	}

	children, err := p.ParseChildren(node)
	if err != nil {
		return nil, err
	}
	el.Children = children
	return el, nil
}

// ParseChildren compiles the element and text children of node.
// Other node kinds, such as comments, are dropped.
func (p *Parser) ParseChildren(node host.Node) ([]Child, error) {
	var children []Child
	for _, child := range node.Children() {
		switch child.Kind() {
		case host.ElementNode:
			c, err := p.ParseElement(child)
			if err != nil {
				return nil, err
			}
			children = append(children, c)
		case host.TextNode:
			segs, err := ParseText(child.Text())
			if err != nil {
				return nil, err
			}
			for _, s := range segs {
				children = append(children, s)
			}
		}
	}
	return children, nil
}

// parseDeclaration classifies one attribute of el.
func (p *Parser) parseDeclaration(el *Element, name, value string) error {
	if name == "" {
		return nil
	}
	b := &el.Binding
	switch c := name[0]; {
	case c == ':' || c == '$':
		src, err := parseSource(name, value)
		if err != nil {
			return err
		}
		b.Source = src
	case name == "#":
		v := strings.TrimSpace(value)
		if v == "" {
			return syntaxError(value, "missing template name")
		}
		b.Template = &TemplateRef{Name: v}
	case name == "?" || name == "!":
		call, err := parseHandler(value)
		if err != nil {
			return err
		}
		b.Condition = &Condition{Negate: name == "!", Test: call}
	case name == "%":
		v := strings.TrimSpace(value)
		if v == "" {
			return syntaxError(value, "missing model name")
		}
		b.Model = &ModelRef{Name: v}
	case c == '@':
		call, err := parseHandler(value)
		if err != nil {
			return err
		}
		b.Events = append(b.Events, Event{Event: kebabToCamel(name[1:]), Handler: call})
	default:
		attr, err := ParseAttribute(name, value)
		if err != nil {
			return err
		}
		el.Attributes = append(el.Attributes, attr)
	}
	return nil
}

// parseSource compiles a ":name" or "$name" data source. An empty value
// derives the path from the attribute name.
func parseSource(name, value string) (*Source, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		v = kebabToCamel(name[1:])
	}
	if !validPath(v) {
		return nil, syntaxError(name+"="+value, "malformed data source")
	}
	return newSource(name[0] == '$', v), nil
}

func newSource(live bool, path string) *Source {
	segs := strings.Split(path, ".")
	return &Source{Live: live, Property: segs[len(segs)-1], Path: segs}
}

// parseHandler compiles a value that holds exactly one name or call.
func parseHandler(value string) (*Call, error) {
	v := strings.TrimSpace(value)
	toks, err := tokenize(v)
	if err != nil {
		return nil, err
	}
	m := matcher{toks: toks}
	call := m.callable()
	if call == nil || !m.done() {
		return nil, syntaxError(value, "")
	}
	return call, nil
}

// =============================================================================
// Attributes
// =============================================================================

// ParseAttribute compiles an ordinary attribute. A leading "." selects a
// host property, named in kebab case (".inner-h-t-m-l" is innerHTML); an
// "@" in the name declares a two-way binding on the event that follows it.
func ParseAttribute(name, value string) (Attribute, error) {
	isProp := strings.HasPrefix(name, ".")
	if isProp {
		name = kebabToCamel(name[1:])
	}

	if i := strings.IndexByte(name, '@'); i >= 0 {
		target, event := name[:i], kebabToCamel(name[i+1:])
		if target == "" || event == "" {
			return Attribute{}, syntaxError(name, "malformed two-way binding")
		}
		tw, err := parseTwoWay(event, value)
		if err != nil {
			return Attribute{}, err
		}
		return Attribute{IsProperty: isProp, Name: target, TwoWay: tw}, nil
	}

	segs, err := ParseText(value)
	if err != nil {
		return Attribute{}, err
	}
	return Attribute{IsProperty: isProp, Name: name, Segments: segs}, nil
}

// parseTwoWay compiles "{ [pre ->] $path[:format] [-> post] }". The value
// must be a single interpolation with no literal text around it.
func parseTwoWay(event, value string) (*TwoWay, error) {
	parts := splitText(value)
	if len(parts) != 3 || parts[0] != "" || parts[2] != "" {
		return nil, syntaxError(value, "two-way binding must be a single expression")
	}
	toks, err := tokenize(parts[1])
	if err != nil {
		return nil, err
	}

	tw := &TwoWay{Event: event}
	m := matcher{toks: toks}

	// Only a name or call followed by an arrow is a pre handler.
	if m.peek(0, tokIdent, tokCall) && m.peek(1, tokArrow) {
		tw.Pre = m.callable()
		m.next()
	}
	if !m.accept(tokDollar) || !m.peek(0, tokIdent) {
		return nil, syntaxError(value, "")
	}
	tw.Source = newSource(true, m.next().lexeme)
	if m.accept(tokColon) {
		if tw.Format = m.callable(); tw.Format == nil {
			return nil, syntaxError(value, "")
		}
	}
	if m.accept(tokArrow) {
		if tw.Post = m.callable(); tw.Post == nil {
			return nil, syntaxError(value, "")
		}
	}
	if !m.done() {
		return nil, syntaxError(value, "")
	}
	return tw, nil
}

// =============================================================================
// Text
// =============================================================================

// ParseText compiles text with "{...}" interpolations into segments.
// Empty literal runs are dropped. "{?}" refers to the current data node.
func ParseText(input string) ([]Segment, error) {
	var segs []Segment
	for i, part := range splitText(input) {
		if i%2 == 0 {
			if part != "" {
				segs = append(segs, Segment{Literal: part})
			}
			continue
		}
		if part == CurrentProperty {
			segs = append(segs, Segment{Source: &Source{Property: CurrentProperty, Path: []string{CurrentProperty}}})
			continue
		}
		seg, err := parseInterpolation(part)
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

// parseInterpolation compiles "[$]path[:format]".
func parseInterpolation(body string) (Segment, error) {
	toks, err := tokenize(body)
	if err != nil {
		return Segment{}, err
	}
	m := matcher{toks: toks}
	live := m.accept(tokDollar)
	if !m.peek(0, tokIdent) {
		return Segment{}, syntaxError(body, "")
	}
	seg := Segment{Source: newSource(live, m.next().lexeme)}
	if m.accept(tokColon) {
		if seg.Format = m.callable(); seg.Format == nil {
			return Segment{}, syntaxError(body, "")
		}
	}
	if !m.done() {
		return Segment{}, syntaxError(body, "")
	}
	return seg, nil
}

// splitText splits input into alternating literal runs and trimmed
// interpolation bodies. Backtick strings inside a body are opaque. A body
// never spans lines; a "{" without a matching "}" is literal text.
func splitText(input string) []string {
	parts := make([]string, 0, 1)
	last := 0
	for i := 0; i < len(input); i++ {
		if input[i] != '{' {
			continue
		}
		end := closeBrace(input, i+1)
		if end < 0 {
			continue
		}
		parts = append(parts, input[last:i], strings.TrimSpace(input[i+1:end]))
		last = end + 1
		i = end
	}
	return append(parts, input[last:])
}

// closeBrace returns the index of the "}" closing a body that starts at i,
// or -1.
func closeBrace(input string, i int) int {
	for i < len(input) {
		switch input[i] {
		case '}':
			return i
		case '\n':
			return -1
		case '`':
			line := input[i+1:]
			if nl := strings.IndexByte(line, '\n'); nl >= 0 {
				line = line[:nl]
			}
			if end := strings.IndexByte(line, '`'); end >= 0 {
				i += end + 2
				continue
			}
		}
		i++
	}
	return -1
}

// kebabToCamel turns "user-name" into "userName".
func kebabToCamel(s string) string {
	if !strings.Contains(s, "-") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '-' && i+1 < len(s) {
			i++
			b.WriteString(strings.ToUpper(s[i : i+1]))
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// =============================================================================
// Token matching
// =============================================================================

// matcher walks a reduced token stream.
type matcher struct {
	toks []token
	pos  int
}

func (m *matcher) peek(offset int, types ...tokenType) bool {
	i := m.pos + offset
	if i >= len(m.toks) {
		return false
	}
	for _, t := range types {
		if m.toks[i].typ == t {
			return true
		}
	}
	return false
}

func (m *matcher) next() token {
	t := m.toks[m.pos]
	m.pos++
	return t
}

func (m *matcher) accept(t tokenType) bool {
	if m.peek(0, t) {
		m.pos++
		return true
	}
	return false
}

func (m *matcher) done() bool {
	return m.pos == len(m.toks)
}

// callable consumes a name or call token. Names become bare calls.
func (m *matcher) callable() *Call {
	switch {
	case m.peek(0, tokCall):
		c := *m.next().call
		return &c
	case m.peek(0, tokIdent):
		return &Call{Name: m.next().lexeme, Bare: true}
	default:
		return nil
	}
}
