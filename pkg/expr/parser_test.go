package expr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funa-dev/funa/pkg/dom"
	"github.com/funa-dev/funa/pkg/host"
)

func src(live bool, path ...string) *Source {
	return &Source{Live: live, Property: path[len(path)-1], Path: path}
}

func TestParseText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Segment
	}{
		{"empty string", "", nil},
		{"single run", "hello", []Segment{{Literal: "hello"}}},
		{"single simple source", "{name}", []Segment{{Source: src(false, "name")}}},
		{"single live source", "{$name}", []Segment{{Source: src(true, "name")}}},
		{
			"source with format", "{ name:string }",
			[]Segment{{Source: src(false, "name"), Format: &Call{Name: "string", Bare: true}}},
		},
		{
			"source with format call", "{ name:string(0.5, `{a(b)c}`, ) }",
			[]Segment{{Source: src(false, "name"), Format: &Call{Name: "string", Args: []any{0.5, "{a(b)c}", nil}}}},
		},
		{
			"empty call", "{n:f()}",
			[]Segment{{Source: src(false, "n"), Format: &Call{Name: "f"}}},
		},
		{
			"empty slots", "{n:f(,)}",
			[]Segment{{Source: src(false, "n"), Format: &Call{Name: "f", Args: []any{nil, nil}}}},
		},
		{
			"negative number", "{n:f(-2, `x y`)}",
			[]Segment{{Source: src(false, "n"), Format: &Call{Name: "f", Args: []any{-2.0, "x y"}}}},
		},
		{"nested path", "{a.b.c}", []Segment{{Source: src(false, "a", "b", "c")}}},
		{
			"run and source", "hello {name}",
			[]Segment{{Literal: "hello "}, {Source: src(false, "name")}},
		},
		{
			"current node", "[{?}]",
			[]Segment{{Literal: "["}, {Source: src(false, "?")}, {Literal: "]"}},
		},
		{"unterminated brace is literal", "a { b", []Segment{{Literal: "a { b"}}},
		{"multiline body is literal", "{a\n}", []Segment{{Literal: "{a\n}"}}},
		{
			"backtick hides closing brace", "{n:f(`}`)}!",
			[]Segment{{Source: src(false, "n"), Format: &Call{Name: "f", Args: []any{"}"}}}, {Literal: "!"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseText(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTextMalformed(t *testing.T) {
	inputs := []string{
		"{ name: string }",
		"{ name :string }",
		"{ name : string }",

		"{ name:string( }",
		"{ name:string(`) }",
		"{ name:string(1 2) }",
		"{ name:string(x) }",

		"{ a. b }",
		"{ a .b }",
		"{ a . b }",
		"{ a..b }",

		"{}",
		"{ `lit` }",
		"{ 1 }",
		"{ $ }",
		"{ a->b }",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseText(input)
			var se *SyntaxError
			require.True(t, errors.As(err, &se), "expected SyntaxError, got %v", err)
			assert.Equal(t, "F001", se.Code())
			assert.NotEmpty(t, se.Input)
		})
	}
}

func TestParseAttribute(t *testing.T) {
	tests := []struct {
		name, value string
		want        Attribute
	}{
		{
			"class", "{name}",
			Attribute{Name: "class", Segments: []Segment{{Source: src(false, "name")}}},
		},
		{
			".hidden", "{$hide}",
			Attribute{IsProperty: true, Name: "hidden", Segments: []Segment{{Source: src(true, "hide")}}},
		},
		{
			".inner-h-t-m-l", "{body}",
			Attribute{IsProperty: true, Name: "innerHTML", Segments: []Segment{{Source: src(false, "body")}}},
		},
		{
			".checked@change", "{$selected}",
			Attribute{IsProperty: true, Name: "checked", TwoWay: &TwoWay{Event: "change", Source: src(true, "selected")}},
		},
		{
			".value@change", "{ pre -> $data:format -> post() }",
			Attribute{IsProperty: true, Name: "value", TwoWay: &TwoWay{
				Event:  "change",
				Source: src(true, "data"),
				Format: &Call{Name: "format", Bare: true},
				Pre:    &Call{Name: "pre", Bare: true},
				Post:   &Call{Name: "post"},
			}},
		},
		{
			"value@key-up", "{ $text -> done(`x`) }",
			Attribute{Name: "value", TwoWay: &TwoWay{
				Event:  "keyUp",
				Source: src(true, "text"),
				Post:   &Call{Name: "done", Args: []any{"x"}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAttribute(tt.name, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTwoWayMalformed(t *testing.T) {
	values := []string{
		"{ data }",
		"x{ $data }",
		"{ $data } ",
		"{ $a }{ $b }",
		"{ $a.b:f -> }",
		"{ -> $a }",
		"{ pre -> $a -> post -> more }",
		"{?}",
		"",
	}
	for _, v := range values {
		t.Run(v, func(t *testing.T) {
			_, err := ParseAttribute(".value@change", v)
			var se *SyntaxError
			assert.True(t, errors.As(err, &se), "expected SyntaxError, got %v", err)
		})
	}

	_, err := ParseAttribute("@change", "{$a}")
	assert.Error(t, err)
	_, err = ParseAttribute(".value@", "{$a}")
	assert.Error(t, err)
}

func TestTwoWayAcceptsNestedPathAtCompileTime(t *testing.T) {
	// Nested paths compile; the renderer rejects them.
	attr, err := ParseAttribute(".value@input", "{$a.b}")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, attr.TwoWay.Source.Path)
}

// firstElement parses markup and returns the first element of the body.
func firstElement(t *testing.T, markup string) host.Node {
	t.Helper()
	doc, err := dom.ParseString("<body>" + markup + "</body>")
	require.NoError(t, err)
	children := doc.BodyNode().ChildNodes()
	require.NotEmpty(t, children)
	return children[0]
}

func parseElement(t *testing.T, markup string, bypass ...string) Child {
	t.Helper()
	child, err := NewParser(bypass...).ParseElement(firstElement(t, markup))
	require.NoError(t, err)
	return child
}

func TestParseElement(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   *Element
	}{
		{"empty div", "<div></div>", &Element{Tag: "div"}},
		{
			"nested div", "<div><em>Hello</em> <strong>world</strong></div>",
			&Element{Tag: "div", Children: []Child{
				&Element{Tag: "em", Children: []Child{Segment{Literal: "Hello"}}},
				Segment{Literal: " "},
				&Element{Tag: "strong", Children: []Child{Segment{Literal: "world"}}},
			}},
		},
		{
			"text interpolation", "<div>hello {name}</div>",
			&Element{Tag: "div", Children: []Child{
				Segment{Literal: "hello "},
				Segment{Source: src(false, "name")},
			}},
		},
		{
			"attributes", `<div class="{name}" .hidden={$hide}></div>`,
			&Element{Tag: "div", Attributes: []Attribute{
				{Name: "class", Segments: []Segment{{Source: src(false, "name")}}},
				{IsProperty: true, Name: "hidden", Segments: []Segment{{Source: src(true, "hide")}}},
			}},
		},
		{
			"snapshot source", "<div :=data></div>",
			&Element{Tag: "div", Binding: Binding{Source: src(false, "data")}},
		},
		{
			"live source", "<div $=data></div>",
			&Element{Tag: "div", Binding: Binding{Source: src(true, "data")}},
		},
		{
			"source from attribute name", "<div $user-name></div>",
			&Element{Tag: "div", Binding: Binding{Source: src(true, "userName")}},
		},
		{
			"template switch", "<div #=tpl></div>",
			&Element{Tag: "div", Binding: Binding{Template: &TemplateRef{Name: "tpl"}}},
		},
		{
			"bare condition", "<div ?=test></div>",
			&Element{Tag: "div", Binding: Binding{Condition: &Condition{Test: &Call{Name: "test", Bare: true}}}},
		},
		{
			"negated call condition", "<div !=test()></div>",
			&Element{Tag: "div", Binding: Binding{Condition: &Condition{Negate: true, Test: &Call{Name: "test"}}}},
		},
		{
			"model reference", "<div %=model></div>",
			&Element{Tag: "div", Binding: Binding{Model: &ModelRef{Name: "model"}}},
		},
		{
			"events", "<div @click=toggle @=init(1) @key-down=key></div>",
			&Element{Tag: "div", Binding: Binding{Events: []Event{
				{Event: "click", Handler: &Call{Name: "toggle", Bare: true}},
				{Event: "", Handler: &Call{Name: "init", Args: []any{1.0}}},
				{Event: "keyDown", Handler: &Call{Name: "key", Bare: true}},
			}}},
		},
		{
			"two-way", `<input type="checkbox" .checked@change={$selected}>`,
			&Element{Tag: "input", Attributes: []Attribute{
				{Name: "type", Segments: []Segment{{Literal: "checkbox"}}},
				{IsProperty: true, Name: "checked", TwoWay: &TwoWay{Event: "change", Source: src(true, "selected")}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseElement(t, tt.markup))
		})
	}
}

func TestParseElementDropsComments(t *testing.T) {
	got := parseElement(t, "<p>a<!-- note -->b</p>")
	assert.Equal(t, &Element{Tag: "p", Children: []Child{
		Segment{Literal: "a"},
		Segment{Literal: "b"},
	}}, got)
}

func TestParseElementBypass(t *testing.T) {
	got := parseElement(t, "<pre>{raw}</pre>")
	v, ok := got.(Verbatim)
	require.True(t, ok)
	assert.Equal(t, "pre", v.Node.Tag())

	nested := parseElement(t, "<div><svg><text>{x}</text></svg><code>{y}</code></div>", "SVG")
	el := nested.(*Element)
	require.Len(t, el.Children, 2)
	assert.IsType(t, Verbatim{}, el.Children[0])
	assert.IsType(t, Verbatim{}, el.Children[1])

	p := NewParser(" Svg ")
	assert.True(t, p.Bypassed("svg"))
	assert.True(t, p.Bypassed("TEMPLATE"))
	assert.False(t, p.Bypassed("div"))
}

func TestParseElementErrors(t *testing.T) {
	markups := []string{
		"<div ?=`x`></div>",
		"<div @click=a(b)></div>",
		"<div @click></div>",
		"<div :=a..b></div>",
		"<div #></div>",
		"<div>{ a b }</div>",
		"<div><p title={a.}></p></div>",
	}
	for _, markup := range markups {
		t.Run(markup, func(t *testing.T) {
			_, err := NewParser().ParseElement(firstElement(t, markup))
			var se *SyntaxError
			assert.True(t, errors.As(err, &se), "expected SyntaxError, got %v", err)
		})
	}
}

func TestKebabToCamel(t *testing.T) {
	assert.Equal(t, "userName", kebabToCamel("user-name"))
	assert.Equal(t, "aBC", kebabToCamel("a-b-c"))
	assert.Equal(t, "plain", kebabToCamel("plain"))
	assert.Equal(t, "x-", kebabToCamel("x-"))
}
