package convert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/funa-dev/funa/pkg/dom"
	"github.com/funa-dev/funa/pkg/render"
)

func convert(t *testing.T, c render.Converter, value any, args ...any) any {
	t.Helper()
	require.NotNil(t, c.Convert)
	out, err := c.Convert(nil, value, args...)
	require.NoError(t, err)
	return out
}

func TestNumbers(t *testing.T) {
	en := Defaults(language.English)
	de := Defaults(language.German)

	tests := []struct {
		name  string
		conv  render.Converter
		value any
		args  []any
		want  any
	}{
		{"int groups digits", en["int"], 1234, nil, "1,234"},
		{"int rounds", en["int"], 1234.6, nil, "1,235"},
		{"int keeps nil", en["int"], nil, nil, nil},
		{"int accepts numeric strings", en["int"], "1000000", nil, "1,000,000"},
		{"float default digits", en["float"], 1234, nil, "1,234.00"},
		{"float with digits", en["float"], 0.5, []any{3.0}, "0.500"},
		{"number keeps fraction", en["number"], 1234.25, nil, "1,234.25"},
		{"german grouping", de["float"], 1234.5, nil, "1.234,50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, convert(t, tt.conv, tt.value, tt.args...))
		})
	}
}

func TestNumbersErrors(t *testing.T) {
	en := Defaults(language.English)

	_, err := en["int"].Convert(nil, "abc")
	assert.EqualError(t, err, "not a number: abc")

	_, err = en["float"].Convert(nil, 1, "x")
	assert.Error(t, err)

	_, err = en["int"].Revert(nil, "12a")
	assert.EqualError(t, err, `not a number: "12a"`)
}

func TestNumbersParse(t *testing.T) {
	tests := []struct {
		tag   language.Tag
		input string
		want  any
	}{
		{language.English, "1,234.5", 1234.5},
		{language.English, " 42 ", 42.0},
		{language.English, "", nil},
		{language.German, "1.234,5", 1234.5},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String()+"/"+tt.input, func(t *testing.T) {
			got, err := NewNumbers(tt.tag).Parse(nil, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestText(t *testing.T) {
	en := Defaults(language.English)

	assert.Equal(t, "HELLO", convert(t, en["upper"], "hello"))
	assert.Equal(t, "hello", convert(t, en["lower"], "HeLLo"))
	assert.Equal(t, "Hello World", convert(t, en["title"], "hello world"))
	assert.Equal(t, "STRASSE", convert(t, Defaults(language.German)["upper"], "straße"))
	assert.Equal(t, "1.5", convert(t, en["string"], 1.5))
	assert.Equal(t, "<h1>Hi</h1>\n", convert(t, en["markdown"], "# Hi"))
}

func TestDefaultsInTemplates(t *testing.T) {
	doc, err := dom.ParseString(`<body><template>` +
		`<p id="total">{total:int}</p>` +
		`<article .inner-h-t-m-l={body:markdown}></article>` +
		`<input .value@change="{$qty:number}">` +
		`</template></body>`)
	require.NoError(t, err)

	r := render.New(doc, render.Options{
		Data: map[string]any{"total": 5000, "body": "*hi*", "qty": 1500},
		As:   Defaults(language.English),
	})
	require.NoError(t, r.Render(context.Background(), nil))

	assert.Equal(t, "5,000", doc.GetElementByID("total").TextContent())

	article := doc.Root().QuerySelectorAll("article")[0]
	assert.Equal(t, "<p><em>hi</em></p>\n", article.InnerHTML())

	input := doc.Root().QuerySelectorAll("input")[0]
	assert.Equal(t, "1,500", input.Property("value"))
	input.SetProperty("value", "2,500")
	require.NoError(t, input.DispatchType("change"))
	assert.Equal(t, "2,500", input.Property("value"))
}
