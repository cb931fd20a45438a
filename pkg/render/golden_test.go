package render

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/funa-dev/funa/pkg/reactive"
)

func TestRenderGolden(t *testing.T) {
	upper := Converter{Convert: func(_, v any, _ ...any) (any, error) {
		return strings.ToUpper(reactive.String(v)), nil
	}}

	tests := []struct {
		name   string
		markup string
		data   map[string]any
		mutate func(*reactive.Object)
	}{
		{
			name:   "list_initial",
			markup: listMarkup,
			data:   map[string]any{"list": []any{"A", "B", "C"}},
		},
		{
			name:   "list_reversed",
			markup: listMarkup,
			data:   map[string]any{"list": []any{"A", "B", "C"}},
			mutate: func(o *reactive.Object) { o.Get("list").(*reactive.Array).Reverse() },
		},
		{
			name:   "card",
			markup: `<body><template><main class="card {$tone}"><h1>{title:upper}</h1><p ?=note>{note}</p><a href={link}>go</a></main></template></body>`,
			data:   map[string]any{"tone": "cold", "title": "hello", "note": "n", "link": "/x"},
			mutate: func(o *reactive.Object) { o.Set("tone", "warm") },
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, r := render(t, tt.markup, Options{
				Data: tt.data,
				As:   map[string]Converter{"upper": upper},
			})
			if tt.mutate != nil {
				tt.mutate(root(t, r))
			}
			g.Assert(t, tt.name, []byte(doc.BodyNode().InnerHTML()))
		})
	}
}
