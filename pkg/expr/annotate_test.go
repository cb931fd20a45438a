package expr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupIn(models map[string]Model) ModelLookup {
	return func(name string) (Model, error) {
		m, ok := models[name]
		if !ok {
			return nil, errors.New("unknown model " + name)
		}
		return m, nil
	}
}

func TestAnnotate(t *testing.T) {
	models := map[string]Model{
		"user": {
			"name":    "upper",
			"balance": "money",
			"address": map[string]any{"city": "title"},
		},
	}
	tree := []Child{parseElement(t, `<form %=user>
		<p>{name} {balance:plain} {?} {missing}</p>
		<input .value@change={$name}>
		<span title="{balance}"></span>
		<div :=address><b>{city}</b></div>
	</form>`)}

	got, err := Annotate(tree, lookupIn(models))
	require.NoError(t, err)

	form := got[0].(*Element)
	var elems []*Element
	for _, c := range form.Children {
		if el, ok := c.(*Element); ok {
			elems = append(elems, el)
		}
	}
	require.Len(t, elems, 4)

	p := elems[0].Children
	assert.Equal(t, &Call{Name: "upper", Bare: true}, p[0].(Segment).Format)
	assert.Equal(t, &Call{Name: "plain", Bare: true}, p[2].(Segment).Format, "explicit format wins")
	assert.Nil(t, p[4].(Segment).Format, "current node is never annotated")
	assert.Nil(t, p[6].(Segment).Format, "no model entry")

	assert.Equal(t, &Call{Name: "upper", Bare: true}, elems[1].Attributes[0].TwoWay.Format)
	assert.Equal(t, &Call{Name: "money", Bare: true}, elems[2].Attributes[0].Segments[0].Format)

	city := elems[3].Children[0].(*Element).Children[0].(Segment)
	assert.Equal(t, &Call{Name: "title", Bare: true}, city.Format)
}

func TestAnnotateDoesNotModifyInput(t *testing.T) {
	tree := []Child{parseElement(t, `<p %=m>{a}<input .value@input={$a}></p>`)}
	before := tree[0].(*Element)
	seg := before.Children[0].(Segment)
	tw := before.Children[1].(*Element).Attributes[0].TwoWay

	_, err := Annotate(tree, lookupIn(map[string]Model{"m": {"a": "f"}}))
	require.NoError(t, err)

	assert.Nil(t, seg.Format)
	assert.Nil(t, before.Children[0].(Segment).Format)
	assert.Nil(t, tw.Format)
}

func TestAnnotateModelIsScopedToSubtree(t *testing.T) {
	doc := []Child{
		parseElement(t, `<div><p %=a>{x}</p><p>{x}</p></div>`),
	}
	got, err := Annotate(doc, lookupIn(map[string]Model{"a": {"x": "f"}}))
	require.NoError(t, err)

	ps := got[0].(*Element).Children
	assert.NotNil(t, ps[0].(*Element).Children[0].(Segment).Format)
	assert.Nil(t, ps[1].(*Element).Children[0].(Segment).Format, "sibling must not inherit the model")
}

func TestAnnotateSourceNarrowsModel(t *testing.T) {
	doc := []Child{parseElement(t, `<div %=m><i :=k>{x}</i><i :=s>{x}</i></div>`)}
	got, err := Annotate(doc, lookupIn(map[string]Model{"m": {
		"k": Model{"x": "f"},
		"s": "not-a-model",
	}}))
	require.NoError(t, err)

	is := got[0].(*Element).Children
	assert.Equal(t, "f", is[0].(*Element).Children[0].(Segment).Format.Name)
	assert.Nil(t, is[1].(*Element).Children[0].(Segment).Format)
}

func TestAnnotateUnknownModel(t *testing.T) {
	doc := []Child{parseElement(t, `<div %=nope>{x}</div>`)}
	_, err := Annotate(doc, lookupIn(nil))
	assert.Error(t, err)
}

func TestAnnotateWithoutModelIsIdentity(t *testing.T) {
	doc := []Child{parseElement(t, `<div :=a>{x}<pre>{y}</pre></div>`), Segment{Literal: "t"}}
	got, err := Annotate(doc, lookupIn(nil))
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}
