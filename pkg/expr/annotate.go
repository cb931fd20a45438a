package expr

// Model is model metadata: each key maps to a converter name (string) or a
// nested Model. Decoded map[string]any values are accepted as nested models.
type Model map[string]any

// ModelLookup resolves a model reference by name.
type ModelLookup func(name string) (Model, error)

// Annotate returns a copy of children in which every source-backed text
// segment, attribute segment and two-way binding without an explicit format
// gets the converter named by the model metadata in scope.
//
// A model is brought into scope by an element's model reference, and is
// narrowed by an element's data source to the sub-model at the source path.
// Either change applies to that element's subtree only.
func Annotate(children []Child, lookup ModelLookup) ([]Child, error) {
	return annotate(children, nil, lookup)
}

func annotate(children []Child, model Model, lookup ModelLookup) ([]Child, error) {
	if children == nil {
		return nil, nil
	}
	out := make([]Child, len(children))
	for i, child := range children {
		switch c := child.(type) {
		case *Element:
			el, err := annotateElement(c, model, lookup)
			if err != nil {
				return nil, err
			}
			out[i] = el
		case Segment:
			out[i] = annotateSegment(c, model)
		default:
			out[i] = child
		}
	}
	return out, nil
}

func annotateElement(el *Element, model Model, lookup ModelLookup) (*Element, error) {
	switch {
	case el.Binding.Model != nil:
		m, err := lookup(el.Binding.Model.Name)
		if err != nil {
			return nil, err
		}
		model = m
	case el.Binding.Source != nil && model != nil:
		model = asModel(resolveModel(model, el.Binding.Source.Path))
	}

	cp := *el
	if el.Attributes != nil {
		cp.Attributes = make([]Attribute, len(el.Attributes))
		for i, attr := range el.Attributes {
			cp.Attributes[i] = annotateAttribute(attr, model)
		}
	}

	children, err := annotate(el.Children, model, lookup)
	if err != nil {
		return nil, err
	}
	cp.Children = children
	return &cp, nil
}

func annotateAttribute(attr Attribute, model Model) Attribute {
	if attr.TwoWay != nil {
		if attr.TwoWay.Format == nil {
			if name, ok := implicitFormat(model, attr.TwoWay.Source); ok {
				tw := *attr.TwoWay
				tw.Format = &Call{Name: name, Bare: true}
				attr.TwoWay = &tw
			}
		}
		return attr
	}
	if attr.Segments != nil {
		segs := make([]Segment, len(attr.Segments))
		for i, s := range attr.Segments {
			segs[i] = annotateSegment(s, model)
		}
		attr.Segments = segs
	}
	return attr
}

func annotateSegment(s Segment, model Model) Segment {
	if s.Source == nil || s.Format != nil {
		return s
	}
	if name, ok := implicitFormat(model, s.Source); ok {
		s.Format = &Call{Name: name, Bare: true}
	}
	return s
}

// implicitFormat returns the converter name the model assigns to src.
func implicitFormat(model Model, src *Source) (string, bool) {
	if model == nil || src.IsCurrent() {
		return "", false
	}
	name, ok := resolveModel(model, src.Path).(string)
	return name, ok && name != ""
}

// resolveModel walks path through nested models. It stops at the first
// missing entry.
func resolveModel(model Model, path []string) any {
	var cur any = model
	for _, prop := range path {
		m := asModel(cur)
		if m == nil {
			return nil
		}
		if cur = m[prop]; cur == nil {
			return nil
		}
	}
	return cur
}

func asModel(v any) Model {
	switch m := v.(type) {
	case Model:
		return m
	case map[string]any:
		return Model(m)
	default:
		return nil
	}
}
