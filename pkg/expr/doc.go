// Package expr compiles template markup into expression trees.
//
// Templates are written in plain HTML. A small grammar inside attribute
// names, attribute values and text content declares how the markup binds to
// data:
//
//	<ul $=items>              live data source (":" reads once)
//	<li ?=visible>            condition ("!" negates)
//	<div #=card>              template switch
//	<form %=user>             model reference for implicit formatting
//	<button @click=save(1)>   event handler ("@" alone runs at mount)
//	<input .value@input="{ $name:trim }">   two-way binding
//	<p>Hello {$user.name:upper}</p>         text interpolation
//
// Inside an expression, three atoms are recognized: backtick-quoted strings,
// numbers and dotted identifiers. Whitespace is allowed around "(", ")", ","
// and "->" only.
//
// # Compilation
//
// A Parser turns a host element into an *Element tree:
//
//	p := expr.NewParser("svg")
//	child, err := p.ParseElement(node)
//
// Elements whose tag is on the bypass list (template, pre, code plus any
// extra tags) compile to Verbatim and are cloned as-is when rendered.
//
// # Model annotation
//
// Annotate is a second, pure pass that fills in missing format converters
// from model metadata. It returns a new tree and never modifies its input.
//
// Compiled trees are immutable and may be shared by any number of renders.
package expr
