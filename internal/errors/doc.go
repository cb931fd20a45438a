// Package errors provides coded, actionable error messages for the funa CLI.
//
// Every error the engine can raise carries a stable code. This package
// maps codes to a category, a short message and an explanation, points at
// the offending markup when it can find it, and formats the result for a
// terminal or as JSON.
//
// # Error Codes
//
//	F001  syntax       malformed expression in an attribute or text
//	F002  lookup       converter, predicate, model, handler or template not defined
//	F003  reactivity   property cannot be observed
//	F004  template     duplicated template id
//	F005  binding      two-way binding cannot write back
//	F1xx  tooling      configuration, sources, data files and scripts
//
// # Usage
//
//	err := errors.FromError(renderErr).WithSource("page.html", markup)
//	fmt.Print(err.Format())
//	// Output:
//	// ERROR F001: Malformed expression
//	//
//	//   page.html:4:12
//	//
//	//       3 │ <ul $=items>
//	//   →   4 │   <li ?=test(b)>{name}</li>
//	//         │            ^
//	//       5 │ </ul>
//	//
//	//   invalid expression: test(b)
package errors
