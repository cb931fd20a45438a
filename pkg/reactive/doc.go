// Package reactive provides the observation core of Funa: per-property
// listener registries on records and mutation events on ordered lists.
//
// # Objects
//
// An Object is an ordered record of properties. Listening to a property
// registers a Listener that runs every time the property is written through
// Set or explicitly notified:
//
//	user := reactive.NewObject(map[string]any{"name": "Ada"})
//	user.Listen("name", reactive.Func(func() {
//	    fmt.Println("name is now", user.Get("name"))
//	}))
//	user.Set("name", "Grace") // prints "name is now Grace"
//
// Listeners of one property run most-recently-registered first and receive
// no payload; they re-read the current state themselves.
//
// # Arrays
//
// An Array emits insert and remove events for Push, Pop, Unshift, Shift and
// Splice, and a single change event describing the permutation applied by
// Reverse and Sort. Every insert or remove also notifies the derived "count"
// property.
//
// # Reentrancy
//
// Notification is synchronous and unbatched: the mutating call returns only
// after every listener has run. A listener that writes the property it
// listens to recurses without bound; guarding against that is the caller's
// job. Registries are attached to the object they observe, so observing an
// object never extends its lifetime.
package reactive
