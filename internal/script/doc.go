// Package script defines converters, predicates, models and handlers in
// JavaScript.
//
// A registry script fills the four tables of the global funa object:
//
//	funa.as.price = {
//	    convert: function (data, value) { return "$" + value.toFixed(2) },
//	    revert:  function (data, value) { return parseFloat(value.slice(1)) },
//	};
//	funa.as.shout = function (data, value) { return value.toUpperCase() };
//	funa.if.adult = function (data) { return data.age >= 18 };
//	funa.is.person = { age: "int", address: { zip: "string" } };
//	funa.on.birthday = function (e) { e.data.age = e.data.age + 1 };
//
// Data objects and arrays reach the script as live views: reading a
// property reads the current value, and assigning one goes through the
// reactive setter so bound elements update. console.log and friends write
// to the engine's logger.
//
// An Engine wraps one goja runtime and is not safe for concurrent use.
package script
