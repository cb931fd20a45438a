// Package dev provides the live preview server.
//
// Every page load opens a session: the template is rendered into a fresh
// document on the server and the result is sent to the browser together
// with a small client script. The client forwards DOM events over a
// WebSocket; the server replays them on the session's document, lets the
// bindings update, and answers with the new body markup.
//
// # Routes
//
//	GET /                     renders a page for a new session
//	GET /_funa/ws?session=id  WebSocket bound to that session
//	GET /metrics              Prometheus metrics (metrics.enabled)
//	GET /healthz              liveness probe
//
// # Protocol
//
// Messages are JSON-encoded:
//
//	{"type": "event", "path": [0, 2], "event": "click", "value": "x", "checked": true}
//	{"type": "html", "html": "..."}     // new body markup
//	{"type": "error", "error": "..."}   // event handling failed
//	{"type": "reload"}                  // a watched file changed
//
// Paths address elements by element-child index from <body>.
//
// # Usage
//
//	srv := dev.NewServer(dev.ServerOptions{
//	    Config: cfg,
//	    Open:   open,
//	})
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
package dev
