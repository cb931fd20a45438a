package dev

import (
	"strings"
)

// MessageType represents the type of a preview message.
type MessageType string

const (
	MessageEvent  MessageType = "event"
	MessageHTML   MessageType = "html"
	MessageError  MessageType = "error"
	MessageReload MessageType = "reload"
)

// ServerMessage is sent to browsers via WebSocket.
type ServerMessage struct {
	Type  MessageType `json:"type"`
	HTML  string      `json:"html,omitempty"`
	Error string      `json:"error,omitempty"`
}

// ClientMessage is sent by the browser for every forwarded DOM event.
type ClientMessage struct {
	Type  MessageType `json:"type"`
	Path  []int       `json:"path"`
	Event string      `json:"event"`

	// Value and Checked carry the target's state after the browser
	// handled the event.
	Value   *string `json:"value,omitempty"`
	Checked *bool   `json:"checked,omitempty"`
}

// ClientScript returns the preview client for session id.
func ClientScript(id string) string {
	return strings.Replace(clientScript, "__SESSION__", id, 1)
}

// clientScript is injected into <head> of every preview page.
const clientScript = `
(function() {
    'use strict';

    var session = "__SESSION__";
    var ws = null;

    function pathOf(el) {
        var path = [];
        while (el && el !== document.body) {
            var parent = el.parentElement;
            if (!parent) {
                return null;
            }
            path.unshift(Array.prototype.indexOf.call(parent.children, el));
            el = parent;
        }
        return el === document.body ? path : null;
    }

    function forward(e) {
        if (!ws || ws.readyState !== WebSocket.OPEN || !(e.target instanceof Element)) {
            return;
        }
        var path = pathOf(e.target);
        if (path === null) {
            return;
        }
        var msg = {type: 'event', path: path, event: e.type};
        if ('value' in e.target) {
            msg.value = String(e.target.value);
        }
        if (e.target.type === 'checkbox' || e.target.type === 'radio') {
            msg.checked = !!e.target.checked;
        }
        ws.send(JSON.stringify(msg));
    }

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        ws = new WebSocket(protocol + '//' + location.host + '/_funa/ws?session=' + session);

        ws.onopen = function() {
            console.log('[Funa] Preview connected');
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }

            switch (msg.type) {
                case 'html':
                    document.body.innerHTML = msg.html;
                    break;

                case 'error':
                    console.error('[Funa]', msg.error);
                    break;

                case 'reload':
                    console.log('[Funa] Reloading...');
                    location.reload();
                    break;
            }
        };

        ws.onclose = function() {
            console.log('[Funa] Session closed, reload to start a new one');
        };
    }

    ['click', 'input', 'change', 'submit'].forEach(function(type) {
        document.addEventListener(type, forward, true);
    });

    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', connect);
    } else {
        connect();
    }
})();
`
