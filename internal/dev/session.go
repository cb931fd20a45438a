package dev

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// session is one rendered page and the socket that drives it.
type session struct {
	id      string
	page    *Page
	created time.Time

	// claimed is set under the server lock once a socket is accepted.
	claimed bool

	// mu serializes socket writes.
	mu   sync.Mutex
	conn *websocket.Conn
}

// dispatch replays msg on the session's document and returns the new
// body markup. The markup is returned even when a handler fails.
func (s *session) dispatch(msg ClientMessage) (string, error) {
	body := s.page.Doc.BodyNode()
	if body == nil {
		return "", fmt.Errorf("document has no body")
	}
	target := body.NodeAt(msg.Path)
	if target == nil {
		return body.InnerHTML(), fmt.Errorf("no element at path %v", msg.Path)
	}

	if msg.Value != nil {
		target.SetProperty("value", *msg.Value)
	}
	if msg.Checked != nil {
		target.SetChecked(*msg.Checked)
	}

	err := target.DispatchType(msg.Event)
	return body.InnerHTML(), err
}

func (s *session) send(msg ServerMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.WriteJSON(msg)
}

func (s *session) connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
	}
}
