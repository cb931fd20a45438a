package dev

import (
	"bytes"
	"context"
	stderrors "errors"
	"html"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/funa-dev/funa/internal/config"
	"github.com/funa-dev/funa/internal/errors"
	"github.com/funa-dev/funa/pkg/dom"
	"github.com/funa-dev/funa/pkg/telemetry"
)

// PendingTTL is how long a rendered page waits for its socket.
const PendingTTL = time.Minute

// Page is a rendered document owned by one session.
type Page struct {
	Doc *dom.Document
}

// Opener renders the page of a new session. It is called once per page
// load, so every session gets its own data.
type Opener func(ctx context.Context) (*Page, error)

// ServerOptions configures the preview server.
type ServerOptions struct {
	// Config is the project configuration.
	Config *config.Config

	// Open renders a page.
	Open Opener

	// Logger is the server logger. Default: slog.Default().
	Logger *slog.Logger

	// Metrics records session and reload metrics.
	Metrics *telemetry.Metrics

	// Gatherer is served on /metrics. Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// OnReload is called when browsers are told to reload.
	OnReload func(clients int)
}

// Server is the preview server.
type Server struct {
	config   *config.Config
	options  ServerOptions
	logger   *slog.Logger
	metrics  *telemetry.Metrics
	router   chi.Router
	upgrader websocket.Upgrader
	watcher  *Watcher

	mu       sync.Mutex
	sessions map[string]*session
}

// NewServer creates a new preview server.
func NewServer(options ServerOptions) *Server {
	cfg := options.Config
	if cfg == nil {
		cfg = config.New()
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:   cfg,
		options:  options,
		logger:   logger,
		metrics:  options.Metrics,
		sessions: make(map[string]*session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in dev
			},
		},
	}

	if paths := CollectWatchPaths(cfg); len(paths) > 0 {
		s.watcher = NewWatcher(WatcherConfig{Paths: paths, Logger: logger})
		s.watcher.OnChange(s.handleChanges)
	}

	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)

	r.Get("/", s.handlePage)
	r.Get("/_funa/ws", s.handleSocket)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.config.Metrics.Enabled {
		gatherer := s.options.Gatherer
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Address(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watcher != nil {
		go func() {
			if err := s.watcher.Start(ctx); err != nil {
				s.logger.Error("watcher stopped", "err", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("preview server started", "url", s.config.URL())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.closeSessions()
		return err
	case err := <-errCh:
		s.closeSessions()
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.New("F131").Wrap(err)
	}
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Reload tells every connected browser to reload.
func (s *Server) Reload() {
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	clients := 0
	for _, sess := range sessions {
		if !sess.connected() {
			continue
		}
		if err := sess.send(ServerMessage{Type: MessageReload}); err != nil {
			s.logger.Debug("reload not delivered", "session", sess.id, "err", err)
			continue
		}
		clients++
	}

	s.metrics.IncReload()
	if s.options.OnReload != nil {
		s.options.OnReload(clients)
	}
}

func (s *Server) handleChanges(changes []Change) {
	for _, c := range changes {
		s.logger.Info("file changed", "path", c.Path, "type", c.Type.String())
	}
	s.Reload()
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page, err := s.options.Open(r.Context())
	if err != nil {
		s.logger.Error("render failed", "err", err)
		s.metrics.ObserveError(err)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<!DOCTYPE html><pre>" + html.EscapeString(errors.FromError(err).FormatCompact()) + "</pre>"))
		return
	}

	sess := &session{id: uuid.NewString(), page: page, created: time.Now()}
	if head := page.Doc.Head(); head != nil {
		script := dom.NewElement("script")
		script.SetTextContent(ClientScript(sess.id))
		head.AppendChild(script)
	}

	var buf bytes.Buffer
	if err := page.Doc.Render(&buf); err != nil {
		s.logger.Error("serialize failed", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	s.pruneLocked(time.Now())
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// pruneLocked drops sessions whose socket never connected.
func (s *Server) pruneLocked(now time.Time) {
	for id, sess := range s.sessions {
		if !sess.claimed && now.Sub(sess.created) > PendingTTL {
			delete(s.sessions, id)
		}
	}
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")

	s.mu.Lock()
	sess := s.sessions[id]
	if sess == nil {
		s.mu.Unlock()
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	if sess.claimed {
		s.mu.Unlock()
		http.Error(w, "session already connected", http.StatusConflict)
		return
	}
	sess.claimed = true
	s.mu.Unlock()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.mu.Lock()
		sess.claimed = false
		s.mu.Unlock()
		return
	}

	sess.mu.Lock()
	sess.conn = conn
	sess.mu.Unlock()

	s.metrics.SessionOpened()
	s.logger.Debug("session connected", "session", sess.id)

	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess.id)
		s.mu.Unlock()
		conn.Close()
		s.metrics.SessionClosed()
		s.logger.Debug("session closed", "session", sess.id)
	}()

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if err := sess.send(s.handleMessage(sess, msg)); err != nil {
			return
		}
	}
}

func (s *Server) handleMessage(sess *session, msg ClientMessage) ServerMessage {
	if msg.Type != MessageEvent {
		return ServerMessage{Type: MessageError, Error: "unknown message type " + string(msg.Type)}
	}

	markup, err := sess.dispatch(msg)
	if err != nil {
		s.logger.Warn("event failed", "session", sess.id, "event", msg.Event, "err", err)
		return ServerMessage{Type: MessageError, HTML: markup, Error: errors.FromError(err).FormatCompact()}
	}
	return ServerMessage{Type: MessageHTML, HTML: markup}
}

func (s *Server) closeSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.close()
		delete(s.sessions, id)
	}
}
