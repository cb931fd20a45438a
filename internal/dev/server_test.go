package dev

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funa-dev/funa"
	"github.com/funa-dev/funa/internal/config"
	"github.com/funa-dev/funa/pkg/dom"
	"github.com/funa-dev/funa/pkg/telemetry"
)

const counterPage = `<!DOCTYPE html><html><head><title>t</title></head><body><template>
<main><p>{$count}</p><button @click=inc>+</button><input .value@input="{$name}"></main>
</template></body></html>`

var sessionRE = regexp.MustCompile(`var session = "([^"]+)"`)

func counterOpener(t *testing.T) Opener {
	return func(ctx context.Context) (*Page, error) {
		doc, err := dom.ParseString(counterPage)
		if err != nil {
			return nil, err
		}
		app := funa.New(doc, funa.Init{
			Data: map[string]any{"count": 0, "name": ""},
			On: map[string]funa.Handler{
				"inc": func(e funa.HandlerEvent) error {
					data := e.Data.(*funa.Object)
					data.Set("count", data.Get("count").(int)+1)
					return nil
				},
			},
		})
		if err := app.Render(ctx, nil); err != nil {
			return nil, err
		}
		return &Page{Doc: doc}, nil
	}
}

func newTestServer(t *testing.T, opts ServerOptions) (*Server, *httptest.Server) {
	t.Helper()
	if opts.Config == nil {
		opts.Config = config.New()
		opts.Config.Template = ""
	}
	if opts.Open == nil {
		opts.Open = counterOpener(t)
	}
	srv := NewServer(opts)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func openPage(t *testing.T, ts *httptest.Server) (string, string) {
	t.Helper()
	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	m := sessionRE.FindStringSubmatch(string(body))
	require.Len(t, m, 2, "no session id in page")
	return string(body), m[1]
}

func dial(t *testing.T, ts *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/_funa/ws?session=" + id
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestServerHealthz(t *testing.T) {
	_, ts := newTestServer(t, ServerOptions{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestServerPageInjectsClient(t *testing.T) {
	srv, ts := newTestServer(t, ServerOptions{})

	page, id := openPage(t, ts)

	assert.Contains(t, page, "<main><p>0</p>")
	assert.Contains(t, page, "/_funa/ws?session=")
	assert.NotContains(t, page, "<template>")
	assert.Regexp(t, `(?s)<head>.*<script>.*</script></head>`, page)
	assert.Len(t, id, 36)
	assert.Equal(t, 1, srv.SessionCount())
}

func TestServerEventRoundTrip(t *testing.T) {
	_, ts := newTestServer(t, ServerOptions{})
	_, id := openPage(t, ts)
	conn := dial(t, ts, id)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageEvent, Path: []int{0, 1}, Event: "click"}))
	var reply ServerMessage
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, MessageHTML, reply.Type)
	assert.Contains(t, reply.HTML, "<p>1</p>")

	name := "ada"
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageEvent, Path: []int{0, 2}, Event: "input", Value: &name}))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, MessageHTML, reply.Type)
	assert.Contains(t, reply.HTML, `value="ada"`)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageEvent, Path: []int{7}, Event: "click"}))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, MessageError, reply.Type)
	assert.Contains(t, reply.Error, "no element at path")

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "bogus"}))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, MessageError, reply.Type)
}

func TestServerSocketRejections(t *testing.T) {
	_, ts := newTestServer(t, ServerOptions{})
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/_funa/ws?session="

	_, resp, err := websocket.DefaultDialer.Dial(url+"missing", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, id := openPage(t, ts)
	dial(t, ts, id)
	_, resp, err = websocket.DefaultDialer.Dial(url+id, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestServerConcurrentSocketsClaimOnce(t *testing.T) {
	_, ts := newTestServer(t, ServerOptions{})
	_, id := openPage(t, ts)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/_funa/ws?session=" + id

	const attempts = 8
	var (
		wg        sync.WaitGroup
		accepted  atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
			if err == nil {
				accepted.Add(1)
				t.Cleanup(func() { conn.Close() })
				return
			}
			if resp != nil && resp.StatusCode == http.StatusConflict {
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), accepted.Load())
	assert.Equal(t, int32(attempts-1), conflicts.Load())
}

func TestServerSessionClosesWithSocket(t *testing.T) {
	srv, ts := newTestServer(t, ServerOptions{})
	_, id := openPage(t, ts)
	conn := dial(t, ts, id)

	require.Equal(t, 1, srv.SessionCount())
	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return srv.SessionCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestServerReload(t *testing.T) {
	var clients atomic.Int64
	srv, ts := newTestServer(t, ServerOptions{
		OnReload: func(n int) { clients.Store(int64(n)) },
	})
	_, id := openPage(t, ts)
	conn := dial(t, ts, id)
	openPage(t, ts)

	require.Eventually(t, func() bool {
		srv.mu.Lock()
		defer srv.mu.Unlock()
		return srv.sessions[id].connected()
	}, time.Second, 10*time.Millisecond)

	srv.Reload()

	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MessageReload, msg.Type)
	assert.Equal(t, int64(1), clients.Load())
}

func TestServerOpenError(t *testing.T) {
	_, ts := newTestServer(t, ServerOptions{
		Open: func(context.Context) (*Page, error) {
			return nil, stderrors.New("template exploded <b>")
		},
	})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "template exploded &lt;b&gt;")
}

func TestServerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(telemetry.WithRegistry(reg))
	srv, ts := newTestServer(t, ServerOptions{Metrics: metrics, Gatherer: reg})

	_, id := openPage(t, ts)
	dial(t, ts, id)
	require.Eventually(t, func() bool {
		resp, err := http.Get(ts.URL + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return strings.Contains(string(body), "funa_preview_sessions 1")
	}, time.Second, 10*time.Millisecond)

	srv.Reload()
	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "funa_preview_reloads_total 1")
}

func TestServerMetricsDisabled(t *testing.T) {
	cfg := config.New()
	cfg.Template = ""
	cfg.Metrics.Enabled = false
	_, ts := newTestServer(t, ServerOptions{Config: cfg})

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClientScript(t *testing.T) {
	script := ClientScript("abc")
	assert.Contains(t, script, `var session = "abc"`)
	assert.Contains(t, script, "/_funa/ws?session=")
	assert.NotContains(t, script, "__SESSION__")
}
