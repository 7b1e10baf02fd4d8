package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/keyed/pkg/observe"
)

// traffic counts hub activity.
type traffic struct {
	clients atomic.Int64
	frames  atomic.Int64
	errors  atomic.Int64
}

func (c *traffic) ClientConnected()      { c.clients.Add(1) }
func (c *traffic) ClientDisconnected()   { c.clients.Add(-1) }
func (c *traffic) FrameSent()            { c.frames.Add(1) }
func (c *traffic) WebSocketError(string) { c.errors.Add(1) }

type testServer struct {
	board   *Board
	hub     *Hub
	http    http.Handler
	traffic *traffic
}

func newTestServer(t *testing.T, seed ...string) *testServer {
	t.Helper()

	reg := prometheus.NewRegistry()
	tr := &traffic{}
	hub := NewHub(quiet, WithHubObserver(tr))
	board := NewBoard(BoardConfig{
		Seed:     seed,
		Logger:   quiet,
		Observer: observe.Prometheus(observe.WithRegistry(reg)),
		OnRender: hub.Broadcast,
	})
	t.Cleanup(board.Close)
	t.Cleanup(hub.Close)

	return &testServer{
		board:   board,
		hub:     hub,
		traffic: tr,
		http: NewRouter(board, hub, RouterConfig{
			Logger:  quiet,
			Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		}),
	}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.http.ServeHTTP(rec, req)
	return rec
}

func TestRouterItems(t *testing.T) {
	s := newTestServer(t, "a", "b")

	rec := s.do("POST", "/items", `{"label":"c"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /items status = %d: %s", rec.Code, rec.Body)
	}
	var created Item
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.ID != "r3" || created.Label != "c" {
		t.Errorf("created = %+v", created)
	}

	steps := []struct {
		method, path, body string
		status             int
	}{
		{"POST", "/items/prepend", `{"id":"top","label":"t"}`, http.StatusCreated},
		{"PATCH", "/items/r1", `{"label":"A"}`, http.StatusOK},
		{"POST", "/items/top/move", `{"to":2}`, http.StatusNoContent},
		{"DELETE", "/items/r2", "", http.StatusNoContent},
		{"POST", "/swap", `{"i":0,"j":2}`, http.StatusNoContent},
	}
	for _, st := range steps {
		if rec := s.do(st.method, st.path, st.body); rec.Code != st.status {
			t.Fatalf("%s %s status = %d, want %d: %s", st.method, st.path, rec.Code, st.status, rec.Body)
		}
	}

	rec = s.do("GET", "/items", "")
	var items []Item
	if err := json.NewDecoder(rec.Body).Decode(&items); err != nil {
		t.Fatal(err)
	}
	// [t a b c] -> move t to 2 -> [A b t c] -> delete b -> [A t c] -> swap 0,2
	want := []string{"c", "t", "A"}
	if len(items) != len(want) {
		t.Fatalf("items = %+v", items)
	}
	for i, it := range items {
		if it.Label != want[i] {
			t.Errorf("items[%d] = %+v, want label %s", i, it, want[i])
		}
	}
}

func TestRouterBulkOperations(t *testing.T) {
	s := newTestServer(t, "a", "b", "c")

	for _, path := range []string{"/reverse", "/shuffle", "/clear"} {
		if rec := s.do("POST", path, ""); rec.Code != http.StatusNoContent {
			t.Errorf("POST %s status = %d", path, rec.Code)
		}
	}

	rec := s.do("GET", "/stats", "")
	var st Stats
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.Rows != 0 || st.Totals.Removed != 3 {
		t.Errorf("stats = %+v", st)
	}
}

func TestRouterErrors(t *testing.T) {
	s := newTestServer(t, "a")

	tests := []struct {
		method, path, body string
		status             int
		code               string
	}{
		{"DELETE", "/items/nope", "", http.StatusNotFound, "E402"},
		{"PATCH", "/items/nope", `{"label":"x"}`, http.StatusNotFound, "E402"},
		{"POST", "/items", `{"id":"r1"}`, http.StatusConflict, "E403"},
		{"POST", "/items", `not json`, http.StatusBadRequest, "E405"},
		{"POST", "/items", `{"bogus":1}`, http.StatusBadRequest, "E405"},
		{"POST", "/items/r1/move", `{}`, http.StatusBadRequest, "E405"},
		{"POST", "/swap", `{"i":0,"j":9}`, http.StatusNotFound, "E402"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := s.do(tt.method, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body)
			}
			var body errorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Code, tt.code)
			}
		})
	}
}

func TestRouterPageAndMetrics(t *testing.T) {
	s := newTestServer(t, "hello")

	rec := s.do("GET", "/", "")
	if !strings.Contains(rec.Body.String(), `<li data-key="r1">hello</li>`) {
		t.Errorf("page does not contain the board: %s", rec.Body)
	}

	s.do("POST", "/reverse", "")
	rec = s.do("GET", "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d", rec.Code)
	}
	for _, want := range []string{"keyed_rows_created_total 1", `keyed_passes_total{path="create_all"} 1`} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

// eventually fails t unless cond holds within five seconds.
func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met within 5s")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWebSocketFrames(t *testing.T) {
	s := newTestServer(t, "a")
	srv := httptest.NewServer(s.http)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readFrame := func() Frame {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var f Frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("read frame: %v", err)
		}
		return f
	}

	initial := readFrame()
	if initial.Seq != 1 || !strings.Contains(initial.HTML, ">a</li>") {
		t.Fatalf("initial frame = %+v", initial)
	}

	// The client is registered before its first frame is sent.
	if n := s.hub.ClientCount(); n != 1 {
		t.Fatalf("ClientCount = %d, want 1", n)
	}

	if _, err := s.board.Append(context.Background(), Item{Label: "b"}); err != nil {
		t.Fatal(err)
	}

	f := readFrame()
	if f.Seq != 2 || f.Path != "append" || !strings.Contains(f.HTML, ">b</li>") {
		t.Errorf("frame = %+v", f)
	}
	if f.Stats.Created != 1 {
		t.Errorf("stats = %+v", f.Stats)
	}

	if got := s.traffic.clients.Load(); got != 1 {
		t.Errorf("connected clients = %d, want 1", got)
	}
	// FrameSent fires after the write returns, so it may trail the read.
	eventually(t, func() bool { return s.traffic.frames.Load() == 2 })

	s.hub.Close()
	if got := s.traffic.clients.Load(); got != 0 {
		t.Errorf("clients after close = %d, want 0", got)
	}
}
