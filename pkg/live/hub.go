package live

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeTimeout bounds a single frame write to a client.
	writeTimeout = 5 * time.Second

	// defaultSendQueue is the number of frames a client may fall behind
	// before it is dropped.
	defaultSendQueue = 16
)

// HubObserver is told about client and frame traffic.
// *middleware.Metrics implements it.
type HubObserver interface {
	ClientConnected()
	ClientDisconnected()
	FrameSent()
	WebSocketError(kind string)
}

type nopHubObserver struct{}

func (nopHubObserver) ClientConnected()      {}
func (nopHubObserver) ClientDisconnected()   {}
func (nopHubObserver) FrameSent()            {}
func (nopHubObserver) WebSocketError(string) {}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithSendQueue sets how many frames a client may fall behind before it is
// dropped (default: 16).
func WithSendQueue(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.queue = n
		}
	}
}

// WithHubObserver installs an observer for client traffic.
func WithHubObserver(o HubObserver) HubOption {
	return func(h *Hub) {
		if o != nil {
			h.observer = o
		}
	}
}

// Hub manages websocket clients and broadcasts board frames to them.
//
// Each client has a bounded send queue drained by its own writer goroutine,
// so Broadcast never waits on the network.
type Hub struct {
	clients  map[*client]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	queue    int
	logger   *slog.Logger
	observer HubObserver
}

// client is one websocket connection. Only its writer goroutine writes
// data frames to conn.
type client struct {
	conn    *websocket.Conn
	send    chan Frame
	done    chan struct{}
	once    sync.Once
	lastSeq uint64 // owned by the writer
}

func (c *client) stop() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// NewHub creates a new hub.
func NewHub(logger *slog.Logger, opts ...HubOption) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Hub{
		clients: make(map[*client]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		queue:    defaultSendQueue,
		logger:   logger.With("component", "hub"),
		observer: nopHubObserver{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleWebSocket upgrades the connection and streams frames until the
// client disconnects. The client is registered before current is read, so
// a frame published during the handshake is either current or queued
// behind it; frames older than one already sent are skipped.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request, current func() Frame) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Debug("upgrade failed", "error", err)
		h.observer.WebSocketError("upgrade")
		return
	}

	c := &client{
		conn: conn,
		send: make(chan Frame, h.queue),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	h.observer.ClientConnected()
	h.logger.Debug("client connected", "remote", req.RemoteAddr)

	h.enqueue(c, current())
	go h.writeLoop(c)

	// Clients never send anything meaningful; reading detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.drop(c)
}

// writeLoop writes queued frames to c in order, skipping stale ones.
func (h *Hub) writeLoop(c *client) {
	for {
		select {
		case f := <-c.send:
			if f.Seq <= c.lastSeq {
				continue
			}
			if err := h.write(c.conn, f); err != nil {
				h.logger.Debug("dropping client", "error", err)
				h.observer.WebSocketError("write")
				h.drop(c)
				return
			}
			c.lastSeq = f.Seq
		case <-c.done:
			return
		}
	}
}

// enqueue hands f to c's writer. A client whose queue is full is dropped;
// it gets the current frame again when it reconnects.
func (h *Hub) enqueue(c *client, f Frame) {
	select {
	case c.send <- f:
	case <-c.done:
	default:
		h.logger.Debug("dropping slow client", "seq", f.Seq)
		h.observer.WebSocketError("overflow")
		h.drop(c)
	}
}

// drop unregisters c once, however many paths notice it is gone.
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		h.observer.ClientDisconnected()
	}
	c.stop()
}

// Broadcast queues a frame for every connected client. It does not block
// on the network.
func (h *Hub) Broadcast(f Frame) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.enqueue(c, f)
	}
}

func (h *Hub) write(conn *websocket.Conn, f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	h.observer.FrameSent()
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
			time.Now().Add(time.Second),
		)
		h.drop(c)
	}
}
