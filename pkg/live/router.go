package live

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vango-dev/keyed/internal/errors"
)

// RouterConfig configures the HTTP routes.
type RouterConfig struct {
	// MetricsPath is where Metrics is mounted (default: "/metrics").
	MetricsPath string

	// Metrics serves the metrics endpoint. Nil disables it.
	Metrics http.Handler

	// Logger receives one line per request (default: slog.Default()).
	Logger *slog.Logger

	// Middlewares run after the request logger, outermost first.
	Middlewares []func(http.Handler) http.Handler
}

// maxBody bounds request bodies.
const maxBody = 64 << 10

// NewRouter returns the board's HTTP API:
//
//	GET    /                 page with the live board
//	GET    /items            rows in order
//	POST   /items            append {"id"?, "label"}
//	POST   /items/prepend    prepend {"id"?, "label"}
//	DELETE /items/{id}       remove
//	PATCH  /items/{id}       rename {"label"}
//	POST   /items/{id}/move  move {"to"}
//	POST   /swap             swap {"i", "j"}
//	POST   /reverse, /shuffle, /clear
//	GET    /stats            pass statistics
//	GET    /ws               frame stream
func NewRouter(board *Board, hub *Hub, config RouterConfig) http.Handler {
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	h := &handlers{board: board, hub: hub}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(config.Logger.With("component", "http")))
	r.Use(config.Middlewares...)

	r.Get("/", h.page)
	r.Get("/ws", h.ws)
	r.Get("/stats", h.stats)

	r.Route("/items", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.add(false))
		r.Post("/prepend", h.add(true))
		r.Delete("/{id}", h.remove)
		r.Patch("/{id}", h.rename)
		r.Post("/{id}/move", h.move)
	})

	r.Post("/swap", h.swap)
	r.Post("/reverse", h.simple(board.Reverse))
	r.Post("/shuffle", h.simple(board.Shuffle))
	r.Post("/clear", h.simple(board.Clear))

	if config.Metrics != nil {
		r.Handle(config.MetricsPath, config.Metrics)
	}

	return r
}

// requestLogger logs each request with its status and duration.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

type handlers struct {
	board *Board
	hub   *Hub
}

func (h *handlers) page(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, strings.Replace(pageTemplate, "{{board}}", h.board.HTML(), 1))
}

func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
	h.hub.HandleWebSocket(w, r, h.board.Frame)
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	s, err := h.board.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.board.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *handlers) add(front bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var item Item
		if err := decode(r, &item); err != nil {
			writeError(w, err)
			return
		}

		var err error
		if front {
			item, err = h.board.Prepend(r.Context(), item)
		} else {
			item, err = h.board.Append(r.Context(), item)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, item)
	}
}

func (h *handlers) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.board.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) rename(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Label string `json:"label"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.board.Rename(r.Context(), id, body.Label); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Item{ID: id, Label: body.Label})
}

func (h *handlers) move(w http.ResponseWriter, r *http.Request) {
	var body struct {
		To *int `json:"to"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if body.To == nil {
		writeError(w, errors.New("E405").WithDetail("missing \"to\""))
		return
	}

	if err := h.board.Move(r.Context(), chi.URLParam(r, "id"), *body.To); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) swap(w http.ResponseWriter, r *http.Request) {
	var body struct {
		I int `json:"i"`
		J int `json:"j"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := h.board.Swap(r.Context(), body.I, body.J); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) simple(op func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := op(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("E405").WithDetail("Invalid JSON body").Wrap(err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// errorBody is the JSON shape of a failed request.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeError maps board errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	e := errors.FromError(err, "E405")

	status := http.StatusInternalServerError
	switch e.Code {
	case "E401":
		status = http.StatusServiceUnavailable
	case "E402":
		status = http.StatusNotFound
	case "E403", "E404":
		status = http.StatusConflict
	case "E405":
		status = http.StatusBadRequest
	}

	writeJSON(w, status, errorBody{Code: e.Code, Message: e.Message, Detail: e.Detail})
}
