// Package middleware provides HTTP observability for the live board server.
//
// Prometheus collects request counts and latency per chi route pattern,
// together with websocket client and frame counters fed by the hub.
// OpenTelemetry opens one server span per request.
//
// Both are plain func(http.Handler) http.Handler middlewares, so they can
// be installed with chi's Use:
//
//	m := middleware.Prometheus(middleware.WithRegistry(reg))
//	r.Use(m.Handler)
//	r.Use(middleware.OpenTelemetry(middleware.WithTracerName("keyed")))
//
// Route labels use the matched pattern ("/items/{id}"), never the raw path,
// so label cardinality stays bounded.
package middleware
