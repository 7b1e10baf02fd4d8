// Package observe provides keyed.Observer implementations for production
// monitoring of list reconciliation.
//
// Prometheus counts rows created, removed and moved, and times every pass:
//
//	list := keyed.New(doc, props, keyed.WithObserver(observe.Prometheus()))
//
// Tracing opens one OpenTelemetry span per pass, using the global tracer
// provider unless another is supplied:
//
//	obs := observe.Multi(
//	    observe.Prometheus(observe.WithNamespace("board")),
//	    observe.Tracing(observe.WithTracerName("board")),
//	)
package observe
