// Package live serves a keyed list over HTTP and websockets.
//
// A Board owns one keyed.List rendered into a dom.Document. All mutations
// are submitted as tasks to the board's own goroutine, which runs each task
// to completion, lets the list reconcile, and publishes the rendered HTML
// as a Frame. The Hub fans frames out to websocket clients, and the Router
// exposes the board operations as a small JSON API.
//
//	hub := live.NewHub(logger)
//	board := live.NewBoard(live.BoardConfig{Seed: []string{"a", "b"}, OnRender: hub.Broadcast})
//	defer board.Close()
//
//	http.ListenAndServe(":3000", live.NewRouter(board, hub, live.RouterConfig{}))
package live
