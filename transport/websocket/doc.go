// Package websocket pushes live session views to browser and desktop clients.
//
// A single Hub owns every connection. Clients attach to one session with
// ?session=<id>; anything the server broadcasts for that session (the
// post-frame View, run events) is fanned out to each attached client as a
// JSON Message.
//
// Clients may also send input frames over the same connection. The hub
// hands the raw payload to the InboundHandler configured with WithInbound;
// the API server decodes it as a service.FrameRequest, applies it and
// broadcasts the resulting view.
//
//	hub := websocket.NewHub(websocket.WithInbound(handler))
//	go hub.Run(ctx)
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Only Run touches the client registry. Broadcasts are queued and dropped
// with a warning when the queue is full; a client whose send buffer fills
// up is disconnected.
package websocket
