// Package ws implements the WebSocket hub for hydrosense-server.
//
// Hub manages a set of connected dashboard clients and broadcasts the
// current units overview to all of them on a configurable interval
// (default 5s in production).
//
// New(service, interval) creates a Hub.
// Hub.Run(ctx) starts the broadcast ticker — blocks until ctx is cancelled,
// then closes all active connections.
// Hub.ServeHTTP upgrades an HTTP connection to WebSocket, sends the current
// overview immediately on connect, then streams updates on each tick.
//
// Message format sent to clients:
//
//	{
//	  "event": "overview",
//	  "data":  { /* same schema as GET /api/v1/units */ }
//	}
//
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level. WebSocket endpoint is mounted at /ws/overview by the server.
package ws
