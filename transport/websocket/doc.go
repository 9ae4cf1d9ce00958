// Package websocket pushes live board updates to browser clients.
//
// A central Hub owns every connection. Clients attach to one session with
// the ?session= query parameter and receive a Message whenever that session's
// board changes:
//
//	{"session_id": "ab12cd34", "board_state": {...}, "event": "state_update"}
//
// Clients may also send {"action": "move", "direction": "up"}; the hub hands
// such requests to the MessageHandler installed with SetMessageHandler.
//
// Usage:
//
//	hub := websocket.NewHub()
//	hub.SetMessageHandler(handle)
//	go hub.Run(ctx)
//
//	hub.BroadcastToSession(sessionID, state)
//
// Registration, removal and fan-out all happen on the Run goroutine. A client
// whose send buffer is full is dropped rather than blocking the others.
package websocket
