// Package api provides the HTTP REST API for gridpush.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session ({"level_id": "classic"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/unified - Several sessions at once (?sessionIds=a,b or ?levelId=x)
//   - GET /api/sessions/{id} - Get one session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Board:
//   - GET /api/sessions/{id}/state - Current board state
//   - POST /api/sessions/{id}/move - Move every mover ({"direction": "up", "reset": false})
//   - POST /api/sessions/{id}/occupants/{oid}/move - Move a single occupant
//   - POST /api/sessions/{id}/bulk-move - Several moves ({"moves": ["up", "left"]})
//   - POST /api/sessions/{id}/reset - Restore the starting layout
//   - GET /api/sessions/{id}/history - Paginated move history (?page=1&limit=20&order=desc)
//   - POST /api/sessions/{id}/solve - Search for the remaining moves ({"max_states": 100000})
//
// Levels:
//   - GET /api/levels - List levels
//   - GET /api/levels/{name} - Get a level
//   - POST /api/levels - Save a level
//
// Other:
//   - GET /api/health - Health check
//   - GET /ws?session={id} - WebSocket board updates
//
// Errors are returned as {"error": "..."} with 400 for malformed input, 404
// for unknown sessions, occupants and levels, and 500 otherwise.
package api
