// Package api exposes the game service over HTTP and WebSocket.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions                         create ({"config_id": "classic"})
//   - GET    /api/sessions?sort=accessed|created&order=desc|asc&limit=N
//   - GET    /api/sessions/{id}
//   - DELETE /api/sessions/{id}
//
// Play:
//   - GET  /api/sessions/{id}/view                current View
//   - POST /api/sessions/{id}/frame               FrameRequest: commands, pointer, wheel, dt_ms
//   - POST /api/sessions/{id}/command             {"command": "up"}; applies one command with no time passing
//   - POST /api/sessions/{id}/start               {"mode": "experimental", "loadout": ["turn-buffer"]}
//
// Progression:
//   - GET /api/sessions/{id}/leaderboard/{mode}
//   - GET /api/sessions/{id}/profile
//   - PUT /api/sessions/{id}/settings/replay      {"enabled": true}
//   - GET /api/runs/top?mode=challenge&limit=10   archived runs across sessions
//
// Configuration:
//   - GET  /api/configs
//   - GET  /api/configs/{name}
//   - POST /api/configs
//
// Live updates:
//   - GET /ws?session={id}
//
// Every successful frame or run start is broadcast to the session's
// websocket clients as a "view" message, followed by an "events" message
// when something happened. Clients may send FrameRequest JSON over the
// socket instead of POSTing it.
//
// Errors are JSON bodies of the form {"error": "...", "code": 404}. Missing
// sessions or configs map to 404, bad commands and configs to 400, starting
// over a live run to 409 and a disabled run archive to 503.
package api
