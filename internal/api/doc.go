// Package api implements the local HTTP control plane for the busylight daemon.
//
// This package provides:
//   - The command surface: every /v1/busylight/... path is a command
//   - REST endpoints for rule CRUD and per-rule activity metrics
//   - WebSocket hub broadcasting state changes to connected clients
//   - Middleware stack (request ID, logging, recovery, body limit)
//
// # Architecture
//
// The server is the sole write path into the decision engine. Menu bar
// apps, shell scripts and browser extensions hit the command paths;
// richer clients manage rules over the REST surface and follow live
// state over the WebSocket.
//
//	curl localhost:8990/v1/busylight/red
//	curl localhost:8990/v1/busylight/hex/%23ff00aa/pulse/500
//	curl localhost:8990/v1/busylight/auto
//
// # Security
//
// The listener binds to loopback by default; there is no authentication
// layer. Anything that can reach the socket may drive the light.
//
// # Graceful Degradation
//
// The server operates without MQTT: commands and rule CRUD work, only
// the retained state publication is skipped.
package api
