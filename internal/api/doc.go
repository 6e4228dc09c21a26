// Package api provides the dashboard REST client.
//
// These endpoints serve initial state before the live channels take over
// incremental updates:
//   - GET  /api/rooms and /api/rooms/{id}/messages
//   - POST /api/rooms/{id}/messages
//   - GET  /api/trading/status, /api/training/status, /api/health
package api
