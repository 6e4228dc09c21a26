// Package event defines the JSON wire format shared by the dashboard
// WebSocket endpoints.
//
// Every frame is an envelope of the form {"type": <string>, ...fields}.
// There is no versioning field: unknown types are ignored by consumers, so
// adding types is backward compatible, but renaming fields within a type is
// a silent break.
package event
