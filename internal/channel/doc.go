// Package channel implements the live-update channel client.
//
// A Channel owns one logical JSON-over-WebSocket connection to a dashboard
// endpoint. Inbound frames are routed by their "type" field to subscribed
// handlers, strictly in receipt order, on a single dispatch goroutine.
//
// Reconnect policy: after an unexpected drop the channel waits a fixed,
// configured delay and dials again, indefinitely. There is no backoff and no
// retry cap. An explicit Close suppresses reconnection permanently.
package channel
