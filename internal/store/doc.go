// Package store persists the live event stream.
//
// Every inbound channel frame is mirrored into the channel_events table via
// a batched pgx writer: a non-blocking growable buffer on the dispatch side,
// a flush loop on the database side.
package store
