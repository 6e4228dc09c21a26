// Package dispatch implements the subscription table that fans inbound
// frames out to typed handlers.
//
// A channel owns exactly one dispatch goroutine, so handlers see frames
// strictly in receipt order with no batching or reordering. The table itself
// only guards registration: two channels in one process share nothing.
package dispatch
