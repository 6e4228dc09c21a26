// Package view holds the dashboard controllers: explicitly constructed,
// explicitly disposed state owners that bind handlers onto a live channel
// and expose snapshots for rendering.
//
// Views never render; the surrounding UI reads snapshots. Every Bind
// records its disposers and Close runs them, so handler lifetime is tied to
// the view's lifetime rather than the channel's.
package view
