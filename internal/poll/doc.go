// Package poll implements the REST polling half of the dashboards: periodic
// status fetches with bounded concurrency, covering the ground between live
// channel updates.
package poll
