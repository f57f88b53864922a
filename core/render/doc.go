// Package render schedules reconciliations against a live view.
//
// A Scheduler owns the snapshot of the last applied collection and a single worker
// goroutine. Render validates keys, stores the request in a one-slot pending buffer
// and returns. The worker diffs the pending request against the snapshot, hands the
// script to the view adapter and commits the snapshot once the adapter succeeds, then
// picks up whatever arrived meanwhile. Requests that are replaced before the worker
// reaches them are never applied.
//
// # States
//
//	Idle -> Diffing -> Applying -> Idle
//
// A pending flag runs alongside. An empty script skips Applying entirely.
//
// # Reload Fallback
//
// When the adapter implements reconcile.Reloader and either the snapshot is empty or
// the script is larger than Config.ReloadThreshold, Reload is called instead of Apply.
//
// # Failures
//
// Adapter errors go to the ErrorHandler and the log. The snapshot is left untouched and
// the scheduler moves on; nothing is retried.
package render
