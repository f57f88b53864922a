// Package view provides view adapters for the render scheduler.
//
//   - ListView: an in-memory live view that patches its own content and fails when
//     a script does not fit it.
//   - LogAdapter: writes each change to a zap logger, one entry per change.
//   - Tee: applies to a primary view and mirrors successful applications to
//     secondary sinks such as a journal or an object store.
package view
