// Package journal keeps a history of the scripts committed to each surface.
//
// Every successful application becomes one row of the render_journal table, keyed by
// a ULID so entries sort by creation time. The row holds the operation counts and
// the ordered list of changes in their textual form.
//
// The journal plugs into a surface as a view sink, see For.
package journal
