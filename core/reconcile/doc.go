// Package reconcile computes and applies two-level edit scripts for keyed section/row
// collections.
//
// A UI surface is described as an ordered list of sections, each holding an ordered
// list of rows. Both carry a string key and a State payload. Reconcile compares the
// last applied description with a new one and returns the minimal set of deletes,
// inserts, moves and updates that turns one into the other, preserving the identity
// of everything that did not change.
//
// # Architecture
//
// The package consists of four parts:
//
// 1. Engine: Reconcile runs the diff engine (core/diff) on sections, then once per
// section present on both sides to produce row-level scripts. Sections whose State or
// Style changed get a section update and keep their own row diff.
//
// 2. Plan: EditScript.Changes flattens the nested script into the order a live view
// must apply it (row deletes, section deletes, section inserts, row inserts, moves,
// updates).
//
// 3. Adapter: the contract a live view implements. Whole-script adapters implement
// Adapter directly; fine-grained views implement Mutator and are wrapped with Steps.
// Reloader marks adapters able to replace their content wholesale.
//
// 4. Apply: a reference application of a script to an in-memory collection, used by
// in-memory views and to verify that applying diff(A, B) to A yields B.
//
// # Keys
//
// Section keys must be unique within a collection and row keys unique within their
// section. Validate reports every violation as a *KeyError, matched by
// errors.Is(err, ErrDuplicateKey).
//
// # Payloads
//
// State is a single-method interface. Value wraps comparable values, Handled pairs a
// value with a callback that equality ignores, and JSON holds canonical JSON for
// payloads decoded from documents.
//
// # Usage Example
//
//	script, err := reconcile.Reconcile(current, next)
//	if err != nil {
//	    return err // *reconcile.KeyError
//	}
//	if !script.IsEmpty() {
//	    err = adapter.Apply(ctx, script, next)
//	}
package reconcile
