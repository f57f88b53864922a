package diff

import "fmt"

// OpType identifies the kind of structural edit.
type OpType string

const (
	// OpDelete removes an element present only in the old collection.
	OpDelete OpType = "delete"
	// OpInsert adds an element present only in the new collection.
	OpInsert OpType = "insert"
	// OpMove relocates a common element that is not part of the stable subsequence.
	OpMove OpType = "move"
	// OpUpdate replaces the payload of a common element whose payload changed.
	OpUpdate OpType = "update"
)

// Op is a single edit. Unused indices are -1.
type Op struct {
	// Type is the kind of edit.
	Type OpType `json:"type"`

	// Key identifies the element the edit applies to.
	Key string `json:"key"`

	// From is the index in the old collection (delete, move, update).
	From int `json:"from"`

	// To is the index in the resulting collection (insert, move, update).
	To int `json:"to"`
}

// String renders the op in a compact, log-friendly form.
func (o Op) String() string {
	switch o.Type {
	case OpDelete:
		return fmt.Sprintf("delete(%s@%d)", o.Key, o.From)
	case OpInsert:
		return fmt.Sprintf("insert(%s@%d)", o.Key, o.To)
	default:
		return fmt.Sprintf("%s(%s %d->%d)", o.Type, o.Key, o.From, o.To)
	}
}

// Script is the result of comparing two keyed collections.
// Deletes are sorted by descending From; inserts, moves and updates by ascending To.
type Script struct {
	// Deletes lists removed elements, highest old index first.
	Deletes []Op `json:"deletes"`

	// Inserts lists added elements, lowest new index first.
	Inserts []Op `json:"inserts"`

	// Moves lists relocated elements, lowest new index first.
	Moves []Op `json:"moves"`

	// Updates lists elements whose payload changed, lowest new index first.
	Updates []Op `json:"updates"`
}

// Len returns the total number of edits.
func (s Script) Len() int {
	return len(s.Deletes) + len(s.Inserts) + len(s.Moves) + len(s.Updates)
}

// IsEmpty reports whether the two collections were equivalent.
func (s Script) IsEmpty() bool {
	return s.Len() == 0
}

// Ops returns every edit in application order: deletes, inserts, moves, updates.
func (s Script) Ops() []Op {
	ops := make([]Op, 0, s.Len())
	ops = append(ops, s.Deletes...)
	ops = append(ops, s.Inserts...)
	ops = append(ops, s.Moves...)
	ops = append(ops, s.Updates...)
	return ops
}
