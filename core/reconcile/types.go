package reconcile

import (
	"fmt"

	"surface-renderer/core/diff"
)

// State is the payload carried by a row or section.
// The reconciler never inspects a State beyond Equal; equality is the only signal
// separating an update from a no-op.
type State interface {
	// Equal reports whether other carries the same visible content.
	// It must be reflexive, symmetric and transitive for a given concrete type.
	Equal(other State) bool
}

// statesEqual compares two payloads, treating nil as equal only to nil.
func statesEqual(a, b State) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// Row is a keyed leaf item inside a section.
type Row struct {
	// Key identifies the row within its section.
	Key string `json:"key"`

	// State is the row payload.
	State State `json:"state,omitempty"`
}

// Section is a keyed group of rows.
type Section struct {
	// Key identifies the section within the collection.
	Key string `json:"key"`

	// State is the section payload (header, footer and similar content).
	State State `json:"state,omitempty"`

	// Style is the section presentation payload. It is compared like State.
	Style State `json:"style,omitempty"`

	// Rows is the ordered row collection.
	Rows []Row `json:"rows"`
}

// sameHeader compares section payloads only; rows are diffed separately.
func sameHeader(a, b Section) bool {
	return statesEqual(a.State, b.State) && statesEqual(a.Style, b.Style)
}

func sectionKey(s Section) string { return s.Key }
func rowKey(r Row) string { return r.Key }
func rowsEqual(a, b Row) bool { return statesEqual(a.State, b.State) }

// Level tells whether a change addresses a section or a row.
type Level string

const (
	// LevelSection marks section-level changes.
	LevelSection Level = "section"
	// LevelRow marks row-level changes.
	LevelRow Level = "row"
)

// Path addresses a section (Row == -1) or a row inside a section.
type Path struct {
	// Section is the section index.
	Section int `json:"section"`

	// Row is the row index, or -1 for the section itself.
	Row int `json:"row"`
}

// String renders the path as "section,row" or "section".
func (p Path) String() string {
	if p.Row < 0 {
		return fmt.Sprintf("%d", p.Section)
	}
	return fmt.Sprintf("%d,%d", p.Section, p.Row)
}

// noPath marks an unused side of a change.
var noPath = Path{Section: -1, Row: -1}

// RowScript is the row-level edit script of one section present in both collections.
type RowScript struct {
	// SectionKey identifies the section.
	SectionKey string `json:"section_key"`

	// OldSection is the section index in the old collection.
	OldSection int `json:"old_section"`

	// NewSection is the section index in the new collection.
	NewSection int `json:"new_section"`

	// Script holds the row edits. Delete.From indexes the old rows, all other
	// targets index the new rows.
	Script diff.Script `json:"script"`
}

// EditScript is the complete nested transformation between two section collections.
type EditScript struct {
	// Sections holds the section-level edits.
	Sections diff.Script `json:"sections"`

	// Rows holds row-level scripts ordered by new section index.
	// Sections without row changes are omitted.
	Rows []RowScript `json:"rows"`
}

// Summary provides aggregate counts for an edit script.
type Summary struct {
	// SectionDeletes counts removed sections.
	SectionDeletes int `json:"section_deletes"`
	// SectionInserts counts added sections.
	SectionInserts int `json:"section_inserts"`
	// SectionMoves counts relocated sections.
	SectionMoves int `json:"section_moves"`
	// SectionUpdates counts sections whose payload changed.
	SectionUpdates int `json:"section_updates"`
	// RowDeletes counts removed rows.
	RowDeletes int `json:"row_deletes"`
	// RowInserts counts added rows.
	RowInserts int `json:"row_inserts"`
	// RowMoves counts relocated rows.
	RowMoves int `json:"row_moves"`
	// RowUpdates counts rows whose payload changed.
	RowUpdates int `json:"row_updates"`
}

// Total returns the number of edits across both levels.
func (s Summary) Total() int {
	return s.SectionDeletes + s.SectionInserts + s.SectionMoves + s.SectionUpdates +
		s.RowDeletes + s.RowInserts + s.RowMoves + s.RowUpdates
}

// Change is one flattened edit, in the form handed to fine-grained view adapters.
type Change struct {
	// Op is the kind of edit.
	Op diff.OpType `json:"op"`

	// Level tells whether a section or a row changes.
	Level Level `json:"level"`

	// SectionKey is the key of the affected section (or the row's section).
	SectionKey string `json:"section_key"`

	// Key is the row key for row-level changes, the section key otherwise.
	Key string `json:"key"`

	// From is the position before the edit (delete, move, update).
	From Path `json:"from"`

	// To is the position after the edit (insert, move, update).
	To Path `json:"to"`

	// Section is the new section for section inserts and updates.
	Section *Section `json:"-"`

	// Row is the new row for row inserts and updates.
	Row *Row `json:"-"`
}

// String renders the change for logs.
func (c Change) String() string {
	switch c.Op {
	case diff.OpDelete:
		return fmt.Sprintf("%s %s %s@%s", c.Op, c.Level, c.Key, c.From)
	case diff.OpInsert:
		return fmt.Sprintf("%s %s %s@%s", c.Op, c.Level, c.Key, c.To)
	default:
		return fmt.Sprintf("%s %s %s %s->%s", c.Op, c.Level, c.Key, c.From, c.To)
	}
}
