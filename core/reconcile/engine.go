package reconcile

import (
	"surface-renderer/core/diff"
)

// Reconcile computes the nested edit script transforming old into next.
//
// next is validated first; a *KeyError is returned without a script when keys repeat.
// old is trusted to be a previously validated collection. Neither slice is modified.
func Reconcile(old, next []Section) (*EditScript, error) {
	if err := Validate(next); err != nil {
		return nil, err
	}

	script := &EditScript{
		Sections: diff.Compute(old, next, sectionKey, sameHeader),
	}

	oldIndex := make(map[string]int, len(old))
	for i, s := range old {
		oldIndex[s.Key] = i
	}

	// Row diffs only for sections present on both sides; inserted sections arrive
	// with their rows and deleted sections take theirs with them.
	for j, s := range next {
		i, ok := oldIndex[s.Key]
		if !ok {
			continue
		}
		rows := diff.Compute(old[i].Rows, s.Rows, rowKey, rowsEqual)
		if rows.IsEmpty() {
			continue
		}
		script.Rows = append(script.Rows, RowScript{
			SectionKey: s.Key,
			OldSection: i,
			NewSection: j,
			Script:     rows,
		})
	}

	return script, nil
}

// Count returns the total number of edits across both levels.
func (s *EditScript) Count() int {
	n := s.Sections.Len()
	for _, rs := range s.Rows {
		n += rs.Script.Len()
	}
	return n
}

// IsEmpty reports whether the two collections were equivalent.
func (s *EditScript) IsEmpty() bool {
	return s.Count() == 0
}

// Summary returns per-level edit counts.
func (s *EditScript) Summary() Summary {
	sum := Summary{
		SectionDeletes: len(s.Sections.Deletes),
		SectionInserts: len(s.Sections.Inserts),
		SectionMoves:   len(s.Sections.Moves),
		SectionUpdates: len(s.Sections.Updates),
	}
	for _, rs := range s.Rows {
		sum.RowDeletes += len(rs.Script.Deletes)
		sum.RowInserts += len(rs.Script.Inserts)
		sum.RowMoves += len(rs.Script.Moves)
		sum.RowUpdates += len(rs.Script.Updates)
	}
	return sum
}
