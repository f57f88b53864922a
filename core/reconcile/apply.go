package reconcile

import (
	"fmt"

	"surface-renderer/core/diff"
)

// Apply replays script against old and returns the resulting collection.
//
// Sections and rows that were neither inserted nor updated keep their old values, so
// the result matches next wherever payloads compare equal. A script that does not fit
// old returns an *ApplyError.
func Apply(old []Section, script *EditScript, next []Section) ([]Section, error) {
	result, err := diff.Apply(old, script.Sections, next)
	if err != nil {
		return nil, &ApplyError{Level: LevelSection, Err: err}
	}

	for _, rs := range script.Rows {
		if rs.OldSection < 0 || rs.OldSection >= len(old) || rs.NewSection < 0 || rs.NewSection >= len(result) {
			return nil, &ApplyError{
				Level:      LevelRow,
				SectionKey: rs.SectionKey,
				Err:        fmt.Errorf("section index %d->%d out of range", rs.OldSection, rs.NewSection),
			}
		}
		if result[rs.NewSection].Key != rs.SectionKey || old[rs.OldSection].Key != rs.SectionKey {
			return nil, &ApplyError{
				Level:      LevelRow,
				SectionKey: rs.SectionKey,
				Err:        fmt.Errorf("section key mismatch at %d->%d", rs.OldSection, rs.NewSection),
			}
		}

		rows, err := diff.Apply(old[rs.OldSection].Rows, rs.Script, next[rs.NewSection].Rows)
		if err != nil {
			return nil, &ApplyError{Level: LevelRow, SectionKey: rs.SectionKey, Err: err}
		}

		section := result[rs.NewSection]
		section.State = next[rs.NewSection].State
		section.Style = next[rs.NewSection].Style
		section.Rows = rows
		result[rs.NewSection] = section
	}

	return result, nil
}
