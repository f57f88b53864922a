package reconcile

import (
	"sort"

	"surface-renderer/core/diff"
)

// Changes flattens the script into the order a live view must apply it:
//
//  1. row deletes (old section index descending, row descending)
//  2. section deletes (descending)
//  3. section inserts (ascending)
//  4. row inserts (new section index ascending, row ascending)
//  5. section moves, then row moves
//  6. section updates, then row updates
//
// next is the collection the script was computed for; inserts and updates point into
// it. A nil next yields changes without payloads.
func (s *EditScript) Changes(next []Section) []Change {
	out := make([]Change, 0, s.Count())

	byOld := make([]RowScript, len(s.Rows))
	copy(byOld, s.Rows)
	sort.SliceStable(byOld, func(a, b int) bool { return byOld[a].OldSection > byOld[b].OldSection })

	for _, rs := range byOld {
		for _, op := range rs.Script.Deletes {
			out = append(out, rowChange(rs, op, Path{rs.OldSection, op.From}, noPath, next))
		}
	}
	for _, op := range s.Sections.Deletes {
		out = append(out, sectionChange(op, Path{op.From, -1}, noPath, next))
	}
	for _, op := range s.Sections.Inserts {
		out = append(out, sectionChange(op, noPath, Path{op.To, -1}, next))
	}
	for _, rs := range s.Rows {
		for _, op := range rs.Script.Inserts {
			out = append(out, rowChange(rs, op, noPath, Path{rs.NewSection, op.To}, next))
		}
	}
	for _, op := range s.Sections.Moves {
		out = append(out, sectionChange(op, Path{op.From, -1}, Path{op.To, -1}, next))
	}
	for _, rs := range s.Rows {
		for _, op := range rs.Script.Moves {
			out = append(out, rowChange(rs, op, Path{rs.OldSection, op.From}, Path{rs.NewSection, op.To}, next))
		}
	}
	for _, op := range s.Sections.Updates {
		out = append(out, sectionChange(op, Path{op.From, -1}, Path{op.To, -1}, next))
	}
	for _, rs := range s.Rows {
		for _, op := range rs.Script.Updates {
			out = append(out, rowChange(rs, op, Path{rs.OldSection, op.From}, Path{rs.NewSection, op.To}, next))
		}
	}

	return out
}

func sectionChange(op diff.Op, from, to Path, next []Section) Change {
	c := Change{
		Op:         op.Type,
		Level:      LevelSection,
		SectionKey: op.Key,
		Key:        op.Key,
		From:       from,
		To:         to,
	}
	if (op.Type == diff.OpInsert || op.Type == diff.OpUpdate) && op.To >= 0 && op.To < len(next) {
		c.Section = &next[op.To]
	}
	return c
}

func rowChange(rs RowScript, op diff.Op, from, to Path, next []Section) Change {
	c := Change{
		Op:         op.Type,
		Level:      LevelRow,
		SectionKey: rs.SectionKey,
		Key:        op.Key,
		From:       from,
		To:         to,
	}
	if op.Type != diff.OpInsert && op.Type != diff.OpUpdate {
		return c
	}
	if rs.NewSection >= 0 && rs.NewSection < len(next) {
		rows := next[rs.NewSection].Rows
		if op.To >= 0 && op.To < len(rows) {
			c.Row = &rows[op.To]
		}
	}
	return c
}

// DebugInfo returns the script grouped by level and operation with positions rendered
// as "section" or "section,row"; moves render as "from->to".
func (s *EditScript) DebugInfo() map[Level]map[diff.OpType][]string {
	info := map[Level]map[diff.OpType][]string{
		LevelSection: {},
		LevelRow:     {},
	}
	for _, c := range s.Changes(nil) {
		var pos string
		switch c.Op {
		case diff.OpDelete:
			pos = c.From.String()
		case diff.OpInsert, diff.OpUpdate:
			pos = c.To.String()
		case diff.OpMove:
			pos = c.From.String() + "->" + c.To.String()
		}
		info[c.Level][c.Op] = append(info[c.Level][c.Op], pos)
	}
	return info
}
