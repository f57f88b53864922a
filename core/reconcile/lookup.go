package reconcile

// ItemPath addresses a row by keys rather than indices.
type ItemPath struct {
	// SectionKey is the key of the section.
	SectionKey string `json:"section_key"`

	// RowKey is the key of the row within the section.
	RowKey string `json:"row_key"`
}

// String renders the path as "section.row".
func (p ItemPath) String() string {
	return p.SectionKey + "." + p.RowKey
}

// IndexOf returns the index path of p in sections.
func IndexOf(sections []Section, p ItemPath) (Path, bool) {
	for si, s := range sections {
		if s.Key != p.SectionKey {
			continue
		}
		for ri, r := range s.Rows {
			if r.Key == p.RowKey {
				return Path{Section: si, Row: ri}, true
			}
		}
		return Path{}, false
	}
	return Path{}, false
}

// ItemPathAt returns the key path of the row at index path p.
func ItemPathAt(sections []Section, p Path) (ItemPath, bool) {
	if p.Section < 0 || p.Section >= len(sections) {
		return ItemPath{}, false
	}
	s := sections[p.Section]
	if p.Row < 0 || p.Row >= len(s.Rows) {
		return ItemPath{}, false
	}
	return ItemPath{SectionKey: s.Key, RowKey: s.Rows[p.Row].Key}, true
}

// FindRow returns the row addressed by p.
func FindRow(sections []Section, p ItemPath) (Row, bool) {
	idx, ok := IndexOf(sections, p)
	if !ok {
		return Row{}, false
	}
	return sections[idx.Section].Rows[idx.Row], true
}

// PathForRowKey returns the key path of the first row with the given key, scanning
// sections in order.
func PathForRowKey(sections []Section, rowKey string) (ItemPath, bool) {
	for _, s := range sections {
		for _, r := range s.Rows {
			if r.Key == rowKey {
				return ItemPath{SectionKey: s.Key, RowKey: r.Key}, true
			}
		}
	}
	return ItemPath{}, false
}
