package reconcile

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrDuplicateKey is matched by every *KeyError.
var ErrDuplicateKey = errors.New("duplicate key")

// Duplicate lists repeated keys within one scope.
type Duplicate struct {
	// Level is LevelSection for repeated section keys and LevelRow for rows
	// repeating within one section.
	Level Level `json:"level"`

	// Section is the key of the section whose rows repeat. It is unset for
	// section-level duplicates.
	Section string `json:"section,omitempty"`

	// Keys lists each repeated key once, sorted.
	Keys []string `json:"keys"`
}

// KeyError reports a collection violating key uniqueness.
type KeyError struct {
	// Duplicates lists every offending scope. Section-level duplicates come first,
	// followed by row-level duplicates in section order.
	Duplicates []Duplicate `json:"duplicates"`
}

func (e *KeyError) Error() string {
	parts := make([]string, 0, len(e.Duplicates))
	for _, d := range e.Duplicates {
		if d.Level == LevelSection {
			parts = append(parts, fmt.Sprintf("sections %v", d.Keys))
		} else {
			parts = append(parts, fmt.Sprintf("rows %v in section %q", d.Keys, d.Section))
		}
	}
	return "duplicate keys: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrDuplicateKey) succeed.
func (e *KeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// Validate checks that section keys are unique and that row keys are unique within
// each section. It returns a *KeyError naming every violation.
func Validate(sections []Section) error {
	var dups []Duplicate

	if keys := duplicates(len(sections), func(i int) string { return sections[i].Key }); len(keys) > 0 {
		dups = append(dups, Duplicate{Level: LevelSection, Keys: keys})
	}
	for _, s := range sections {
		rows := s.Rows
		if keys := duplicates(len(rows), func(i int) string { return rows[i].Key }); len(keys) > 0 {
			dups = append(dups, Duplicate{Level: LevelRow, Section: s.Key, Keys: keys})
		}
	}

	if len(dups) > 0 {
		return &KeyError{Duplicates: dups}
	}
	return nil
}

func duplicates(n int, key func(int) string) []string {
	seen := make(map[string]int, n)
	for i := 0; i < n; i++ {
		seen[key(i)]++
	}
	var out []string
	for k, count := range seen {
		if count > 1 {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
