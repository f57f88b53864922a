package diff

import "fmt"

// ApplyError reports a script that does not fit the collection it was applied to.
type ApplyError struct {
	// Op is the edit that could not be applied, if any.
	Op *Op

	// Reason describes the mismatch.
	Reason string
}

func (e *ApplyError) Error() string {
	if e.Op != nil {
		return fmt.Sprintf("cannot apply %s: %s", e.Op, e.Reason)
	}
	return "cannot apply script: " + e.Reason
}

// Apply replays s against old and returns the resulting collection.
//
// Inserted and updated elements are taken from next at their To index; stable and
// moved elements keep the value they had in old. The result therefore matches next
// element-for-element wherever the payloads compare equal.
func Apply[T any](old []T, s Script, next []T) ([]T, error) {
	size := len(old) - len(s.Deletes) + len(s.Inserts)
	if size != len(next) {
		return nil, &ApplyError{Reason: fmt.Sprintf("script yields %d items, expected %d", size, len(next))}
	}

	result := make([]T, size)
	filled := make([]bool, size)
	detached := make([]bool, len(old))

	for _, op := range s.Deletes {
		if op.From < 0 || op.From >= len(old) || detached[op.From] {
			return nil, &ApplyError{Op: &op, Reason: "old index out of range or already removed"}
		}
		detached[op.From] = true
	}

	for _, op := range s.Inserts {
		if op.To < 0 || op.To >= size || filled[op.To] {
			return nil, &ApplyError{Op: &op, Reason: "target slot out of range or taken"}
		}
		result[op.To] = next[op.To]
		filled[op.To] = true
	}

	for _, op := range s.Moves {
		if op.From < 0 || op.From >= len(old) || detached[op.From] {
			return nil, &ApplyError{Op: &op, Reason: "old index out of range or already removed"}
		}
		if op.To < 0 || op.To >= size || filled[op.To] {
			return nil, &ApplyError{Op: &op, Reason: "target slot out of range or taken"}
		}
		detached[op.From] = true
		result[op.To] = old[op.From]
		filled[op.To] = true
	}

	// Survivors keep their relative order and fill the gaps.
	slot := 0
	for i, item := range old {
		if detached[i] {
			continue
		}
		for slot < size && filled[slot] {
			slot++
		}
		if slot == size {
			return nil, &ApplyError{Reason: "more surviving items than free slots"}
		}
		result[slot] = item
		filled[slot] = true
	}
	for i, ok := range filled {
		if !ok {
			return nil, &ApplyError{Reason: fmt.Sprintf("slot %d left empty", i)}
		}
	}

	for _, op := range s.Updates {
		if op.To < 0 || op.To >= size {
			return nil, &ApplyError{Op: &op, Reason: "target slot out of range"}
		}
		result[op.To] = next[op.To]
	}

	return result, nil
}
