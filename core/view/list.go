package view

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"surface-renderer/core/reconcile"
)

// ErrDetached is returned once a view has been detached from its surface.
var ErrDetached = errors.New("view detached")

// ListView is an in-memory live view. It applies scripts to its own content and
// rejects scripts that do not fit that content.
type ListView struct {
	name string

	mu       sync.RWMutex
	sections []reconcile.Section
	detached bool
	applies  int
	reloads  int
}

// NewListView creates an empty view.
func NewListView(name string) *ListView {
	return &ListView{name: name}
}

// Name returns the view name.
func (v *ListView) Name() string {
	return v.name
}

// Apply patches the view content with script.
func (v *ListView) Apply(ctx context.Context, script *reconcile.EditScript, next []reconcile.Section) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.detached {
		return &reconcile.ApplyError{Adapter: v.name, Err: ErrDetached}
	}

	result, err := reconcile.Apply(v.sections, script, next)
	if err != nil {
		var applyErr *reconcile.ApplyError
		if errors.As(err, &applyErr) {
			applyErr.Adapter = v.name
		}
		return err
	}
	if err := sameLayout(result, next); err != nil {
		return &reconcile.ApplyError{Adapter: v.name, Err: err}
	}

	v.sections = result
	v.applies++
	return nil
}

// Reload replaces the view content with next.
func (v *ListView) Reload(ctx context.Context, _ *reconcile.EditScript, next []reconcile.Section) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.detached {
		return &reconcile.ApplyError{Adapter: v.name, Err: ErrDetached}
	}

	v.sections = append([]reconcile.Section(nil), next...)
	v.reloads++
	return nil
}

// Sections returns a copy of the displayed content.
func (v *ListView) Sections() []reconcile.Section {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]reconcile.Section(nil), v.sections...)
}

// Reset replaces the displayed content without going through a script.
func (v *ListView) Reset(sections []reconcile.Section) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sections = append([]reconcile.Section(nil), sections...)
}

// Detach makes every later Apply and Reload fail with ErrDetached.
func (v *ListView) Detach() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.detached = true
}

// Counts returns how many scripts were patched in and how many reloads happened.
func (v *ListView) Counts() (applies, reloads int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.applies, v.reloads
}

func sameLayout(got, want []reconcile.Section) error {
	for i := range want {
		if got[i].Key != want[i].Key {
			return fmt.Errorf("section %d is %q, expected %q", i, got[i].Key, want[i].Key)
		}
		if len(got[i].Rows) != len(want[i].Rows) {
			return fmt.Errorf("section %q has %d rows, expected %d", want[i].Key, len(got[i].Rows), len(want[i].Rows))
		}
		for j := range want[i].Rows {
			if got[i].Rows[j].Key != want[i].Rows[j].Key {
				return fmt.Errorf("row %d,%d is %q, expected %q", i, j, got[i].Rows[j].Key, want[i].Rows[j].Key)
			}
		}
	}
	return nil
}
