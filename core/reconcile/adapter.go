package reconcile

import (
	"context"
	"fmt"

	"surface-renderer/core/diff"
)

// Adapter is the contract a live view fulfils so scripts can be applied to it.
type Adapter interface {
	// Name identifies the adapter in logs and metrics.
	Name() string

	// Apply performs every change of script, in the order given by
	// EditScript.Changes, so that the view ends up showing next.
	// It must return an error when the structural mutation cannot be completed,
	// for instance when the view's own content does not match what the script assumes.
	Apply(ctx context.Context, script *EditScript, next []Section) error
}

// Reloader is implemented by adapters able to replace their whole content at once.
// Callers may prefer Reload over Apply for large scripts or an empty baseline.
type Reloader interface {
	// Reload discards the current content and shows next. script is informational.
	Reload(ctx context.Context, script *EditScript, next []Section) error
}

// Mutator applies one change at a time. Use Steps to turn it into an Adapter.
type Mutator interface {
	// Mutate applies a single change.
	Mutate(ctx context.Context, change Change) error
}

// ApplyError reports a script that could not be applied.
type ApplyError struct {
	// Adapter is the name of the adapter that failed, if any.
	Adapter string

	// Level tells whether the failure happened on sections or rows.
	Level Level

	// SectionKey is the section being changed, if known.
	SectionKey string

	// Change is the change being applied, if known.
	Change *Change

	// Err is the underlying cause.
	Err error
}

func (e *ApplyError) Error() string {
	msg := "failed to apply"
	if e.Adapter != "" {
		msg += " on " + e.Adapter
	}
	switch {
	case e.Change != nil:
		msg += " (" + e.Change.String() + ")"
	case e.SectionKey != "":
		msg += fmt.Sprintf(" (%s %q)", e.Level, e.SectionKey)
	case e.Level != "":
		msg += " (" + string(e.Level) + "s)"
	}
	return msg + ": " + e.Err.Error()
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// Steps adapts a Mutator into an Adapter.
//
// Structural changes (deletes, inserts, moves) run first. When the mutator implements
// BeginUpdates/EndUpdates they are wrapped in a single batch. Payload updates follow
// once the batch is committed, in one UpdateBatch call when available and one Mutate
// call each otherwise.
func Steps(name string, m Mutator) Adapter {
	return &stepAdapter{name: name, mutator: m}
}

type stepAdapter struct {
	name    string
	mutator Mutator
}

func (a *stepAdapter) Name() string {
	return a.name
}

func (a *stepAdapter) Apply(ctx context.Context, script *EditScript, next []Section) error {
	var (
		structural []Change
		updates    []Change
	)
	for _, c := range script.Changes(next) {
		if c.Op == diff.OpUpdate {
			updates = append(updates, c)
		} else {
			structural = append(structural, c)
		}
	}

	if len(structural) > 0 {
		type batcher interface {
			BeginUpdates(ctx context.Context) error
			EndUpdates(ctx context.Context) error
		}
		b, batched := a.mutator.(batcher)
		if batched {
			if err := b.BeginUpdates(ctx); err != nil {
				return &ApplyError{Adapter: a.name, Err: fmt.Errorf("failed to begin updates: %w", err)}
			}
		}
		for i := range structural {
			if err := a.mutate(ctx, &structural[i]); err != nil {
				return err
			}
		}
		if batched {
			if err := b.EndUpdates(ctx); err != nil {
				return &ApplyError{Adapter: a.name, Err: fmt.Errorf("failed to end updates: %w", err)}
			}
		}
	}

	if len(updates) > 0 {
		type updateBatcher interface {
			UpdateBatch(ctx context.Context, changes []Change) error
		}
		if ub, ok := a.mutator.(updateBatcher); ok {
			if err := ub.UpdateBatch(ctx, updates); err != nil {
				return &ApplyError{Adapter: a.name, Err: fmt.Errorf("failed to batch update: %w", err)}
			}
			return nil
		}
		for i := range updates {
			if err := a.mutate(ctx, &updates[i]); err != nil {
				return err
			}
		}
	}

	return nil
}

func (a *stepAdapter) mutate(ctx context.Context, c *Change) error {
	if err := ctx.Err(); err != nil {
		return &ApplyError{Adapter: a.name, Level: c.Level, Change: c, Err: err}
	}
	if err := a.mutator.Mutate(ctx, *c); err != nil {
		return &ApplyError{Adapter: a.name, Level: c.Level, SectionKey: c.SectionKey, Change: c, Err: err}
	}
	return nil
}
