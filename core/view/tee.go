package view

import (
	"context"
	"fmt"

	"surface-renderer/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Tee forwards scripts to a primary adapter and then to secondary sinks.
// Only the primary decides whether an application succeeded; sink failures are logged.
type Tee struct {
	primary reconcile.Adapter
	sinks   []reconcile.Adapter
	logger  *zap.Logger
}

// NewTee creates a Tee. Nil sinks are skipped.
func NewTee(primary reconcile.Adapter, logger *zap.Logger, sinks ...reconcile.Adapter) *Tee {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tee{primary: primary, logger: logger}
	for _, s := range sinks {
		if s != nil {
			t.sinks = append(t.sinks, s)
		}
	}
	return t
}

// Name returns the primary adapter name.
func (t *Tee) Name() string {
	return t.primary.Name()
}

// Apply applies script on the primary, then on every sink concurrently.
func (t *Tee) Apply(ctx context.Context, script *reconcile.EditScript, next []reconcile.Section) error {
	if err := t.primary.Apply(ctx, script, next); err != nil {
		return err
	}
	t.fanout(ctx, func(a reconcile.Adapter) error {
		return a.Apply(ctx, script, next)
	})
	return nil
}

// Reload reloads the primary and the sinks, falling back to Apply for adapters that
// cannot reload.
func (t *Tee) Reload(ctx context.Context, script *reconcile.EditScript, next []reconcile.Section) error {
	if err := reload(ctx, t.primary, script, next); err != nil {
		return err
	}
	t.fanout(ctx, func(a reconcile.Adapter) error {
		return reload(ctx, a, script, next)
	})
	return nil
}

func reload(ctx context.Context, a reconcile.Adapter, script *reconcile.EditScript, next []reconcile.Section) error {
	if r, ok := a.(reconcile.Reloader); ok {
		return r.Reload(ctx, script, next)
	}
	return a.Apply(ctx, script, next)
}

func (t *Tee) fanout(ctx context.Context, fn func(reconcile.Adapter) error) {
	if len(t.sinks) == 0 {
		return
	}

	var g errgroup.Group
	for _, sink := range t.sinks {
		g.Go(func() error {
			if err := fn(sink); err != nil {
				t.logger.Warn("View sink failed", zap.String("sink", sink.Name()), zap.Error(err))
				return fmt.Errorf("sink %s: %w", sink.Name(), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil && ctx.Err() != nil {
		t.logger.Warn("View sinks interrupted", zap.Error(ctx.Err()))
	}
}
