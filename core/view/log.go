package view

import (
	"context"

	"surface-renderer/core/reconcile"

	"go.uber.org/zap"
)

// NewLogAdapter returns an adapter that writes every change to logger.
func NewLogAdapter(name string, logger *zap.Logger) reconcile.Adapter {
	return reconcile.Steps(name, &logMutator{logger: logger.With(zap.String("view", name))})
}

type logMutator struct {
	logger  *zap.Logger
	changes int
}

func (m *logMutator) BeginUpdates(context.Context) error {
	m.changes = 0
	return nil
}

func (m *logMutator) EndUpdates(context.Context) error {
	m.logger.Debug("Structural changes committed", zap.Int("count", m.changes))
	return nil
}

func (m *logMutator) Mutate(_ context.Context, c reconcile.Change) error {
	m.changes++
	fields := []zap.Field{
		zap.String("op", string(c.Op)),
		zap.String("level", string(c.Level)),
		zap.String("section", c.SectionKey),
		zap.String("key", c.Key),
	}
	if c.From.Section >= 0 {
		fields = append(fields, zap.Stringer("from", c.From))
	}
	if c.To.Section >= 0 {
		fields = append(fields, zap.Stringer("to", c.To))
	}
	if c.Row != nil && c.Row.State != nil {
		fields = append(fields, zap.Any("state", c.Row.State))
	}
	m.logger.Info("View change", fields...)
	return nil
}
