package surface

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"surface-renderer/core/logger"
	"surface-renderer/core/metrics"
	"surface-renderer/core/reconcile"
	"surface-renderer/core/render"
	"surface-renderer/core/view"
	"surface-renderer/feature/surface/journal"
	"surface-renderer/feature/surface/publish"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
)

var (
	// ErrInvalidName is returned for surface names that cannot be used as object names.
	ErrInvalidName = errors.New("invalid surface name")
	// ErrNotFound is returned for surfaces that were never opened.
	ErrNotFound = errors.New("surface not found")
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// Options configures the surfaces hosted by a Service.
type Options struct {
	// Render is applied to every scheduler.
	Render render.Config
	// Journal records committed scripts when set.
	Journal *journal.Journal
	// Publisher mirrors committed surfaces to object storage when set.
	Publisher *publish.Publisher
	// LogChanges writes every change to the logger at info level.
	LogChanges bool
}

// Surface is one hosted view and the scheduler feeding it.
type Surface struct {
	Name      string
	View      *view.ListView
	Scheduler *render.Scheduler
}

// Service hosts named surfaces.
type Service struct {
	logger   *zap.Logger
	opts     Options
	surfaces *xsync.MapOf[string, *Surface]
}

// NewService creates a service without surfaces.
func NewService(logger *zap.Logger, opts Options) *Service {
	return &Service{
		logger:   logger,
		opts:     opts,
		surfaces: xsync.NewMapOf[string, *Surface](),
	}
}

// ValidName reports whether name can identify a surface.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Open returns the surface called name, creating it on first use.
func (s *Service) Open(name string) (*Surface, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	sf, _ := s.surfaces.LoadOrCompute(name, func() *Surface {
		return s.build(name)
	})
	return sf, nil
}

func (s *Service) build(name string) *Surface {
	l := logger.WithSurface(s.logger, name)
	list := view.NewListView(name)

	var sinks []reconcile.Adapter
	if s.opts.Journal != nil {
		sinks = append(sinks, s.opts.Journal.For(name))
	}
	if s.opts.Publisher != nil {
		sinks = append(sinks, s.opts.Publisher.For(name))
	}
	if s.opts.LogChanges {
		sinks = append(sinks, view.NewLogAdapter(name, s.logger))
	}

	var adapter reconcile.Adapter = list
	if len(sinks) > 0 {
		adapter = view.NewTee(list, l, sinks...)
	}

	sched := render.New(name, adapter, s.logger,
		render.WithConfig(s.opts.Render),
		render.WithErrorHandler(func(f render.Failure) {
			if errors.Is(f.Err, view.ErrDetached) {
				l.Debug("Render dropped for removed surface", zap.String("request_id", f.RequestID))
			}
		}),
	)

	l.Info("Surface opened", zap.Int("sinks", len(sinks)))
	return &Surface{Name: name, View: list, Scheduler: sched}
}

// Get returns an existing surface.
func (s *Service) Get(name string) (*Surface, bool) {
	return s.surfaces.Load(name)
}

// Render submits sections to the surface called name, opening it if needed.
func (s *Service) Render(name string, sections []reconcile.Section) (string, error) {
	sf, err := s.Open(name)
	if err != nil {
		return "", err
	}
	return sf.Scheduler.Render(sections)
}

// Remove closes the surface and detaches its view. Its published document is deleted.
func (s *Service) Remove(ctx context.Context, name string) error {
	sf, ok := s.surfaces.LoadAndDelete(name)
	if !ok {
		return ErrNotFound
	}

	l := logger.WithSurface(s.logger, name)

	sf.Scheduler.Close()
	sf.View.Detach()
	// the cycle in flight still records its outcome
	if err := sf.Scheduler.WaitIdle(ctx); err != nil {
		l.Warn("Surface still rendering at removal", zap.Error(err))
	}
	metrics.Forget(name)

	if s.opts.Publisher != nil {
		if err := s.opts.Publisher.Remove(ctx, name); err != nil {
			l.Warn("Failed to remove published surface", zap.Error(err))
			return err
		}
	}
	l.Info("Surface removed")
	return nil
}

// Names returns the hosted surface names, sorted.
func (s *Service) Names() []string {
	names := make([]string, 0, s.surfaces.Size())
	s.surfaces.Range(func(name string, _ *Surface) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}

// Statuses returns the scheduler status of every surface, sorted by name.
func (s *Service) Statuses() []render.Status {
	names := s.Names()
	out := make([]render.Status, 0, len(names))
	for _, name := range names {
		if sf, ok := s.surfaces.Load(name); ok {
			out = append(out, sf.Scheduler.Status())
		}
	}
	return out
}

// Journal returns the render journal, or nil when it is disabled.
func (s *Service) Journal() *journal.Journal {
	return s.opts.Journal
}

// Restore renders every published surface so the service starts where it stopped.
// It returns how many surfaces were restored.
func (s *Service) Restore(ctx context.Context) (int, error) {
	if s.opts.Publisher == nil {
		return 0, nil
	}

	names, err := s.opts.Publisher.List(ctx)
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, name := range names {
		l := logger.WithSurface(s.logger, name)
		if !ValidName(name) {
			l.Warn("Skipping published surface with invalid name")
			continue
		}
		doc, err := s.opts.Publisher.Fetch(ctx, name)
		if err != nil {
			l.Warn("Failed to fetch published surface", zap.Error(err))
			continue
		}
		sections, err := doc.ToSections()
		if err != nil {
			l.Warn("Failed to decode published surface", zap.Error(err))
			continue
		}
		if _, err := s.Render(name, sections); err != nil {
			l.Warn("Failed to restore surface", zap.Error(err))
			continue
		}
		restored++
	}
	return restored, nil
}

// Shutdown waits for in-flight renders until ctx expires, then closes every scheduler.
func (s *Service) Shutdown(ctx context.Context) error {
	var firstErr error
	s.surfaces.Range(func(name string, sf *Surface) bool {
		if err := sf.Scheduler.WaitIdle(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("surface %s still rendering: %w", name, err)
		}
		sf.Scheduler.Close()
		return true
	})
	return firstErr
}
