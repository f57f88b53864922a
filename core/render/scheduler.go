package render

import (
	"context"
	"errors"
	"sync"
	"time"

	"surface-renderer/core/metrics"
	"surface-renderer/core/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrClosed is returned by Render once the scheduler has been closed.
var ErrClosed = errors.New("scheduler closed")

// Phase is the scheduler lifecycle state.
type Phase string

const (
	// PhaseIdle means nothing is in flight.
	PhaseIdle Phase = "idle"
	// PhaseDiffing means a script is being computed.
	PhaseDiffing Phase = "diffing"
	// PhaseApplying means the adapter is applying a script.
	PhaseApplying Phase = "applying"
)

// Failure describes an application the adapter could not complete.
type Failure struct {
	// Surface is the scheduler name.
	Surface string
	// RequestID identifies the failed render request.
	RequestID string
	// Err is the adapter error, wrapped in a *reconcile.ApplyError.
	Err error
	// Script is the script that failed.
	Script *reconcile.EditScript
	// Previous is the snapshot the script was computed against.
	Previous []reconcile.Section
	// Next is the collection that could not be applied.
	Next []reconcile.Section
}

// ErrorHandler receives application failures on the scheduler goroutine.
type ErrorHandler func(Failure)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithConfig sets scheduler settings.
func WithConfig(cfg Config) Option {
	return func(s *Scheduler) { s.cfg = cfg }
}

// WithErrorHandler sets the failure callback.
func WithErrorHandler(h ErrorHandler) Option {
	return func(s *Scheduler) { s.onError = h }
}

// Status is a point-in-time view of a scheduler.
type Status struct {
	Surface       string     `json:"surface"`
	Phase         Phase      `json:"phase"`
	Pending       bool       `json:"pending"`
	Sections      int        `json:"sections"`
	Rows          int        `json:"rows"`
	Admitted      uint64     `json:"admitted"`
	Coalesced     uint64     `json:"coalesced"`
	Applied       uint64     `json:"applied"`
	Reloaded      uint64     `json:"reloaded"`
	Failed        uint64     `json:"failed"`
	LastRequestID string     `json:"last_request_id,omitempty"`
	LastAppliedAt *time.Time `json:"last_applied_at,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
}

type request struct {
	id       string
	sections []reconcile.Section
	admitted time.Time
}

// Scheduler serializes renders for one view.
//
// At most one reconciliation runs at a time. Requests arriving meanwhile replace each
// other in a single pending slot, so only the latest one is applied once the view is
// free again. The snapshot is replaced only after the adapter confirms an application.
type Scheduler struct {
	name    string
	adapter reconcile.Adapter
	cfg     Config
	logger  *zap.Logger
	onError ErrorHandler

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	phase     Phase
	pending   *request
	closed    bool
	idle      chan struct{}
	admitted  uint64
	coalesced uint64
	applied   uint64
	reloaded  uint64
	failed    uint64
	lastError string

	snapMu   sync.RWMutex
	snapshot []reconcile.Section
	lastID   string
	lastAt   time.Time
}

// New creates an idle scheduler with an empty snapshot.
func New(name string, adapter reconcile.Adapter, logger *zap.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	idle := make(chan struct{})
	close(idle)

	s := &Scheduler{
		name:    name,
		adapter: adapter,
		cfg:     Config{ReloadThreshold: 20, ApplyTimeoutSeconds: 10},
		logger:  logger.With(zap.String("surface", name)),
		ctx:     ctx,
		cancel:  cancel,
		phase:   PhaseIdle,
		idle:    idle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the surface name.
func (s *Scheduler) Name() string {
	return s.name
}

// Render submits a new description of the view and returns its request id.
//
// Key uniqueness is checked synchronously; a *reconcile.KeyError is returned and
// nothing is scheduled when it fails. Otherwise Render returns immediately and the
// request is diffed and applied in the background, unless a newer request replaces it
// first.
func (s *Scheduler) Render(sections []reconcile.Section) (string, error) {
	if err := reconcile.Validate(sections); err != nil {
		metrics.RendersRejected.WithLabelValues(s.name).Inc()
		s.logger.Warn("Render rejected", zap.Error(err))
		return "", err
	}

	req := &request{
		id:       uuid.NewString(),
		sections: s.prepare(sections),
		admitted: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrClosed
	}

	s.admitted++
	metrics.RendersAdmitted.WithLabelValues(s.name).Inc()

	if s.pending != nil {
		s.coalesced++
		metrics.RendersCoalesced.WithLabelValues(s.name).Inc()
		s.logger.Debug("Render superseded before it started",
			zap.String("dropped_request_id", s.pending.id),
			zap.String("request_id", req.id),
		)
	}
	s.pending = req

	if s.phase == PhaseIdle {
		s.phase = PhaseDiffing
		s.idle = make(chan struct{})
		go s.run()
	}

	return req.id, nil
}

// prepare copies the caller's slices so later changes on their side cannot leak
// into the snapshot.
func (s *Scheduler) prepare(sections []reconcile.Section) []reconcile.Section {
	out := make([]reconcile.Section, 0, len(sections))
	for _, sec := range sections {
		if s.cfg.DropEmptySections && len(sec.Rows) == 0 {
			continue
		}
		sec.Rows = append([]reconcile.Row(nil), sec.Rows...)
		out = append(out, sec)
	}
	return out
}

func (s *Scheduler) run() {
	for {
		s.mu.Lock()
		req := s.pending
		if req == nil || s.closed {
			s.pending = nil
			s.phase = PhaseIdle
			close(s.idle)
			s.mu.Unlock()
			return
		}
		s.pending = nil
		s.phase = PhaseDiffing
		s.mu.Unlock()

		s.process(req)
	}
}

func (s *Scheduler) process(req *request) {
	l := s.logger.With(zap.String("request_id", req.id))

	// Only this goroutine replaces the snapshot, so it stays valid for the whole cycle.
	previous := s.current()

	start := time.Now()
	script, err := reconcile.Reconcile(previous, req.sections)
	metrics.DiffDuration.WithLabelValues(s.name).Observe(time.Since(start).Seconds())
	if err != nil {
		s.fail(l, req, previous, nil, err)
		return
	}
	metrics.ScriptOperations.WithLabelValues(s.name).Observe(float64(script.Count()))

	if script.IsEmpty() {
		s.commit(req, "noop")
		l.Debug("Render produced no changes")
		return
	}

	s.setPhase(PhaseApplying)

	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.ApplyTimeout())
	defer cancel()

	mode := "apply"
	if reloader, ok := s.adapter.(reconcile.Reloader); ok && s.shouldReload(previous, script) {
		mode = "reload"
		err = reloader.Reload(ctx, script, req.sections)
	} else {
		err = s.adapter.Apply(ctx, script, req.sections)
	}
	if err != nil {
		s.fail(l, req, previous, script, err)
		return
	}

	s.commit(req, mode)

	sum := script.Summary()
	l.Info("Render applied",
		zap.String("mode", mode),
		zap.Int("changes", sum.Total()),
		zap.Int("section_changes", sum.SectionDeletes+sum.SectionInserts+sum.SectionMoves+sum.SectionUpdates),
		zap.Duration("latency", time.Since(req.admitted)),
	)
}

func (s *Scheduler) shouldReload(previous []reconcile.Section, script *reconcile.EditScript) bool {
	if s.cfg.ReloadThreshold <= 0 {
		return false
	}
	return len(previous) == 0 || script.Count() > s.cfg.ReloadThreshold
}

func (s *Scheduler) commit(req *request, mode string) {
	s.snapMu.Lock()
	s.snapshot = req.sections
	s.lastID = req.id
	s.lastAt = time.Now()
	s.snapMu.Unlock()

	s.mu.Lock()
	if mode == "reload" {
		s.reloaded++
	} else {
		s.applied++
	}
	s.mu.Unlock()

	metrics.RendersApplied.WithLabelValues(s.name, mode).Inc()
}

func (s *Scheduler) fail(l *zap.Logger, req *request, previous []reconcile.Section, script *reconcile.EditScript, err error) {
	var applyErr *reconcile.ApplyError
	if !errors.As(err, &applyErr) {
		err = &reconcile.ApplyError{Adapter: s.adapter.Name(), Err: err}
	}

	s.mu.Lock()
	s.failed++
	s.lastError = err.Error()
	s.mu.Unlock()

	metrics.RendersFailed.WithLabelValues(s.name).Inc()
	l.Error("Render failed, snapshot kept", zap.Error(err))

	if s.onError != nil {
		s.onError(Failure{
			Surface:   s.name,
			RequestID: req.id,
			Err:       err,
			Script:    script,
			Previous:  previous,
			Next:      req.sections,
		})
	}
}

func (s *Scheduler) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}

func (s *Scheduler) current() []reconcile.Section {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.snapshot
}

// Snapshot returns the last applied collection.
// The returned slice is a copy; sections and rows must be treated as read-only.
func (s *Scheduler) Snapshot() []reconcile.Section {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	out := make([]reconcile.Section, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// Lookup resolves a key path against the applied snapshot.
func (s *Scheduler) Lookup(p reconcile.ItemPath) (reconcile.Row, reconcile.Path, bool) {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	idx, ok := reconcile.IndexOf(s.snapshot, p)
	if !ok {
		return reconcile.Row{}, reconcile.Path{}, false
	}
	return s.snapshot[idx.Section].Rows[idx.Row], idx, true
}

// IsRendering reports whether a reconciliation is running or pending.
func (s *Scheduler) IsRendering() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase != PhaseIdle || s.pending != nil
}

// WaitIdle blocks until no reconciliation is running or pending, or ctx is done.
func (s *Scheduler) WaitIdle(ctx context.Context) error {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns counters and the current phase.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	st := Status{
		Surface:   s.name,
		Phase:     s.phase,
		Pending:   s.pending != nil,
		Admitted:  s.admitted,
		Coalesced: s.coalesced,
		Applied:   s.applied,
		Reloaded:  s.reloaded,
		Failed:    s.failed,
		LastError: s.lastError,
	}
	s.mu.Unlock()

	s.snapMu.RLock()
	st.Sections = len(s.snapshot)
	for _, sec := range s.snapshot {
		st.Rows += len(sec.Rows)
	}
	st.LastRequestID = s.lastID
	if !s.lastAt.IsZero() {
		at := s.lastAt
		st.LastAppliedAt = &at
	}
	s.snapMu.RUnlock()

	return st
}

// Close drops any pending request and cancels the adapter call in flight.
// Later Render calls return ErrClosed.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.pending = nil
	s.mu.Unlock()
	s.cancel()
}
