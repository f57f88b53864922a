package render

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"surface-renderer/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// mockAdapter records applied collections. When gate is set, every Apply signals
// started and then waits for gate to be closed.
type mockAdapter struct {
	mu      sync.Mutex
	applied [][]reconcile.Section
	scripts []*reconcile.EditScript
	err     error
	started chan struct{}
	gate    chan struct{}
}

func (m *mockAdapter) Name() string { return "mock" }

func (m *mockAdapter) Apply(ctx context.Context, script *reconcile.EditScript, next []reconcile.Section) error {
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.applied = append(m.applied, next)
	m.scripts = append(m.scripts, script)
	return nil
}

func (m *mockAdapter) appliedKeys() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.applied))
	for i, sections := range m.applied {
		for _, s := range sections {
			out[i] = append(out[i], s.Key)
		}
	}
	return out
}

// mockReloader adds Reload to mockAdapter.
type mockReloader struct {
	mockAdapter
	reloads int
}

func (m *mockReloader) Reload(_ context.Context, _ *reconcile.EditScript, next []reconcile.Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reloads++
	m.applied = append(m.applied, next)
	return nil
}

func sections(keys ...string) []reconcile.Section {
	out := make([]reconcile.Section, len(keys))
	for i, k := range keys {
		out[i] = reconcile.Section{Key: k, Rows: []reconcile.Row{{Key: "r", State: reconcile.NewValue(k)}}}
	}
	return out
}

func waitIdle(t *testing.T, s *Scheduler) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.WaitIdle(ctx))
}

func keysOf(list []reconcile.Section) []string {
	var out []string
	for _, s := range list {
		out = append(out, s.Key)
	}
	return out
}

func TestRender_AppliesAndCommits(t *testing.T) {
	adapter := &mockAdapter{}
	s := New("home", adapter, zap.NewNop())

	id, err := s.Render(sections("a", "b"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	waitIdle(t, s)

	assert.Equal(t, []string{"a", "b"}, keysOf(s.Snapshot()))
	require.Len(t, adapter.scripts, 1)
	assert.Len(t, adapter.scripts[0].Sections.Inserts, 2)

	// Same content again: nothing reaches the adapter.
	_, err = s.Render(sections("a", "b"))
	require.NoError(t, err)
	waitIdle(t, s)
	assert.Len(t, adapter.scripts, 1)

	st := s.Status()
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Equal(t, uint64(2), st.Admitted)
	assert.Equal(t, uint64(2), st.Applied)
	assert.Equal(t, 2, st.Sections)
	assert.Equal(t, 2, st.Rows)
	assert.NotNil(t, st.LastAppliedAt)
	assert.False(t, s.IsRendering())
}

func TestRender_CoalescesPendingRequests(t *testing.T) {
	adapter := &mockAdapter{started: make(chan struct{}, 10), gate: make(chan struct{})}
	s := New("feed", adapter, zap.NewNop())

	_, err := s.Render(sections("r0"))
	require.NoError(t, err)
	<-adapter.started
	assert.True(t, s.IsRendering())

	for _, k := range []string{"r1", "r2", "r3"} {
		_, err := s.Render(sections(k))
		require.NoError(t, err)
	}
	assert.True(t, s.Status().Pending)

	close(adapter.gate)
	waitIdle(t, s)

	assert.Equal(t, [][]string{{"r0"}, {"r3"}}, adapter.appliedKeys())
	assert.Equal(t, []string{"r3"}, keysOf(s.Snapshot()))
	assert.Equal(t, uint64(2), s.Status().Coalesced)
}

func TestRender_SecondScriptUsesCommittedSnapshot(t *testing.T) {
	adapter := &mockAdapter{}
	s := New("list", adapter, zap.NewNop())

	_, err := s.Render(sections("a", "b"))
	require.NoError(t, err)
	waitIdle(t, s)

	_, err = s.Render(sections("b", "c"))
	require.NoError(t, err)
	waitIdle(t, s)

	require.Len(t, adapter.scripts, 2)
	second := adapter.scripts[1].Sections
	require.Len(t, second.Deletes, 1)
	assert.Equal(t, "a", second.Deletes[0].Key)
	require.Len(t, second.Inserts, 1)
	assert.Equal(t, "c", second.Inserts[0].Key)
}

func TestRender_DuplicateKeysRejected(t *testing.T) {
	adapter := &mockAdapter{}
	s := New("dup", adapter, zap.NewNop())

	id, err := s.Render(sections("a", "a"))
	assert.Empty(t, id)
	require.Error(t, err)
	assert.ErrorIs(t, err, reconcile.ErrDuplicateKey)

	assert.False(t, s.IsRendering())
	assert.Empty(t, adapter.appliedKeys())
	assert.Equal(t, uint64(0), s.Status().Admitted)
}

func TestRender_ApplyFailureKeepsSnapshot(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	boom := errors.New("view detached")
	adapter := &mockAdapter{}

	var failures []Failure
	s := New("broken", adapter, zap.New(core), WithErrorHandler(func(f Failure) {
		failures = append(failures, f)
	}))

	_, err := s.Render(sections("a"))
	require.NoError(t, err)
	waitIdle(t, s)

	adapter.mu.Lock()
	adapter.err = boom
	adapter.mu.Unlock()

	id, err := s.Render(sections("a", "b"))
	require.NoError(t, err)
	waitIdle(t, s)

	assert.Equal(t, []string{"a"}, keysOf(s.Snapshot()), "snapshot must not change on failure")
	require.Len(t, failures, 1)
	f := failures[0]
	assert.Equal(t, "broken", f.Surface)
	assert.Equal(t, id, f.RequestID)
	assert.ErrorIs(t, f.Err, boom)
	var applyErr *reconcile.ApplyError
	assert.True(t, errors.As(f.Err, &applyErr))
	assert.Equal(t, []string{"a"}, keysOf(f.Previous))
	assert.Equal(t, []string{"a", "b"}, keysOf(f.Next))
	require.NotNil(t, f.Script)
	assert.Len(t, f.Script.Sections.Inserts, 1)

	assert.Equal(t, 1, logs.FilterMessage("Render failed, snapshot kept").Len())
	st := s.Status()
	assert.Equal(t, uint64(1), st.Failed)
	assert.Contains(t, st.LastError, "view detached")
	assert.Equal(t, PhaseIdle, st.Phase)

	// The scheduler stays usable.
	adapter.mu.Lock()
	adapter.err = nil
	adapter.mu.Unlock()
	_, err = s.Render(sections("a", "b"))
	require.NoError(t, err)
	waitIdle(t, s)
	assert.Equal(t, []string{"a", "b"}, keysOf(s.Snapshot()))
}

func TestRender_ReloadFallback(t *testing.T) {
	adapter := &mockReloader{}
	s := New("reload", adapter, zap.NewNop(), WithConfig(Config{ReloadThreshold: 2}))

	// Empty baseline reloads.
	_, err := s.Render(sections("a", "b"))
	require.NoError(t, err)
	waitIdle(t, s)
	assert.Equal(t, 1, adapter.reloads)
	assert.Empty(t, adapter.scripts)

	// Small change patches.
	_, err = s.Render(sections("a", "b", "c"))
	require.NoError(t, err)
	waitIdle(t, s)
	assert.Equal(t, 1, adapter.reloads)
	assert.Len(t, adapter.scripts, 1)

	// Large change reloads again.
	_, err = s.Render(sections("x", "y", "z"))
	require.NoError(t, err)
	waitIdle(t, s)
	assert.Equal(t, 2, adapter.reloads)
	assert.Equal(t, uint64(2), s.Status().Reloaded)
	assert.Equal(t, []string{"x", "y", "z"}, keysOf(s.Snapshot()))
}

func TestRender_ReloadDisabled(t *testing.T) {
	adapter := &mockReloader{}
	s := New("patch-only", adapter, zap.NewNop(), WithConfig(Config{ReloadThreshold: 0}))

	_, err := s.Render(sections("a", "b"))
	require.NoError(t, err)
	waitIdle(t, s)

	assert.Equal(t, 0, adapter.reloads)
	assert.Len(t, adapter.scripts, 1)
}

func TestRender_DropEmptySections(t *testing.T) {
	adapter := &mockAdapter{}
	s := New("compact", adapter, zap.NewNop(), WithConfig(Config{DropEmptySections: true}))

	input := append(sections("a"), reconcile.Section{Key: "empty"})
	_, err := s.Render(input)
	require.NoError(t, err)
	waitIdle(t, s)

	assert.Equal(t, []string{"a"}, keysOf(s.Snapshot()))
}

func TestRender_CallerMutationDoesNotLeak(t *testing.T) {
	adapter := &mockAdapter{}
	s := New("copy", adapter, zap.NewNop())

	input := sections("a")
	_, err := s.Render(input)
	require.NoError(t, err)
	waitIdle(t, s)

	input[0].Key = "mutated"
	input[0].Rows[0].Key = "mutated"

	snap := s.Snapshot()
	assert.Equal(t, "a", snap[0].Key)
	assert.Equal(t, "r", snap[0].Rows[0].Key)
}

func TestLookup(t *testing.T) {
	s := New("lookup", &mockAdapter{}, nil)
	_, err := s.Render(sections("a", "b"))
	require.NoError(t, err)
	waitIdle(t, s)

	row, path, ok := s.Lookup(reconcile.ItemPath{SectionKey: "b", RowKey: "r"})
	require.True(t, ok)
	assert.Equal(t, reconcile.Path{Section: 1, Row: 0}, path)
	assert.True(t, row.State.Equal(reconcile.NewValue("b")))

	_, _, ok = s.Lookup(reconcile.ItemPath{SectionKey: "c", RowKey: "r"})
	assert.False(t, ok)
}

func TestClose(t *testing.T) {
	adapter := &mockAdapter{started: make(chan struct{}, 1), gate: make(chan struct{})}
	s := New("closing", adapter, zap.NewNop())

	_, err := s.Render(sections("a"))
	require.NoError(t, err)
	<-adapter.started

	_, err = s.Render(sections("b"))
	require.NoError(t, err)

	s.Close()
	waitIdle(t, s)

	_, err = s.Render(sections("c"))
	assert.ErrorIs(t, err, ErrClosed)
	assert.Empty(t, adapter.appliedKeys(), "in-flight apply is cancelled and pending is dropped")
	assert.Empty(t, s.Snapshot())
}

func TestWaitIdle_ContextDone(t *testing.T) {
	adapter := &mockAdapter{started: make(chan struct{}, 1), gate: make(chan struct{})}
	s := New("slow", adapter, zap.NewNop())
	defer s.Close()

	_, err := s.Render(sections("a"))
	require.NoError(t, err)
	<-adapter.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.WaitIdle(ctx), context.DeadlineExceeded)
}
