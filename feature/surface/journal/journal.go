package journal

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"surface-renderer/core/database"
	"surface-renderer/core/reconcile"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// TableName is the journal table.
const TableName = "render_journal"

// Modes recorded in Entry.Mode.
const (
	ModeApply  = "apply"
	ModeReload = "reload"
)

// Entry is one application committed to a surface.
type Entry struct {
	ID      string `gorm:"primaryKey;size:26" json:"id"`
	Surface string `gorm:"size:64;not null;index:idx_render_journal_surface" json:"surface"`
	Mode    string `gorm:"size:16;not null" json:"mode"`

	reconcile.Summary `gorm:"embedded"`

	Operations int       `json:"operations"`
	Changes    []string  `gorm:"serializer:json;type:text" json:"changes"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName binds Entry to the journal table.
func (Entry) TableName() string {
	return TableName
}

var requiredColumns = []string{"id", "surface", "mode", "operations", "changes", "created_at"}

// Journal records every committed script in the database.
type Journal struct {
	db    *gorm.DB
	clock func() time.Time

	mu      sync.Mutex
	entropy io.Reader
}

// New creates a journal on db.
func New(db *gorm.DB) *Journal {
	return &Journal{
		db:      db,
		clock:   time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Migrate creates or updates the journal table.
func (j *Journal) Migrate(ctx context.Context) error {
	if err := j.db.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", TableName, err)
	}
	return nil
}

// Verify checks that the journal table carries every column the journal writes.
func (j *Journal) Verify(ctx context.Context) error {
	missing, err := database.MissingColumns(j.db.WithContext(ctx), TableName, requiredColumns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns: %s", TableName, strings.Join(missing, ", "))
	}
	return nil
}

// Record stores one committed script.
func (j *Journal) Record(ctx context.Context, surface, mode string, script *reconcile.EditScript, next []reconcile.Section) (*Entry, error) {
	now := j.clock()

	changes := script.Changes(next)
	lines := make([]string, len(changes))
	for i, c := range changes {
		lines[i] = c.String()
	}

	entry := &Entry{
		ID:         j.newID(now),
		Surface:    surface,
		Mode:       mode,
		Summary:    script.Summary(),
		Operations: script.Count(),
		Changes:    lines,
		CreatedAt:  now,
	}
	if err := j.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to record render of %s: %w", surface, err)
	}
	return entry, nil
}

// List returns the latest entries of surface, newest first.
func (j *Journal) List(ctx context.Context, surface string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	var entries []Entry
	err := j.db.WithContext(ctx).
		Where("surface = ?", surface).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list renders of %s: %w", surface, err)
	}
	return entries, nil
}

func (j *Journal) newID(t time.Time) string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), j.entropy).String()
}

// For returns a view sink recording the applications of surface.
func (j *Journal) For(surface string) reconcile.Adapter {
	return &sink{journal: j, surface: surface}
}

type sink struct {
	journal *Journal
	surface string
}

func (s *sink) Name() string {
	return "journal"
}

func (s *sink) Apply(ctx context.Context, script *reconcile.EditScript, next []reconcile.Section) error {
	_, err := s.journal.Record(ctx, s.surface, ModeApply, script, next)
	return err
}

func (s *sink) Reload(ctx context.Context, script *reconcile.EditScript, next []reconcile.Section) error {
	_, err := s.journal.Record(ctx, s.surface, ModeReload, script, next)
	return err
}
