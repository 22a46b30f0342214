package history

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/promptforge/internal/storage"
)

// StorageKey is the key the ledger is persisted under.
const StorageKey = "promptAppHistory_v2"

// DefaultMaxItems bounds the ledger length. A configured bound may only
// lower it.
const DefaultMaxItems = 20

// Config configures a Ledger.
type Config struct {
	Store    storage.Store
	MaxItems int
	Logger   *slog.Logger

	// Now and NewID are overridable for tests.
	Now   func() time.Time
	NewID func() string
}

// Ledger is the ordered, bounded history log, most recent first.
// Every mutation is persisted; persistence failures are logged and do not
// affect the in-memory state.
type Ledger struct {
	mu       sync.RWMutex
	records  []Record
	kv       storage.Store
	maxItems int
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// New creates an empty ledger. Call Load to restore persisted records.
func New(cfg Config) *Ledger {
	l := &Ledger{
		kv:       cfg.Store,
		maxItems: cfg.MaxItems,
		logger:   cfg.Logger,
		now:      cfg.Now,
		newID:    cfg.NewID,
	}
	if l.maxItems <= 0 || l.maxItems > DefaultMaxItems {
		l.maxItems = DefaultMaxItems
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.newID == nil {
		l.newID = func() string { return uuid.New().String() }
	}
	return l
}

// Load replaces the in-memory ledger with the persisted one. Read or decode
// failures leave the ledger empty; invalid records are dropped.
func (l *Ledger) Load(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil

	if l.kv == nil {
		return
	}
	raw, ok, err := l.kv.Get(ctx, StorageKey)
	if err != nil {
		l.logger.Warn("failed to read history", "error", err)
		return
	}
	if !ok || raw == "" {
		return
	}

	var stored []Record
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		l.logger.Warn("failed to decode history", "error", err)
		return
	}

	records := make([]Record, 0, len(stored))
	for _, r := range stored {
		if err := r.Validate(); err != nil {
			l.logger.Warn("dropping invalid history record", "error", err)
			continue
		}
		records = append(records, r)
	}
	if len(records) > l.maxItems {
		records = records[:l.maxItems]
	}
	l.records = records
	l.logger.Debug("history loaded", "records", len(records))
}

// Append records prompt at the front. The record is dropped when it repeats
// the most recent record's kind and prompt. relatedIdea is kept only for
// KindGenerated, where it is required. Unknown kinds and generated records
// without an idea are rejected. Returns the record and whether it was
// inserted.
func (l *Ledger) Append(ctx context.Context, prompt string, kind Kind, relatedIdea string) (Record, bool) {
	if kind != KindGenerated {
		relatedIdea = ""
	}
	rec := Record{
		ID:          l.newID(),
		Prompt:      prompt,
		Kind:        kind,
		CreatedAt:   l.now(),
		RelatedIdea: relatedIdea,
	}
	if err := rec.Validate(); err != nil {
		l.logger.Warn("rejecting history record", "error", err)
		return Record{}, false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.records) > 0 && l.records[0].Prompt == prompt && l.records[0].Kind == kind {
		return l.records[0], false
	}

	records := make([]Record, 0, min(len(l.records)+1, l.maxItems))
	records = append(records, rec)
	for _, r := range l.records {
		if len(records) == l.maxItems {
			break
		}
		records = append(records, r)
	}
	l.records = records
	l.persistLocked(ctx)
	return rec, true
}

// Clear empties the ledger and persists the empty state.
func (l *Ledger) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
	l.persistLocked(ctx)
}

// Snapshot returns a copy of the records, most recent first.
func (l *Ledger) Snapshot() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Find returns the record with id.
func (l *Ledger) Find(id string) (Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, r := range l.records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// MaxItems returns the ledger bound.
func (l *Ledger) MaxItems() int {
	return l.maxItems
}

func (l *Ledger) persistLocked(ctx context.Context) {
	if l.kv == nil {
		return
	}
	records := l.records
	if records == nil {
		records = []Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		l.logger.Warn("failed to encode history", "error", err)
		return
	}
	if err := l.kv.Set(ctx, StorageKey, string(data)); err != nil {
		l.logger.Warn("failed to save history", "error", err)
	}
}
