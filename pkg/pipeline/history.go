package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// DefaultHistoryKeep is how many run records Prune retains by default.
const DefaultHistoryKeep = 100

// RunRecord captures one completed pipeline execution.
type RunRecord struct {
	ID          string        `json:"id"`
	Source      string        `json:"source"`
	Graph       string        `json:"graph,omitempty"`
	Formats     []string      `json:"formats,omitempty"`
	NodeCount   int           `json:"node_count"`
	Diagnostics int           `json:"diagnostics,omitempty"`
	FlattenHit  bool          `json:"flatten_hit,omitempty"`
	RenderHit   bool          `json:"render_hit,omitempty"`
	Duration    time.Duration `json:"duration"`
	CreatedAt   time.Time     `json:"created_at"`
}

// History stores run records. Implementations keep records ordered by
// creation time; List returns newest first.
type History interface {
	// Append stores a record.
	Append(ctx context.Context, rec *RunRecord) error

	// List returns up to limit records, newest first. A limit of 0
	// returns everything.
	List(ctx context.Context, limit int) ([]*RunRecord, error)

	// Prune removes all but the newest keep records.
	Prune(ctx context.Context, keep int) error

	// Close releases resources held by the history.
	Close() error
}

// =============================================================================
// File-backed history
// =============================================================================

// FileHistory stores run records as JSON files in a config directory,
// one file per run. This is the CLI's history backend.
type FileHistory struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileHistory creates a file-based run history.
// If baseDir is empty, defaults to ~/.config/flatgraph/history/
func NewFileHistory(baseDir string) (*FileHistory, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "flatgraph", "history")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return &FileHistory{baseDir: baseDir}, nil
}

func (h *FileHistory) recordPath(id string) string {
	return filepath.Join(h.baseDir, id+".json")
}

// Append stores a record.
func (h *FileHistory) Append(ctx context.Context, rec *RunRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run record: %w", err)
	}
	if err := os.WriteFile(h.recordPath(rec.ID), data, 0600); err != nil {
		return fmt.Errorf("write run record: %w", err)
	}
	return nil
}

// List returns up to limit records, newest first.
func (h *FileHistory) List(ctx context.Context, limit int) ([]*RunRecord, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	recs, err := h.readAll()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// Prune removes all but the newest keep records.
func (h *FileHistory) Prune(ctx context.Context, keep int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	recs, err := h.readAll()
	if err != nil {
		return err
	}
	if keep < 0 {
		keep = 0
	}
	for _, rec := range recs[min(keep, len(recs)):] {
		if err := os.Remove(h.recordPath(rec.ID)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove run record: %w", err)
		}
	}
	return nil
}

// Close does nothing for the file history.
func (h *FileHistory) Close() error { return nil }

// Path returns the base directory for history files.
func (h *FileHistory) Path() string {
	return h.baseDir
}

// readAll loads every record, newest first. Unreadable files are skipped.
func (h *FileHistory) readAll() ([]*RunRecord, error) {
	entries, err := os.ReadDir(h.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read history dir: %w", err)
	}

	recs := make([]*RunRecord, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(h.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		var rec RunRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		recs = append(recs, &rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	return recs, nil
}

var _ History = (*FileHistory)(nil)

// =============================================================================
// In-memory history
// =============================================================================

// MemoryHistory keeps run records in memory, for embedded use and for
// test assertions.
type MemoryHistory struct {
	mu   sync.RWMutex
	recs []*RunRecord
}

// NewMemoryHistory creates an empty in-memory history.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

// Append stores a record.
func (h *MemoryHistory) Append(ctx context.Context, rec *RunRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.recs = append(h.recs, rec)
	return nil
}

// List returns up to limit records, newest first.
func (h *MemoryHistory) List(ctx context.Context, limit int) ([]*RunRecord, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]*RunRecord, len(h.recs))
	for i, rec := range h.recs {
		out[len(h.recs)-1-i] = rec
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Prune removes all but the newest keep records.
func (h *MemoryHistory) Prune(ctx context.Context, keep int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if keep < 0 {
		keep = 0
	}
	if keep < len(h.recs) {
		h.recs = h.recs[len(h.recs)-keep:]
	}
	return nil
}

// Close does nothing for the memory history.
func (h *MemoryHistory) Close() error { return nil }

var _ History = (*MemoryHistory)(nil)
