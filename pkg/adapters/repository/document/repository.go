package document

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lza6/NooMiNav-optimization/pkg/core/domain"
	"github.com/lza6/NooMiNav-optimization/pkg/ports"
)

// DocumentRepository keeps the click log and stats in one JSON document on
// disk. The document is loaded once at construction and held in memory;
// every mutation rewrites the whole file through a temp-file rename so a
// reader never observes a partial write.
type DocumentRepository struct {
	path string

	mu   sync.RWMutex
	doc  *domain.Snapshot
	seq  int64 // last assigned log sequence
}

// NewDocumentRepository opens the document at path. A missing or
// unparsable file starts an empty store rather than failing.
func NewDocumentRepository(path string) (*DocumentRepository, error) {
	path = strings.TrimPrefix(path, "file:")

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	r := &DocumentRepository{path: path, doc: domain.NewSnapshot()}

	data, err := os.ReadFile(path)
	if err == nil {
		var doc domain.Snapshot
		if jsonErr := json.Unmarshal(data, &doc); jsonErr != nil {
			log.Printf("stats document %s unparsable, starting empty: %v", path, jsonErr)
		} else {
			if doc.Stats == nil {
				doc.Stats = make(map[string]domain.StatRecord)
			}
			r.doc = &doc
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	for _, e := range r.doc.Logs {
		if e.Sequence > r.seq {
			r.seq = e.Sequence
		}
	}

	return r, nil
}

// persist writes the full document atomically. Caller holds mu.
func (r *DocumentRepository) persist() error {
	data, err := json.MarshalIndent(r.doc, "", "  ")
	if err != nil {
		return err
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}

func (r *DocumentRepository) AppendLog(ctx context.Context, entry *domain.ClickLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	entry.Sequence = r.seq
	r.doc.Logs = append(r.doc.Logs, *entry)
	return r.persist()
}

func (r *DocumentRepository) Logs(ctx context.Context, id, monthKey string, limit int) ([]domain.ClickLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.ClickLogEntry
	for i := len(r.doc.Logs) - 1; i >= 0 && len(out) < limit; i-- {
		e := r.doc.Logs[i]
		if e.LinkID == id && e.MonthKey == monthKey {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *DocumentRepository) GetStat(ctx context.Context, id string) (*domain.StatRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.doc.Stats[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (r *DocumentRepository) UpsertStat(ctx context.Context, id string, apply func(prev *domain.StatRecord) domain.StatRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var prev *domain.StatRecord
	if s, ok := r.doc.Stats[id]; ok {
		prev = &s
	}
	r.doc.Stats[id] = apply(prev)
	return r.persist()
}

func (r *DocumentRepository) AllStats(ctx context.Context) ([]domain.StatRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := make([]domain.StatRecord, 0, len(r.doc.Stats))
	for _, s := range r.doc.Stats {
		stats = append(stats, s)
	}
	return stats, nil
}

func (r *DocumentRepository) Dump(ctx context.Context) (*domain.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := domain.Snapshot{
		Logs:  append([]domain.ClickLogEntry(nil), r.doc.Logs...),
		Stats: make(map[string]domain.StatRecord, len(r.doc.Stats)),
	}
	for id, s := range r.doc.Stats {
		out.Stats[id] = s
	}
	return &out, nil
}

func (r *DocumentRepository) Restore(ctx context.Context, snap *domain.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := domain.Snapshot{
		Logs:  append([]domain.ClickLogEntry(nil), snap.Logs...),
		Stats: make(map[string]domain.StatRecord, len(snap.Stats)),
	}
	for id, s := range snap.Stats {
		doc.Stats[id] = s
	}
	r.doc = &doc

	r.seq = 0
	for _, e := range r.doc.Logs {
		if e.Sequence > r.seq {
			r.seq = e.Sequence
		}
	}
	return r.persist()
}

func (r *DocumentRepository) Close() error { return nil }

// Ensure interface compliance
var _ ports.ClickRepository = (*DocumentRepository)(nil)
