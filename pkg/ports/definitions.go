package ports

import (
	"context"

	"github.com/lza6/NooMiNav-optimization/pkg/core/domain"
)

// ClickRepository defines storage operations for the click log and the
// per-identifier stat records. Both live in one persisted document, so a
// single repository owns them.
type ClickRepository interface {
	// AppendLog appends entry to the click log, assigning its sequence
	// number. Sequences are strictly increasing within a process lifetime.
	AppendLog(ctx context.Context, entry *domain.ClickLogEntry) error

	// Logs returns entries for id in the given month bucket, newest first,
	// at most limit rows.
	Logs(ctx context.Context, id, monthKey string, limit int) ([]domain.ClickLogEntry, error)

	// GetStat returns the stat record for id, or nil if it was never clicked.
	GetStat(ctx context.Context, id string) (*domain.StatRecord, error)

	// UpsertStat is the sole stat mutation primitive. apply receives the
	// previous record (nil on first click) and returns the replacement.
	UpsertStat(ctx context.Context, id string, apply func(prev *domain.StatRecord) domain.StatRecord) error

	// AllStats returns every stat record ever created, stale ones included.
	AllStats(ctx context.Context) ([]domain.StatRecord, error)

	// Dump returns the full persisted document, for migration.
	Dump(ctx context.Context) (*domain.Snapshot, error)

	// Restore replaces the store contents with the given document.
	Restore(ctx context.Context, snap *domain.Snapshot) error

	Close() error
}

// ClickTracker is the single write entry point for click events.
type ClickTracker interface {
	// Record appends the log entry and upserts the stat record as one
	// serialized unit.
	Record(ctx context.Context, c domain.Click) error

	// RecordAsync dispatches Record on a detached goroutine. Failures are
	// logged and counted, never returned.
	RecordAsync(c domain.Click)

	// RecordFailures returns the number of failed background records.
	RecordFailures() uint64
}

// RedirectResolver resolves identifiers to destination URLs, recording
// the click as a side effect.
type RedirectResolver interface {
	ResolveLink(ctx context.Context, id string, useBackup bool, v domain.Visitor) (string, error)
	ResolveFriend(ctx context.Context, id string, v domain.Visitor) (string, error)
}

// DashboardService is the read-only aggregation over stats, logs and the
// configured directory.
type DashboardService interface {
	// Overview aggregates stats for every configured entry. monthKey
	// defaults to the current month when empty.
	Overview(ctx context.Context, monthKey string) (*domain.Overview, error)

	// Logs returns the click log for id, newest first, capped at 50.
	// monthKey defaults to the current month when empty.
	Logs(ctx context.Context, id, monthKey string) ([]domain.ClickLogEntry, error)
}
