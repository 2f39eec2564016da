package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/lza6/NooMiNav-optimization/pkg/core/domain"
	"github.com/lza6/NooMiNav-optimization/pkg/ports"
)

// TrackerService is the only writer of the click stores. A single mutex
// serializes the log append and the stat upsert so two concurrent clicks
// on the same identifier can never both advance from the same prior
// counters.
type TrackerService struct {
	repo ports.ClickRepository

	mu       sync.Mutex
	failures atomic.Uint64
}

func NewTrackerService(repo ports.ClickRepository) *TrackerService {
	return &TrackerService{repo: repo}
}

// Record appends the click to the log and advances the stat record as one
// unit. A failure between the two leaves log count != total_clicks, which
// is why both errors are wrapped with enough context to spot.
func (s *TrackerService) Record(ctx context.Context, c domain.Click) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &domain.ClickLogEntry{
		LinkID:    c.ID,
		ClickTime: c.Time,
		MonthKey:  c.MonthKey,
		IPAddress: c.IP,
		UserAgent: c.UserAgent,
	}
	if err := s.repo.AppendLog(ctx, entry); err != nil {
		return fmt.Errorf("append click log for %s: %w", c.ID, err)
	}

	if err := s.repo.UpsertStat(ctx, c.ID, func(prev *domain.StatRecord) domain.StatRecord {
		next := domain.StatRecord{ID: c.ID, Name: c.Name, Type: c.Type}
		if prev != nil {
			next = *prev
		}
		next.Advance(c)
		return next
	}); err != nil {
		return fmt.Errorf("upsert stat for %s: %w", c.ID, err)
	}

	return nil
}

// RecordAsync runs Record on a detached goroutine. The caller (a redirect
// in flight) never waits on or learns about the outcome; failures are
// logged and counted so they stay observable through RecordFailures.
func (s *TrackerService) RecordAsync(c domain.Click) {
	go func() {
		// The request context is gone by the time this runs.
		if err := s.Record(context.Background(), c); err != nil {
			s.failures.Add(1)
			log.Printf("click record failed: %v", err)
		}
	}()
}

// RecordFailures returns the number of background records that failed
// since process start.
func (s *TrackerService) RecordFailures() uint64 {
	return s.failures.Load()
}

var _ ports.ClickTracker = (*TrackerService)(nil)
