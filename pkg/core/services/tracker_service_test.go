package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/lza6/NooMiNav-optimization/pkg/adapters/repository/document"
	"github.com/lza6/NooMiNav-optimization/pkg/core/domain"
	"github.com/lza6/NooMiNav-optimization/pkg/ports"
)

func newTracker(t *testing.T) (*TrackerService, ports.ClickRepository) {
	t.Helper()
	repo, err := document.NewDocumentRepository(filepath.Join(t.TempDir(), "portal.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return NewTrackerService(repo), repo
}

func testClick(id string) domain.Click {
	return domain.Click{
		ID:       id,
		Name:     "Test Site",
		Type:     domain.TypeLink,
		Year:     "2024",
		MonthKey: "2024_03",
		Time:     "2024-03-15 10:00:00",
	}
}

func TestRecordSequential(t *testing.T) {
	tracker, repo := newTracker(t)
	ctx := context.Background()

	const n = 7
	for i := 0; i < n; i++ {
		if err := tracker.Record(ctx, testClick("test1")); err != nil {
			t.Fatal(err)
		}
	}

	stat, err := repo.GetStat(ctx, "test1")
	if err != nil {
		t.Fatal(err)
	}
	if stat == nil {
		t.Fatal("stat missing after records")
	}
	if stat.TotalClicks != n || stat.YearClicks != n || stat.MonthClicks != n || stat.DayClicks != n {
		t.Errorf("counters: total=%d year=%d month=%d day=%d, want all %d",
			stat.TotalClicks, stat.YearClicks, stat.MonthClicks, stat.DayClicks, n)
	}

	logs, err := repo.Logs(ctx, "test1", "2024_03", 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != n {
		t.Errorf("log rows = %d, want %d (must equal total_clicks)", len(logs), n)
	}
}

func TestRecordConcurrentNoLostUpdates(t *testing.T) {
	tracker, repo := newTracker(t)
	ctx := context.Background()

	const k = 50
	var wg sync.WaitGroup
	wg.Add(k)
	for i := 0; i < k; i++ {
		go func() {
			defer wg.Done()
			if err := tracker.Record(ctx, testClick("test1")); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	stat, err := repo.GetStat(ctx, "test1")
	if err != nil {
		t.Fatal(err)
	}
	if stat == nil || stat.TotalClicks != k {
		t.Fatalf("total_clicks = %+v, want %d (lost update)", stat, k)
	}
}

type failingRepo struct {
	ports.ClickRepository
}

var errBroken = errors.New("disk gone")

func (f *failingRepo) AppendLog(ctx context.Context, e *domain.ClickLogEntry) error {
	return errBroken
}

func TestRecordWrapsStoreError(t *testing.T) {
	tracker := NewTrackerService(&failingRepo{})

	err := tracker.Record(context.Background(), testClick("test1"))
	if !errors.Is(err, errBroken) {
		t.Fatalf("err = %v, want wrapped store error", err)
	}
}

func TestRecordAsyncCountsFailures(t *testing.T) {
	tracker := NewTrackerService(&failingRepo{})

	tracker.RecordAsync(testClick("test1"))

	deadline := time.Now().Add(2 * time.Second)
	for tracker.RecordFailures() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("failure counter never incremented")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRecordAsyncCompletes(t *testing.T) {
	tracker, repo := newTracker(t)

	tracker.RecordAsync(testClick("test1"))

	deadline := time.Now().Add(2 * time.Second)
	for {
		stat, err := repo.GetStat(context.Background(), "test1")
		if err != nil {
			t.Fatal(err)
		}
		if stat != nil && stat.TotalClicks == 1 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("async record never landed: %+v", stat)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
