package services

import (
	"context"
	"math"
	"time"

	"github.com/lza6/NooMiNav-optimization/pkg/core/domain"
	"github.com/lza6/NooMiNav-optimization/pkg/ports"
)

// logQueryLimit caps every log read. The store keeps all history; only
// reads are capped.
const logQueryLimit = 50

// DashboardService is the read-only aggregation over the stats store,
// the log store and the configured directory.
type DashboardService struct {
	dir     *domain.Directory
	repo    ports.ClickRepository
	nowFunc func() time.Time
}

func NewDashboardService(dir *domain.Directory, repo ports.ClickRepository) *DashboardService {
	return &DashboardService{
		dir:     dir,
		repo:    repo,
		nowFunc: time.Now,
	}
}

// Overview joins every configured link and friend with its stat record.
// The percentage denominator counts only identifiers still present in the
// directory; stale stat rows stay persisted but do not contribute.
func (s *DashboardService) Overview(ctx context.Context, monthKey string) (*domain.Overview, error) {
	now := s.nowFunc()
	if monthKey == "" {
		monthKey = domain.MonthKeyAt(now)
	}
	today := domain.DayAt(now)

	stats, err := s.repo.AllStats(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.StatRecord, len(stats))
	for _, st := range stats {
		byID[st.ID] = st
	}

	active := s.dir.ActiveIDs()
	var total uint64
	for id := range active {
		total += byID[id].TotalClicks
	}

	overview := &domain.Overview{MonthKey: monthKey, TotalClicks: total}

	for _, l := range s.dir.Links {
		overview.Links = append(overview.Links, s.entry(l.ID, l.Name, l.Emoji, domain.TypeLink, byID, total, today))
	}
	for _, f := range s.dir.Friends {
		overview.Friends = append(overview.Friends, s.entry(f.ID, f.Name, "", domain.TypeFriend, byID, total, today))
	}

	return overview, nil
}

func (s *DashboardService) entry(id, name, emoji, recordType string, byID map[string]domain.StatRecord, total uint64, today string) domain.OverviewEntry {
	stat, ok := byID[id]
	if !ok {
		stat = domain.StatRecord{ID: id, Name: name, Type: recordType}
	}

	var percent float64
	if total > 0 {
		percent = math.Round(float64(stat.TotalClicks)/float64(total)*1000) / 10
	}

	return domain.OverviewEntry{
		ID:      id,
		Name:    name,
		Emoji:   emoji,
		Stat:    stat,
		Percent: percent,
		Today:   stat.LastTime != "" && len(stat.LastTime) >= 10 && stat.LastTime[:10] == today,
	}
}

// Logs returns the click log for id in the given month, newest first,
// capped at 50 rows. An empty monthKey means the current month.
func (s *DashboardService) Logs(ctx context.Context, id, monthKey string) ([]domain.ClickLogEntry, error) {
	if monthKey == "" {
		monthKey = domain.MonthKeyAt(s.nowFunc())
	}
	return s.repo.Logs(ctx, id, monthKey, logQueryLimit)
}

var _ ports.DashboardService = (*DashboardService)(nil)
