package services

import (
	"context"
	"time"

	"github.com/lza6/NooMiNav-optimization/pkg/core/domain"
	"github.com/lza6/NooMiNav-optimization/pkg/ports"
)

// ResolverService maps identifiers to destination URLs and fires the
// click recording as a side effect. It reads the directory and the
// tracker only; it never touches the stores directly.
type ResolverService struct {
	dir     *domain.Directory
	tracker ports.ClickTracker
	nowFunc func() time.Time
}

func NewResolverService(dir *domain.Directory, tracker ports.ClickTracker) *ResolverService {
	return &ResolverService{
		dir:     dir,
		tracker: tracker,
		nowFunc: time.Now,
	}
}

// ResolveLink resolves id to its destination URL. The backup URL is used
// only when requested and configured; in that case the click is tracked
// under the synthetic backup identifier, otherwise under the plain id.
// Recording happens whenever the id is known, even if the selected URL
// turns out to be empty, and never delays the redirect.
func (s *ResolverService) ResolveLink(ctx context.Context, id string, useBackup bool, v domain.Visitor) (string, error) {
	item := s.dir.Link(id)
	if item == nil {
		return "", domain.ErrNotFound
	}

	onBackup := useBackup && item.BackupURL != ""

	effectiveID, name := id, item.Name
	if onBackup {
		effectiveID = domain.BackupID(id)
		name = item.Name + " (backup)"
	}
	s.track(effectiveID, name, domain.TypeLink, v)

	dest := item.URL
	if onBackup {
		dest = item.BackupURL
	}
	if dest == "" {
		return "", domain.ErrNoDestination
	}
	return dest, nil
}

// ResolveFriend resolves a friend id to its URL, tracking the click under
// the friend's own identifier.
func (s *ResolverService) ResolveFriend(ctx context.Context, id string, v domain.Visitor) (string, error) {
	friend := s.dir.Friend(id)
	if friend == nil {
		return "", domain.ErrNotFound
	}

	s.track(friend.ID, friend.Name, domain.TypeFriend, v)

	if friend.URL == "" {
		return "", domain.ErrNoDestination
	}
	return friend.URL, nil
}

func (s *ResolverService) track(id, name, recordType string, v domain.Visitor) {
	year, monthKey, timestamp := domain.TimeKeys(s.nowFunc())
	s.tracker.RecordAsync(domain.Click{
		ID:        id,
		Name:      name,
		Type:      recordType,
		Year:      year,
		MonthKey:  monthKey,
		Time:      timestamp,
		IP:        v.IP,
		UserAgent: v.UserAgent,
	})
}

var _ ports.RedirectResolver = (*ResolverService)(nil)
