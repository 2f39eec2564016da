package domain

import "time"

// Record types stored on StatRecord.Type.
const (
	TypeLink   = "link"
	TypeFriend = "friend"
)

// BackupSuffix is appended to an identifier when a click resolves to the
// backup URL, so backup traffic aggregates as its own stats row.
const BackupSuffix = "_backup"

// BackupID returns the synthetic identifier tracking backup-line clicks.
func BackupID(id string) string { return id + BackupSuffix }

// Location is the zone click timestamps are recorded in. The directory's
// audience is UTC+8 and all period keys derive from this zone.
var Location = time.FixedZone("UTC+8", 8*3600)

const timeLayout = "2006-01-02 15:04:05"

// TimeKeys derives the period keys and display timestamp for a click at
// the given instant: the year ("2006"), the month key ("2006_01") and the
// full timestamp ("2006-01-02 15:04:05"), all in Location.
func TimeKeys(now time.Time) (year, monthKey, timestamp string) {
	local := now.In(Location)
	year = local.Format("2006")
	monthKey = local.Format("2006_01")
	timestamp = local.Format(timeLayout)
	return
}

// MonthKeyAt returns the month key ("2006_01") for the given instant.
func MonthKeyAt(now time.Time) string {
	return now.In(Location).Format("2006_01")
}

// DayAt returns the date prefix ("2006-01-02") for the given instant.
func DayAt(now time.Time) string {
	return now.In(Location).Format("2006-01-02")
}

// Click is one recordable click event, keys already derived.
type Click struct {
	ID        string
	Name      string
	Type      string
	Year      string
	MonthKey  string
	Time      string // full timestamp, timeLayout
	IP        string
	UserAgent string
}

// Day returns the date prefix of the click timestamp.
func (c Click) Day() string {
	if len(c.Time) < 10 {
		return c.Time
	}
	return c.Time[:10]
}

// Visitor carries the request attributes stored with a log entry.
type Visitor struct {
	IP        string
	UserAgent string
}

// ClickLogEntry is one row of the append-only click log. Entries are
// immutable once appended.
type ClickLogEntry struct {
	Sequence  int64  `json:"id"`
	LinkID    string `json:"link_id"`
	ClickTime string `json:"click_time"`
	MonthKey  string `json:"month_key"`
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
}

// StatRecord holds the rolling click counters for one identifier. Created
// on first click, mutated on every subsequent click, never deleted.
type StatRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	TotalClicks uint64 `json:"total_clicks"`
	YearClicks  uint64 `json:"year_clicks"`
	MonthClicks uint64 `json:"month_clicks"`
	DayClicks   uint64 `json:"day_clicks"`
	LastYear    string `json:"last_year"`
	LastMonth   string `json:"last_month"`
	LastDay     string `json:"last_day"`
	LastTime    string `json:"last_time"`
}

// Advance applies one click to the record: the total always increments,
// each rolling counter resets to 1 when its period key changed since the
// previous click and increments otherwise. The display name follows the
// most recent click.
func (s *StatRecord) Advance(c Click) {
	s.TotalClicks++

	if s.LastYear == c.Year {
		s.YearClicks++
	} else {
		s.YearClicks = 1
		s.LastYear = c.Year
	}

	if s.LastMonth == c.MonthKey {
		s.MonthClicks++
	} else {
		s.MonthClicks = 1
		s.LastMonth = c.MonthKey
	}

	day := c.Day()
	if s.LastDay == day {
		s.DayClicks++
	} else {
		s.DayClicks = 1
		s.LastDay = day
	}

	s.LastTime = c.Time
	s.Name = c.Name
}

// Snapshot is the full persisted document: the append-only click log plus
// the stats keyed by identifier.
type Snapshot struct {
	Logs  []ClickLogEntry       `json:"logs"`
	Stats map[string]StatRecord `json:"stats"`
}

// NewSnapshot returns an empty document.
func NewSnapshot() *Snapshot {
	return &Snapshot{Stats: make(map[string]StatRecord)}
}
