package domain

// OverviewEntry is one directory entry joined with its statistics for
// presentation.
type OverviewEntry struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Emoji   string     `json:"emoji,omitempty"`
	Stat    StatRecord `json:"stat"`
	Percent float64    `json:"percent"`
	// Today reports whether the last recorded click falls on the current
	// date. It is derived from LastTime alone and can disagree with
	// Stat.DayClicks after a day boundary; consumers read both.
	Today bool `json:"today"`
}

// Overview is the aggregated dashboard view for one month.
type Overview struct {
	MonthKey    string          `json:"month_key"`
	TotalClicks uint64          `json:"total_clicks"`
	Links       []OverviewEntry `json:"links"`
	Friends     []OverviewEntry `json:"friends"`
}
