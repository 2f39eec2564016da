package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/lza6/NooMiNav-optimization/pkg/core/domain"
	"github.com/lza6/NooMiNav-optimization/pkg/ports"
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"                               // local SQLite driver
)

// SQLiteRepository implements the click store on SQLite or a remote
// libsql/Turso database, for deployments where the single-document file
// store is outgrown.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		link_id TEXT NOT NULL,
		click_time TEXT NOT NULL,
		month_key TEXT NOT NULL,
		ip_address TEXT,
		user_agent TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_logs_link_month ON logs(link_id, month_key);

	CREATE TABLE IF NOT EXISTS stats (
		id TEXT PRIMARY KEY,
		name TEXT,
		type TEXT,
		total_clicks INTEGER NOT NULL DEFAULT 0,
		year_clicks INTEGER NOT NULL DEFAULT 0,
		month_clicks INTEGER NOT NULL DEFAULT 0,
		day_clicks INTEGER NOT NULL DEFAULT 0,
		last_year TEXT,
		last_month TEXT,
		last_day TEXT,
		last_time TEXT
	);
	`
	_, err := db.Exec(query)
	return err
}

func (r *SQLiteRepository) AppendLog(ctx context.Context, entry *domain.ClickLogEntry) error {
	query := `INSERT INTO logs (link_id, click_time, month_key, ip_address, user_agent) VALUES (?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, entry.LinkID, entry.ClickTime, entry.MonthKey, entry.IPAddress, entry.UserAgent)
	if err != nil {
		return err
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return err
	}
	entry.Sequence = seq
	return nil
}

func (r *SQLiteRepository) Logs(ctx context.Context, id, monthKey string, limit int) ([]domain.ClickLogEntry, error) {
	query := `SELECT id, link_id, click_time, month_key, ip_address, user_agent
			  FROM logs WHERE link_id = ? AND month_key = ? ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, id, monthKey, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ClickLogEntry
	for rows.Next() {
		var e domain.ClickLogEntry
		if err := rows.Scan(&e.Sequence, &e.LinkID, &e.ClickTime, &e.MonthKey, &e.IPAddress, &e.UserAgent); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLiteRepository) GetStat(ctx context.Context, id string) (*domain.StatRecord, error) {
	query := `SELECT id, name, type, total_clicks, year_clicks, month_clicks, day_clicks,
			  last_year, last_month, last_day, last_time FROM stats WHERE id = ?`

	var s domain.StatRecord
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Type, &s.TotalClicks, &s.YearClicks, &s.MonthClicks, &s.DayClicks,
		&s.LastYear, &s.LastMonth, &s.LastDay, &s.LastTime,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteRepository) UpsertStat(ctx context.Context, id string, apply func(prev *domain.StatRecord) domain.StatRecord) error {
	prev, err := r.GetStat(ctx, id)
	if err != nil {
		return err
	}

	next := apply(prev)

	query := `INSERT INTO stats (id, name, type, total_clicks, year_clicks, month_clicks, day_clicks, last_year, last_month, last_day, last_time)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON CONFLICT(id) DO UPDATE SET
				name = excluded.name, type = excluded.type,
				total_clicks = excluded.total_clicks,
				year_clicks = excluded.year_clicks,
				month_clicks = excluded.month_clicks,
				day_clicks = excluded.day_clicks,
				last_year = excluded.last_year,
				last_month = excluded.last_month,
				last_day = excluded.last_day,
				last_time = excluded.last_time`

	_, err = r.db.ExecContext(ctx, query,
		next.ID, next.Name, next.Type, next.TotalClicks, next.YearClicks, next.MonthClicks, next.DayClicks,
		next.LastYear, next.LastMonth, next.LastDay, next.LastTime,
	)
	return err
}

func (r *SQLiteRepository) AllStats(ctx context.Context) ([]domain.StatRecord, error) {
	query := `SELECT id, name, type, total_clicks, year_clicks, month_clicks, day_clicks,
			  last_year, last_month, last_day, last_time FROM stats`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.StatRecord
	for rows.Next() {
		var s domain.StatRecord
		if err := rows.Scan(&s.ID, &s.Name, &s.Type, &s.TotalClicks, &s.YearClicks, &s.MonthClicks, &s.DayClicks,
			&s.LastYear, &s.LastMonth, &s.LastDay, &s.LastTime); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *SQLiteRepository) Dump(ctx context.Context) (*domain.Snapshot, error) {
	snap := domain.NewSnapshot()

	rows, err := r.db.QueryContext(ctx, `SELECT id, link_id, click_time, month_key, ip_address, user_agent FROM logs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var e domain.ClickLogEntry
		if err := rows.Scan(&e.Sequence, &e.LinkID, &e.ClickTime, &e.MonthKey, &e.IPAddress, &e.UserAgent); err != nil {
			return nil, err
		}
		snap.Logs = append(snap.Logs, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats, err := r.AllStats(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range stats {
		snap.Stats[s.ID] = s
	}
	return snap, nil
}

func (r *SQLiteRepository) Restore(ctx context.Context, snap *domain.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM logs`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM stats`); err != nil {
		return err
	}

	for _, e := range snap.Logs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO logs (id, link_id, click_time, month_key, ip_address, user_agent) VALUES (?, ?, ?, ?, ?, ?)`,
			e.Sequence, e.LinkID, e.ClickTime, e.MonthKey, e.IPAddress, e.UserAgent); err != nil {
			return err
		}
	}
	for _, s := range snap.Stats {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO stats (id, name, type, total_clicks, year_clicks, month_clicks, day_clicks, last_year, last_month, last_day, last_time)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ID, s.Name, s.Type, s.TotalClicks, s.YearClicks, s.MonthClicks, s.DayClicks,
			s.LastYear, s.LastMonth, s.LastDay, s.LastTime); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *SQLiteRepository) Close() error { return r.db.Close() }

// Ensure interface compliance
var _ ports.ClickRepository = (*SQLiteRepository)(nil)
