package repository

import (
	"strings"

	"github.com/lza6/NooMiNav-optimization/pkg/adapters/repository/document"
	"github.com/lza6/NooMiNav-optimization/pkg/adapters/repository/sqlite"
	"github.com/lza6/NooMiNav-optimization/pkg/ports"
)

// Open picks the store adapter from the URL: SQLite-looking URLs (local
// .db/.sqlite files, libsql:// or wss:// Turso endpoints) get the SQL
// adapter, everything else the JSON document store.
func Open(dbURL string) (ports.ClickRepository, error) {
	if isSQL(dbURL) {
		return sqlite.NewSQLiteRepository(dbURL)
	}
	return document.NewDocumentRepository(dbURL)
}

func isSQL(dbURL string) bool {
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		return true
	}
	trimmed := strings.TrimPrefix(dbURL, "file:")
	if i := strings.IndexByte(trimmed, '?'); i >= 0 {
		trimmed = trimmed[:i]
	}
	return strings.HasSuffix(trimmed, ".db") || strings.HasSuffix(trimmed, ".sqlite") ||
		strings.Contains(dbURL, "mode=memory")
}
