package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// dsnOptions configure every history database connection: WAL with a busy
// timeout so a chat session and a concurrent command invocation don't trip
// over each other, NORMAL sync (history records are recomputable), and
// local-time timestamps.
const dsnOptions = "?_journal_mode=WAL" +
	"&_busy_timeout=3000" +
	"&_synchronous=NORMAL" +
	"&_foreign_keys=on" +
	"&_loc=Local"

// Open opens the history database, creating the file and its parent
// directory if needed.
func Open(dbPath string) (*sql.DB, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("db path is required")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One writer is all the history store needs; a single connection keeps
	// writes serialized without SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	// sql.Open is lazy; surface a bad path or corrupt file here rather
	// than on the first query.
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return db, nil
}
