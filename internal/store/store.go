package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the SQLite connection and provides access to repositories.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequenceCounter
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates any missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", withForeignKeys(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every connection to a private in-memory database is a new database,
	// and pragmas are per connection.
	if isMemoryDSN(dsn) {
		db.SetMaxOpenConns(1)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, drv: drv, seq: seq}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// ObservationRepo returns an ObservationRepo backed by this store.
func (s *Store) ObservationRepo() ObservationRepo {
	return &observationRepo{store: s}
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{store: s}
}

// QuestionSetRepo returns the SQLite question-set cache backend.
func (s *Store) QuestionSetRepo() *QuestionSetRepo {
	return &QuestionSetRepo{store: s}
}

func (s *Store) builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// exec runs a built statement and returns the number of affected rows.
func (s *Store) exec(ctx context.Context, q entsql.Querier) (int64, error) {
	query, args := q.Query()
	var res sql.Result
	if err := s.drv.Exec(ctx, query, args, &res); err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// query runs a built select and calls scan once per row.
func (s *Store) query(ctx context.Context, q entsql.Querier, scan func(*entsql.Rows) error) error {
	query, args := q.Query()
	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, query, args, rows); err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// withForeignKeys turns foreign keys on for every pooled connection, which
// the schema migrator requires.
func withForeignKeys(dsn string) string {
	const pragma = "_pragma=foreign_keys(1)"
	if strings.Contains(dsn, "?") {
		return dsn + "&" + pragma
	}
	return dsn + "?" + pragma
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// DefaultDBPath resolves the database file path in priority order:
// 1. MATHGENIUS_DB environment variable
// 2. $XDG_DATA_HOME/mathgenius/mathgenius.db
// 3. ~/.local/share/mathgenius/mathgenius.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("MATHGENIUS_DB"); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "mathgenius", "mathgenius.db")
	return p, ensureDir(p)
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
