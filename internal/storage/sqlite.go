package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// MemoryDatabase opens a private in-memory database.
const MemoryDatabase = ":memory:"

// SQLiteBackend stores snapshots in a SQLite database.
type SQLiteBackend struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteBackend opens the database at dbPath and applies pending migrations.
func NewSQLiteBackend(ctx context.Context, dbPath string) (*SQLiteBackend, error) {
	// Validate input
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dsn := dbPath
	if dbPath != MemoryDatabase {
		// Ensure directory exists
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	// Open database
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Test connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	b := &SQLiteBackend{db: db, dbPath: dbPath}
	if err := b.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

// Close closes the database connection.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

// Load reads the full snapshot.
func (b *SQLiteBackend) Load(ctx context.Context) (*Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	snapshot := NewSnapshot()

	rows, err := b.db.QueryContext(ctx, `SELECT pattern, code FROM learned_patterns`)
	if err != nil {
		return nil, fmt.Errorf("failed to query learned patterns: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var pattern, code string
		if err := rows.Scan(&pattern, &code); err != nil {
			return nil, fmt.Errorf("failed to scan learned pattern: %w", err)
		}
		snapshot.Patterns[pattern] = code
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating learned patterns: %w", err)
	}

	statRows, err := b.db.QueryContext(ctx, `SELECT code, confidence, usage_count FROM code_stats`)
	if err != nil {
		return nil, fmt.Errorf("failed to query code stats: %w", err)
	}
	defer func() { _ = statRows.Close() }()
	for statRows.Next() {
		var code string
		var confidence, usage int
		if err := statRows.Scan(&code, &confidence, &usage); err != nil {
			return nil, fmt.Errorf("failed to scan code stats: %w", err)
		}
		if confidence != 0 {
			snapshot.Confidence[code] = confidence
		}
		if usage != 0 {
			snapshot.Usage[code] = usage
		}
	}
	if err := statRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating code stats: %w", err)
	}

	codeRows, err := b.db.QueryContext(ctx, `SELECT code FROM catalog_codes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog codes: %w", err)
	}
	defer func() { _ = codeRows.Close() }()
	for codeRows.Next() {
		var code string
		if err := codeRows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan catalog code: %w", err)
		}
		snapshot.Codes = append(snapshot.Codes, code)
	}
	if err := codeRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog codes: %w", err)
	}

	return snapshot, nil
}

// Write replaces the stored snapshot in a single transaction.
func (b *SQLiteBackend) Write(ctx context.Context, snapshot *Snapshot) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if snapshot == nil {
		return fmt.Errorf("%w: snapshot", ErrNilParameter)
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"learned_patterns", "code_stats", "catalog_codes"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for pattern, code := range snapshot.Patterns {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO learned_patterns (pattern, code) VALUES (?, ?)`,
			pattern, code); err != nil {
			return fmt.Errorf("failed to save learned pattern: %w", err)
		}
	}

	stats := make(map[string][2]int, len(snapshot.Confidence))
	for code, n := range snapshot.Confidence {
		s := stats[code]
		s[0] = n
		stats[code] = s
	}
	for code, n := range snapshot.Usage {
		s := stats[code]
		s[1] = n
		stats[code] = s
	}
	for code, s := range stats {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO code_stats (code, confidence, usage_count) VALUES (?, ?, ?)`,
			code, s[0], s[1]); err != nil {
			return fmt.Errorf("failed to save code stats: %w", err)
		}
	}

	for i, code := range snapshot.Codes {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO catalog_codes (position, code) VALUES (?, ?)`,
			i, code); err != nil {
			return fmt.Errorf("failed to save catalog code: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}
