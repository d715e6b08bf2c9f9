package history

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5

	// Fixed width, so ts_utc orders correctly as text.
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrRunNotFound is returned by LoadOrder for unknown run ids.
var ErrRunNotFound = errors.New("run not found")

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	db, err := sql.Open(driverName, dsn(cleanPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

// dsn builds the sqlite URI for path. Characters that would end the file
// part of the URI are percent-encoded; sqlite decodes them again.
func dsn(path string) string {
	escaped := strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23").Replace(path)
	// busy_timeout + WAL keep concurrent batch jobs from tripping over each other.
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(2000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "foreign_keys(ON)")
	return "file:" + escaped + "?" + q.Encode()
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun stores the run and its load plan in one transaction and returns
// the run id, generating one when run.ID is empty.
func (s *Store) SaveRun(run Run) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(run.Library) == "" {
		return "", fmt.Errorf("run library must not be empty")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}
	if run.Status == "" {
		run.Status = StatusSorted
	}

	err := s.withRetry("save run", func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
INSERT INTO runs (
  run_id, library, library_path, tree_path, ts_utc, status, cycle_node,
  vertex_count, edge_count, dangling_count, duration_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			run.Library,
			run.LibraryPath,
			run.TreePath,
			run.Timestamp.UTC().Format(timestampLayout),
			run.Status,
			run.CycleNode,
			run.Vertices,
			run.Edges,
			run.Dangling,
			run.Duration.Milliseconds(),
		); err != nil {
			_ = tx.Rollback()
			return err
		}
		for i, entry := range run.Order {
			if _, err := tx.Exec(
				`INSERT INTO run_order (run_id, position, name, path) VALUES (?, ?, ?, ?)`,
				run.ID, i+1, entry.Name, entry.Path,
			); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

// LoadRuns returns the runs of library at or after since, oldest first.
// The load plans are not populated; use LoadOrder for those.
func (s *Store) LoadRuns(library string, since time.Time) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
SELECT run_id, library, library_path, tree_path, ts_utc, status, cycle_node,
  vertex_count, edge_count, dangling_count, duration_ms
FROM runs
WHERE library = ?`
	args := []any{library}
	if !since.IsZero() {
		query += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(timestampLayout))
	}
	query += " ORDER BY ts_utc ASC, run_id ASC"

	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var (
			run        Run
			tsRaw      string
			durationMS int64
		)
		if err := rows.Scan(
			&run.ID,
			&run.Library,
			&run.LibraryPath,
			&run.TreePath,
			&tsRaw,
			&run.Status,
			&run.CycleNode,
			&run.Vertices,
			&run.Edges,
			&run.Dangling,
			&durationMS,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", tsRaw, err)
		}
		run.Timestamp = ts.UTC()
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}

// LoadOrder returns the recorded load plan of a run.
func (s *Store) LoadOrder(runID string) ([]OrderEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM runs WHERE run_id = ?`, runID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("look up run %q: %w", runID, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	rows, err := s.db.Query(`SELECT position, name, path FROM run_order WHERE run_id = ? ORDER BY position ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("load order for run %q: %w", runID, err)
	}
	defer rows.Close()

	order := make([]OrderEntry, 0)
	for rows.Next() {
		var entry OrderEntry
		if err := rows.Scan(&entry.Position, &entry.Name, &entry.Path); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		order = append(order, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	return order, nil
}

// Latest returns the most recent sorted run of library, if any.
func (s *Store) Latest(library string) (*Run, error) {
	runs, err := s.LoadRuns(library, time.Time{})
	if err != nil {
		return nil, err
	}
	for i := len(runs) - 1; i >= 0; i-- {
		if runs[i].Status != StatusSorted {
			continue
		}
		run := runs[i]
		order, err := s.LoadOrder(run.ID)
		if err != nil {
			return nil, err
		}
		run.Order = order
		return &run, nil
	}
	return nil, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}
