package store

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pbaille/moodlog/internal/domain"
)

//go:embed schema.sql
var schema string

var (
	// ErrNotFound is returned when no entry matches an ID prefix
	ErrNotFound = errors.New("entry not found")
	// ErrAmbiguous is returned when an ID prefix matches several entries
	ErrAmbiguous = errors.New("ambiguous entry id")
)

var importNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("moodlog:journal_entries"))

const entryColumns = "id, timestamp, text, triggers, physical_sensations, thoughts, emotion, intensity, recommendation, created_at"

// Store persists journal entries in SQLite
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveEntry inserts an entry. A missing ID or creation time is assigned and
// the stored entry is returned.
func (s *Store) SaveEntry(e domain.Entry) (domain.Entry, error) {
	e = prepare(e)
	args, err := entryArgs(e)
	if err != nil {
		return domain.Entry{}, err
	}

	if _, err := s.db.Exec(
		"INSERT INTO entries ("+entryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		args...,
	); err != nil {
		return domain.Entry{}, fmt.Errorf("insert entry: %w", err)
	}
	return e, nil
}

// ImportEntries inserts entries in one transaction, skipping IDs already
// stored, and returns how many were added. Entries without an ID get one
// derived from their timestamp and text, so re-importing a file is a no-op.
func (s *Store) ImportEntries(entries []domain.Entry) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO entries (" + entryColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	added := 0
	for _, e := range entries {
		if e.ID == "" {
			e.ID = ImportID(e)
		}
		args, err := entryArgs(prepare(e))
		if err != nil {
			return 0, err
		}
		res, err := stmt.Exec(args...)
		if err != nil {
			return 0, fmt.Errorf("import entry: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			added += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return added, nil
}

// AllEntries returns every entry in insertion order
func (s *Store) AllEntries() ([]domain.Entry, error) {
	rows, err := s.db.Query("SELECT " + entryColumns + " FROM entries ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("all entries: %w", err)
	}
	return scanEntries(rows)
}

// ListEntries returns recent entries with pagination
func (s *Store) ListEntries(limit, offset int) ([]domain.Entry, error) {
	rows, err := s.db.Query(
		"SELECT "+entryColumns+" FROM entries ORDER BY timestamp DESC, seq DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return scanEntries(rows)
}

// GetEntry retrieves an entry by its ID or a unique ID prefix
func (s *Store) GetEntry(idPrefix string) (domain.Entry, error) {
	idPrefix = strings.TrimSpace(idPrefix)
	if idPrefix == "" {
		return domain.Entry{}, ErrNotFound
	}

	rows, err := s.db.Query(
		"SELECT "+entryColumns+" FROM entries WHERE substr(id, 1, ?) = ? LIMIT 2",
		len(idPrefix), idPrefix,
	)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("get entry: %w", err)
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return domain.Entry{}, err
	}

	switch len(entries) {
	case 0:
		return domain.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, idPrefix)
	case 1:
		return entries[0], nil
	default:
		return domain.Entry{}, fmt.Errorf("%w: %s", ErrAmbiguous, idPrefix)
	}
}

// CountEntries returns the number of stored entries
func (s *Store) CountEntries() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// ImportID is the stable ID of an entry that arrived without one
func ImportID(e domain.Entry) string {
	return uuid.NewSHA1(importNamespace, []byte(e.Timestamp+"\x00"+e.Text)).String()
}

func prepare(e domain.Entry) domain.Entry {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	return e
}

func entryArgs(e domain.Entry) ([]any, error) {
	triggers, err := encodeList(e.Triggers)
	if err != nil {
		return nil, err
	}
	sensations, err := encodeList(e.PhysicalSensations)
	if err != nil {
		return nil, err
	}
	thoughts, err := encodeList(e.Thoughts)
	if err != nil {
		return nil, err
	}
	rec, err := json.Marshal(e.Recommendation)
	if err != nil {
		return nil, fmt.Errorf("encode recommendation: %w", err)
	}

	return []any{
		e.ID, e.Timestamp, e.Text, triggers, sensations, thoughts,
		e.Emotion, e.Intensity, string(rec), e.CreatedAt,
	}, nil
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

func decodeList(raw string) ([]string, error) {
	items := []string{}
	if raw == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}

func scanEntries(rows *sql.Rows) ([]domain.Entry, error) {
	defer rows.Close()

	entries := []domain.Entry{}
	for rows.Next() {
		var (
			e                              domain.Entry
			triggers, sensations, thoughts string
			rec                            string
		)
		if err := rows.Scan(
			&e.ID, &e.Timestamp, &e.Text, &triggers, &sensations, &thoughts,
			&e.Emotion, &e.Intensity, &rec, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		var err error
		if e.Triggers, err = decodeList(triggers); err != nil {
			return nil, fmt.Errorf("entry %s triggers: %w", e.ID, err)
		}
		if e.PhysicalSensations, err = decodeList(sensations); err != nil {
			return nil, fmt.Errorf("entry %s sensations: %w", e.ID, err)
		}
		if e.Thoughts, err = decodeList(thoughts); err != nil {
			return nil, fmt.Errorf("entry %s thoughts: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(rec), &e.Recommendation); err != nil {
			return nil, fmt.Errorf("entry %s recommendation: %w", e.ID, err)
		}

		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}
