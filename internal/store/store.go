// Package store persists named grammar sessions to a SQLite database: the
// ordered rule text that built the grammar, a content fingerprint, and a
// snapshot of the already-computed FIRST/FOLLOW/table summary so that the
// CLI's "load" subcommand doesn't have to re-run the analyzer just to display
// what was already known the last time the session was saved. The HTTP API's
// GET routes answer from the session's live Analyzer instead.
//
// Grounded on the teacher's server/dao/sqlite package: a thin store type
// wrapping *sql.DB, per-entity init() calls that create tables if missing,
// and wrapDBError translating sqlite-specific errors into the package's own
// sentinel errors.
package store

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"github.com/kvarga/llgrammar"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a session id or name has no matching row.
	ErrNotFound = errors.New("the requested session was not found")
)

// Snapshot is the already-computed summary of a grammar at save time: its
// symbols, its FIRST/FOLLOW sets and, when it was LL(1) at that point, its
// parsing table, all in plain string form so it can be displayed without
// reconstructing an Analyzer.
type Snapshot struct {
	LL1       bool
	Variables []string
	Terminals []string
	First     map[string][]string
	Follow    map[string][]string
	Table     map[string]map[string]string
}

// BuildSnapshot captures a's current analysis. It is safe to call regardless
// of whether a is LL(1); Table is left nil when it is not.
func BuildSnapshot(a *llgrammar.Analyzer) (Snapshot, error) {
	snap := Snapshot{
		LL1:       a.IsLL1(),
		Variables: append([]string(nil), a.Variables()...),
		Terminals: append([]string(nil), a.Terminals()...),
		First:     map[string][]string{},
		Follow:    map[string][]string{},
	}

	allSymbols := append(append([]string(nil), snap.Variables...), snap.Terminals...)
	for _, sym := range allSymbols {
		first, err := a.First(sym)
		if err != nil {
			return Snapshot{}, fmt.Errorf("snapshot first(%s): %w", sym, err)
		}
		snap.First[sym] = sortedKeys(first)
	}
	for _, nt := range snap.Variables {
		follow, err := a.Follow(nt)
		if err != nil {
			return Snapshot{}, fmt.Errorf("snapshot follow(%s): %w", nt, err)
		}
		snap.Follow[nt] = sortedKeys(follow)
	}

	if snap.LL1 {
		snap.Table = map[string]map[string]string{}
		for _, nt := range snap.Variables {
			row := map[string]string{}
			for _, t := range append(append([]string(nil), snap.Terminals...), llgrammar.EndMarker) {
				p, err := a.ProductionFor(nt, t)
				if err != nil {
					return Snapshot{}, fmt.Errorf("snapshot production_for(%s,%s): %w", nt, t, err)
				}
				if p != "" {
					row[t] = p
				}
			}
			snap.Table[nt] = row
		}
	}

	return snap, nil
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// Session is one persisted grammar: the rule text it was built from, its
// fingerprint at save time, and the summary snapshot computed from it.
type Session struct {
	ID          uuid.UUID
	Name        string
	Rules       []string
	Fingerprint string
	Snapshot    Snapshot
	Created     time.Time
}

// Store is a SQLite-backed table of named grammar sessions. Each session's
// Analyzer is guarded by a per-id mutex, kept here rather than in the core
// analyzer itself, so the HTTP API can serve concurrent requests against
// different sessions freely while serializing access to any one of them.
type Store struct {
	db *sql.DB

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// Open creates or opens a SQLite database file under dir and ensures the
// sessions table exists.
func Open(dir string) (*Store, error) {
	path := filepath.Join(dir, "llgramctl.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	st := &Store{db: db, locks: map[uuid.UUID]*sync.Mutex{}}
	if err := st.init(); err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

func (s *Store) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS sessions (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		rules TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		snapshot BLOB NOT NULL,
		created INTEGER NOT NULL
	);`
	if _, err := s.db.Exec(stmt); err != nil {
		return wrapDBError(err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Lock returns the mutex guarding concurrent access to id's Analyzer,
// creating one on first use. Callers must hold it for the duration of any
// read-modify-write against the session's live Analyzer.
func (s *Store) Lock(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// Save creates or overwrites the named session with the current state of a.
func (s *Store) Save(ctx context.Context, name string, rules []string, a *llgrammar.Analyzer) (Session, error) {
	fp, err := a.Fingerprint()
	if err != nil {
		return Session{}, fmt.Errorf("compute fingerprint: %w", err)
	}
	snap, err := BuildSnapshot(a)
	if err != nil {
		return Session{}, fmt.Errorf("build snapshot: %w", err)
	}
	snapData := rezi.EncBinary(snap)

	existing, err := s.getByName(ctx, name)
	id := uuid.New()
	if err == nil {
		id = existing.ID
	} else if !errors.Is(err, ErrNotFound) {
		return Session{}, err
	}

	now := time.Now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, name, rules, fingerprint, snapshot, created)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET rules=excluded.rules, fingerprint=excluded.fingerprint, snapshot=excluded.snapshot
	`, id.String(), name, encodeRules(rules), fp, base64.StdEncoding.EncodeToString(snapData), now.Unix())
	if err != nil {
		return Session{}, wrapDBError(err)
	}

	return Session{ID: id, Name: name, Rules: rules, Fingerprint: fp, Snapshot: snap, Created: now}, nil
}

// Load retrieves a session by name.
func (s *Store) Load(ctx context.Context, name string) (Session, error) {
	return s.getByName(ctx, name)
}

func (s *Store) getByName(ctx context.Context, name string) (Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, rules, fingerprint, snapshot, created FROM sessions WHERE name = ?;`, name)

	var idStr, rulesStr, fp, snapB64 string
	var created int64
	if err := row.Scan(&idStr, &rulesStr, &fp, &snapB64, &created); err != nil {
		return Session{}, wrapDBError(err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return Session{}, fmt.Errorf("stored session id %q is invalid: %w", idStr, err)
	}

	snapData, err := base64.StdEncoding.DecodeString(snapB64)
	if err != nil {
		return Session{}, fmt.Errorf("stored snapshot is not valid base64: %w", err)
	}
	var snap Snapshot
	if _, err := rezi.DecBinary(snapData, &snap); err != nil {
		return Session{}, fmt.Errorf("REZI decode snapshot: %w", err)
	}

	return Session{
		ID:          id,
		Name:        name,
		Rules:       decodeRules(rulesStr),
		Fingerprint: fp,
		Snapshot:    snap,
		Created:     time.Unix(created, 0),
	}, nil
}

func encodeRules(rules []string) string {
	data := rezi.EncBinary(rules)
	return base64.StdEncoding.EncodeToString(data)
}

func decodeRules(encoded string) []string {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}
	var rules []string
	if _, err := rezi.DecBinary(data, &rules); err != nil {
		return nil
	}
	return rules
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
