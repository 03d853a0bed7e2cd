package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"moltmon/internal/domain/journal"
	"moltmon/internal/domain/pet"

	_ "modernc.org/sqlite"
)

// JournalStore implementa journal.Repository sobre SQLite.
type JournalStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewJournalStore abre (o crea) la base. ":memory:" sirve para tests.
func NewJournalStore(dbPath string) (*JournalStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// una sola conexión: con ":memory:" cada conexión sería una base distinta
	db.SetMaxOpenConns(1)

	s := &JournalStore{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *JournalStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pet_events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		pet_id INTEGER NOT NULL,
		event TEXT NOT NULL,
		state TEXT NOT NULL,
		at_ms INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_pet_events_pet_id ON pet_events(pet_id);
	CREATE INDEX IF NOT EXISTS idx_pet_events_at ON pet_events(at_ms);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *JournalStore) Append(ctx context.Context, e journal.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO pet_events (id, pet_id, event, state, at_ms) VALUES (?, ?, ?, ?, ?)",
		e.ID, e.PetID, string(e.Event), string(e.State), e.At.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (s *JournalStore) List(ctx context.Context, filter journal.ListFilter) ([]journal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if filter.PetID != nil {
		where = append(where, "pet_id = ?")
		args = append(args, *filter.PetID)
	}
	if len(filter.Events) > 0 {
		marks := make([]string, len(filter.Events))
		for i, ev := range filter.Events {
			marks[i] = "?"
			args = append(args, string(ev))
		}
		where = append(where, "event IN ("+strings.Join(marks, ",")+")")
	}

	q := "SELECT id, pet_id, event, state, at_ms FROM pet_events"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY at_ms DESC, seq DESC"
	if filter.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	out := make([]journal.Entry, 0)
	for rows.Next() {
		var (
			e         journal.Entry
			ev, state string
			atMs      int64
		)
		if err := rows.Scan(&e.ID, &e.PetID, &ev, &state, &atMs); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Event = pet.Event(ev)
		e.State = pet.State(state)
		e.At = time.UnixMilli(atMs).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func (s *JournalStore) Close() error {
	return s.db.Close()
}
