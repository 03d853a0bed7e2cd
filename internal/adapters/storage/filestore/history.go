package filestore

import (
	"context"

	"moltmon/internal/domain/pet"
)

// HistoryMirror recibe una copia de cada resumen escrito en history.json
// (p.ej. el archivo en Postgres). El archivo local sigue siendo la fuente de verdad.
type HistoryMirror interface {
	Upsert(ctx context.Context, s pet.Summary) error
}

func WithHistoryMirror(m HistoryMirror) Option {
	return func(s *Store) {
		s.mirror = m
	}
}

func (s *Store) ReadHistory(ctx context.Context) (pet.History, error) {
	if err := ctx.Err(); err != nil {
		return pet.EmptyHistory(), err
	}
	return s.readHistory(), nil
}

func (s *Store) WriteHistory(ctx context.Context, h pet.History) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.withLock(historyLockFile, func() error {
		return s.writeJSON(HistoryFile, h)
	})
}

// UpsertHistory actualiza en el lugar por petId, o agrega al final.
func (s *Store) UpsertHistory(ctx context.Context, sum pet.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.withLock(historyLockFile, func() error {
		h := s.readHistory()
		h.Upsert(sum)
		return s.writeJSON(HistoryFile, h)
	})
	if err != nil {
		return err
	}

	if s.mirror != nil {
		if err := s.mirror.Upsert(ctx, sum); err != nil {
			s.log.Warn("history mirror upsert failed", map[string]any{"pet_id": sum.PetID, "error": err.Error()})
		}
	}
	return nil
}

func (s *Store) readHistory() pet.History {
	var h pet.History
	if !s.readJSON(HistoryFile, &h) {
		return pet.EmptyHistory()
	}
	if h.Pets == nil {
		h.Pets = []pet.Summary{}
	}
	return h
}
