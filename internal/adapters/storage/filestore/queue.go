package filestore

import (
	"context"

	"moltmon/internal/domain/pet"
)

// WriteCommand agrega un comando al final de la cola.
func (s *Store) WriteCommand(ctx context.Context, rec pet.CommandRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.withLock(queueLockFile, func() error {
		q := s.readQueue()
		q.PendingCommands = append(q.PendingCommands, rec)
		return s.writeJSON(CommandsFile, q)
	})
}

func (s *Store) ReadCommands(ctx context.Context) (pet.CommandQueue, error) {
	if err := ctx.Err(); err != nil {
		return pet.EmptyQueue(), err
	}
	return s.readQueue(), nil
}

func (s *Store) ClearCommands(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.withLock(queueLockFile, func() error {
		return s.writeJSON(CommandsFile, pet.EmptyQueue())
	})
}

// DrainCommands lee y vacía la cola bajo el mismo lock, así un append
// concurrente (que también toma el lock) no se pierde entre lectura y limpieza.
// Si la cola ya está vacía no toca el archivo.
func (s *Store) DrainCommands(ctx context.Context) ([]pet.CommandRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []pet.CommandRecord
	err := s.withLock(queueLockFile, func() error {
		q := s.readQueue()
		if len(q.PendingCommands) == 0 {
			return nil
		}
		if err := s.writeJSON(CommandsFile, pet.EmptyQueue()); err != nil {
			return err
		}
		out = q.PendingCommands
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) readQueue() pet.CommandQueue {
	var q pet.CommandQueue
	if !s.readJSON(CommandsFile, &q) {
		return pet.EmptyQueue()
	}
	if q.PendingCommands == nil {
		q.PendingCommands = []pet.CommandRecord{}
	}
	return q
}
