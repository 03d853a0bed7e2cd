package lifecycle

import (
	"context"

	"moltmon/internal/domain/pet"
)

// Store es lo que la máquina necesita del almacenamiento compartido.
// filestore.Store lo implementa.
type Store interface {
	WriteState(ctx context.Context, st pet.StateData) error
	DrainCommands(ctx context.Context) ([]pet.CommandRecord, error)
	UpsertHistory(ctx context.Context, s pet.Summary) error
}
