package archive

import (
	"context"
	"errors"

	"moltmon/internal/domain/pet"
)

var (
	ErrNotFound = errors.New("pet not found in archive")
)

// Repository guarda una fila por mascota; cada Upsert pisa la anterior.
type Repository interface {
	Upsert(ctx context.Context, s pet.Summary) error
	GetByPetID(ctx context.Context, petID int) (pet.Summary, error)
	List(ctx context.Context, filter ListFilter) ([]pet.Summary, error)
}

type ListFilter struct {
	// nil = todas, true = solo vivas, false = solo muertas
	Alive *bool
	Cause *pet.CauseOfDeath
	Limit int
}
