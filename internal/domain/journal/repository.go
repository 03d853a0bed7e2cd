package journal

import (
	"context"

	"moltmon/internal/domain/pet"
)

type Repository interface {
	Append(ctx context.Context, e Entry) error
	List(ctx context.Context, filter ListFilter) ([]Entry, error)
}

// ListFilter: resultados del más reciente al más viejo.
type ListFilter struct {
	PetID  *int
	Events []pet.Event
	Limit  int
}

// Publisher reenvía entradas fuera del proceso (NATS).
type Publisher interface {
	Publish(ctx context.Context, e Entry) error
}
