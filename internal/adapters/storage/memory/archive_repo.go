package memory

import (
	"context"
	"sort"
	"sync"

	"moltmon/internal/domain/archive"
	"moltmon/internal/domain/pet"
)

type archiveRepo struct {
	mu    sync.RWMutex
	byPet map[int]pet.Summary
}

func NewArchiveRepo() archive.Repository {
	return &archiveRepo{
		byPet: make(map[int]pet.Summary),
	}
}

func (r *archiveRepo) Upsert(ctx context.Context, s pet.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byPet[s.PetID] = s
	return nil
}

func (r *archiveRepo) GetByPetID(ctx context.Context, petID int) (pet.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byPet[petID]
	if !ok {
		return pet.Summary{}, archive.ErrNotFound
	}
	return s, nil
}

func (r *archiveRepo) List(ctx context.Context, filter archive.ListFilter) ([]pet.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pet.Summary, 0, len(r.byPet))
	for _, s := range r.byPet {
		if filter.Alive != nil && s.IsAlive != *filter.Alive {
			continue
		}
		if filter.Cause != nil {
			if s.Stats.CauseOfDeath == nil || *s.Stats.CauseOfDeath != *filter.Cause {
				continue
			}
		}
		out = append(out, s)
	}

	// más nueva primero
	sort.Slice(out, func(i, j int) bool {
		return out[i].PetID > out[j].PetID
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}
