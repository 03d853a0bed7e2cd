package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"moltmon/internal/domain/journal"
	"moltmon/internal/domain/pet"
)

type journalRepo struct {
	mu      sync.RWMutex
	entries []journal.Entry
}

// NewJournalRepo se usa cuando journal.path está vacío: el diario vive
// solo mientras dura el proceso.
func NewJournalRepo() journal.Repository {
	return &journalRepo{}
}

func (r *journalRepo) Append(ctx context.Context, e journal.Entry) error {
	if e.ID == "" {
		return errors.New("entry id required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func (r *journalRepo) List(ctx context.Context, filter journal.ListFilter) ([]journal.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var wanted map[pet.Event]bool
	if len(filter.Events) > 0 {
		wanted = make(map[pet.Event]bool, len(filter.Events))
		for _, ev := range filter.Events {
			wanted[ev] = true
		}
	}

	// de atrás hacia adelante: a igual At gana la última en llegar
	out := make([]journal.Entry, 0)
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if filter.PetID != nil && e.PetID != *filter.PetID {
			continue
		}
		if wanted != nil && !wanted[e.Event] {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At.After(out[j].At)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}
