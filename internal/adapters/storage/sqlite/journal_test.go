package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"moltmon/internal/domain/journal"
	"moltmon/internal/domain/pet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id string, petID int, ev pet.Event, at time.Time) journal.Entry {
	return journal.Entry{ID: id, PetID: petID, Event: ev, State: pet.StateIdle, At: at}
}

func TestJournalStore_AppendAndList(t *testing.T) {
	ctx := context.Background()
	s, err := NewJournalStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	base := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.Append(ctx, entry("a", 1, pet.EventHatched, base)))
	require.NoError(t, s.Append(ctx, entry("b", 1, pet.EventPooped, base.Add(time.Second))))
	require.NoError(t, s.Append(ctx, entry("c", 2, pet.EventPooped, base.Add(2*time.Second))))
	require.NoError(t, s.Append(ctx, entry("d", 2, pet.EventCleaned, base.Add(2*time.Second))))

	all, err := s.List(ctx, journal.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []string{"d", "c", "b", "a"}, ids(all))
	assert.Equal(t, base, all[3].At)

	one := 1
	byPet, err := s.List(ctx, journal.ListFilter{PetID: &one})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(byPet))

	poops, err := s.List(ctx, journal.ListFilter{Events: []pet.Event{pet.EventPooped}, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids(poops))
}

func TestJournalStore_DuplicateIDFails(t *testing.T) {
	ctx := context.Background()
	s, err := NewJournalStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Append(ctx, entry("a", 1, pet.EventFed, time.Now())))
	assert.Error(t, s.Append(ctx, entry("a", 1, pet.EventFed, time.Now())))
}

func TestJournalStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	s, err := NewJournalStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, entry("a", 3, pet.EventDied, time.Now())))
	require.NoError(t, s.Close())

	s, err = NewJournalStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	got, err := s.List(ctx, journal.ListFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pet.EventDied, got[0].Event)
}

func ids(es []journal.Entry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.ID
	}
	return out
}
