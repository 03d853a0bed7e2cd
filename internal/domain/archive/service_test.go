package archive

import (
	"context"
	"sort"
	"testing"
	"time"

	"moltmon/internal/domain/pet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byPet     map[int]pet.Summary
	lastLimit int
}

func (f *fakeRepo) Upsert(_ context.Context, s pet.Summary) error {
	f.byPet[s.PetID] = s
	return nil
}

func (f *fakeRepo) GetByPetID(_ context.Context, id int) (pet.Summary, error) {
	s, ok := f.byPet[id]
	if !ok {
		return pet.Summary{}, ErrNotFound
	}
	return s, nil
}

func (f *fakeRepo) List(_ context.Context, filter ListFilter) ([]pet.Summary, error) {
	f.lastLimit = filter.Limit
	out := make([]pet.Summary, 0, len(f.byPet))
	for _, s := range f.byPet {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PetID < out[j].PetID })
	return out, nil
}

func deadSummary(id int, lived time.Duration, cause pet.CauseOfDeath) pet.Summary {
	end := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	st := pet.FreshStats(end.Add(-lived))
	st.DiedAt = pet.At(end).Ptr()
	st.CauseOfDeath = &cause
	st.TimesFed = 2
	return pet.NewSummary(id, st, end)
}

func TestService_UpsertRejectsInvalidPetID(t *testing.T) {
	svc := NewService(&fakeRepo{byPet: map[int]pet.Summary{}})
	assert.ErrorIs(t, svc.Upsert(context.Background(), pet.Summary{}), ErrInvalidInput)

	_, err := svc.Get(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ListClampsLimit(t *testing.T) {
	repo := &fakeRepo{byPet: map[int]pet.Summary{}}
	svc := NewService(repo)

	_, err := svc.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, defaultLimit, repo.lastLimit)

	_, err = svc.List(context.Background(), ListFilter{Limit: 10_000})
	require.NoError(t, err)
	assert.Equal(t, maxLimit, repo.lastLimit)
}

func TestService_Records(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeRepo{byPet: map[int]pet.Summary{}})

	require.NoError(t, svc.Upsert(ctx, deadSummary(1, time.Hour, pet.CauseStarvation)))
	require.NoError(t, svc.Upsert(ctx, deadSummary(2, 3*time.Hour, pet.CauseUntreatedSickness)))
	require.NoError(t, svc.Upsert(ctx, deadSummary(3, 2*time.Hour, pet.CauseStarvation)))
	now := time.Now()
	require.NoError(t, svc.Upsert(ctx, pet.NewSummary(4, pet.FreshStats(now.Add(-100*time.Hour)), now)))

	rec, err := svc.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, rec.Pets)
	assert.Equal(t, 3, rec.Deaths)
	assert.Equal(t, 2, rec.DeathsByCause[pet.CauseStarvation])
	assert.Equal(t, 1, rec.DeathsByCause[pet.CauseUntreatedSickness])
	assert.Equal(t, 6, rec.TotalTimesFed)
	require.NotNil(t, rec.LongestSurvival)
	assert.Equal(t, 2, rec.LongestSurvival.PetID, "the living pet does not compete")
}
