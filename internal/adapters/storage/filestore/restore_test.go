package filestore

import (
	"context"
	"os"
	"testing"
	"time"

	"moltmon/internal/domain/pet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestoreOrCreate_FreshStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	st, restored, err := s.RestoreOrCreateState(ctx)
	require.NoError(t, err)
	assert.False(t, restored)
	assert.Equal(t, 1, st.PetID)
	assert.Equal(t, pet.StateEgg, st.State)

	h, err := s.ReadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, h.Pets, 1)
	assert.Equal(t, 1, h.Pets[0].PetID)
	assert.True(t, h.Pets[0].IsAlive)
	assert.Equal(t, 1, h.CurrentPetID)

	onDisk, err := s.ReadState(ctx)
	require.NoError(t, err)
	require.NotNil(t, onDisk)
	assert.Equal(t, st, *onDisk)
}

func TestRestoreOrCreate_RestoresLivingPet(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := newTestStore(t, now)

	alive := pet.FreshState(7, now)
	alive.State = pet.StateHungry
	alive.HungryStartTime = pet.At(now).Ptr()
	require.NoError(t, s.WriteState(ctx, alive))

	st, restored, err := s.RestoreOrCreateState(ctx)
	require.NoError(t, err)
	assert.True(t, restored)
	assert.Equal(t, alive, st)
}

func TestRestoreOrCreate_DeadPetStartsNextID(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := newTestStore(t, now)

	dead := pet.FreshState(4, now)
	dead.State = pet.StateDead
	require.NoError(t, s.WriteState(ctx, dead))
	require.NoError(t, s.WriteHistory(ctx, pet.History{Pets: []pet.Summary{dead.Summary(now)}, CurrentPetID: 4}))

	st, restored, err := s.RestoreOrCreateState(ctx)
	require.NoError(t, err)
	assert.False(t, restored)
	assert.Equal(t, 5, st.PetID)
	assert.Equal(t, pet.StateEgg, st.State)

	h, err := s.ReadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, h.Pets, 2)
	assert.False(t, h.Pets[0].IsAlive)
	assert.True(t, h.Pets[1].IsAlive)
	assert.Equal(t, 5, h.CurrentPetID)
}

func TestRestoreOrCreate_CorruptHistoryDoesNotReuseDeadID(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := newTestStore(t, now)

	dead := pet.FreshState(5, now)
	dead.State = pet.StateDead
	require.NoError(t, s.WriteState(ctx, dead))
	require.NoError(t, os.WriteFile(s.path(HistoryFile), []byte("{broken"), 0o644))

	st, restored, err := s.RestoreOrCreateState(ctx)
	require.NoError(t, err)
	assert.False(t, restored)
	assert.Equal(t, 6, st.PetID)

	h, err := s.ReadHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, h.CurrentPetID)
}

func TestRestoreOrCreate_MigratesLegacyStateOnce(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	legacy := `{
  "state": "IDLE",
  "lastEvent": "FED",
  "lastEventTime": 1766390000000,
  "hungerTimerStart": 1766390000000,
  "lastFedTime": 1766390000000,
  "createdAt": 1766300000000
}`
	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))
	require.NoError(t, os.WriteFile(s.StatePath(), []byte(legacy), 0o644))

	st, restored, err := s.RestoreOrCreateState(ctx)
	require.NoError(t, err)
	assert.True(t, restored)
	assert.Equal(t, 1, st.PetID)
	assert.Equal(t, pet.StateIdle, st.State)
	assert.Equal(t, pet.Timestamp(1766300000000), st.Stats.BornAt)
	assert.Equal(t, 0, st.PoopCount)
	assert.Nil(t, st.NextPoopTime)
	assert.Nil(t, st.SicknessStartTime)
	assert.Nil(t, st.PoopSicknessDeadline)
	assert.Nil(t, st.HungryStartTime)
	assert.Nil(t, st.Stats.DiedAt)
	require.NotNil(t, st.HungerTimerStart)
	require.NoError(t, st.CheckInvariants())

	// El registro migrado ya quedó persistido: restaurar otra vez no migra de nuevo.
	again, restored, err := s.RestoreOrCreateState(ctx)
	require.NoError(t, err)
	assert.True(t, restored)
	assert.Equal(t, st, again)

	h, err := s.ReadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, h.Pets, 1)
	assert.Equal(t, 1, h.Pets[0].PetID)
	assert.True(t, h.Pets[0].IsAlive)
}

func TestRestoreOrCreate_LegacyAlreadyInHistoryIsNotDuplicated(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := newTestStore(t, now)

	require.NoError(t, s.WriteHistory(ctx, pet.History{
		Pets:         []pet.Summary{pet.NewSummary(1, pet.FreshStats(now), now)},
		CurrentPetID: 1,
	}))
	require.NoError(t, os.WriteFile(s.StatePath(), []byte(`{"state":"EGG","createdAt":1766300000000}`), 0o644))

	_, _, err := s.RestoreOrCreateState(ctx)
	require.NoError(t, err)

	h, err := s.ReadHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, h.Pets, 1)
}
