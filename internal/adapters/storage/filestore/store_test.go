package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"moltmon/internal/domain/pet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, now time.Time) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "v0"), WithClock(func() time.Time { return now }))
}

func TestReads_DefaultWhenMissing(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, time.Now())

	st, err := s.ReadState(ctx)
	require.NoError(t, err)
	assert.Nil(t, st)

	q, err := s.ReadCommands(ctx)
	require.NoError(t, err)
	assert.Empty(t, q.PendingCommands)

	h, err := s.ReadHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, h.Pets)
	assert.Equal(t, 0, h.CurrentPetID)
}

func TestWriteState_CreatesDirAndRoundTrips(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	in := pet.FreshState(4, now)
	in.State = pet.StateIdle
	in.NextPoopTime = pet.At(now.Add(time.Minute)).Ptr()
	require.NoError(t, s.WriteState(ctx, in))

	out, err := s.ReadState(ctx)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in, *out)

	matches, _ := filepath.Glob(filepath.Join(s.Dir(), "*.tmp"))
	assert.Empty(t, matches, "temp files are renamed into place")
}

func TestReadState_CorruptFileIsQuarantined(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)
	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))
	require.NoError(t, os.WriteFile(s.StatePath(), []byte("{not json"), 0o644))

	st, err := s.ReadState(ctx)
	require.NoError(t, err)
	assert.Nil(t, st)

	_, err = os.Stat(s.StatePath())
	assert.True(t, errors.Is(err, os.ErrNotExist))
	_, err = os.Stat(s.StatePath() + ".corrupt-" + "1766397600000")
	assert.NoError(t, err)
}

func TestCommandQueue_AppendDrainClear(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := newTestStore(t, now)

	require.NoError(t, s.WriteCommand(ctx, pet.Encode(pet.Feed{}, now, "a")))
	require.NoError(t, s.WriteCommand(ctx, pet.Encode(pet.Hatch{CreatureID: "001_blue_cat", Personality: "curious"}, now, "b")))

	q, err := s.ReadCommands(ctx)
	require.NoError(t, err)
	require.Len(t, q.PendingCommands, 2)
	assert.Equal(t, pet.CommandFeed, q.PendingCommands[0].Type)

	drained, err := s.DrainCommands(ctx)
	require.NoError(t, err)
	require.Len(t, drained, 2)
	assert.Equal(t, "b", drained[1].ID)

	again, err := s.DrainCommands(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)

	require.NoError(t, s.WriteCommand(ctx, pet.Encode(pet.Clean{}, now, "c")))
	require.NoError(t, s.ClearCommands(ctx))
	q, err = s.ReadCommands(ctx)
	require.NoError(t, err)
	assert.Empty(t, q.PendingCommands)
}

func TestCommandQueue_ConcurrentAppendsAreNotLost(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, time.Now())

	const producers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	drained := 0

	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.WriteCommand(ctx, pet.Encode(pet.Clean{}, time.Now(), "")))
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 5; i++ {
			recs, err := s.DrainCommands(ctx)
			assert.NoError(t, err)
			mu.Lock()
			drained += len(recs)
			mu.Unlock()
		}
	}()
	wg.Wait()

	rest, err := s.DrainCommands(ctx)
	require.NoError(t, err)
	assert.Equal(t, producers, drained+len(rest))
}

func TestUpsertHistory_MirrorsSummaries(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	mirror := &recordingMirror{}
	s := New(t.TempDir(), WithClock(func() time.Time { return now }), WithHistoryMirror(mirror))

	require.NoError(t, s.UpsertHistory(ctx, pet.NewSummary(1, pet.FreshStats(now), now)))
	require.NoError(t, s.UpsertHistory(ctx, pet.NewSummary(1, pet.FreshStats(now), now)))

	h, err := s.ReadHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, h.Pets, 1)
	assert.Equal(t, []int{1, 1}, mirror.ids)
}

func TestReads_RespectCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newTestStore(t, time.Now())

	_, err := s.ReadState(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.WriteCommand(ctx, pet.CommandRecord{Type: pet.CommandFeed}), context.Canceled)
}

func TestAcquireTickOwner(t *testing.T) {
	s := newTestStore(t, time.Now())

	owner, ok, err := s.AcquireTickOwner()
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, owner.ID)

	b, err := os.ReadFile(filepath.Join(s.Dir(), tickLockFile))
	require.NoError(t, err)
	assert.Contains(t, string(b), owner.ID)

	// Mismo proceso, otro fd: según el SO puede o no ganar. Solo sin error.
	other, ok2, err := s.AcquireTickOwner()
	require.NoError(t, err)
	if ok2 {
		_ = other.Release()
	}

	require.NoError(t, owner.Release())
	require.NoError(t, owner.Release())
}

type recordingMirror struct {
	mu  sync.Mutex
	ids []int
}

func (m *recordingMirror) Upsert(_ context.Context, s pet.Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = append(m.ids, s.PetID)
	return nil
}
