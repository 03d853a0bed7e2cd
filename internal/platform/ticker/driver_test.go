package ticker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"moltmon/internal/domain/pet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMachine struct {
	mu        sync.Mutex
	state     pet.State
	ticks     int
	hatched   int
	rebirths  int
	tickErr   error
	rebirthCh chan struct{}
}

func (f *fakeMachine) Tick(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ticks++
	return f.tickErr
}

func (f *fakeMachine) State() pet.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeMachine) CompleteHatching() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hatched++
	f.state = pet.StateIdle
}

func (f *fakeMachine) Rebirth(ctx context.Context) error {
	f.mu.Lock()
	f.rebirths++
	ch := f.rebirthCh
	f.mu.Unlock()

	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	f.state = pet.StateEgg
	f.mu.Unlock()
	return nil
}

func (f *fakeMachine) get(fn func(*fakeMachine) int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(f)
}

func startDriver(t *testing.T, m Machine, opts Options) *Driver {
	t.Helper()
	if opts.Interval == 0 {
		opts.Interval = 5 * time.Millisecond
	}
	d, err := New(m, opts)
	require.NoError(t, err)
	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(func() { _ = d.Stop() })
	return d
}

func TestDriver_TicksRepeatedly(t *testing.T) {
	m := &fakeMachine{state: pet.StateIdle}
	startDriver(t, m, Options{})

	require.Eventually(t, func() bool {
		return m.get(func(f *fakeMachine) int { return f.ticks }) >= 3
	}, 2*time.Second, 5*time.Millisecond)
}

func TestDriver_CompletesHatchingAfterDuration(t *testing.T) {
	m := &fakeMachine{state: pet.StateHatching}
	startDriver(t, m, Options{HatchDuration: 30 * time.Millisecond})

	require.Eventually(t, func() bool {
		return m.State() == pet.StateIdle
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, m.get(func(f *fakeMachine) int { return f.hatched }))
}

func TestDriver_RebirthStartsOnce(t *testing.T) {
	release := make(chan struct{})
	m := &fakeMachine{state: pet.StateDead, rebirthCh: release}
	startDriver(t, m, Options{})

	// varios ticks con la mascota muerta mientras el renacimiento espera
	require.Eventually(t, func() bool {
		return m.get(func(f *fakeMachine) int { return f.ticks }) >= 5
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, m.get(func(f *fakeMachine) int { return f.rebirths }))

	close(release)
	require.Eventually(t, func() bool {
		return m.State() == pet.StateEgg
	}, 2*time.Second, 5*time.Millisecond)
}

func TestDriver_TickErrorIsReportedAndStops(t *testing.T) {
	m := &fakeMachine{state: pet.StateIdle, tickErr: errors.New("disk full")}
	d := startDriver(t, m, Options{})

	select {
	case err := <-d.Errors():
		assert.EqualError(t, err, "disk full")
	case <-time.After(2 * time.Second):
		t.Fatal("expected a tick error")
	}

	n := m.get(func(f *fakeMachine) int { return f.ticks })
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, n, m.get(func(f *fakeMachine) int { return f.ticks }), "no ticks after a failure")
}
