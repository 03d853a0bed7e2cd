package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"moltmon/internal/domain/care"
	"moltmon/internal/domain/pet"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)

type fakeMachine struct {
	st        pet.StateData
	tickErr   error
	ticks     int
	completed int
	rebirths  int
}

func (f *fakeMachine) Tick(context.Context) error {
	f.ticks++
	return f.tickErr
}

func (f *fakeMachine) StateData() pet.StateData { return f.st.Clone() }

func (f *fakeMachine) CompleteHatching() {
	f.completed++
	if f.st.State == pet.StateHatching {
		f.st.State = pet.StateIdle
	}
}

func (f *fakeMachine) Rebirth(context.Context) error {
	f.rebirths++
	f.st = pet.FreshState(f.st.PetID+1, t0)
	return nil
}

type fakeReader struct{ st *pet.StateData }

func (f *fakeReader) ReadState(context.Context) (*pet.StateData, error) {
	if f.st == nil {
		return nil, nil
	}
	c := f.st.Clone()
	return &c, nil
}

type fakeActions struct{ healErr error }

func (fakeActions) Feed(context.Context) (care.Receipt, error) {
	return care.Receipt{Type: pet.CommandFeed, Message: "Feed command sent!"}, nil
}

func (fakeActions) Clean(context.Context) (care.Receipt, error) {
	return care.Receipt{Type: pet.CommandClean, Message: "Clean command sent!"}, nil
}

func (f fakeActions) Heal(context.Context) (care.Receipt, error) {
	return care.Receipt{}, f.healErr
}

func stateWith(s pet.State, creature string) pet.StateData {
	st := pet.FreshState(1, t0)
	st.State = s
	if creature != "" {
		st.CreatureID = &creature
	}
	return st
}

// pastIntro deja el modelo fuera de la pantalla de bienvenida.
func pastIntro(t *testing.T, m *Model) time.Time {
	t.Helper()
	m.step(t0)
	now := t0.Add(introHold)
	m.step(now)
	require.NotEqual(t, PhaseIntro, m.Phase())
	return now
}

func TestIntroThenEgg(t *testing.T) {
	fm := &fakeMachine{st: stateWith(pet.StateEgg, "")}
	m := New(Options{Machine: fm, Initial: fm.st})

	assert.Contains(t, m.View(), "A new Moltmon egg appears! (Pet #1)")

	m.step(t0)
	m.step(t0.Add(time.Second))
	assert.Equal(t, PhaseIntro, m.Phase())

	m.step(t0.Add(introHold))
	assert.Equal(t, PhaseEgg, m.Phase())
	assert.Contains(t, m.View(), "Waiting for AI to hatch...")
	assert.Equal(t, 3, fm.ticks)
}

func TestRestoredIntro(t *testing.T) {
	fm := &fakeMachine{st: stateWith(pet.StateIdle, care.CreatureBlueCat)}
	m := New(Options{Machine: fm, Initial: fm.st, Restored: true})
	assert.Contains(t, m.View(), "Welcome back! Pet #1 restored.")
}

func TestHatchAnimationCompletesHatching(t *testing.T) {
	fm := &fakeMachine{st: stateWith(pet.StateHatching, care.CreaturePinkDog)}
	m := New(Options{Machine: fm, Initial: fm.st, HatchFrame: 400 * time.Millisecond})

	start := pastIntro(t, &m)
	require.Equal(t, PhaseHatching, m.Phase())

	m.step(start.Add(400 * time.Millisecond))
	assert.Contains(t, m.View(), "*crack* *crack*")
	assert.Zero(t, fm.completed)

	// cinco frames de 400ms
	m.step(start.Add(2 * time.Second))
	assert.Equal(t, 1, fm.completed)
	assert.Equal(t, PhaseHatched, m.Phase())

	m.step(start.Add(3 * time.Second))
	assert.Equal(t, PhaseAlive, m.Phase())
	assert.Contains(t, m.View(), "woof!")
}

func TestAliveMessagesFollowState(t *testing.T) {
	fm := &fakeMachine{st: stateWith(pet.StateIdle, care.CreatureBlueCat)}
	m := New(Options{Machine: fm, Initial: fm.st})
	now := pastIntro(t, &m)
	require.Equal(t, PhaseAlive, m.Phase())
	assert.Contains(t, m.View(), "nyaa~")

	fm.st.State = pet.StateHungry
	fm.st.PoopCount = 6
	m.step(now.Add(250 * time.Millisecond))
	v := m.View()
	assert.Contains(t, v, "nya... hungry...")
	assert.Contains(t, v, "+2")

	fm.st.State = pet.StateSick
	m.step(now.Add(500 * time.Millisecond))
	assert.Contains(t, m.View(), "*cough* nya...")
}

func TestDeathSummaryThenRebirth(t *testing.T) {
	fm := &fakeMachine{st: stateWith(pet.StateIdle, care.CreatureBlueCat)}
	m := New(Options{Machine: fm, Initial: fm.st})
	now := pastIntro(t, &m)

	died := pet.At(t0.Add(10 * time.Minute))
	cause := pet.CauseStarvation
	fm.st.State = pet.StateDead
	fm.st.Stats.DiedAt = &died
	fm.st.Stats.CauseOfDeath = &cause
	fm.st.Stats.TimesFed = 3

	cmd := m.step(now)
	require.NotNil(t, cmd, "death should start the rebirth")
	assert.Equal(t, PhaseDying, m.Phase())
	assert.Contains(t, m.View(), "~ ... ~")

	// un segundo tick en DEAD no lanza otro renacimiento
	assert.Nil(t, m.step(now.Add(250*time.Millisecond)))

	next, _ := m.Update(cmd())
	m = next.(Model)
	assert.Equal(t, 1, fm.rebirths)

	m.step(now.Add(dyingHold))
	require.Equal(t, PhaseSummary, m.Phase())
	v := m.View()
	assert.Contains(t, v, "Starvation")
	assert.Contains(t, v, "Survived: 10m 0s")
	assert.Contains(t, v, "Times fed:     3")

	m.step(now.Add(dyingHold + summaryHold))
	require.Equal(t, PhaseRebirth, m.Phase())
	assert.Contains(t, m.View(), "Pet #2 has arrived!")

	m.step(now.Add(dyingHold + summaryHold + rebirthHold))
	assert.Equal(t, PhaseEgg, m.Phase())
}

func TestTickErrorQuits(t *testing.T) {
	fm := &fakeMachine{st: stateWith(pet.StateIdle, ""), tickErr: errors.New("disk full")}
	m := New(Options{Machine: fm, Initial: fm.st})

	next, cmd := m.Update(tickMsg(t0))
	require.NotNil(t, cmd)
	_, quit := cmd().(tea.QuitMsg)
	assert.True(t, quit)

	final := next.(Model)
	require.Error(t, final.Err())
	assert.Contains(t, final.View(), "disk full")
}

func TestKeysGoThroughActions(t *testing.T) {
	fm := &fakeMachine{st: stateWith(pet.StateHungry, care.CreatureBlueCat)}
	m := New(Options{
		Machine: fm,
		Initial: fm.st,
		Actions: fakeActions{healErr: care.ErrNotSick},
	})

	press := func(m Model, r rune) (Model, tea.Cmd) {
		next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		return next.(Model), cmd
	}

	m, cmd := press(m, 'f')
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	m = next.(Model)
	assert.Contains(t, m.View(), "Feed command sent!")

	m, cmd = press(m, 'h')
	next, _ = m.Update(cmd())
	m = next.(Model)
	assert.Contains(t, m.View(), "pet is not sick")

	_, cmd = press(m, 'q')
	require.NotNil(t, cmd)
	_, quit := cmd().(tea.QuitMsg)
	assert.True(t, quit)
}

func TestObserverWaitsForNewPet(t *testing.T) {
	dead := stateWith(pet.StateDead, care.CreaturePinkDog)
	r := &fakeReader{st: &dead}
	m := New(Options{Reader: r, Initial: dead})

	now := pastIntro(t, &m)
	require.Equal(t, PhaseDying, m.Phase())
	assert.Contains(t, m.View(), "observing")

	m.step(now.Add(dyingHold))
	m.step(now.Add(dyingHold + summaryHold))
	assert.Equal(t, PhaseSummary, m.Phase(), "the owner has not reborn the pet yet")

	fresh := pet.FreshState(2, t0)
	r.st = &fresh
	m.step(now.Add(dyingHold + summaryHold + time.Second))
	assert.Equal(t, PhaseRebirth, m.Phase())
}

func TestFormatSurvival(t *testing.T) {
	cases := map[int64]string{
		0:         "0s",
		42_000:    "42s",
		192_000:   "3m 12s",
		3_900_000: "1h 5m",
	}
	for ms, want := range cases {
		assert.Equal(t, want, FormatSurvival(ms))
	}
}

func TestCreatureForUnknownFallsBackToCat(t *testing.T) {
	assert.Equal(t, care.CreatureBlueCat, CreatureFor("").ID)
	assert.Equal(t, care.CreaturePinkDog, CreatureFor(care.CreaturePinkDog).ID)
}
