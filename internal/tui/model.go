package tui

import (
	"context"
	"time"

	"moltmon/internal/domain/care"
	"moltmon/internal/domain/pet"
	"moltmon/internal/platform/logger"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	introHold   = 1500 * time.Millisecond
	flashHold   = time.Second
	dyingHold   = 2 * time.Second
	summaryHold = 3 * time.Second
	rebirthHold = 2 * time.Second
)

// Machine es lo que el driver usa de la máquina cuando es dueño del tick.
type Machine interface {
	Tick(ctx context.Context) error
	StateData() pet.StateData
	CompleteHatching()
	Rebirth(ctx context.Context) error
}

// StateReader alimenta el modo observador: otro proceso tiene el tick y
// acá solo se lee el archivo de estado.
type StateReader interface {
	ReadState(ctx context.Context) (*pet.StateData, error)
}

// Actions encola comandos de cuidado; *care.Service la implementa.
type Actions interface {
	Feed(ctx context.Context) (care.Receipt, error)
	Clean(ctx context.Context) (care.Receipt, error)
	Heal(ctx context.Context) (care.Receipt, error)
}

type Options struct {
	// Machine != nil = modo dueño. Si es nil se usa Reader.
	Machine Machine
	Reader  StateReader
	Actions Actions

	Initial  pet.StateData
	Restored bool

	TickInterval time.Duration
	HatchFrame   time.Duration

	Logger  logger.Logger
	Context context.Context
}

type tickMsg time.Time

type rebornMsg struct{ err error }

type actionMsg struct {
	receipt care.Receipt
	err     error
}

// Model es el driver de terminal: cada tick avanza la máquina (o relee el
// archivo) y decide qué tramo de la animación mostrar.
type Model struct {
	opts Options
	ctx  context.Context
	log  logger.Logger

	keys keyMap
	help help.Model

	st         pet.StateData
	creatureID string

	phase   Phase
	phaseAt time.Time
	frame   int

	summary    *pet.Summary
	rebirthing bool
	reborn     bool

	notice    string
	noticeErr bool
	err       error
}

func New(opts Options) Model {
	if opts.TickInterval <= 0 {
		opts.TickInterval = 250 * time.Millisecond
	}
	if opts.HatchFrame <= 0 {
		opts.HatchFrame = 400 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	m := Model{
		opts:  opts,
		ctx:   ctx,
		log:   opts.Logger.With(map[string]any{"component": "tui"}),
		keys:  defaultKeyMap(),
		help:  help.New(),
		st:    opts.Initial.Clone(),
		phase: PhaseIntro,
	}
	m.trackCreature()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Err es el error fatal que cerró el programa, si hubo uno.
func (m Model) Err() error { return m.err }

func (m Model) Phase() Phase { return m.phase }

func (m Model) observer() bool { return m.opts.Machine == nil }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		cmd := m.step(time.Time(msg))
		if m.err != nil {
			return m, tea.Quit
		}
		return m, tea.Batch(cmd, m.tick())

	case rebornMsg:
		m.rebirthing = false
		if msg.err != nil {
			m.err = msg.err
			m.log.Error("rebirth failed", map[string]any{"error": msg.err.Error()})
			return m, tea.Quit
		}
		m.st = m.opts.Machine.StateData()
		m.reborn = true
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.notice, m.noticeErr = msg.err.Error(), true
		} else {
			m.notice, m.noticeErr = msg.receipt.Message, false
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.opts.Actions == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Feed):
		return m, m.action(m.opts.Actions.Feed)
	case key.Matches(msg, m.keys.Clean):
		return m, m.action(m.opts.Actions.Clean)
	case key.Matches(msg, m.keys.Heal):
		return m, m.action(m.opts.Actions.Heal)
	}
	return m, nil
}

func (m Model) action(fn func(context.Context) (care.Receipt, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		r, err := fn(ctx)
		return actionMsg{receipt: r, err: err}
	}
}

// step avanza un tick. Devuelve el comando de renacimiento cuando hace falta.
func (m *Model) step(now time.Time) tea.Cmd {
	if m.phaseAt.IsZero() {
		m.phaseAt = now
	}
	if err := m.refresh(); err != nil {
		m.err = err
		m.log.Error("tick failed", map[string]any{"error": err.Error()})
		return nil
	}
	m.frame++

	elapsed := now.Sub(m.phaseAt)
	state := m.st.State

	switch m.phase {
	case PhaseIntro:
		if elapsed >= introHold {
			return m.enter(phaseFor(state), now)
		}

	case PhaseEgg:
		if state != pet.StateEgg {
			return m.enter(phaseFor(state), now)
		}

	case PhaseHatching:
		if state != pet.StateHatching {
			if phaseFor(state) == PhaseAlive {
				return m.enter(PhaseHatched, now)
			}
			return m.enter(phaseFor(state), now)
		}
		m.frame = int(elapsed / m.opts.HatchFrame)
		if m.frame >= len(CreatureFor(m.creatureID).Hatch) && !m.observer() {
			m.opts.Machine.CompleteHatching()
			m.st = m.opts.Machine.StateData()
			return m.enter(PhaseHatched, now)
		}

	case PhaseHatched:
		if elapsed >= flashHold {
			return m.enter(phaseFor(state), now)
		}

	case PhaseAlive:
		if phaseFor(state) != PhaseAlive {
			return m.enter(phaseFor(state), now)
		}

	case PhaseDying:
		if elapsed >= dyingHold {
			return m.enter(PhaseSummary, now)
		}

	case PhaseSummary:
		done := m.reborn
		if m.observer() {
			done = state != pet.StateDead
		}
		if elapsed >= summaryHold && done {
			return m.enter(PhaseRebirth, now)
		}

	case PhaseRebirth:
		if elapsed >= rebirthHold {
			return m.enter(phaseFor(state), now)
		}
	}
	return nil
}

func (m *Model) refresh() error {
	if !m.observer() {
		if err := m.opts.Machine.Tick(m.ctx); err != nil {
			return err
		}
		m.st = m.opts.Machine.StateData()
		m.trackCreature()
		return nil
	}

	if m.opts.Reader == nil {
		return nil
	}
	st, err := m.opts.Reader.ReadState(m.ctx)
	if err != nil {
		m.log.Warn("read state failed", map[string]any{"error": err.Error()})
		return nil
	}
	if st != nil {
		m.st = *st
		m.trackCreature()
	}
	return nil
}

// trackCreature conserva la última criatura conocida: el huevo del
// renacimiento no tiene una y la escena de muerte sigue mostrando la vieja.
func (m *Model) trackCreature() {
	if m.st.CreatureID != nil {
		m.creatureID = *m.st.CreatureID
	}
}

func (m *Model) enter(p Phase, now time.Time) tea.Cmd {
	m.log.Debug("phase", map[string]any{"from": m.phase.String(), "to": p.String(), "pet_id": m.st.PetID})
	m.phase = p
	m.phaseAt = now
	m.frame = 0

	if p != PhaseDying {
		return nil
	}

	s := m.st.Summary(now)
	m.summary = &s
	m.reborn = false
	if m.observer() || m.rebirthing {
		return nil
	}
	m.rebirthing = true
	machine, ctx := m.opts.Machine, m.ctx
	return func() tea.Msg {
		return rebornMsg{err: machine.Rebirth(ctx)}
	}
}

func phaseFor(s pet.State) Phase {
	switch s {
	case pet.StateEgg:
		return PhaseEgg
	case pet.StateHatching:
		return PhaseHatching
	case pet.StateDead:
		return PhaseDying
	default:
		return PhaseAlive
	}
}

func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render("error: "+m.err.Error()) + "\n"
	}

	sc := Scene{
		Creature:  CreatureFor(m.creatureID),
		Phase:     m.phase,
		State:     m.st.State,
		Frame:     m.frame,
		PoopCount: m.st.PoopCount,
		PetID:     m.st.PetID,
		Restored:  m.opts.Restored,
		Summary:   m.summary,
	}

	footer := m.help.View(m.keys)
	if m.observer() {
		footer = "observing " + footer
	}
	if m.notice != "" {
		style := infoStyle
		if m.noticeErr {
			style = errorStyle
		}
		footer = style.Render(m.notice) + "\n" + footer
	}
	return Render(sc) + "\n" + footerStyle.Render(footer) + "\n"
}
