package lifecycle

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"moltmon/internal/domain/pet"
	"moltmon/internal/domain/timing"
	"moltmon/internal/platform/logger"
)

// Notification acompaña a cada evento emitido.
type Notification struct {
	Event pet.Event
	PetID int
	State pet.State
	At    time.Time
}

// Machine es dueña del registro vivo de una mascota. Aplica comandos y timers
// en cada Tick y persiste el resultado. Es segura para uso concurrente.
type Machine struct {
	mu    sync.Mutex
	store Store
	st    pet.StateData

	// eventos acumulados bajo mu, se despachan al soltar el lock
	pending       []Notification
	pendingDeaths []pet.Summary

	now     func() time.Time
	profile func() timing.Profile
	rnd     func(n int64) int64
	after   func(time.Duration) <-chan time.Time
	log     logger.Logger

	rebirthing atomic.Bool

	lmu            sync.RWMutex
	listeners      []func(Notification)
	deathListeners []func(pet.Summary)
}

type Option func(*Machine)

func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithProfile fija el perfil de tiempos. Sin esta opción se lee timing.Active().
func WithProfile(p timing.Profile) Option {
	return func(m *Machine) { m.profile = func() timing.Profile { return p } }
}

// WithRand reemplaza la fuente aleatoria; rnd(n) devuelve [0, n).
func WithRand(rnd func(n int64) int64) Option {
	return func(m *Machine) { m.rnd = rnd }
}

// WithAfter reemplaza time.After para la espera del renacimiento.
func WithAfter(after func(time.Duration) <-chan time.Time) Option {
	return func(m *Machine) { m.after = after }
}

func WithLogger(l logger.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.log = l
		}
	}
}

func New(store Store, initial pet.StateData, opts ...Option) *Machine {
	m := &Machine{
		store:   store,
		st:      initial.Clone(),
		now:     time.Now,
		profile: timing.Active,
		rnd:     rand.Int64N,
		after:   time.After,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Tick drena la cola de comandos, evalúa los timers en orden fijo
// (caca, caca->enfermedad, enfermedad->muerte, hambre, inanición) y persiste.
// Mientras hay un renacimiento en curso no hace nada: los comandos quedan
// en la cola para la mascota nueva.
func (m *Machine) Tick(ctx context.Context) error {
	if m.rebirthing.Load() {
		return nil
	}

	recs, err := m.store.DrainCommands(ctx)
	if err != nil {
		return fmt.Errorf("drain commands: %w", err)
	}

	m.mu.Lock()
	err = m.tickLocked(ctx, recs)
	events, deaths := m.takePendingLocked()
	m.mu.Unlock()

	m.dispatch(events, deaths)
	return err
}

func (m *Machine) tickLocked(ctx context.Context, recs []pet.CommandRecord) error {
	now := m.now()

	for _, rec := range recs {
		m.applyLocked(rec, now)
	}

	switch m.st.State {
	case pet.StateDead, pet.StateEgg, pet.StateHatching:
		return m.persistLocked(ctx)
	}

	p := m.profile()
	st := &m.st

	// 1. caca (solo IDLE)
	if st.State == pet.StateIdle && st.NextPoopTime != nil && st.NextPoopTime.Due(now) {
		m.poopLocked(now, p)
	}

	// 2. caca sin limpiar -> enfermedad
	if st.PoopCount > 0 && st.PoopSicknessDeadline != nil && st.PoopSicknessDeadline.Due(now) &&
		(st.State == pet.StateIdle || st.State == pet.StateHungry) {
		m.becomeSickLocked(now)
	}

	// 3. enfermedad sin curar -> muerte
	if st.State == pet.StateSick && st.SicknessStartTime != nil &&
		st.SicknessStartTime.Elapsed(now) >= p.DeathAfterSick {
		if err := m.dieLocked(ctx, now, pet.CauseUntreatedSickness); err != nil {
			return err
		}
	}

	// 4. hambre (solo IDLE)
	if st.State == pet.StateIdle && st.HungerTimerStart != nil &&
		st.HungerTimerStart.Elapsed(now) >= p.HungerInterval {
		m.becomeHungryLocked(now)
	}

	// 5. inanición
	if st.State == pet.StateHungry && st.HungryStartTime != nil &&
		st.HungryStartTime.Elapsed(now) >= p.StarvationDeath {
		if err := m.dieLocked(ctx, now, pet.CauseStarvation); err != nil {
			return err
		}
	}

	return m.persistLocked(ctx)
}

func (m *Machine) persistLocked(ctx context.Context) error {
	if err := m.store.WriteState(ctx, m.st.Clone()); err != nil {
		return fmt.Errorf("persist state: %w", err)
	}
	return nil
}

// applyLocked aplica un comando de la cola. Si no se puede decodificar o
// la precondición no se cumple, se ignora.
func (m *Machine) applyLocked(rec pet.CommandRecord, now time.Time) {
	cmd, err := rec.Decode()
	if err != nil {
		m.log.Debug("skipping command", map[string]any{"command_id": rec.ID, "error": err.Error()})
		return
	}

	switch c := cmd.(type) {
	case pet.Feed:
		m.feedLocked(now)
	case pet.Clean:
		m.cleanLocked(now)
	case pet.Heal:
		m.healLocked(now)
	case pet.Hatch:
		m.hatchLocked(c.CreatureID, c.Personality)
	}
}

// -------------------------
// Operaciones de cuidado
// -------------------------

// Hatch solo vale desde EGG. Deja la mascota en HATCHING hasta CompleteHatching.
func (m *Machine) Hatch(creatureID, personality string) {
	m.locked(func(time.Time) { m.hatchLocked(creatureID, personality) })
}

// CompleteHatching lo llama el driver cuando termina la animación.
func (m *Machine) CompleteHatching() {
	m.locked(func(now time.Time) {
		if m.st.State != pet.StateHatching {
			return
		}
		m.transitionLocked(pet.StateIdle, pet.EventHatched, now)
		m.startHungerTimerLocked(now)
		m.scheduleNextPoopLocked(now)
	})
}

func (m *Machine) Feed() {
	m.locked(m.feedLocked)
}

func (m *Machine) Clean() {
	m.locked(m.cleanLocked)
}

func (m *Machine) Heal() {
	m.locked(m.healLocked)
}

func (m *Machine) locked(fn func(now time.Time)) {
	m.mu.Lock()
	fn(m.now())
	events, deaths := m.takePendingLocked()
	m.mu.Unlock()
	m.dispatch(events, deaths)
}

func (m *Machine) hatchLocked(creatureID, personality string) {
	if m.st.State != pet.StateEgg || creatureID == "" || personality == "" {
		return
	}
	m.st.CreatureID = &creatureID
	m.st.Stats.Personality = &personality
	m.st.State = pet.StateHatching
	m.log.Info("pet hatching", map[string]any{"pet_id": m.st.PetID, "creature_id": creatureID})
}

func (m *Machine) feedLocked(now time.Time) {
	if m.st.State != pet.StateHungry {
		return
	}
	m.transitionLocked(pet.StateIdle, pet.EventFed, now)
	m.st.LastFedTime = pet.At(now).Ptr()
	m.st.HungryStartTime = nil
	m.st.Stats.TimesFed++
	m.startHungerTimerLocked(now)
	m.scheduleNextPoopLocked(now)
}

func (m *Machine) cleanLocked(now time.Time) {
	if m.st.PoopCount <= 0 {
		return
	}
	m.st.PoopCount = 0
	m.st.PoopSicknessDeadline = nil
	m.st.Stats.TimesCleaned++
	m.markEventLocked(pet.EventCleaned, now)
}

func (m *Machine) healLocked(now time.Time) {
	if m.st.State != pet.StateSick {
		return
	}
	m.transitionLocked(pet.StateIdle, pet.EventHealed, now)
	m.st.SicknessStartTime = nil
	m.startHungerTimerLocked(now)
	m.scheduleNextPoopLocked(now)
}

// -------------------------
// Transiciones por timer
// -------------------------

// poopLocked nunca alarga la ventana de enfermedad: se queda con el deadline menor.
func (m *Machine) poopLocked(now time.Time, p timing.Profile) {
	m.st.PoopCount++
	m.st.Stats.TimesPooped++

	deadline := p.SicknessDeadline(now, m.st.PoopCount)
	if m.st.PoopSicknessDeadline == nil || deadline < *m.st.PoopSicknessDeadline {
		m.st.PoopSicknessDeadline = deadline.Ptr()
	}

	m.scheduleNextPoopLocked(now)
	m.markEventLocked(pet.EventPooped, now)
}

// becomeSickLocked suspende los timers de caca y de hambre.
func (m *Machine) becomeSickLocked(now time.Time) {
	m.transitionLocked(pet.StateSick, pet.EventBecameSick, now)
	m.st.SicknessStartTime = pet.At(now).Ptr()
	m.st.Stats.TimesSick++
	m.st.NextPoopTime = nil
	m.st.HungerTimerStart = nil
	m.st.HungryStartTime = nil
}

// becomeHungryLocked: con hambre no se acumula caca nueva.
func (m *Machine) becomeHungryLocked(now time.Time) {
	m.transitionLocked(pet.StateHungry, pet.EventBecameHungry, now)
	m.st.HungryStartTime = pet.At(now).Ptr()
	m.st.HungerTimerStart = nil
	m.st.NextPoopTime = nil
}

func (m *Machine) dieLocked(ctx context.Context, now time.Time, cause pet.CauseOfDeath) error {
	m.st.State = pet.StateDead
	m.st.Stats.DiedAt = pet.At(now).Ptr()
	m.st.Stats.CauseOfDeath = &cause

	m.st.HungerTimerStart = nil
	m.st.HungryStartTime = nil
	m.st.NextPoopTime = nil
	m.st.SicknessStartTime = nil
	m.st.PoopSicknessDeadline = nil

	m.markEventLocked(pet.EventDied, now)

	summary := m.st.Summary(now)
	m.pendingDeaths = append(m.pendingDeaths, summary)

	m.log.Info("pet died", map[string]any{
		"pet_id":      m.st.PetID,
		"cause":       cause,
		"survival_ms": summary.SurvivalTimeMs,
	})

	if err := m.store.UpsertHistory(ctx, summary); err != nil {
		return fmt.Errorf("record death in history: %w", err)
	}
	return nil
}

// Rebirth crea la mascota siguiente (petId + 1) después de RebirthDelay.
// Solo funciona con la mascota muerta; una segunda llamada mientras otra
// está en curso no hace nada.
func (m *Machine) Rebirth(ctx context.Context) error {
	if m.State() != pet.StateDead {
		return nil
	}
	if !m.rebirthing.CompareAndSwap(false, true) {
		return nil
	}
	defer m.rebirthing.Store(false)

	select {
	case <-m.after(m.profile().RebirthDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	m.mu.Lock()
	err := m.rebirthLocked(ctx)
	events, deaths := m.takePendingLocked()
	m.mu.Unlock()

	m.dispatch(events, deaths)
	return err
}

func (m *Machine) rebirthLocked(ctx context.Context) error {
	if m.st.State != pet.StateDead {
		return nil
	}
	now := m.now()
	m.st = pet.FreshState(m.st.PetID+1, now)
	m.emitLocked(pet.EventReborn, now)

	m.log.Info("pet reborn", map[string]any{"pet_id": m.st.PetID})

	if err := m.store.UpsertHistory(ctx, m.st.Summary(now)); err != nil {
		return fmt.Errorf("record rebirth in history: %w", err)
	}
	return m.persistLocked(ctx)
}

// Rebirthing indica si hay un renacimiento esperando su demora.
func (m *Machine) Rebirthing() bool {
	return m.rebirthing.Load()
}

// -------------------------
// Helpers
// -------------------------

func (m *Machine) scheduleNextPoopLocked(now time.Time) {
	m.st.NextPoopTime = m.profile().NextPoopTime(now, m.rnd).Ptr()
}

func (m *Machine) startHungerTimerLocked(now time.Time) {
	m.st.HungerTimerStart = pet.At(now).Ptr()
}

func (m *Machine) transitionLocked(to pet.State, ev pet.Event, now time.Time) {
	from := m.st.State
	m.st.State = to
	m.markEventLocked(ev, now)
	m.log.Debug("transition", map[string]any{"pet_id": m.st.PetID, "from": from, "to": to, "event": ev})
}

func (m *Machine) markEventLocked(ev pet.Event, now time.Time) {
	m.st.LastEvent = &ev
	m.st.LastEventTime = pet.At(now)
	m.emitLocked(ev, now)
}

func (m *Machine) emitLocked(ev pet.Event, now time.Time) {
	m.pending = append(m.pending, Notification{
		Event: ev,
		PetID: m.st.PetID,
		State: m.st.State,
		At:    now,
	})
}

func (m *Machine) takePendingLocked() ([]Notification, []pet.Summary) {
	events, deaths := m.pending, m.pendingDeaths
	m.pending, m.pendingDeaths = nil, nil
	return events, deaths
}

// -------------------------
// Lectura y suscripciones
// -------------------------

func (m *Machine) State() pet.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.State
}

func (m *Machine) PoopCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.PoopCount
}

func (m *Machine) PetID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.PetID
}

// CreatureID devuelve "" mientras la mascota no eclosionó.
func (m *Machine) CreatureID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.st.CreatureID == nil {
		return ""
	}
	return *m.st.CreatureID
}

// StateData devuelve una copia; modificarla no afecta a la máquina.
func (m *Machine) StateData() pet.StateData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.Clone()
}

// OnEvent registra un listener. Se invoca fuera del lock, así que puede
// llamar a los accessors de la máquina.
func (m *Machine) OnEvent(fn func(Notification)) {
	m.lmu.Lock()
	m.listeners = append(m.listeners, fn)
	m.lmu.Unlock()
}

// OnDeath recibe el resumen final (isAlive=false) de cada mascota que muere.
func (m *Machine) OnDeath(fn func(pet.Summary)) {
	m.lmu.Lock()
	m.deathListeners = append(m.deathListeners, fn)
	m.lmu.Unlock()
}

func (m *Machine) dispatch(events []Notification, deaths []pet.Summary) {
	if len(events) == 0 && len(deaths) == 0 {
		return
	}
	m.lmu.RLock()
	listeners := append([]func(Notification){}, m.listeners...)
	deathListeners := append([]func(pet.Summary){}, m.deathListeners...)
	m.lmu.RUnlock()

	for _, n := range events {
		for _, fn := range listeners {
			fn(n)
		}
	}
	for _, s := range deaths {
		for _, fn := range deathListeners {
			fn(s)
		}
	}
}
