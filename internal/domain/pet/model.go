package pet

import "time"

// State es el estado del ciclo de vida de la mascota.
// @Enum EGG, HATCHING, IDLE, HUNGRY, SICK, DEAD
type State string

const (
	StateEgg      State = "EGG"
	StateHatching State = "HATCHING"
	StateIdle     State = "IDLE"
	StateHungry   State = "HUNGRY"
	StateSick     State = "SICK"
	StateDead     State = "DEAD"
)

func (s State) Valid() bool {
	switch s {
	case StateEgg, StateHatching, StateIdle, StateHungry, StateSick, StateDead:
		return true
	default:
		return false
	}
}

// Event es lo que emite la máquina en cada transición.
type Event string

const (
	EventHatched      Event = "HATCHED"
	EventBecameHungry Event = "BECAME_HUNGRY"
	EventFed          Event = "FED"
	EventPooped       Event = "POOPED"
	EventCleaned      Event = "CLEANED"
	EventBecameSick   Event = "BECAME_SICK"
	EventHealed       Event = "HEALED"
	EventDied         Event = "DIED"
	EventReborn       Event = "REBORN"
)

type CauseOfDeath string

const (
	CauseStarvation        CauseOfDeath = "STARVATION"
	CauseUntreatedSickness CauseOfDeath = "UNTREATED_SICKNESS"
)

// Stats son contadores acumulados de una vida.
type Stats struct {
	TimesFed     int           `json:"timesFed"`
	TimesSick    int           `json:"timesSick"`
	TimesPooped  int           `json:"timesPooped"`
	TimesCleaned int           `json:"timesCleaned"`
	BornAt       Timestamp     `json:"bornAt"`
	DiedAt       *Timestamp    `json:"diedAt"`
	CauseOfDeath *CauseOfDeath `json:"causeOfDeath"`
	Personality  *string       `json:"personality"`
}

func FreshStats(now time.Time) Stats {
	return Stats{BornAt: At(now)}
}

func (s Stats) Clone() Stats {
	out := s
	out.DiedAt = clonePtr(s.DiedAt)
	if s.CauseOfDeath != nil {
		c := *s.CauseOfDeath
		out.CauseOfDeath = &c
	}
	if s.Personality != nil {
		p := *s.Personality
		out.Personality = &p
	}
	return out
}

// StateData es el registro durable y autoritativo de la mascota actual.
// Los timers nil están inactivos.
type StateData struct {
	State         State     `json:"state"`
	LastEvent     *Event    `json:"lastEvent"`
	LastEventTime Timestamp `json:"lastEventTime"`

	HungerTimerStart *Timestamp `json:"hungerTimerStart"`
	LastFedTime      *Timestamp `json:"lastFedTime"`
	CreatedAt        Timestamp  `json:"createdAt"`

	PoopCount    int        `json:"poopCount"`
	NextPoopTime *Timestamp `json:"nextPoopTime"`

	SicknessStartTime    *Timestamp `json:"sicknessStartTime"`
	PoopSicknessDeadline *Timestamp `json:"poopSicknessDeadline"`

	HungryStartTime *Timestamp `json:"hungryStartTime"`

	PetID int   `json:"petId"`
	Stats Stats `json:"stats"`

	CreatureID *string `json:"creatureId"`
}

// FreshState crea un huevo nuevo con el petID dado.
func FreshState(petID int, now time.Time) StateData {
	return StateData{
		State:         StateEgg,
		LastEventTime: At(now),
		CreatedAt:     At(now),
		PetID:         petID,
		Stats:         FreshStats(now),
	}
}

// Clone devuelve una copia profunda (los timers son punteros).
func (s StateData) Clone() StateData {
	out := s
	if s.LastEvent != nil {
		e := *s.LastEvent
		out.LastEvent = &e
	}
	out.HungerTimerStart = clonePtr(s.HungerTimerStart)
	out.LastFedTime = clonePtr(s.LastFedTime)
	out.NextPoopTime = clonePtr(s.NextPoopTime)
	out.SicknessStartTime = clonePtr(s.SicknessStartTime)
	out.PoopSicknessDeadline = clonePtr(s.PoopSicknessDeadline)
	out.HungryStartTime = clonePtr(s.HungryStartTime)
	out.Stats = s.Stats.Clone()
	if s.CreatureID != nil {
		c := *s.CreatureID
		out.CreatureID = &c
	}
	return out
}

// Summary deriva el resumen de la mascota en el instante now.
func (s StateData) Summary(now time.Time) Summary {
	sum := NewSummary(s.PetID, s.Stats, now)
	// Un DEAD sin diedAt (registro raro) igual cuenta como muerto.
	if s.State == StateDead {
		sum.IsAlive = false
	}
	return sum
}

// Summary es una foto inmutable del resultado de una mascota.
type Summary struct {
	PetID          int        `json:"petId"`
	BornAt         Timestamp  `json:"bornAt"`
	DiedAt         *Timestamp `json:"diedAt"`
	SurvivalTimeMs int64      `json:"survivalTimeMs"`
	Stats          Stats      `json:"stats"`
	IsAlive        bool       `json:"isAlive"`
}

func NewSummary(petID int, stats Stats, now time.Time) Summary {
	end := At(now)
	if stats.DiedAt != nil {
		end = *stats.DiedAt
	}
	survival := int64(end - stats.BornAt)
	if survival < 0 {
		survival = 0
	}
	return Summary{
		PetID:          petID,
		BornAt:         stats.BornAt,
		DiedAt:         clonePtr(stats.DiedAt),
		SurvivalTimeMs: survival,
		Stats:          stats.Clone(),
		IsAlive:        stats.DiedAt == nil,
	}
}

func (s Summary) SurvivalTime() time.Duration {
	return time.Duration(s.SurvivalTimeMs) * time.Millisecond
}
