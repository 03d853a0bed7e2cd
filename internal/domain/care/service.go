package care

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"moltmon/internal/domain/pet"

	"github.com/google/uuid"
)

var (
	ErrPetNotFound        = errors.New("pet not found, animation may not be running")
	ErrSickCannotFeed     = errors.New("cannot feed a sick pet, heal it first")
	ErrNotHungry          = errors.New("pet is not hungry")
	ErrNothingToClean     = errors.New("nothing to clean, there is no poop")
	ErrNotSick            = errors.New("pet is not sick")
	ErrNotEgg             = errors.New("pet is not an egg")
	ErrInvalidPersonality = errors.New("personality is required")
)

const (
	CreatureBlueCat = "001_blue_cat"
	CreaturePinkDog = "002_pink_dog"
)

// Store es la parte del almacenamiento compartido que usan los productores.
type Store interface {
	ReadState(ctx context.Context) (*pet.StateData, error)
	WriteCommand(ctx context.Context, rec pet.CommandRecord) error
	ReadHistory(ctx context.Context) (pet.History, error)
}

// Service valida contra el estado persistido y encola comandos para el
// proceso dueño del tick. La validación es solo una cortesía: el estado
// puede cambiar antes de que el comando se aplique, y en ese caso la
// máquina lo descarta en silencio.
type Service struct {
	store Store
	now   func() time.Time
	roll  func() float64
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		roll:  rand.Float64,
	}
}

// Receipt confirma un comando encolado.
type Receipt struct {
	CommandID   string          `json:"commandId"`
	Type        pet.CommandType `json:"type"`
	Message     string          `json:"message"`
	CreatureID  string          `json:"creatureId,omitempty"`
	Personality string          `json:"personality,omitempty"`
}

func (s *Service) Feed(ctx context.Context) (Receipt, error) {
	st, err := s.current(ctx)
	if err != nil {
		return Receipt{}, err
	}
	if st.State == pet.StateSick {
		return Receipt{}, ErrSickCannotFeed
	}
	if st.State != pet.StateHungry {
		return Receipt{}, fmt.Errorf("%w (current state: %s)", ErrNotHungry, st.State)
	}
	return s.enqueue(ctx, pet.Feed{}, "Feed command sent! Your Moltmon will be happy.")
}

func (s *Service) Clean(ctx context.Context) (Receipt, error) {
	st, err := s.current(ctx)
	if err != nil {
		return Receipt{}, err
	}
	if st.PoopCount == 0 {
		return Receipt{}, ErrNothingToClean
	}
	return s.enqueue(ctx, pet.Clean{}, "Clean command sent! Your Moltmon appreciates a tidy home.")
}

func (s *Service) Heal(ctx context.Context) (Receipt, error) {
	st, err := s.current(ctx)
	if err != nil {
		return Receipt{}, err
	}
	if st.State != pet.StateSick {
		return Receipt{}, fmt.Errorf("%w (current state: %s)", ErrNotSick, st.State)
	}
	return s.enqueue(ctx, pet.Heal{}, "Heal command sent! Your Moltmon will recover soon.")
}

// Hatch elige la criatura según la personalidad y encola el HATCH.
func (s *Service) Hatch(ctx context.Context, personality string) (Receipt, error) {
	personality = strings.TrimSpace(personality)
	if personality == "" {
		return Receipt{}, ErrInvalidPersonality
	}

	st, err := s.current(ctx)
	if err != nil {
		return Receipt{}, err
	}
	if st.State != pet.StateEgg {
		return Receipt{}, fmt.Errorf("%w (current state: %s)", ErrNotEgg, st.State)
	}

	creatureID := ChooseCreature(personality, s.roll())
	kind := "dog"
	if strings.Contains(creatureID, "cat") {
		kind = "cat"
	}

	r, err := s.enqueue(ctx,
		pet.Hatch{CreatureID: creatureID, Personality: personality},
		fmt.Sprintf("Hatch command sent! A %s is hatching!", kind),
	)
	if err != nil {
		return Receipt{}, err
	}
	r.CreatureID = creatureID
	r.Personality = personality
	return r, nil
}

// ChooseCreature: brave tiende al perro, curious al gato, el resto 50/50.
// roll está en [0, 1).
func ChooseCreature(personality string, roll float64) string {
	switch strings.ToLower(strings.TrimSpace(personality)) {
	case "brave":
		if roll < 0.8 {
			return CreaturePinkDog
		}
		return CreatureBlueCat
	case "curious":
		if roll < 0.8 {
			return CreatureBlueCat
		}
		return CreaturePinkDog
	default:
		if roll < 0.5 {
			return CreatureBlueCat
		}
		return CreaturePinkDog
	}
}

func (s *Service) enqueue(ctx context.Context, cmd pet.Command, msg string) (Receipt, error) {
	rec := pet.Encode(cmd, s.now(), uuid.NewString())
	if err := s.store.WriteCommand(ctx, rec); err != nil {
		return Receipt{}, fmt.Errorf("enqueue %s: %w", cmd.Type(), err)
	}
	return Receipt{CommandID: rec.ID, Type: rec.Type, Message: msg}, nil
}

func (s *Service) current(ctx context.Context) (pet.StateData, error) {
	st, err := s.store.ReadState(ctx)
	if err != nil {
		return pet.StateData{}, err
	}
	if st == nil {
		return pet.StateData{}, ErrPetNotFound
	}
	return *st, nil
}

// -------------------------
// Consultas
// -------------------------

func (s *Service) State(ctx context.Context) (pet.StateData, error) {
	return s.current(ctx)
}

func (s *Service) History(ctx context.Context) (pet.History, error) {
	return s.store.ReadHistory(ctx)
}

// CurrentSummary calcula el resumen de la mascota actual al instante.
func (s *Service) CurrentSummary(ctx context.Context) (pet.Summary, error) {
	st, err := s.current(ctx)
	if err != nil {
		return pet.Summary{}, err
	}
	return st.Summary(s.now()), nil
}

// Status es la vista resumida que consumen las herramientas.
type Status struct {
	State                pet.State  `json:"state"`
	LastEvent            *pet.Event `json:"lastEvent"`
	TimeSinceLastEventMs int64      `json:"timeSinceLastEventMs"`
	IsHungry             bool       `json:"isHungry"`
	IsSick               bool       `json:"isSick"`
	IsDead               bool       `json:"isDead"`
	PoopCount            int        `json:"poopCount"`
	NeedsFeeding         bool       `json:"needsFeeding"`
	NeedsCleaning        bool       `json:"needsCleaning"`
	NeedsHealing         bool       `json:"needsHealing"`
	PetID                int        `json:"petId"`
	CreatureID           *string    `json:"creatureId"`
	Stats                pet.Stats  `json:"stats"`
}

func (s *Service) Status(ctx context.Context) (Status, error) {
	st, err := s.current(ctx)
	if err != nil {
		return Status{}, err
	}
	return StatusOf(st, s.now()), nil
}

func StatusOf(st pet.StateData, now time.Time) Status {
	return Status{
		State:                st.State,
		LastEvent:            st.LastEvent,
		TimeSinceLastEventMs: st.LastEventTime.Elapsed(now).Milliseconds(),
		IsHungry:             st.State == pet.StateHungry,
		IsSick:               st.State == pet.StateSick,
		IsDead:               st.State == pet.StateDead,
		PoopCount:            st.PoopCount,
		NeedsFeeding:         st.State == pet.StateHungry,
		NeedsCleaning:        st.PoopCount > 0,
		NeedsHealing:         st.State == pet.StateSick,
		PetID:                st.PetID,
		CreatureID:           st.CreatureID,
		Stats:                st.Stats,
	}
}
