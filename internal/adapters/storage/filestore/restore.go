package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"moltmon/internal/domain/pet"
)

// RestoreOrCreateState devuelve la mascota guardada si sigue viva (migrándola si
// viene de un formato viejo) o crea un huevo nuevo con id = currentPetId + 1.
// El bool indica si se restauró.
func (s *Store) RestoreOrCreateState(ctx context.Context) (pet.StateData, bool, error) {
	if err := ctx.Err(); err != nil {
		return pet.StateData{}, false, err
	}

	st, legacy, ok := s.readStoredState()
	if ok && st.State != pet.StateDead {
		if !legacy {
			return st, true, nil
		}

		if err := s.WriteState(ctx, st); err != nil {
			return pet.StateData{}, false, fmt.Errorf("persist migrated state: %w", err)
		}
		h := s.readHistory()
		if _, found := h.Find(st.PetID); !found {
			if err := s.UpsertHistory(ctx, st.Summary(s.now())); err != nil {
				return pet.StateData{}, false, fmt.Errorf("register migrated pet: %w", err)
			}
		}
		s.log.Info("migrated legacy state", map[string]any{"pet_id": st.PetID, "state": st.State})
		return st, true, nil
	}

	h := s.readHistory()
	now := s.now()
	// Si history.json se perdió, el muerto en state.json sigue contando.
	nextID := h.NextPetID()
	if ok && st.PetID >= nextID {
		nextID = st.PetID + 1
	}
	fresh := pet.FreshState(nextID, now)

	if err := s.UpsertHistory(ctx, fresh.Summary(now)); err != nil {
		return pet.StateData{}, false, fmt.Errorf("register new pet: %w", err)
	}
	if err := s.WriteState(ctx, fresh); err != nil {
		return pet.StateData{}, false, fmt.Errorf("persist new pet: %w", err)
	}
	s.log.Info("created new pet", map[string]any{"pet_id": fresh.PetID})
	return fresh, false, nil
}

// readStoredState lee state.json y lo migra en memoria si le faltan campos.
// legacy=true si hubo que migrar.
func (s *Store) readStoredState() (st pet.StateData, legacy bool, ok bool) {
	// Para saber qué campos faltan hay que mirar el documento crudo:
	// un petId ausente y un petId 0 no son lo mismo.
	b, err := os.ReadFile(s.StatePath())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("read failed, using default", map[string]any{"file": s.StatePath(), "error": err.Error()})
		}
		return pet.StateData{}, false, false
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil || raw == nil {
		if err == nil {
			err = errors.New("state document is null")
		}
		s.quarantine(s.StatePath(), err)
		return pet.StateData{}, false, false
	}
	if err := json.Unmarshal(b, &st); err != nil {
		s.quarantine(s.StatePath(), err)
		return pet.StateData{}, false, false
	}

	if !needsMigration(raw) {
		return st, false, true
	}
	return migrateState(st, raw, s.now()), true, true
}

func needsMigration(raw map[string]json.RawMessage) bool {
	return !present(raw, "petId") || !present(raw, "stats")
}

func present(raw map[string]json.RawMessage, key string) bool {
	v, ok := raw[key]
	return ok && string(v) != "null"
}

// migrateState completa los campos que no existían en versiones viejas.
// Los timers nuevos quedan en null y los contadores en cero.
func migrateState(old pet.StateData, raw map[string]json.RawMessage, now time.Time) pet.StateData {
	st := old.Clone()

	if !st.State.Valid() {
		st.State = pet.StateEgg
	}
	if st.CreatedAt == 0 {
		st.CreatedAt = pet.At(now)
	}
	if st.LastEventTime == 0 {
		st.LastEventTime = pet.At(now)
	}
	if st.PoopCount < 0 {
		st.PoopCount = 0
	}
	if !present(raw, "petId") {
		st.PetID = 1
	}
	if !present(raw, "stats") {
		// bornAt sale del createdAt viejo.
		st.Stats = pet.Stats{BornAt: st.CreatedAt}
	}

	// Un registro viejo puede traer timers que el estado actual no admite.
	if st.State != pet.StateIdle {
		st.NextPoopTime = nil
	}
	if st.State != pet.StateSick {
		st.SicknessStartTime = nil
	}
	if st.HungerTimerStart != nil && st.HungryStartTime != nil {
		if st.State == pet.StateHungry {
			st.HungerTimerStart = nil
		} else {
			st.HungryStartTime = nil
		}
	}
	return st
}
