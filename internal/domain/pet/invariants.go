package pet

import (
	"errors"
	"fmt"
)

var (
	ErrInvariant = errors.New("state invariant violated")
)

// CheckInvariants valida las reglas entre campos del registro:
//   - a lo sumo uno de hungerTimerStart / hungryStartTime
//   - nextPoopTime solo en IDLE
//   - sicknessStartTime solo en SICK
//   - DEAD no tiene timers
func (s StateData) CheckInvariants() error {
	if !s.State.Valid() {
		return fmt.Errorf("%w: unknown state %q", ErrInvariant, s.State)
	}
	if s.PoopCount < 0 {
		return fmt.Errorf("%w: negative poopCount %d", ErrInvariant, s.PoopCount)
	}
	if s.HungerTimerStart != nil && s.HungryStartTime != nil {
		return fmt.Errorf("%w: hungerTimerStart and hungryStartTime both set", ErrInvariant)
	}
	if s.NextPoopTime != nil && s.State != StateIdle {
		return fmt.Errorf("%w: nextPoopTime set in %s", ErrInvariant, s.State)
	}
	if s.SicknessStartTime != nil && s.State != StateSick {
		return fmt.Errorf("%w: sicknessStartTime set in %s", ErrInvariant, s.State)
	}
	if s.State == StateDead {
		if s.HungerTimerStart != nil || s.HungryStartTime != nil || s.NextPoopTime != nil ||
			s.SicknessStartTime != nil || s.PoopSicknessDeadline != nil {
			return fmt.Errorf("%w: timers left running on a dead pet", ErrInvariant)
		}
	}
	return nil
}
