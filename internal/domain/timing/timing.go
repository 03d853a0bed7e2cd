package timing

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"moltmon/internal/domain/pet"
)

var (
	ErrInvalidProfile = errors.New("invalid timing profile")
)

// Profile agrupa todas las duraciones del ciclo de vida.
// SicknessThresholds[i] corresponde a i+1 cacas (3 o más usa el último).
type Profile struct {
	Name string

	EggHatchMin time.Duration
	EggHatchMax time.Duration

	HungerInterval  time.Duration
	StarvationDeath time.Duration

	PoopMinDelay time.Duration
	PoopMaxDelay time.Duration

	SicknessThresholds [3]time.Duration
	DeathAfterSick     time.Duration

	RebirthDelay time.Duration
}

var Production = Profile{
	Name:            "production",
	EggHatchMin:     2 * time.Minute,
	EggHatchMax:     5 * time.Minute,
	HungerInterval:  5 * time.Minute,
	StarvationDeath: time.Hour,
	PoopMinDelay:    2 * time.Minute,
	PoopMaxDelay:    5 * time.Minute,
	SicknessThresholds: [3]time.Duration{
		time.Hour,
		45 * time.Minute,
		30 * time.Minute,
	},
	DeathAfterSick: time.Hour,
	RebirthDelay:   5 * time.Second,
}

// Development acelera todo para ver una vida completa en segundos.
var Development = Profile{
	Name:            "development",
	EggHatchMin:     3 * time.Second,
	EggHatchMax:     5 * time.Second,
	HungerInterval:  10 * time.Second,
	StarvationDeath: 30 * time.Second,
	PoopMinDelay:    5 * time.Second,
	PoopMaxDelay:    10 * time.Second,
	SicknessThresholds: [3]time.Duration{
		20 * time.Second,
		15 * time.Second,
		10 * time.Second,
	},
	DeathAfterSick: 20 * time.Second,
	RebirthDelay:   2 * time.Second,
}

var devMode atomic.Bool

// SetDevMode se llama una sola vez al arrancar el proceso.
func SetDevMode(enabled bool) {
	devMode.Store(enabled)
}

func IsDevMode() bool {
	return devMode.Load()
}

func Active() Profile {
	if devMode.Load() {
		return Development
	}
	return Production
}

func (p Profile) Validate() error {
	named := map[string]time.Duration{
		"hunger_interval":  p.HungerInterval,
		"starvation_death": p.StarvationDeath,
		"poop_min_delay":   p.PoopMinDelay,
		"poop_max_delay":   p.PoopMaxDelay,
		"death_after_sick": p.DeathAfterSick,
	}
	for name, d := range named {
		if d <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidProfile, name)
		}
	}
	if p.RebirthDelay < 0 {
		return fmt.Errorf("%w: rebirth_delay must not be negative", ErrInvalidProfile)
	}
	if p.PoopMinDelay > p.PoopMaxDelay {
		return fmt.Errorf("%w: poop_min_delay > poop_max_delay", ErrInvalidProfile)
	}
	for i, d := range p.SicknessThresholds {
		if d <= 0 {
			return fmt.Errorf("%w: sickness threshold %d must be positive", ErrInvalidProfile, i+1)
		}
		if i > 0 && d >= p.SicknessThresholds[i-1] {
			return fmt.Errorf("%w: sickness thresholds must strictly decrease", ErrInvalidProfile)
		}
	}
	return nil
}

// SicknessThreshold devuelve la ventana para poopCount cacas (tope en 3).
func (p Profile) SicknessThreshold(poopCount int) time.Duration {
	idx := min(max(poopCount, 1), 3) - 1
	return p.SicknessThresholds[idx]
}

// SicknessDeadline = now + umbral según min(poopCount, 3).
func (p Profile) SicknessDeadline(now time.Time, poopCount int) pet.Timestamp {
	return pet.At(now.Add(p.SicknessThreshold(poopCount)))
}

// NextPoopTime = now + uniforme en [PoopMinDelay, PoopMaxDelay], en ms.
// rnd(n) debe devolver un valor en [0, n).
func (p Profile) NextPoopTime(now time.Time, rnd func(n int64) int64) pet.Timestamp {
	return pet.At(now.Add(Between(p.PoopMinDelay, p.PoopMaxDelay, rnd)))
}

// Between es un valor uniforme en [lo, hi] con resolución de milisegundos.
func Between(lo, hi time.Duration, rnd func(n int64) int64) time.Duration {
	loMs := lo.Milliseconds()
	hiMs := hi.Milliseconds()
	if hiMs <= loMs {
		return lo
	}
	return time.Duration(loMs+rnd(hiMs-loMs+1)) * time.Millisecond
}
