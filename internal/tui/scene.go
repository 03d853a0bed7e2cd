package tui

import (
	"fmt"
	"strings"

	"moltmon/internal/domain/pet"

	"github.com/charmbracelet/lipgloss"
)

// Phase es el tramo de la animación que se está mostrando. No siempre
// coincide con el estado de la mascota: la muerte, por ejemplo, pasa por
// PhaseDying y PhaseSummary antes del renacimiento.
type Phase int

const (
	PhaseIntro Phase = iota
	PhaseEgg
	PhaseHatching
	PhaseHatched
	PhaseAlive
	PhaseDying
	PhaseSummary
	PhaseRebirth
)

func (p Phase) String() string {
	switch p {
	case PhaseIntro:
		return "intro"
	case PhaseEgg:
		return "egg"
	case PhaseHatching:
		return "hatching"
	case PhaseHatched:
		return "hatched"
	case PhaseAlive:
		return "alive"
	case PhaseDying:
		return "dying"
	case PhaseSummary:
		return "summary"
	case PhaseRebirth:
		return "rebirth"
	default:
		return "unknown"
	}
}

// maxPoopsShown limita cuántas cacas se dibujan; el resto va como "+N".
const maxPoopsShown = 4

// Scene es todo lo que necesita Render. Se arma en cada View, así que la
// criatura actual nunca vive en una variable global.
type Scene struct {
	Creature  Creature
	Phase     Phase
	State     pet.State
	Frame     int
	PoopCount int
	PetID     int
	Restored  bool
	Summary   *pet.Summary
}

func Render(sc Scene) string {
	c := sc.Creature

	switch sc.Phase {
	case PhaseIntro:
		if sc.Restored {
			return infoStyle.Render(fmt.Sprintf("Welcome back! Pet #%d restored.", sc.PetID))
		}
		return infoStyle.Render(fmt.Sprintf("A new Moltmon egg appears! (Pet #%d)", sc.PetID))

	case PhaseEgg:
		return join(
			drawFrame(pick(c.Egg, sc.Frame)),
			eggStyle.Render("Waiting for AI to hatch..."),
		)

	case PhaseHatching:
		idx := sc.Frame
		if idx >= len(c.Hatch) {
			idx = len(c.Hatch) - 1
		}
		return join(
			drawFrame(c.Hatch[idx]),
			crackStyle.Render("*crack* *crack*"),
		)

	case PhaseHatched:
		if sc.Frame%2 == 0 {
			return flashStyle.Render("★ HATCHED! ★")
		}
		return flashStyle.Render(fmt.Sprintf("★ A Moltmon appeared! ★  Meet your new %s!", c.Kind))

	case PhaseAlive:
		seq := c.Idle
		if sc.State == pet.StateSick {
			seq = c.Sick
		}
		return join(
			drawFrame(pick(seq, sc.Frame)),
			soundLine(c, sc.State),
			drawPoop(c.Poop, sc.PoopCount),
		)

	case PhaseDying:
		return join(
			drawFrame(c.Dead),
			deadStyle.Render("~ ... ~"),
		)

	case PhaseSummary:
		if sc.Summary == nil {
			return deadStyle.Render("Your Moltmon has died")
		}
		return deathSummary(*sc.Summary)

	case PhaseRebirth:
		return rebirthBoxStyle.Render(join(
			boxTitleStyle.Foreground(cyanColor).Render("New Life Begins!"),
			fmt.Sprintf("Pet #%d has arrived!", sc.PetID),
		))
	}
	return ""
}

func pick(seq [][]string, frame int) []string {
	if len(seq) == 0 {
		return nil
	}
	if frame < 0 {
		frame = -frame
	}
	return seq[frame%len(seq)]
}

func drawFrame(lines []string) string {
	return frameStyle.Render(strings.Join(lines, "\n"))
}

func soundLine(c Creature, st pet.State) string {
	switch st {
	case pet.StateSick:
		return sickStyle.Render("~ " + c.Sounds.Sick + " ~")
	case pet.StateHungry:
		return hungryStyle.Render("~ " + c.Sounds.Hungry + " ~")
	default:
		return idleStyle.Render("~ " + c.Sounds.Idle + " ~")
	}
}

func drawPoop(art []string, count int) string {
	if count <= 0 || len(art) == 0 {
		return ""
	}
	shown := min(count, maxPoopsShown)

	piles := make([]string, 0, shown+1)
	for range shown {
		piles = append(piles, poopStyle.Render(strings.Join(art, "\n")))
	}
	if count > shown {
		piles = append(piles, poopStyle.Render(fmt.Sprintf("\n+%d", count-shown)))
	}
	return lipgloss.NewStyle().PaddingLeft(6).Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, spaced(piles)...),
	)
}

func spaced(items []string) []string {
	out := make([]string, 0, 2*len(items))
	for i, it := range items {
		if i > 0 {
			out = append(out, "  ")
		}
		out = append(out, it)
	}
	return out
}

func deathSummary(s pet.Summary) string {
	personality := "Unknown"
	if s.Stats.Personality != nil && *s.Stats.Personality != "" {
		personality = *s.Stats.Personality
	}

	rows := []string{
		boxTitleStyle.Foreground(redColor).Render("Your Moltmon has died"),
		"",
		fmt.Sprintf("Pet #%d", s.PetID),
		fmt.Sprintf("Personality: %s", personality),
		fmt.Sprintf("Cause: %s", causeLabel(s.Stats.CauseOfDeath)),
		fmt.Sprintf("Survived: %s", FormatSurvival(s.SurvivalTimeMs)),
		"",
		dimStyle.Render("Stats:"),
		fmt.Sprintf("  Times fed:     %d", s.Stats.TimesFed),
		fmt.Sprintf("  Times sick:    %d", s.Stats.TimesSick),
		fmt.Sprintf("  Times pooped:  %d", s.Stats.TimesPooped),
		fmt.Sprintf("  Times cleaned: %d", s.Stats.TimesCleaned),
		"",
		lipgloss.NewStyle().Foreground(cyanColor).Render("A new egg is appearing..."),
	}
	return deathBoxStyle.Render(strings.Join(rows, "\n"))
}

func causeLabel(c *pet.CauseOfDeath) string {
	if c != nil && *c == pet.CauseStarvation {
		return "Starvation"
	}
	return "Untreated Sickness"
}

// FormatSurvival muestra el tiempo vivido como "1h 5m", "3m 12s" o "42s".
func FormatSurvival(ms int64) string {
	secs := ms / 1000
	mins := secs / 60
	hrs := mins / 60
	switch {
	case hrs > 0:
		return fmt.Sprintf("%dh %dm", hrs, mins%60)
	case mins > 0:
		return fmt.Sprintf("%dm %ds", mins, secs%60)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

func join(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}
