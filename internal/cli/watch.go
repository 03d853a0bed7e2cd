package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moltmon/internal/adapters/storage/filestore"
	"moltmon/internal/domain/care"
	"moltmon/internal/domain/pet"
	"moltmon/internal/platform/watch"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print a line every time the pet's state changes",
	Long: `Follow the shared state file and print one status line per change.
Useful next to a web or terminal process that owns the tick.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var watchDebounce time.Duration

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "coalesce bursts of writes")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, closeLog, err := newLogger(false, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	store := filestore.New(dataDir(), filestore.WithLogger(log))
	out := cmd.OutOrStdout()

	w, err := watch.New(store.Dir(), []string{filestore.StateFile}, watchDebounce, log)
	if err != nil {
		return err
	}

	var last string
	show := func() {
		st, err := store.ReadState(ctx)
		if err != nil {
			log.Warn("read state failed", map[string]any{"error": err.Error()})
			return
		}
		line := statusLine(st, time.Now())
		// La máquina persiste en cada tick: solo mostrar cambios reales.
		if line != last {
			last = line
			writeLine(out, line)
		}
	}

	show()
	return w.Run(ctx, func(string) { show() })
}

// statusLine ignora el tiempo desde el último evento para que dos ticks
// sin cambios den la misma línea.
func statusLine(st *pet.StateData, now time.Time) string {
	if st == nil {
		return "no pet yet"
	}
	s := care.StatusOf(*st, now)

	line := fmt.Sprintf("pet #%d %s poop=%d", s.PetID, s.State, s.PoopCount)
	if s.CreatureID != nil {
		line += " creature=" + *s.CreatureID
	}
	if s.LastEvent != nil {
		line += " last=" + string(*s.LastEvent)
	}
	switch {
	case s.NeedsHealing:
		line += " needs=heal"
	case s.NeedsFeeding:
		line += " needs=feed"
	}
	if s.NeedsCleaning {
		line += " needs=clean"
	}
	return line
}

func writeLine(w io.Writer, line string) {
	fmt.Fprintf(w, "%s %s\n", time.Now().Format("15:04:05"), line)
}
