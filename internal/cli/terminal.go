package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"moltmon/internal/domain/care"
	"moltmon/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var terminalCmd = &cobra.Command{
	Use:   "terminal",
	Short: "Show the pet in the terminal (default)",
	Long: `Start the terminal view. If no other process owns the tick this process
advances the pet; otherwise it only watches the shared state file.`,
	RunE: runTerminal,
}

func init() {
	rootCmd.AddCommand(terminalCmd)
}

func runTerminal(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, closeLog, err := newLogger(true, nil)
	if err != nil {
		return err
	}
	defer closeLog()

	rt, err := newRuntime(ctx, log)
	if err != nil {
		return err
	}
	defer rt.Close()

	opts := tui.Options{
		Actions:      care.NewService(rt.store),
		TickInterval: cfg.Terminal.TickInterval(),
		HatchFrame:   cfg.Terminal.HatchFrame(),
		Logger:       log,
		Context:      ctx,
	}

	owner, isOwner, err := rt.store.AcquireTickOwner()
	if err != nil {
		return fmt.Errorf("tick lock: %w", err)
	}
	if isOwner {
		defer func() { _ = owner.Release() }()

		m, restored, err := rt.startMachine(ctx, nil)
		if err != nil {
			return err
		}
		opts.Machine = m
		opts.Initial = m.StateData()
		opts.Restored = restored
	} else {
		log.Info("another process owns the tick, terminal runs as observer", nil)
		st, err := rt.store.ReadState(ctx)
		if err != nil {
			return err
		}
		if st != nil {
			opts.Initial = *st
		}
		opts.Reader = rt.store
		opts.Restored = true
	}

	if cfg.DevMode {
		fmt.Fprintln(cmd.OutOrStdout(), "Dev mode enabled - using fast timers")
	}

	p := tea.NewProgram(tui.New(opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal: %w", err)
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		return m.Err()
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Thanks for watching! Your Moltmon awaits...")
	return nil
}
