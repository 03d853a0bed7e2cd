package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moltmon/internal/domain/care"
	"moltmon/internal/platform/metrics"
	"moltmon/internal/platform/ticker"
	"moltmon/internal/router"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the HTTP API and advance the pet",
	Long: `Start the web server. The server takes the tick when no other process
owns it. If the port is busy the next ones are tried.`,
	RunE: runWeb,
}

var webNoTick bool

func init() {
	rootCmd.AddCommand(webCmd)

	webCmd.Flags().Int("port", 0, "port to listen on (default 3000, env PORT)")
	webCmd.Flags().BoolVar(&webNoTick, "no-tick", false, "serve only; never take the tick")
	_ = viper.BindPFlag("web.port", webCmd.Flags().Lookup("port"))
}

func runWeb(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, closeLog, err := newLogger(false, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	rt, err := newRuntime(ctx, log)
	if err != nil {
		return err
	}
	defer rt.Close()

	reg := prom.NewRegistry()
	rec := metrics.NewRecorder(reg)

	// nil channel: sin driver el select nunca elige esa rama
	var tickErrs <-chan error
	if !webNoTick {
		owner, isOwner, err := rt.store.AcquireTickOwner()
		if err != nil {
			return fmt.Errorf("tick lock: %w", err)
		}
		if isOwner {
			defer func() { _ = owner.Release() }()

			m, _, err := rt.startMachine(ctx, rec)
			if err != nil {
				return err
			}
			driver, err := ticker.New(m, ticker.Options{
				Interval:      cfg.Web.TickInterval(),
				HatchDuration: cfg.Web.HatchDuration(),
				Logger:        log,
				Metrics:       rec,
			})
			if err != nil {
				return err
			}
			if err := driver.Start(ctx); err != nil {
				return err
			}
			defer func() { _ = driver.Stop() }()
			tickErrs = driver.Errors()
		} else {
			log.Info("another process owns the tick, serving read-only state", nil)
		}
	}

	handler := router.NewRouter(router.Options{
		Care:    care.NewService(rt.store),
		Journal: rt.journal,
		Archive: rt.archive,
		Metrics: reg,
		Logger:  log,
	})

	ln, port, err := listen(cfg.Web.Port, cfg.Web.MaxPortAttempts)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	log.Info("starting server", map[string]any{"port": port, "data_dir": rt.store.Dir()})
	fmt.Fprintf(cmd.OutOrStdout(), "Moltmon web server running at http://localhost:%d\n", port)

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down", nil)
	case err := <-serveErr:
		runErr = fmt.Errorf("server error: %w", err)
	case err := <-tickErrs:
		log.Error("tick failed, shutting down", map[string]any{"error": err.Error()})
		runErr = fmt.Errorf("tick: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("server shutdown", map[string]any{"error": err.Error()})
	}
	return runErr
}

// listen prueba port, port+1, ... hasta attempts puertos. Solo sigue de
// largo si el puerto está ocupado; cualquier otro error corta.
func listen(port, attempts int) (net.Listener, int, error) {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := range attempts {
		p := port + i
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", p))
		if err == nil {
			return ln, p, nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, 0, fmt.Errorf("listen on %d: %w", p, err)
		}
		lastErr = err
	}
	return nil, 0, fmt.Errorf("no free port in %d-%d: %w", port, port+attempts-1, lastErr)
}
