package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"moltmon/internal/adapters/notify/natspub"
	"moltmon/internal/adapters/storage/filestore"
	mem "moltmon/internal/adapters/storage/memory"
	"moltmon/internal/adapters/storage/postgres"
	"moltmon/internal/adapters/storage/sqlite"
	"moltmon/internal/config"
	"moltmon/internal/domain/archive"
	"moltmon/internal/domain/journal"
	"moltmon/internal/domain/lifecycle"
	"moltmon/internal/domain/pet"
	"moltmon/internal/platform/logger"
	"moltmon/internal/platform/metrics"
)

// dataDir resuelve el directorio compartido: flag/config, env o el default.
func dataDir() string {
	if cfg != nil && strings.TrimSpace(cfg.DataDir) != "" {
		return cfg.DataDir
	}
	return filestore.DefaultDir()
}

// newLogger arma el logger del proceso. En la terminal stdout es del
// renderer, así que los logs van solo al archivo (por defecto dentro del
// data dir).
func newLogger(terminal bool, primary io.Writer) (logger.Logger, func(), error) {
	opts := logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    config.AppName,
		Output: primary,
	}

	file := strings.TrimSpace(cfg.Log.File)
	if terminal {
		opts.NoPrimary = true
		if file == "" {
			file = filepath.Join(dataDir(), "moltmon.log")
		}
	}
	if file == "" {
		return logger.New(opts), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	opts.Extra = f
	return logger.New(opts), func() { _ = f.Close() }, nil
}

// runtime agrupa lo que comparten los procesos largos (terminal y web):
// store, archivo histórico y diario de eventos.
type runtime struct {
	log     logger.Logger
	store   *filestore.Store
	archive *archive.Service
	journal *journal.Service

	closers []func() error
}

func newRuntime(ctx context.Context, log logger.Logger) (*runtime, error) {
	rt := &runtime{log: log}

	if err := rt.openArchive(ctx); err != nil {
		rt.Close()
		return nil, err
	}

	rt.store = filestore.New(dataDir(),
		filestore.WithLogger(log),
		filestore.WithHistoryMirror(rt.archive),
	)
	rt.seedArchive(ctx)

	if err := rt.openJournal(); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

func (rt *runtime) openArchive(ctx context.Context) error {
	dsn := strings.TrimSpace(cfg.Storage.DBDSN)
	if dsn == "" {
		rt.archive = archive.NewService(mem.NewArchiveRepo())
		return nil
	}

	db, err := postgres.Open(dsn)
	if err != nil {
		return fmt.Errorf("open archive db: %w", err)
	}
	rt.closers = append(rt.closers, db.Close)

	schemaCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := postgres.EnsureSchema(schemaCtx, db); err != nil {
		return fmt.Errorf("archive schema: %w", err)
	}
	rt.archive = archive.NewService(postgres.NewArchiveRepo(db))
	rt.log.Info("archive backed by postgres", nil)
	return nil
}

// seedArchive copia history.json al archivo. Upsert es idempotente, así que
// da igual si la base ya los tenía.
func (rt *runtime) seedArchive(ctx context.Context) {
	h, err := rt.store.ReadHistory(ctx)
	if err != nil {
		rt.log.Warn("read history for archive failed", map[string]any{"error": err.Error()})
		return
	}
	for _, s := range h.Pets {
		if err := rt.archive.Upsert(ctx, s); err != nil {
			rt.log.Warn("archive seed failed", map[string]any{"pet_id": s.PetID, "error": err.Error()})
		}
	}
}

func (rt *runtime) openJournal() error {
	var repo journal.Repository = mem.NewJournalRepo()

	if p := cfg.JournalPath(rt.store.Dir()); p != "" {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("create journal dir: %w", err)
		}
		js, err := sqlite.NewJournalStore(p)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		rt.closers = append(rt.closers, js.Close)
		repo = js
	}

	var pubs []journal.Publisher
	if url := strings.TrimSpace(cfg.NATS.URL); url != "" {
		p, err := natspub.Connect(url, cfg.NATS.Subject, rt.log)
		if err != nil {
			// Sin broker el diario local sigue funcionando.
			rt.log.Warn("nats unavailable, events stay local", map[string]any{"url": url, "error": err.Error()})
		} else {
			rt.closers = append(rt.closers, p.Close)
			pubs = append(pubs, p)
		}
	}

	rt.journal = journal.NewService(repo, rt.log, pubs...)
	return nil
}

// startMachine restaura (o crea) la mascota y conecta los listeners.
// Solo lo llama el dueño del tick.
func (rt *runtime) startMachine(ctx context.Context, rec *metrics.Recorder) (*lifecycle.Machine, bool, error) {
	initial, restored, err := rt.store.RestoreOrCreateState(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("restore state: %w", err)
	}

	m := lifecycle.New(rt.store, initial, lifecycle.WithLogger(rt.log))
	m.OnEvent(rt.journal.Listener())

	if rec != nil {
		rec.SetPet(initial.PetID, string(initial.State), initial.PoopCount)
		m.OnEvent(func(n lifecycle.Notification) {
			rec.IncEvent(string(n.Event))
			rec.SetPet(n.PetID, string(n.State), m.PoopCount())
		})
		m.OnDeath(func(s pet.Summary) {
			cause := ""
			if s.Stats.CauseOfDeath != nil {
				cause = string(*s.Stats.CauseOfDeath)
			}
			rec.ObserveDeath(cause, s.SurvivalTime())
		})
	}

	rt.log.Info("pet ready", map[string]any{
		"pet_id":   initial.PetID,
		"state":    initial.State,
		"restored": restored,
	})
	return m, restored, nil
}

func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.log.Warn("close failed", map[string]any{"error": err.Error()})
		}
	}
	rt.closers = nil
}
