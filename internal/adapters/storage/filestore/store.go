package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"moltmon/internal/domain/pet"
	"moltmon/internal/platform/logger"
)

const (
	// SchemaVersion va en la ruta: un cambio incompatible usa otro directorio.
	SchemaVersion = "v0"

	StateFile    = "state.json"
	CommandsFile = "commands.json"
	HistoryFile  = "history.json"

	queueLockFile   = "queue.lock"
	historyLockFile = "history.lock"
	tickLockFile    = "tick.lock"

	// EnvDataDir permite mover el directorio de datos.
	EnvDataDir = "MOLTMON_DATA_DIR"
)

// Store es el almacenamiento compartido entre procesos: tres documentos JSON
// que se leen y escriben completos, nunca parcialmente.
type Store struct {
	dir    string
	log    logger.Logger
	now    func() time.Time
	mirror HistoryMirror
}

type Option func(*Store)

func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// DefaultDir devuelve $MOLTMON_DATA_DIR o ./.moltmon/v0.
func DefaultDir() string {
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		return v
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return filepath.Join(wd, ".moltmon", SchemaVersion)
}

func New(dir string, opts ...Option) *Store {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDir()
	}
	s := &Store{
		dir: dir,
		log: logger.Nop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Dir() string       { return s.dir }
func (s *Store) StatePath() string { return filepath.Join(s.dir, StateFile) }

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}

// ReadState devuelve nil si todavía no hay mascota (o el archivo no se puede leer).
func (s *Store) ReadState(ctx context.Context) (*pet.StateData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var st pet.StateData
	if !s.readJSON(StateFile, &st) {
		return nil, nil
	}
	return &st, nil
}

func (s *Store) WriteState(ctx context.Context, st pet.StateData) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.writeJSON(StateFile, st)
}

// readJSON devuelve false si el documento no existe o no se pudo leer.
// Un JSON roto se aparta como <name>.corrupt-<ms> para no perderlo.
func (s *Store) readJSON(name string, v any) bool {
	p := s.path(name)
	b, err := os.ReadFile(p)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("read failed, using default", map[string]any{"file": p, "error": err.Error()})
		}
		return false
	}
	if err := json.Unmarshal(b, v); err != nil {
		s.quarantine(p, err)
		return false
	}
	return true
}

func (s *Store) quarantine(p string, cause error) {
	target := fmt.Sprintf("%s.corrupt-%d", p, s.now().UnixMilli())
	fields := map[string]any{"file": p, "error": cause.Error()}
	if err := os.Rename(p, target); err != nil {
		fields["quarantine_error"] = err.Error()
	} else {
		fields["moved_to"] = target
	}
	s.log.Warn("corrupt document, using default", fields)
}

// writeJSON escribe en un temporal del mismo directorio y renombra,
// así un lector nunca ve un documento a medias.
func (s *Store) writeJSON(name string, v any) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		_ = os.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// withLock serializa read-modify-write entre procesos con un flock advisory.
func (s *Store) withLock(name string, fn func() error) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	fl := newFileLock(s.path(name))
	if err := fl.Lock(); err != nil {
		return fmt.Errorf("acquire %s: %w", name, err)
	}
	defer func() { _ = fl.Unlock() }()
	return fn()
}
