package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"moltmon/internal/platform/logger"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 100 * time.Millisecond

// Watcher avisa cuando cambia alguno de los archivos indicados dentro de dir.
// Se observa el directorio y no los archivos: las escrituras atómicas
// reemplazan el inode con un rename.
type Watcher struct {
	dir      string
	files    map[string]bool
	debounce time.Duration
	log      logger.Logger
	fsw      *fsnotify.Watcher
}

func New(dir string, files []string, debounce time.Duration, log logger.Logger) (*Watcher, error) {
	if len(files) == 0 {
		return nil, errors.New("watch: at least one file name is required")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logger.Nop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create watch dir: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	set := make(map[string]bool, len(files))
	for _, f := range files {
		set[f] = true
	}
	return &Watcher{dir: dir, files: set, debounce: debounce, log: log, fsw: fsw}, nil
}

// Run bloquea hasta que ctx se cancela. onChange recibe el nombre base del
// archivo, una vez por ráfaga de eventos.
func (w *Watcher) Run(ctx context.Context, onChange func(name string)) error {
	defer func() { _ = w.fsw.Close() }()

	var (
		mu     sync.Mutex
		timers = map[string]*time.Timer{}
	)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	trigger := func(name string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := timers[name]; ok {
			t.Stop()
		}
		timers[name] = time.AfterFunc(w.debounce, func() {
			if ctx.Err() == nil {
				onChange(name)
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if !w.files[name] {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			trigger(name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", map[string]any{"dir": w.dir, "error": err.Error()})
		}
	}
}
