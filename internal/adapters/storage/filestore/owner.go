package filestore

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// TickOwner es el lock que marca al único proceso que hace tick.
// Se libera al cerrar el proceso aunque no se llame Release.
type TickOwner struct {
	ID   string
	lock *fileLock
}

// AcquireTickOwner intenta tomar tick.lock sin bloquear.
// ok=false significa que otro proceso ya está haciendo tick: correr como observador.
func (s *Store) AcquireTickOwner() (*TickOwner, bool, error) {
	if err := s.ensureDir(); err != nil {
		return nil, false, err
	}
	fl := newFileLock(s.path(tickLockFile))
	ok, err := fl.TryLock()
	if err != nil || !ok {
		return nil, false, err
	}

	owner := &TickOwner{ID: uuid.NewString(), lock: fl}
	if fl.file != nil {
		// Informativo: quién tiene el lock.
		_ = fl.file.Truncate(0)
		_, _ = fl.file.WriteAt([]byte(fmt.Sprintf("%s pid=%d\n", owner.ID, os.Getpid())), 0)
	}
	s.log.Info("acquired tick ownership", map[string]any{"owner_id": owner.ID})
	return owner, true, nil
}

func (o *TickOwner) Release() error {
	if o == nil || o.lock == nil {
		return nil
	}
	return o.lock.Unlock()
}
