//go:build unix

package filestore

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// fileLock es exclusión mutua entre procesos con flock(2).
type fileLock struct {
	path string
	file *os.File
}

func newFileLock(path string) *fileLock {
	return &fileLock{path: path}
}

// Lock bloquea hasta obtener el lock. Crea el archivo si no existe.
func (fl *fileLock) Lock() error {
	f, err := os.OpenFile(fl.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		_ = f.Close()
		return fmt.Errorf("flock: %w", err)
	}
	fl.file = f
	return nil
}

// TryLock no bloquea: false si otro proceso lo tiene.
func (fl *fileLock) TryLock() (bool, error) {
	f, err := os.OpenFile(fl.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return false, fmt.Errorf("open lock file: %w", err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return false, nil
		}
		return false, fmt.Errorf("flock: %w", err)
	}
	fl.file = f
	return true, nil
}

func (fl *fileLock) Unlock() error {
	if fl.file == nil {
		return nil
	}
	if err := syscall.Flock(int(fl.file.Fd()), syscall.LOCK_UN); err != nil {
		_ = fl.file.Close()
		fl.file = nil
		return fmt.Errorf("funlock: %w", err)
	}
	err := fl.file.Close()
	fl.file = nil
	return err
}
