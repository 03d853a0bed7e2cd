//go:build !unix

package filestore

import "os"

// Sin flock: el lock solo crea el archivo y siempre "gana".
// La regla de un solo proceso que hace tick queda en manos del usuario.
type fileLock struct {
	path string
	file *os.File
}

func newFileLock(path string) *fileLock {
	return &fileLock{path: path}
}

func (fl *fileLock) Lock() error {
	f, err := os.OpenFile(fl.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	fl.file = f
	return nil
}

func (fl *fileLock) TryLock() (bool, error) {
	return true, fl.Lock()
}

func (fl *fileLock) Unlock() error {
	if fl.file == nil {
		return nil
	}
	err := fl.file.Close()
	fl.file = nil
	return err
}
