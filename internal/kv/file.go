package kv

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	log "github.com/sirupsen/logrus"
)

var fileLogger = log.WithFields(log.Fields{
	"persistence": "file",
})

// File stores all keys in a single JSON object on disk. Every operation
// takes an exclusive lock on a sibling .lock file so several processes can
// share one store.
type File struct {
	Path string
}

var _ KV = (*File)(nil)

// NewFile returns a File store at path. The file and its directory are
// created on first Set.
func NewFile(path string) *File {
	return &File{Path: path}
}

func (f *File) lock() (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(f.Path), err)
	}
	l := flock.New(f.Path + ".lock")
	if err := l.Lock(); err != nil {
		fileLogger.WithError(err).Errorf("lock %s", f.Path)
		return nil, err
	}
	return l, nil
}

func unlock(l *flock.Flock) {
	if err := l.Unlock(); err != nil {
		fileLogger.WithError(err).Error("unlock")
	}
}

func (f *File) Get(key string) (string, bool, error) {
	l, err := f.lock()
	if err != nil {
		return "", false, err
	}
	defer unlock(l)

	values, err := f.readLocked()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	fileLogger.Debugf("get key %q from %s, found = %v", key, f.Path, ok)
	return v, ok, nil
}

func (f *File) Set(key, value string) error {
	l, err := f.lock()
	if err != nil {
		return err
	}
	defer unlock(l)

	values, err := f.readLocked()
	if err != nil {
		// an unreadable file is replaced rather than blocking every write
		fileLogger.WithError(err).Warnf("discarding unreadable store %s", f.Path)
		values = map[string]string{}
	}
	values[key] = value
	fileLogger.Debugf("set key %q in %s", key, f.Path)
	return f.writeLocked(values)
}

func (f *File) readLocked() (map[string]string, error) {
	values := map[string]string{}
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return values, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	return values, nil
}

func (f *File) writeLocked(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", f.Path, err)
	}
	return nil
}
