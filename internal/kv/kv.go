// Package kv provides the string key-value stores trendlines are persisted
// in: an in-memory map, a locked JSON file and redis.
package kv

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/example/trendlines/internal/config"
)

// KV is a synchronous string key-value store.
type KV interface {
	// Get returns the value stored under key. found is false when the key
	// has never been set.
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
}

// Memory is a process-local KV.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ KV = (*Memory)(nil)

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Open builds the backend selected by cfg.
func Open(cfg config.Store) (KV, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendRedis:
		return NewRedis(RedisOptions{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			Namespace: cfg.RedisNamespace,
			Timeout:   cfg.Timeout,
		}), nil
	case config.BackendFile, "":
		path := cfg.Path
		if path == "" {
			path = filepath.Join(config.DataDir(), "trendlines.json")
		}
		return NewFile(path), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// Close releases resources held by store, if it holds any.
func Close(store KV) error {
	if c, ok := store.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
