// Package storage persists named diagrams and the recovery snapshot in a
// string key-value store.
package storage

import (
	"errors"
	"sync"
)

var (
	ErrStorage     = errors.New("storage: failure")
	ErrNotFound    = errors.New("storage: not found")
	ErrInvalidName = errors.New("storage: invalid name")
)

// KV is a string key-value store.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// MemoryKV keeps values for the lifetime of the process.
type MemoryKV struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{m: make(map[string]string)}
}

func (kv *MemoryKV) Get(key string) (string, bool, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	v, ok := kv.m[key]
	return v, ok, nil
}

func (kv *MemoryKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.m[key] = value
	return nil
}
