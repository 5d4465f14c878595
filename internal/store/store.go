// ============================================================================
// livelog - Echtzeit Log Viewer
// ============================================================================
//
// Package:     store
// Description: Key/value persistence used for the channel history
// Author:      Mike Stoffels
// Created:     2026-10-02
// License:     MIT
// ============================================================================

package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get for keys that were never set
var ErrNotFound = errors.New("key not found")

// Store persists small values by key
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Memory is an in-process Store. The zero value is ready to use.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty memory store
func NewMemory() *Memory {
	return &Memory{}
}

// Get returns a copy of the stored value
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value
func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}
