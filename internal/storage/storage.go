// Package storage defines the key-value contract the task store persists
// through, plus an in-memory implementation.
package storage

import (
	"errors"
	"slices"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("storage: key not found")

// KV is a synchronous key-value store. Values are overwritten wholesale.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}

// Memory keeps values in a map. It is the backend for tests and for
// throwaway sessions.
type Memory struct {
	m map[string][]byte

	// FailWrites makes every Set return an error, for exercising
	// best-effort persistence.
	FailWrites bool
}

// NewMemory returns an empty Memory.
func NewMemory() *Memory {
	return &Memory{m: make(map[string][]byte)}
}

func (s *Memory) Get(key string) ([]byte, error) {
	v, ok := s.m[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(v), nil
}

func (s *Memory) Set(key string, value []byte) error {
	if s.FailWrites {
		return errors.New("storage: writes disabled")
	}
	s.m[key] = slices.Clone(value)
	return nil
}

func (s *Memory) Close() error { return nil }
