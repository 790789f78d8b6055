// Package storage provides key/value slots for saved games.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get and Delete when the key has no value.
var ErrNotFound = errors.New("storage: key not found")

// Store is a flat key/value slot store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Kind names a Store implementation.
type Kind string

const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

// Open builds the store of the given kind. path is a directory for file
// stores and a database file for sqlite; memory ignores it.
func Open(kind Kind, path string) (Store, error) {
	switch kind {
	case KindFile, "":
		return NewFileStore(path)
	case KindSQLite:
		return NewSQLiteStore(path)
	case KindMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", kind)
	}
}
