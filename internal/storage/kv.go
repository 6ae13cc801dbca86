// Package storage provides the key/value backends that hold the client's
// encrypted session entries.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("storage: key not found")

// KV is a tiny string key/value store. Writes are last-write-wins.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	// Path is the file or database path for file/sqlite backends.
	Path string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// Prefix namespaces redis keys so several profiles can share one instance.
	Prefix string
}

// Open returns the backend described by opts.
func Open(opts Options) (KV, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFileKV(opts.Path)
	case BackendSQLite:
		return NewSQLiteKV(opts.Path)
	case BackendRedis:
		if opts.RedisAddr == "" {
			return nil, fmt.Errorf("redis backend requires an address")
		}
		return NewRedisKVFromOptions(opts), nil
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
