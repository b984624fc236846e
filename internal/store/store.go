// Package store persists session state as JSON values under string keys.
//
// It plays the part browser local storage plays for a client-side app: the
// domain packages never see the backend, only the Store interface and the
// typed State accessors built on it.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrNotFound is returned by Get when a key holds no value.
var ErrNotFound = errors.New("store: key not found")

// Store is a minimal key-value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys lists the keys starting with prefix in lexical order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Backend     string
	Path        string        // file backend
	RedisURL    string        // redis backend
	TTL         time.Duration // redis backend, zero keeps values forever
	DatabaseURL string        // postgres backend
}

// Open builds the configured backend.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		return OpenFile(opts.Path, logger)
	case BackendRedis:
		return NewRedis(ctx, opts.RedisURL, opts.TTL)
	case BackendPostgres:
		return NewPostgres(ctx, opts.DatabaseURL, logger)
	}
	return nil, fmt.Errorf("store: unknown backend %q", opts.Backend)
}
