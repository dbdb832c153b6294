// Package store persists the results of retina evolution runs: per-generation
// costs and the final ranked genomes, in memory or in a SQLite file.
package store

import (
	"context"
	"fmt"
)

// Store persists the results of evolution runs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run RunRecord) error
	GetRun(ctx context.Context, id string) (RunRecord, bool, error)
	SaveGeneration(ctx context.Context, runID string, gen GenerationRecord) error
	ListGenerations(ctx context.Context, runID string) ([]GenerationRecord, error)
}

// NewStore returns an uninitialised backend: "memory" (or empty) or "sqlite" at sqlitePath.
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(sqlitePath), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

// CloseIfSupported closes store when the backend holds resources.
func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
