package db

import (
	"context"
	"fmt"
	"os"
)

// KeggDB bundles the rest lists and the downloaded map files.
type KeggDB struct {
	Rest *RestDB
	Maps *MapDB
}

// Open opens the data directory and its rest database, creating the directory
// on first use.
func Open(ctx context.Context, dir string) (*KeggDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	maps, err := NewMapDB(dir)
	if err != nil {
		return nil, err
	}
	if err := maps.EnsureLayout(); err != nil {
		return nil, err
	}
	rest, err := OpenRestDB(ctx, maps.SQLitePath())
	if err != nil {
		return nil, err
	}
	return &KeggDB{Rest: rest, Maps: maps}, nil
}

func (k *KeggDB) Close() error {
	return k.Rest.Close()
}
