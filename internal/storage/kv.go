// Package storage holds the string-keyed JSON records that stand in for the
// browser's local storage: one blob per portfolio field.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/folio-web/folio/internal/db"
)

// ErrNotFound is returned by KV.Get when the key has never been set.
var ErrNotFound = errors.New("storage: key not found")

// KV is a flat key/value store of JSON text. Implementations must be safe
// for concurrent use; concurrent writers to one key resolve as last write
// wins.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Driver names accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
	DriverMemory = "memory"
)

// Open returns the KV for driver rooted in dataDir.
func Open(driver, dataDir string) (KV, error) {
	switch driver {
	case DriverSQLite, "":
		database, err := db.Open(filepath.Join(dataDir, "folio.db"))
		if err != nil {
			return nil, err
		}
		return NewSQLiteKV(database), nil
	case DriverBadger:
		return OpenBadger(filepath.Join(dataDir, "badger"))
	case DriverMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
