package storage

import (
	"fmt"

	"github.com/johanforsgren/repodeck/internal/domain"
)

const (
	BackendJSON = "json"
	BackendBolt = "bolt"
)

// Open returns the TrackedStore for backend rooted at dir.
func Open(backend, dir string) (domain.TrackedStore, error) {
	switch backend {
	case "", BackendJSON:
		return NewLocalRepository(dir)
	case BackendBolt:
		return NewBoltRepository(dir)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", backend)
	}
}
