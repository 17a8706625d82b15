package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/johanforsgren/repodeck/internal/domain"
	"github.com/johanforsgren/repodeck/internal/logger"
)

const (
	defaultDataDir = ".repodeck"
	reposFile      = "repos.json"
	boltFile       = "repos.bolt"
)

var _ domain.TrackedStore = (*LocalRepository)(nil)

// LocalRepository keeps the tracked list in a single JSON file.
type LocalRepository struct {
	path string
	mu   sync.RWMutex
}

// DefaultDataDir returns ~/.repodeck.
func DefaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, defaultDataDir), nil
}

func NewLocalRepository(dir string) (*LocalRepository, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &LocalRepository{
		path: filepath.Join(dir, reposFile),
	}, nil
}

func (r *LocalRepository) Path() string {
	return r.path
}

func (r *LocalRepository) Load() ([]domain.TrackedRepository, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	logger.LogFileOpen(r.path)
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.TrackedRepository{}, nil
	}
	if err != nil {
		logger.LogError("LOAD", r.path, err)
		return nil, err
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		logger.LogError("UNMARSHAL", r.path, err)
		return nil, fmt.Errorf("failed to parse %s: %w", r.path, err)
	}

	logger.Log("Tracked list loaded", "path", r.path, "count", len(records))
	return fromRecords(records), nil
}

func (r *LocalRepository) Save(repos []domain.TrackedRepository) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(toRecords(repos), "", "  ")
	if err != nil {
		logger.LogError("MARSHAL", r.path, err)
		return fmt.Errorf("failed to marshal tracked list: %w", err)
	}

	logger.LogFileWrite(r.path)
	if err := os.WriteFile(r.path, data, 0600); err != nil {
		logger.LogError("SAVE", r.path, err)
		return err
	}

	logger.Log("Tracked list saved", "path", r.path, "count", len(repos))
	return nil
}

func (r *LocalRepository) Close() error {
	return nil
}
