package storage

import (
	"sync"

	"github.com/johanforsgren/repodeck/internal/domain"
)

var _ domain.TrackedStore = (*MemoryRepository)(nil)

// MemoryRepository is a TrackedStore that never touches disk.
type MemoryRepository struct {
	mu    sync.Mutex
	repos []domain.TrackedRepository
	Saves int
	Err   error
}

func NewMemoryRepository(initial ...domain.TrackedRepository) *MemoryRepository {
	return &MemoryRepository{repos: append([]domain.TrackedRepository(nil), initial...)}
}

func (m *MemoryRepository) Load() ([]domain.TrackedRepository, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]domain.TrackedRepository{}, m.repos...), nil
}

func (m *MemoryRepository) Save(repos []domain.TrackedRepository) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.repos = append([]domain.TrackedRepository{}, repos...)
	m.Saves++
	return nil
}

// Snapshot returns what was last saved.
func (m *MemoryRepository) Snapshot() []domain.TrackedRepository {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.TrackedRepository{}, m.repos...)
}

func (m *MemoryRepository) Close() error {
	return nil
}
