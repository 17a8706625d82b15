package domain

// TrackedStore persists the tracked repository list as a single aggregate.
// Load returns an empty list when nothing has been saved yet.
type TrackedStore interface {
	Load() ([]TrackedRepository, error)

	Save(repos []TrackedRepository) error

	Close() error
}
