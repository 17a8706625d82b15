// Package tracker owns the user's list of tracked repositories and keeps it
// in sync with the configured store.
package tracker

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/johanforsgren/repodeck/internal/domain"
	"github.com/johanforsgren/repodeck/internal/logger"
	"github.com/johanforsgren/repodeck/internal/provider/common"
)

type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateAlert
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateAlert:
		return "alert"
	default:
		return "idle"
	}
}

type Tracker struct {
	store    domain.TrackedStore
	provider domain.Provider

	mu      sync.Mutex
	repos   []domain.TrackedRepository
	state   State
	lastErr error
}

func New(store domain.TrackedStore, provider domain.Provider) *Tracker {
	return &Tracker{
		store:    store,
		provider: provider,
		repos:    []domain.TrackedRepository{},
	}
}

// Initialize reads the persisted list. Missing or unreadable data leaves the
// tracker with an empty list.
func (t *Tracker) Initialize() error {
	repos, err := t.store.Load()

	t.mu.Lock()
	defer t.mu.Unlock()

	if err != nil {
		logger.LogError("TRACKER_INIT", "store", err)
		t.repos = []domain.TrackedRepository{}
		return nil
	}

	t.repos = repos
	logger.Log("Tracker initialized", "count", len(repos))
	return nil
}

func (t *Tracker) List() []domain.TrackedRepository {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.TrackedRepository(nil), t.repos...)
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Alert reports whether the last submission failed and no input has changed since.
func (t *Tracker) Alert() bool {
	return t.State() == StateAlert
}

func (t *Tracker) LastError() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

// InputChanged clears a pending alert. Called on every keystroke in the form.
func (t *Tracker) InputChanged() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateAlert {
		t.state = StateIdle
		t.lastErr = nil
	}
}

// Add looks owner/name up remotely and appends it to the tracked list using
// the canonical name and web URL from the response.
func (t *Tracker) Add(ctx context.Context, owner, name string) (domain.TrackedRepository, error) {
	owner = strings.TrimSpace(owner)
	name = strings.TrimSpace(name)

	t.mu.Lock()
	t.state = StateSubmitting
	t.lastErr = nil
	t.mu.Unlock()

	repo, err := t.add(ctx, owner, name)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.state = StateAlert
		t.lastErr = err
		logger.LogError("TRACKER_ADD", common.FormatRepositoryName(owner, name), err)
		return domain.TrackedRepository{}, err
	}
	t.state = StateIdle
	return repo, nil
}

func (t *Tracker) add(ctx context.Context, owner, name string) (domain.TrackedRepository, error) {
	if owner == "" {
		return domain.TrackedRepository{}, &domain.ValidationError{Field: "owner"}
	}
	if name == "" {
		return domain.TrackedRepository{}, &domain.ValidationError{Field: "name"}
	}

	fullName := common.FormatRepositoryName(owner, name)
	detail, err := t.provider.GetRepository(ctx, owner, name)
	if err != nil {
		var remote *domain.RemoteFetchError
		if !errors.As(err, &remote) {
			err = &domain.RemoteFetchError{Operation: "get repository", Target: fullName, Err: err}
		}
		return domain.TrackedRepository{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.containsLocked(fullName) || t.containsLocked(detail.FullName) {
		return domain.TrackedRepository{}, &domain.DuplicateError{Name: fullName}
	}

	repo := domain.TrackedRepository{Name: detail.FullName, URL: detail.HTMLURL}
	next := append(append([]domain.TrackedRepository(nil), t.repos...), repo)
	if err := t.store.Save(next); err != nil {
		return domain.TrackedRepository{}, err
	}
	t.repos = next

	logger.Log("Tracked repository added", "name", repo.Name, "url", repo.URL)
	return repo, nil
}

func (t *Tracker) containsLocked(fullName string) bool {
	for _, r := range t.repos {
		if strings.EqualFold(r.Name, fullName) {
			return true
		}
	}
	return false
}

// Delete removes every entry named name and persists the result. Deleting a
// name that is not tracked is not an error.
func (t *Tracker) Delete(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := make([]domain.TrackedRepository, 0, len(t.repos))
	for _, r := range t.repos {
		if r.Name != name {
			next = append(next, r)
		}
	}

	if err := t.store.Save(next); err != nil {
		logger.LogError("TRACKER_DELETE", name, err)
		return err
	}

	logger.Log("Tracked repository deleted", "name", name, "removed", len(t.repos)-len(next))
	t.repos = next
	return nil
}
