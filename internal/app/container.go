// Package app wires configuration, storage and the remote provider together.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cli/go-gh/v2/pkg/browser"
	"github.com/johanforsgren/repodeck/internal/config"
	"github.com/johanforsgren/repodeck/internal/domain"
	"github.com/johanforsgren/repodeck/internal/issues"
	"github.com/johanforsgren/repodeck/internal/logger"
	"github.com/johanforsgren/repodeck/internal/provider/github"
	"github.com/johanforsgren/repodeck/internal/storage"
	"github.com/johanforsgren/repodeck/internal/tracker"
)

// Opener launches a URL outside the terminal.
type Opener interface {
	Browse(url string) error
}

type Options struct {
	ConfigPath string
	DataDir    string // overrides [storage] dir when set
	Stdout     io.Writer
	Stderr     io.Writer
}

// Container holds everything a command or the TUI needs.
type Container struct {
	Config   *config.Config
	Store    domain.TrackedStore
	Provider domain.Provider
	Tracker  *tracker.Tracker
	Opener   Opener
}

// New loads the configuration named by opts and builds the container. The
// tracked list is read before New returns.
func New(opts Options) (*Container, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.DataDir != "" {
		cfg.Storage.Dir = opts.DataDir
	}

	if err := logger.Init(cfg.Log.File); err != nil {
		return nil, err
	}
	for _, w := range cfg.Warnings {
		logger.Log("Config warning", "path", opts.ConfigPath, "warning", w)
	}

	store, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Storage.Backend, err)
	}

	client, err := github.NewClient(cfg.APIBaseURL, nil)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return NewWith(cfg, store, github.NewProvider(client), browser.New("", stdout, stderr)), nil
}

// NewWith assembles a container from already built parts.
func NewWith(cfg *config.Config, store domain.TrackedStore, provider domain.Provider, opener Opener) *Container {
	t := tracker.New(store, provider)
	_ = t.Initialize()

	return &Container{
		Config:   cfg,
		Store:    store,
		Provider: provider,
		Tracker:  t,
		Opener:   opener,
	}
}

// NewBrowser returns an issue browser for fullName backed by the container's provider.
func (c *Container) NewBrowser(fullName string) *issues.Browser {
	return issues.NewBrowser(c.Provider, fullName)
}

func (c *Container) Close() error {
	return errors.Join(c.Store.Close(), logger.Close())
}
