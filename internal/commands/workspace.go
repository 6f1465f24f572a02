package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ledgerlink-dev/ledgerlink/internal/batch"
	"github.com/ledgerlink-dev/ledgerlink/internal/config"
	"github.com/ledgerlink-dev/ledgerlink/internal/gitops"
	"github.com/ledgerlink-dev/ledgerlink/internal/ledgers"
)

const (
	configFile  = "ledgerlink.yaml"
	ledgersFile = "ledgers.csv"
	batchesDir  = "batches"
)

// workspace is an opened ledgerlink workspace directory.
type workspace struct {
	dir string
	cfg *config.Config
}

func openWorkspace(dir string) (*workspace, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(absDir, configFile))
	if err != nil {
		return nil, fmt.Errorf("not a ledgerlink workspace (run init first): %w", err)
	}
	return &workspace{dir: absDir, cfg: cfg}, nil
}

// loadRegistry reads ledgers.csv into a Registry. A missing file yields
// an empty registry.
func (w *workspace) loadRegistry() (*ledgers.Registry, error) {
	f, err := os.Open(filepath.Join(w.dir, ledgersFile))
	if errors.Is(err, os.ErrNotExist) {
		return ledgers.NewRegistry(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledgers: %w", err)
	}
	defer f.Close()

	seed, err := ledgers.ReadLedgers(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledgers: %w", err)
	}
	return ledgers.NewRegistry(seed), nil
}

func (w *workspace) saveRegistry(reg *ledgers.Registry) error {
	f, err := os.Create(filepath.Join(w.dir, ledgersFile))
	if err != nil {
		return fmt.Errorf("creating ledgers file: %w", err)
	}
	defer f.Close()

	if err := ledgers.WriteLedgers(f, reg.All()); err != nil {
		return fmt.Errorf("writing ledgers: %w", err)
	}
	return nil
}

func (w *workspace) batchPath(name string) string {
	return filepath.Join(w.dir, batchesDir, name, "transactions.csv")
}

// loadBatch reads a batch into a Store whose statuses are derived
// against the given registry.
func (w *workspace) loadBatch(name string, reg *ledgers.Registry) (*batch.Store, error) {
	f, err := os.Open(w.batchPath(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("batch %q not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("opening batch %s: %w", name, err)
	}
	defer f.Close()

	txns, err := batch.ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading batch %s: %w", name, err)
	}

	st := batch.NewStore(reg)
	st.Restore(txns)
	return st, nil
}

// autoCommit records the workspace's current state as a git commit.
// A no-op when auto-commit is off or the workspace is not a repository;
// commit failures warn rather than fail the command, since the state
// files are already saved.
func (w *workspace) autoCommit(message string) {
	if !w.cfg.Git.AutoCommit || !gitops.IsRepo(w.dir) {
		return
	}
	author := gitops.Author{Name: w.cfg.Git.AuthorName, Email: w.cfg.Git.AuthorEmail}
	if _, err := gitops.CommitAll(w.dir, message, author); err != nil {
		fmt.Fprintf(os.Stderr, "warning: workspace commit failed: %v\n", err)
	}
}

func (w *workspace) saveBatch(name string, st *batch.Store) error {
	dir := filepath.Dir(w.batchPath(name))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating batch dir: %w", err)
	}

	f, err := os.Create(w.batchPath(name))
	if err != nil {
		return fmt.Errorf("creating batch file: %w", err)
	}
	defer f.Close()

	if err := batch.WriteTransactions(f, st.All()); err != nil {
		return fmt.Errorf("writing batch %s: %w", name, err)
	}
	return nil
}
