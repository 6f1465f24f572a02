package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerlink-dev/ledgerlink/internal/bulk"
	"github.com/ledgerlink-dev/ledgerlink/internal/synclog"
	"github.com/ledgerlink-dev/ledgerlink/internal/tally"
)

func newSyncCommand() *cobra.Command {
	var workspaceDir string
	var batchName string
	var only []string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push a batch to Tally in one bulk request",
		Long: `Push a batch's current state to Tally in one bulk request.

The whole batch goes in a single import; --only restricts the payload
to the named transaction ids, which is how a partially failed batch is
retried. Failed records are never retried automatically.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(workspaceDir, batchName, only)
		},
	}

	cmd.Flags().StringVarP(&workspaceDir, "workspace", "w", ".", "workspace directory")
	cmd.Flags().StringVar(&batchName, "batch", "", "batch name (required)")
	_ = cmd.MarkFlagRequired("batch")
	cmd.Flags().StringSliceVar(&only, "only", nil, "restrict the payload to these transaction ids")

	return cmd
}

func runSync(dir, batchName string, only []string) error {
	ws, err := openWorkspace(dir)
	if err != nil {
		return err
	}

	reg, err := ws.loadRegistry()
	if err != nil {
		return err
	}

	st, err := ws.loadBatch(batchName, reg)
	if err != nil {
		return err
	}

	// The coordinator gates one process; the lock file gates the batch
	// across processes.
	release, err := acquireSyncLock(filepath.Join(ws.dir, batchesDir, batchName))
	if err != nil {
		return err
	}
	defer release()

	client := tally.NewClient(ws.cfg.Tally.Endpoint, ws.cfg.Company, ws.cfg.Timeout())
	coord := bulk.NewCoordinator(client, ws.cfg.BankLedger)

	result, pushErr := coord.Push(context.Background(), st, only)
	if result.Outcome == "" {
		// Rejected before anything was attempted; nothing to save or log.
		return pushErr
	}

	// Whatever the outcome, synced flags already reflect it.
	if err := ws.saveBatch(batchName, st); err != nil {
		return err
	}
	logSyncResult(ws.dir, batchName, result)
	ws.autoCommit(fmt.Sprintf("sync: %s %s", batchName, result.Outcome))

	switch result.Outcome {
	case bulk.OutcomeSucceeded:
		fmt.Printf("Synchronized %d transaction(s)\n", result.Attempted)
		return nil
	case bulk.OutcomePartiallyFailed:
		failed := result.Failed()
		fmt.Printf("Partially failed: %d of %d rejected\n", len(failed), result.Attempted)
		for _, rec := range result.Records {
			if !rec.Succeeded {
				fmt.Printf("  %s: %s\n", rec.TransactionID, rec.ErrorMessage)
			}
		}
		fmt.Printf("Retry with: ledgerlink sync --batch %s --only %s\n", batchName, strings.Join(failed, ","))
		return fmt.Errorf("%d transaction(s) were rejected", len(failed))
	default:
		return pushErr
	}
}

// acquireSyncLock takes the per-batch lock file. The returned release
// removes it.
func acquireSyncLock(batchDir string) (func(), error) {
	path := filepath.Join(batchDir, "sync.lock")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("%w: another process holds %s", bulk.ErrSyncInProgress, path)
	}
	if err != nil {
		return nil, fmt.Errorf("acquiring sync lock: %w", err)
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Close()
	return func() { _ = os.Remove(path) }, nil
}

func logSyncResult(dir, batchName string, result bulk.Result) {
	now := time.Now()
	entries := []synclog.Entry{{
		Timestamp: now,
		Batch:     batchName,
		Action:    "sync",
		Outcome:   string(result.Outcome),
		Details:   fmt.Sprintf("%d attempted", result.Attempted),
	}}
	for _, rec := range result.Records {
		outcome := "ok"
		if !rec.Succeeded {
			outcome = "rejected"
		}
		entries = append(entries, synclog.Entry{
			Timestamp:     now,
			Batch:         batchName,
			Action:        "sync",
			TransactionID: rec.TransactionID,
			Outcome:       outcome,
			Details:       rec.ErrorMessage,
		})
	}
	if err := synclog.Append(dir, entries); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write sync log: %v\n", err)
	}
}
