package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerlink-dev/ledgerlink/internal/view"
)

func newRemoveCommand() *cobra.Command {
	var workspaceDir string
	var batchName string
	var allFiltered bool
	var opts filterOpts

	cmd := &cobra.Command{
		Use:   "remove [transaction-id...]",
		Short: "Delete transactions from a batch",
		Long: `Delete transactions from a batch outright.

With --all-filtered, every transaction matching the filter flags is
selected and deleted, across all pages. Removing an id that is already
gone is a no-op, so a repeated remove is safe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !allFiltered && len(args) == 0 {
				return fmt.Errorf("provide transaction ids or --all-filtered")
			}
			return runRemove(workspaceDir, batchName, args, allFiltered, opts)
		},
	}

	cmd.Flags().StringVarP(&workspaceDir, "workspace", "w", ".", "workspace directory")
	cmd.Flags().StringVar(&batchName, "batch", "", "batch name (required)")
	_ = cmd.MarkFlagRequired("batch")
	cmd.Flags().BoolVar(&allFiltered, "all-filtered", false, "delete every transaction matching the filter flags")
	addFilterFlags(cmd, &opts)

	return cmd
}

func runRemove(dir, batchName string, ids []string, allFiltered bool, opts filterOpts) error {
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

	if allFiltered {
		// Select-all works on the filtered set, not the current page.
		st.SelectAll(view.FilteredIDs(st.All(), opts.criteria()))
		ids = st.Selected()
	}

	before := st.Len()
	for _, id := range ids {
		st.Remove(id)
	}
	removed := before - st.Len()

	if err := ws.saveBatch(batchName, st); err != nil {
		return err
	}
	ws.autoCommit(fmt.Sprintf("remove: %d transaction(s) from %s", removed, batchName))

	fmt.Printf("Removed %d transaction(s), %d remain\n", removed, st.Len())
	return nil
}
