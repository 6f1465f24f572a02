package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerlink-dev/ledgerlink/internal/ledgers"
	"github.com/ledgerlink-dev/ledgerlink/internal/synclog"
	"github.com/ledgerlink-dev/ledgerlink/internal/tally"
)

func newLedgersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledgers",
		Short: "Manage the ledger catalog",
	}
	cmd.AddCommand(newLedgersListCommand())
	cmd.AddCommand(newLedgersCreateCommand())
	cmd.AddCommand(newLedgersPullCommand())
	return cmd
}

func newLedgersListCommand() *cobra.Command {
	var workspaceDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known ledgers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(workspaceDir)
			if err != nil {
				return err
			}
			reg, err := ws.loadRegistry()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tGROUP\tGSTIN\tSTATE")
			for _, l := range reg.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.Name, l.ParentGroup, l.GSTIN, l.StateCode)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&workspaceDir, "workspace", "w", ".", "workspace directory")
	return cmd
}

func newLedgersCreateCommand() *cobra.Command {
	var workspaceDir string
	var name string
	var group string
	var gstin string
	var stateCode string
	var push bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a ledger in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLedgersCreate(workspaceDir, name, group, gstin, stateCode, push)
		},
	}

	cmd.Flags().StringVarP(&workspaceDir, "workspace", "w", ".", "workspace directory")
	cmd.Flags().StringVar(&name, "name", "", "ledger name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&group, "group", "Bank Accounts", "parent accounting group")
	cmd.Flags().StringVar(&gstin, "gstin", "", "GSTIN tax identifier")
	cmd.Flags().StringVar(&stateCode, "state-code", "", "GST state code")
	cmd.Flags().BoolVar(&push, "push", false, "also create the ledger in Tally")

	return cmd
}

func runLedgersCreate(dir, name, group, gstin, stateCode string, push bool) error {
	ws, err := openWorkspace(dir)
	if err != nil {
		return err
	}

	reg, err := ws.loadRegistry()
	if err != nil {
		return err
	}

	l, err := reg.Create(name, group, gstin, stateCode)
	if err != nil {
		return err
	}

	if err := ws.saveRegistry(reg); err != nil {
		return err
	}

	if push {
		client := tally.NewClient(ws.cfg.Tally.Endpoint, ws.cfg.Company, ws.cfg.Timeout())
		if err := client.CreateLedger(context.Background(), l); err != nil {
			return fmt.Errorf("ledger saved locally but Tally rejected it: %w", err)
		}
	}

	entry := synclog.Entry{
		Timestamp: time.Now(),
		Action:    "ledger-create",
		Outcome:   "ok",
		Details:   fmt.Sprintf("%s (%s)", l.Name, l.ParentGroup),
	}
	if err := synclog.Append(ws.dir, []synclog.Entry{entry}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write sync log: %v\n", err)
	}

	ws.autoCommit(fmt.Sprintf("ledgers: create %s", l.Name))

	fmt.Printf("Created ledger %q under %q\n", l.Name, l.ParentGroup)
	return nil
}

func newLedgersPullCommand() *cobra.Command {
	var workspaceDir string

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Seed the catalog from the Tally company's ledgers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLedgersPull(workspaceDir)
		},
	}

	cmd.Flags().StringVarP(&workspaceDir, "workspace", "w", ".", "workspace directory")
	return cmd
}

func runLedgersPull(dir string) error {
	ws, err := openWorkspace(dir)
	if err != nil {
		return err
	}

	client := tally.NewClient(ws.cfg.Tally.Endpoint, ws.cfg.Company, ws.cfg.Timeout())
	pulled, err := client.FetchLedgers(context.Background())
	if err != nil {
		return fmt.Errorf("fetching ledgers: %w", err)
	}

	// Keep locally created ledgers; pulled entries fill in the rest.
	existing, err := ws.loadRegistry()
	if err != nil {
		return err
	}
	reg := ledgers.NewRegistry(append(existing.All(), pulled...))

	if err := ws.saveRegistry(reg); err != nil {
		return err
	}

	ws.autoCommit("ledgers: pull from tally")

	fmt.Printf("Catalog now holds %d ledgers\n", reg.Len())
	return nil
}
