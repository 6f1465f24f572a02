package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ledgerlink-dev/ledgerlink/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ledgerlink",
		Short:   "Reconcile bank statements into Tally ledger entries",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Optional .env overrides for the Tally endpoint/company.
			_ = godotenv.Load()
		},
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newSetCommand())
	rootCmd.AddCommand(newRemoveCommand())
	rootCmd.AddCommand(newLedgersCommand())
	rootCmd.AddCommand(newCompaniesCommand())
	rootCmd.AddCommand(newSyncCommand())
	rootCmd.AddCommand(newReviewCommand())

	return rootCmd
}
