package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ledgerlink-dev/ledgerlink/internal/config"
	"github.com/ledgerlink-dev/ledgerlink/internal/gitops"
	"github.com/ledgerlink-dev/ledgerlink/internal/ledgers"
)

func newInitCommand() *cobra.Command {
	var company string
	var bankLedger string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledgerlink workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, company, bankLedger)
		},
	}

	cmd.Flags().StringVar(&company, "company", "", "Tally company name (required)")
	_ = cmd.MarkFlagRequired("company")
	cmd.Flags().StringVar(&bankLedger, "bank-ledger", "HDFC Bank", "bank ledger vouchers post against")

	return cmd
}

func runInit(dir, company, bankLedger string) error {
	// Create directory structure.
	dirs := []string{
		batchesDir,
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write ledgerlink.yaml.
	cfg := config.Default(company, bankLedger)
	if err := config.Save(filepath.Join(dir, configFile), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write an empty ledger catalog; `ledgers pull` fills it in.
	f, err := os.Create(filepath.Join(dir, ledgersFile))
	if err != nil {
		return fmt.Errorf("creating ledgers file: %w", err)
	}
	defer f.Close()
	if err := ledgers.WriteLedgers(f, nil); err != nil {
		return fmt.Errorf("writing ledgers: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	// Raw statement files stay out of version control; the batches,
	// catalog and sync log are the audit trail and go in.
	gitignore := "import/*.csv\nimport/processed/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Version the workspace and record its starting state.
	if err := gitops.Init(dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.CommitAll(dir, "init: workspace for "+company, author)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Printf("Initialized ledgerlink workspace at %s for company %q (%s)\n", dir, company, hash)
	return nil
}
