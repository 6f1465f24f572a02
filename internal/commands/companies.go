package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerlink-dev/ledgerlink/internal/tally"
)

func newCompaniesCommand() *cobra.Command {
	var workspaceDir string

	cmd := &cobra.Command{
		Use:   "companies",
		Short: "List the companies loaded on the Tally server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompanies(workspaceDir)
		},
	}

	cmd.Flags().StringVarP(&workspaceDir, "workspace", "w", ".", "workspace directory")
	return cmd
}

func runCompanies(dir string) error {
	ws, err := openWorkspace(dir)
	if err != nil {
		return err
	}

	client := tally.NewClient(ws.cfg.Tally.Endpoint, ws.cfg.Company, ws.cfg.Timeout())
	names, err := client.FetchCompanies(context.Background())
	if err != nil {
		return fmt.Errorf("fetching companies: %w", err)
	}

	if len(names) == 0 {
		fmt.Println("No companies loaded on the Tally server")
		return nil
	}

	configured := false
	for _, name := range names {
		marker := ""
		if name == ws.cfg.Company {
			marker = " (configured)"
			configured = true
		}
		fmt.Printf("%s%s\n", name, marker)
	}
	if !configured {
		fmt.Printf("warning: configured company %q is not loaded on the server\n", ws.cfg.Company)
	}
	return nil
}
