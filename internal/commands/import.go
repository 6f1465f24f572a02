package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerlink-dev/ledgerlink/internal/batch"
	"github.com/ledgerlink-dev/ledgerlink/internal/importer"
	"github.com/ledgerlink-dev/ledgerlink/internal/synclog"
)

func newImportCommand() *cobra.Command {
	var workspaceDir string
	var batchName string
	var format string

	cmd := &cobra.Command{
		Use:   "import [statement-file]",
		Short: "Import a bank statement into a new batch",
		Long: `Import a bank statement file into a new batch.

With no file argument, lists the statement files waiting in the
workspace's import/ directory instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runImportList(workspaceDir)
			}
			if batchName == "" {
				return fmt.Errorf("--batch is required when importing a file")
			}
			return runImport(workspaceDir, args[0], batchName, format)
		},
	}

	cmd.Flags().StringVarP(&workspaceDir, "workspace", "w", ".", "workspace directory")
	cmd.Flags().StringVar(&batchName, "batch", "", "batch name")
	cmd.Flags().StringVar(&format, "format", "hdfc", "statement format")

	return cmd
}

func runImportList(dir string) error {
	ws, err := openWorkspace(dir)
	if err != nil {
		return err
	}

	files, err := importer.Scan(ws.dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No statement files waiting in import/")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSIZE")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%d\n", f.Name, f.Size)
	}
	return tw.Flush()
}

func runImport(dir, file, batchName, format string) error {
	ws, err := openWorkspace(dir)
	if err != nil {
		return err
	}

	parser := importer.DefaultRegistry().Get(format)
	if parser == nil {
		return fmt.Errorf("unknown statement format %q", format)
	}

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("%w: %v", batch.ErrSourceUnavailable, err)
	}
	defer f.Close()

	records, err := parser.Parse(f)
	if err != nil {
		return fmt.Errorf("%w: %v", batch.ErrSourceUnavailable, err)
	}

	reg, err := ws.loadRegistry()
	if err != nil {
		return err
	}

	st := batch.NewStore(reg)
	if err := st.Load(records); err != nil {
		return err
	}

	if err := ws.saveBatch(batchName, st); err != nil {
		return err
	}

	// Statement files under import/ move aside once imported.
	if filepath.Dir(file) == filepath.Join(ws.dir, "import") {
		if err := importer.MarkProcessed(ws.dir, filepath.Base(file)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	entry := synclog.Entry{
		Timestamp: time.Now(),
		Batch:     batchName,
		Action:    "import",
		Outcome:   "ok",
		Details:   fmt.Sprintf("%d transactions from %s", st.Len(), filepath.Base(file)),
	}
	if err := synclog.Append(ws.dir, []synclog.Entry{entry}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write sync log: %v\n", err)
	}

	ws.autoCommit(fmt.Sprintf("import: %s from %s", batchName, filepath.Base(file)))

	fmt.Printf("Imported %d transactions into batch %q\n", st.Len(), batchName)
	return nil
}
