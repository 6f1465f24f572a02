package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ledgerlink-dev/ledgerlink/internal/model"
	"github.com/ledgerlink-dev/ledgerlink/internal/view"
)

// filterOpts carries the filter flags shared by list and remove.
type filterOpts struct {
	date      string
	narration string
	amount    string
	direction string
	voucher   string
	ledger    string
	status    string
}

func addFilterFlags(cmd *cobra.Command, opts *filterOpts) {
	cmd.Flags().StringVar(&opts.date, "date", "", "filter: date substring (DD-MM-YYYY)")
	cmd.Flags().StringVar(&opts.narration, "narration", "", "filter: narration substring")
	cmd.Flags().StringVar(&opts.amount, "amount", "", "filter: amount substring")
	cmd.Flags().StringVar(&opts.direction, "direction", "", "filter: Dr or Cr")
	cmd.Flags().StringVar(&opts.voucher, "voucher", "", "filter: voucher type")
	cmd.Flags().StringVar(&opts.ledger, "ledger", "", "filter: exact ledger name")
	cmd.Flags().StringVar(&opts.status, "status", "", "filter: Pending or Resolved")
}

func (o filterOpts) criteria() view.Criteria {
	return view.Criteria{
		Date:        o.date,
		Narration:   o.narration,
		Amount:      o.amount,
		Direction:   model.Direction(o.direction),
		VoucherType: model.VoucherType(o.voucher),
		LedgerName:  o.ledger,
		Status:      model.TransactionStatus(o.status),
	}
}

func newListCommand() *cobra.Command {
	var workspaceDir string
	var batchName string
	var page int
	var pageSize int
	var opts filterOpts

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a batch's transactions, filtered and paginated",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(workspaceDir, batchName, opts, page, pageSize)
		},
	}

	cmd.Flags().StringVarP(&workspaceDir, "workspace", "w", ".", "workspace directory")
	cmd.Flags().StringVar(&batchName, "batch", "", "batch name (required)")
	_ = cmd.MarkFlagRequired("batch")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "transactions per page")
	addFilterFlags(cmd, &opts)

	return cmd
}

func runList(dir, batchName string, opts filterOpts, page, pageSize int) error {
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

	if pageSize <= 0 {
		pageSize = ws.cfg.View.PageSize
	}

	v := view.New(pageSize)
	v.SetCriteria(opts.criteria())
	v.SetPage(page)
	p := v.Apply(st.All())

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tNARRATION\tAMOUNT\tDR/CR\tVOUCHER\tLEDGER\tSTATUS\tSYNCED")
	for _, t := range p.Transactions {
		synced := ""
		if t.Synced {
			synced = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.DisplayDate(), truncate(t.Narration, 40), t.Amount.StringFixed(2),
			t.Direction, t.VoucherType, t.LedgerName, t.Status, synced)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nPage %d of %d (%d of %d transactions match)\n", p.Index, p.TotalPages, p.Filtered, st.Len())
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
