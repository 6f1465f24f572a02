package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerlink-dev/ledgerlink/internal/batch"
	"github.com/ledgerlink-dev/ledgerlink/internal/model"
)

func newSetCommand() *cobra.Command {
	var workspaceDir string
	var batchName string
	var narration string
	var remark string
	var direction string
	var voucher string
	var ledger string

	cmd := &cobra.Command{
		Use:   "set <transaction-id>",
		Short: "Edit a transaction's classification fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := batch.FieldPatch{}
			if cmd.Flags().Changed("narration") {
				patch.Narration = &narration
			}
			if cmd.Flags().Changed("remark") {
				patch.Remark = &remark
			}
			if cmd.Flags().Changed("direction") {
				d := model.Direction(direction)
				if d != model.DirectionDebit && d != model.DirectionCredit {
					return fmt.Errorf("direction must be Dr or Cr, got %q", direction)
				}
				patch.Direction = &d
			}
			if cmd.Flags().Changed("voucher") {
				v := model.VoucherType(voucher)
				switch v {
				case model.VoucherPayment, model.VoucherReceipt, model.VoucherContra, model.VoucherJournal:
				default:
					return fmt.Errorf("unknown voucher type %q", voucher)
				}
				patch.VoucherType = &v
			}
			if cmd.Flags().Changed("ledger") {
				patch.LedgerName = &ledger
			}

			return runSet(workspaceDir, batchName, args[0], patch)
		},
	}

	cmd.Flags().StringVarP(&workspaceDir, "workspace", "w", ".", "workspace directory")
	cmd.Flags().StringVar(&batchName, "batch", "", "batch name (required)")
	_ = cmd.MarkFlagRequired("batch")
	cmd.Flags().StringVar(&narration, "narration", "", "narration text")
	cmd.Flags().StringVar(&remark, "remark", "", "reconciliation remark")
	cmd.Flags().StringVar(&direction, "direction", "", "Dr or Cr")
	cmd.Flags().StringVar(&voucher, "voucher", "", "voucher type (Payment, Receipt, Contra, Journal)")
	cmd.Flags().StringVar(&ledger, "ledger", "", "ledger name")

	return cmd
}

func runSet(dir, batchName, txnID string, patch batch.FieldPatch) error {
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

	t, err := st.Update(txnID, patch)
	if err != nil {
		return err
	}

	if t.LedgerName != "" && !reg.Exists(t.LedgerName) {
		fmt.Printf("note: ledger %q does not exist yet; the transaction stays Pending until it is created\n", t.LedgerName)
	}

	if err := ws.saveBatch(batchName, st); err != nil {
		return err
	}
	ws.autoCommit(fmt.Sprintf("set: %s in %s", t.ID, batchName))

	fmt.Printf("%s: %s %s %s ledger=%q status=%s\n", t.ID, t.Direction, t.VoucherType, t.Amount.StringFixed(2), t.LedgerName, t.Status)
	return nil
}
