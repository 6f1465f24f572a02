package commands

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/ledgerlink-dev/ledgerlink/internal/batch"
	"github.com/ledgerlink-dev/ledgerlink/internal/classify"
	"github.com/ledgerlink-dev/ledgerlink/internal/model"
)

func newReviewCommand() *cobra.Command {
	var workspaceDir string
	var batchName string

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Interactively classify a batch's pending transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(workspaceDir, batchName)
		},
	}

	cmd.Flags().StringVarP(&workspaceDir, "workspace", "w", ".", "workspace directory")
	cmd.Flags().StringVar(&batchName, "batch", "", "batch name (required)")
	_ = cmd.MarkFlagRequired("batch")

	return cmd
}

func runReview(dir, batchName string) error {
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

	var pending []string
	for _, t := range st.All() {
		if t.Status == model.StatusPending {
			pending = append(pending, t.ID)
		}
	}
	if len(pending) == 0 {
		fmt.Println("Nothing to review")
		return nil
	}

	ledgerNames := reg.Names()
	reviewed := 0
	for _, txnID := range pending {
		t, ok := st.Get(txnID)
		if !ok {
			continue
		}

		done, err := reviewOne(st, t, ledgerNames)
		if errors.Is(err, huh.ErrUserAborted) {
			break
		}
		if err != nil {
			return err
		}
		if done {
			reviewed++
		}
	}

	if err := ws.saveBatch(batchName, st); err != nil {
		return err
	}
	if reviewed > 0 {
		ws.autoCommit(fmt.Sprintf("review: %d transaction(s) in %s", reviewed, batchName))
	}

	fmt.Printf("Reviewed %d of %d pending transaction(s)\n", reviewed, len(pending))
	return nil
}

// reviewOne runs the classification form for a single transaction and
// applies the result. The voucher menu follows the chosen direction, so
// an illegal pairing cannot be entered.
func reviewOne(st *batch.Store, t model.Transaction, ledgerNames []string) (bool, error) {
	direction := string(t.Direction)
	voucher := string(t.VoucherType)
	ledger := t.LedgerName
	remark := t.Remark
	apply := true

	title := fmt.Sprintf("%s  %s  %s %s", t.ID, t.DisplayDate(), t.Direction, t.Amount.StringFixed(2))

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(title).Description(t.Narration),
			huh.NewSelect[string]().
				Title("Dr/Cr").
				Options(huh.NewOptions(string(model.DirectionDebit), string(model.DirectionCredit))...).
				Value(&direction),
			huh.NewSelect[string]().
				Title("Voucher type").
				OptionsFunc(func() []huh.Option[string] {
					allowed := classify.AllowedVoucherTypes(model.Direction(direction))
					opts := make([]string, len(allowed))
					for i, vt := range allowed {
						opts[i] = string(vt)
					}
					return huh.NewOptions(opts...)
				}, &direction).
				Value(&voucher),
			huh.NewSelect[string]().
				Title("Ledger").
				Options(huh.NewOptions(ledgerNames...)...).
				Value(&ledger),
			huh.NewInput().
				Title("Remark").
				Value(&remark),
			huh.NewConfirm().
				Title("Apply?").
				Value(&apply),
		),
	)

	if err := form.Run(); err != nil {
		return false, err
	}
	if !apply {
		return false, nil
	}

	d := model.Direction(direction)
	v := model.VoucherType(voucher)
	_, err := st.Update(t.ID, batch.FieldPatch{
		Direction:   &d,
		VoucherType: &v,
		LedgerName:  &ledger,
		Remark:      &remark,
	})
	return err == nil, err
}
