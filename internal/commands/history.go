package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/chapterbooks/chapterbooks/internal/audit"
	"github.com/chapterbooks/chapterbooks/internal/auth"
	"github.com/chapterbooks/chapterbooks/internal/ledger"
	"github.com/chapterbooks/chapterbooks/internal/model"
)

func newHistoryCommand(root *rootOptions) *cobra.Command {
	var search, status string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ch, err := openChapter(cmd, root)
			if err != nil {
				return err
			}
			if _, err := ch.authorize(auth.PermView); err != nil {
				return err
			}

			txns, err := ch.selectTransactions(search, status)
			if err != nil {
				return err
			}
			if len(txns) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No transactions found")
				return nil
			}
			if limit > 0 && len(txns) > limit {
				txns = txns[:limit]
			}
			return writeTransactions(cmd.OutOrStdout(), txns)
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "match merchant, description or category")
	cmd.Flags().StringVar(&status, "status", "", "PENDING, APPROVED or REJECTED")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n transactions")
	return cmd
}

func newExportCommand(root *rootOptions) *cobra.Command {
	var output, search, status string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write transactions to a spreadsheet-friendly CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ch, err := openChapter(cmd, root)
			if err != nil {
				return err
			}
			member, err := ch.authorize(auth.PermView)
			if err != nil {
				return err
			}

			txns, err := ch.selectTransactions(search, status)
			if err != nil {
				return err
			}

			if output == "-" {
				return ledger.Export(cmd.OutOrStdout(), txns)
			}
			if output == "" {
				output = filepath.Join(ch.root, exportDir, ledger.ExportFileName(ch.cfg.Chapter.Name, time.Now()))
			}
			if err := writeExport(output, txns); err != nil {
				return err
			}

			ch.log.Info().Str("file", output).Int("transactions", len(txns)).Msg("export written")
			ch.record(member.Name, audit.ActionExport, fmt.Sprintf("Exported %d transactions to %s", len(txns), filepath.Base(output)), "")
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions to %s\n", len(txns), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, or - for stdout (default exports/<chapter>-transactions-<date>.csv)")
	cmd.Flags().StringVar(&search, "search", "", "match merchant, description or category")
	cmd.Flags().StringVar(&status, "status", "", "PENDING, APPROVED or REJECTED")
	return cmd
}

func writeExport(path string, txns []model.Transaction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := ledger.Export(f, txns); err != nil {
		return err
	}
	return f.Close()
}

// selectTransactions applies the shared --search and --status filters and
// orders the result newest first.
func (c *chapter) selectTransactions(search, status string) ([]model.Transaction, error) {
	txns := c.ledger.Search(search)
	if status != "" {
		st, err := model.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		var kept []model.Transaction
		for _, tx := range txns {
			if tx.Status == st {
				kept = append(kept, tx)
			}
		}
		txns = kept
	}
	ledger.NewestFirst(txns)
	return txns, nil
}
