package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chapterbooks/chapterbooks/internal/audit"
	"github.com/chapterbooks/chapterbooks/internal/auth"
	"github.com/chapterbooks/chapterbooks/internal/gitops"
	"github.com/chapterbooks/chapterbooks/internal/ledger"
)

const defaultCommitLimit = 20

func newActivityCommand(root *rootOptions) *cobra.Command {
	var txID string
	var limit int
	var commits bool

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show who changed the books, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ch, err := openChapter(cmd, root)
			if err != nil {
				return err
			}
			if _, err := ch.authorize(auth.PermView); err != nil {
				return err
			}
			if commits {
				return ch.writeCommits(cmd, limit)
			}

			entries, err := audit.Read(ch.root)
			if err != nil {
				return err
			}
			if txID != "" {
				if _, ok := ch.ledger.Get(txID); !ok {
					return fmt.Errorf("%w: %s", ledger.ErrNotFound, txID)
				}
				entries = audit.ForTransaction(entries, txID)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No activity recorded")
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}

			tw := newTable(out)
			row(tw, "WHEN", "ACTOR", "ACTION", "TRANSACTION", "DETAILS")
			for _, e := range entries {
				row(tw, e.Timestamp.UTC().Format("2006-01-02 15:04"), e.Actor, e.Action, e.TransactionID, e.Details)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&txID, "transaction", "", "only entries about this transaction")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most the n most recent entries")
	cmd.Flags().BoolVar(&commits, "commits", false, "list git history commits instead, newest first")
	return cmd
}

func (c *chapter) writeCommits(cmd *cobra.Command, limit int) error {
	repo, err := gitops.Open(c.root)
	if errors.Is(err, gitops.ErrNotRepo) {
		return errors.New("chapter has no git history (run chapterbooks init --git)")
	}
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = defaultCommitLimit
	}
	subjects, err := repo.Log(c.ctx, limit)
	if err != nil {
		return err
	}
	for _, s := range subjects {
		fmt.Fprintln(cmd.OutOrStdout(), s)
	}
	return nil
}
