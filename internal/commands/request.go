package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/chapterbooks/chapterbooks/internal/audit"
	"github.com/chapterbooks/chapterbooks/internal/auth"
	"github.com/chapterbooks/chapterbooks/internal/ledger"
	"github.com/chapterbooks/chapterbooks/internal/model"
)

type requestOptions struct {
	amount      string
	merchant    string
	category    string
	typ         string
	source      string
	date        string
	description string
	committee   string
}

func newRequestCommand(root *rootOptions) *cobra.Command {
	var o requestOptions

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Submit a reimbursement request or manual entry for review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ch, err := openChapter(cmd, root)
			if err != nil {
				return err
			}
			member, err := ch.authorize(auth.PermSubmit)
			if err != nil {
				return err
			}
			params, err := o.params(member)
			if err != nil {
				return err
			}

			tx, err := ch.ledger.Submit(params, ch.committees)
			if err != nil {
				return err
			}
			if err := ch.ledger.Save(); err != nil {
				return err
			}
			ch.log.Info().Str("id", tx.ID).Str("by", member.Name).Msg("request submitted")
			ch.record(member.Name, audit.ActionSubmit, fmt.Sprintf("%s %s %s", tx.Type, tx.Merchant, tx.Amount.StringFixed(2)), tx.ID)

			fmt.Fprintf(cmd.OutOrStdout(), "Submitted %s (%s) for %s\n", tx.ID, tx.Status, tx.Amount.StringFixed(2))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.amount, "amount", "", "amount, always positive (required)")
	_ = cmd.MarkFlagRequired("amount")
	f.StringVar(&o.merchant, "merchant", "", "who was paid or who paid (required)")
	_ = cmd.MarkFlagRequired("merchant")
	f.StringVar(&o.category, "category", "", "category name (required)")
	_ = cmd.MarkFlagRequired("category")
	f.StringVar(&o.typ, "type", string(model.TypeReimbursement), "EXPENSE, INCOME or REIMBURSEMENT")
	f.StringVar(&o.source, "source", "", "payment source, e.g. Zelle or Check")
	f.StringVar(&o.date, "date", "", "date as YYYY-MM-DD (default today)")
	f.StringVar(&o.description, "description", "", "notes for the reviewer")
	f.StringVar(&o.committee, "committee", "", "committee ID to charge")

	return cmd
}

func (o requestOptions) params(member auth.Member) (ledger.SubmitParams, error) {
	amount, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(o.amount), "$"))
	if err != nil {
		return ledger.SubmitParams{}, fmt.Errorf("parsing --amount %q: %w", o.amount, err)
	}
	typ, err := model.ParseTransactionType(o.typ)
	if err != nil {
		return ledger.SubmitParams{}, err
	}

	var source model.PaymentSource
	if o.source != "" {
		source, err = model.ParsePaymentSource(o.source)
		if err != nil {
			return ledger.SubmitParams{}, err
		}
	}

	var date time.Time
	if o.date != "" {
		date, err = time.Parse(model.DateFormat, o.date)
		if err != nil {
			return ledger.SubmitParams{}, fmt.Errorf("parsing --date %q: %w", o.date, err)
		}
	}

	return ledger.SubmitParams{
		Date:          date,
		Amount:        amount,
		Merchant:      o.merchant,
		Category:      model.Category(strings.TrimSpace(o.category)),
		Description:   o.description,
		Type:          typ,
		SubmittedBy:   member.Name,
		PaymentSource: source,
		CommitteeID:   o.committee,
	}, nil
}

func newApproveCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a pending request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := openChapter(cmd, root)
			if err != nil {
				return err
			}
			member, err := ch.authorize(auth.PermReview)
			if err != nil {
				return err
			}

			tx, err := ch.ledger.Approve(args[0])
			if err != nil {
				return err
			}
			balance, err := ch.balance()
			if err != nil {
				return err
			}
			ch.cfg.SetBalance(balance.Add(tx.BalanceEffect()))

			if err := ch.ledger.Save(); err != nil {
				return err
			}
			if err := ch.saveConfig(); err != nil {
				return err
			}
			ch.log.Info().Str("id", tx.ID).Str("balance", ch.cfg.Balance).Msg("request approved")
			ch.record(member.Name, audit.ActionApprove, fmt.Sprintf("Approved %s %s", tx.Merchant, tx.Amount.StringFixed(2)), tx.ID)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Approved %s\n", tx.ID)
			fmt.Fprintf(out, "Balance: %s\n", ch.cfg.Balance)
			return nil
		},
	}
}

func newRejectCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a pending request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := openChapter(cmd, root)
			if err != nil {
				return err
			}
			member, err := ch.authorize(auth.PermReview)
			if err != nil {
				return err
			}

			tx, err := ch.ledger.Reject(args[0])
			if err != nil {
				return err
			}
			if err := ch.ledger.Save(); err != nil {
				return err
			}
			ch.log.Info().Str("id", tx.ID).Msg("request rejected")
			ch.record(member.Name, audit.ActionReject, fmt.Sprintf("Rejected %s %s", tx.Merchant, tx.Amount.StringFixed(2)), tx.ID)

			fmt.Fprintf(cmd.OutOrStdout(), "Rejected %s\n", tx.ID)
			return nil
		},
	}
}
