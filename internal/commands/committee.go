package commands

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/chapterbooks/chapterbooks/internal/audit"
	"github.com/chapterbooks/chapterbooks/internal/auth"
	"github.com/chapterbooks/chapterbooks/internal/committees"
	"github.com/chapterbooks/chapterbooks/internal/model"
	"github.com/chapterbooks/chapterbooks/internal/report"
)

type committeeOptions struct {
	name        string
	budget      string
	description string
	chair       string
}

func (o committeeOptions) params() (committees.Params, error) {
	budget := decimal.Zero
	if strings.TrimSpace(o.budget) != "" {
		var err error
		budget, err = decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(o.budget), "$"))
		if err != nil {
			return committees.Params{}, fmt.Errorf("parsing --budget %q: %w", o.budget, err)
		}
	}
	return committees.Params{
		Name:         o.name,
		AnnualBudget: budget,
		Description:  o.description,
		ChairName:    o.chair,
	}, nil
}

// merge overlays the flags given on the command line onto an existing committee.
func (o committeeOptions) merge(cmd *cobra.Command, c model.Committee) (committees.Params, error) {
	p := committees.Params{
		Name:         c.Name,
		AnnualBudget: c.AnnualBudget,
		Description:  c.Description,
		ChairName:    c.ChairName,
	}
	given, err := o.params()
	if err != nil {
		return committees.Params{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("name") {
		p.Name = given.Name
	}
	if flags.Changed("budget") {
		p.AnnualBudget = given.AnnualBudget
	}
	if flags.Changed("description") {
		p.Description = given.Description
	}
	if flags.Changed("chair") {
		p.ChairName = given.ChairName
	}
	return p, nil
}

func (o *committeeOptions) bind(cmd *cobra.Command, nameRequired bool) {
	cmd.Flags().StringVar(&o.name, "name", "", "committee name")
	if nameRequired {
		_ = cmd.MarkFlagRequired("name")
	}
	cmd.Flags().StringVar(&o.budget, "budget", "0", "annual budget")
	cmd.Flags().StringVar(&o.description, "description", "", "what the committee does")
	cmd.Flags().StringVar(&o.chair, "chair", "", "committee chair")
}

func newCommitteeCommand(root *rootOptions) *cobra.Command {
	committeeCmd := &cobra.Command{
		Use:   "committee",
		Short: "Manage committees and their budgets",
	}
	committeeCmd.AddCommand(
		newCommitteeAddCommand(root),
		newCommitteeUpdateCommand(root),
		newCommitteeDeleteCommand(root),
		newCommitteeListCommand(root),
		newCommitteeBudgetsCommand(root),
	)
	return committeeCmd
}

func newCommitteeAddCommand(root *rootOptions) *cobra.Command {
	var o committeeOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a committee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ch, err := openChapter(cmd, root)
			if err != nil {
				return err
			}
			member, err := ch.authorize(auth.PermManageCommittee)
			if err != nil {
				return err
			}
			p, err := o.params()
			if err != nil {
				return err
			}

			c, err := ch.committees.Add(p)
			if err != nil {
				return err
			}
			if err := ch.committees.Save(ch.root); err != nil {
				return err
			}
			ch.record(member.Name, audit.ActionAddCommittee, fmt.Sprintf("Added %s with budget %s", c.Name, c.AnnualBudget.StringFixed(2)), "")

			fmt.Fprintf(cmd.OutOrStdout(), "Added committee %s (%s)\n", c.Name, c.ID)
			return nil
		},
	}
	o.bind(cmd, true)
	return cmd
}

func newCommitteeUpdateCommand(root *rootOptions) *cobra.Command {
	var o committeeOptions
	var inactive bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a committee's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := openChapter(cmd, root)
			if err != nil {
				return err
			}
			member, err := ch.authorize(auth.PermManageCommittee)
			if err != nil {
				return err
			}
			existing, ok := ch.committees.Get(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", committees.ErrNotFound, args[0])
			}
			p, err := o.merge(cmd, existing)
			if err != nil {
				return err
			}

			c, err := ch.committees.Update(existing.ID, p)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("inactive") {
				if c, err = ch.committees.SetActive(c.ID, !inactive); err != nil {
					return err
				}
			}
			if err := ch.committees.Save(ch.root); err != nil {
				return err
			}
			ch.record(member.Name, audit.ActionUpdateCommittee, fmt.Sprintf("Updated %s", c.Name), "")

			fmt.Fprintf(cmd.OutOrStdout(), "Updated committee %s (%s)\n", c.Name, c.ID)
			return nil
		},
	}
	o.bind(cmd, false)
	cmd.Flags().BoolVar(&inactive, "inactive", false, "close the committee to new spending")
	return cmd
}

func newCommitteeDeleteCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a committee; its transactions are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := openChapter(cmd, root)
			if err != nil {
				return err
			}
			member, err := ch.authorize(auth.PermManageCommittee)
			if err != nil {
				return err
			}

			c, err := ch.committees.Delete(args[0])
			if err != nil {
				return err
			}
			if err := ch.committees.Save(ch.root); err != nil {
				return err
			}
			ch.record(member.Name, audit.ActionDeleteCommittee, fmt.Sprintf("Deleted %s", c.Name), "")

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted committee %s (%s)\n", c.Name, c.ID)
			return nil
		},
	}
}

func newCommitteeListCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List committees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ch, err := openChapter(cmd, root)
			if err != nil {
				return err
			}
			if _, err := ch.authorize(auth.PermView); err != nil {
				return err
			}

			all := ch.committees.All()
			if len(all) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No committees")
				return nil
			}
			tw := newTable(cmd.OutOrStdout())
			row(tw, "ID", "NAME", "BUDGET", "CHAIR", "ACTIVE")
			for _, c := range all {
				active := "yes"
				if !c.IsActive {
					active = "no"
				}
				row(tw, c.ID, c.Name, c.AnnualBudget.StringFixed(2), c.ChairName, active)
			}
			return tw.Flush()
		},
	}
}

func newCommitteeBudgetsCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "budgets",
		Short: "Show each committee's spending against its budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ch, err := openChapter(cmd, root)
			if err != nil {
				return err
			}
			if _, err := ch.authorize(auth.PermView); err != nil {
				return err
			}

			r := report.Budgets(ch.committees.All(), ch.ledger.All())

			tw := newTable(cmd.OutOrStdout())
			row(tw, "NAME", "BUDGET", "SPENT", "REMAINING", "USED", "LEVEL")
			for _, b := range r.Committees {
				row(tw,
					b.Committee.Name,
					b.Committee.AnnualBudget.StringFixed(2),
					b.Spent.StringFixed(2),
					b.Remaining.StringFixed(2),
					b.PercentUsed.StringFixed(1)+"%",
					string(b.Level),
				)
			}
			row(tw, "TOTAL", r.TotalBudget.StringFixed(2), r.TotalSpent.StringFixed(2), r.TotalRemaining.StringFixed(2))
			return tw.Flush()
		},
	}
}
