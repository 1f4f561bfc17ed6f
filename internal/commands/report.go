package commands

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/chapterbooks/chapterbooks/internal/audit"
	"github.com/chapterbooks/chapterbooks/internal/auth"
	"github.com/chapterbooks/chapterbooks/internal/report"
)

func newDashboardCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show balance, pending requests and spending at a glance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ch, err := openChapter(cmd, root)
			if err != nil {
				return err
			}
			if _, err := ch.authorize(auth.PermView); err != nil {
				return err
			}
			balance, err := ch.balance()
			if err != nil {
				return err
			}

			d := report.NewDashboard(ch.ledger.All(), balance)

			tw := newTable(cmd.OutOrStdout())
			row(tw, "Balance", d.Balance.StringFixed(2))
			row(tw, "Pending requests", strconv.Itoa(d.PendingCount))
			row(tw, "Pending debits", d.PendingDebits.StringFixed(2))
			row(tw, "Available", d.AvailableBalance.StringFixed(2))
			row(tw, "Approved income", d.ApprovedIncome.StringFixed(2))
			row(tw, "Approved expenses", d.ApprovedExpenses.StringFixed(2))
			if len(d.ExpensesByCategory) > 0 {
				row(tw)
				row(tw, "EXPENSES BY CATEGORY", "TOTAL")
				for _, g := range d.ExpensesByCategory {
					row(tw, g.Name, g.Total.StringFixed(2))
				}
			}
			return tw.Flush()
		},
	}
}

func newReportCommand(root *rootOptions) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize approved income and expenses for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ch, err := openChapter(cmd, root)
			if err != nil {
				return err
			}
			if _, err := ch.authorize(auth.PermView); err != nil {
				return err
			}

			var period report.Period
			if period.From, err = parseDay("from", from); err != nil {
				return err
			}
			if period.To, err = parseDay("to", to); err != nil {
				return err
			}
			if !period.From.IsZero() && !period.To.IsZero() && period.To.Before(period.From) {
				return fmt.Errorf("--to %s is before --from %s", to, from)
			}

			s := report.Monthly(ch.ledger.All(), period)

			tw := newTable(cmd.OutOrStdout())
			row(tw, "Period", describePeriod(from, to))
			row(tw, "Transactions", strconv.Itoa(s.Count))
			row(tw, "Total income", s.TotalIncome.StringFixed(2))
			row(tw, "Total expenses", s.TotalExpenses.StringFixed(2))
			row(tw, "Net", s.Net.StringFixed(2))
			writeGroups(tw, "INCOME", s.Income)
			writeGroups(tw, "EXPENSES", s.Expenses)
			writeGroups(tw, "PAYMENT SOURCE", s.BySource)
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	return cmd
}

func describePeriod(from, to string) string {
	switch {
	case from == "" && to == "":
		return "all time"
	case from == "":
		return "through " + to
	case to == "":
		return "from " + from
	}
	return from + " to " + to
}

func writeGroups(tw *tabwriter.Writer, title string, groups []report.Group) {
	if len(groups) == 0 {
		return
	}
	row(tw)
	row(tw, title, "TOTAL", "COUNT")
	for _, g := range groups {
		row(tw, g.Name, g.Total.StringFixed(2), strconv.Itoa(len(g.Transactions)))
	}
}

func newBalanceCommand(root *rootOptions) *cobra.Command {
	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Show or set the chapter account balance",
	}

	balanceCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ch, err := openChapter(cmd, root)
			if err != nil {
				return err
			}
			if _, err := ch.authorize(auth.PermView); err != nil {
				return err
			}
			balance, err := ch.balance()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), balance.StringFixed(2))
			return nil
		},
	})

	balanceCmd.AddCommand(&cobra.Command{
		Use:   "set <amount>",
		Short: "Correct the balance to match the bank",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := openChapter(cmd, root)
			if err != nil {
				return err
			}
			member, err := ch.authorize(auth.PermSetBalance)
			if err != nil {
				return err
			}
			amount, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(args[0]), "$"))
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", args[0], err)
			}

			previous := ch.cfg.Balance
			ch.cfg.SetBalance(amount)
			if err := ch.saveConfig(); err != nil {
				return err
			}
			ch.log.Info().Str("from", previous).Str("to", ch.cfg.Balance).Msg("balance set")
			ch.record(member.Name, audit.ActionSetBalance, fmt.Sprintf("Balance %s -> %s", previous, ch.cfg.Balance), "")

			fmt.Fprintf(cmd.OutOrStdout(), "Balance: %s\n", ch.cfg.Balance)
			return nil
		},
	})

	return balanceCmd
}
