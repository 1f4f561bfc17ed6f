package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/chapterbooks/chapterbooks/internal/model"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func row(tw *tabwriter.Writer, cols ...string) {
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
}

func writeTransactions(w io.Writer, txns []model.Transaction) error {
	tw := newTable(w)
	row(tw, "ID", "DATE", "TYPE", "STATUS", "AMOUNT", "MERCHANT", "CATEGORY", "SOURCE", "SUBMITTED BY")
	for _, tx := range txns {
		row(tw,
			tx.ID,
			tx.Date.Format(model.DateFormat),
			string(tx.Type),
			string(tx.Status),
			tx.SignedAmount().StringFixed(2),
			tx.Merchant,
			string(tx.Category),
			string(tx.PaymentSource.OrOther()),
			tx.SubmittedBy,
		)
	}
	return tw.Flush()
}

func parseDay(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(model.DateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing --%s %q: %w", flag, value, err)
	}
	return t, nil
}
