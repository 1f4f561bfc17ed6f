package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/iancoleman/strcase"

	"github.com/chapterbooks/chapterbooks/internal/model"
)

// ExportHeader is the header row of an exported transaction report.
var ExportHeader = []string{"Date", "Merchant", "Category", "Payment Source", "Type", "Status", "Amount"}

// Export writes txns as a spreadsheet-friendly CSV. Income amounts are
// positive; expenses and reimbursements are negated.
func Export(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("writing export header: %w", err)
	}

	for i, tx := range txns {
		row := []string{
			tx.Date.Format(model.DateFormat),
			tx.Merchant,
			string(tx.Category),
			string(tx.PaymentSource.OrOther()),
			string(tx.Type),
			string(tx.Status),
			tx.SignedAmount().StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing export row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportFileName names an export after the chapter and the day it was made,
// e.g. "douglas-chapter-transactions-2025-12-09.csv".
func ExportFileName(chapter string, day time.Time) string {
	return fmt.Sprintf("%s-transactions-%s.csv", strcase.ToKebab(chapter), day.Format(model.DateFormat))
}
