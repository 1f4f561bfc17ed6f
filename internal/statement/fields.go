package statement

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chapterbooks/chapterbooks/internal/model"
)

// dateLayouts are tried in order until one parses.
var dateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"2006-01-02",
	"2006/01/02",
	"01-02-2006",
	"1-2-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Row is one bank line with its fields pulled out and parsed.
type Row struct {
	Date           time.Time
	Timestamp      time.Time // zero when the date did not parse
	Description    string
	Type           model.TransactionType
	Amount         decimal.Decimal // zero when neither side carried money
	Balance        decimal.NullDecimal
	Classification string
}

// MapRow extracts a Row from tokenized fields. It returns false when the
// row has fewer fields than the layout requires. now supplies the date for
// rows whose date does not parse.
func (l Layout) MapRow(fields []string, now time.Time) (Row, bool) {
	if len(fields) < l.MinFields {
		return Row{}, false
	}

	row := Row{
		Description:    field(fields, l.Description),
		Type:           model.TypeExpense,
		Classification: field(fields, l.Classification),
	}

	if d, ok := parseDate(field(fields, l.Date)); ok {
		row.Date = d
		row.Timestamp = d
	} else {
		y, m, day := now.Date()
		row.Date = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	}

	if l.Amount >= 0 {
		if amt, ok := parseAmount(field(fields, l.Amount)); ok && !amt.IsZero() {
			row.Amount = amt.Abs()
			if amt.IsPositive() {
				row.Type = model.TypeIncome
			}
		}
	} else {
		if credit, ok := parseAmount(field(fields, l.Credit)); ok && credit.IsPositive() {
			row.Amount = credit
			row.Type = model.TypeIncome
		} else if debit, ok := parseAmount(field(fields, l.Debit)); ok && debit.IsPositive() {
			row.Amount = debit
		}
	}

	if bal, ok := parseAmount(field(fields, l.Balance)); ok {
		row.Balance = decimal.NewNullDecimal(bal)
	}

	return row, true
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// parseAmount reads a money figure, tolerating a currency sign and
// thousands separators.
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
