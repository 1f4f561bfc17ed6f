// Package report summarizes approved chapter activity.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chapterbooks/chapterbooks/internal/model"
)

// Group is the total for one category or payment source.
type Group struct {
	Name         string
	Total        decimal.Decimal
	Transactions []model.Transaction
}

// Dashboard is the treasurer's at-a-glance view.
type Dashboard struct {
	Balance            decimal.Decimal
	PendingCount       int
	PendingDebits      decimal.Decimal
	AvailableBalance   decimal.Decimal
	ApprovedIncome     decimal.Decimal
	ApprovedExpenses   decimal.Decimal
	ExpensesByCategory []Group
}

// NewDashboard summarizes txns against the current balance.
func NewDashboard(txns []model.Transaction, balance decimal.Decimal) Dashboard {
	d := Dashboard{Balance: balance}
	var expenses []model.Transaction
	for _, tx := range txns {
		switch tx.Status {
		case model.StatusPending:
			d.PendingCount++
			if tx.Type.IsOutflow() {
				d.PendingDebits = d.PendingDebits.Add(tx.Amount)
			}
		case model.StatusApproved:
			if tx.Type == model.TypeIncome {
				d.ApprovedIncome = d.ApprovedIncome.Add(tx.Amount)
			} else {
				d.ApprovedExpenses = d.ApprovedExpenses.Add(tx.Amount)
				expenses = append(expenses, tx)
			}
		}
	}
	d.AvailableBalance = balance.Sub(d.PendingDebits)
	d.ExpensesByCategory = groupBy(expenses, func(tx model.Transaction) string { return string(tx.Category) })
	return d
}

// Period bounds a report by calendar day. Zero ends are open.
type Period struct {
	From time.Time
	To   time.Time
}

// Contains reports whether day falls inside the period, inclusive.
func (p Period) Contains(day time.Time) bool {
	if !p.From.IsZero() && day.Before(p.From) {
		return false
	}
	if !p.To.IsZero() && day.After(p.To) {
		return false
	}
	return true
}

// Summary covers the approved records of one period.
type Summary struct {
	Period        Period
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Net           decimal.Decimal
	Income        []Group // by category
	Expenses      []Group // by category
	BySource      []Group
	Count         int
}

// Monthly builds the period summary. Records without a payment source are
// grouped under Other.
func Monthly(txns []model.Transaction, period Period) Summary {
	s := Summary{Period: period}
	var income, expenses, all []model.Transaction
	for _, tx := range txns {
		if tx.Status != model.StatusApproved || !period.Contains(tx.Date) {
			continue
		}
		all = append(all, tx)
		if tx.Type == model.TypeIncome {
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
			income = append(income, tx)
		} else {
			s.TotalExpenses = s.TotalExpenses.Add(tx.Amount)
			expenses = append(expenses, tx)
		}
	}
	s.Count = len(all)
	s.Net = s.TotalIncome.Sub(s.TotalExpenses)

	byCategory := func(tx model.Transaction) string { return string(tx.Category) }
	s.Income = groupBy(income, byCategory)
	s.Expenses = groupBy(expenses, byCategory)
	s.BySource = groupBy(all, func(tx model.Transaction) string { return string(tx.PaymentSource.OrOther()) })
	return s
}

// groupBy totals txns per key, largest total first. Equal totals sort by name.
func groupBy(txns []model.Transaction, key func(model.Transaction) string) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, tx := range txns {
		k := key(tx)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Name: k})
		}
		groups[i].Total = groups[i].Total.Add(tx.Amount)
		groups[i].Transactions = append(groups[i].Transactions, tx)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if c := groups[i].Total.Cmp(groups[j].Total); c != 0 {
			return c > 0
		}
		return groups[i].Name < groups[j].Name
	})
	return groups
}
