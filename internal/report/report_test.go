package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapterbooks/chapterbooks/internal/model"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(month time.Month, dd int) time.Time {
	return time.Date(2025, month, dd, 0, 0, 0, 0, time.UTC)
}

func tx(date time.Time, typ model.TransactionType, status model.Status, amount string, cat model.Category, src model.PaymentSource) model.Transaction {
	return model.Transaction{
		Date:          date,
		Type:          typ,
		Status:        status,
		Amount:        d(amount),
		Category:      cat,
		PaymentSource: src,
	}
}

func sample() []model.Transaction {
	return []model.Transaction{
		tx(day(11, 3), model.TypeIncome, model.StatusApproved, "500.00", model.CategoryMembershipDues, model.SourceWix),
		tx(day(11, 5), model.TypeIncome, model.StatusApproved, "75.00", model.CategoryMembershipDues, model.SourceZelle),
		tx(day(11, 9), model.TypeExpense, model.StatusApproved, "120.00", model.CategoryCatering, model.SourceDebitCard),
		tx(day(11, 20), model.TypeReimbursement, model.StatusApproved, "30.00", model.CategorySupplies, ""),
		tx(day(12, 1), model.TypeExpense, model.StatusApproved, "200.00", model.CategoryVenueRental, model.SourceCheck),
		tx(day(12, 2), model.TypeReimbursement, model.StatusPending, "45.00", model.CategorySupplies, ""),
		tx(day(12, 2), model.TypeIncome, model.StatusPending, "60.00", model.CategorySponsorship, ""),
		tx(day(12, 4), model.TypeExpense, model.StatusRejected, "999.00", model.CategoryTravel, ""),
	}
}

func names(groups []Group) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g.Name)
	}
	return out
}

func TestNewDashboard(t *testing.T) {
	dash := NewDashboard(sample(), d("1000.00"))

	assert.Equal(t, 2, dash.PendingCount)
	assert.Equal(t, "45.00", dash.PendingDebits.StringFixed(2))
	assert.Equal(t, "955.00", dash.AvailableBalance.StringFixed(2))
	assert.Equal(t, "575.00", dash.ApprovedIncome.StringFixed(2))
	assert.Equal(t, "350.00", dash.ApprovedExpenses.StringFixed(2))
	assert.Equal(t, []string{"Venue Rental", "Catering & Food", "Supplies & Materials"}, names(dash.ExpensesByCategory))
}

func TestNewDashboard_Empty(t *testing.T) {
	dash := NewDashboard(nil, d("12.34"))
	assert.Zero(t, dash.PendingCount)
	assert.True(t, dash.AvailableBalance.Equal(d("12.34")))
	assert.Empty(t, dash.ExpensesByCategory)
}

func TestMonthly_Period(t *testing.T) {
	s := Monthly(sample(), Period{From: day(11, 1), To: day(11, 30)})

	assert.Equal(t, 4, s.Count)
	assert.Equal(t, "575.00", s.TotalIncome.StringFixed(2))
	assert.Equal(t, "150.00", s.TotalExpenses.StringFixed(2))
	assert.Equal(t, "425.00", s.Net.StringFixed(2))

	require.Len(t, s.Income, 1)
	assert.Equal(t, "Membership Dues", s.Income[0].Name)
	assert.Len(t, s.Income[0].Transactions, 2)

	assert.Equal(t, []string{"Catering & Food", "Supplies & Materials"}, names(s.Expenses))
	assert.Equal(t, []string{"Wix Payments", "Debit Card", "Zelle", "Other"}, names(s.BySource))
}

func TestMonthly_OpenPeriod(t *testing.T) {
	s := Monthly(sample(), Period{})
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, "225.00", s.Net.StringFixed(2))

	s = Monthly(sample(), Period{From: day(12, 1)})
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, "-200.00", s.Net.StringFixed(2))
}

func TestPeriodContains_Inclusive(t *testing.T) {
	p := Period{From: day(11, 1), To: day(11, 30)}
	assert.True(t, p.Contains(day(11, 1)))
	assert.True(t, p.Contains(day(11, 30)))
	assert.False(t, p.Contains(day(10, 31)))
	assert.False(t, p.Contains(day(12, 1)))
}

func TestGroupBy_TiesSortByName(t *testing.T) {
	txns := []model.Transaction{
		tx(day(1, 1), model.TypeExpense, model.StatusApproved, "10", "Zeta", ""),
		tx(day(1, 1), model.TypeExpense, model.StatusApproved, "10", "Alpha", ""),
	}
	groups := groupBy(txns, func(rec model.Transaction) string { return string(rec.Category) })
	assert.Equal(t, []string{"Alpha", "Zeta"}, names(groups))
}
