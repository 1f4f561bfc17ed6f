package report

import (
	"github.com/shopspring/decimal"

	"github.com/chapterbooks/chapterbooks/internal/model"
)

// Level grades how much of a budget has been used.
type Level string

const (
	LevelNone    Level = "none"
	LevelOK      Level = "ok"
	LevelWarning Level = "warning"
	LevelOver    Level = "over"
)

var (
	warningAt = decimal.NewFromInt(80)
	overAt    = decimal.NewFromInt(100)
	hundred   = decimal.NewFromInt(100)
)

// LevelFor grades percent used of a budget.
func LevelFor(budget, percent decimal.Decimal) Level {
	switch {
	case !budget.IsPositive():
		return LevelNone
	case percent.GreaterThanOrEqual(overAt):
		return LevelOver
	case percent.GreaterThanOrEqual(warningAt):
		return LevelWarning
	}
	return LevelOK
}

// CommitteeBudget is one committee's spending against its allowance.
type CommitteeBudget struct {
	Committee   model.Committee
	Spent       decimal.Decimal
	Remaining   decimal.Decimal
	PercentUsed decimal.Decimal // rounded to one decimal place
	Level       Level
}

// BudgetReport covers every committee.
type BudgetReport struct {
	Committees     []CommitteeBudget
	TotalBudget    decimal.Decimal
	TotalSpent     decimal.Decimal
	TotalRemaining decimal.Decimal
}

// Budgets totals approved expenses and reimbursements per committee.
func Budgets(committees []model.Committee, txns []model.Transaction) BudgetReport {
	spent := make(map[string]decimal.Decimal)
	for _, tx := range txns {
		if tx.Status != model.StatusApproved || !tx.Type.IsOutflow() || tx.CommitteeID == "" {
			continue
		}
		spent[tx.CommitteeID] = spent[tx.CommitteeID].Add(tx.Amount)
	}

	var r BudgetReport
	for _, c := range committees {
		b := CommitteeBudget{
			Committee: c,
			Spent:     spent[c.ID],
			Remaining: c.AnnualBudget.Sub(spent[c.ID]),
		}
		var percent decimal.Decimal
		if c.AnnualBudget.IsPositive() {
			percent = b.Spent.Mul(hundred).Div(c.AnnualBudget)
		}
		b.PercentUsed = percent.Round(1)
		b.Level = LevelFor(c.AnnualBudget, percent)

		r.Committees = append(r.Committees, b)
		r.TotalBudget = r.TotalBudget.Add(c.AnnualBudget)
		r.TotalSpent = r.TotalSpent.Add(b.Spent)
	}
	r.TotalRemaining = r.TotalBudget.Sub(r.TotalSpent)
	return r
}
