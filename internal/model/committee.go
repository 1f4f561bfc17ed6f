package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Committee is a budget-tracking group within the chapter.
type Committee struct {
	ID           string
	Name         string
	AnnualBudget decimal.Decimal
	Description  string
	ChairName    string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
