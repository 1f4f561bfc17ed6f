package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the calendar date layout used for every stored and exported date.
const DateFormat = "2006-01-02"

// BankImportSubmitter marks records produced by the statement importer.
const BankImportSubmitter = "Bank Import"

// TransactionType says which direction money moved.
type TransactionType string

const (
	TypeExpense       TransactionType = "EXPENSE"
	TypeIncome        TransactionType = "INCOME"
	TypeReimbursement TransactionType = "REIMBURSEMENT"
)

// IsOutflow reports whether the type takes money out of the chapter account.
func (t TransactionType) IsOutflow() bool {
	return t == TypeExpense || t == TypeReimbursement
}

// ParseTransactionType accepts a type name in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(strings.ToUpper(strings.TrimSpace(s))); t {
	case TypeExpense, TypeIncome, TypeReimbursement:
		return t, nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// Status is the approval workflow state of a transaction.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// ParseStatus accepts a status name in any case.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Transaction is one financial event in the chapter ledger.
type Transaction struct {
	ID            string
	Date          time.Time
	Amount        decimal.Decimal // magnitude only, direction comes from Type
	Merchant      string
	Category      Category
	Description   string
	Type          TransactionType
	Status        Status
	SubmittedBy   string
	PaymentSource PaymentSource // empty when unknown
	CommitteeID   string
	CommitteeName string
}

// SignedAmount returns the amount as seen by the bank account:
// positive for income, negative otherwise.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TypeIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}

// IsBankImport reports whether the record came from a bank statement.
func (t Transaction) IsBankImport() bool {
	return t.SubmittedBy == BankImportSubmitter
}

// BalanceEffect is the change to the chapter balance when the record is
// approved. Bank-imported records are already reflected in the posted
// balance and never move it.
func (t Transaction) BalanceEffect() decimal.Decimal {
	if t.IsBankImport() {
		return decimal.Zero
	}
	return t.SignedAmount()
}
