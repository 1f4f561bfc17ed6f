package model

import (
	"fmt"
	"strings"
)

// PaymentSource is the rail money moved through.
type PaymentSource string

const (
	SourceWix          PaymentSource = "Wix Payments"
	SourceZelle        PaymentSource = "Zelle"
	SourceCashApp      PaymentSource = "CashApp"
	SourcePayPal       PaymentSource = "PayPal"
	SourceVenmo        PaymentSource = "Venmo"
	SourceCheck        PaymentSource = "Check"
	SourceCash         PaymentSource = "Cash"
	SourceBankTransfer PaymentSource = "Bank Transfer"
	SourceCreditCard   PaymentSource = "Credit Card"
	SourceDebitCard    PaymentSource = "Debit Card"
	SourceOther        PaymentSource = "Other"
)

// PaymentSources lists every rail in display order.
var PaymentSources = []PaymentSource{
	SourceWix,
	SourceZelle,
	SourceCashApp,
	SourcePayPal,
	SourceVenmo,
	SourceCheck,
	SourceCash,
	SourceBankTransfer,
	SourceCreditCard,
	SourceDebitCard,
	SourceOther,
}

// Valid reports whether s is one of PaymentSources.
func (s PaymentSource) Valid() bool {
	for _, p := range PaymentSources {
		if s == p {
			return true
		}
	}
	return false
}

// OrOther returns s, or Other when s is empty.
func (s PaymentSource) OrOther() PaymentSource {
	if s == "" {
		return SourceOther
	}
	return s
}

// ParsePaymentSource matches a rail name case-insensitively.
func ParsePaymentSource(s string) (PaymentSource, error) {
	trimmed := strings.TrimSpace(s)
	for _, p := range PaymentSources {
		if strings.EqualFold(trimmed, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown payment source %q", s)
}
