package statement

import (
	"strings"

	"github.com/chapterbooks/chapterbooks/internal/model"
)

// sourceRules are checked in order; the first rule with a matching keyword
// wins, so rails that appear alongside generic words ("ZELLE TRANSFER")
// must come first.
var sourceRules = []struct {
	keywords []string
	source   model.PaymentSource
}{
	{[]string{"WIX"}, model.SourceWix},
	{[]string{"ZELLE"}, model.SourceZelle},
	{[]string{"CASHAPP", "CASH APP", "SQUARE CASH"}, model.SourceCashApp},
	{[]string{"PAYPAL"}, model.SourcePayPal},
	{[]string{"VENMO"}, model.SourceVenmo},
	{[]string{"CHECK", "CHK"}, model.SourceCheck},
	{[]string{"ACH", "TRANSFER", "XFER"}, model.SourceBankTransfer},
	{[]string{"VISA", "MASTERCARD", "AMEX"}, model.SourceCreditCard},
	{[]string{"DEBIT"}, model.SourceDebitCard},
}

// DetectSource picks the payment rail named in a bank description,
// defaulting to Other.
func DetectSource(description string) model.PaymentSource {
	upper := strings.ToUpper(description)
	for _, rule := range sourceRules {
		if containsAny(upper, rule.keywords) {
			return rule.source
		}
	}
	return model.SourceOther
}
