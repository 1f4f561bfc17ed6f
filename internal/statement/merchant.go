package statement

import (
	"regexp"
	"strings"

	"github.com/chapterbooks/chapterbooks/internal/model"
)

const (
	fallbackMerchant = "Bank Transaction"
	zelleFallback    = "Zelle Transfer"
)

var (
	zellePayee = regexp.MustCompile(`(?i)(?:DEBIT\s+)?ZELLE\s+([A-Za-z\s]+?)\s+\d`)
	whitespace = regexp.MustCompile(`\s+`)
)

// railMerchants name the counterparty after the payment processor when
// its marker appears in the description.
var railMerchants = []struct {
	markers []string
	name    string
}{
	{[]string{"WIX"}, string(model.SourceWix)},
	{[]string{"PAYPAL"}, string(model.SourcePayPal)},
	{[]string{"CASHAPP", "CASH APP"}, string(model.SourceCashApp)},
}

// boilerplate words banks put in front of the payee.
var boilerplate = map[string]bool{
	"DEBIT":         true,
	"CREDIT":        true,
	"ACH":           true,
	"PREAUTHORIZED": true,
	"WD":            true,
}

// MerchantName derives a display payee from a raw bank description.
func MerchantName(description string) string {
	desc := strings.TrimSpace(description)
	if desc == "" {
		return fallbackMerchant
	}
	upper := strings.ToUpper(desc)

	if strings.Contains(upper, "ZELLE") {
		return zelleMerchant(desc)
	}

	for _, rail := range railMerchants {
		if containsAny(upper, rail.markers) {
			return rail.name
		}
	}

	if name := stripBoilerplate(desc); name != "" {
		return name
	}
	return fallbackMerchant
}

func zelleMerchant(desc string) string {
	m := zellePayee.FindStringSubmatch(desc)
	if m == nil {
		return zelleFallback
	}
	name := strings.TrimSpace(whitespace.ReplaceAllString(m[1], " "))
	if strings.EqualFold(name, "TRANSFER") || len(name) <= 1 {
		return zelleFallback
	}
	return name + " (Zelle)"
}

// stripBoilerplate drops leading boilerplate words and collapses runs of
// whitespace. Applying it twice gives the same result as applying it once.
func stripBoilerplate(desc string) string {
	words := strings.Fields(desc)
	for len(words) > 0 && boilerplate[strings.ToUpper(words[0])] {
		words = words[1:]
	}
	return strings.Join(words, " ")
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
