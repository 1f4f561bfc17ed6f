package statement

import (
	"strings"

	"github.com/chapterbooks/chapterbooks/internal/model"
)

type keywordRule struct {
	keywords []string
	category model.Category
}

var incomeRules = []keywordRule{
	{[]string{"DUES", "MEMBER"}, model.CategoryMembershipDues},
	{[]string{"REGISTRATION", "TICKET"}, model.CategoryEventRegistration},
	{[]string{"SPONSOR"}, model.CategorySponsorship},
	{[]string{"DONATION"}, model.CategoryDonationsReceived},
	{[]string{"FUNDRAIS"}, model.CategoryFundraising},
	{[]string{"WORKSHOP"}, model.CategoryWorkshopFees},
}

var expenseRules = []keywordRule{
	{[]string{"ZOOM", "SOFTWARE"}, model.CategorySubscriptions},
	{[]string{"PRINT", "GOTPRINT"}, model.CategoryPrinting},
	{[]string{"FOOD", "PUBLIX", "CATERING"}, model.CategoryCatering},
	{[]string{"FEE", "MERCHANT"}, model.CategoryProcessingFees},
	{[]string{"GIFT", "SPEAKER"}, model.CategorySpeakerGifts},
}

// Classify picks a category for a bank line. A classification label from
// the export wins over the description keywords; a label that is not a
// known category is kept as is.
func Classify(description, label string, typ model.TransactionType) model.Category {
	if label = strings.ReplaceAll(strings.TrimSpace(label), "&amp;", "&"); label != "" {
		c := model.Category(label)
		switch {
		case c.Known():
			return c
		case label == "Income":
			return model.CategoryOperations
		default:
			return c
		}
	}

	upper := strings.ToUpper(description)
	if typ == model.TypeIncome {
		return matchRules(upper, incomeRules, model.CategoryMiscIncome)
	}
	return matchRules(upper, expenseRules, model.CategoryMiscExpense)
}

func matchRules(upper string, rules []keywordRule, fallback model.Category) model.Category {
	for _, rule := range rules {
		if containsAny(upper, rule.keywords) {
			return rule.category
		}
	}
	return fallback
}
