package model

// Category labels a transaction for reporting. Values outside the built-in
// lists can appear when a bank export supplies its own classification; use
// Known to tell them apart.
type Category string

// Expense categories.
const (
	CategoryMeetingExpenses Category = "Meeting Expenses"
	CategoryOperations      Category = "Operations"
	CategoryMarketing       Category = "Marketing & Promotions"
	CategorySpeakerGifts    Category = "Speaker Gifts"
	CategoryTravel          Category = "Travel/Conferences"
	CategoryScholarships    Category = "Scholarships & Awards"
	CategorySupplies        Category = "Supplies & Materials"
	CategoryVenueRental     Category = "Venue Rental"
	CategoryCatering        Category = "Catering & Food"
	CategoryElectronics     Category = "Electronics & Software"
	CategorySubscriptions   Category = "Subscriptions"
	CategoryPrinting        Category = "Printing & Stationery"
	CategoryBankFees        Category = "Bank Fees"
	CategoryProcessingFees  Category = "Processing Fees"
	CategoryInsurance       Category = "Insurance"
	CategoryDonationsGiven  Category = "Donations Given"
	CategoryRefundsIssued   Category = "Refunds Issued"
	CategoryMiscExpense     Category = "Misc Expense"
)

// Income categories.
const (
	CategoryMembershipDues    Category = "Membership Dues"
	CategoryEventRegistration Category = "Event Registration"
	CategorySponsorship       Category = "Sponsorship"
	CategoryDonationsReceived Category = "Donations Received"
	CategoryFundraising       Category = "Fundraising"
	CategoryMerchandise       Category = "Merchandise Sales"
	CategoryWorkshopFees      Category = "Workshop Fees"
	CategoryAdvertising       Category = "Advertising Revenue"
	CategoryInterest          Category = "Interest Income"
	CategoryRefundsReceived   Category = "Refunds Received"
	CategoryMiscIncome        Category = "Misc Income"
)

// Labels that belong to neither side.
const (
	CategoryTransfer      Category = "Transfer"
	CategoryUncategorized Category = "Uncategorized"
	CategoryMisc          Category = "Misc"
)

// ExpenseCategories lists the categories offered for expenses and reimbursements.
var ExpenseCategories = []Category{
	CategoryMeetingExpenses,
	CategoryOperations,
	CategoryMarketing,
	CategorySpeakerGifts,
	CategoryTravel,
	CategoryScholarships,
	CategorySupplies,
	CategoryVenueRental,
	CategoryCatering,
	CategoryElectronics,
	CategorySubscriptions,
	CategoryPrinting,
	CategoryBankFees,
	CategoryProcessingFees,
	CategoryInsurance,
	CategoryDonationsGiven,
	CategoryRefundsIssued,
	CategoryMiscExpense,
}

// IncomeCategories lists the categories offered for income.
var IncomeCategories = []Category{
	CategoryMembershipDues,
	CategoryEventRegistration,
	CategorySponsorship,
	CategoryDonationsReceived,
	CategoryFundraising,
	CategoryMerchandise,
	CategoryWorkshopFees,
	CategoryAdvertising,
	CategoryInterest,
	CategoryRefundsReceived,
	CategoryMiscIncome,
}

var knownCategories = func() map[Category]bool {
	m := make(map[Category]bool, len(ExpenseCategories)+len(IncomeCategories)+3)
	for _, c := range ExpenseCategories {
		m[c] = true
	}
	for _, c := range IncomeCategories {
		m[c] = true
	}
	m[CategoryTransfer] = true
	m[CategoryUncategorized] = true
	m[CategoryMisc] = true
	return m
}()

// Known reports whether c is one of the built-in categories.
func (c Category) Known() bool {
	return knownCategories[c]
}

// CategoriesFor returns the category list offered for a transaction type.
func CategoriesFor(t TransactionType) []Category {
	if t == TypeIncome {
		return IncomeCategories
	}
	return ExpenseCategories
}

// AllowedFor reports whether c may be chosen for a manually entered record of type t.
// Transfer, Uncategorized and Misc are accepted on both sides.
func (c Category) AllowedFor(t TransactionType) bool {
	switch c {
	case CategoryTransfer, CategoryUncategorized, CategoryMisc:
		return true
	}
	for _, allowed := range CategoriesFor(t) {
		if c == allowed {
			return true
		}
	}
	return false
}
