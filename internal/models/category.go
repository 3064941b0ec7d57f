package models

import "strings"

// Category classifies an expense.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryEntertainment Category = "Entertainment"
	CategoryShopping      Category = "Shopping"
	CategoryBills         Category = "Bills"
	CategoryHealth        Category = "Health"
	CategoryOther         Category = "Other"
)

// categoryKeywords is checked in order; the first category with a keyword
// contained in the description wins.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryFood, []string{"pizza", "burger", "lunch", "dinner", "food", "coffee", "cafe", "drink", "swiggy", "zomato"}},
	{CategoryTransport, []string{"uber", "ola", "taxi", "cab", "bus", "train", "flight", "fuel", "petrol"}},
	{CategoryEntertainment, []string{"movie", "cinema", "netflix", "game", "show", "party", "concert"}},
	{CategoryShopping, []string{"clothes", "amazon", "flipkart", "mall", "store", "shoes"}},
	{CategoryBills, []string{"bill", "electricity", "wifi", "recharge", "phone"}},
	{CategoryHealth, []string{"doctor", "med", "pharmacy", "gym"}},
}

// DetectCategory guesses a category from an expense description.
// Descriptions matching no keyword are CategoryOther.
func DetectCategory(description string) Category {
	lower := strings.ToLower(description)
	for _, c := range categoryKeywords {
		for _, k := range c.keywords {
			if strings.Contains(lower, k) {
				return c.category
			}
		}
	}
	return CategoryOther
}

// ResolveCategory returns c when set, otherwise the category detected from description.
func ResolveCategory(c Category, description string) Category {
	if c != "" {
		return c
	}
	return DetectCategory(description)
}
