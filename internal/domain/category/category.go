package category

import "strings"

// Category is one of the fixed offer categories.
type Category string

// Offer categories in declaration order. Order matters: it breaks ties when a
// text mentions keywords from several categories.
const (
	Travel        Category = "Travel"
	Dining        Category = "Dining"
	Retail        Category = "Retail"
	Tech          Category = "Tech"
	Entertainment Category = "Entertainment"
	Health        Category = "Health & Wellness"
	Finance       Category = "Finance"
	Other         Category = "Other"
)

// rule pairs a category with the keywords that select it.
type rule struct {
	category Category
	keywords []string
}

var rules = []rule{
	{Travel, []string{"hotel", "flight", "airline", "travel", "hertz", "expedia", "delta", "southwest"}},
	{Dining, []string{"restaurant", "food", "cafe", "dining", "starbucks", "olive", "chipotle"}},
	{Retail, []string{"store", "shop", "retail", "target", "best buy", "home depot", "amazon"}},
	{Tech, []string{"software", "tech", "apple", "microsoft", "adobe"}},
	{Entertainment, []string{"movie", "netflix", "disney", "amc"}},
	{Health, []string{"gym", "wellness", "fitness", "spa", "cvs"}},
	{Finance, []string{"bank", "insurance", "schwab", "state farm"}},
}

// All returns every category, Other last.
func All() []Category {
	out := make([]Category, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.category)
	}
	return append(out, Other)
}

// Classify returns the first category whose keyword set has a case-insensitive
// substring hit in text, or Other.
func Classify(text string) Category {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.category
			}
		}
	}
	return Other
}

// Parse resolves a label case-insensitively. ok is false for unknown labels.
func Parse(label string) (Category, bool) {
	label = strings.TrimSpace(label)
	for _, c := range All() {
		if strings.EqualFold(string(c), label) {
			return c, true
		}
	}
	return "", false
}

// IsValid reports whether c is one of the fixed categories.
func (c Category) IsValid() bool {
	for _, known := range All() {
		if c == known {
			return true
		}
	}
	return false
}

// String returns the display label.
func (c Category) String() string { return string(c) }
