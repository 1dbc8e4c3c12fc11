package offer

import "github.com/kailas-cloud/perkdex/internal/domain/category"

// NoDiscount is the discount value when no percentage was found.
const NoDiscount = "N/A"

// UnknownName is the name of an offer whose text is empty.
const UnknownName = "Unknown"

// Fields is the set of values derived from an offer text by the extractor.
type Fields struct {
	Name     string
	Discount string
	Category category.Category
	Code     string // empty when absent
	HowToUse string
	Bonus    string // empty when absent
}

// Record is the structured metadata of one discount offer (immutable value object).
type Record struct {
	name     string
	discount string
	category category.Category
	code     string
	howToUse string
	bonus    string
	source   string
}

// New creates a Record for the given source document. Empty required fields
// are replaced with their fallbacks so a Record is always complete.
func New(source string, f Fields) Record {
	if f.Name == "" {
		f.Name = UnknownName
	}
	if f.Discount == "" {
		f.Discount = NoDiscount
	}
	if !f.Category.IsValid() {
		f.Category = category.Other
	}
	return Record{
		name:     f.Name,
		discount: f.Discount,
		category: f.Category,
		code:     f.Code,
		howToUse: f.HowToUse,
		bonus:    f.Bonus,
		source:   source,
	}
}

// Name returns the offer title.
func (r Record) Name() string { return r.name }

// Discount returns the discount percentage ("20%") or NoDiscount.
func (r Record) Discount() string { return r.discount }

// Category returns the offer category.
func (r Record) Category() category.Category { return r.category }

// Code returns the promo code and whether one was found.
func (r Record) Code() (string, bool) { return r.code, r.code != "" }

// HowToUse returns the usage instructions.
func (r Record) HowToUse() string { return r.howToUse }

// Bonus returns the bonus text and whether one was found.
func (r Record) Bonus() (string, bool) { return r.bonus, r.bonus != "" }

// Source returns the ID of the document the record was extracted from.
func (r Record) Source() string { return r.source }

// Fields returns the extracted values without the source.
func (r Record) Fields() Fields {
	return Fields{
		Name:     r.name,
		Discount: r.discount,
		Category: r.category,
		Code:     r.code,
		HowToUse: r.howToUse,
		Bonus:    r.bonus,
	}
}
