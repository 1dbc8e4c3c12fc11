// Package extractor derives structured offer fields from unstructured text.
// Every field is an ordered list of rules; the first rule that matches wins.
package extractor

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/perkdex/internal/domain/category"
	"github.com/kailas-cloud/perkdex/internal/domain/offer"
)

// MaxHowToUseLength caps the extracted usage instructions, in characters.
const MaxHowToUseLength = 200

// minCodeLength is exclusive: shorter captures are rejected.
const minCodeLength = 2

// howToFollowLines is how many lines after the anchor line are kept.
const howToFollowLines = 2

var discountRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)%\s*(?:off|discount)`),
	regexp.MustCompile(`(?i)(?:save|get)\s*(\d+)%`),
	regexp.MustCompile(`(?i)(\d+)%`),
}

var codeRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:code|ID)[\s:]*([A-Z0-9\-]+)`),
	regexp.MustCompile(`(?i)(?:enter|use|apply)[\s:]*([A-Z0-9\-]+)`),
}

var bonusRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:bonus|extra|additional)[\s:]*([^.\n]+)`),
	regexp.MustCompile(`(?i)plus[\s:]*([^.\n]+)`),
	regexp.MustCompile(`(?i)receive[\s:]*([^.\n]+)`),
}

// howToAnchors are searched line by line, one phrase set at a time.
var howToAnchors = [][]string{
	{"how to"},
	{"to book", "to use"},
}

type fallback struct {
	keywords []string
	text     string
}

// DefaultHowToUse is used when no instruction line or fallback keyword is found.
const DefaultHowToUse = "Contact provider for discount details"

var howToFallbacks = []fallback{
	{[]string{"hotel", "booking"}, "Visit website or call to book with discount code"},
	{[]string{"restaurant", "dining"}, "Present offer at restaurant or book online"},
	{[]string{"shopping", "retail"}, "Shop online or in-store with code"},
}

// Extract returns the offer fields found in text. It never fails; missing
// values get their documented fallbacks.
func Extract(text string) offer.Fields {
	return offer.Fields{
		Name:     Name(text),
		Discount: Discount(text),
		Category: category.Classify(text),
		Code:     Code(text),
		HowToUse: HowToUse(text),
		Bonus:    Bonus(text),
	}
}

// Name returns the literal first line of text, or offer.UnknownName.
func Name(text string) string {
	if text == "" {
		return offer.UnknownName
	}
	first, _, _ := strings.Cut(text, "\n")
	first = strings.TrimSuffix(first, "\r")
	if first == "" {
		return offer.UnknownName
	}
	return first
}

// Discount returns "<n>%" or offer.NoDiscount.
func Discount(text string) string {
	for _, re := range discountRules {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1] + "%"
		}
	}
	return offer.NoDiscount
}

// Code returns the promo code, or "" when none is found. A capture that is
// too short sends the search to the next rule.
func Code(text string) string {
	for _, re := range codeRules {
		m := re.FindStringSubmatch(text)
		if m != nil && len(m[1]) > minCodeLength {
			return m[1]
		}
	}
	return ""
}

// Bonus returns the bonus benefit text, or "" when none is found.
func Bonus(text string) string {
	for _, re := range bonusRules {
		if m := re.FindStringSubmatch(text); m != nil {
			if b := strings.TrimSpace(m[1]); b != "" {
				return b
			}
		}
	}
	return ""
}

// HowToUse returns usage instructions taken from the text, or a category
// fallback sentence.
func HowToUse(text string) string {
	lines := strings.Split(text, "\n")
	lowered := make([]string, len(lines))
	for i, l := range lines {
		lowered[i] = strings.ToLower(l)
	}

	for _, phrases := range howToAnchors {
		for i, l := range lowered {
			if containsAny(l, phrases) {
				return truncate(joinLines(lines[i:min(i+1+howToFollowLines, len(lines))]), MaxHowToUseLength)
			}
		}
	}

	lower := strings.ToLower(text)
	for _, fb := range howToFallbacks {
		if containsAny(lower, fb.keywords) {
			return fb.text
		}
	}
	return DefaultHowToUse
}

func joinLines(lines []string) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, " ")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
