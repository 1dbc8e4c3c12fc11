// Package tokenizer turns raw text into index terms.
package tokenizer

import "strings"

// MinTokenLength is the shortest token kept by Tokenize, in characters.
const MinTokenLength = 2

const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var stripper = buildStripper()

func buildStripper() *strings.Replacer {
	pairs := make([]string, 0, 2*len(punctuation))
	for _, r := range punctuation {
		pairs = append(pairs, string(r), "")
	}
	return strings.NewReplacer(pairs...)
}

// StripPunctuation removes every ASCII punctuation character.
func StripPunctuation(text string) string {
	return stripper.Replace(text)
}

// Normalize lower-cases text, strips punctuation and collapses whitespace
// to single spaces.
func Normalize(text string) string {
	return strings.Join(strings.Fields(StripPunctuation(strings.ToLower(text))), " ")
}

// Tokenize returns the terms of text in order, duplicates included.
func Tokenize(text string) []string {
	fields := strings.Fields(StripPunctuation(strings.ToLower(text)))
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= MinTokenLength {
			out = append(out, f)
		}
	}
	return out
}

// TermSet returns the distinct terms of text in first-occurrence order.
func TermSet(text string) []string {
	tokens := Tokenize(text)
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
