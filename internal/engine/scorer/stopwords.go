package scorer

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "about", "above", "after", "again", "against", "all", "am", "an", "and",
		"any", "are", "as", "at", "be", "because", "been", "before", "being", "below",
		"between", "both", "but", "by", "can", "could", "did", "do", "does", "doing",
		"down", "during", "each", "few", "for", "from", "further", "had", "has", "have",
		"having", "he", "her", "here", "hers", "him", "his", "how", "i", "if",
		"in", "into", "is", "it", "its", "just", "me", "more", "most", "my",
		"no", "nor", "not", "now", "of", "off", "on", "once", "only", "or",
		"other", "our", "out", "over", "own", "same", "she", "should", "so", "some",
		"such", "than", "that", "the", "their", "them", "then", "there", "these", "they",
		"this", "those", "through", "to", "too", "under", "until", "up", "very", "was",
		"we", "were", "what", "when", "where", "which", "while", "who", "why", "will",
		"with", "would", "you", "your",
	} {
		stopWords[w] = struct{}{}
	}
}

// IsStopWord reports whether w is a common English function word.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}
