package analyzer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases text, folds diacritics and splits it into word tokens.
// Hyphens and dots survive only inside a word ("full-stack", "node.js");
// '+' and '#' survive as word suffixes ("c++", "c#"). Stop words are kept.
func Normalize(text string) []string {
	tokens := make([]string, 0, len(text)/5+1)
	if strings.TrimSpace(text) == "" {
		return tokens
	}
	rs := []rune(fold(text))
	cur := make([]rune, 0, 16)
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, string(cur))
			cur = cur[:0]
		}
	}
	for i, r := range rs {
		switch {
		case isWordRune(r):
			cur = append(cur, r)
		case r == '\'' || r == '’' || r == '‘':
			// apostrophes are dropped without splitting: "don't" -> "dont"
		case (r == '-' || r == '.') && len(cur) > 0 && isWordRune(cur[len(cur)-1]) &&
			i+1 < len(rs) && isWordRune(rs[i+1]):
			cur = append(cur, r)
		case (r == '+' || r == '#') && len(cur) > 0 && isSuffixAnchor(cur[len(cur)-1]):
			cur = append(cur, r)
		default:
			flush()
		}
	}
	flush()
	return tokens
}

// WordCount returns the number of tokens Normalize yields.
func WordCount(text string) int {
	return len(Normalize(text))
}

// IsStopWord reports whether tok is in the fixed English stop-word list.
func IsStopWord(tok string) bool {
	_, ok := stopWords[tok]
	return ok
}

func fold(text string) string {
	// Chained transformers hold buffers, so build one per call.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(text))
	if err != nil {
		return strings.ToLower(text)
	}
	return strings.ToLower(folded)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isSuffixAnchor(r rune) bool {
	return isWordRune(r) || r == '+' || r == '#'
}

var stopWords = toSet(
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an", "and", "any",
	"are", "as", "at", "be", "because", "been", "before", "being", "below", "between", "both",
	"but", "by", "can", "could", "did", "do", "does", "doing", "down", "during", "each", "either",
	"etc", "few", "for", "from", "further", "had", "has", "have", "having", "he", "her", "here",
	"hers", "herself", "him", "himself", "his", "how", "i", "if", "in", "into", "is", "it", "its",
	"itself", "just", "me", "more", "most", "my", "myself", "no", "nor", "not", "of", "off", "on",
	"once", "only", "or", "other", "our", "ours", "ourselves", "out", "over", "own", "per", "same",
	"she", "should", "so", "some", "such", "than", "that", "the", "their", "theirs", "them",
	"themselves", "then", "there", "these", "they", "this", "those", "through", "to", "too",
	"under", "until", "up", "upon", "us", "very", "via", "was", "we", "were", "what", "when",
	"where", "which", "while", "who", "whom", "why", "will", "with", "within", "would", "you",
	"your", "yours", "yourself", "yourselves",
)

func toSet(items ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, item := range items {
		out[item] = struct{}{}
	}
	return out
}
