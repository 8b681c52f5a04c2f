package analyzer

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultKeywordLimit caps how many job-description phrases are matched.
	DefaultKeywordLimit = 20
	// NeutralKeywordScore is reported when no job description is available,
	// so the unused feature does not drag the overall score down.
	NeutralKeywordScore = 70

	maxPhraseWords = 3
)

// KeywordReport is the outcome of matching job keywords against a résumé.
type KeywordReport struct {
	Candidates []string
	Found      []string
	Missing    []string
	Score      int
	// Evaluated is false when the neutral default was applied.
	Evaluated bool
}

// Coverage returns the found share in [0,1], or 0 when nothing was evaluated.
func (r KeywordReport) Coverage() float64 {
	if !r.Evaluated || len(r.Candidates) == 0 {
		return 0
	}
	return float64(len(r.Found)) / float64(len(r.Candidates))
}

var fillerTerms = toSet(
	"experience", "work", "team", "ability", "strong", "skills", "skill", "years", "year", "role",
	"job", "candidate", "including", "knowledge", "excellent", "good", "plus", "etc",
	"responsibilities", "requirements", "preferred", "required", "must", "will", "looking", "join",
	"company", "opportunity", "using", "working", "new", "well", "like", "help", "make",
)

type ngram struct {
	phrase string
	tokens []string
	freq   int
	first  int
}

// ExtractKeywords builds the candidate keyword list from a job description:
// 1-3 word phrases free of stop words and filler, unigrams at any frequency,
// longer phrases only when repeated. A phrase absorbs its sub-phrases that
// never occur outside it. Ranked by frequency, then first occurrence.
func ExtractKeywords(jobDescription string, limit int) []string {
	if limit <= 0 {
		limit = DefaultKeywordLimit
	}
	tokens := Normalize(jobDescription)
	stats := make(map[string]*ngram)
	for i := range tokens {
		for n := 1; n <= maxPhraseWords && i+n <= len(tokens); n++ {
			if !eligibleKeywordToken(tokens[i+n-1]) {
				break
			}
			window := tokens[i : i+n]
			phrase := strings.Join(window, " ")
			if g, ok := stats[phrase]; ok {
				g.freq++
				continue
			}
			stats[phrase] = &ngram{phrase: phrase, tokens: window, freq: 1, first: i}
		}
	}

	candidates := make([]*ngram, 0, len(stats))
	for _, g := range stats {
		if len(g.tokens) == 1 || g.freq >= 2 {
			candidates = append(candidates, g)
		}
	}

	kept := candidates[:0:0]
	for _, s := range candidates {
		if !absorbed(s, candidates) {
			kept = append(kept, s)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.freq != b.freq {
			return a.freq > b.freq
		}
		if a.first != b.first {
			return a.first < b.first
		}
		if len(a.tokens) != len(b.tokens) {
			return len(a.tokens) > len(b.tokens)
		}
		return a.phrase < b.phrase
	})

	if len(kept) > limit {
		kept = kept[:limit]
	}
	out := make([]string, 0, len(kept))
	for _, g := range kept {
		out = append(out, g.phrase)
	}
	return out
}

// MatchKeywords splits candidates into those present in any résumé field and
// those missing. Matching is token-sequence containment within one field.
func MatchKeywords(candidates []string, fields [][]string) (found, missing []string) {
	found = make([]string, 0, len(candidates))
	missing = make([]string, 0, len(candidates))
	for _, phrase := range candidates {
		needle := strings.Fields(phrase)
		hit := false
		for _, field := range fields {
			if containsSeq(field, needle) {
				hit = true
				break
			}
		}
		if hit {
			found = append(found, phrase)
		} else {
			missing = append(missing, phrase)
		}
	}
	return found, missing
}

func evaluateKeywords(jobDescription string, limit int, fields [][]string) KeywordReport {
	neutral := KeywordReport{
		Candidates: []string{},
		Found:      []string{},
		Missing:    []string{},
		Score:      NeutralKeywordScore,
	}
	if strings.TrimSpace(jobDescription) == "" {
		return neutral
	}
	candidates := ExtractKeywords(jobDescription, limit)
	if len(candidates) == 0 {
		return neutral
	}
	found, missing := MatchKeywords(candidates, fields)
	score := int(math.Round(100 * float64(len(found)) / float64(len(candidates))))
	return KeywordReport{
		Candidates: candidates,
		Found:      found,
		Missing:    missing,
		Score:      clampScore(score),
		Evaluated:  true,
	}
}

func absorbed(s *ngram, all []*ngram) bool {
	for _, p := range all {
		if len(p.tokens) <= len(s.tokens) || p.freq != s.freq {
			continue
		}
		if containsSeq(p.tokens, s.tokens) {
			return true
		}
	}
	return false
}

func eligibleKeywordToken(tok string) bool {
	if IsStopWord(tok) {
		return false
	}
	if _, ok := fillerTerms[tok]; ok {
		return false
	}
	if isNumericToken(tok) {
		return false
	}
	return utf8.RuneCountInString(tok) >= 2 || strings.ContainsAny(tok, "+#")
}

func isNumericToken(tok string) bool {
	for _, r := range tok {
		if !unicode.IsDigit(r) && r != '.' && r != '-' {
			return false
		}
	}
	return true
}

func containsSeq(hay, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(hay) {
		return false
	}
outer:
	for i := 0; i+len(needle) <= len(hay); i++ {
		for j, tok := range needle {
			if hay[i+j] != tok {
				continue outer
			}
		}
		return true
	}
	return false
}
