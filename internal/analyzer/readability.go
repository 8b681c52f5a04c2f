package analyzer

import (
	"strconv"
	"strings"
	"unicode"
)

type statement struct {
	text       string
	tokens     []string
	experience bool
}

type readabilityReport struct {
	readability int
	format      int
	signals     []signal
	strengths   []string
}

const (
	longAverageWords     = 25
	veryLongAverageWords = 35
	shortAverageWords    = 5
	longSentenceWords    = 40
	wallOfTextWords      = 50
	minActionVerbShare   = 0.30
	strongActionShare    = 0.60
	strongQuantShare     = 0.50
	minStatementsPerJob  = 2
	minDocumentWords     = 200
)

var weakOpeners = [][]string{
	{"responsible", "for"},
	{"worked", "on"},
	{"helped", "with"},
	{"assisted", "with"},
	{"tasked", "with"},
	{"involved", "in"},
	{"participated", "in"},
	{"in", "charge", "of"},
	{"duties", "included"},
}

var actionVerbs = toSet(
	"accelerated", "achieved", "analyzed", "architected", "authored", "automated", "boosted",
	"built", "championed", "coached", "consolidated", "coordinated", "created", "cut",
	"decreased", "delivered", "deployed", "designed", "developed", "directed", "drove",
	"eliminated", "engineered", "established", "executed", "expanded", "founded", "generated",
	"grew", "headed", "implemented", "improved", "increased", "initiated", "integrated",
	"introduced", "launched", "led", "managed", "mentored", "migrated", "modernized",
	"negotiated", "optimized", "orchestrated", "organized", "overhauled", "oversaw", "owned",
	"pioneered", "planned", "produced", "published", "raised", "redesigned", "reduced",
	"refactored", "resolved", "restructured", "revamped", "saved", "scaled", "secured",
	"shipped", "simplified", "spearheaded", "standardized", "streamlined", "strengthened",
	"supervised", "trained", "transformed", "unified", "upgraded", "won",
)

var passiveAuxiliaries = toSet("was", "were", "been", "being")

// splitStatements breaks text into non-blank lines, strips bullet markers
// and splits each line on sentence terminators.
func splitStatements(text string, experience bool) []statement {
	var out []statement
	for _, line := range lines(text) {
		_, rest, _ := leadingMarker(line)
		for _, sentence := range sentences(rest) {
			toks := Normalize(sentence)
			if len(toks) == 0 {
				continue
			}
			out = append(out, statement{text: sentence, tokens: toks, experience: experience})
		}
	}
	return out
}

func lines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	out := make([]string, 0, 4)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// sentences splits on '.', '!' and '?' followed by whitespace or the end of
// the line, leaving "node.js" and "3.5" intact.
func sentences(line string) []string {
	rs := []rune(line)
	var out []string
	start := 0
	for i, r := range rs {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(rs) && !unicode.IsSpace(rs[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(rs[start : i+1])); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(string(rs[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

func evaluateReadability(p *prepared) readabilityReport {
	r := readabilityReport{}
	if p.blank {
		return r
	}
	r.readability = r.scoreReadability(p)
	r.format = r.scoreFormat(p)
	// Length is reported but not scored.
	if p.totalWords < minDocumentWords {
		r.signals = append(r.signals, signal{code: ruleShortDocument, subject: strconv.Itoa(p.totalWords)})
	}
	return r
}

func (r *readabilityReport) scoreReadability(p *prepared) int {
	if len(p.statements) == 0 {
		return 0
	}
	score := 100

	words, long := 0, 0
	for _, s := range p.statements {
		words += len(s.tokens)
		if len(s.tokens) > longSentenceWords {
			long++
		}
	}
	avg := float64(words) / float64(len(p.statements))
	switch {
	case avg > veryLongAverageWords:
		score -= 25
		r.signals = append(r.signals, signal{code: ruleLongAverageSentence})
	case avg > longAverageWords:
		score -= 15
		r.signals = append(r.signals, signal{code: ruleLongAverageSentence})
	case avg < shortAverageWords:
		score -= 10
		r.signals = append(r.signals, signal{code: ruleShortAverageSentence})
	}
	if long > 0 {
		score -= min(5*long, 15)
		r.signals = append(r.signals, signal{code: ruleLongSentences, subject: strconv.Itoa(long)})
	}

	passive := false
	for _, s := range p.statements {
		if hasPassiveVoice(s.tokens) {
			passive = true
			break
		}
	}
	if passive {
		score -= 5
		r.signals = append(r.signals, signal{code: rulePassiveVoice})
	}

	exp := p.experienceStatements()
	if len(exp) == 0 {
		return clampScore(score)
	}

	weak, strong, quantified := 0, 0, 0
	for _, s := range exp {
		if phrase, ok := weakOpener(s.tokens); ok {
			weak++
			r.signals = append(r.signals, signal{code: ruleWeakOpener, subject: phrase})
		}
		if _, ok := actionVerbs[s.tokens[0]]; ok {
			strong++
		}
		if quantifiedText(s.text) {
			quantified++
		}
	}
	score -= min(5*weak, 25)

	share := float64(strong) / float64(len(exp))
	switch {
	case share < minActionVerbShare:
		score -= 10
		r.signals = append(r.signals, signal{code: ruleLowActionVerbs})
	case share >= strongActionShare && weak == 0:
		r.strengths = append(r.strengths, strengthActionVerbs)
	}

	switch {
	case quantified == 0:
		score -= 15
		r.signals = append(r.signals, signal{code: ruleNoQuantifiedResults})
	case float64(quantified)/float64(len(exp)) >= strongQuantShare:
		r.strengths = append(r.strengths, strengthQuantified)
	}
	return clampScore(score)
}

func (r *readabilityReport) scoreFormat(p *prepared) int {
	score := 100

	kinds := make(map[string]struct{})
	wall := false
	for _, d := range p.descriptions {
		for _, line := range lines(d) {
			if kind, _, ok := leadingMarker(line); ok {
				kinds[kind] = struct{}{}
			}
			if WordCount(line) > wallOfTextWords {
				wall = true
			}
		}
	}
	if len(kinds) > 1 {
		score -= 10
		r.signals = append(r.signals, signal{code: ruleMixedBullets})
	}
	if wall {
		score -= 10
		r.signals = append(r.signals, signal{code: ruleWallOfText})
	}

	if n := len(p.experience); n > 0 {
		if len(p.experienceStatements()) < minStatementsPerJob*n {
			score -= 10
			r.signals = append(r.signals, signal{code: ruleSparseBullets})
		}
		incomplete := 0
		for i, e := range p.experience {
			if blank(e.Position) || blank(e.Company) {
				incomplete++
				r.signals = append(r.signals, signal{code: ruleIncompleteEntry, subject: incompleteLabel(e, i)})
			}
		}
		score -= min(5*incomplete, 15)
	}
	return clampScore(score)
}

func weakOpener(tokens []string) (string, bool) {
	for _, phrase := range weakOpeners {
		if len(tokens) < len(phrase) {
			continue
		}
		match := true
		for i, tok := range phrase {
			if tokens[i] != tok {
				match = false
				break
			}
		}
		if match {
			return strings.Join(phrase, " "), true
		}
	}
	return "", false
}

func hasPassiveVoice(tokens []string) bool {
	for i := 0; i+1 < len(tokens); i++ {
		if _, ok := passiveAuxiliaries[tokens[i]]; !ok {
			continue
		}
		next := tokens[i+1]
		if len(next) > 3 && strings.HasSuffix(next, "ed") {
			return true
		}
	}
	return false
}

func quantifiedText(text string) bool {
	for _, r := range text {
		if unicode.IsDigit(r) {
			return true
		}
		switch r {
		case '%', '$', '€', '£':
			return true
		}
	}
	return false
}

func incompleteLabel(e ExperienceEntry, i int) string {
	if label := entryLabel(e); label != "an experience entry" {
		return label
	}
	return "experience entry " + strconv.Itoa(i+1)
}
