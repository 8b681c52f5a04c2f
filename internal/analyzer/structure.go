package analyzer

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type structureReport struct {
	layout     int
	font       int
	fileFormat int
	content    int
	signals    []signal
	strengths  []string
}

const (
	entryPenaltyCap     = 20
	upperCaseMinLetters = 50
	upperCaseMaxShare   = 0.40
	minSummaryWords     = 20
	maxSummaryWords     = 120
	minEntryWords       = 8
)

var (
	whitespaceRun = regexp.MustCompile(`\S[ \t]{4,}\S|\n[ \t]*\n[ \t]*\n`)
	yearPattern   = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	openEnded     = toSet("present", "current", "now", "today")
)

// bulletMarkers are the line prefixes treated as list bullets.
var bulletMarkers = []string{"•", "·", "▪", "◦", "●", "■", "-", "*", "–", "—", ">"}

func evaluateStructure(p *prepared) structureReport {
	r := structureReport{}
	if p.blank {
		r.signals = sectionSignals(p.present)
		return r
	}

	layout, font, fileFormat := 100, 100, 100

	r.signals = append(r.signals, sectionSignals(p.present)...)
	for _, sec := range []struct {
		ok      bool
		penalty int
	}{
		{p.present.summary, 15},
		{p.present.experience, 20},
		{p.present.education, 15},
		{p.present.skills, 15},
		{p.present.contact, 10},
	} {
		if !sec.ok {
			layout -= sec.penalty
		}
	}
	if p.present.all() {
		r.strengths = append(r.strengths, strengthAllSections)
	}

	if !canonicalOrder(p.doc.SectionOrder) {
		layout -= 10
		r.signals = append(r.signals, signal{code: ruleSectionOrder})
	}

	unbulleted := 0
	for _, e := range p.experience {
		if blank(e.Description) || bulleted(e.Description) {
			continue
		}
		unbulleted += 5
		r.signals = append(r.signals, signal{code: ruleEntryWithoutBullets, subject: entryLabel(e)})
	}
	layout -= min(unbulleted, entryPenaltyCap)

	joined := strings.Join(p.texts, "\n")
	controls := hasControlRunes(joined)
	runs := whitespaceRun.MatchString(joined)
	if controls {
		font -= 30
		fileFormat -= 30
		r.signals = append(r.signals, signal{code: ruleControlCharacters})
	}
	if runs {
		layout -= 10
		fileFormat -= 10
		r.signals = append(r.signals, signal{code: ruleWhitespaceArtifacts})
	}

	descriptions := strings.Join(p.descriptions, "\n")
	if excessiveUpperCase(descriptions) {
		font -= 10
		r.signals = append(r.signals, signal{code: ruleExcessiveUppercase})
	}
	symbols := hasDecorativeSymbols(joined)
	if symbols {
		font -= 10
		r.signals = append(r.signals, signal{code: ruleDecorativeSymbols})
	}
	if !controls && !runs && !symbols {
		r.strengths = append(r.strengths, strengthCleanText)
	}

	malformed := 0
	for _, label := range p.malformed {
		malformed += 5
		r.signals = append(r.signals, signal{code: ruleMalformedEntry, subject: label})
	}
	fileFormat -= min(malformed, entryPenaltyCap)

	content, contentSignals, contentStrengths := contentStructure(p)
	r.signals = append(r.signals, contentSignals...)
	r.strengths = append(r.strengths, contentStrengths...)

	r.layout = clampScore(layout)
	r.font = clampScore(font)
	r.fileFormat = clampScore(fileFormat)
	r.content = clampScore(content)
	return r
}

func sectionSignals(s sectionPresence) []signal {
	out := make([]signal, 0, 5)
	if !s.summary {
		out = append(out, signal{code: ruleMissingSummary})
	}
	if !s.experience {
		out = append(out, signal{code: ruleMissingExperience})
	}
	if !s.education {
		out = append(out, signal{code: ruleMissingEducation})
	}
	if !s.skills {
		out = append(out, signal{code: ruleMissingSkills})
	}
	if !s.contact {
		out = append(out, signal{code: ruleMissingContact})
	}
	return out
}

func contentStructure(p *prepared) (int, []signal, []string) {
	var (
		score     float64
		signals   []signal
		strengths []string
	)
	if p.present.summary {
		score += 15
		switch n := WordCount(p.doc.PersonalInfo.Summary); {
		case n < minSummaryWords:
			signals = append(signals, signal{code: ruleSummaryLength, subject: "short"})
		case n > maxSummaryWords:
			signals = append(signals, signal{code: ruleSummaryLength, subject: "long"})
		default:
			score += 10
			strengths = append(strengths, strengthSummaryLength)
		}
	}
	if p.present.education {
		score += 15
	}
	if p.present.skills {
		score += 15
	}
	if p.present.experience {
		score += 20
		substantial := 0
		for _, e := range p.experience {
			if WordCount(e.Description) >= minEntryWords {
				substantial++
				continue
			}
			signals = append(signals, signal{code: ruleTrivialDescription, subject: entryLabel(e)})
		}
		score += 15 * float64(substantial) / float64(len(p.experience))

		ordered, dated := reverseChronological(p.experience)
		if ordered {
			score += 10
			if dated >= 2 {
				strengths = append(strengths, strengthReverseChronological)
			}
		} else {
			signals = append(signals, signal{code: ruleNotReverseChronological})
		}
	}
	if !blank(p.doc.PersonalInfo.LinkedIn) {
		strengths = append(strengths, strengthLinkedIn)
	}
	return int(math.Round(score)), signals, strengths
}

type period struct {
	end, start int
}

// reverseChronological reports whether dated entries run newest first and
// how many entries carried a year. Open-ended durations sort as newest.
func reverseChronological(entries []ExperienceEntry) (bool, int) {
	var periods []period
	for _, e := range entries {
		if p, ok := parsePeriod(e.Duration); ok {
			periods = append(periods, p)
		}
	}
	for i := 1; i < len(periods); i++ {
		prev, cur := periods[i-1], periods[i]
		if cur.end > prev.end || (cur.end == prev.end && cur.start > prev.start) {
			return false, len(periods)
		}
	}
	return true, len(periods)
}

func parsePeriod(duration string) (period, bool) {
	years := yearPattern.FindAllString(duration, -1)
	if len(years) == 0 {
		return period{}, false
	}
	first := atoiYear(years[0])
	last := atoiYear(years[len(years)-1])
	p := period{start: first, end: last}
	for _, tok := range Normalize(duration) {
		if _, ok := openEnded[tok]; ok {
			p.end = 9999
			break
		}
	}
	return p, true
}

func atoiYear(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

var sectionAliases = map[string]int{
	"summary": 0, "profile": 0, "about": 0, "about me": 0, "objective": 0,
	"professional summary": 0, "career summary": 0, "personal profile": 0,
	"experience": 1, "work experience": 1, "professional experience": 1, "employment": 1,
	"employment history": 1, "work history": 1, "career history": 1,
	"education": 2, "academic background": 2, "qualifications": 2, "education and training": 2,
	"skills": 3, "technical skills": 3, "core competencies": 3, "competencies": 3,
	"key skills": 3, "expertise": 3,
}

// canonicalOrder reports whether known headings appear as summary,
// experience, education, skills. Unknown headings are ignored.
func canonicalOrder(headings []string) bool {
	highest := -1
	for _, h := range headings {
		rank, ok := sectionAliases[strings.Join(Normalize(h), " ")]
		if !ok {
			continue
		}
		if rank < highest {
			return false
		}
		highest = rank
	}
	return true
}

// bulleted reports whether a description is laid out as a list.
func bulleted(desc string) bool {
	lines := 0
	for _, line := range strings.Split(desc, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, _, ok := leadingMarker(line); ok {
			return true
		}
		lines++
	}
	return lines >= 2
}

// leadingMarker strips a bullet or "1." / "1)" numbering from a line.
func leadingMarker(line string) (kind, rest string, ok bool) {
	trimmed := strings.TrimSpace(line)
	for _, m := range bulletMarkers {
		if strings.HasPrefix(trimmed, m) {
			return m, strings.TrimSpace(trimmed[len(m):]), true
		}
	}
	i := 0
	for i < len(trimmed) && i < 3 && trimmed[i] >= '0' && trimmed[i] <= '9' {
		i++
	}
	if i > 0 && i <= 2 && i < len(trimmed) && (trimmed[i] == '.' || trimmed[i] == ')') &&
		(i+1 == len(trimmed) || trimmed[i+1] == ' ') {
		return "numbered", strings.TrimSpace(trimmed[i+1:]), true
	}
	return "", trimmed, false
}

func isMarkerRune(r rune) bool {
	for _, m := range bulletMarkers {
		if first, _ := utf8.DecodeRuneInString(m); first == r {
			return true
		}
	}
	return false
}

func hasControlRunes(text string) bool {
	for _, r := range text {
		if r == utf8.RuneError {
			return true
		}
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return true
		}
	}
	return false
}

func hasDecorativeSymbols(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.So, r) && !isMarkerRune(r) {
			return true
		}
	}
	return false
}

func excessiveUpperCase(text string) bool {
	letters, upper := 0, 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return letters >= upperCaseMinLetters && float64(upper)/float64(letters) > upperCaseMaxShare
}

func entryLabel(e ExperienceEntry) string {
	pos, company := strings.TrimSpace(e.Position), strings.TrimSpace(e.Company)
	switch {
	case pos != "" && company != "":
		return pos + " at " + company
	case pos != "":
		return pos
	case company != "":
		return company
	default:
		return "an experience entry"
	}
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
