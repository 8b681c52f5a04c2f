package extract

import (
	"regexp"
	"strings"
	"unicode"

	"cv-analyzer/internal/analyzer"
)

type sectionKind int

const (
	sectionHeader sectionKind = iota
	sectionSummary
	sectionExperience
	sectionEducation
	sectionSkills
	sectionContact
	sectionOther
)

var headings = map[string]sectionKind{
	"summary": sectionSummary, "profile": sectionSummary, "about": sectionSummary,
	"about me": sectionSummary, "objective": sectionSummary, "career objective": sectionSummary,
	"professional summary": sectionSummary, "career summary": sectionSummary,
	"personal profile": sectionSummary, "professional profile": sectionSummary,

	"experience": sectionExperience, "work experience": sectionExperience,
	"professional experience": sectionExperience, "employment": sectionExperience,
	"employment history": sectionExperience, "work history": sectionExperience,
	"career history": sectionExperience, "relevant experience": sectionExperience,

	"education": sectionEducation, "academic background": sectionEducation,
	"qualifications": sectionEducation, "education and training": sectionEducation,
	"academic qualifications": sectionEducation,

	"skills": sectionSkills, "technical skills": sectionSkills, "core competencies": sectionSkills,
	"competencies": sectionSkills, "key skills": sectionSkills, "expertise": sectionSkills,
	"skills and tools": sectionSkills, "skills tools": sectionSkills, "technologies": sectionSkills,

	"contact": sectionContact, "contact details": sectionContact,
	"contact information": sectionContact, "personal details": sectionContact,

	"projects": sectionOther, "certifications": sectionOther, "certificates": sectionOther,
	"languages": sectionOther, "interests": sectionOther, "hobbies": sectionOther,
	"awards": sectionOther, "publications": sectionOther, "references": sectionOther,
	"volunteering": sectionOther, "volunteer experience": sectionOther,
}

const months = `(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s*`

var (
	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern    = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
	linkedInPattern = regexp.MustCompile(`(?i)(?:https?://)?(?:[a-z]{2,3}\.)?linkedin\.com/in/[\w\-%]+/?`)
	websitePattern  = regexp.MustCompile(`(?i)https?://[^\s,;]+`)
	dateRange       = regexp.MustCompile(`(?i)((?:` + months + `|\d{1,2}/)?(?:19|20)\d{2})\s*(?:-|–|—|to|until)\s*((?:` + months + `|\d{1,2}/)?(?:19|20)\d{2}|present|current|now|today)`)
	singleYear      = regexp.MustCompile(`(?:19|20)\d{2}`)
	headerSplit     = regexp.MustCompile(`\s+(?:at|@|\||–|—|-)\s+|,\s+`)
	skillSplit      = regexp.MustCompile(`[,;|•·▪●■]|\s{2,}|\t`)
)

type section struct {
	kind    sectionKind
	heading string
	lines   []string
}

// ParseDocument splits extracted text into résumé sections by their
// headings. It is heuristic: anything it cannot place is left out, and the
// analyzer scores whatever was recovered.
func ParseDocument(text, fileType string) analyzer.CVDocument {
	doc := analyzer.CVDocument{FileType: strings.TrimPrefix(strings.ToLower(fileType), ".")}
	sections := splitSections(text)

	for _, s := range sections {
		if s.kind != sectionHeader {
			doc.SectionOrder = append(doc.SectionOrder, s.heading)
		}
		switch s.kind {
		case sectionHeader:
			parseHeader(&doc.PersonalInfo, s.lines)
		case sectionSummary:
			doc.PersonalInfo.Summary = joinParagraph(s.lines)
		case sectionExperience:
			doc.Experience = append(doc.Experience, parseExperience(s.lines)...)
		case sectionEducation:
			doc.Education = append(doc.Education, parseEducation(s.lines)...)
		case sectionSkills:
			doc.Skills = append(doc.Skills, parseSkills(s.lines)...)
		}
	}
	parseContact(&doc.PersonalInfo, text)
	return doc
}

func splitSections(text string) []section {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	current := section{kind: sectionHeader}
	var out []section
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRightFunc(raw, unicode.IsSpace)
		if kind, ok := headingKind(line); ok {
			out = append(out, current)
			current = section{kind: kind, heading: strings.TrimSpace(strings.TrimRight(strings.TrimSpace(line), ":"))}
			continue
		}
		current.lines = append(current.lines, line)
	}
	return append(out, current)
}

func headingKind(line string) (sectionKind, bool) {
	trimmed := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(line), ":"))
	if trimmed == "" || len(strings.Fields(trimmed)) > 4 {
		return 0, false
	}
	kind, ok := headings[strings.Join(analyzer.Normalize(trimmed), " ")]
	return kind, ok
}

func parseHeader(info *analyzer.PersonalInfo, lines []string) {
	for _, line := range nonBlank(lines) {
		if isContactLine(line) {
			continue
		}
		switch {
		case info.Name == "":
			info.Name = line
		case info.Title == "" && len(strings.Fields(line)) <= 8:
			info.Title = line
		default:
			return
		}
	}
}

func parseContact(info *analyzer.PersonalInfo, text string) {
	if info.Email == "" {
		info.Email = emailPattern.FindString(text)
	}
	if info.LinkedIn == "" {
		info.LinkedIn = linkedInPattern.FindString(text)
	}
	if info.Website == "" {
		for _, u := range websitePattern.FindAllString(text, -1) {
			if !strings.Contains(strings.ToLower(u), "linkedin.com") {
				info.Website = u
				break
			}
		}
	}
	if info.Phone == "" {
		for _, line := range strings.Split(text, "\n") {
			if dateRange.MatchString(line) {
				continue
			}
			if p := phonePattern.FindString(line); p != "" && digits(p) >= 9 {
				info.Phone = strings.TrimSpace(p)
				break
			}
		}
	}
}

func isContactLine(line string) bool {
	return emailPattern.MatchString(line) || linkedInPattern.MatchString(line) ||
		websitePattern.MatchString(line) || (phonePattern.MatchString(line) && digits(line) >= 9)
}

func parseExperience(lines []string) []analyzer.ExperienceEntry {
	var out []analyzer.ExperienceEntry
	for _, b := range blocks(lines) {
		head, body := b.head, b.body
		duration := ""
		var rest []string
		for _, line := range head {
			if duration == "" {
				if d, remainder, ok := takeDuration(line); ok {
					duration = d
					if remainder != "" {
						rest = append(rest, remainder)
					}
					continue
				}
			}
			rest = append(rest, line)
		}
		entry := analyzer.ExperienceEntry{Duration: duration}
		if len(rest) > 0 {
			entry.Position, entry.Company = splitHeader(rest[0])
			if len(rest) > 1 && entry.Company == "" {
				entry.Company = rest[1]
				rest = rest[1:]
			}
			if len(rest) > 1 {
				body = append(rest[1:], body...)
			}
		}
		entry.Description = strings.Join(body, "\n")
		out = append(out, entry)
	}
	return out
}

func parseEducation(lines []string) []analyzer.EducationEntry {
	var out []analyzer.EducationEntry
	for _, b := range blocks(lines) {
		duration := ""
		var rest []string
		for _, line := range b.head {
			if duration == "" {
				if d, remainder, ok := takeDuration(line); ok {
					duration = d
					if remainder != "" {
						rest = append(rest, remainder)
					}
					continue
				}
				if y := singleYear.FindString(line); y != "" && len(strings.Fields(line)) <= 2 {
					duration = y
					continue
				}
			}
			rest = append(rest, line)
		}
		entry := analyzer.EducationEntry{Duration: duration}
		if len(rest) > 0 {
			entry.Degree, entry.School = splitHeader(rest[0])
			if len(rest) > 1 && entry.School == "" {
				entry.School = rest[1]
				rest = rest[1:]
			}
			if len(rest) > 1 {
				b.body = append(rest[1:], b.body...)
			}
		}
		entry.Description = strings.Join(b.body, "\n")
		out = append(out, entry)
	}
	return out
}

func parseSkills(lines []string) []analyzer.Skill {
	var out []analyzer.Skill
	seen := make(map[string]bool)
	for _, line := range nonBlank(lines) {
		line = stripMarker(line)
		if i := strings.Index(line, ":"); i >= 0 && i < len(line)-1 {
			line = line[i+1:]
		}
		for _, item := range skillSplit.Split(line, -1) {
			name := strings.TrimSpace(strings.Trim(strings.TrimSpace(item), ".-–"))
			if name == "" || len(strings.Fields(name)) > 5 {
				continue
			}
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, analyzer.Skill{Name: name})
		}
	}
	return out
}

type block struct {
	head []string
	body []string
}

// blocks groups section lines into entries. A blank line, or a plain line
// after bullet lines, starts a new entry.
func blocks(lines []string) []block {
	var (
		out     []block
		cur     block
		bullets bool
	)
	flush := func() {
		if len(cur.head) > 0 || len(cur.body) > 0 {
			out = append(out, cur)
		}
		cur = block{}
		bullets = false
	}
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			flush()
			continue
		}
		if isBullet(line) {
			cur.body = append(cur.body, line)
			bullets = true
			continue
		}
		if bullets {
			flush()
		}
		if len(cur.body) > 0 {
			cur.body = append(cur.body, line)
			continue
		}
		if len(cur.head) >= 3 {
			cur.body = append(cur.body, line)
			continue
		}
		cur.head = append(cur.head, line)
	}
	flush()
	return out
}

func takeDuration(line string) (duration, remainder string, ok bool) {
	loc := dateRange.FindStringIndex(line)
	if loc == nil {
		return "", line, false
	}
	duration = strings.TrimSpace(line[loc[0]:loc[1]])
	remainder = strings.TrimSpace(line[:loc[0]] + " " + line[loc[1]:])
	remainder = strings.TrimSpace(strings.Trim(remainder, "|,()–—- "))
	return duration, remainder, true
}

func splitHeader(line string) (string, string) {
	parts := headerSplit.Split(line, 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(line), ""
}

var bulletPrefixes = []string{"•", "·", "▪", "◦", "●", "■", "-", "*", "–", "—", ">"}

func isBullet(line string) bool {
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

func stripMarker(line string) string {
	line = strings.TrimSpace(line)
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(line, p) {
			return strings.TrimSpace(line[len(p):])
		}
	}
	return line
}

func joinParagraph(lines []string) string {
	return strings.Join(nonBlank(lines), " ")
}

func nonBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func digits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
