// Package analyzer scores a structured résumé for ATS compatibility and,
// when a job description is supplied, for keyword coverage.
//
// The engine is pure: it performs no I/O, holds no mutable state and returns
// a fresh Result on every call.
package analyzer

import (
	"strconv"
	"strings"
	"time"
)

// Analyzer runs the rule set. The zero value is not usable; call New.
type Analyzer struct {
	now          func() time.Time
	keywordLimit int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClock sets the clock used for Result.AnalyzedAt.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// WithKeywordLimit caps how many job-description keywords are evaluated.
// Non-positive values keep DefaultKeywordLimit.
func WithKeywordLimit(limit int) Option {
	return func(a *Analyzer) {
		if limit > 0 {
			a.keywordLimit = limit
		}
	}
}

// New returns an Analyzer. It is immutable and safe for concurrent use.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		now:          func() time.Time { return time.Now().UTC() },
		keywordLimit: DefaultKeywordLimit,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var defaultAnalyzer = New()

// Analyze runs the default Analyzer. An empty jobDescription means none.
func Analyze(doc CVDocument, jobDescription string) Result {
	return defaultAnalyzer.Analyze(doc, jobDescription)
}

// Analyze scores doc against the optional jobDescription.
func (a *Analyzer) Analyze(doc CVDocument, jobDescription string) Result {
	p := prepare(doc)

	kw := evaluateKeywords(jobDescription, a.keywordLimit, p.fields)
	st := evaluateStructure(p)
	rd := evaluateReadability(p)

	scores := subScores{
		fileFormat:       st.fileFormat,
		layout:           st.layout,
		font:             st.font,
		contentStructure: st.content,
		readability:      rd.readability,
		format:           rd.format,
		keyword:          kw.Score,
	}
	overall, breakdown := aggregate(scores)
	rating, color := Rate(overall)

	sigs := make([]signal, 0, len(st.signals)+len(rd.signals)+1)
	sigs = append(sigs, st.signals...)
	sigs = append(sigs, rd.signals...)
	positives := make([]string, 0, len(st.strengths)+len(rd.strengths)+2)
	positives = append(positives, st.strengths...)
	positives = append(positives, rd.strengths...)
	if kw.Evaluated {
		switch cov := kw.Coverage(); {
		case cov < lowKeywordCoverage:
			sigs = append(sigs, signal{code: ruleLowKeywordCoverage, subject: percent(cov)})
		case cov >= strongKeywordCoverage:
			positives = append(positives, strengthKeywordMatch)
		}
	}
	f := generate(sigs, positives, kw)

	return Result{
		OverallScore:          overall,
		FileFormatScore:       scores.fileFormat,
		LayoutScore:           scores.layout,
		FontScore:             scores.font,
		ContentStructureScore: scores.contentStructure,
		ReadabilityScore:      scores.readability,
		KeywordScore:          scores.keyword,
		FormatScore:           scores.format,
		Rating:                rating,
		RatingColor:           color,
		Issues:                f.issues,
		Recommendations:       f.recommendations,
		Strengths:             f.strengths,
		KeywordsFound:         kw.Found,
		KeywordsMissing:       kw.Missing,
		MissingSections:       p.present.missing(),
		Breakdown:             breakdown,
		TotalWords:            p.totalWords,
		FileExtension:         strings.TrimPrefix(strings.ToLower(strings.TrimSpace(doc.FileType)), "."),
		AnalyzedAt:            a.now(),
	}
}

// prepared is the read-only view every evaluator works from. Text is
// normalized once here.
type prepared struct {
	doc        CVDocument
	present    sectionPresence
	experience []ExperienceEntry
	education  []EducationEntry
	skills     []Skill
	malformed  []string

	// descriptions holds the summary followed by every experience and
	// education description, raw.
	descriptions []string
	// texts holds every raw field value.
	texts      []string
	fields     [][]string
	statements []statement
	totalWords int
	blank      bool
}

type sectionPresence struct {
	contact    bool
	summary    bool
	experience bool
	education  bool
	skills     bool
}

func (s sectionPresence) missing() []string {
	out := make([]string, 0, 5)
	for _, sec := range []struct {
		name string
		ok   bool
	}{
		{"contact", s.contact},
		{"summary", s.summary},
		{"experience", s.experience},
		{"education", s.education},
		{"skills", s.skills},
	} {
		if !sec.ok {
			out = append(out, sec.name)
		}
	}
	return out
}

func (s sectionPresence) all() bool {
	return s.contact && s.summary && s.experience && s.education && s.skills
}

func prepare(doc CVDocument) *prepared {
	p := &prepared{doc: doc}
	info := doc.PersonalInfo

	for i, e := range doc.Experience {
		if blank(e.Position, e.Company, e.Duration, e.Description) {
			p.malformed = append(p.malformed, "experience entry "+strconv.Itoa(i+1))
			continue
		}
		p.experience = append(p.experience, e)
	}
	for i, e := range doc.Education {
		if blank(e.Degree, e.School, e.Duration, e.Description) {
			p.malformed = append(p.malformed, "education entry "+strconv.Itoa(i+1))
			continue
		}
		p.education = append(p.education, e)
	}
	for i, s := range doc.Skills {
		if blank(s.Name) {
			if blank(s.Level) {
				p.malformed = append(p.malformed, "skill "+strconv.Itoa(i+1))
			}
			continue
		}
		p.skills = append(p.skills, s)
	}

	p.present = sectionPresence{
		contact:    !blank(info.Email, info.Phone),
		summary:    !blank(info.Summary),
		experience: len(p.experience) > 0,
		education:  len(p.education) > 0,
		skills:     len(p.skills) > 0,
	}

	p.texts = append(p.texts, info.Name, info.Title, info.Summary, info.Email, info.Phone,
		info.Location, info.LinkedIn, info.Website)
	p.descriptions = append(p.descriptions, info.Summary)
	p.statements = append(p.statements, splitStatements(info.Summary, false)...)
	p.addField(info.Title)
	p.addField(info.Summary)
	for _, e := range p.experience {
		p.texts = append(p.texts, e.Position, e.Company, e.Duration, e.Description)
		p.descriptions = append(p.descriptions, e.Description)
		p.statements = append(p.statements, splitStatements(e.Description, true)...)
		p.addField(e.Position)
		p.addField(e.Company)
		p.addField(e.Description)
	}
	for _, e := range p.education {
		p.texts = append(p.texts, e.Degree, e.School, e.Duration, e.Description)
		p.descriptions = append(p.descriptions, e.Description)
		p.statements = append(p.statements, splitStatements(e.Description, false)...)
		p.addField(e.Degree)
		p.addField(e.School)
		p.addField(e.Description)
	}
	for _, s := range p.skills {
		p.texts = append(p.texts, s.Name, s.Level)
		p.addField(s.Name)
	}

	for _, d := range p.descriptions {
		p.totalWords += WordCount(d)
	}
	p.blank = blank(p.texts...)
	return p
}

func (p *prepared) addField(text string) {
	if toks := Normalize(text); len(toks) > 0 {
		p.fields = append(p.fields, toks)
	}
}

func (p *prepared) experienceStatements() []statement {
	out := make([]statement, 0, len(p.statements))
	for _, s := range p.statements {
		if s.experience {
			out = append(out, s)
		}
	}
	return out
}

// blank reports whether every value is empty after trimming.
func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
