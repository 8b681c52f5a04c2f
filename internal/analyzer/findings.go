package analyzer

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// signal is one detected defect. subject names the entry, phrase or count it
// refers to, when there is one.
type signal struct {
	code    string
	subject string
}

// Rule codes. They are stable identifiers carried on every finding.
const (
	ruleMissingSummary          = "missing_summary"
	ruleMissingExperience       = "missing_experience"
	ruleMissingEducation        = "missing_education"
	ruleMissingSkills           = "missing_skills"
	ruleMissingContact          = "missing_contact"
	ruleControlCharacters       = "control_characters"
	ruleLowKeywordCoverage      = "low_keyword_coverage"
	ruleNoQuantifiedResults     = "no_quantified_results"
	ruleWeakOpener              = "weak_opener"
	ruleTrivialDescription      = "trivial_description"
	ruleNotReverseChronological = "not_reverse_chronological"
	ruleWhitespaceArtifacts     = "whitespace_artifacts"
	ruleLongAverageSentence     = "long_average_sentence"
	ruleLongSentences           = "long_sentences"
	ruleWallOfText              = "wall_of_text"
	ruleSummaryLength           = "summary_length"
	ruleLowActionVerbs          = "low_action_verbs"
	ruleSparseBullets           = "sparse_bullets"
	ruleSectionOrder            = "section_order"
	ruleEntryWithoutBullets     = "entry_without_bullets"
	ruleMixedBullets            = "mixed_bullets"
	ruleExcessiveUppercase      = "excessive_uppercase"
	ruleDecorativeSymbols       = "decorative_symbols"
	ruleShortAverageSentence    = "short_average_sentence"
	rulePassiveVoice            = "passive_voice"
	ruleIncompleteEntry         = "incomplete_entry"
	ruleMalformedEntry          = "malformed_entry"
	ruleShortDocument           = "short_document"

	recMissingKeywords = "missing_keywords"
	recATSReady        = "ats_ready"
)

// Strength codes.
const (
	strengthAllSections          = "all_sections_present"
	strengthReverseChronological = "reverse_chronological"
	strengthActionVerbs          = "strong_action_verbs"
	strengthQuantified           = "quantified_achievements"
	strengthKeywordMatch         = "keyword_match"
	strengthCleanText            = "clean_text"
	strengthSummaryLength        = "summary_length"
	strengthLinkedIn             = "linkedin_profile"
)

const (
	lowKeywordCoverage    = 0.50
	strongKeywordCoverage = 0.80
	maxListedKeywords     = 10
)

type rule struct {
	code     string
	category Category
	severity Severity
	issue    string
	advice   string
	priority Priority
}

// catalog is ordered; the order breaks ties when sorting findings.
var catalog = []rule{
	{ruleMissingSummary, CategoryContent, SeverityHigh,
		"No professional summary found.",
		"Add a 2-4 sentence summary at the top that states your role, experience level and key strengths.",
		PriorityHigh},
	{ruleMissingExperience, CategoryContent, SeverityHigh,
		"No work experience found.",
		"Add a work experience section listing position, company, dates and achievements for each role.",
		PriorityHigh},
	{ruleMissingSkills, CategoryATS, SeverityHigh,
		"No skills section found.",
		"Add a skills section with the tools and technologies you use, written as plain keywords.",
		PriorityHigh},
	{ruleMissingContact, CategoryATS, SeverityHigh,
		"No email address or phone number found.",
		"Add an email address and phone number so recruiters can reach you.",
		PriorityHigh},
	{ruleControlCharacters, CategoryATS, SeverityHigh,
		"The text contains control or replacement characters, which usually means the file did not convert cleanly.",
		"Re-export the file from the original editor, or paste the text into a plain template, and check it reads correctly.",
		PriorityHigh},
	{ruleMissingEducation, CategoryContent, SeverityMedium,
		"No education section found.",
		"Add your degrees, certifications or relevant training with school names and dates.",
		PriorityMedium},
	{ruleLowKeywordCoverage, CategoryATS, SeverityMedium,
		"Only {subject} of the job description keywords appear in your CV.",
		"",
		PriorityHigh},
	{ruleNoQuantifiedResults, CategoryImpact, SeverityMedium,
		"None of your experience statements include numbers or measurable results.",
		"Quantify achievements with figures such as percentages, amounts, team sizes or time saved.",
		PriorityHigh},
	{ruleWeakOpener, CategoryActionVerbs, SeverityMedium,
		"A statement opens with the weak phrase \"{subject}\".",
		"Start each bullet with a strong action verb such as \"led\", \"built\" or \"reduced\" instead of passive phrases.",
		PriorityMedium},
	{ruleTrivialDescription, CategoryContent, SeverityMedium,
		"The description for {subject} is too brief.",
		"Describe each role in at least a couple of bullets covering scope, actions and results.",
		PriorityMedium},
	{ruleNotReverseChronological, CategoryFormat, SeverityMedium,
		"Work experience is not listed in reverse-chronological order.",
		"List your most recent position first and work backwards.",
		PriorityMedium},
	{ruleWhitespaceArtifacts, CategoryATS, SeverityMedium,
		"The text contains long runs of spaces or blank lines, typical of table or column layouts.",
		"Use a single-column layout without tables or text boxes so parsers read sections in order.",
		PriorityMedium},
	{ruleLongAverageSentence, CategoryClarity, SeverityMedium,
		"Sentences are long on average.",
		"Keep statements short and direct, ideally under 25 words.",
		PriorityMedium},
	{ruleLongSentences, CategoryClarity, SeverityMedium,
		"{subject} statement(s) run longer than 40 words.",
		"Split long statements into separate bullets.",
		PriorityMedium},
	{ruleWallOfText, CategoryFormat, SeverityMedium,
		"Some lines are dense paragraphs of more than 50 words.",
		"Break paragraphs into bullet points of one achievement each.",
		PriorityMedium},
	{ruleSummaryLength, CategoryClarity, SeverityLow,
		"The professional summary is too {subject}.",
		"Aim for a summary of roughly 20 to 120 words.",
		PriorityLow},
	{ruleLowActionVerbs, CategoryActionVerbs, SeverityLow,
		"Few experience statements start with an action verb.",
		"Open most bullets with verbs like \"designed\", \"delivered\" or \"improved\".",
		PriorityMedium},
	{ruleSparseBullets, CategoryFormat, SeverityLow,
		"Experience entries have fewer than two statements on average.",
		"Give each role two to five bullets describing what you achieved.",
		PriorityLow},
	{ruleSectionOrder, CategoryFormat, SeverityLow,
		"Sections are not in the conventional order.",
		"Order sections as summary, experience, education and skills.",
		PriorityLow},
	{ruleEntryWithoutBullets, CategoryFormat, SeverityLow,
		"The description for {subject} is a single block without bullets.",
		"Format role descriptions as bullet points.",
		PriorityLow},
	{ruleMixedBullets, CategoryFormat, SeverityLow,
		"Different bullet styles are mixed.",
		"Use one bullet style consistently.",
		PriorityLow},
	{ruleExcessiveUppercase, CategoryFormat, SeverityLow,
		"A large share of the text is written in capital letters.",
		"Use sentence case; reserve capitals for headings and acronyms.",
		PriorityLow},
	{ruleDecorativeSymbols, CategoryATS, SeverityLow,
		"The text contains decorative symbols or emoji.",
		"Remove icons and emoji; many parsers drop or garble them.",
		PriorityLow},
	{ruleShortAverageSentence, CategoryClarity, SeverityLow,
		"Statements are very short on average.",
		"Add context to terse statements: what you did, how, and the outcome.",
		PriorityLow},
	{rulePassiveVoice, CategoryGrammar, SeverityLow,
		"Passive voice detected.",
		"Rewrite passive statements in active voice.",
		PriorityLow},
	{ruleIncompleteEntry, CategoryContent, SeverityLow,
		"{subject} is missing a position or company name.",
		"Give every role both a job title and an employer.",
		PriorityLow},
	{ruleMalformedEntry, CategoryContent, SeverityLow,
		"{subject} is empty.",
		"Remove empty entries.",
		PriorityLow},
	{ruleShortDocument, CategoryContent, SeverityLow,
		"The CV appears too short: its summary and descriptions hold only {subject} words.",
		"Add more detail on your roles and results; most CVs run to 300-800 words.",
		PriorityLow},
	{recMissingKeywords, CategoryATS, "", "", "", PriorityMedium},
	{recATSReady, CategoryATS, "", "", "", PriorityLow},
}

type strengthRule struct {
	code     string
	category Category
	message  string
}

var strengthCatalog = []strengthRule{
	{strengthAllSections, CategoryContent, "All key sections are present: contact, summary, experience, education and skills."},
	{strengthReverseChronological, CategoryFormat, "Work experience is in reverse-chronological order."},
	{strengthActionVerbs, CategoryActionVerbs, "Most experience statements open with strong action verbs."},
	{strengthQuantified, CategoryImpact, "Achievements are backed by measurable results."},
	{strengthKeywordMatch, CategoryATS, "Your CV covers most of the job description keywords."},
	{strengthCleanText, CategoryATS, "The text is clean and machine-readable."},
	{strengthSummaryLength, CategoryClarity, "The professional summary has a good length."},
	{strengthLinkedIn, CategoryContent, "A LinkedIn profile is included."},
}

var (
	ruleIndex     = indexRules()
	strengthIndex = indexStrengths()
)

func indexRules() map[string]int {
	out := make(map[string]int, len(catalog))
	for i, r := range catalog {
		out[r.code] = i
	}
	return out
}

func indexStrengths() map[string]int {
	out := make(map[string]int, len(strengthCatalog))
	for i, s := range strengthCatalog {
		out[s.code] = i
	}
	return out
}

type findings struct {
	issues          []Issue
	recommendations []Recommendation
	strengths       []Strength
}

// generate maps signals and positive observations onto the catalog.
func generate(signals []signal, positives []string, kw KeywordReport) findings {
	f := findings{
		issues:          make([]Issue, 0, len(signals)),
		recommendations: make([]Recommendation, 0, len(signals)+2),
		strengths:       make([]Strength, 0, len(positives)),
	}

	issueRank := make([]int, 0, len(signals))
	advised := make(map[string]bool)
	recRank := make([]int, 0, len(signals)+2)
	critical := false
	for _, s := range signals {
		idx, ok := ruleIndex[s.code]
		if !ok {
			continue
		}
		r := catalog[idx]
		f.issues = append(f.issues, Issue{
			Code:     r.code,
			Category: r.category,
			Message:  strings.ReplaceAll(r.issue, "{subject}", s.subject),
			Severity: r.severity,
		})
		issueRank = append(issueRank, idx)
		if r.severity == SeverityHigh {
			critical = true
		}
		if r.advice == "" || advised[r.code] {
			continue
		}
		advised[r.code] = true
		recType := TypeInfo
		if r.severity != SeverityLow {
			recType = TypeWarning
		}
		f.recommendations = append(f.recommendations, Recommendation{
			Code:     r.code,
			Category: r.category,
			Text:     r.advice,
			Type:     recType,
			Priority: r.priority,
		})
		recRank = append(recRank, idx)
	}

	if kw.Evaluated && len(kw.Missing) > 0 {
		priority := PriorityMedium
		if kw.Coverage() < lowKeywordCoverage {
			priority = PriorityHigh
		}
		listed := kw.Missing
		if len(listed) > maxListedKeywords {
			listed = listed[:maxListedKeywords]
		}
		f.recommendations = append(f.recommendations, Recommendation{
			Code:     recMissingKeywords,
			Category: CategoryATS,
			Text:     "Work these job description keywords into your CV where they honestly apply: " + strings.Join(listed, ", ") + ".",
			Type:     TypeInfo,
			Priority: priority,
		})
		recRank = append(recRank, ruleIndex[recMissingKeywords])
	}
	if !critical {
		f.recommendations = append(f.recommendations, Recommendation{
			Code:     recATSReady,
			Category: CategoryATS,
			Text:     "No critical ATS problems found. Tailor your keywords to each application to keep your score high.",
			Type:     TypeSuccess,
			Priority: PriorityLow,
		})
		recRank = append(recRank, ruleIndex[recATSReady])
	}

	sortByRank(f.issues, issueRank, func(i int) int { return severityWeight(f.issues[i].Severity) })
	sortByRank(f.recommendations, recRank, func(i int) int { return priorityWeight(f.recommendations[i].Priority) })

	seen := make(map[string]bool, len(positives))
	codes := make([]string, 0, len(positives))
	for _, code := range positives {
		if _, ok := strengthIndex[code]; ok && !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	sort.SliceStable(codes, func(i, j int) bool { return strengthIndex[codes[i]] < strengthIndex[codes[j]] })
	for _, code := range codes {
		s := strengthCatalog[strengthIndex[code]]
		f.strengths = append(f.strengths, Strength{Code: s.code, Category: s.category, Message: s.message})
	}
	return f
}

// sortByRank orders items by weight desc, then catalog rank, keeping
// emission order for equal keys.
func sortByRank[T any](items []T, rank []int, weight func(int) int) {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	weights := make([]int, len(items))
	for i := range items {
		weights[i] = weight(i)
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if weights[ia] != weights[ib] {
			return weights[ia] > weights[ib]
		}
		return rank[ia] < rank[ib]
	})
	sorted := make([]T, len(items))
	for i, idx := range order {
		sorted[i] = items[idx]
	}
	copy(items, sorted)
}

func severityWeight(s Severity) int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	default:
		return 1
	}
}

func priorityWeight(p Priority) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

func percent(share float64) string {
	return strconv.Itoa(int(math.Round(share*100))) + "%"
}
