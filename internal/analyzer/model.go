package analyzer

import "time"

// PersonalInfo carries identity and contact fields. Only presence is evaluated.
type PersonalInfo struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	Website  string `json:"website"`
}

// ExperienceEntry is one work history item. Duration is free text.
type ExperienceEntry struct {
	Position    string `json:"position"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// EducationEntry is one education item.
type EducationEntry struct {
	Degree      string `json:"degree"`
	School      string `json:"school"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Skill is a named skill with an optional level.
type Skill struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

// CVDocument is the structured résumé handed over by the extraction step.
// The analyzer treats it as read-only.
type CVDocument struct {
	PersonalInfo PersonalInfo      `json:"personalInfo"`
	Experience   []ExperienceEntry `json:"experience"`
	Education    []EducationEntry  `json:"education"`
	Skills       []Skill           `json:"skills"`
	FileType     string            `json:"fileType,omitempty"`
	// SectionOrder lists section headings in the order they appeared in the
	// source file, when the extractor could observe it.
	SectionOrder []string `json:"sectionOrder,omitempty"`
}

// Severity grades an issue.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Priority grades a recommendation.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// RecommendationType is the presentation hint attached to a recommendation.
type RecommendationType string

const (
	TypeInfo    RecommendationType = "info"
	TypeWarning RecommendationType = "warning"
	TypeSuccess RecommendationType = "success"
)

// Category is the stable label attached to every finding.
type Category string

const (
	CategoryContent     Category = "Content"
	CategoryGrammar     Category = "Grammar"
	CategoryImpact      Category = "Impact"
	CategoryATS         Category = "ATS"
	CategoryClarity     Category = "Clarity"
	CategoryActionVerbs Category = "Action_Verbs"
	CategoryFormat      Category = "Format"
)

// Issue is a detected defect.
type Issue struct {
	Code     string   `json:"code"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Recommendation is advisory text for the candidate.
type Recommendation struct {
	Code     string             `json:"code"`
	Category Category           `json:"category"`
	Text     string             `json:"text"`
	Type     RecommendationType `json:"type"`
	Priority Priority           `json:"priority"`
}

// Strength is a positive observation.
type Strength struct {
	Code     string   `json:"code"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

// ScoreComponent explains how one sub-score contributed to the overall score.
type ScoreComponent struct {
	Key          string  `json:"key"`
	Label        string  `json:"label"`
	Score        int     `json:"score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// Result is the outcome of one analysis. It shares no memory with the input.
type Result struct {
	OverallScore          int `json:"overall_score"`
	FileFormatScore       int `json:"file_format_score"`
	LayoutScore           int `json:"layout_score"`
	FontScore             int `json:"font_score"`
	ContentStructureScore int `json:"content_structure_score"`
	ReadabilityScore      int `json:"readability_score"`
	KeywordScore          int `json:"keyword_score"`
	FormatScore           int `json:"format_score"`

	Rating      string `json:"rating"`
	RatingColor string `json:"rating_color"`

	Issues          []Issue          `json:"issues"`
	Recommendations []Recommendation `json:"recommendations"`
	Strengths       []Strength       `json:"strengths"`

	KeywordsFound   []string         `json:"keywords_found"`
	KeywordsMissing []string         `json:"keywords_missing"`
	MissingSections []string         `json:"missing_sections"`
	Breakdown       []ScoreComponent `json:"breakdown"`

	TotalWords    int       `json:"total_words"`
	FileExtension string    `json:"file_extension"`
	AnalyzedAt    time.Time `json:"analyzed_at"`
}
