package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-analyzer/internal/analyzer"
)

const sampleCV = `Alex Doe
Senior Backend Engineer
alex@example.com | +44 20 7946 0958 | linkedin.com/in/alexdoe

Professional Summary
Backend engineer with eight years of experience.
Focused on payments.

Work Experience
Senior Backend Engineer at Paylane
2021 - Present
• Led a team of 6 engineers
• Reduced latency by 40%

Engineer, Acme
Jan 2016 – Dec 2020
• Built reporting

Education
BSc Computer Science, University of Leeds
2012 - 2015

Skills:
Languages: Go, Python; SQL
Kubernetes | Docker | go
`

func TestParseDocument(t *testing.T) {
	doc := ParseDocument(sampleCV, ".TXT")

	assert.Equal(t, "txt", doc.FileType)
	assert.Equal(t, "Alex Doe", doc.PersonalInfo.Name)
	assert.Equal(t, "Senior Backend Engineer", doc.PersonalInfo.Title)
	assert.Equal(t, "alex@example.com", doc.PersonalInfo.Email)
	assert.Equal(t, "+44 20 7946 0958", doc.PersonalInfo.Phone)
	assert.Equal(t, "linkedin.com/in/alexdoe", doc.PersonalInfo.LinkedIn)
	assert.Empty(t, doc.PersonalInfo.Website)
	assert.Equal(t, "Backend engineer with eight years of experience. Focused on payments.", doc.PersonalInfo.Summary)

	require.Len(t, doc.Experience, 2)
	assert.Equal(t, analyzer.ExperienceEntry{
		Position:    "Senior Backend Engineer",
		Company:     "Paylane",
		Duration:    "2021 - Present",
		Description: "• Led a team of 6 engineers\n• Reduced latency by 40%",
	}, doc.Experience[0])
	assert.Equal(t, "Engineer", doc.Experience[1].Position)
	assert.Equal(t, "Acme", doc.Experience[1].Company)
	assert.Equal(t, "Jan 2016 – Dec 2020", doc.Experience[1].Duration)

	require.Len(t, doc.Education, 1)
	assert.Equal(t, "BSc Computer Science", doc.Education[0].Degree)
	assert.Equal(t, "University of Leeds", doc.Education[0].School)
	assert.Equal(t, "2012 - 2015", doc.Education[0].Duration)

	names := make([]string, 0, len(doc.Skills))
	for _, s := range doc.Skills {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Go", "Python", "SQL", "Kubernetes", "Docker"}, names)
	assert.Equal(t, []string{"Professional Summary", "Work Experience", "Education", "Skills"}, doc.SectionOrder)
}

func TestParseDocumentFeedsAnalyzer(t *testing.T) {
	r := analyzer.Analyze(ParseDocument(sampleCV, "txt"), "")
	assert.Empty(t, r.MissingSections)
}

func TestParseDocumentWithoutHeadings(t *testing.T) {
	doc := ParseDocument("Just a name\nand a line of prose about nothing", "pdf")

	assert.Equal(t, "Just a name", doc.PersonalInfo.Name)
	assert.Equal(t, "and a line of prose about nothing", doc.PersonalInfo.Title)
	assert.Empty(t, doc.Experience)
	assert.Empty(t, doc.SectionOrder)
}

func TestParseDocumentWebsiteAndUnknownSections(t *testing.T) {
	text := "Sam Roe\nhttps://samroe.dev\n\nProjects\nA side project\n\nExperience\nDeveloper - Initech\n2019 to 2020\nBuilt a thing\n"
	doc := ParseDocument(text, "docx")

	assert.Equal(t, "https://samroe.dev", doc.PersonalInfo.Website)
	assert.Equal(t, []string{"Projects", "Experience"}, doc.SectionOrder)
	require.Len(t, doc.Experience, 1)
	assert.Equal(t, "Developer", doc.Experience[0].Position)
	assert.Equal(t, "Initech", doc.Experience[0].Company)
	assert.Equal(t, "2019 to 2020", doc.Experience[0].Duration)
	assert.Equal(t, "Built a thing", doc.Experience[0].Description)
}

func TestTakeDuration(t *testing.T) {
	d, rest, ok := takeDuration("Paylane | Mar. 2019 - current")
	assert.True(t, ok)
	assert.Equal(t, "Mar. 2019 - current", d)
	assert.Equal(t, "Paylane", rest)

	_, _, ok = takeDuration("no dates here")
	assert.False(t, ok)
}

func TestParseExperienceKeepsExtraHeaderLines(t *testing.T) {
	doc := ParseDocument("Experience\nStaff Engineer\nGlobex\nRemote team of 4\n• Shipped billing\n", "txt")

	require.Len(t, doc.Experience, 1)
	assert.Equal(t, analyzer.ExperienceEntry{
		Position:    "Staff Engineer",
		Company:     "Globex",
		Description: "Remote team of 4\n• Shipped billing",
	}, doc.Experience[0])
}
