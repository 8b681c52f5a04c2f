package analyzer

import "math"

type subScores struct {
	fileFormat       int
	layout           int
	font             int
	contentStructure int
	readability      int
	format           int
	keyword          int
}

type weight struct {
	key    string
	label  string
	weight float64
	score  func(subScores) int
}

// weights sum to 1. file_format is reported but not weighted.
var weights = []weight{
	{"format", "Format", 0.20, func(s subScores) int { return s.format }},
	{"layout", "Layout", 0.15, func(s subScores) int { return s.layout }},
	{"font", "Font & characters", 0.10, func(s subScores) int { return s.font }},
	{"content_structure", "Content structure", 0.25, func(s subScores) int { return s.contentStructure }},
	{"readability", "Readability", 0.20, func(s subScores) int { return s.readability }},
	{"keywords", "Keywords", 0.10, func(s subScores) int { return s.keyword }},
}

func aggregate(s subScores) (int, []ScoreComponent) {
	total := 0.0
	breakdown := make([]ScoreComponent, 0, len(weights))
	for _, w := range weights {
		score := w.score(s)
		contribution := w.weight * float64(score)
		total += contribution
		breakdown = append(breakdown, ScoreComponent{
			Key:          w.key,
			Label:        w.label,
			Score:        score,
			Weight:       w.weight,
			Contribution: math.Round(contribution*100) / 100,
		})
	}
	return clampScore(int(math.Round(total))), breakdown
}

type ratingTier struct {
	min    int
	rating string
	color  string
}

var ratingTiers = []ratingTier{
	{90, "Excellent", "green"},
	{80, "Good", "blue"},
	{70, "Fair", "yellow"},
	{60, "Needs Improvement", "orange"},
	{0, "Poor", "red"},
}

// Rate maps an overall score to its rating label and colour. Lower bounds
// are inclusive.
func Rate(score int) (rating, color string) {
	for _, t := range ratingTiers {
		if score >= t.min {
			return t.rating, t.color
		}
	}
	last := ratingTiers[len(ratingTiers)-1]
	return last.rating, last.color
}
