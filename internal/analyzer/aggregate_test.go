package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRate(t *testing.T) {
	tests := []struct {
		score  int
		rating string
		color  string
	}{
		{100, "Excellent", "green"},
		{90, "Excellent", "green"},
		{89, "Good", "blue"},
		{80, "Good", "blue"},
		{79, "Fair", "yellow"},
		{70, "Fair", "yellow"},
		{69, "Needs Improvement", "orange"},
		{60, "Needs Improvement", "orange"},
		{59, "Poor", "red"},
		{0, "Poor", "red"},
	}
	for _, tt := range tests {
		rating, color := Rate(tt.score)
		assert.Equal(t, tt.rating, rating, "score %d", tt.score)
		assert.Equal(t, tt.color, color, "score %d", tt.score)
	}
}

func TestWeightsSumToOne(t *testing.T) {
	total := 0.0
	for _, w := range weights {
		total += w.weight
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestAggregate(t *testing.T) {
	overall, breakdown := aggregate(subScores{
		fileFormat:       10,
		layout:           80,
		font:             90,
		contentStructure: 60,
		readability:      70,
		format:           50,
		keyword:          100,
	})
	// 10 + 12 + 9 + 15 + 14 + 10
	assert.Equal(t, 70, overall)
	require.Len(t, breakdown, 6)
	assert.Equal(t, "content_structure", breakdown[3].Key)
	assert.InDelta(t, 15.0, breakdown[3].Contribution, 1e-9)
	for _, c := range breakdown {
		assert.NotEqual(t, "file_format", c.Key)
	}
}
