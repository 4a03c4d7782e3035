package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Veraticus/rota/internal/model"
	"github.com/Veraticus/rota/internal/roster"
	"github.com/stretchr/testify/assert"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"Pattern", "Code"}, [][]string{
		{"M-M-M-M-M-RD-RD", "5-2 Rotation"},
		{"N", "N"},
	})

	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[0], "Pattern")
	assert.Contains(t, out, "M-M-M-M-M-RD-RD")
	assert.Contains(t, out, "5-2 Rotation")

	// Columns line up: the code column starts at the same offset on every row.
	first := strings.Index(lines[len(lines)-2], "5-2 Rotation")
	last := strings.Index(lines[len(lines)-1], "N")
	assert.Positive(t, first)
	assert.Equal(t, 0, last)
	assert.Equal(t, first, strings.LastIndex(lines[len(lines)-1], "N"))
}

func TestRenderMatch(t *testing.T) {
	matched := RenderMatch("M-M-RD", model.MatchResult{Code: "PAX-M", Stage: model.StageSimilarity, Confidence: 0.75})
	assert.Contains(t, matched, "PAX-M")
	assert.Contains(t, matched, "stage similarity, confidence 0.75")

	none := RenderMatch("A-M-N", model.NoMatch())
	assert.Contains(t, none, "No code found for A-M-N")
}

func TestRenderEncoded(t *testing.T) {
	out := RenderEncoded(model.EncodedRow{
		Pattern:   "M-M-RD",
		Labels:    []model.ShiftLabel{model.LabelMorning, model.LabelMorning, model.LabelRestDay},
		Histogram: map[model.ShiftLabel]int{model.LabelMorning: 2, model.LabelRestDay: 1},
	})
	assert.Contains(t, out, "M-M-RD")
	assert.Contains(t, out, "M=2 RD=1")
}

func TestRenderReport(t *testing.T) {
	report := model.DetectionReport{
		RunID: "run-1",
		Results: []model.DetectionResult{
			{RowID: "E1", Pattern: "M-M-M", Match: model.MatchResult{Code: "M", Stage: model.StagePeriodicity, Confidence: 1}, Learned: true},
			{RowID: "E2", Pattern: "A-M-N", Match: model.NoMatch(), Unknown: true},
		},
		Matched: 1,
		Learned: 1,
		Unknown: 1,
	}

	out := RenderReport(report, []string{"01/06", "03/06"})
	assert.Contains(t, out, "Roster Begin")
	assert.Contains(t, out, "03/06")
	assert.Contains(t, out, "unknown")
	assert.Contains(t, out, "Detection run run-1")
	assert.Contains(t, out, "Rows: 2   Matched: 1   Learned: 1   Unknown: 1")

	assert.NotContains(t, RenderReport(report, nil), "Roster Begin")
}

func TestRenderClusters(t *testing.T) {
	assert.Contains(t, RenderClusters(nil), "Not enough unknown patterns")

	out := RenderClusters([]model.Cluster{
		{ID: 0, Patterns: []string{"M-M", "A-A"}},
		{ID: 2, Patterns: []string{"N-RD-N-RD-N-RD"}},
	})
	assert.Contains(t, out, "2 clusters of unknown patterns")
	assert.Contains(t, out, "Cluster 0 (2 patterns)")
	assert.Contains(t, out, "Cluster 2 (1 patterns)")
	assert.Contains(t, out, "  N-RD-N-RD-N-RD")
}

func TestRenderInsights(t *testing.T) {
	out := RenderInsights(model.Insights{
		TotalRows:   3,
		UniqueCodes: 2,
		TopCodes:    []model.CodeCount{{Code: "PAX-M", Count: 2}, {Code: "N", Count: 1}},
		Distribution: []model.LabelShare{
			{Label: model.LabelMorning, Count: 3, Percent: 75},
			{Label: model.LabelRestDay, Count: 1, Percent: 25},
		},
	})
	assert.Contains(t, out, "Rows: 3   Unique codes: 2")
	assert.Contains(t, out, "PAX-M")
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "25.0%")
}

func TestRenderCodes(t *testing.T) {
	assert.Contains(t, RenderCodes(nil), "No codes")

	out := RenderCodes([]string{"a", "b", "c", "d", "e", "f", "g"})
	assert.Equal(t, "a  b  c  d  e  f\ng", out)
}

func TestRenderLearned(t *testing.T) {
	assert.Contains(t, RenderLearned(nil), "No learned patterns")

	out := RenderLearned(map[string]string{"N-N": "N", "M-M": "M"})
	assert.Less(t, strings.Index(out, "M-M"), strings.Index(out, "N-N"))
}

func TestRenderValidation(t *testing.T) {
	assert.Contains(t, RenderValidation(model.CodeValidation{Valid: 4}), "All 4 pattern codes are valid")

	out := RenderValidation(model.CodeValidation{Valid: 2, Invalid: []string{"XX", "YY"}})
	assert.Contains(t, out, "Found 2 invalid pattern codes")
	assert.Contains(t, out, "Valid patterns: 2")
	assert.Contains(t, out, "XX, YY")
}

func TestRenderIssues(t *testing.T) {
	assert.Contains(t, RenderIssues(nil), "All data looks good")

	out := RenderIssues([]roster.Issue{{Kind: roster.IssueMissingIDs, Count: 3}})
	assert.Contains(t, out, "Missing Employee IDs: 3")
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 2, "Detecting patterns...")
	p.Advance()
	p.Advance()
	p.Finish()

	assert.Contains(t, buf.String(), "Detecting patterns...")
}
