package engine

import (
	"cmp"
	"slices"

	"github.com/Veraticus/rota/internal/model"
)

const topCodeCount = 5

// Insights summarises a detection run: the five most frequent codes and the
// share of each working and rest label across all rows.
func (e *Engine) Insights(results []model.DetectionResult) model.Insights {
	insights := model.Insights{TotalRows: len(results)}

	counts := make(map[string]int)
	labels := make(map[model.ShiftLabel]int)
	for _, r := range results {
		if r.Match.Code != "" {
			counts[r.Match.Code]++
		}
		for _, l := range r.Labels {
			labels[l]++
		}
	}
	insights.UniqueCodes = len(counts)

	for code, n := range counts {
		insights.TopCodes = append(insights.TopCodes, model.CodeCount{Code: code, Count: n})
	}
	slices.SortFunc(insights.TopCodes, func(a, b model.CodeCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
	if len(insights.TopCodes) > topCodeCount {
		insights.TopCodes = insights.TopCodes[:topCodeCount]
	}

	tracked := []model.ShiftLabel{model.LabelMorning, model.LabelAfternoon, model.LabelNight, model.LabelRestDay}
	total := 0
	for _, l := range tracked {
		total += labels[l]
	}
	for _, l := range tracked {
		share := model.LabelShare{Label: l, Count: labels[l]}
		if total > 0 {
			share.Percent = float64(labels[l]) / float64(total) * 100
		}
		insights.Distribution = append(insights.Distribution, share)
	}

	return insights
}
