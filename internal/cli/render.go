package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Veraticus/rota/internal/model"
	"github.com/Veraticus/rota/internal/roster"
	"github.com/charmbracelet/lipgloss"
)

// RenderTable lays out rows under a bold header with padded columns.
func RenderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	line := func(cells []string) string {
		rendered := make([]string, len(widths))
		for i, w := range widths {
			var text string
			if i < len(cells) {
				text = cells[i]
			}
			rendered[i] = TableCellStyle.Width(w + 2).Render(text)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, TableHeaderStyle.Render(line(headers)))
	for _, row := range rows {
		lines = append(lines, line(row))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func percent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}

func confidence(c float64) string {
	return strconv.FormatFloat(c, 'f', 2, 64)
}

// RenderEncoded shows the labels and histogram of one classified row.
func RenderEncoded(encoded model.EncodedRow) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", BoldStyle.Render("Pattern:"), encoded.Pattern)

	counts := make([]string, 0, len(model.Labels))
	for _, l := range model.Labels {
		if n := encoded.Histogram[l]; n > 0 {
			counts = append(counts, fmt.Sprintf("%s=%d", l, n))
		}
	}
	fmt.Fprintf(&sb, "%s %s", BoldStyle.Render("Shifts:"), strings.Join(counts, " "))
	return sb.String()
}

// RenderMatch shows the outcome of matching a single pattern.
func RenderMatch(pattern string, result model.MatchResult) string {
	if !result.Matched() {
		return FormatWarning(fmt.Sprintf("No code found for %s", pattern))
	}
	return FormatSuccess(fmt.Sprintf("%s → %s", pattern, BoldStyle.Render(result.Code))) +
		"\n" + SubtleStyle.Render(fmt.Sprintf("stage %s, confidence %s", result.Stage, confidence(result.Confidence)))
}

// RenderReport shows a detection run as a table followed by its totals.
// begins, when non-nil, holds each row's roster begin column.
func RenderReport(report model.DetectionReport, begins []string) string {
	headers := []string{"Employee", "Pattern", "Code", "Stage", "Confidence"}
	if begins != nil {
		headers = append(headers, "Roster Begin")
	}

	rows := make([][]string, 0, len(report.Results))
	for i, r := range report.Results {
		code := r.Match.Code
		if r.Unknown {
			code = WarningStyle.Render("unknown")
		}
		row := []string{r.RowID, r.Pattern, code, string(r.Match.Stage), confidence(r.Match.Confidence)}
		if begins != nil {
			var begin string
			if i < len(begins) {
				begin = begins[i]
			}
			row = append(row, begin)
		}
		rows = append(rows, row)
	}

	summary := fmt.Sprintf("Rows: %d   Matched: %d   Learned: %d   Unknown: %d",
		len(report.Results), report.Matched, report.Learned, report.Unknown)

	return lipgloss.JoinVertical(lipgloss.Left,
		RenderTable(headers, rows),
		"",
		RenderBox("Detection run "+report.RunID, summary),
	)
}

// RenderClusters lists each cluster's patterns.
func RenderClusters(clusters []model.Cluster) string {
	if len(clusters) == 0 {
		return FormatInfo("Not enough unknown patterns to cluster")
	}

	var sb strings.Builder
	sb.WriteString(FormatTitle(fmt.Sprintf("%d clusters of unknown patterns", len(clusters))))
	for _, c := range clusters {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "%s\n", BoldStyle.Render(fmt.Sprintf("Cluster %d (%d patterns)", c.ID, len(c.Patterns))))
		for _, p := range c.Patterns {
			fmt.Fprintf(&sb, "  %s\n", p)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RenderInsights shows the top codes and the shift distribution.
func RenderInsights(insights model.Insights) string {
	codeRows := make([][]string, 0, len(insights.TopCodes))
	for _, c := range insights.TopCodes {
		codeRows = append(codeRows, []string{c.Code, strconv.Itoa(c.Count)})
	}

	shiftRows := make([][]string, 0, len(insights.Distribution))
	for _, s := range insights.Distribution {
		shiftRows = append(shiftRows, []string{s.Label.String(), strconv.Itoa(s.Count), percent(s.Percent)})
	}

	totals := fmt.Sprintf("Rows: %d   Unique codes: %d", insights.TotalRows, insights.UniqueCodes)

	return lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render(ChartIcon+" Pattern insights"),
		totals,
		"",
		RenderTable([]string{"Top code", "Rows"}, codeRows),
		"",
		RenderTable([]string{"Shift", "Count", "Share"}, shiftRows),
	)
}

// RenderCodes lists catalog codes, several to a line.
func RenderCodes(codes []string) string {
	const perLine = 6
	if len(codes) == 0 {
		return FormatInfo("No codes")
	}

	var lines []string
	for chunk := range slices.Chunk(codes, perLine) {
		lines = append(lines, strings.Join(chunk, "  "))
	}
	return strings.Join(lines, "\n")
}

// RenderLearned lists learned mappings ordered by pattern.
func RenderLearned(mappings map[string]string) string {
	if len(mappings) == 0 {
		return FormatInfo("No learned patterns yet")
	}

	patterns := make([]string, 0, len(mappings))
	for p := range mappings {
		patterns = append(patterns, p)
	}
	slices.Sort(patterns)

	rows := make([][]string, 0, len(patterns))
	for _, p := range patterns {
		rows = append(rows, []string{p, mappings[p]})
	}
	return RenderTable([]string{"Pattern", "Code"}, rows)
}

// RenderValidation shows the result of checking assigned codes against the catalog.
func RenderValidation(v model.CodeValidation) string {
	if len(v.Invalid) == 0 {
		return FormatSuccess(fmt.Sprintf("All %d pattern codes are valid", v.Valid))
	}
	return FormatWarning(fmt.Sprintf("Found %d invalid pattern codes", len(v.Invalid))) +
		"\n" + fmt.Sprintf("Valid patterns: %d", v.Valid) +
		"\n" + ErrorStyle.Render(strings.Join(v.Invalid, ", "))
}

// RenderIssues shows roster data problems.
func RenderIssues(issues []roster.Issue) string {
	if len(issues) == 0 {
		return FormatSuccess("All data looks good")
	}
	lines := make([]string, len(issues))
	for i, issue := range issues {
		lines[i] = FormatWarning(issue.String())
	}
	return strings.Join(lines, "\n")
}
