package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/conet/pkg/graph"
	"github.com/dd0wney/conet/pkg/query"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 1).
			MarginRight(1)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))
)

// PatternTotal summarizes one pattern over all patients.
type PatternTotal struct {
	Pattern query.Criteria
	Entries int
	Pairs   int
}

// Summary is what a run prints when it finishes.
type Summary struct {
	RunID    string
	Stats    graph.Statistics
	Build    graph.BuildStats
	Timeline int
	Patterns []PatternTotal
	TopPairs []string
	Outputs  []string
	Unstyled bool
}

// PatternTotals counts the matching entries and pairs of each pattern.
// entries holds the number of timeline entries per pattern; pairs are
// counted from rows. Every pattern is listed, in AllPatterns order.
func PatternTotals(rows []PatternRow, entries map[query.Criteria]int) []PatternTotal {
	pairs := make(map[query.Criteria]int)
	for _, r := range rows {
		pairs[r.Pattern]++
	}
	out := make([]PatternTotal, 0, 8)
	for _, c := range query.AllPatterns() {
		out = append(out, PatternTotal{Pattern: c, Entries: entries[c], Pairs: pairs[c]})
	}
	return out
}

// Render formats the summary as styled terminal boxes.
func (s Summary) Render() string {
	render := func(st lipgloss.Style, text string) string {
		if s.Unstyled {
			return text
		}
		return st.Render(text)
	}

	var graphBox strings.Builder
	graphBox.WriteString(render(headingStyle, "Graph") + "\n")
	header, row := s.Stats.Header(), s.Stats.Row()
	for i := range header {
		fmt.Fprintf(&graphBox, "%-24s %s\n", header[i]+":", row[i])
	}
	fmt.Fprintf(&graphBox, "%-24s %d\n", "Records:", s.Build.Records)
	fmt.Fprintf(&graphBox, "%-24s %d\n", "Skipped Records:", s.Build.Skipped())
	fmt.Fprintf(&graphBox, "%-24s %d", "Timeline Entries:", s.Timeline)

	var patternBox strings.Builder
	patternBox.WriteString(render(headingStyle, "Patterns") + "\n")
	for i, p := range s.Patterns {
		fmt.Fprintf(&patternBox, "%-24s %5d entries %4d pairs", p.Pattern.Label()+":", p.Entries, p.Pairs)
		if i < len(s.Patterns)-1 {
			patternBox.WriteString("\n")
		}
	}

	boxes := []string{render(boxStyle, graphBox.String()), render(boxStyle, patternBox.String())}
	if len(s.TopPairs) > 0 {
		var top strings.Builder
		top.WriteString(render(headingStyle, "Top Pairs"))
		for i, p := range s.TopPairs {
			fmt.Fprintf(&top, "\n%2d. %s", i+1, p)
		}
		boxes = append(boxes, render(boxStyle, top.String()))
	}

	var out strings.Builder
	out.WriteString(render(titleStyle, "CoNet run "+s.RunID))
	out.WriteString("\n")
	if s.Unstyled {
		out.WriteString(strings.Join(boxes, "\n\n"))
	} else {
		out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	if len(s.Outputs) > 0 {
		out.WriteString("\n\nWrote:\n")
		for _, o := range s.Outputs {
			out.WriteString("  " + o + "\n")
		}
	}
	return out.String()
}
