package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	gql "github.com/graphql-go/graphql"

	"github.com/dd0wney/conet/pkg/graphql"
	"github.com/dd0wney/conet/pkg/pipeline"
	"github.com/dd0wney/conet/pkg/query"
	"github.com/dd0wney/conet/pkg/report"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	resultBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FFFF00")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	dashboardView view = iota
	patternsView
	pairsView
	queryView
	viewCount
)

var viewNames = []string{"Dashboard", "Patterns", "Pairs", "Query"}

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Donor    key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "run query"),
	),
	Donor: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "toggle donor"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Donor, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Enter},
		{k.Up, k.Down, k.Donor},
		{k.Quit},
	}
}

// patternItem is one presence pattern in the pattern list.
type patternItem struct {
	pattern query.Criteria
	entries int
	pairs   int
}

func (i patternItem) Title() string { return i.pattern.Label() }
func (i patternItem) Description() string {
	return fmt.Sprintf("%d entries, %d pairs", i.entries, i.pairs)
}
func (i patternItem) FilterValue() string { return i.pattern.Slug() }

type model struct {
	run      *pipeline.Run
	analysis *pipeline.Analysis
	schema   gql.Schema

	currentView  view
	patternList  list.Model
	patternTable table.Model
	pairTable    table.Model
	queryInput   textinput.Model
	result       string
	excludeDonor bool

	help       help.Model
	keys       keyMap
	width      int
	height     int
	message    string
	messageErr bool
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func newModel(run *pipeline.Run, analysis *pipeline.Analysis, schema gql.Schema) model {
	ti := textinput.New()
	ti.Placeholder = "{ statistics { totalNodes temporalEdges } }"
	ti.CharLimit = 500
	ti.Width = 80

	totals := report.PatternTotals(analysis.Patterns, analysis.Entries)
	items := make([]list.Item, 0, len(totals))
	for _, t := range totals {
		items = append(items, patternItem{pattern: t.Pattern, entries: t.Entries, pairs: t.Pairs})
	}
	patterns := list.New(items, list.NewDefaultDelegate(), 36, 20)
	patterns.Title = "Presence patterns"
	patterns.SetShowHelp(false)
	patterns.SetFilteringEnabled(false)

	m := model{
		run:      run,
		analysis: analysis,
		schema:   schema,

		currentView: dashboardView,
		patternList: patterns,
		patternTable: newTable([]table.Column{
			{Title: "Cohort", Width: 10},
			{Title: "ARG", Width: 16},
			{Title: "MGE", Width: 16},
			{Title: "Patients", Width: 8},
		}),
		pairTable: newTable([]table.Column{
			{Title: "Rank", Width: 5},
			{Title: "ARG", Width: 16},
			{Title: "MGE", Width: 16},
			{Title: "Entries", Width: 8},
		}),
		queryInput: ti,
		help:       help.New(),
		keys:       keys,
	}
	m.refreshPatternTable()
	m.refreshPairTable()
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		// Letters belong to the query input while it has focus.
		typing := m.currentView == queryView && msg.Type == tea.KeyRunes
		switch {
		case key.Matches(msg, m.keys.Quit) && !typing:
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.setView((m.currentView + 1) % viewCount)
			return m, nil

		case key.Matches(msg, m.keys.ShiftTab):
			m.setView((m.currentView + viewCount - 1) % viewCount)
			return m, nil

		case key.Matches(msg, m.keys.Enter) && m.currentView == queryView:
			m.executeQuery()
			return m, nil

		case key.Matches(msg, m.keys.Donor) && m.currentView == pairsView:
			m.excludeDonor = !m.excludeDonor
			m.refreshPairTable()
			m.message = "Donor timepoints included"
			if m.excludeDonor {
				m.message = "Donor timepoints excluded"
			}
			m.messageErr = false
			return m, nil
		}
	}

	// Update focused component
	switch m.currentView {
	case patternsView:
		before := m.patternList.Index()
		m.patternList, cmd = m.patternList.Update(msg)
		cmds = append(cmds, cmd)
		if m.patternList.Index() != before {
			m.refreshPatternTable()
		}
	case pairsView:
		m.pairTable, cmd = m.pairTable.Update(msg)
		cmds = append(cmds, cmd)
	case queryView:
		m.queryInput, cmd = m.queryInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) setView(v view) {
	m.currentView = v
	if v == queryView {
		m.queryInput.Focus()
	} else {
		m.queryInput.Blur()
	}
}

// selectedPattern returns the pattern under the list cursor.
func (m model) selectedPattern() query.Criteria {
	if item, ok := m.patternList.SelectedItem().(patternItem); ok {
		return item.pattern
	}
	return query.Criteria{}
}

func (m *model) refreshPatternTable() {
	c := m.selectedPattern()
	rows := make([]table.Row, 0)
	for _, set := range [][]report.PatternRow{m.analysis.Patterns, m.analysis.CohortPatterns} {
		for _, r := range set {
			if r.Pattern != c {
				continue
			}
			rows = append(rows, table.Row{
				r.Cohort,
				m.run.Catalog.ARGName(r.Pair.ARGID),
				m.run.Catalog.MGEName(r.Pair.MGEID),
				strconv.Itoa(r.Patients),
			})
		}
	}
	m.patternTable.SetRows(rows)
}

func (m *model) refreshPairTable() {
	ranked := m.analysis.TopPairs
	if m.excludeDonor {
		ranked = m.analysis.TopPairsExcludingDonor
	}
	rows := make([]table.Row, 0, len(ranked))
	for i, pc := range ranked {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			m.run.Catalog.ARGName(pc.Pair.ARGID),
			m.run.Catalog.MGEName(pc.Pair.MGEID),
			strconv.Itoa(pc.Count),
		})
	}
	m.pairTable.SetRows(rows)
}

func (m *model) executeQuery() {
	q := strings.TrimSpace(m.queryInput.Value())
	if q == "" {
		m.message = "Query cannot be empty"
		m.messageErr = true
		return
	}

	result := graphql.Execute(context.Background(), m.schema, q, nil, graphql.DefaultMaxDepth)
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		m.message = fmt.Sprintf("Encode error: %v", err)
		m.messageErr = true
		return
	}
	m.result = string(out)

	if result.HasErrors() {
		m.message = fmt.Sprintf("Query error: %s", result.Errors[0].Message)
		m.messageErr = true
		return
	}
	m.message = "Query executed successfully"
	m.messageErr = false
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("CoNet run " + m.run.ID))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case dashboardView:
		s.WriteString(m.renderDashboard())
	case patternsView:
		s.WriteString(m.renderPatterns())
	case pairsView:
		s.WriteString(m.renderPairs())
	case queryView:
		s.WriteString(m.renderQuery())
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	var renderedTabs []string
	for i, tab := range viewNames {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m model) renderDashboard() string {
	st := m.run.Statistics
	var graphBox strings.Builder
	fmt.Fprintf(&graphBox, "Graph\n━━━━━━━━━━━━━━━\n")
	header, row := st.Header(), st.Row()
	for i := range header {
		fmt.Fprintf(&graphBox, "%-24s %s\n", header[i]+":", row[i])
	}
	fmt.Fprintf(&graphBox, "%-24s %d\n", "Records:", m.run.Build.Records)
	fmt.Fprintf(&graphBox, "%-24s %d", "Timeline Entries:", len(m.run.Timeline))

	var dynBox strings.Builder
	fmt.Fprintf(&dynBox, "Dynamics\n━━━━━━━━━━━━━━━\n")
	for _, d := range query.AllDynamics() {
		fmt.Fprintf(&dynBox, "%-10s %d\n", d.String()+":", len(m.analysis.Dynamics[d]))
	}
	fmt.Fprintf(&dynBox, "\nCohorts\n━━━━━━━━━━━━━━━")
	for _, label := range m.run.Cohorts.Labels() {
		n := 0
		for _, l := range m.run.Cohorts {
			if l == label {
				n++
			}
		}
		fmt.Fprintf(&dynBox, "\n%-10s %d patients", label, n)
	}

	var topBox strings.Builder
	fmt.Fprintf(&topBox, "Top ARGs\n━━━━━━━━━━━━━━━")
	for _, ec := range m.analysis.TopARGs {
		fmt.Fprintf(&topBox, "\n%-16s %d", m.run.Catalog.ARGName(ec.ID), ec.Count)
	}
	fmt.Fprintf(&topBox, "\n\nTop MGEs\n━━━━━━━━━━━━━━━")
	for _, ec := range m.analysis.TopMGEs {
		fmt.Fprintf(&topBox, "\n%-16s %d", m.run.Catalog.MGEName(ec.ID), ec.Count)
	}

	return contentStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		statsBoxStyle.Render(graphBox.String()),
		statsBoxStyle.Render(dynBox.String()),
		statsBoxStyle.Render(topBox.String()),
	))
}

func (m model) renderPatterns() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Pairs matching " + m.selectedPattern().Label()))
	s.WriteString("\n\n")
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.patternList.View(), "  ", m.patternTable.View()))
	return contentStyle.Render(s.String())
}

func (m model) renderPairs() string {
	var s strings.Builder
	title := "Top pairs by timeline entries"
	if m.excludeDonor {
		title += " (donor excluded)"
	}
	s.WriteString(headerStyle.Render(title))
	s.WriteString("\n\n")
	s.WriteString(m.pairTable.View())
	return contentStyle.Render(s.String())
}

func (m model) renderQuery() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("GraphQL Console"))
	s.WriteString("\n\n")
	s.WriteString(m.queryInput.View())
	s.WriteString("\n\n")

	if m.result != "" {
		lines := strings.Split(m.result, "\n")
		if maxLines := m.height - 16; maxLines > 0 && len(lines) > maxLines {
			lines = append(lines[:maxLines], fmt.Sprintf("... %d more lines", len(lines)-maxLines))
		}
		s.WriteString(resultBoxStyle.Render(strings.Join(lines, "\n")))
		return contentStyle.Render(s.String())
	}

	s.WriteString(helpStyle.Render("Examples:\n"))
	s.WriteString(helpStyle.Render("  { topPairs(limit: 5) { label count } }\n"))
	s.WriteString(helpStyle.Render("  { dynamics(class: \"persist\") { patient arg { name } mge { name } timepoints } }\n"))
	s.WriteString(helpStyle.Render("  { connectedARGs(mge: \"Tn916\") { arg { name } patients } }\n"))

	return contentStyle.Render(s.String())
}
