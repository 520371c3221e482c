package main

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/conet/pkg/config"
	"github.com/dd0wney/conet/pkg/graphql"
	"github.com/dd0wney/conet/pkg/pipeline"
	"github.com/dd0wney/conet/pkg/query"
)

func testModel(t *testing.T) model {
	t.Helper()
	cfg := config.Default()
	cfg.Input.Data = "../../testdata/presence.csv"
	cfg.Input.Catalog = "../../testdata/catalog.csv"

	ctx := context.Background()
	run, err := pipeline.Load(ctx, &cfg, pipeline.Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	analysis, err := run.Analyze(ctx)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	schema, err := graphql.GenerateSchema(graphql.FromRun(run), nil)
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}

	next, _ := newModel(run, analysis, schema).Update(tea.WindowSizeMsg{Width: 160, Height: 60})
	return next.(model)
}

func send(m model, msgs ...tea.Msg) model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

var (
	tab      = tea.KeyMsg{Type: tea.KeyTab}
	shiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	down     = tea.KeyMsg{Type: tea.KeyDown}
	enter    = tea.KeyMsg{Type: tea.KeyEnter}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewSwitching(t *testing.T) {
	m := testModel(t)
	if m.currentView != dashboardView {
		t.Fatalf("initial view = %v", m.currentView)
	}
	if v := m.View(); !strings.Contains(v, "Timeline Entries:") || !strings.Contains(v, "persist:") {
		t.Errorf("dashboard missing content:\n%s", v)
	}

	m = send(m, tab, tab)
	if m.currentView != pairsView {
		t.Errorf("after two tabs view = %v, want pairs", m.currentView)
	}
	m = send(m, shiftTab, shiftTab, shiftTab)
	if m.currentView != queryView || !m.queryInput.Focused() {
		t.Errorf("shift+tab should wrap to the focused query view, got %v", m.currentView)
	}

	// q is text in the query console.
	m = send(m, runes("q"))
	if m.queryInput.Value() != "q" {
		t.Errorf("query input = %q", m.queryInput.Value())
	}

	m = send(m, tab)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q outside the console should quit")
	}
	if _, quit := cmd().(tea.QuitMsg); !quit {
		t.Error("expected tea.QuitMsg")
	}
}

func TestPatternsView(t *testing.T) {
	m := send(testModel(t), tab)
	if m.currentView != patternsView {
		t.Fatalf("view = %v", m.currentView)
	}
	if got := m.selectedPattern(); got != query.AllPatterns()[0] {
		t.Errorf("initial pattern = %v", got.Label())
	}

	// PostFMT Only, PreFMT Only, Donor Only, Donor & PreFMT Only, PreFMT & PostFMT Only.
	m = send(m, down, down, down, down)
	want := query.Criteria{PreFMT: true, PostFMT: true}
	if got := m.selectedPattern(); got != want {
		t.Fatalf("selected = %q, want %q", got.Label(), want.Label())
	}

	var all, rcdi int
	for _, row := range m.patternTable.Rows() {
		switch row[0] {
		case "All":
			all++
		case "rCDI":
			rcdi++
		}
	}
	if all != 2 || rcdi != 2 {
		t.Errorf("rows All=%d rCDI=%d, want 2 and 2: %v", all, rcdi, m.patternTable.Rows())
	}
	if v := m.View(); !strings.Contains(v, "Pairs matching "+want.Label()) {
		t.Errorf("view missing heading:\n%s", v)
	}
}

func TestPairsView(t *testing.T) {
	m := send(testModel(t), tab, tab)
	rows := m.pairTable.Rows()
	if len(rows) != 4 {
		t.Fatalf("pair rows = %d, want 4", len(rows))
	}
	if rows[0][1] != "tetM" || rows[0][2] != "Tn916" || rows[0][3] != "2" {
		t.Errorf("first row = %v", rows[0])
	}

	m = send(m, runes("d"))
	if !m.excludeDonor || m.messageErr {
		t.Fatalf("d should exclude donor timepoints")
	}
	if !strings.Contains(m.View(), "(donor excluded)") {
		t.Error("view should mark donor exclusion")
	}
	m = send(m, runes("d"))
	if m.excludeDonor {
		t.Error("second d should include donor timepoints again")
	}
}

func TestQueryView(t *testing.T) {
	m := send(testModel(t), shiftTab)

	m = send(m, enter)
	if !m.messageErr || m.message != "Query cannot be empty" {
		t.Errorf("empty query message = %q", m.message)
	}

	m.queryInput.SetValue("{ statistics { totalNodes } }")
	m = send(m, enter)
	if m.messageErr {
		t.Fatalf("query failed: %s", m.message)
	}
	if !strings.Contains(m.result, `"totalNodes": 22`) {
		t.Errorf("result = %s", m.result)
	}

	m.queryInput.SetValue("{ nope }")
	m = send(m, enter)
	if !m.messageErr || !strings.HasPrefix(m.message, "Query error:") {
		t.Errorf("message = %q", m.message)
	}
}
