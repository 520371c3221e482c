package graphql

import (
	"strings"
	"testing"
)

func TestValidateQueryDepth(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		maxDepth int
		wantErr  bool
	}{
		{"flat", `{ health }`, 1, false},
		{"one level", `{ statistics { totalNodes } }`, 2, false},
		{"edge endpoints", `{ edges { source { entity { name } } } }`, 4, false},
		{"too deep", `{ edges { source { entity { name } } } }`, 3, true},
		{"introspection ignored", `{ __schema { types { name } } health }`, 1, false},
		{"inline fragment", `{ timeline { ... on TimelineEntry { arg { name } } } }`, 3, false},
		{"fragment spread", `
			fragment ends on Edge { source { entity { name } } }
			{ edges { ...ends } }`, 3, true},
		{"fragment spread within limit", `
			fragment ends on Edge { source { entity { name } } }
			{ edges { ...ends } }`, 4, false},
		{"parse error", `{ edges { `, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQueryDepth(tt.query, tt.maxDepth)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateQueryDepth() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExecuteRejectsDeepQuery(t *testing.T) {
	schema, _ := testSchema(t)

	q := `{ edges(limit: 1) { source { entity { name } } } }`
	if result := Execute(t.Context(), schema, q, nil, 3); !result.HasErrors() {
		t.Fatal("expected depth error")
	} else if !strings.Contains(result.Errors[0].Message, "exceeds maximum allowed depth") {
		t.Errorf("error = %v", result.Errors[0].Message)
	}
	if result := Execute(t.Context(), schema, q, nil, 0); result.HasErrors() {
		t.Fatalf("unlimited depth failed: %v", result.Errors)
	}
}

func TestExecuteWithVariables(t *testing.T) {
	schema, _ := testSchema(t)

	q := `query($p: Int, $c: String) { timeline(patient: $p, cohort: $c) { patient } }`
	result := Execute(t.Context(), schema, q, map[string]any{"p": 3, "c": "UC"}, DefaultMaxDepth)
	if result.HasErrors() {
		t.Fatalf("query failed: %v", result.Errors)
	}
	entries := result.Data.(map[string]any)["timeline"].([]any)
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
}

func TestLimitConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  LimitConfig
		wantErr bool
	}{
		{"valid", LimitConfig{DefaultLimit: 10, MaxLimit: 100}, false},
		{"zero max", LimitConfig{DefaultLimit: 10, MaxLimit: 0}, true},
		{"default above max", LimitConfig{DefaultLimit: 200, MaxLimit: 100}, true},
		{"zero default", LimitConfig{DefaultLimit: 0, MaxLimit: 100}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateLimitConfig(&tt.config); (err != nil) != tt.wantErr {
				t.Errorf("ValidateLimitConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	cfg := &LimitConfig{DefaultLimit: 5, MaxLimit: 50}
	for requested, want := range map[int]int{-1: 5, 0: 0, 7: 7, 500: 50} {
		if got := applyLimit(requested, cfg); got != want {
			t.Errorf("applyLimit(%d) = %d, want %d", requested, got, want)
		}
	}
}

func TestDefaultLimitCapsResults(t *testing.T) {
	_, run := testSchema(t)
	d := &Data{Graph: run.Graph, Catalog: run.Catalog, Timeline: run.Timeline}
	limited, err := GenerateSchema(d, &LimitConfig{DefaultLimit: 2, MaxLimit: 4})
	if err != nil {
		t.Fatal(err)
	}
	count := func(q string) int {
		result := ExecuteQuery(q, limited)
		if result.HasErrors() {
			t.Fatalf("query failed: %v", result.Errors)
		}
		return len(result.Data.(map[string]any)["nodes"].([]any))
	}
	if n := count(`{ nodes { id } }`); n != 2 {
		t.Errorf("default limit returned %d nodes, want 2", n)
	}
	if n := count(`{ nodes(limit: 100) { id } }`); n != 4 {
		t.Errorf("max limit returned %d nodes, want 4", n)
	}

	if _, err := GenerateSchema(d, &LimitConfig{DefaultLimit: 9, MaxLimit: 4}); err == nil {
		t.Error("expected invalid limit config error")
	}
}
