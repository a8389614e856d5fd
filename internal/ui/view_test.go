package ui

import (
	"strings"
	"testing"

	"github.com/s2-streamstore/s2-tui/internal/s2"
	"github.com/s2-streamstore/s2-tui/internal/testutil"
)

func TestRenderTokenScopeGolden(t *testing.T) {
	info := s2.AccessTokenInfo{
		ID: "ci-reader",
		Scope: s2.AccessTokenScope{
			Streams: &s2.ResourceMatcher{Prefix: "prod-"},
			Ops:     []string{"read", "write"},
		},
	}
	testutil.AssertGolden(t, "token_scope.golden", renderTokenScope(info))
}

func TestRenderSparkline(t *testing.T) {
	points := []s2.MetricPoint{
		{Value: 1}, {Value: 2}, {Value: 3},
	}
	got := renderSparkline(points, 10)
	if got != "▁▄█" {
		t.Fatalf("sparkline = %q", got)
	}
	if renderSparkline(nil, 10) != "-" {
		t.Fatalf("expected placeholder for empty series")
	}

	flat := []s2.MetricPoint{{Value: 5}, {Value: 5}}
	if got := renderSparkline(flat, 10); got != "▁▁" {
		t.Fatalf("flat sparkline = %q", got)
	}
}

func TestRenderSparklineTruncatesToWidth(t *testing.T) {
	points := make([]s2.MetricPoint, 50)
	for i := range points {
		points[i].Value = float64(i)
	}
	got := renderSparkline(points, 10)
	if n := len([]rune(got)); n != 10 {
		t.Fatalf("expected 10 runes, got %d", n)
	}
}

func TestViewShowsBreadcrumb(t *testing.T) {
	m := newTestModel()
	m.enterStreamDetail("alpha-basin", "events/prod")
	out := m.View()
	if !strings.Contains(out, "alpha-basin / events/prod") {
		t.Fatalf("expected breadcrumb in view:\n%s", out)
	}
}

func TestViewEmptyBeforeFirstResize(t *testing.T) {
	m := NewModel(nil, Options{})
	if out := m.View(); out != "" {
		t.Fatalf("expected empty view before sizing, got %q", out)
	}
}

func TestViewRendersPausedState(t *testing.T) {
	m := newTestModel()
	m.enterRead("alpha-basin", "logs", s2.ReadRequest{Tail: true})
	m.read.paused = true
	out := m.View()
	if !strings.Contains(out, "paused") {
		t.Fatalf("expected paused marker in view:\n%s", out)
	}
}
