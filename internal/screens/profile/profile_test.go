package profile

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/vitacheck/internal/api"
	asmt "github.com/abhisek/vitacheck/internal/assessment"
	"github.com/abhisek/vitacheck/internal/router"
)

func TestViewShowsCandidateAndResult(t *testing.T) {
	p := New(
		&api.Profile{ID: 7, FullName: "Jordan Reyes"},
		&asmt.LevelResult{Level: "2", Score: 85, Passed: true},
	)

	view := p.View(80, 24)
	if !strings.Contains(view, "Jordan Reyes") {
		t.Error("expected candidate name in view")
	}
	if !strings.Contains(view, "Level 2") {
		t.Error("expected last result level in view")
	}
	if !strings.Contains(view, "85%") {
		t.Error("expected score in view")
	}
}

func TestViewWithoutResult(t *testing.T) {
	p := New(nil, nil)
	view := p.View(80, 24)
	if !strings.Contains(view, "No assessment results yet.") {
		t.Error("expected empty-state copy")
	}
}

func TestEscapePopsScreen(t *testing.T) {
	p := New(nil, nil)
	_, cmd := p.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command on escape")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
