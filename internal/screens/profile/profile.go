// Package profile renders the candidate's profile view, the exit target for
// every path that leaves the assessment flow.
package profile

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vitacheck/internal/api"
	asmt "github.com/abhisek/vitacheck/internal/assessment"
	"github.com/abhisek/vitacheck/internal/router"
	"github.com/abhisek/vitacheck/internal/screen"
	"github.com/abhisek/vitacheck/internal/ui/layout"
	"github.com/abhisek/vitacheck/internal/ui/theme"
)

// ProfileScreen shows the signed-in candidate and their most recent level
// result, if one exists.
type ProfileScreen struct {
	profile *api.Profile
	last    *asmt.LevelResult
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.KeyHintProvider = (*ProfileScreen)(nil)

// New creates the profile screen. Both arguments may be nil.
func New(profile *api.Profile, last *asmt.LevelResult) *ProfileScreen {
	return &ProfileScreen{profile: profile, last: last}
}

func (p *ProfileScreen) Init() tea.Cmd {
	return nil
}

func (p *ProfileScreen) Title() string {
	return "Profile"
}

func (p *ProfileScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Home"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (p *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		if kmsg.String() == "esc" {
			return p, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return p, nil
}

func (p *ProfileScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n")

	name := "Candidate"
	if p.profile != nil && p.profile.FullName != "" {
		name = p.profile.FullName
	}
	b.WriteString(centered(width, theme.Title.Render(name)))
	b.WriteString("\n")
	if p.profile != nil {
		b.WriteString(centered(width, theme.Subtitle.Render(fmt.Sprintf("Candidate #%d", p.profile.ID))))
	}
	b.WriteString("\n\n")

	if p.last != nil {
		verdict := theme.Danger.Render("Not passed")
		if p.last.Passed {
			verdict = lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render("Passed")
		}
		b.WriteString(centered(width, theme.Body.Render(fmt.Sprintf("Last assessment — Level %s", p.last.Level))))
		b.WriteString("\n")
		b.WriteString(centered(width, verdict+theme.Subtitle.Render(fmt.Sprintf("  Score: %.0f%%", p.last.Score))))
	} else {
		b.WriteString(centered(width, theme.Subtitle.Render("No assessment results yet.")))
	}

	b.WriteString("\n\n")
	b.WriteString(centered(width, theme.Hint.Render("Press Esc to return home.")))
	return b.String()
}

func centered(width int, text string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
}
