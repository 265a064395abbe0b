// Package home is the entry menu.
package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vitacheck/internal/api"
	asmt "github.com/abhisek/vitacheck/internal/assessment"
	"github.com/abhisek/vitacheck/internal/router"
	"github.com/abhisek/vitacheck/internal/screen"
	assessmentscreen "github.com/abhisek/vitacheck/internal/screens/assessment"
	"github.com/abhisek/vitacheck/internal/screens/profile"
	"github.com/abhisek/vitacheck/internal/ui/components"
	"github.com/abhisek/vitacheck/internal/ui/theme"
)

// Deps carries everything the home screen needs to build its child screens.
type Deps struct {
	Backend          assessmentscreen.Backend
	Emitter          assessmentscreen.Emitter
	LevelBudget      int
	TransitionBudget int
}

// HomeScreen is the application's root screen.
type HomeScreen struct {
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen.
func New(deps Deps) *HomeScreen {
	profileFactory := func(p *api.Profile, last *asmt.LevelResult) screen.Screen {
		return profile.New(p, last)
	}

	items := []components.MenuItem{
		{Label: "Start Assessment", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: assessmentscreen.New(
						deps.Backend, deps.Emitter, profileFactory,
						deps.LevelBudget, deps.TransitionBudget,
					),
				}
			}
		}},
		{Label: "My Profile", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: profile.New(nil, nil)}
			}
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(centered(width, theme.Title.Render("VitaCheck")))
	b.WriteString("\n")
	b.WriteString(centered(width, theme.Subtitle.Render("Healthcare candidate assessment")))
	b.WriteString("\n\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))
	return b.String()
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func centered(width int, text string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
}
