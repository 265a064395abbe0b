package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vitacheck/internal/assessment"
	"github.com/abhisek/vitacheck/internal/ui/theme"
)

// ChoiceList is a single-select answer list for one assessment question.
// Moving the cursor highlights a choice; Mark records it as the selected
// answer (the radio-button equivalent).
type ChoiceList struct {
	Choices  []assessment.Choice
	Cursor   int
	MarkedID int64 // 0 when nothing selected yet
}

// NewChoiceList creates a list over the question's choices.
func NewChoiceList(choices []assessment.Choice) ChoiceList {
	return ChoiceList{Choices: choices}
}

// Update handles keyboard navigation and marking.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Choices)-1 {
			c.Cursor++
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(kmsg.String()[0] - '1')
		if idx < len(c.Choices) {
			c.Cursor = idx
			c.MarkedID = c.Choices[idx].ID
		}
	case "space":
		c = c.markCursor()
	}

	return c, nil
}

func (c ChoiceList) markCursor() ChoiceList {
	if c.Cursor >= 0 && c.Cursor < len(c.Choices) {
		c.MarkedID = c.Choices[c.Cursor].ID
	}
	return c
}

// Marked reports the selected choice ID, if any.
func (c ChoiceList) Marked() (int64, bool) {
	return c.MarkedID, c.MarkedID != 0
}

// View renders the list.
func (c ChoiceList) View() string {
	var s string
	for i, choice := range c.Choices {
		cursor := "  "
		if i == c.Cursor {
			cursor = "▸ "
		}
		radio := "( )"
		if choice.ID == c.MarkedID {
			radio = "(•)"
		}
		line := fmt.Sprintf("%s%s %d) %s", cursor, radio, i+1, choice.Text)

		switch {
		case choice.ID == c.MarkedID:
			s += lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(line) + "\n"
		case i == c.Cursor:
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}
	return s
}
