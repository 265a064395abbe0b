package assessment

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	asmt "github.com/abhisek/vitacheck/internal/assessment"
	"github.com/abhisek/vitacheck/internal/ui/components"
	"github.com/abhisek/vitacheck/internal/ui/theme"
)

func (s *AssessmentScreen) View(width, height int) string {
	if s.showingExit {
		return s.renderExitDialog(width)
	}

	switch s.session.Stage {
	case asmt.StageReady:
		return s.renderReady(width)
	case asmt.StageLevel:
		return s.renderLevel(width)
	case asmt.StageTransition:
		return s.renderTransition(width)
	case asmt.StageFailed:
		return s.renderFailed(width)
	case asmt.StageCompleted:
		return s.renderCompleted(width)
	}
	return ""
}

func (s *AssessmentScreen) renderReady(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centered(width, theme.Title.Render("Healthcare Readiness Assessment")))
	b.WriteString("\n\n")

	minutes := s.session.LevelBudget() / 60
	overview := []string{
		"The assessment has 3 levels. Each level is a set of",
		fmt.Sprintf("multiple-choice questions with a %d minute time limit.", minutes),
		"",
		"You need a score of 60% or higher to pass a level.",
		"Passing a level unlocks the next one; if the timer runs",
		"out, the attempt ends and you return to your profile.",
		"",
		"Answers are final once submitted. There is no going back.",
	}
	for _, line := range overview {
		b.WriteString(centered(width, theme.Body.Render(line)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if s.profileErr != "" {
		b.WriteString(centered(width, theme.Danger.Render("Could not load your profile: "+s.profileErr)))
		b.WriteString("\n")
		b.WriteString(centered(width, theme.Hint.Render("Press R to retry.")))
		b.WriteString("\n\n")
	} else if s.profile != nil {
		b.WriteString(centered(width, theme.Subtitle.Render("Signed in as "+s.profile.FullName)))
		b.WriteString("\n\n")
	}

	if s.isStarting {
		b.WriteString(centered(width, s.spinner.View()+theme.Hint.Render(" Starting...")))
	} else {
		b.WriteString(centered(width, components.NewButton("Start Assessment", true, nil).View()))
	}

	b.WriteString(s.renderMessage(width))
	return b.String()
}

func (s *AssessmentScreen) renderLevel(width int) string {
	if s.fetchFailed {
		return s.renderFetchError(width)
	}

	q := s.session.CurrentQuestion()
	if q == nil {
		return "\n\n" + centered(width, s.spinner.View()+theme.Hint.Render(" Loading questions..."))
	}

	var b strings.Builder

	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Level %s", s.session.CurrentLevel))

	timer := asmt.FormatTime(s.session.LevelTimeLeft)
	timerStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if s.session.LevelTimeLeft <= 60 {
		timerStyle = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
	} else if s.session.LevelTimeLeft <= 300 {
		timerStyle = lipgloss.NewStyle().Foreground(theme.Warning)
	}
	right := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("Question %d/%d  ", s.session.CurrentIndex+1, len(s.session.Questions))) +
		timerStyle.Render(timer)

	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if pad < 1 {
		pad = 1
	}
	b.WriteString(left + strings.Repeat(" ", pad) + right)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n")

	progress := float64(s.session.CurrentIndex) / float64(len(s.session.Questions))
	b.WriteString("  " + components.NewProgressBar("", progress, false, width-8).View())
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Text))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choices.View()))

	if s.isSubmitting {
		b.WriteString("\n")
		b.WriteString(centered(width, s.spinner.View()+theme.Hint.Render(" Saving answer...")))
	}

	b.WriteString(s.renderMessage(width))
	return b.String()
}

func (s *AssessmentScreen) renderFetchError(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(centered(width, theme.Danger.Render("Questions could not be loaded.")))
	b.WriteString("\n\n")
	b.WriteString(centered(width, theme.Hint.Render("Press R to retry. The level timer keeps running.")))
	b.WriteString(s.renderMessage(width))
	return b.String()
}

func (s *AssessmentScreen) renderTransition(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")

	res := s.session.LastResult
	if res != nil {
		b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Success).Bold(true).
			Render(fmt.Sprintf("Level %s passed!", res.Level))))
		b.WriteString("\n")
		b.WriteString(centered(width, theme.Subtitle.Render(fmt.Sprintf("Score: %.0f%%", res.Score))))
		b.WriteString("\n\n")
	}

	b.WriteString(centered(width, theme.Body.Render(
		fmt.Sprintf("Level %s starts automatically in", s.session.PendingNextLevel))))
	b.WriteString("\n\n")

	countdown := asmt.FormatTime(s.session.TransitionTimeLeft)
	countdownStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	if s.session.TransitionTimeLeft <= 30 {
		countdownStyle = lipgloss.NewStyle().Foreground(theme.Warning).Bold(true)
	}
	b.WriteString(centered(width, countdownStyle.Render(countdown)))
	b.WriteString("\n\n")
	b.WriteString(centered(width, components.NewButton("Start Level "+s.session.PendingNextLevel+" Now", true, nil).View()))

	b.WriteString(s.renderMessage(width))
	return b.String()
}

func (s *AssessmentScreen) renderFailed(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")

	res := s.session.LastResult
	level := s.session.CurrentLevel
	if res != nil {
		level = res.Level
	}
	b.WriteString(centered(width, theme.Danger.Render(fmt.Sprintf("Level %s not passed", level))))
	b.WriteString("\n")
	if res != nil {
		b.WriteString(centered(width, theme.Subtitle.Render(fmt.Sprintf("Score: %.0f%% — 60%% needed to pass", res.Score))))
	}
	b.WriteString("\n\n")
	b.WriteString(centered(width, theme.Body.Render("You can retake the assessment from Level 1.")))
	b.WriteString("\n\n")
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Primary).Render("[R] Retake assessment")))
	b.WriteString("\n")
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.TextDim).Render("[Enter] Go to profile")))

	b.WriteString(s.renderMessage(width))
	return b.String()
}

func (s *AssessmentScreen) renderCompleted(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Success).Bold(true).
		Render("Assessment completed!")))
	b.WriteString("\n")

	if res := s.session.LastResult; res != nil {
		b.WriteString(centered(width, theme.Subtitle.Render(
			fmt.Sprintf("Final level: %s  Score: %.0f%%", res.Level, res.Score))))
	}
	b.WriteString("\n\n")
	b.WriteString(centered(width, theme.Body.Render("Your results have been recorded.")))
	b.WriteString("\n\n")
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Primary).Render("[Enter] Go to profile")))
	return b.String()
}

func (s *AssessmentScreen) renderExitDialog(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(centered(width, theme.Body.Bold(true).Render("Leave the assessment?")))
	b.WriteString("\n")
	b.WriteString(centered(width, theme.Subtitle.Render("Your progress in this level will be lost.")))
	b.WriteString("\n")
	b.WriteString(centered(width, theme.Notice.Render(
		"Time remaining: "+asmt.FormatTime(s.session.LevelTimeLeft)+" — the timer keeps running.")))
	b.WriteString("\n\n")

	continueBtn := components.NewButton("Continue assessment", s.exitFocusContinue, nil).View()
	exitBtn := components.NewButton("Exit to profile", !s.exitFocusContinue, nil).View()
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.JoinHorizontal(lipgloss.Center, continueBtn, "   ", exitBtn)))

	return b.String()
}

func (s *AssessmentScreen) renderMessage(width int) string {
	if s.message == "" {
		return ""
	}
	style := theme.Notice
	if s.messageIsErr {
		style = theme.Danger
	}
	return "\n\n" + centered(width, style.Render(s.message))
}

func centered(width int, text string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
}
