package assessment

import "fmt"

// Remaining-time marks that trigger a one-time status announcement while
// the owning stage is active.
var (
	levelAnnounceMarks      = []int{300, 60}
	transitionAnnounceMarks = []int{60, 30}
)

// Announcer produces the status line text the rendering layer reads out.
// Threshold announcements fire at most once per stage activation; Reset is
// called on every stage change.
type Announcer struct {
	lastLevelMark      int
	lastTransitionMark int
}

// NewAnnouncer returns an Announcer with no marks recorded.
func NewAnnouncer() *Announcer {
	a := &Announcer{}
	a.Reset()
	return a
}

// Reset clears the last-announced markers so thresholds can fire again in a
// new stage activation.
func (a *Announcer) Reset() {
	a.lastLevelMark = -1
	a.lastTransitionMark = -1
}

// LevelAnnouncement returns the threshold message for the level countdown,
// if remaining sits on an unannounced mark.
func (a *Announcer) LevelAnnouncement(remaining int) (string, bool) {
	for _, mark := range levelAnnounceMarks {
		if remaining == mark && a.lastLevelMark != mark {
			a.lastLevelMark = mark
			text := "5 minutes"
			if mark == 60 {
				text = "1 minute"
			}
			return fmt.Sprintf("%s remaining for this level.", text), true
		}
	}
	return "", false
}

// TransitionAnnouncement returns the threshold message for the transition
// countdown, if remaining sits on an unannounced mark.
func (a *Announcer) TransitionAnnouncement(remaining int, nextLevel string) (string, bool) {
	for _, mark := range transitionAnnounceMarks {
		if remaining == mark && a.lastTransitionMark != mark {
			a.lastTransitionMark = mark
			return fmt.Sprintf("%d seconds until automatic move to Level %s.", mark, nextLevel), true
		}
	}
	return "", false
}

// StageAnnouncement is the status text announced whenever the stage changes.
func StageAnnouncement(s *Session) string {
	resultLevel := s.CurrentLevel
	if s.LastResult != nil && s.LastResult.Level != "" {
		resultLevel = s.LastResult.Level
	}
	switch s.Stage {
	case StageReady:
		return "Assessment is ready to begin."
	case StageLevel:
		return fmt.Sprintf("Level %s in progress.", s.CurrentLevel)
	case StageTransition:
		return fmt.Sprintf("Level %s passed. Transition screen active.", resultLevel)
	case StageFailed:
		return fmt.Sprintf("Level %s not passed.", resultLevel)
	case StageCompleted:
		return "Assessment completed successfully."
	}
	return "Assessment updated."
}

// FormatTime renders seconds as M:SS.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
