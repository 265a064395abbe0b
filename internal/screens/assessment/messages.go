package assessment

import (
	"github.com/abhisek/vitacheck/internal/api"
	asmt "github.com/abhisek/vitacheck/internal/assessment"
)

// Async result messages carry the assessment ID of the attempt that issued
// the request. Update discards any message whose ID no longer matches the
// live attempt, so a response landing after an exit, timeout, or retake is a
// no-op.

// profileLoadedMsg is sent when the profile fetch resolves.
type profileLoadedMsg struct {
	Profile *api.Profile
	Err     error
}

// startedMsg is sent when the backend start call resolves.
type startedMsg struct {
	AssessmentID int64
	Err          error
}

// questionsMsg is sent when the question fetch for a level resolves.
type questionsMsg struct {
	AssessmentID int64
	Level        string
	Questions    []asmt.Question
	Err          error
}

// answerSavedMsg is sent when a single answer submission resolves.
type answerSavedMsg struct {
	AssessmentID int64
	Err          error
}

// levelResultMsg is sent when the level submit resolves with a verdict.
type levelResultMsg struct {
	AssessmentID int64
	Result       *asmt.LevelResult
	Err          error
}

// levelTickMsg drives the per-level countdown. Epoch is compared against the
// screen's current level epoch; a stale tick scheduled before a stage change
// is discarded.
type levelTickMsg struct {
	Epoch int
}

// transitionTickMsg drives the inter-level countdown, with the same epoch
// guard against stale ticks.
type transitionTickMsg struct {
	Epoch int
}
