package assessment

import "testing"

func sampleQuestions(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{
			ID:   int64(i + 1),
			Text: "question",
			Choices: []Choice{
				{ID: int64(i*10 + 1), Text: "a"},
				{ID: int64(i*10 + 2), Text: "b"},
			},
		}
	}
	return qs
}

func TestNewSession_Defaults(t *testing.T) {
	s := NewSession(0, 0)

	if s.Stage != StageReady {
		t.Errorf("stage = %v, want ready", s.Stage)
	}
	if s.LevelTimeLeft != DefaultLevelBudget {
		t.Errorf("level timer = %d, want %d", s.LevelTimeLeft, DefaultLevelBudget)
	}
	if s.TransitionTimeLeft != DefaultTransitionBudget {
		t.Errorf("transition timer = %d, want %d", s.TransitionTimeLeft, DefaultTransitionBudget)
	}
	if s.AssessmentID != 0 {
		t.Errorf("assessment ID = %d, want 0", s.AssessmentID)
	}
}

func TestStartAttempt_ResetsEverythingTogether(t *testing.T) {
	s := NewSession(100, 20)
	s.SetQuestions(sampleQuestions(3))
	s.SelectAnswer(11)
	s.AdvanceQuestion()
	s.LevelTimeLeft = 5
	s.TransitionTimeLeft = 3
	s.LastResult = &LevelResult{Level: "1", Score: 40, Passed: false}

	s.StartAttempt(77)

	if s.Stage != StageLevel {
		t.Errorf("stage = %v, want level", s.Stage)
	}
	if s.AssessmentID != 77 {
		t.Errorf("assessment ID = %d, want 77", s.AssessmentID)
	}
	if s.CurrentLevel != FirstLevel {
		t.Errorf("level = %q, want %q", s.CurrentLevel, FirstLevel)
	}
	if len(s.Questions) != 0 || len(s.Answers) != 0 || s.CurrentIndex != 0 {
		t.Error("expected question state fully cleared")
	}
	if s.LevelTimeLeft != 100 || s.TransitionTimeLeft != 20 {
		t.Errorf("timers = %d/%d, want full budgets 100/20", s.LevelTimeLeft, s.TransitionTimeLeft)
	}
	if s.LastResult != nil {
		t.Error("expected last result cleared")
	}
}

func TestSetQuestions_ResetsCursorAnswersAndLevelTimer(t *testing.T) {
	s := NewSession(100, 20)
	s.StartAttempt(1)
	s.LevelTimeLeft = 7

	s.SetQuestions(sampleQuestions(2))

	if s.CurrentIndex != 0 {
		t.Errorf("index = %d, want 0", s.CurrentIndex)
	}
	if len(s.Answers) != 0 {
		t.Errorf("answers = %d entries, want 0", len(s.Answers))
	}
	if s.LevelTimeLeft != 100 {
		t.Errorf("level timer = %d, want 100", s.LevelTimeLeft)
	}
}

func TestSelectedAnswer_UndefinedUntilSelected(t *testing.T) {
	s := NewSession(100, 20)
	s.StartAttempt(1)
	s.SetQuestions(sampleQuestions(2))

	if _, ok := s.SelectedAnswer(); ok {
		t.Error("expected no answer before selection")
	}

	s.SelectAnswer(12)
	id, ok := s.SelectedAnswer()
	if !ok || id != 12 {
		t.Errorf("selected = %d/%v, want 12/true", id, ok)
	}

	// Advancing moves to a question with no recorded answer.
	s.AdvanceQuestion()
	if _, ok := s.SelectedAnswer(); ok {
		t.Error("expected no answer for the next question")
	}
}

func TestOnLastQuestion(t *testing.T) {
	s := NewSession(100, 20)
	s.StartAttempt(1)
	s.SetQuestions(sampleQuestions(2))

	if s.OnLastQuestion() {
		t.Error("index 0 of 2 is not the last question")
	}
	s.AdvanceQuestion()
	if !s.OnLastQuestion() {
		t.Error("index 1 of 2 is the last question")
	}
}

func TestApplyLevelResult_PassedWithNextLevel(t *testing.T) {
	s := NewSession(100, 20)
	s.StartAttempt(1)
	s.TransitionTimeLeft = 4

	s.ApplyLevelResult(LevelResult{Level: "1", Score: 100, Passed: true, NextLevel: "2"})

	if s.Stage != StageTransition {
		t.Errorf("stage = %v, want transition", s.Stage)
	}
	if s.PendingNextLevel != "2" {
		t.Errorf("pending level = %q, want %q", s.PendingNextLevel, "2")
	}
	if s.TransitionTimeLeft != 20 {
		t.Errorf("transition timer = %d, want full budget 20", s.TransitionTimeLeft)
	}
}

func TestApplyLevelResult_PassedFinalLevel(t *testing.T) {
	s := NewSession(100, 20)
	s.StartAttempt(1)

	s.ApplyLevelResult(LevelResult{Level: "3", Score: 80, Passed: true})

	if s.Stage != StageCompleted {
		t.Errorf("stage = %v, want completed", s.Stage)
	}
	if s.PendingNextLevel != "" {
		t.Errorf("pending level = %q, want empty", s.PendingNextLevel)
	}
}

func TestApplyLevelResult_NotPassed(t *testing.T) {
	s := NewSession(100, 20)
	s.StartAttempt(1)

	s.ApplyLevelResult(LevelResult{Level: "2", Score: 40, Passed: false, NextLevel: "3"})

	if s.Stage != StageFailed {
		t.Errorf("stage = %v, want failed", s.Stage)
	}
	if s.LastResult == nil || s.LastResult.Score != 40 {
		t.Error("expected last result retained for display")
	}
}

func TestAdvanceToPendingLevel(t *testing.T) {
	s := NewSession(100, 20)
	s.StartAttempt(1)
	s.SetQuestions(sampleQuestions(2))
	s.SelectAnswer(11)
	s.ApplyLevelResult(LevelResult{Level: "1", Score: 90, Passed: true, NextLevel: "2"})
	s.LevelTimeLeft = 3
	s.TransitionTimeLeft = 1

	if !s.AdvanceToPendingLevel() {
		t.Fatal("expected advance with pending level set")
	}

	if s.Stage != StageLevel {
		t.Errorf("stage = %v, want level", s.Stage)
	}
	if s.CurrentLevel != "2" {
		t.Errorf("level = %q, want %q", s.CurrentLevel, "2")
	}
	if s.PendingNextLevel != "" {
		t.Error("expected pending level cleared")
	}
	if s.CurrentIndex != 0 || len(s.Answers) != 0 || s.Questions != nil {
		t.Error("expected per-level state fully reset")
	}
	if s.LevelTimeLeft != 100 || s.TransitionTimeLeft != 20 {
		t.Errorf("timers = %d/%d, want full budgets", s.LevelTimeLeft, s.TransitionTimeLeft)
	}
}

func TestAdvanceToPendingLevel_NoPending(t *testing.T) {
	s := NewSession(100, 20)
	s.StartAttempt(1)
	s.ApplyLevelResult(LevelResult{Level: "3", Score: 80, Passed: true})

	if s.AdvanceToPendingLevel() {
		t.Error("expected no advance without a pending level")
	}
	if s.Stage != StageCompleted {
		t.Errorf("stage = %v, want completed unchanged", s.Stage)
	}
}

func TestResetToReady_FullReset(t *testing.T) {
	s := NewSession(100, 20)
	s.StartAttempt(5)
	s.SetQuestions(sampleQuestions(3))
	s.SelectAnswer(21)
	s.AdvanceQuestion()
	s.ApplyLevelResult(LevelResult{Level: "1", Score: 30, Passed: false})

	s.ResetToReady()

	if s.Stage != StageReady {
		t.Errorf("stage = %v, want ready", s.Stage)
	}
	if s.AssessmentID != 0 {
		t.Errorf("assessment ID = %d, want 0", s.AssessmentID)
	}
	if s.CurrentLevel != FirstLevel || s.CurrentIndex != 0 || len(s.Answers) != 0 || s.Questions != nil {
		t.Error("expected full reset of level state")
	}
	if s.LevelTimeLeft != 100 || s.TransitionTimeLeft != 20 {
		t.Error("expected timers back at full budgets")
	}
	if s.LastResult != nil {
		t.Error("expected last result cleared")
	}
}

func TestTimeLeft_MatchesStage(t *testing.T) {
	s := NewSession(100, 20)

	if s.TimeLeft() != nil {
		t.Error("ready stage has no running timer")
	}

	s.StartAttempt(1)
	s.LevelTimeLeft = 42
	if got := s.TimeLeft(); got == nil || *got != 42 {
		t.Errorf("level stage time left = %v, want 42", got)
	}

	s.ApplyLevelResult(LevelResult{Level: "1", Score: 90, Passed: true, NextLevel: "2"})
	s.TransitionTimeLeft = 9
	if got := s.TimeLeft(); got == nil || *got != 9 {
		t.Errorf("transition stage time left = %v, want 9", got)
	}

	s.ApplyLevelResult(LevelResult{Level: "2", Score: 90, Passed: true})
	if s.TimeLeft() != nil {
		t.Error("completed stage has no running timer")
	}
}
