// Package assessment implements the timed multi-level assessment screen:
// the stage machine, both countdown timers, the question cursor, and the
// exit-confirmation dialog.
package assessment

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/abhisek/vitacheck/internal/api"
	asmt "github.com/abhisek/vitacheck/internal/assessment"
	"github.com/abhisek/vitacheck/internal/router"
	"github.com/abhisek/vitacheck/internal/screen"
	"github.com/abhisek/vitacheck/internal/telemetry"
	"github.com/abhisek/vitacheck/internal/ui/components"
	"github.com/abhisek/vitacheck/internal/ui/layout"
)

// Backend is the slice of the API client the screen depends on.
type Backend interface {
	Profile(ctx context.Context) (*api.Profile, error)
	StartAssessment(ctx context.Context, level string) (int64, error)
	Questions(ctx context.Context, level string) ([]asmt.Question, error)
	SubmitResponse(ctx context.Context, in api.SubmitResponseInput) error
	SubmitLevel(ctx context.Context, assessmentID int64) (*asmt.LevelResult, error)
}

// Emitter dispatches telemetry without ever blocking or failing the caller.
type Emitter interface {
	Emit(eventType string, snap telemetry.Snapshot, details map[string]any)
}

// ProfileFactory builds the screen shown after leaving the assessment. The
// assessment screen never constructs its exit target itself.
type ProfileFactory func(profile *api.Profile, last *asmt.LevelResult) screen.Screen

// AssessmentScreen implements screen.Screen for the assessment flow.
type AssessmentScreen struct {
	session   *asmt.Session
	announcer *asmt.Announcer
	backend   Backend
	emitter   Emitter
	profileFn ProfileFactory

	profile    *api.Profile
	profileErr string
	attemptRef string // client correlation ID, fresh per start call

	choices components.ChoiceList
	spinner components.Spinner

	// Epoch counters invalidate ticks scheduled before a stage change.
	levelEpoch      int
	transitionEpoch int

	isStarting   bool
	isSubmitting bool
	fetchFailed  bool

	showingExit       bool
	exitFocusContinue bool

	// Single most-recent message slot, cleared when the next user action
	// begins.
	message      string
	messageIsErr bool

	announcement string
	readyShownAt time.Time
}

var _ screen.Screen = (*AssessmentScreen)(nil)
var _ screen.KeyHintProvider = (*AssessmentScreen)(nil)
var _ screen.StatusAnnouncer = (*AssessmentScreen)(nil)

// New creates the assessment screen with injected dependencies. Non-positive
// budgets fall back to the defaults.
func New(backend Backend, emitter Emitter, profileFn ProfileFactory, levelBudget, transitionBudget int) *AssessmentScreen {
	return &AssessmentScreen{
		session:   asmt.NewSession(levelBudget, transitionBudget),
		announcer: asmt.NewAnnouncer(),
		backend:   backend,
		emitter:   emitter,
		profileFn: profileFn,
		spinner:   components.NewSpinner(),
	}
}

func (s *AssessmentScreen) Init() tea.Cmd {
	s.readyShownAt = time.Now()
	s.announcement = asmt.StageAnnouncement(s.session)
	s.emit("assessment_ready_viewed", nil)
	return tea.Batch(s.fetchProfile(), s.spinner.Tick)
}

func (s *AssessmentScreen) Title() string {
	return "Assessment"
}

// Announcement returns the current assistive status text.
func (s *AssessmentScreen) Announcement() string {
	return s.announcement
}

func (s *AssessmentScreen) KeyHints() []layout.KeyHint {
	if s.showingExit {
		return []layout.KeyHint{
			{Key: "←/→", Description: "Switch"},
			{Key: "Enter", Description: "Choose"},
			{Key: "Esc", Description: "Continue assessment"},
		}
	}
	switch s.session.Stage {
	case asmt.StageReady:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start assessment"},
			{Key: "Esc", Description: "Back"},
		}
	case asmt.StageLevel:
		if s.fetchFailed {
			return []layout.KeyHint{
				{Key: "R", Description: "Retry"},
				{Key: "Esc", Description: "Exit"},
			}
		}
		return []layout.KeyHint{
			{Key: "↑/↓", Description: "Choose"},
			{Key: "Enter", Description: "Submit answer"},
			{Key: "Esc", Description: "Exit"},
		}
	case asmt.StageTransition:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start next level"},
		}
	case asmt.StageFailed:
		return []layout.KeyHint{
			{Key: "R", Description: "Retake"},
			{Key: "Enter", Description: "Go to profile"},
		}
	case asmt.StageCompleted:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Go to profile"},
		}
	}
	return nil
}

func (s *AssessmentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		return s.handleProfileLoaded(msg)

	case startedMsg:
		return s.handleStarted(msg)

	case questionsMsg:
		return s.handleQuestions(msg)

	case answerSavedMsg:
		return s.handleAnswerSaved(msg)

	case levelResultMsg:
		return s.handleLevelResult(msg)

	case levelTickMsg:
		return s.handleLevelTick(msg)

	case transitionTickMsg:
		return s.handleTransitionTick(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

func (s *AssessmentScreen) handleProfileLoaded(msg profileLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.profileErr = msg.Err.Error()
		return s, nil
	}
	s.profile = msg.Profile
	s.profileErr = ""
	return s, nil
}

func (s *AssessmentScreen) handleStarted(msg startedMsg) (screen.Screen, tea.Cmd) {
	s.isStarting = false
	if s.session.Stage != asmt.StageReady {
		return s, nil
	}
	if msg.Err != nil {
		s.setError("Could not start the assessment: " + msg.Err.Error())
		return s, nil
	}

	dwell := int(time.Since(s.readyShownAt).Seconds())
	s.attemptRef = uuid.New().String()
	s.session.StartAttempt(msg.AssessmentID)
	s.enterStage()
	s.emit("assessment_started", map[string]any{
		"ready_dwell_seconds": dwell,
		"client_ref":          s.attemptRef,
	})

	return s, tea.Batch(s.fetchQuestions(), s.levelTick())
}

func (s *AssessmentScreen) handleQuestions(msg questionsMsg) (screen.Screen, tea.Cmd) {
	if msg.AssessmentID != s.session.AssessmentID || msg.Level != s.session.CurrentLevel {
		return s, nil
	}
	if s.session.Stage != asmt.StageLevel {
		return s, nil
	}
	if msg.Err != nil {
		s.fetchFailed = true
		s.setError("Could not load questions: " + msg.Err.Error())
		return s, nil
	}
	s.fetchFailed = false
	s.session.SetQuestions(msg.Questions)
	s.resetChoices()
	return s, nil
}

func (s *AssessmentScreen) handleAnswerSaved(msg answerSavedMsg) (screen.Screen, tea.Cmd) {
	if msg.AssessmentID != s.session.AssessmentID || s.session.Stage != asmt.StageLevel {
		return s, nil
	}
	if msg.Err != nil {
		s.isSubmitting = false
		s.setError("Answer could not be saved: " + msg.Err.Error())
		return s, nil
	}

	if s.session.OnLastQuestion() {
		// Keep the submitting guard up across the level submit so the
		// final answer can only trigger one scoring call.
		return s, s.submitLevel()
	}

	s.isSubmitting = false
	s.session.AdvanceQuestion()
	s.resetChoices()
	return s, nil
}

func (s *AssessmentScreen) handleLevelResult(msg levelResultMsg) (screen.Screen, tea.Cmd) {
	if msg.AssessmentID != s.session.AssessmentID || s.session.Stage != asmt.StageLevel {
		return s, nil
	}
	s.isSubmitting = false
	if msg.Err != nil {
		s.setError("Level could not be submitted: " + msg.Err.Error())
		return s, nil
	}

	res := *msg.Result
	s.emit("assessment_level_submitted", map[string]any{
		"result_level": res.Level,
		"score":        res.Score,
		"passed":       res.Passed,
		"next_level":   res.NextLevel,
	})

	s.session.ApplyLevelResult(res)
	s.enterStage()

	switch s.session.Stage {
	case asmt.StageTransition:
		return s, s.transitionTick()
	case asmt.StageCompleted:
		s.emit("assessment_completed", map[string]any{
			"final_level": res.Level,
			"final_score": res.Score,
		})
	case asmt.StageFailed:
		s.emit("assessment_failed", map[string]any{
			"failed_level": res.Level,
			"failed_score": res.Score,
		})
	}
	return s, nil
}

func (s *AssessmentScreen) handleLevelTick(msg levelTickMsg) (screen.Screen, tea.Cmd) {
	if msg.Epoch != s.levelEpoch || s.session.Stage != asmt.StageLevel {
		return s, nil
	}

	s.session.LevelTimeLeft--
	if text, ok := s.announcer.LevelAnnouncement(s.session.LevelTimeLeft); ok {
		s.announcement = text
	}

	if s.session.LevelTimeLeft <= 0 {
		s.session.LevelTimeLeft = 0
		s.levelEpoch++
		s.emit("assessment_level_timeout", map[string]any{
			"level": s.session.CurrentLevel,
		})
		s.announcement = "Time is up for this level."
		return s, s.navigateToProfile()
	}

	return s, s.levelTick()
}

func (s *AssessmentScreen) handleTransitionTick(msg transitionTickMsg) (screen.Screen, tea.Cmd) {
	if msg.Epoch != s.transitionEpoch || s.session.Stage != asmt.StageTransition {
		return s, nil
	}

	s.session.TransitionTimeLeft--
	if text, ok := s.announcer.TransitionAnnouncement(s.session.TransitionTimeLeft, s.session.PendingNextLevel); ok {
		s.announcement = text
	}

	if s.session.TransitionTimeLeft <= 0 {
		s.session.TransitionTimeLeft = 0
		s.transitionEpoch++
		next := s.session.PendingNextLevel
		if next == "" {
			return s, s.navigateToProfile()
		}
		s.emit("assessment_transition_auto_advanced", map[string]any{
			"next_level": next,
		})
		s.session.AdvanceToPendingLevel()
		s.enterStage()
		return s, tea.Batch(s.fetchQuestions(), s.levelTick())
	}

	return s, s.transitionTick()
}

func (s *AssessmentScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.showingExit {
		return s.handleExitDialogKey(key)
	}

	switch s.session.Stage {
	case asmt.StageReady:
		return s.handleReadyKey(key)
	case asmt.StageLevel:
		return s.handleLevelKey(msg)
	case asmt.StageTransition:
		return s.handleTransitionKey(key)
	case asmt.StageFailed:
		return s.handleFailedKey(key)
	case asmt.StageCompleted:
		if key == "enter" || key == "p" {
			return s, s.navigateToProfile()
		}
	}

	return s, nil
}

func (s *AssessmentScreen) handleReadyKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "enter", "s":
		if s.isStarting {
			return s, nil
		}
		s.clearMessage()
		s.isStarting = true
		return s, s.startAttempt()
	case "r":
		if s.profileErr != "" {
			s.profileErr = ""
			return s, s.fetchProfile()
		}
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *AssessmentScreen) handleLevelKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if key == "esc" {
		// The level timer keeps running underneath the dialog.
		s.clearMessage()
		s.showingExit = true
		s.exitFocusContinue = true
		s.emit("assessment_exit_prompt_opened", nil)
		return s, nil
	}

	if s.fetchFailed {
		if key == "r" {
			s.clearMessage()
			return s, s.fetchQuestions()
		}
		return s, nil
	}

	if key == "enter" {
		return s.submitAnswer()
	}

	var cmd tea.Cmd
	s.choices, cmd = s.choices.Update(msg)
	if id, ok := s.choices.Marked(); ok {
		s.session.SelectAnswer(id)
	}
	return s, cmd
}

func (s *AssessmentScreen) handleTransitionKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "enter", "s":
		s.clearMessage()
		next := s.session.PendingNextLevel
		if next == "" {
			return s, s.navigateToProfile()
		}
		s.transitionEpoch++
		s.emit("assessment_transition_manual_start_next_level", map[string]any{
			"next_level": next,
		})
		s.session.AdvanceToPendingLevel()
		s.enterStage()
		return s, tea.Batch(s.fetchQuestions(), s.levelTick())
	case "p":
		if s.session.PendingNextLevel == "" {
			s.emit("assessment_transition_to_profile", nil)
			return s, s.navigateToProfile()
		}
	}
	return s, nil
}

func (s *AssessmentScreen) handleFailedKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "r":
		if s.isStarting {
			return s, nil
		}
		s.clearMessage()
		var prevLevel string
		var prevScore float64
		if s.session.LastResult != nil {
			prevLevel = s.session.LastResult.Level
			prevScore = s.session.LastResult.Score
		}
		s.emit("assessment_retake_clicked", map[string]any{
			"previous_level": prevLevel,
			"previous_score": prevScore,
		})
		s.session.ResetToReady()
		s.enterStage()
		s.readyShownAt = time.Now()
		s.isStarting = true
		return s, s.startAttempt()
	case "enter", "p":
		return s, s.navigateToProfile()
	}
	return s, nil
}

func (s *AssessmentScreen) handleExitDialogKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "esc":
		s.closeExitDialog()
		return s, nil
	case "tab", "left", "right":
		s.exitFocusContinue = !s.exitFocusContinue
		return s, nil
	case "enter":
		if s.exitFocusContinue {
			s.closeExitDialog()
			return s, nil
		}
		s.emit("assessment_exit_confirmed", map[string]any{
			"current_question_index": s.session.CurrentIndex,
			"total_questions":        len(s.session.Questions),
		})
		s.showingExit = false
		return s, s.navigateToProfile()
	}
	return s, nil
}

func (s *AssessmentScreen) closeExitDialog() {
	s.showingExit = false
	s.emit("assessment_exit_canceled", nil)
}

// submitAnswer validates locally, then persists exactly one answer.
func (s *AssessmentScreen) submitAnswer() (screen.Screen, tea.Cmd) {
	if s.session.Stage != asmt.StageLevel || s.isSubmitting {
		return s, nil
	}
	s.clearMessage()

	q := s.session.CurrentQuestion()
	if q == nil {
		return s, nil
	}
	if s.profile == nil || s.session.AssessmentID == 0 {
		s.setWarning("Still connecting, please try again in a moment.")
		return s, nil
	}
	choiceID, ok := s.session.SelectedAnswer()
	if !ok {
		s.setWarning("Select an answer before submitting.")
		return s, nil
	}

	s.isSubmitting = true
	assessmentID := s.session.AssessmentID
	in := api.SubmitResponseInput{
		AssessmentID: assessmentID,
		ProfileID:    s.profile.ID,
		QuestionID:   q.ID,
		ChoiceID:     choiceID,
	}
	return s, func() tea.Msg {
		err := s.backend.SubmitResponse(context.Background(), in)
		return answerSavedMsg{AssessmentID: assessmentID, Err: err}
	}
}

// enterStage applies the bookkeeping every stage change shares: both tick
// loops are invalidated, threshold markers reset, and the stage is announced.
func (s *AssessmentScreen) enterStage() {
	s.levelEpoch++
	s.transitionEpoch++
	s.announcer.Reset()
	s.announcement = asmt.StageAnnouncement(s.session)
}

func (s *AssessmentScreen) navigateToProfile() tea.Cmd {
	s.levelEpoch++
	s.transitionEpoch++
	profile := s.profile
	last := s.session.LastResult
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: s.profileFn(profile, last)}
	}
}

func (s *AssessmentScreen) resetChoices() {
	if q := s.session.CurrentQuestion(); q != nil {
		s.choices = components.NewChoiceList(q.Choices)
	} else {
		s.choices = components.NewChoiceList(nil)
	}
}

func (s *AssessmentScreen) emit(eventType string, details map[string]any) {
	if s.emitter == nil {
		return
	}
	s.emitter.Emit(eventType, telemetry.Snapshot{
		Stage:        s.session.Stage.String(),
		Level:        s.session.CurrentLevel,
		AssessmentID: s.session.AssessmentID,
		TimeLeft:     s.session.TimeLeft(),
	}, details)
}

func (s *AssessmentScreen) setWarning(text string) {
	s.message = text
	s.messageIsErr = false
}

func (s *AssessmentScreen) setError(text string) {
	s.message = text
	s.messageIsErr = true
}

func (s *AssessmentScreen) clearMessage() {
	s.message = ""
	s.messageIsErr = false
}

func (s *AssessmentScreen) fetchProfile() tea.Cmd {
	return func() tea.Msg {
		p, err := s.backend.Profile(context.Background())
		return profileLoadedMsg{Profile: p, Err: err}
	}
}

func (s *AssessmentScreen) startAttempt() tea.Cmd {
	level := s.session.CurrentLevel
	return func() tea.Msg {
		id, err := s.backend.StartAssessment(context.Background(), level)
		return startedMsg{AssessmentID: id, Err: err}
	}
}

func (s *AssessmentScreen) fetchQuestions() tea.Cmd {
	assessmentID := s.session.AssessmentID
	level := s.session.CurrentLevel
	return func() tea.Msg {
		qs, err := s.backend.Questions(context.Background(), level)
		return questionsMsg{AssessmentID: assessmentID, Level: level, Questions: qs, Err: err}
	}
}

func (s *AssessmentScreen) submitLevel() tea.Cmd {
	assessmentID := s.session.AssessmentID
	return func() tea.Msg {
		res, err := s.backend.SubmitLevel(context.Background(), assessmentID)
		return levelResultMsg{AssessmentID: assessmentID, Result: res, Err: err}
	}
}

func (s *AssessmentScreen) levelTick() tea.Cmd {
	epoch := s.levelEpoch
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return levelTickMsg{Epoch: epoch}
	})
}

func (s *AssessmentScreen) transitionTick() tea.Cmd {
	epoch := s.transitionEpoch
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return transitionTickMsg{Epoch: epoch}
	})
}
