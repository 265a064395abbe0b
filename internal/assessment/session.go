package assessment

// Stage is the coarse-grained mode of the assessment flow.
type Stage int

const (
	StageReady      Stage = iota // overview screen, attempt not yet started
	StageLevel                   // answering questions against the level timer
	StageTransition              // interstitial countdown between passed levels
	StageFailed                  // level not passed; retake offered
	StageCompleted               // final level passed
)

func (s Stage) String() string {
	switch s {
	case StageReady:
		return "ready"
	case StageLevel:
		return "level"
	case StageTransition:
		return "transition"
	case StageFailed:
		return "failed"
	case StageCompleted:
		return "completed"
	}
	return "unknown"
}

// Timer budgets in seconds. The level timer restarts on every fresh level
// entry; the transition timer restarts on entry to StageTransition.
const (
	DefaultLevelBudget      = 60 * 60
	DefaultTransitionBudget = 5 * 60
)

// FirstLevel is where every attempt (and retake) begins.
const FirstLevel = "1"

// Choice is one selectable answer for a question.
type Choice struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// Question is immutable once loaded; the whole set is replaced when a
// level (re)loads.
type Question struct {
	ID      int64    `json:"id"`
	Text    string   `json:"text"`
	Choices []Choice `json:"choices"`
}

// LevelResult is the backend's verdict for one submitted level.
// NextLevel is empty when the passed level was the final one.
type LevelResult struct {
	Level     string  `json:"level"`
	Score     float64 `json:"score"`
	Passed    bool    `json:"passed"`
	NextLevel string  `json:"next_level"`
}

// Session is the whole working state of one assessment attempt. It lives in
// memory only and is mutated exclusively through the transition methods
// below, so related fields always change together.
type Session struct {
	Stage Stage

	// AssessmentID is issued by the backend at start. Zero means no
	// attempt is live; it stays set through level/transition/failed/
	// completed and is replaced only by a new start call.
	AssessmentID int64

	CurrentLevel     string
	PendingNextLevel string // set only while Stage == StageTransition

	Questions    []Question
	Answers      map[int]int64 // question index -> selected choice ID
	CurrentIndex int

	LevelTimeLeft      int
	TransitionTimeLeft int

	// LastResult is retained across stage changes for display on the
	// transition/failed/completed screens.
	LastResult *LevelResult

	levelBudget      int
	transitionBudget int
}

// NewSession returns a ready-stage session. Non-positive budgets fall back
// to the defaults.
func NewSession(levelBudget, transitionBudget int) *Session {
	if levelBudget <= 0 {
		levelBudget = DefaultLevelBudget
	}
	if transitionBudget <= 0 {
		transitionBudget = DefaultTransitionBudget
	}
	return &Session{
		Stage:              StageReady,
		CurrentLevel:       FirstLevel,
		Answers:            make(map[int]int64),
		LevelTimeLeft:      levelBudget,
		TransitionTimeLeft: transitionBudget,
		levelBudget:        levelBudget,
		transitionBudget:   transitionBudget,
	}
}

// LevelBudget returns the full per-level countdown in seconds.
func (s *Session) LevelBudget() int { return s.levelBudget }

// TransitionBudget returns the full inter-level countdown in seconds.
func (s *Session) TransitionBudget() int { return s.transitionBudget }

// ResetToReady returns the session to its initial shape, dropping any live
// attempt. Used before a retake restart.
func (s *Session) ResetToReady() {
	s.Stage = StageReady
	s.AssessmentID = 0
	s.CurrentLevel = FirstLevel
	s.PendingNextLevel = ""
	s.Questions = nil
	s.Answers = make(map[int]int64)
	s.CurrentIndex = 0
	s.LevelTimeLeft = s.levelBudget
	s.TransitionTimeLeft = s.transitionBudget
	s.LastResult = nil
}

// StartAttempt begins a fresh attempt at level 1 with the backend-issued
// assessment ID. All per-level state and both timers reset together.
func (s *Session) StartAttempt(assessmentID int64) {
	s.Stage = StageLevel
	s.AssessmentID = assessmentID
	s.CurrentLevel = FirstLevel
	s.PendingNextLevel = ""
	s.Questions = nil
	s.Answers = make(map[int]int64)
	s.CurrentIndex = 0
	s.LevelTimeLeft = s.levelBudget
	s.TransitionTimeLeft = s.transitionBudget
	s.LastResult = nil
}

// SetQuestions installs a freshly fetched question set for the current
// level, resetting the cursor, answers, and the level timer.
func (s *Session) SetQuestions(qs []Question) {
	s.Questions = qs
	s.CurrentIndex = 0
	s.Answers = make(map[int]int64)
	s.LevelTimeLeft = s.levelBudget
}

// CurrentQuestion returns the question under the cursor, or nil if no set
// is loaded or the cursor is out of range.
func (s *Session) CurrentQuestion() *Question {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.CurrentIndex]
}

// SelectAnswer records the choice for the current question. Selecting again
// before submission overwrites.
func (s *Session) SelectAnswer(choiceID int64) {
	s.Answers[s.CurrentIndex] = choiceID
}

// SelectedAnswer reports the recorded choice for the current question.
func (s *Session) SelectedAnswer() (int64, bool) {
	id, ok := s.Answers[s.CurrentIndex]
	return id, ok
}

// OnLastQuestion reports whether the cursor is on the final question of the
// loaded set.
func (s *Session) OnLastQuestion() bool {
	return len(s.Questions) > 0 && s.CurrentIndex == len(s.Questions)-1
}

// AdvanceQuestion moves the cursor forward. There is no way back: answers
// cannot be revised after advancing.
func (s *Session) AdvanceQuestion() {
	s.CurrentIndex++
}

// ApplyLevelResult routes the stage machine on the backend's verdict:
// passed with a next level queues it behind the transition countdown,
// passed without one completes the assessment, not passed fails it.
func (s *Session) ApplyLevelResult(res LevelResult) {
	s.LastResult = &res
	switch {
	case res.Passed && res.NextLevel != "":
		s.PendingNextLevel = res.NextLevel
		s.TransitionTimeLeft = s.transitionBudget
		s.Stage = StageTransition
	case res.Passed:
		s.Stage = StageCompleted
	default:
		s.Stage = StageFailed
	}
}

// AdvanceToPendingLevel enters the queued level, resetting all per-level
// state and both timers. It reports false (and changes nothing) when no
// level is pending.
func (s *Session) AdvanceToPendingLevel() bool {
	if s.PendingNextLevel == "" {
		return false
	}
	s.CurrentLevel = s.PendingNextLevel
	s.PendingNextLevel = ""
	s.Questions = nil
	s.Answers = make(map[int]int64)
	s.CurrentIndex = 0
	s.LevelTimeLeft = s.levelBudget
	s.TransitionTimeLeft = s.transitionBudget
	s.Stage = StageLevel
	return true
}

// TimeLeft returns the running countdown's remaining seconds, or nil when
// the current stage has no active timer. Telemetry uses this snapshot.
func (s *Session) TimeLeft() *int {
	switch s.Stage {
	case StageLevel:
		v := s.LevelTimeLeft
		return &v
	case StageTransition:
		v := s.TransitionTimeLeft
		return &v
	}
	return nil
}
