package app

import (
	"strings"
	"sync"
	"time"

	"quizhost/internal/domain"
)

// TakeState names a stage of the quiz-taking flow.
type TakeState string

const (
	// StateGate: waiting for the access code.
	StateGate TakeState = "gate"
	// StateIdentity: code accepted, waiting for participant details.
	StateIdentity TakeState = "identity"
	// StateInProgress: answering questions, countdown running if configured.
	StateInProgress TakeState = "in_progress"
	// StateSubmitted: terminal; the attempt has been scored.
	StateSubmitted TakeState = "submitted"
)

// SessionEvent is pushed to watchers on every countdown tick and on terminal
// transitions.
type SessionEvent struct {
	Type      string `json:"type"` // "tick", "expired", "submitted"
	Remaining int    `json:"remaining"`
	Expired   bool   `json:"expired"`
	Score     int    `json:"score,omitempty"`
	Total     int    `json:"total,omitempty"`
}

// QuestionView is a question as served to participants: no correct answer.
type QuestionView struct {
	ID      string   `json:"id"`
	Text    string   `json:"question"`
	Options []string `json:"options"`
}

// SessionView is a read snapshot of an attempt session.
type SessionView struct {
	ID        string          `json:"id"`
	State     TakeState       `json:"state"`
	QuizID    string          `json:"quizId"`
	QuizTitle string          `json:"quizTitle"`
	TimeLimit int             `json:"timeLimit"`
	AllowSkip bool            `json:"allowSkip"`
	Questions []QuestionView  `json:"questions,omitempty"`
	Current   int             `json:"current"`
	Answered  int             `json:"answered"`
	Total     int             `json:"total"`
	Remaining int             `json:"remaining"` // -1 when no countdown
	Expired   bool            `json:"expired"`
	Result    *domain.Attempt `json:"result,omitempty"`
}

// AttemptSession is the server-side quiz-taking state machine:
// gate -> identity -> in_progress -> submitted. All mutation goes through the
// mutex; watchers receive events via subscriber channels.
type AttemptSession struct {
	id        string
	content   domain.QuizContent
	createdAt time.Time
	now       func() time.Time

	mu          sync.Mutex
	state       TakeState
	userName    string
	userEmail   string
	rollNumber  string
	answers     map[string]int
	current     int
	remaining   int // seconds left; -1 means no countdown
	expired     bool
	result      *domain.Attempt
	subscribers map[chan SessionEvent]struct{}
	done        chan struct{}
}

// NewSession opens a session at the access gate for the given quiz content.
func NewSession(id string, content domain.QuizContent) *AttemptSession {
	return NewSessionWithClock(id, content, time.Now)
}

// NewSessionWithClock allows deterministic timestamps in tests.
func NewSessionWithClock(id string, content domain.QuizContent, now func() time.Time) *AttemptSession {
	return &AttemptSession{
		id:          id,
		content:     content,
		createdAt:   now(),
		now:         now,
		state:       StateGate,
		answers:     make(map[string]int),
		remaining:   -1,
		subscribers: make(map[chan SessionEvent]struct{}),
		done:        make(chan struct{}),
	}
}

func (s *AttemptSession) ID() string { return s.id }

// Done is closed when the session reaches a terminal state.
func (s *AttemptSession) Done() <-chan struct{} { return s.done }

func (s *AttemptSession) State() TakeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// VerifyCode grants entry iff the upper-cased input equals the stored code.
// On mismatch the session stays at the gate; there is no attempt counter.
func (s *AttemptSession) VerifyCode(input string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateGate {
		return domain.ErrWrongState
	}
	if strings.ToUpper(input) != s.content.Quiz.AccessCode {
		return domain.ErrInvalidAccessCode
	}
	s.state = StateIdentity
	return nil
}

// Begin captures participant identity and starts the quiz. It reports whether
// a countdown was armed, which is the case only when the quiz has a whole-quiz
// time limit.
func (s *AttemptSession) Begin(name, email, rollNumber string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdentity {
		return false, domain.ErrWrongState
	}
	s.userName = name
	s.userEmail = email
	s.rollNumber = rollNumber
	s.state = StateInProgress
	if s.content.Quiz.TimeLimit > 0 {
		s.remaining = s.content.Quiz.TimeLimit * 60
		return true, nil
	}
	return false, nil
}

// SelectAnswer records questionId -> optionIndex, overwriting any prior pick.
// The index is not range-checked; scoring treats out-of-range picks as wrong.
func (s *AttemptSession) SelectAnswer(questionID string, optionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return domain.ErrWrongState
	}
	s.answers[questionID] = optionIndex
	return nil
}

// Navigate moves the current question index by delta, clamped to the question
// range. Skipping is allowed at the navigation level regardless of AllowSkip.
func (s *AttemptSession) Navigate(delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return 0, domain.ErrWrongState
	}
	next := s.current + delta
	if next < 0 {
		next = 0
	}
	if max := len(s.content.Questions) - 1; next > max {
		next = max
	}
	if next < 0 {
		next = 0
	}
	s.current = next
	return s.current, nil
}

// Tick advances the countdown by one second. It reports true exactly once,
// on the tick that reaches zero; the caller then drives the auto-submit.
// Ticks are ignored when no countdown is armed or the session has finished.
func (s *AttemptSession) Tick() bool {
	s.mu.Lock()
	if s.state != StateInProgress || s.remaining <= 0 || s.expired {
		s.mu.Unlock()
		return false
	}
	s.remaining--
	if s.remaining == 0 {
		s.expired = true
		s.broadcastLocked(SessionEvent{Type: "expired", Remaining: 0, Expired: true})
		s.mu.Unlock()
		return true
	}
	event := SessionEvent{Type: "tick", Remaining: s.remaining}
	s.broadcastLocked(event)
	s.mu.Unlock()
	return false
}

// Finish scores the attempt and moves the session to its terminal state.
// The answer list has exactly one entry per loaded question, -1 for any
// question left unanswered. A second call returns ErrAlreadySubmitted.
func (s *AttemptSession) Finish(expired bool) (domain.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitted {
		return domain.Attempt{}, domain.ErrAlreadySubmitted
	}
	if s.state != StateInProgress {
		return domain.Attempt{}, domain.ErrWrongState
	}

	score := 0
	records := make([]domain.AnswerRecord, 0, len(s.content.Questions))
	for _, q := range s.content.Questions {
		selected, ok := s.answers[q.ID]
		if !ok {
			selected = -1
		}
		if selected == q.CorrectAnswer {
			score++
		}
		records = append(records, domain.AnswerRecord{QuestionID: q.ID, SelectedAnswer: selected})
	}

	attempt := domain.Attempt{
		QuizID:         s.content.Quiz.ID,
		QuizTitle:      s.content.Quiz.Title,
		UserName:       s.userName,
		UserEmail:      s.userEmail,
		RollNumber:     s.rollNumber,
		Answers:        records,
		Score:          score,
		TotalQuestions: len(s.content.Questions),
		Expired:        expired || s.expired,
		CompletedAt:    s.now(),
	}
	s.state = StateSubmitted
	s.result = &attempt
	s.broadcastLocked(SessionEvent{
		Type:      "submitted",
		Remaining: s.remaining,
		Expired:   attempt.Expired,
		Score:     score,
		Total:     attempt.TotalQuestions,
	})
	close(s.done)
	return attempt, nil
}

// Snapshot returns the current view. Questions are included only after the
// gate has been passed, and never carry the correct answer.
func (s *AttemptSession) Snapshot() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := SessionView{
		ID:        s.id,
		State:     s.state,
		QuizID:    s.content.Quiz.ID,
		QuizTitle: s.content.Quiz.Title,
		TimeLimit: s.content.Quiz.TimeLimit,
		AllowSkip: s.content.Quiz.AllowSkip,
		Current:   s.current,
		Answered:  len(s.answers),
		Total:     len(s.content.Questions),
		Remaining: s.remaining,
		Expired:   s.expired,
		Result:    s.result,
	}
	if s.state != StateGate {
		view.Questions = make([]QuestionView, 0, len(s.content.Questions))
		for _, q := range s.content.Questions {
			view.Questions = append(view.Questions, QuestionView{ID: q.ID, Text: q.Text, Options: q.Options})
		}
	}
	return view
}

// Subscribe returns a channel receiving session events. The caller must invoke
// the returned cancel function to avoid leaks.
func (s *AttemptSession) Subscribe() (<-chan SessionEvent, func()) {
	ch := make(chan SessionEvent, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := SessionEvent{Type: "tick", Remaining: s.remaining, Expired: s.expired}
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *AttemptSession) broadcastLocked(event SessionEvent) {
	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// Drop the stale event so slow watchers never block the countdown.
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}
