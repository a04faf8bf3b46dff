package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"quizhost/internal/domain"
	"quizhost/internal/pkg/logger"
)

// ContentRepository loads quiz content (from cache/backing store).
type ContentRepository interface {
	GetContent(ctx context.Context, quizID string) (domain.QuizContent, error)
}

// SessionRegistry abstracts how live attempt sessions are tracked
// (in-memory, Redis-marked, etc).
type SessionRegistry interface {
	Put(session *AttemptSession)
	Get(sessionID string) (*AttemptSession, bool)
	Delete(sessionID string)
}

// AttemptRecorder persists a finished attempt.
type AttemptRecorder interface {
	Record(ctx context.Context, attempt domain.Attempt) (domain.Attempt, error)
}

// TakeService drives the quiz-taking flow: open a session against quiz
// content, walk it through the gate and identity states, run the countdown,
// and persist the scored attempt on submit or expiry.
type TakeService struct {
	content      ContentRepository
	sessions     SessionRegistry
	recorder     AttemptRecorder
	log          *logger.Logger
	tickInterval time.Duration
}

func NewTakeService(content ContentRepository, sessions SessionRegistry, recorder AttemptRecorder, log *logger.Logger) *TakeService {
	return &TakeService{
		content:      content,
		sessions:     sessions,
		recorder:     recorder,
		log:          log,
		tickInterval: time.Second,
	}
}

// NewTakeServiceWithTickInterval is test-only for fast deterministic countdowns.
func NewTakeServiceWithTickInterval(content ContentRepository, sessions SessionRegistry, recorder AttemptRecorder, log *logger.Logger, interval time.Duration) *TakeService {
	s := NewTakeService(content, sessions, recorder, log)
	s.tickInterval = interval
	return s
}

// Start opens an attempt session for a quiz. Inactive and unknown quizzes are
// both reported as not found so the gate leaks nothing about either.
func (s *TakeService) Start(ctx context.Context, quizID string) (SessionView, error) {
	content, err := s.content.GetContent(ctx, quizID)
	if err != nil {
		return SessionView{}, err
	}
	if !content.Quiz.IsActive {
		return SessionView{}, domain.ErrQuizNotFound
	}

	session := NewSession(uuid.NewString(), content)
	s.sessions.Put(session)
	return session.Snapshot(), nil
}

// VerifyCode runs the access gate for a session.
func (s *TakeService) VerifyCode(_ context.Context, sessionID, code string) (SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return SessionView{}, domain.ErrSessionNotFound
	}
	if err := session.VerifyCode(code); err != nil {
		return SessionView{}, err
	}
	return session.Snapshot(), nil
}

// Begin records participant identity and, when the quiz is timed, arms the
// one-second countdown that will force an auto-submit at zero.
func (s *TakeService) Begin(_ context.Context, sessionID, name, email, rollNumber string) (SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return SessionView{}, domain.ErrSessionNotFound
	}
	countdown, err := session.Begin(name, email, rollNumber)
	if err != nil {
		return SessionView{}, err
	}
	if countdown {
		go s.runCountdown(session)
	}
	return session.Snapshot(), nil
}

// SelectAnswer records a pick for a question.
func (s *TakeService) SelectAnswer(_ context.Context, sessionID, questionID string, optionIndex int) (SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return SessionView{}, domain.ErrSessionNotFound
	}
	if err := session.SelectAnswer(questionID, optionIndex); err != nil {
		return SessionView{}, err
	}
	return session.Snapshot(), nil
}

// Navigate moves the current question index by delta.
func (s *TakeService) Navigate(_ context.Context, sessionID string, delta int) (SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return SessionView{}, domain.ErrSessionNotFound
	}
	if _, err := session.Navigate(delta); err != nil {
		return SessionView{}, err
	}
	return session.Snapshot(), nil
}

// Snapshot returns the current session view.
func (s *TakeService) Snapshot(_ context.Context, sessionID string) (SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return SessionView{}, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// Watch subscribes to countdown and result events for a session.
func (s *TakeService) Watch(_ context.Context, sessionID string) (<-chan SessionEvent, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}

// Submit finishes the attempt on the participant's request.
func (s *TakeService) Submit(ctx context.Context, sessionID string) (domain.Attempt, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Attempt{}, domain.ErrSessionNotFound
	}
	attempt, err := session.Finish(false)
	if err != nil {
		return domain.Attempt{}, err
	}
	// The session is terminal; drop the registry entry before recording so a
	// finished attempt never resolves again. Subscribers already attached keep
	// receiving from the session object itself.
	s.sessions.Delete(sessionID)
	return s.record(ctx, attempt), nil
}

// record persists the attempt. Persistence failure does not fail the result:
// the participant still gets the locally computed score, matching the
// fire-and-forget submission contract.
func (s *TakeService) record(ctx context.Context, attempt domain.Attempt) domain.Attempt {
	saved, err := s.recorder.Record(ctx, attempt)
	if err != nil {
		s.log.Error("record attempt failed", "quizId", attempt.QuizID, "err", err)
		return attempt
	}
	return saved
}

// runCountdown drives one session's timer at 1 Hz until expiry or submission.
func (s *TakeService) runCountdown(session *AttemptSession) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if session.Tick() {
				s.autoSubmit(session)
				return
			}
		case <-session.Done():
			return
		}
	}
}

// autoSubmit finishes the attempt on timer expiry. A manual submit that raced
// ahead of us wins; ErrAlreadySubmitted is the expected signal for that.
func (s *TakeService) autoSubmit(session *AttemptSession) {
	attempt, err := session.Finish(true)
	if err != nil {
		if !errors.Is(err, domain.ErrAlreadySubmitted) {
			s.log.Warn("auto-submit skipped", "sessionId", session.ID(), "err", err)
		}
		return
	}
	s.sessions.Delete(session.ID())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.record(ctx, attempt)
}
