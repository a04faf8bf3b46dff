package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quizhost/internal/app"
	"quizhost/internal/domain"
	"quizhost/internal/infra/memory"
	"quizhost/internal/pkg/logger"
)

type capturingRecorder struct {
	mu       sync.Mutex
	attempts []domain.Attempt
	recorded chan domain.Attempt
}

func newCapturingRecorder() *capturingRecorder {
	return &capturingRecorder{recorded: make(chan domain.Attempt, 4)}
}

func (r *capturingRecorder) Record(_ context.Context, attempt domain.Attempt) (domain.Attempt, error) {
	r.mu.Lock()
	r.attempts = append(r.attempts, attempt)
	r.mu.Unlock()
	r.recorded <- attempt
	return attempt, nil
}

func (r *capturingRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.attempts)
}

func newTestTakeService(recorder app.AttemptRecorder, interval time.Duration) *app.TakeService {
	timed := sampleContent(1)
	timed.Quiz.ID = "quiz-2"
	cache := memory.NewContentCache(memory.NewStaticContentLoader(map[string]domain.QuizContent{
		"quiz-1": sampleContent(0),
		"quiz-2": timed,
		"quiz-off": {
			Quiz: domain.Quiz{ID: "quiz-off", IsActive: false, AccessCode: "OFF"},
		},
	}), 5*time.Minute)
	return app.NewTakeServiceWithTickInterval(cache, memory.NewSessionRegistry(), recorder, logger.NewNop(), interval)
}

func TestStartRejectsUnknownAndInactiveQuizzes(t *testing.T) {
	ctx := context.Background()
	service := newTestTakeService(newCapturingRecorder(), time.Second)

	if _, err := service.Start(ctx, "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := service.Start(ctx, "quiz-off"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("inactive quiz must read as not found, got %v", err)
	}
}

func TestFullTakeFlow(t *testing.T) {
	ctx := context.Background()
	recorder := newCapturingRecorder()
	service := newTestTakeService(recorder, time.Second)

	view, err := service.Start(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if view.State != app.StateGate {
		t.Fatalf("expected gate state, got %v", view.State)
	}

	if _, err := service.VerifyCode(ctx, view.ID, "nope"); !errors.Is(err, domain.ErrInvalidAccessCode) {
		t.Fatalf("expected gate rejection, got %v", err)
	}
	if _, err := service.VerifyCode(ctx, view.ID, "quiz1"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if _, err := service.Begin(ctx, view.ID, "Alice", "alice@example.com", "R1"); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := service.SelectAnswer(ctx, view.ID, "q1", 1); err != nil {
		t.Fatalf("answer: %v", err)
	}
	snap, err := service.Navigate(ctx, view.ID, 1)
	if err != nil {
		t.Fatalf("nav: %v", err)
	}
	if snap.Current != 1 || snap.Answered != 1 || snap.Total != 2 {
		t.Fatalf("unexpected progress %+v", snap)
	}

	attempt, err := service.Submit(ctx, view.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if attempt.Score != 1 || attempt.TotalQuestions != 2 {
		t.Fatalf("unexpected result %+v", attempt)
	}
	if recorder.count() != 1 {
		t.Fatalf("expected one recorded attempt, got %d", recorder.count())
	}

	if _, err := service.Submit(ctx, view.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("submitted session must stop resolving, got %v", err)
	}
}

func TestSubmitReclaimsSession(t *testing.T) {
	ctx := context.Background()
	registry := memory.NewSessionRegistry()
	cache := memory.NewContentCache(memory.NewStaticContentLoader(map[string]domain.QuizContent{
		"quiz-1": sampleContent(0),
	}), 5*time.Minute)
	service := app.NewTakeService(cache, registry, newCapturingRecorder(), logger.NewNop())

	view, err := service.Start(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, ok := registry.Get(view.ID); !ok {
		t.Fatalf("live session must resolve from the registry")
	}
	if _, err := service.VerifyCode(ctx, view.ID, "quiz1"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if _, err := service.Begin(ctx, view.ID, "Dee", "dee@example.com", "R4"); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := service.Submit(ctx, view.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, ok := registry.Get(view.ID); ok {
		t.Fatalf("submitted session must leave the registry")
	}
	if _, err := service.Snapshot(ctx, view.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session not found after submit, got %v", err)
	}
}

func TestTimerAutoSubmitsExactlyOnce(t *testing.T) {
	ctx := context.Background()
	recorder := newCapturingRecorder()
	service := newTestTakeService(recorder, time.Millisecond)

	view, err := service.Start(ctx, "quiz-2")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.VerifyCode(ctx, view.ID, "QUIZ1"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	snap, err := service.Begin(ctx, view.ID, "Bob", "bob@example.com", "R2")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if snap.Remaining != 60 {
		t.Fatalf("expected 60s countdown, got %d", snap.Remaining)
	}

	select {
	case attempt := <-recorder.recorded:
		if !attempt.Expired {
			t.Fatalf("auto-submitted attempt must be marked expired")
		}
		if attempt.Score != 0 {
			t.Fatalf("expected score 0, got %d", attempt.Score)
		}
		for _, record := range attempt.Answers {
			if record.SelectedAnswer != -1 {
				t.Fatalf("expected all answers -1, got %+v", record)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("auto-submit never fired")
	}

	// The countdown goroutine is done; nothing may submit again.
	time.Sleep(20 * time.Millisecond)
	if recorder.count() != 1 {
		t.Fatalf("expected exactly one auto-submit, got %d", recorder.count())
	}
	if _, err := service.Submit(ctx, view.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expired session must be reclaimed, got %v", err)
	}
}

func TestManualSubmitCancelsPendingCountdown(t *testing.T) {
	ctx := context.Background()
	recorder := newCapturingRecorder()
	service := newTestTakeService(recorder, time.Millisecond)

	view, err := service.Start(ctx, "quiz-2")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.VerifyCode(ctx, view.ID, "QUIZ1"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if _, err := service.Begin(ctx, view.ID, "Cara", "cara@example.com", "R3"); err != nil {
		t.Fatalf("begin: %v", err)
	}

	if _, err := service.Submit(ctx, view.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	<-recorder.recorded

	// Give a lingering ticker time to misfire if cancellation were broken.
	time.Sleep(20 * time.Millisecond)
	if recorder.count() != 1 {
		t.Fatalf("timer fired after manual submit: %d attempts", recorder.count())
	}
}

func TestWatchStreamsCountdown(t *testing.T) {
	ctx := context.Background()
	service := newTestTakeService(newCapturingRecorder(), time.Hour)

	view, err := service.Start(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	ch, cancel, err := service.Watch(ctx, view.ID)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer cancel()
	if event := <-ch; event.Remaining != -1 {
		t.Fatalf("expected initial snapshot with no countdown, got %+v", event)
	}

	if _, _, err := service.Watch(ctx, "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
}
