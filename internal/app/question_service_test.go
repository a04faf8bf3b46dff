package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"quizhost/internal/app"
	"quizhost/internal/domain"
	"quizhost/internal/pkg/logger"
)

type fakeQuestionStore struct {
	questions map[string]domain.Question // by question id
}

func newFakeQuestionStore() *fakeQuestionStore {
	return &fakeQuestionStore{questions: make(map[string]domain.Question)}
}

func (f *fakeQuestionStore) ListQuestionsByQuiz(_ context.Context, quizID string) ([]domain.Question, error) {
	out := []domain.Question{}
	for _, q := range f.questions {
		if q.QuizID == quizID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestionStore) CreateQuestion(_ context.Context, question domain.Question) error {
	f.questions[question.ID] = question
	return nil
}

func (f *fakeQuestionStore) DeleteQuestion(_ context.Context, questionID string) (string, error) {
	q, ok := f.questions[questionID]
	if !ok {
		return "", domain.ErrQuestionNotFound
	}
	delete(f.questions, questionID)
	return q.QuizID, nil
}

type recordingInvalidator struct {
	mu      sync.Mutex
	quizIDs []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, quizID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quizIDs = append(r.quizIDs, quizID)
	return nil
}

func newQuestionFixture() (*app.QuestionService, *fakeQuestionStore, *fakeCatalogStore, *recordingInvalidator) {
	questions := newFakeQuestionStore()
	quizzes := newFakeCatalogStore()
	quizzes.quizzes["quiz-1"] = domain.Quiz{ID: "quiz-1", CreatedBy: "owner@example.com"}
	cache := &recordingInvalidator{}
	return app.NewQuestionService(questions, quizzes, cache, logger.NewNop()), questions, quizzes, cache
}

func TestQuestionCreateValidatesAnswerIndex(t *testing.T) {
	service, store, _, cache := newQuestionFixture()

	_, err := service.Create(context.Background(), app.CreateQuestionInput{
		Text:          "2+2?",
		Options:       []string{"3", "4"},
		CorrectAnswer: 2,
	}, "quiz-1")
	if !errors.Is(err, domain.ErrInvalidCorrectAnswer) {
		t.Fatalf("expected invalid correct answer, got %v", err)
	}
	if len(store.questions) != 0 {
		t.Fatalf("nothing may be stored when validation fails")
	}
	if len(cache.quizIDs) != 0 {
		t.Fatalf("cache must not be touched when validation fails")
	}

	_, err = service.Create(context.Background(), app.CreateQuestionInput{
		Text:          "2+2?",
		Options:       []string{"3", "4"},
		CorrectAnswer: -1,
	}, "quiz-1")
	if !errors.Is(err, domain.ErrInvalidCorrectAnswer) {
		t.Fatalf("negative index must be rejected, got %v", err)
	}
}

func TestQuestionCreateInvalidatesCachedContent(t *testing.T) {
	service, store, _, cache := newQuestionFixture()

	question, err := service.Create(context.Background(), app.CreateQuestionInput{
		Text:          "2+2?",
		Options:       []string{"3", "4"},
		CorrectAnswer: 1,
	}, "quiz-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if question.ID == "" || question.QuizID != "quiz-1" {
		t.Fatalf("unexpected question %+v", question)
	}
	if len(store.questions) != 1 {
		t.Fatalf("expected 1 stored question, got %d", len(store.questions))
	}
	if len(cache.quizIDs) != 1 || cache.quizIDs[0] != "quiz-1" {
		t.Fatalf("expected cache invalidation for quiz-1, got %v", cache.quizIDs)
	}
}

func TestQuestionCreateRejectsUnknownQuiz(t *testing.T) {
	service, _, _, _ := newQuestionFixture()

	_, err := service.Create(context.Background(), app.CreateQuestionInput{
		Text:          "2+2?",
		Options:       []string{"3", "4"},
		CorrectAnswer: 1,
	}, "missing")
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
}

func TestQuestionDeleteInvalidatesOwningQuiz(t *testing.T) {
	service, store, _, cache := newQuestionFixture()
	store.questions["q1"] = domain.Question{ID: "q1", QuizID: "quiz-1"}

	if err := service.Delete(context.Background(), "q1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.questions) != 0 {
		t.Fatalf("question must be gone")
	}
	if len(cache.quizIDs) != 1 || cache.quizIDs[0] != "quiz-1" {
		t.Fatalf("expected invalidation for the owning quiz, got %v", cache.quizIDs)
	}

	if err := service.Delete(context.Background(), "q1"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected question not found, got %v", err)
	}
}

func TestQuestionListMasksAnswersForStrangers(t *testing.T) {
	service, store, _, _ := newQuestionFixture()
	store.questions["q1"] = domain.Question{ID: "q1", QuizID: "quiz-1", CorrectAnswer: 2}

	questions, err := service.ListForQuiz(context.Background(), "quiz-1", domain.Identity{Email: "someone@example.com"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if questions[0].CorrectAnswer != -1 {
		t.Fatalf("stranger must not see the correct answer, got %d", questions[0].CorrectAnswer)
	}

	questions, err = service.ListForQuiz(context.Background(), "quiz-1", domain.Identity{Email: "owner@example.com"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if questions[0].CorrectAnswer != 2 {
		t.Fatalf("owner must see the correct answer, got %d", questions[0].CorrectAnswer)
	}

	questions, err = service.ListForQuiz(context.Background(), "quiz-1", domain.Identity{Email: "admin@example.com", IsAdmin: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if questions[0].CorrectAnswer != 2 {
		t.Fatalf("admin must see the correct answer, got %d", questions[0].CorrectAnswer)
	}
}
