package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"quizhost/internal/domain"
	"quizhost/internal/pkg/logger"
)

// QuestionStore is the persistence surface of the question bank. Creation and
// deletion adjust the parent quiz's question_count inside the same transaction.
type QuestionStore interface {
	ListQuestionsByQuiz(ctx context.Context, quizID string) ([]domain.Question, error)
	CreateQuestion(ctx context.Context, question domain.Question) error
	// DeleteQuestion removes one question and reports the quiz that owned it.
	DeleteQuestion(ctx context.Context, questionID string) (quizID string, err error)
}

// ContentInvalidator drops cached quiz content after the question set changes.
type ContentInvalidator interface {
	Invalidate(ctx context.Context, quizID string) error
}

// QuestionService manages questions scoped to a quiz.
type QuestionService struct {
	store   QuestionStore
	quizzes CatalogStore
	cache   ContentInvalidator
	log     *logger.Logger
	now     func() time.Time
}

func NewQuestionService(store QuestionStore, quizzes CatalogStore, cache ContentInvalidator, log *logger.Logger) *QuestionService {
	return &QuestionService{store: store, quizzes: quizzes, cache: cache, log: log, now: time.Now}
}

// ListForQuiz returns all questions of a quiz. Unless the caller administers
// the platform or owns the quiz, correct answers are masked.
func (s *QuestionService) ListForQuiz(ctx context.Context, quizID string, caller domain.Identity) ([]domain.Question, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	questions, err := s.store.ListQuestionsByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin && caller.Email != quiz.CreatedBy {
		for i := range questions {
			questions[i].CorrectAnswer = -1
		}
	}
	return questions, nil
}

// Create validates the correct-answer index against the option list before
// anything touches the store, then inserts the question and bumps the parent
// quiz's question_count in one transaction.
func (s *QuestionService) Create(ctx context.Context, input CreateQuestionInput, quizID string) (domain.Question, error) {
	if input.CorrectAnswer < 0 || input.CorrectAnswer >= len(input.Options) {
		return domain.Question{}, domain.ErrInvalidCorrectAnswer
	}
	if _, err := s.quizzes.GetQuiz(ctx, quizID); err != nil {
		return domain.Question{}, err
	}

	question := domain.Question{
		ID:            uuid.NewString(),
		QuizID:        quizID,
		Text:          input.Text,
		Options:       input.Options,
		CorrectAnswer: input.CorrectAnswer,
		CreatedAt:     s.now(),
	}
	if err := s.store.CreateQuestion(ctx, question); err != nil {
		return domain.Question{}, err
	}
	s.invalidate(ctx, quizID)
	return question, nil
}

// Delete removes a single question and decrements the parent counter.
func (s *QuestionService) Delete(ctx context.Context, questionID string) error {
	quizID, err := s.store.DeleteQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	s.invalidate(ctx, quizID)
	return nil
}

func (s *QuestionService) invalidate(ctx context.Context, quizID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, quizID); err != nil {
		s.log.Warn("content cache invalidation failed", "quizId", quizID, "err", err)
	}
}
