package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"quizhost/internal/domain"
	"quizhost/internal/pkg/logger"
)

// AttemptStore is the persistence surface of the attempt recorder. Inserting
// an attempt bumps the quiz's participant_count inside the same transaction.
type AttemptStore interface {
	InsertAttempt(ctx context.Context, attempt domain.Attempt) error
	ListAttempts(ctx context.Context, quizID string) ([]domain.Attempt, error)
	ListAttemptsByQuizOwner(ctx context.Context, ownerEmail, quizID string) ([]domain.Attempt, error)
}

// AttemptService accepts finished attempts and serves filtered retrieval for
// admins and quiz owners.
type AttemptService struct {
	store AttemptStore
	log   *logger.Logger
	now   func() time.Time
}

func NewAttemptService(store AttemptStore, log *logger.Logger) *AttemptService {
	return &AttemptService{store: store, log: log, now: time.Now}
}

// Record persists one attempt document. Missing ids and timestamps are filled
// in here so both the taking flow and the direct API path produce complete
// records.
func (s *AttemptService) Record(ctx context.Context, attempt domain.Attempt) (domain.Attempt, error) {
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	if attempt.CompletedAt.IsZero() {
		attempt.CompletedAt = s.now()
	}
	if attempt.Answers == nil {
		attempt.Answers = []domain.AnswerRecord{}
	}
	if err := s.store.InsertAttempt(ctx, attempt); err != nil {
		return domain.Attempt{}, err
	}
	s.log.Info("attempt recorded", "quizId", attempt.QuizID, "score", attempt.Score, "total", attempt.TotalQuestions)
	return attempt, nil
}

// List returns attempts visible to the caller: admins see everything, quiz
// owners see attempts against their own quizzes, everyone else sees nothing.
// quizID optionally narrows the result.
func (s *AttemptService) List(ctx context.Context, caller domain.Identity, quizID string) ([]domain.Attempt, error) {
	if caller.IsAdmin {
		return s.store.ListAttempts(ctx, quizID)
	}
	if caller.Email != "" {
		return s.store.ListAttemptsByQuizOwner(ctx, caller.Email, quizID)
	}
	return nil, domain.ErrUnauthorized
}
