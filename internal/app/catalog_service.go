package app

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"quizhost/internal/domain"
	"quizhost/internal/pkg/logger"
)

// CatalogStore is the persistence surface the quiz catalog needs.
type CatalogStore interface {
	ListActiveQuizzes(ctx context.Context) ([]domain.Quiz, error)
	ListQuizzesByOwner(ctx context.Context, email string) ([]domain.Quiz, error)
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	// CreateQuizWithQuestions inserts the quiz and its initial questions in a
	// single transaction, with question_count set to match.
	CreateQuizWithQuestions(ctx context.Context, quiz domain.Quiz, questions []domain.Question) error
	DeleteQuestionsByQuiz(ctx context.Context, quizID string) error
	DeleteAttemptsByQuiz(ctx context.Context, quizID string) error
	DeleteQuiz(ctx context.Context, quizID string) error
}

// CreateQuizInput is the validated create request.
type CreateQuizInput struct {
	Title           string
	Description     string
	AccessCode      string // optional; generated when empty
	TimeLimit       int    // minutes, 0 = unlimited
	PerQuestionTime int    // seconds, 0 = none
	AllowSkip       bool
	Questions       []CreateQuestionInput
}

// CreateQuestionInput is one question in a create request.
type CreateQuestionInput struct {
	Text          string
	Options       []string
	CorrectAnswer int
}

// CatalogService owns quiz list/create/delete, access-code generation, and the
// delete cascade over questions and attempts.
type CatalogService struct {
	store CatalogStore
	cache ContentInvalidator
	log   *logger.Logger
	now   func() time.Time
	rnd   *rand.Rand
}

func NewCatalogService(store CatalogStore, cache ContentInvalidator, log *logger.Logger) *CatalogService {
	return &CatalogService{
		store: store,
		cache: cache,
		log:   log,
		now:   time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewCatalogServiceWithClock is test-only for deterministic timestamps.
func NewCatalogServiceWithClock(store CatalogStore, cache ContentInvalidator, log *logger.Logger, now func() time.Time) *CatalogService {
	s := NewCatalogService(store, cache, log)
	s.now = now
	return s
}

// ListActive returns active quizzes, newest first, without access codes.
func (s *CatalogService) ListActive(ctx context.Context) ([]domain.Quiz, error) {
	quizzes, err := s.store.ListActiveQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range quizzes {
		quizzes[i].AccessCode = ""
	}
	return quizzes, nil
}

// ListOwned returns the quizzes created by the given email, codes included.
func (s *CatalogService) ListOwned(ctx context.Context, email string) ([]domain.Quiz, error) {
	return s.store.ListQuizzesByOwner(ctx, email)
}

// Get fetches a quiz by id. The access code stays server-side unless the
// caller owns the quiz or is an admin.
func (s *CatalogService) Get(ctx context.Context, quizID string, caller domain.Identity) (domain.Quiz, error) {
	quiz, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if !caller.IsAdmin && caller.Email != quiz.CreatedBy {
		quiz.AccessCode = ""
	}
	return quiz, nil
}

// Create inserts the quiz together with its initial questions in one
// transaction, so a failure partway never leaves a quiz with a partial
// question set.
func (s *CatalogService) Create(ctx context.Context, creator string, input CreateQuizInput) (domain.Quiz, error) {
	code := strings.ToUpper(strings.TrimSpace(input.AccessCode))
	if code == "" {
		code = s.generateAccessCode()
	}

	quiz := domain.Quiz{
		ID:              uuid.NewString(),
		Title:           input.Title,
		Description:     input.Description,
		CreatedBy:       creator,
		CreatedAt:       s.now(),
		IsActive:        true,
		AccessCode:      code,
		TimeLimit:       input.TimeLimit,
		PerQuestionTime: input.PerQuestionTime,
		AllowSkip:       input.AllowSkip,
		QuestionCount:   len(input.Questions),
	}

	questions := make([]domain.Question, 0, len(input.Questions))
	for _, q := range input.Questions {
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return domain.Quiz{}, domain.ErrInvalidCorrectAnswer
		}
		questions = append(questions, domain.Question{
			ID:            uuid.NewString(),
			QuizID:        quiz.ID,
			Text:          q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			CreatedAt:     quiz.CreatedAt,
		})
	}

	if err := s.store.CreateQuizWithQuestions(ctx, quiz, questions); err != nil {
		return domain.Quiz{}, err
	}
	s.log.Info("quiz created", "quizId", quiz.ID, "questions", len(questions), "createdBy", creator)
	return quiz, nil
}

// Delete removes a quiz and everything owned through it: questions first,
// then attempts, then the quiz itself. The cascade is best-effort; a failure
// partway stops there and is reported, leaving earlier deletions in place.
// Cached content is dropped last so a deleted quiz cannot admit new take
// sessions for the rest of the cache TTL.
func (s *CatalogService) Delete(ctx context.Context, quizID string) error {
	if _, err := s.store.GetQuiz(ctx, quizID); err != nil {
		return err
	}
	if err := s.store.DeleteQuestionsByQuiz(ctx, quizID); err != nil {
		return err
	}
	if err := s.store.DeleteAttemptsByQuiz(ctx, quizID); err != nil {
		return err
	}
	if err := s.store.DeleteQuiz(ctx, quizID); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, quizID); err != nil {
			s.log.Warn("content cache invalidation failed", "quizId", quizID, "err", err)
		}
	}
	s.log.Info("quiz deleted", "quizId", quizID)
	return nil
}

const accessCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateAccessCode returns a random 6-character uppercase code. Uniqueness
// is not enforced; collisions are possible and tolerated.
func (s *CatalogService) generateAccessCode() string {
	var b strings.Builder
	for i := 0; i < 6; i++ {
		b.WriteByte(accessCodeAlphabet[s.rnd.Intn(len(accessCodeAlphabet))])
	}
	return b.String()
}
