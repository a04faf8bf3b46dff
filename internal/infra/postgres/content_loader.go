package postgres

import (
	"context"

	"quizhost/internal/domain"
)

// ContentLoader assembles quiz content (quiz + questions) for the content
// cache on a miss.
type ContentLoader struct {
	store *Store
}

func NewContentLoader(store *Store) *ContentLoader {
	return &ContentLoader{store: store}
}

func (l *ContentLoader) LoadContent(ctx context.Context, quizID string) (domain.QuizContent, error) {
	quiz, err := l.store.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.QuizContent{}, err
	}
	questions, err := l.store.ListQuestionsByQuiz(ctx, quizID)
	if err != nil {
		return domain.QuizContent{}, err
	}
	return domain.QuizContent{Quiz: quiz, Questions: questions}, nil
}
