package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"

	"quizhost/internal/domain"
)

func (s *Store) ListQuestionsByQuiz(ctx context.Context, quizID string) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, quiz_id, question, options, correct_answer, created_at
		FROM questions WHERE quiz_id=$1 ORDER BY created_at`, quizID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	questions := []domain.Question{}
	for rows.Next() {
		var q domain.Question
		var options []byte
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Text, &options, &q.CorrectAnswer, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// CreateQuestion inserts the question and bumps the parent quiz's
// question_count in the same transaction, so the counter never drifts from
// the rows it summarizes.
func (s *Store) CreateQuestion(ctx context.Context, question domain.Question) error {
	options, err := marshalJSON(question.Options)
	if err != nil {
		return err
	}
	return s.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO questions (id, quiz_id, question, options, correct_answer, created_at)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			question.ID, question.QuizID, question.Text, options, question.CorrectAnswer, question.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert question: %w", err)
		}
		ct, err := tx.Exec(ctx, `UPDATE quizzes SET question_count = question_count + 1 WHERE id=$1`, question.QuizID)
		if err != nil {
			return fmt.Errorf("bump question count: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return domain.ErrQuizNotFound
		}
		return nil
	})
}

// DeleteQuestion removes one question, decrements the parent counter, and
// reports which quiz owned it.
func (s *Store) DeleteQuestion(ctx context.Context, questionID string) (string, error) {
	var quizID string
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `DELETE FROM questions WHERE id=$1 RETURNING quiz_id`, questionID).Scan(&quizID)
		if err != nil {
			return notFound(err, domain.ErrQuestionNotFound)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE quizzes SET question_count = GREATEST(question_count - 1, 0) WHERE id=$1`, quizID); err != nil {
			return fmt.Errorf("drop question count: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return quizID, nil
}
