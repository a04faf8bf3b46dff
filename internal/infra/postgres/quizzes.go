package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"

	"quizhost/internal/domain"
)

const quizColumns = `id, title, description, created_by, created_at, is_active,
	access_code, time_limit, per_question_time, allow_skip, question_count, participant_count`

func scanQuiz(row pgx.Row) (domain.Quiz, error) {
	var q domain.Quiz
	err := row.Scan(&q.ID, &q.Title, &q.Description, &q.CreatedBy, &q.CreatedAt, &q.IsActive,
		&q.AccessCode, &q.TimeLimit, &q.PerQuestionTime, &q.AllowSkip, &q.QuestionCount, &q.ParticipantCount)
	return q, err
}

func (s *Store) ListActiveQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	return s.listQuizzes(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE is_active ORDER BY created_at DESC`)
}

func (s *Store) ListQuizzesByOwner(ctx context.Context, email string) ([]domain.Quiz, error) {
	return s.listQuizzes(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE created_by=$1 ORDER BY created_at DESC`, email)
}

func (s *Store) listQuizzes(ctx context.Context, query string, args ...interface{}) ([]domain.Quiz, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := []domain.Quiz{}
	for rows.Next() {
		quiz, err := scanQuiz(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, rows.Err()
}

func (s *Store) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	quiz, err := scanQuiz(s.pool.QueryRow(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE id=$1`, quizID))
	if err != nil {
		return domain.Quiz{}, notFound(err, domain.ErrQuizNotFound)
	}
	return quiz, nil
}

// CreateQuizWithQuestions inserts the quiz row and its initial questions as a
// single batched transaction, so a failure partway never leaves a quiz with a
// partial question set.
func (s *Store) CreateQuizWithQuestions(ctx context.Context, quiz domain.Quiz, questions []domain.Question) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO quizzes (`+quizColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			quiz.ID, quiz.Title, quiz.Description, quiz.CreatedBy, quiz.CreatedAt, quiz.IsActive,
			quiz.AccessCode, quiz.TimeLimit, quiz.PerQuestionTime, quiz.AllowSkip, len(questions), quiz.ParticipantCount)
		if err != nil {
			return fmt.Errorf("insert quiz: %w", err)
		}

		batch := &pgx.Batch{}
		for _, q := range questions {
			options, err := marshalJSON(q.Options)
			if err != nil {
				return err
			}
			batch.Queue(`
				INSERT INTO questions (id, quiz_id, question, options, correct_answer, created_at)
				VALUES ($1,$2,$3,$4,$5,$6)`,
				q.ID, q.QuizID, q.Text, options, q.CorrectAnswer, q.CreatedAt)
		}
		results := tx.SendBatch(ctx, batch)
		defer results.Close()
		for range questions {
			if _, err := results.Exec(); err != nil {
				return fmt.Errorf("insert question: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) DeleteQuestionsByQuiz(ctx context.Context, quizID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM questions WHERE quiz_id=$1`, quizID); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	return nil
}

func (s *Store) DeleteAttemptsByQuiz(ctx context.Context, quizID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM attempts WHERE quiz_id=$1`, quizID); err != nil {
		return fmt.Errorf("delete attempts: %w", err)
	}
	return nil
}

func (s *Store) DeleteQuiz(ctx context.Context, quizID string) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM quizzes WHERE id=$1`, quizID)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}
